// Package reschedule models the propose-then-commit protocol for moving a
// technician's whole day. A proposal is canonicalized to stable bytes and
// keyed-hashed so the preview returned to the caller cannot be forged or
// altered before confirm.
package reschedule

import (
	"encoding/json"
	"errors"
	"time"

	"visitdesk/internal/domain/reservation"

	"github.com/google/uuid"
)

var (
	ErrEmptyProposal   = errors.New("proposal has no actions")
	ErrUnpairedActions = errors.New("cancel and create actions must be paired")
)

type ActionType string

const (
	ActionCancel ActionType = "cancel"
	ActionCreate ActionType = "create"
)

type Action struct {
	Type          ActionType
	ReservationID *uuid.UUID // set for cancel actions
	TechnicianID  uuid.UUID
	VisitKind     reservation.VisitKind
	Start         time.Time
	End           time.Time
}

// Proposal is the full payload of a preview: the reservations it will
// cancel and the replacements it will create, in order. Pairing is by
// position: the i-th cancel corresponds to the i-th create.
type Proposal struct {
	RouteDate    string // YYYY-MM-DD
	TechnicianID uuid.UUID
	OriginalIDs  []uuid.UUID
	Actions      []Action
}

func (p Proposal) Validate() error {
	if len(p.Actions) == 0 {
		return ErrEmptyProposal
	}
	var cancels, creates int
	for _, a := range p.Actions {
		switch a.Type {
		case ActionCancel:
			cancels++
		case ActionCreate:
			creates++
		}
	}
	if cancels != creates || cancels != len(p.OriginalIDs) {
		return ErrUnpairedActions
	}
	return nil
}

// Pairs returns the (cancel, create) action pairs in original order.
func (p Proposal) Pairs() [][2]Action {
	var cancels, creates []Action
	for _, a := range p.Actions {
		switch a.Type {
		case ActionCancel:
			cancels = append(cancels, a)
		case ActionCreate:
			creates = append(creates, a)
		}
	}
	n := min(len(cancels), len(creates))
	pairs := make([][2]Action, 0, n)
	for i := 0; i < n; i++ {
		pairs = append(pairs, [2]Action{cancels[i], creates[i]})
	}
	return pairs
}

// canonical mirrors Proposal with fixed key order and second-precision
// UTC timestamps so the hash input is byte-stable across round trips.
type canonicalProposal struct {
	RouteDate    string            `json:"routeDate"`
	TechnicianID string            `json:"technicianId"`
	OriginalIDs  []string          `json:"originalIds"`
	Actions      []canonicalAction `json:"actions"`
}

type canonicalAction struct {
	Type          string `json:"type"`
	ReservationID string `json:"reservationId,omitempty"`
	TechnicianID  string `json:"technicianId"`
	VisitKind     string `json:"visitKind"`
	Start         string `json:"start"`
	End           string `json:"end"`
}

// Canonical serializes the proposal with stable key order and no
// whitespace. Equal proposals always produce equal bytes.
func (p Proposal) Canonical() ([]byte, error) {
	c := canonicalProposal{
		RouteDate:    p.RouteDate,
		TechnicianID: p.TechnicianID.String(),
		OriginalIDs:  make([]string, len(p.OriginalIDs)),
		Actions:      make([]canonicalAction, len(p.Actions)),
	}
	for i, id := range p.OriginalIDs {
		c.OriginalIDs[i] = id.String()
	}
	for i, a := range p.Actions {
		ca := canonicalAction{
			Type:         string(a.Type),
			TechnicianID: a.TechnicianID.String(),
			VisitKind:    a.VisitKind.String(),
			Start:        a.Start.UTC().Truncate(time.Second).Format(time.RFC3339),
			End:          a.End.UTC().Truncate(time.Second).Format(time.RFC3339),
		}
		if a.ReservationID != nil {
			ca.ReservationID = a.ReservationID.String()
		}
		c.Actions[i] = ca
	}
	return json.Marshal(c)
}

// ParseCanonical decodes bytes produced by Canonical back into a
// Proposal. Round-tripping through it is hash-stable.
func ParseCanonical(data []byte) (Proposal, error) {
	var c canonicalProposal
	if err := json.Unmarshal(data, &c); err != nil {
		return Proposal{}, err
	}

	techID, err := uuid.Parse(c.TechnicianID)
	if err != nil {
		return Proposal{}, err
	}

	p := Proposal{
		RouteDate:    c.RouteDate,
		TechnicianID: techID,
		OriginalIDs:  make([]uuid.UUID, len(c.OriginalIDs)),
		Actions:      make([]Action, len(c.Actions)),
	}
	for i, s := range c.OriginalIDs {
		id, err := uuid.Parse(s)
		if err != nil {
			return Proposal{}, err
		}
		p.OriginalIDs[i] = id
	}
	for i, ca := range c.Actions {
		a := Action{
			Type:      ActionType(ca.Type),
			VisitKind: reservation.VisitKind(ca.VisitKind),
		}
		a.TechnicianID, err = uuid.Parse(ca.TechnicianID)
		if err != nil {
			return Proposal{}, err
		}
		if ca.ReservationID != "" {
			id, err := uuid.Parse(ca.ReservationID)
			if err != nil {
				return Proposal{}, err
			}
			a.ReservationID = &id
		}
		a.Start, err = time.Parse(time.RFC3339, ca.Start)
		if err != nil {
			return Proposal{}, err
		}
		a.End, err = time.Parse(time.RFC3339, ca.End)
		if err != nil {
			return Proposal{}, err
		}
		a.Start, a.End = a.Start.UTC(), a.End.UTC()
		p.Actions[i] = a
	}
	return p, nil
}

// Rules parameterize a preview. PreserveLockLevel leaves reservations at
// or above that level untouched; ShiftDays is the move distance.
type Rules struct {
	PreserveLockLevel int
	ShiftDays         int
}

func (r Rules) Normalize() Rules {
	if r.PreserveLockLevel <= 0 {
		r.PreserveLockLevel = reservation.LockOperational
	}
	if r.ShiftDays == 0 {
		r.ShiftDays = 1
	}
	return r
}
