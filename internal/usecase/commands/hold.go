package commands

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"visitdesk/internal/domain/reservation"
	"visitdesk/internal/domain/schedule"
	"visitdesk/internal/infra"
	"visitdesk/internal/pkg/clock"
	"visitdesk/internal/pkg/errs"
	"visitdesk/internal/usecase/shared"

	"github.com/google/uuid"
)

const cancelReasonTakenOver = "TAKEN_OVER"

type HoldCommands struct {
	uow         shared.UnitOfWork
	technicians TechnicianReader
	clock       clock.Clock
	rules       schedule.Rules
	holdTTL     time.Duration
}

func NewHoldCommands(
	uow shared.UnitOfWork,
	technicians TechnicianReader,
	clk clock.Clock,
	rules schedule.Rules,
	holdTTL time.Duration,
) *HoldCommands {
	return &HoldCommands{
		uow:         uow,
		technicians: technicians,
		clock:       clk,
		rules:       rules,
		holdTTL:     holdTTL,
	}
}

type CreateHoldInput struct {
	Channel        reservation.Channel
	ConversationID string
	ContactPhone   string
	EngagementID   *uuid.UUID
	ContactID      *uuid.UUID
	TechnicianID   *uuid.UUID // pin a specific technician, optional
	VisitKind      reservation.VisitKind
	Window         *reservation.TimeWindow // request a specific window, optional
}

type HoldResult struct {
	ReservationID uuid.UUID
	TechnicianID  uuid.UUID
	Window        reservation.TimeWindow
	Status        reservation.Status
	ExpiresAt     *time.Time
}

// CreateHold places a provisional reservation for a conversation.
//
// Re-invoking from the same conversation while its hold is live returns
// that hold unchanged. A new conversation from the same contact phone
// takes over: the stale hold is canceled before the new one is placed.
func (c *HoldCommands) CreateHold(ctx context.Context, input CreateHoldInput) (*HoldResult, error) {
	ref, err := reservation.NewConversationRef(input.Channel, input.ConversationID, input.ContactPhone)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidInput)
	}
	if !input.VisitKind.IsValid() {
		return nil, errs.Mark(errs.New("invalid visit kind"), ErrInvalidInput)
	}

	now := c.clock.Now()

	var result *HoldResult
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if existing, err := c.findLiveHold(ctx, tx, ref, now); err != nil {
			return err
		} else if existing != nil {
			result = existing
			return nil
		}

		if err := c.takeOverStaleHold(ctx, tx, ref, now); err != nil {
			return err
		}

		technicianID, window, err := c.pickSlot(ctx, tx, input, now)
		if err != nil {
			return err
		}

		link, err := c.resolveLink(ctx, tx, ref, input)
		if err != nil {
			return err
		}

		hold := reservation.NewHold(technicianID, link, input.VisitKind, window, now, c.holdTTL)
		if err := tx.Reservations().Create(ctx, hold); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return errs.Mark(err, ErrSlotTaken)
			}
			return err
		}

		lock := reservation.ConversationLock{
			Channel:        ref.Channel(),
			ConversationID: ref.ConversationID(),
			ReservationID:  hold.ID(),
			ContactPhone:   ref.ContactPhone(),
			ExpiresAt:      *hold.HoldExpiresAt(),
		}
		if err := tx.ConversationLocks().Upsert(ctx, lock); err != nil {
			return err
		}

		if err := tx.Audit().Record(ctx, shared.AuditEntry{
			EntityType: "reservation",
			EntityID:   hold.ID().String(),
			Action:     "hold.created",
			NewData:    reservationAuditData(hold),
			Actor:      auditActor(ref),
			Metadata: shared.AuditMetadata{
				Channel:        ref.Channel().String(),
				ConversationID: ref.ConversationID(),
			},
		}); err != nil {
			return err
		}

		result = &HoldResult{
			ReservationID: hold.ID(),
			TechnicianID:  hold.TechnicianID(),
			Window:        hold.Window(),
			Status:        hold.Status(),
			ExpiresAt:     hold.HoldExpiresAt(),
		}
		return nil
	})
	if err != nil {
		// An unlinked conversation that found no slot still gets its lead
		// recorded; the failed transaction kept nothing.
		if input.EngagementID == nil && input.ContactID == nil &&
			(errors.Is(err, ErrNoResourceAvailable) || errors.Is(err, ErrNoSlotFound)) {
			if leadErr := c.recordLead(ctx, ref, err); leadErr != nil {
				err = errs.WithSecondary(err, leadErr)
			}
		}
		return nil, err
	}
	return result, nil
}

// recordLead persists the inbound contact after a dead-end slot search so
// an operator can call back with an offer later.
func (c *HoldCommands) recordLead(ctx context.Context, ref reservation.ConversationRef, cause error) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		contactID, err := tx.Contacts().CreateLead(ctx, ref.Channel(), ref.ConversationID(), ref.ContactPhone())
		if err != nil {
			return err
		}
		return tx.Audit().Record(ctx, shared.AuditEntry{
			EntityType: "contact",
			EntityID:   contactID.String(),
			Action:     "lead.recorded",
			Actor:      auditActor(ref),
			Metadata: shared.AuditMetadata{
				Channel:        ref.Channel().String(),
				ConversationID: ref.ConversationID(),
				Reason:         cause.Error(),
			},
		})
	})
}

// findLiveHold returns the conversation's existing hold if it is still
// live, cleaning up a stale binding otherwise.
func (c *HoldCommands) findLiveHold(ctx context.Context, tx shared.Tx, ref reservation.ConversationRef, now time.Time) (*HoldResult, error) {
	lock, err := tx.ConversationLocks().FindByConversation(ctx, ref.Channel(), ref.ConversationID())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil
		}
		return nil, err
	}

	res, err := tx.Reservations().FindForUpdate(ctx, lock.ReservationID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, tx.ConversationLocks().Delete(ctx, ref.Channel(), ref.ConversationID())
		}
		return nil, err
	}

	if res.IsHeld() && !res.HoldExpired(now) {
		return &HoldResult{
			ReservationID: res.ID(),
			TechnicianID:  res.TechnicianID(),
			Window:        res.Window(),
			Status:        res.Status(),
			ExpiresAt:     res.HoldExpiresAt(),
		}, nil
	}

	// Lapsed or already resolved; drop the binding so a fresh hold can
	// be placed. Expired holds are canceled here rather than waiting
	// for the sweep.
	if res.HoldExpired(now) {
		if err := res.Cancel(now, "system", reservation.CancelReasonHoldExpired); err == nil {
			if err := tx.Reservations().Update(ctx, res, res.Version()-1); err != nil {
				return nil, err
			}
		}
	}
	return nil, tx.ConversationLocks().Delete(ctx, ref.Channel(), ref.ConversationID())
}

// takeOverStaleHold cancels a live hold the same contact placed under a
// different conversation.
func (c *HoldCommands) takeOverStaleHold(ctx context.Context, tx shared.Tx, ref reservation.ConversationRef, now time.Time) error {
	if ref.ContactPhone() == "" {
		return nil
	}

	lock, err := tx.ConversationLocks().FindActiveByPhone(ctx, ref.ContactPhone(), now)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil
		}
		return err
	}
	if lock.SameConversation(ref) {
		return nil
	}

	res, err := tx.Reservations().FindForUpdate(ctx, lock.ReservationID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return tx.ConversationLocks().DeleteByReservation(ctx, lock.ReservationID)
		}
		return err
	}

	if res.IsHeld() {
		expectedVersion := res.Version()
		if err := res.Cancel(now, "system", cancelReasonTakenOver); err != nil {
			return err
		}
		if err := tx.Reservations().Update(ctx, res, expectedVersion); err != nil {
			return err
		}
		if err := tx.Audit().Record(ctx, shared.AuditEntry{
			EntityType: "reservation",
			EntityID:   res.ID().String(),
			Action:     "hold.taken_over",
			Actor:      auditActor(ref),
			Metadata: shared.AuditMetadata{
				Channel:        ref.Channel().String(),
				ConversationID: ref.ConversationID(),
				Reason:         cancelReasonTakenOver,
			},
		}); err != nil {
			return err
		}
	}
	return tx.ConversationLocks().DeleteByReservation(ctx, lock.ReservationID)
}

func (c *HoldCommands) resolveLink(ctx context.Context, tx shared.Tx, ref reservation.ConversationRef, input CreateHoldInput) (reservation.LinkRef, error) {
	if input.EngagementID != nil || input.ContactID != nil {
		link, err := reservation.NewLinkRef(input.EngagementID, input.ContactID)
		if err != nil {
			return reservation.LinkRef{}, errs.Mark(err, ErrInvalidInput)
		}
		return link, nil
	}

	// Unlinked inbound conversation: register it as a contact so the
	// reservation has an owner.
	contactID, err := tx.Contacts().CreateLead(ctx, ref.Channel(), ref.ConversationID(), ref.ContactPhone())
	if err != nil {
		return reservation.LinkRef{}, err
	}
	return reservation.NewLinkRef(nil, &contactID)
}

func (c *HoldCommands) pickSlot(ctx context.Context, tx shared.Tx, input CreateHoldInput, now time.Time) (uuid.UUID, reservation.TimeWindow, error) {
	horizon := now.AddDate(0, 0, c.rules.HorizonDays+1)

	if input.TechnicianID != nil {
		ok, err := c.technicians.Exists(ctx, tx.DB(), *input.TechnicianID)
		if err != nil {
			return uuid.Nil, reservation.TimeWindow{}, err
		}
		if !ok {
			return uuid.Nil, reservation.TimeWindow{}, errs.Mark(errs.New("technician not found"), ErrNotFound)
		}
		window, found, err := c.freeWindowFor(ctx, tx, *input.TechnicianID, input.Window, now, horizon)
		if err != nil {
			return uuid.Nil, reservation.TimeWindow{}, err
		}
		if !found {
			return uuid.Nil, reservation.TimeWindow{}, c.slotError(input)
		}
		return *input.TechnicianID, window, nil
	}

	candidates, err := c.technicians.ListActive(ctx, tx.DB())
	if err != nil {
		return uuid.Nil, reservation.TimeWindow{}, err
	}
	if len(candidates) == 0 {
		return uuid.Nil, reservation.TimeWindow{}, ErrNoResourceAvailable
	}

	for _, tech := range candidates {
		window, found, err := c.freeWindowFor(ctx, tx, tech.ID, input.Window, now, horizon)
		if err != nil {
			return uuid.Nil, reservation.TimeWindow{}, err
		}
		if found {
			return tech.ID, window, nil
		}
	}
	return uuid.Nil, reservation.TimeWindow{}, c.slotError(input)
}

func (c *HoldCommands) freeWindowFor(ctx context.Context, tx shared.Tx, technicianID uuid.UUID, requested *reservation.TimeWindow, now, horizon time.Time) (reservation.TimeWindow, bool, error) {
	busy, err := tx.Reservations().ActiveWindows(ctx, technicianID, now, horizon)
	if err != nil {
		return reservation.TimeWindow{}, false, err
	}

	if requested != nil {
		if !requested.MeetsLeadTimeAt(now, c.rules.MinLeadTime) {
			return reservation.TimeWindow{}, false, errs.Mark(errs.New("window inside minimum lead time"), ErrInvalidInput)
		}
		for _, b := range busy {
			if requested.Overlaps(b) {
				return reservation.TimeWindow{}, false, nil
			}
		}
		return *requested, true, nil
	}

	return schedule.FirstFree(c.rules, now, busy)
}

func (c *HoldCommands) slotError(input CreateHoldInput) error {
	if input.Window != nil {
		return ErrSlotTaken
	}
	return ErrNoSlotFound
}

type ConfirmHoldInput struct {
	Channel        reservation.Channel
	ConversationID string
	Actor          string
}

// ConfirmHold promotes the conversation's hold to a confirmed visit.
// Expiry is re-checked against the clock here; a lapsed hold is canceled
// and reported expired even if the sweep has not reached it yet.
func (c *HoldCommands) ConfirmHold(ctx context.Context, input ConfirmHoldInput) (*HoldResult, error) {
	now := c.clock.Now()

	var result *HoldResult
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		lock, err := tx.ConversationLocks().FindByConversation(ctx, input.Channel, input.ConversationID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrNotFound)
			}
			return err
		}

		res, err := tx.Reservations().FindForUpdate(ctx, lock.ReservationID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrNotFound)
			}
			return err
		}

		expectedVersion := res.Version()
		if err := res.Confirm(now); err != nil {
			if errors.Is(err, reservation.ErrHoldExpired) {
				if cancelErr := res.Cancel(now, "system", reservation.CancelReasonHoldExpired); cancelErr == nil {
					if updateErr := tx.Reservations().Update(ctx, res, expectedVersion); updateErr != nil {
						return updateErr
					}
					if delErr := tx.ConversationLocks().Delete(ctx, input.Channel, input.ConversationID); delErr != nil {
						return delErr
					}
				}
				return errs.Mark(err, ErrHoldExpired)
			}
			return errs.Mark(err, ErrNotFound)
		}

		if err := tx.Reservations().Update(ctx, res, expectedVersion); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return errs.Mark(err, ErrVersionConflict)
			}
			// The one-confirmed-primary-per-engagement index fires here
			// when another primary visit was confirmed mid-conversation.
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return errs.Mark(err, ErrSlotTaken)
			}
			return err
		}

		if err := tx.ConversationLocks().Delete(ctx, input.Channel, input.ConversationID); err != nil {
			return err
		}

		if contactID := res.Link().ContactID(); contactID != nil {
			if err := tx.Contacts().MarkScheduled(ctx, *contactID); err != nil {
				return err
			}
		}
		if engagementID := res.Link().EngagementID(); engagementID != nil {
			if err := tx.Engagements().RefreshNextVisit(ctx, *engagementID); err != nil {
				return err
			}
		}

		if err := tx.Audit().Record(ctx, shared.AuditEntry{
			EntityType: "reservation",
			EntityID:   res.ID().String(),
			Action:     "hold.confirmed",
			NewData:    reservationAuditData(res),
			Actor:      input.Actor,
			Metadata: shared.AuditMetadata{
				Channel:        input.Channel.String(),
				ConversationID: input.ConversationID,
			},
		}); err != nil {
			return err
		}

		payload, err := json.Marshal(map[string]string{
			"reservationId": res.ID().String(),
			"technicianId":  res.TechnicianID().String(),
			"start":         res.Window().Start().Format(time.RFC3339),
			"end":           res.Window().End().Format(time.RFC3339),
		})
		if err != nil {
			return errs.Wrap(err, "failed to build notification payload")
		}
		if err := tx.Notifications().CreateJob(ctx, "visit.confirmed", "contact", payload, now); err != nil {
			return err
		}

		result = &HoldResult{
			ReservationID: res.ID(),
			TechnicianID:  res.TechnicianID(),
			Window:        res.Window(),
			Status:        res.Status(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

type CancelHoldInput struct {
	Channel        reservation.Channel
	ConversationID string
	Actor          string
	Reason         string
}

// CancelHold releases the conversation's hold. Canceling a conversation
// with no live hold is a no-op, so callers can fire it unconditionally
// when a conversation ends.
func (c *HoldCommands) CancelHold(ctx context.Context, input CancelHoldInput) error {
	now := c.clock.Now()
	reason := input.Reason
	if reason == "" {
		reason = reservation.CancelReasonDeclined
	}

	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		lock, err := tx.ConversationLocks().FindByConversation(ctx, input.Channel, input.ConversationID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil
			}
			return err
		}

		res, err := tx.Reservations().FindForUpdate(ctx, lock.ReservationID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return tx.ConversationLocks().Delete(ctx, input.Channel, input.ConversationID)
			}
			return err
		}

		if res.IsHeld() {
			expectedVersion := res.Version()
			if err := res.Cancel(now, input.Actor, reason); err != nil {
				return err
			}
			if err := tx.Reservations().Update(ctx, res, expectedVersion); err != nil {
				return err
			}
			if err := tx.Audit().Record(ctx, shared.AuditEntry{
				EntityType: "reservation",
				EntityID:   res.ID().String(),
				Action:     "hold.canceled",
				Actor:      input.Actor,
				Metadata: shared.AuditMetadata{
					Channel:        input.Channel.String(),
					ConversationID: input.ConversationID,
					Reason:         reason,
				},
			}); err != nil {
				return err
			}
		}

		return tx.ConversationLocks().Delete(ctx, input.Channel, input.ConversationID)
	})
}

// ExpireHolds sweeps every lapsed hold in one transaction and returns how
// many were canceled.
func (c *HoldCommands) ExpireHolds(ctx context.Context) (int, error) {
	now := c.clock.Now()

	var expired int
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		ids, err := tx.Reservations().ExpireHolds(ctx, now)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		if err := tx.ConversationLocks().DeleteByReservations(ctx, ids); err != nil {
			return err
		}

		for _, id := range ids {
			if err := tx.Audit().Record(ctx, shared.AuditEntry{
				EntityType: "reservation",
				EntityID:   id.String(),
				Action:     "hold.expired",
				Actor:      "system",
				Metadata:   shared.AuditMetadata{Reason: reservation.CancelReasonHoldExpired},
			}); err != nil {
				return err
			}
		}

		expired = len(ids)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return expired, nil
}

func reservationAuditData(res *reservation.Reservation) map[string]any {
	return map[string]any{
		"technicianId": res.TechnicianID().String(),
		"visitKind":    res.VisitKind().String(),
		"start":        res.Window().Start().Format(time.RFC3339),
		"end":          res.Window().End().Format(time.RFC3339),
		"status":       res.Status().String(),
	}
}

func auditActor(ref reservation.ConversationRef) string {
	return ref.Channel().String() + ":" + ref.ConversationID()
}
