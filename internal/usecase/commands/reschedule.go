package commands

import (
	"context"
	"encoding/json"
	"time"

	"visitdesk/internal/domain/reschedule"
	"visitdesk/internal/domain/reservation"
	"visitdesk/internal/infra"
	"visitdesk/internal/pkg/clock"
	"visitdesk/internal/pkg/errs"
	"visitdesk/internal/usecase/shared"

	"github.com/google/uuid"
)

type RescheduleCommands struct {
	uow        shared.UnitOfWork
	signer     reschedule.Signer
	resolver   ProposalResolver
	builder    *proposalBuilder
	clock      clock.Clock
	previewTTL time.Duration
	stateless  bool
}

func NewRescheduleCommands(
	uow shared.UnitOfWork,
	signer reschedule.Signer,
	resolver ProposalResolver,
	clk clock.Clock,
	previewTTL time.Duration,
	stateless bool,
) *RescheduleCommands {
	return &RescheduleCommands{
		uow:        uow,
		signer:     signer,
		resolver:   resolver,
		builder:    newProposalBuilder(),
		clock:      clk,
		previewTTL: previewTTL,
		stateless:  stateless,
	}
}

type PreviewRescheduleInput struct {
	TechnicianID uuid.UUID
	RouteDate    string // YYYY-MM-DD
	Rules        reschedule.Rules
	Actor        uuid.UUID
}

type PreviewRescheduleResult struct {
	PreviewID        uuid.UUID
	Hash             string
	ExpiresAt        time.Time
	Proposal         reschedule.Proposal
	SkippedLocked    int
	RequiresElevated bool
	CurrentVersions  map[uuid.UUID]int64
}

// PreviewReschedule computes the shifted route for one technician and one
// date without changing anything. The caller gets the full action list,
// the integrity hash, and a deadline; nothing is applied until confirm.
func (c *RescheduleCommands) PreviewReschedule(ctx context.Context, input PreviewRescheduleInput) (*PreviewRescheduleResult, error) {
	now := c.clock.Now()
	rules := input.Rules.Normalize()

	var result *PreviewRescheduleResult
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		proposal, stats, err := c.builder.build(ctx, tx, input.TechnicianID, input.RouteDate, rules)
		if err != nil {
			return err
		}

		hash, err := c.signer.Hash(proposal)
		if err != nil {
			return errs.Wrap(err, "failed to hash proposal")
		}

		preview := reschedule.Preview{
			ID:           uuid.New(),
			RouteDate:    proposal.RouteDate,
			TechnicianID: proposal.TechnicianID,
			Proposal:     proposal,
			Hash:         hash,
			ExpiresAt:    now.Add(c.previewTTL),
			CreatedBy:    input.Actor,
			CreatedAt:    now,
		}

		// Stateless mode carries everything in the response; there is
		// no preview row to persist or consume.
		if !c.stateless {
			if err := tx.Previews().Insert(ctx, preview); err != nil {
				return err
			}
		}

		result = &PreviewRescheduleResult{
			PreviewID:        preview.ID,
			Hash:             hash,
			ExpiresAt:        preview.ExpiresAt,
			Proposal:         proposal,
			SkippedLocked:    stats.SkippedLocked,
			RequiresElevated: stats.RequiresElevated,
			CurrentVersions:  stats.Versions,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

type ConfirmRescheduleInput struct {
	PreviewID        uuid.UUID
	Hash             string
	TechnicianID     uuid.UUID
	RouteDate        string
	Rules            reschedule.Rules
	ExpectedVersions map[uuid.UUID]int64
	Reason           string
	Actor            string
	Elevated         bool
	Comment          string
}

type ConfirmRescheduleResult struct {
	CanceledIDs []uuid.UUID
	CreatedIDs  []uuid.UUID
}

// ConfirmReschedule applies a previewed proposal atomically. Every original
// is row-locked in id order, re-validated against the proposal, and either
// the whole route moves or nothing does.
func (c *RescheduleCommands) ConfirmReschedule(ctx context.Context, input ConfirmRescheduleInput) (*ConfirmRescheduleResult, error) {
	now := c.clock.Now()
	input.Rules = input.Rules.Normalize()

	var result *ConfirmRescheduleResult
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		proposal, err := c.resolver.Resolve(ctx, tx, input, now)
		if err != nil {
			return err
		}
		if err := proposal.Validate(); err != nil {
			return errs.Mark(err, ErrInvalidInput)
		}

		originals, err := tx.Reservations().LockByIDs(ctx, proposal.OriginalIDs)
		if err != nil {
			return err
		}
		if len(originals) != len(proposal.OriginalIDs) {
			return ErrOriginalsChanged
		}
		byID := make(map[uuid.UUID]*reservation.Reservation, len(originals))
		for _, res := range originals {
			byID[res.ID()] = res
		}

		// Validate every pair before touching anything so a rejection
		// on the last visit leaves zero writes behind.
		pairs := proposal.Pairs()
		for _, pair := range pairs {
			cancel := pair[0]
			if cancel.ReservationID == nil {
				return errs.Mark(errs.New("cancel action missing reservation id"), ErrInvalidInput)
			}
			original, ok := byID[*cancel.ReservationID]
			if !ok {
				return ErrOriginalsChanged
			}
			if err := c.checkOriginal(original, cancel, input); err != nil {
				return err
			}
		}

		applied := &ConfirmRescheduleResult{}
		engagements := make(map[uuid.UUID]struct{})

		reason := input.Reason
		if reason == "" {
			reason = proposal.RouteDate
		}

		for _, pair := range pairs {
			cancel, create := pair[0], pair[1]
			original := byID[*cancel.ReservationID]

			window, err := reservation.NewTimeWindow(create.Start, create.End)
			if err != nil {
				return errs.Mark(err, ErrInvalidInput)
			}

			var replacement *reservation.Reservation
			if original.Status() == reservation.StatusConfirmed {
				replacement = reservation.NewConfirmed(create.TechnicianID, original.Link(), create.VisitKind, window)
			} else {
				replacement = reservation.NewScheduled(create.TechnicianID, original.Link(), create.VisitKind, window)
			}

			expectedVersion := original.Version()
			if err := original.Supersede(now, input.Actor, reason, replacement.ID()); err != nil {
				return errs.Mark(err, ErrOriginalsChanged)
			}
			if err := tx.Reservations().Update(ctx, original, expectedVersion); err != nil {
				if infra.IsKind(err, infra.KindConflict) {
					return errs.Mark(err, ErrVersionConflict)
				}
				return err
			}

			// The original is canceled before the replacement is
			// inserted so the exclusion constraint never sees the
			// old and new windows coexist.
			if err := tx.Reservations().Create(ctx, replacement); err != nil {
				if infra.IsKind(err, infra.KindConflict) {
					return errs.Mark(err, ErrSlotTaken)
				}
				return err
			}

			if err := tx.Audit().Record(ctx, shared.AuditEntry{
				EntityType: "reservation",
				EntityID:   original.ID().String(),
				Action:     "visit.superseded",
				NewData:    reservationAuditData(original),
				Actor:      input.Actor,
				Metadata:   shared.AuditMetadata{RouteDate: proposal.RouteDate, Reason: reason},
			}); err != nil {
				return err
			}
			if err := tx.Audit().Record(ctx, shared.AuditEntry{
				EntityType: "reservation",
				EntityID:   replacement.ID().String(),
				Action:     "visit.created",
				NewData:    reservationAuditData(replacement),
				Actor:      input.Actor,
				Metadata:   shared.AuditMetadata{RouteDate: proposal.RouteDate},
			}); err != nil {
				return err
			}

			applied.CanceledIDs = append(applied.CanceledIDs, original.ID())
			applied.CreatedIDs = append(applied.CreatedIDs, replacement.ID())
			if engagementID := original.Link().EngagementID(); engagementID != nil {
				engagements[*engagementID] = struct{}{}
			}
		}

		for engagementID := range engagements {
			if err := tx.Engagements().RefreshNextVisit(ctx, engagementID); err != nil {
				return err
			}
		}

		if err := tx.Audit().Record(ctx, shared.AuditEntry{
			EntityType: "route",
			EntityID:   proposal.TechnicianID.String() + "/" + proposal.RouteDate,
			Action:     "route.rescheduled",
			Actor:      input.Actor,
			Metadata: shared.AuditMetadata{
				RouteDate:   proposal.RouteDate,
				Reason:      reason,
				Comment:     input.Comment,
				CancelCount: len(applied.CanceledIDs),
				CreateCount: len(applied.CreatedIDs),
			},
		}); err != nil {
			return err
		}

		payload, err := json.Marshal(map[string]any{
			"technicianId": proposal.TechnicianID.String(),
			"routeDate":    proposal.RouteDate,
			"moved":        len(applied.CreatedIDs),
		})
		if err != nil {
			return errs.Wrap(err, "failed to build notification payload")
		}
		if err := tx.Notifications().CreateJob(ctx, "route.rescheduled", "technician", payload, now); err != nil {
			return err
		}

		result = applied
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// checkOriginal re-validates one original under its row lock: it must
// still be the reservation the proposal described, at the version the
// caller previewed, still movable under the preserve level, and within
// the actor's authority.
func (c *RescheduleCommands) checkOriginal(original *reservation.Reservation, cancel reschedule.Action, input ConfirmRescheduleInput) error {
	if !original.IsActive() || original.IsHeld() {
		return ErrOriginalsChanged
	}
	if !sameInstant(original.Window().Start(), cancel.Start) || !sameInstant(original.Window().End(), cancel.End) {
		return ErrOriginalsChanged
	}
	expected, ok := input.ExpectedVersions[original.ID()]
	if !ok || expected != original.Version() {
		return ErrVersionConflict
	}
	if original.RequiresElevated() && !input.Elevated {
		return ErrForbidden
	}
	if !original.Movable(input.Rules.PreserveLockLevel) && !input.Elevated {
		return ErrForbidden
	}
	return nil
}

// sameInstant compares at second precision, matching the canonical
// proposal encoding.
func sameInstant(a, b time.Time) bool {
	return a.UTC().Truncate(time.Second).Equal(b.UTC().Truncate(time.Second))
}
