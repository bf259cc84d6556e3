package commands

import (
	"context"
	"time"

	"visitdesk/internal/domain/reschedule"
	"visitdesk/internal/infra"
	"visitdesk/internal/pkg/errs"
	"visitdesk/internal/usecase/shared"
)

// ProposalResolver turns a confirm request into the proposal to apply.
//
// The stored resolver trusts the persisted preview row and gets the
// consume-at-most-once guarantee from it. The stateless resolver carries
// no server state between preview and confirm; it recomputes the proposal
// from the live route and relies on the keyed hash to prove the caller is
// confirming what they previewed.
type ProposalResolver interface {
	Resolve(ctx context.Context, tx shared.Tx, req ConfirmRescheduleInput, now time.Time) (reschedule.Proposal, error)
}

type StoredResolver struct {
	signer reschedule.Signer
}

func NewStoredResolver(signer reschedule.Signer) *StoredResolver {
	return &StoredResolver{signer: signer}
}

func (r *StoredResolver) Resolve(ctx context.Context, tx shared.Tx, req ConfirmRescheduleInput, now time.Time) (reschedule.Proposal, error) {
	preview, err := tx.Previews().FindForUpdate(ctx, req.PreviewID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return reschedule.Proposal{}, errs.Mark(err, ErrNotFound)
		}
		return reschedule.Proposal{}, err
	}

	if preview.Consumed() {
		return reschedule.Proposal{}, ErrPreviewConsumed
	}
	if preview.Expired(now) {
		return reschedule.Proposal{}, ErrPreviewExpired
	}
	if preview.Hash != req.Hash || !r.signer.Verify(preview.Proposal, req.Hash) {
		return reschedule.Proposal{}, ErrHashMismatch
	}

	if err := tx.Previews().MarkConsumed(ctx, preview.ID, now); err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return reschedule.Proposal{}, errs.Mark(err, ErrPreviewConsumed)
		}
		return reschedule.Proposal{}, err
	}

	return preview.Proposal, nil
}

type StatelessResolver struct {
	signer  reschedule.Signer
	builder *proposalBuilder
}

func NewStatelessResolver(signer reschedule.Signer) *StatelessResolver {
	return &StatelessResolver{signer: signer, builder: newProposalBuilder()}
}

func (r *StatelessResolver) Resolve(ctx context.Context, tx shared.Tx, req ConfirmRescheduleInput, now time.Time) (reschedule.Proposal, error) {
	proposal, _, err := r.builder.build(ctx, tx, req.TechnicianID, req.RouteDate, req.Rules.Normalize())
	if err != nil {
		return reschedule.Proposal{}, err
	}

	// A hash mismatch here means the route no longer produces the
	// proposal the caller previewed; the data moved underneath them.
	if !r.signer.Verify(proposal, req.Hash) {
		return reschedule.Proposal{}, ErrOriginalsChanged
	}
	return proposal, nil
}
