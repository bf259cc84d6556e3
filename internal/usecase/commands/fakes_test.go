//go:build unit

package commands_test

import (
	"context"
	"sort"
	"time"

	"visitdesk/internal/domain/reschedule"
	"visitdesk/internal/domain/reservation"
	"visitdesk/internal/infra"
	"visitdesk/internal/infra/db"
	"visitdesk/internal/pkg/errs"
	"visitdesk/internal/usecase/commands"
	"visitdesk/internal/usecase/shared"

	"github.com/google/uuid"
)

// In-memory store doubles emulating the Postgres behavior the commands
// rely on: the overlap exclusion, row ordering, and version guards.

type fakeUow struct {
	tx *fakeTx
}

func newFakeUow() *fakeUow {
	return &fakeUow{tx: newFakeTx()}
}

func (u *fakeUow) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, u.tx)
}

func (u *fakeUow) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nil)
}

type fakeTx struct {
	reservations  *fakeReservationRepo
	locks         *fakeLockRepo
	previews      *fakePreviewRepo
	audit         *fakeAuditRepo
	notifications *fakeNotificationRepo
	engagements   *fakeEngagementRepo
	contacts      *fakeContactRepo
	users         *fakeUserRepo
}

func newFakeTx() *fakeTx {
	return &fakeTx{
		reservations:  &fakeReservationRepo{store: map[uuid.UUID]*reservation.Reservation{}},
		locks:         &fakeLockRepo{store: map[string]reservation.ConversationLock{}},
		previews:      &fakePreviewRepo{store: map[uuid.UUID]*reschedule.Preview{}},
		audit:         &fakeAuditRepo{},
		notifications: &fakeNotificationRepo{},
		engagements:   &fakeEngagementRepo{refreshed: map[uuid.UUID]int{}},
		contacts:      &fakeContactRepo{scheduled: map[uuid.UUID]bool{}},
		users:         &fakeUserRepo{},
	}
}

func (t *fakeTx) Reservations() shared.ReservationRepository           { return t.reservations }
func (t *fakeTx) ConversationLocks() shared.ConversationLockRepository { return t.locks }
func (t *fakeTx) Previews() shared.PreviewRepository                   { return t.previews }
func (t *fakeTx) Audit() shared.AuditRepository                        { return t.audit }
func (t *fakeTx) Notifications() shared.NotificationRepository         { return t.notifications }
func (t *fakeTx) Engagements() shared.EngagementRepository             { return t.engagements }
func (t *fakeTx) Contacts() shared.ContactRepository                   { return t.contacts }
func (t *fakeTx) Users() shared.UserRepository                         { return t.users }
func (t *fakeTx) DB() db.DBTX                                          { return nil }

type fakeReservationRepo struct {
	store map[uuid.UUID]*reservation.Reservation
}

func (r *fakeReservationRepo) Create(ctx context.Context, res *reservation.Reservation) error {
	for _, other := range r.store {
		if other.TechnicianID() == res.TechnicianID() &&
			other.IsActive() &&
			other.Window().Overlaps(res.Window()) {
			return infra.NewRepositoryError(infra.KindConflict, errs.New("overlap"))
		}
	}
	r.store[res.ID()] = res
	return nil
}

func (r *fakeReservationRepo) FindForUpdate(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	res, ok := r.store[id]
	if !ok {
		return nil, infra.NewRepositoryError(infra.KindNotFound, errs.New("not found"))
	}
	return res, nil
}

func (r *fakeReservationRepo) LockByIDs(ctx context.Context, ids []uuid.UUID) ([]*reservation.Reservation, error) {
	var result []*reservation.Reservation
	for _, id := range ids {
		if res, ok := r.store[id]; ok {
			result = append(result, res)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID().String() < result[j].ID().String()
	})
	return result, nil
}

func (r *fakeReservationRepo) Update(ctx context.Context, res *reservation.Reservation, expectedVersion int64) error {
	stored, ok := r.store[res.ID()]
	if !ok || stored.Version() < expectedVersion {
		return infra.NewRepositoryError(infra.KindConflict, errs.New("version mismatch"))
	}
	r.store[res.ID()] = res
	return nil
}

func (r *fakeReservationRepo) ExpireHolds(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for id, res := range r.store {
		if res.HoldExpired(now) {
			if err := res.Cancel(now, "system", reservation.CancelReasonHoldExpired); err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *fakeReservationRepo) ActiveWindows(ctx context.Context, technicianID uuid.UUID, from, to time.Time) ([]reservation.TimeWindow, error) {
	span, err := reservation.NewTimeWindow(from, to)
	if err != nil {
		return nil, err
	}
	var windows []reservation.TimeWindow
	for _, res := range r.store {
		if res.TechnicianID() == technicianID && res.IsActive() && res.Window().Overlaps(span) {
			windows = append(windows, res.Window())
		}
	}
	return windows, nil
}

func (r *fakeReservationRepo) ListForRoute(ctx context.Context, technicianID uuid.UUID, dayStart, dayEnd time.Time, statuses []reservation.Status) ([]*reservation.Reservation, error) {
	wanted := map[reservation.Status]bool{}
	for _, s := range statuses {
		wanted[s] = true
	}

	var result []*reservation.Reservation
	for _, res := range r.store {
		if res.TechnicianID() != technicianID || !wanted[res.Status()] {
			continue
		}
		if res.Window().Start().Before(dayStart) || !res.Window().Start().Before(dayEnd) {
			continue
		}
		result = append(result, res)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Window().Start().Equal(result[j].Window().Start()) {
			return result[i].Window().Start().Before(result[j].Window().Start())
		}
		return result[i].ID().String() < result[j].ID().String()
	})
	return result, nil
}

type fakeLockRepo struct {
	store map[string]reservation.ConversationLock
}

func lockKey(channel reservation.Channel, conversationID string) string {
	return channel.String() + "/" + conversationID
}

func (r *fakeLockRepo) Upsert(ctx context.Context, lock reservation.ConversationLock) error {
	r.store[lockKey(lock.Channel, lock.ConversationID)] = lock
	return nil
}

func (r *fakeLockRepo) FindByConversation(ctx context.Context, channel reservation.Channel, conversationID string) (*reservation.ConversationLock, error) {
	lock, ok := r.store[lockKey(channel, conversationID)]
	if !ok {
		return nil, infra.NewRepositoryError(infra.KindNotFound, errs.New("not found"))
	}
	return &lock, nil
}

func (r *fakeLockRepo) FindActiveByPhone(ctx context.Context, phone string, now time.Time) (*reservation.ConversationLock, error) {
	for _, lock := range r.store {
		if lock.ContactPhone == phone && phone != "" && !lock.Expired(now) {
			return &lock, nil
		}
	}
	return nil, infra.NewRepositoryError(infra.KindNotFound, errs.New("not found"))
}

func (r *fakeLockRepo) Delete(ctx context.Context, channel reservation.Channel, conversationID string) error {
	delete(r.store, lockKey(channel, conversationID))
	return nil
}

func (r *fakeLockRepo) DeleteByReservation(ctx context.Context, reservationID uuid.UUID) error {
	for key, lock := range r.store {
		if lock.ReservationID == reservationID {
			delete(r.store, key)
		}
	}
	return nil
}

func (r *fakeLockRepo) DeleteByReservations(ctx context.Context, reservationIDs []uuid.UUID) error {
	for _, id := range reservationIDs {
		if err := r.DeleteByReservation(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

type fakePreviewRepo struct {
	store map[uuid.UUID]*reschedule.Preview
}

func (r *fakePreviewRepo) Insert(ctx context.Context, preview reschedule.Preview) error {
	r.store[preview.ID] = &preview
	return nil
}

func (r *fakePreviewRepo) FindForUpdate(ctx context.Context, id uuid.UUID) (*reschedule.Preview, error) {
	preview, ok := r.store[id]
	if !ok {
		return nil, infra.NewRepositoryError(infra.KindNotFound, errs.New("not found"))
	}
	return preview, nil
}

func (r *fakePreviewRepo) MarkConsumed(ctx context.Context, id uuid.UUID, now time.Time) error {
	preview, ok := r.store[id]
	if !ok || preview.ConsumedAt != nil {
		return infra.NewRepositoryError(infra.KindConflict, errs.New("already consumed"))
	}
	preview.ConsumedAt = &now
	return nil
}

type fakeAuditRepo struct {
	entries []shared.AuditEntry
}

func (r *fakeAuditRepo) Record(ctx context.Context, entry shared.AuditEntry) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeAuditRepo) actions() []string {
	var out []string
	for _, e := range r.entries {
		out = append(out, e.Action)
	}
	return out
}

type fakeNotificationRepo struct {
	jobs []string
}

func (r *fakeNotificationRepo) CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	r.jobs = append(r.jobs, kind)
	return nil
}

type fakeEngagementRepo struct {
	refreshed map[uuid.UUID]int
}

func (r *fakeEngagementRepo) RefreshNextVisit(ctx context.Context, engagementID uuid.UUID) error {
	r.refreshed[engagementID]++
	return nil
}

type fakeContactRepo struct {
	scheduled map[uuid.UUID]bool
	leads     int
}

func (r *fakeContactRepo) MarkScheduled(ctx context.Context, contactID uuid.UUID) error {
	r.scheduled[contactID] = true
	return nil
}

func (r *fakeContactRepo) CreateLead(ctx context.Context, channel reservation.Channel, externalID, phone string) (uuid.UUID, error) {
	r.leads++
	return uuid.New(), nil
}

type fakeUserRepo struct {
	lastLogins int
}

func (r *fakeUserRepo) UpdateLastLogin(ctx context.Context, userID uuid.UUID) error {
	r.lastLogins++
	return nil
}

type fakeTechnicianReader struct {
	technicians []commands.TechnicianSnapshot
}

func (r *fakeTechnicianReader) ListActive(ctx context.Context, dbtx db.DBTX) ([]commands.TechnicianSnapshot, error) {
	var active []commands.TechnicianSnapshot
	for _, t := range r.technicians {
		if t.Active {
			active = append(active, t)
		}
	}
	return active, nil
}

func (r *fakeTechnicianReader) Exists(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (bool, error) {
	for _, t := range r.technicians {
		if t.ID == id && t.Active {
			return true, nil
		}
	}
	return false, nil
}
