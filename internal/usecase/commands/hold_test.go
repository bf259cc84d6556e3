//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"visitdesk/internal/domain/reservation"
	"visitdesk/internal/domain/schedule"
	"visitdesk/internal/pkg/clock"
	"visitdesk/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const holdTTL = 10 * time.Minute

// Monday morning, before opening.
var testNow = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

func holdRules() schedule.Rules {
	return schedule.Rules{
		OpenHour:      9,
		CloseHour:     18,
		SlotDuration:  time.Hour,
		ClosedWeekday: time.Sunday,
		MinLeadTime:   2 * time.Hour,
		HorizonDays:   7,
	}
}

type holdFixture struct {
	uow         *fakeUow
	clock       *clock.MockClock
	technicians *fakeTechnicianReader
	commands    *commands.HoldCommands
}

func newHoldFixture(technicianIDs ...uuid.UUID) *holdFixture {
	reader := &fakeTechnicianReader{}
	for i, id := range technicianIDs {
		reader.technicians = append(reader.technicians, commands.TechnicianSnapshot{
			ID: id, Name: "tech", Active: true, Priority: i,
		})
	}

	uow := newFakeUow()
	clk := clock.NewMockClock(testNow)
	return &holdFixture{
		uow:         uow,
		clock:       clk,
		technicians: reader,
		commands:    commands.NewHoldCommands(uow, reader, clk, holdRules(), holdTTL),
	}
}

func createInput(conversationID string) commands.CreateHoldInput {
	return commands.CreateHoldInput{
		Channel:        reservation.ChannelVoice,
		ConversationID: conversationID,
		ContactPhone:   "+15550001",
		VisitKind:      reservation.VisitPrimary,
	}
}

func TestCreateHold(t *testing.T) {
	ctx := context.Background()

	t.Run("places a hold at the earliest free slot", func(t *testing.T) {
		techID := uuid.New()
		f := newHoldFixture(techID)

		result, err := f.commands.CreateHold(ctx, createInput("call-1"))

		require.NoError(t, err)
		assert.Equal(t, techID, result.TechnicianID)
		assert.Equal(t, reservation.StatusHeld, result.Status)
		// earliest slot honoring the 2h lead time from 08:00 is 10:00
		assert.Equal(t, 10, result.Window.Start().Hour())
		require.NotNil(t, result.ExpiresAt)
		assert.Equal(t, testNow.Add(holdTTL), *result.ExpiresAt)

		lock, err := f.uow.tx.locks.FindByConversation(ctx, reservation.ChannelVoice, "call-1")
		require.NoError(t, err)
		assert.Equal(t, result.ReservationID, lock.ReservationID)
		assert.Contains(t, f.uow.tx.audit.actions(), "hold.created")
	})

	t.Run("registers an unlinked conversation as a contact", func(t *testing.T) {
		f := newHoldFixture(uuid.New())

		_, err := f.commands.CreateHold(ctx, createInput("call-1"))

		require.NoError(t, err)
		assert.Equal(t, 1, f.uow.tx.contacts.leads)
	})

	t.Run("re-invocation returns the same hold", func(t *testing.T) {
		f := newHoldFixture(uuid.New())

		first, err := f.commands.CreateHold(ctx, createInput("call-1"))
		require.NoError(t, err)
		second, err := f.commands.CreateHold(ctx, createInput("call-1"))
		require.NoError(t, err)

		assert.Equal(t, first.ReservationID, second.ReservationID)
		assert.Len(t, f.uow.tx.reservations.store, 1)
	})

	t.Run("new conversation from the same phone takes over", func(t *testing.T) {
		f := newHoldFixture(uuid.New())

		first, err := f.commands.CreateHold(ctx, createInput("call-1"))
		require.NoError(t, err)
		second, err := f.commands.CreateHold(ctx, createInput("call-2"))
		require.NoError(t, err)

		assert.NotEqual(t, first.ReservationID, second.ReservationID)

		old, err := f.uow.tx.reservations.FindForUpdate(ctx, first.ReservationID)
		require.NoError(t, err)
		assert.Equal(t, reservation.StatusCanceled, old.Status())
		assert.Contains(t, f.uow.tx.audit.actions(), "hold.taken_over")

		_, err = f.uow.tx.locks.FindByConversation(ctx, reservation.ChannelVoice, "call-1")
		assert.Error(t, err)
	})

	t.Run("expired hold is replaced, not returned", func(t *testing.T) {
		f := newHoldFixture(uuid.New())

		first, err := f.commands.CreateHold(ctx, createInput("call-1"))
		require.NoError(t, err)

		f.clock.Advance(holdTTL + time.Minute)

		second, err := f.commands.CreateHold(ctx, createInput("call-1"))
		require.NoError(t, err)
		assert.NotEqual(t, first.ReservationID, second.ReservationID)

		old, err := f.uow.tx.reservations.FindForUpdate(ctx, first.ReservationID)
		require.NoError(t, err)
		assert.Equal(t, reservation.StatusCanceled, old.Status())
		assert.Equal(t, reservation.CancelReasonHoldExpired, old.CancelReason())
	})

	t.Run("no active technicians", func(t *testing.T) {
		f := newHoldFixture()

		_, err := f.commands.CreateHold(ctx, createInput("call-1"))

		assert.ErrorIs(t, err, commands.ErrNoResourceAvailable)
	})

	t.Run("a dead-end slot search still records the lead", func(t *testing.T) {
		f := newHoldFixture()

		_, err := f.commands.CreateHold(ctx, createInput("call-1"))

		assert.ErrorIs(t, err, commands.ErrNoResourceAvailable)
		assert.Equal(t, 1, f.uow.tx.contacts.leads)
		assert.Contains(t, f.uow.tx.audit.actions(), "lead.recorded")
	})

	t.Run("linked conversations record no lead on failure", func(t *testing.T) {
		f := newHoldFixture()
		engagementID := uuid.New()
		input := createInput("call-1")
		input.EngagementID = &engagementID

		_, err := f.commands.CreateHold(ctx, input)

		assert.ErrorIs(t, err, commands.ErrNoResourceAvailable)
		assert.Zero(t, f.uow.tx.contacts.leads)
	})

	t.Run("requested window already taken", func(t *testing.T) {
		techID := uuid.New()
		f := newHoldFixture(techID)

		start := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
		window, err := reservation.NewTimeWindow(start, start.Add(time.Hour))
		require.NoError(t, err)

		first := createInput("call-1")
		first.Window = &window
		_, err = f.commands.CreateHold(ctx, first)
		require.NoError(t, err)

		second := createInput("call-2")
		second.ContactPhone = "+15550002"
		second.Window = &window
		_, err = f.commands.CreateHold(ctx, second)

		assert.ErrorIs(t, err, commands.ErrSlotTaken)
	})

	t.Run("requested window inside lead time", func(t *testing.T) {
		techID := uuid.New()
		f := newHoldFixture(techID)

		start := testNow.Add(time.Hour)
		window, err := reservation.NewTimeWindow(start, start.Add(time.Hour))
		require.NoError(t, err)

		input := createInput("call-1")
		input.Window = &window
		_, err = f.commands.CreateHold(ctx, input)

		assert.ErrorIs(t, err, commands.ErrInvalidInput)
	})

	t.Run("invalid channel", func(t *testing.T) {
		f := newHoldFixture(uuid.New())
		input := createInput("call-1")
		input.Channel = "sms"

		_, err := f.commands.CreateHold(ctx, input)

		assert.ErrorIs(t, err, commands.ErrInvalidInput)
	})
}

func TestConfirmHold(t *testing.T) {
	ctx := context.Background()

	confirm := commands.ConfirmHoldInput{
		Channel:        reservation.ChannelVoice,
		ConversationID: "call-1",
		Actor:          "operator-1",
	}

	t.Run("promotes the hold and releases the lock", func(t *testing.T) {
		f := newHoldFixture(uuid.New())
		created, err := f.commands.CreateHold(ctx, createInput("call-1"))
		require.NoError(t, err)

		result, err := f.commands.ConfirmHold(ctx, confirm)

		require.NoError(t, err)
		assert.Equal(t, created.ReservationID, result.ReservationID)
		assert.Equal(t, reservation.StatusConfirmed, result.Status)

		_, err = f.uow.tx.locks.FindByConversation(ctx, reservation.ChannelVoice, "call-1")
		assert.Error(t, err, "lock must be gone after confirm")

		res, err := f.uow.tx.reservations.FindForUpdate(ctx, created.ReservationID)
		require.NoError(t, err)
		assert.Equal(t, reservation.LockConfirmed, res.LockLevel())
		assert.Contains(t, f.uow.tx.audit.actions(), "hold.confirmed")
		assert.Contains(t, f.uow.tx.notifications.jobs, "visit.confirmed")
		assert.Len(t, f.uow.tx.contacts.scheduled, 1)
	})

	t.Run("expired hold reports gone and is canceled", func(t *testing.T) {
		f := newHoldFixture(uuid.New())
		created, err := f.commands.CreateHold(ctx, createInput("call-1"))
		require.NoError(t, err)

		f.clock.Advance(holdTTL + time.Second)

		_, err = f.commands.ConfirmHold(ctx, confirm)

		assert.ErrorIs(t, err, commands.ErrHoldExpired)

		res, err := f.uow.tx.reservations.FindForUpdate(ctx, created.ReservationID)
		require.NoError(t, err)
		assert.Equal(t, reservation.StatusCanceled, res.Status())
	})

	t.Run("unknown conversation", func(t *testing.T) {
		f := newHoldFixture(uuid.New())

		_, err := f.commands.ConfirmHold(ctx, confirm)

		assert.ErrorIs(t, err, commands.ErrNotFound)
	})

	t.Run("confirming twice fails", func(t *testing.T) {
		f := newHoldFixture(uuid.New())
		_, err := f.commands.CreateHold(ctx, createInput("call-1"))
		require.NoError(t, err)

		_, err = f.commands.ConfirmHold(ctx, confirm)
		require.NoError(t, err)
		_, err = f.commands.ConfirmHold(ctx, confirm)

		assert.ErrorIs(t, err, commands.ErrNotFound)
	})
}

func TestCancelHold(t *testing.T) {
	ctx := context.Background()

	cancel := commands.CancelHoldInput{
		Channel:        reservation.ChannelVoice,
		ConversationID: "call-1",
		Actor:          "operator-1",
	}

	t.Run("releases a live hold", func(t *testing.T) {
		f := newHoldFixture(uuid.New())
		created, err := f.commands.CreateHold(ctx, createInput("call-1"))
		require.NoError(t, err)

		require.NoError(t, f.commands.CancelHold(ctx, cancel))

		res, err := f.uow.tx.reservations.FindForUpdate(ctx, created.ReservationID)
		require.NoError(t, err)
		assert.Equal(t, reservation.StatusCanceled, res.Status())
		assert.Equal(t, reservation.CancelReasonDeclined, res.CancelReason())
	})

	t.Run("no-op without a hold", func(t *testing.T) {
		f := newHoldFixture(uuid.New())

		assert.NoError(t, f.commands.CancelHold(ctx, cancel))
	})
}

func TestExpireHolds(t *testing.T) {
	ctx := context.Background()

	f := newHoldFixture(uuid.New())
	_, err := f.commands.CreateHold(ctx, createInput("call-1"))
	require.NoError(t, err)

	second := createInput("call-2")
	second.ContactPhone = "+15550002"
	_, err = f.commands.CreateHold(ctx, second)
	require.NoError(t, err)

	t.Run("nothing lapsed yet", func(t *testing.T) {
		expired, err := f.commands.ExpireHolds(ctx)
		require.NoError(t, err)
		assert.Zero(t, expired)
	})

	t.Run("sweeps both after the ttl", func(t *testing.T) {
		f.clock.Advance(holdTTL + time.Second)

		expired, err := f.commands.ExpireHolds(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, expired)
		assert.Empty(t, f.uow.tx.locks.store)

		// idempotent
		expired, err = f.commands.ExpireHolds(ctx)
		require.NoError(t, err)
		assert.Zero(t, expired)
	})
}
