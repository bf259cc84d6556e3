//go:build unit

package reschedule_test

import (
	"testing"
	"time"

	"visitdesk/internal/domain/reschedule"
	"visitdesk/internal/domain/reservation"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProposal(t *testing.T) reschedule.Proposal {
	t.Helper()
	techID := uuid.MustParse("6b1a4c1e-0000-4000-8000-000000000001")
	resID := uuid.MustParse("6b1a4c1e-0000-4000-8000-000000000002")
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	return reschedule.Proposal{
		RouteDate:    "2026-03-02",
		TechnicianID: techID,
		OriginalIDs:  []uuid.UUID{resID},
		Actions: []reschedule.Action{
			{
				Type:          reschedule.ActionCancel,
				ReservationID: &resID,
				TechnicianID:  techID,
				VisitKind:     reservation.VisitPrimary,
				Start:         start,
				End:           start.Add(time.Hour),
			},
			{
				Type:         reschedule.ActionCreate,
				TechnicianID: techID,
				VisitKind:    reservation.VisitPrimary,
				Start:        start.AddDate(0, 0, 1),
				End:          start.Add(time.Hour).AddDate(0, 0, 1),
			},
		},
	}
}

func TestProposal_Canonical(t *testing.T) {
	p := sampleProposal(t)

	t.Run("stable across calls", func(t *testing.T) {
		a, err := p.Canonical()
		require.NoError(t, err)
		b, err := p.Canonical()
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("sub-second precision does not change the bytes", func(t *testing.T) {
		jittered := sampleProposal(t)
		jittered.Actions[0].Start = jittered.Actions[0].Start.Add(500 * time.Millisecond)

		a, err := p.Canonical()
		require.NoError(t, err)
		b, err := jittered.Canonical()
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("round trips through ParseCanonical", func(t *testing.T) {
		data, err := p.Canonical()
		require.NoError(t, err)

		parsed, err := reschedule.ParseCanonical(data)
		require.NoError(t, err)

		if diff := cmp.Diff(p, parsed); diff != "" {
			t.Fatalf("proposal mismatch (-want +got):\n%s", diff)
		}

		reData, err := parsed.Canonical()
		require.NoError(t, err)
		assert.Equal(t, data, reData, "round trip must be hash-stable")
	})
}

func TestProposal_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, sampleProposal(t).Validate())
	})

	t.Run("empty", func(t *testing.T) {
		p := reschedule.Proposal{RouteDate: "2026-03-02"}
		assert.ErrorIs(t, p.Validate(), reschedule.ErrEmptyProposal)
	})

	t.Run("unpaired", func(t *testing.T) {
		p := sampleProposal(t)
		p.Actions = p.Actions[:1]
		assert.ErrorIs(t, p.Validate(), reschedule.ErrUnpairedActions)
	})
}

func TestProposal_Pairs(t *testing.T) {
	p := sampleProposal(t)

	pairs := p.Pairs()

	require.Len(t, pairs, 1)
	assert.Equal(t, reschedule.ActionCancel, pairs[0][0].Type)
	assert.Equal(t, reschedule.ActionCreate, pairs[0][1].Type)
	assert.Equal(t, pairs[0][0].Start.AddDate(0, 0, 1), pairs[0][1].Start)
}

func TestSigner(t *testing.T) {
	signer := reschedule.NewSigner("test-secret")
	p := sampleProposal(t)

	hash, err := signer.Hash(p)
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	t.Run("verifies its own hash", func(t *testing.T) {
		assert.True(t, signer.Verify(p, hash))
	})

	t.Run("rejects a tampered proposal", func(t *testing.T) {
		tampered := sampleProposal(t)
		tampered.Actions[1].Start = tampered.Actions[1].Start.Add(time.Hour)
		assert.False(t, signer.Verify(tampered, hash))
	})

	t.Run("rejects a forged hash", func(t *testing.T) {
		assert.False(t, signer.Verify(p, "deadbeef"))
	})

	t.Run("different secrets disagree", func(t *testing.T) {
		other := reschedule.NewSigner("other-secret")
		assert.False(t, other.Verify(p, hash))
	})
}

func TestRules_Normalize(t *testing.T) {
	rules := reschedule.Rules{}.Normalize()
	assert.Equal(t, reservation.LockOperational, rules.PreserveLockLevel)
	assert.Equal(t, 1, rules.ShiftDays)

	custom := reschedule.Rules{PreserveLockLevel: 1, ShiftDays: -1}.Normalize()
	assert.Equal(t, 1, custom.PreserveLockLevel)
	assert.Equal(t, -1, custom.ShiftDays)
}
