//go:build unit

package errs_test

import (
	"errors"
	"testing"

	"visitdesk/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSentinel = errs.New("sentinel")

func TestMark(t *testing.T) {
	t.Run("marker matches through the standard errors.Is", func(t *testing.T) {
		err := errs.Mark(errs.New("row missing"), errSentinel)
		assert.ErrorIs(t, err, errSentinel)
	})

	t.Run("cause stays matchable underneath the marker", func(t *testing.T) {
		cause := errors.New("row missing")
		err := errs.Mark(cause, errSentinel)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("wrapping does not hide the marker", func(t *testing.T) {
		err := errs.Wrap(errs.Mark(errs.New("row missing"), errSentinel), "confirm hold")
		assert.ErrorIs(t, err, errSentinel)
	})

	t.Run("nil cause collapses to the marker itself", func(t *testing.T) {
		assert.ErrorIs(t, errs.Mark(nil, errSentinel), errSentinel)
	})

	t.Run("marker keeps the cause message", func(t *testing.T) {
		err := errs.Mark(errs.New("row missing"), errSentinel)
		assert.Equal(t, "row missing", err.Error())
	})

	t.Run("marked errors keep their stack in verbose output", func(t *testing.T) {
		lines := errs.ExtractStackLines(errs.Mark(errs.New("boom"), errSentinel), 0)
		require.NotEmpty(t, lines)
		assert.Greater(t, len(lines), 1)
	})
}

func TestWithSecondary(t *testing.T) {
	t.Run("primary chain is what callers match", func(t *testing.T) {
		primary := errs.Mark(errs.New("no free window"), errSentinel)
		err := errs.WithSecondary(primary, errs.New("lead insert failed"))
		assert.ErrorIs(t, err, errSentinel)
	})

	t.Run("nil primary falls back to the attachment", func(t *testing.T) {
		other := errs.New("lead insert failed")
		assert.ErrorIs(t, errs.WithSecondary(nil, other), other)
	})
}
