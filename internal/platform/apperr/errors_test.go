package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf_WrappedError(t *testing.T) {
	err := fmt.Errorf("create booking: %w", NewConflictError("venue already booked on this date"))

	assert.Equal(t, KindConflict, KindOf(err))
	assert.True(t, Is(err, KindConflict))
	assert.False(t, Is(err, KindNotFound))
}

func TestKindOf_ForeignError(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("boom")))
}

func TestWithCause_KeepsSentinel(t *testing.T) {
	sentinel := errors.New("image too large")
	err := NewValidationError("image", "The image file size must not exceed 5MB.").WithCause(sentinel)

	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, KindValidation, err.Kind)
}

func TestError_MessageListsFieldsSorted(t *testing.T) {
	err := NewFieldErrors(map[string]string{
		"venue_name": "Venue name is required.",
		"capacity":   "Capacity must be a positive number.",
	})

	assert.Equal(t,
		"validation failed: capacity: Capacity must be a positive number.; venue_name: Venue name is required.",
		err.Error())
}

func TestMerge(t *testing.T) {
	a := NewValidationError("venue_name", "A venue with this name already exists.")
	b := NewValidationError("image", "An image is required.")

	merged := Merge(nil, a, b)
	require.NotNil(t, merged)
	assert.Len(t, merged.Fields, 2)
	assert.Nil(t, Merge(nil, nil))
}
