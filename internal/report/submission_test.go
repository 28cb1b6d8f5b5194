package report

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmissionLifecycle(t *testing.T) {
	sub := NewSubmission(Form{})
	assert.Equal(t, StateIdle, sub.State)
	assert.True(t, sub.CanSubmit())
	assert.False(t, sub.Busy())

	require.NoError(t, sub.Begin())
	assert.True(t, sub.Busy())
	assert.False(t, sub.CanSubmit())

	cause := errors.New("boom")
	require.NoError(t, sub.Fail(cause))
	assert.Equal(t, StateFailed, sub.State)
	assert.Equal(t, cause, sub.Err)
	assert.True(t, sub.CanSubmit(), "failed submissions can be retried")

	require.NoError(t, sub.Begin())
	assert.Nil(t, sub.Err)
	require.NoError(t, sub.Succeed())
	assert.Equal(t, StateSubmitted, sub.State)
	assert.False(t, sub.CanSubmit())
}

func TestSubmissionInvalidTransitions(t *testing.T) {
	sub := NewSubmission(Form{})
	assert.ErrorIs(t, sub.Fail(errors.New("x")), ErrInvalidTransition)
	assert.ErrorIs(t, sub.Succeed(), ErrInvalidTransition)

	require.NoError(t, sub.Begin())
	assert.ErrorIs(t, sub.Begin(), ErrInvalidTransition)

	require.NoError(t, sub.Succeed())
	assert.ErrorIs(t, sub.Begin(), ErrInvalidTransition)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "submitting", StateSubmitting.String())
	assert.Equal(t, "state(9)", State(9).String())
}
