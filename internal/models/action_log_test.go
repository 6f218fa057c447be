package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerificationStatusTransitions(t *testing.T) {
	assert.True(t, StatusPending.CanTransitionTo(StatusApproved))
	assert.True(t, StatusPending.CanTransitionTo(StatusRejected))

	assert.False(t, StatusApproved.CanTransitionTo(StatusRejected))
	assert.False(t, StatusApproved.CanTransitionTo(StatusPending))
	assert.False(t, StatusRejected.CanTransitionTo(StatusApproved))
	assert.False(t, StatusRejected.CanTransitionTo(StatusPending))

	// no self transitions
	assert.False(t, StatusPending.CanTransitionTo(StatusPending))
}

func TestVerificationStatusTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.True(t, StatusApproved.Terminal())
	assert.True(t, StatusRejected.Terminal())
}
