package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActionPendingProposal(t *testing.T) {
	proposal := &Action{IsUserCreated: true, IsActive: false}
	assert.True(t, proposal.PendingProposal())

	// activation closes the review window
	activated := &Action{IsUserCreated: true, IsActive: true}
	assert.False(t, activated.PendingProposal())

	adminEntry := &Action{IsUserCreated: false, IsActive: true}
	assert.False(t, adminEntry.PendingProposal())

	deactivated := &Action{IsUserCreated: false, IsActive: false}
	assert.False(t, deactivated.PendingProposal())
}
