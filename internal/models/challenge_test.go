package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestChallengeWindow(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7)
	challenge := &Challenge{StartDate: start, EndDate: end}

	assert.False(t, challenge.Started(start.Add(-time.Second)))
	assert.True(t, challenge.Started(start), "start is inclusive")
	assert.True(t, challenge.Started(start.Add(time.Hour)))

	assert.False(t, challenge.Ended(end), "end is inclusive")
	assert.True(t, challenge.Ended(end.Add(time.Second)))
}

func TestTeamMemberIsLeader(t *testing.T) {
	assert.True(t, (&TeamMember{Role: RoleLeader}).IsLeader())
	assert.False(t, (&TeamMember{Role: RoleMember}).IsLeader())

	var member *TeamMember
	assert.False(t, member.IsLeader())
}
