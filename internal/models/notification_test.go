package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotificationTypeValid(t *testing.T) {
	for _, nt := range []NotificationType{
		NotificationActionStatus,
		NotificationChallengeProgress,
		NotificationTeamUpdate,
		NotificationAnnouncement,
		NotificationEducational,
		NotificationRewardStatus,
		NotificationLeaderboard,
		NotificationAchievement,
	} {
		assert.True(t, nt.Valid(), string(nt))
	}

	assert.False(t, NotificationType("sms").Valid())
	assert.False(t, NotificationType("").Valid())
}

func TestNotificationTypeDeepLink(t *testing.T) {
	assert.Equal(t, "/actions/history", NotificationActionStatus.DeepLink())
	assert.Equal(t, "/challenges", NotificationChallengeProgress.DeepLink())
	assert.Equal(t, "/profile/badges", NotificationAchievement.DeepLink())
	assert.Equal(t, "/", NotificationType("unknown").DeepLink())
}

func TestUserAllowsNotification(t *testing.T) {
	var user User
	assert.True(t, user.AllowsNotification(NotificationAnnouncement), "nil prefs allow everything")

	user.Prefs = map[NotificationType]bool{
		NotificationAnnouncement: false,
		NotificationEducational:  true,
	}

	assert.False(t, user.AllowsNotification(NotificationAnnouncement))
	assert.True(t, user.AllowsNotification(NotificationEducational))
	assert.True(t, user.AllowsNotification(NotificationActionStatus), "absent entry means allowed")
}
