package models

import (
	"time"

	"github.com/uptrace/bun"
)

type NotificationType string

const (
	NotificationActionStatus      NotificationType = "action_status"
	NotificationChallengeProgress NotificationType = "challenge_progress"
	NotificationTeamUpdate        NotificationType = "team_update"
	NotificationAnnouncement      NotificationType = "announcement"
	NotificationEducational       NotificationType = "educational"
	NotificationRewardStatus      NotificationType = "reward_status"
	NotificationLeaderboard       NotificationType = "leaderboard_update"
	NotificationAchievement       NotificationType = "achievement"
)

// DeepLink maps a notification type to its in-app target.
func (t NotificationType) DeepLink() string {
	switch t {
	case NotificationActionStatus:
		return "/actions/history"
	case NotificationChallengeProgress:
		return "/challenges"
	case NotificationTeamUpdate:
		return "/teams"
	case NotificationAnnouncement:
		return "/announcements"
	case NotificationEducational:
		return "/learn"
	case NotificationRewardStatus:
		return "/rewards"
	case NotificationLeaderboard:
		return "/leaderboard"
	case NotificationAchievement:
		return "/profile/badges"
	default:
		return "/"
	}
}

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationActionStatus, NotificationChallengeProgress, NotificationTeamUpdate,
		NotificationAnnouncement, NotificationEducational, NotificationRewardStatus,
		NotificationLeaderboard, NotificationAchievement:
		return true
	}
	return false
}

// Notification is created exclusively as a side effect of other entities'
// state transitions and consumed independently by the user.
type Notification struct {
	bun.BaseModel `bun:"table:notification"`
	ID            int64            `bun:"id,pk,autoincrement" json:"id"`
	UserID        int64            `bun:"user_id,notnull" json:"user_id"`
	Type          NotificationType `bun:"type" json:"type"`
	Title         string           `bun:"title" json:"title"`
	Body          string           `bun:"body" json:"body"`
	Link          string           `bun:"link" json:"link"`
	Read          bool             `bun:"read" json:"read"`
	CreatedAt     time.Time        `bun:"created_at,default:current_timestamp" json:"created_at"`
}

type NotificationList struct {
	Notifications []*Notification `json:"notifications"`
	UnreadCount   int             `json:"unread_count"`
	Page          int             `json:"page"`
	Limit         int             `json:"limit"`
}
