package models

import (
	"time"

	"github.com/uptrace/bun"
)

type ChallengeType string

const (
	ChallengeIndividual ChallengeType = "individual"
	ChallengeTeam       ChallengeType = "team"
	ChallengeCompany    ChallengeType = "company"
)

type ChallengeMetric string

const (
	MetricActions ChallengeMetric = "actions"
	MetricPoints  ChallengeMetric = "points"
	MetricCO2     ChallengeMetric = "co2"
)

type Challenge struct {
	bun.BaseModel   `bun:"table:challenge"`
	ID              int64           `bun:"id,pk,autoincrement" json:"id"`
	Title           string          `bun:"title,notnull" json:"title"`
	Description     *string         `bun:"description" json:"description"`
	Type            ChallengeType   `bun:"type" json:"type"`
	Metric          ChallengeMetric `bun:"metric" json:"metric"`
	TargetValue     float64         `bun:"target_value" json:"target_value"`
	MaxParticipants int             `bun:"max_participants" json:"max_participants"`
	StartDate       time.Time       `bun:"start_date" json:"start_date"`
	EndDate         time.Time       `bun:"end_date" json:"end_date"`
	CreatedBy       int64           `bun:"created_by" json:"created_by"`
	TeamID          *int64          `bun:"team_id" json:"team_id"`
	EndNotified     bool            `bun:"end_notified" json:"-"`
	CreatedAt       time.Time       `bun:"created_at,default:current_timestamp" json:"created_at"`

	Participation *ChallengeParticipant `bun:"-" json:"participation,omitempty"`
}

func (c *Challenge) Ended(now time.Time) bool {
	return now.After(c.EndDate)
}

func (c *Challenge) Started(now time.Time) bool {
	return !now.Before(c.StartDate)
}

// ChallengeParticipant rows are owned jointly by (user, challenge) and are
// hard-deleted on leave.
type ChallengeParticipant struct {
	bun.BaseModel   `bun:"table:challenge_participant"`
	ID              int64     `bun:"id,pk,autoincrement" json:"id"`
	ChallengeID     int64     `bun:"challenge_id,notnull" json:"challenge_id"`
	UserID          int64     `bun:"user_id,notnull" json:"user_id"`
	CurrentProgress float64   `bun:"current_progress" json:"current_progress"`
	Completed       bool      `bun:"completed" json:"completed"`
	JoinedAt        time.Time `bun:"joined_at,default:current_timestamp" json:"joined_at"`
}
