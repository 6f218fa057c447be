package models

import (
	"time"

	"github.com/uptrace/bun"
)

type ActionCategory string

const (
	CategoryTransport ActionCategory = "transport"
	CategoryEnergy    ActionCategory = "energy"
	CategoryWaste     ActionCategory = "waste"
	CategoryFood      ActionCategory = "food"
	CategoryWater     ActionCategory = "water"
	CategoryOther     ActionCategory = "other"
)

// Action is a catalog entry describing a loggable sustainability behavior
// and its reward. User-submitted proposals are created inactive and only
// become loggable once an admin activates them with final reward values.
type Action struct {
	bun.BaseModel `bun:"table:action"`
	ID            int64          `bun:"id,pk,autoincrement" json:"id"`
	Title         string         `bun:"title,notnull" json:"title"`
	Description   *string        `bun:"description" json:"description"`
	Category      ActionCategory `bun:"category" json:"category"`
	PointsValue   int            `bun:"points_value" json:"points_value"`
	CO2Impact     float64        `bun:"co2_impact" json:"co2_impact"`
	IsActive      bool           `bun:"is_active" json:"is_active"`
	IsUserCreated bool           `bun:"is_user_created" json:"is_user_created"`
	SubmittedBy   *int64         `bun:"submitted_by" json:"submitted_by"`
	CreatedAt     time.Time      `bun:"created_at,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time      `bun:"updated_at" json:"updated_at"`
}

// PendingProposal reports whether the entry is a user submission still
// awaiting review. Activation ends the window; approving or rejecting an
// already-activated entry is a stale request.
func (a *Action) PendingProposal() bool {
	return a.IsUserCreated && !a.IsActive
}
