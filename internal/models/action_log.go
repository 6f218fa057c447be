package models

import (
	"time"

	"github.com/uptrace/bun"
)

type VerificationStatus string

const (
	StatusPending  VerificationStatus = "pending"
	StatusApproved VerificationStatus = "approved"
	StatusRejected VerificationStatus = "rejected"
)

// Terminal reports whether no further transition is allowed from s.
// Reopening an approved or rejected log is not supported.
func (s VerificationStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

func (s VerificationStatus) CanTransitionTo(next VerificationStatus) bool {
	if s != StatusPending {
		return false
	}
	return next == StatusApproved || next == StatusRejected
}

// ActionLog is one instance of a user performing an Action. PointsEarned and
// CO2Saved are snapshotted from the Action at submission time; later catalog
// edits never change them.
type ActionLog struct {
	bun.BaseModel `bun:"table:action_log,alias:al"`
	ID            int64              `bun:"id,pk,autoincrement" json:"id"`
	UserID        int64              `bun:"user_id,notnull" json:"user_id"`
	ActionID      int64              `bun:"action_id,notnull" json:"action_id"`
	PointsEarned  int                `bun:"points_earned" json:"points_earned"`
	CO2Saved      float64            `bun:"co2_saved" json:"co2_saved"`
	Status        VerificationStatus `bun:"verification_status,default:'pending'" json:"verification_status"`
	Notes         string             `bun:"notes" json:"notes"`
	PhotoURL      *string            `bun:"photo_url" json:"photo_url"`
	VerifiedBy    *int64             `bun:"verified_by" json:"verified_by"`
	VerifiedAt    *time.Time         `bun:"verified_at" json:"verified_at"`
	CompletedAt   time.Time          `bun:"completed_at,default:current_timestamp" json:"completed_at"`
	CreatedAt     time.Time          `bun:"created_at,default:current_timestamp" json:"created_at"`

	Action *Action `bun:"rel:belongs-to,join:action_id=id" json:"action,omitempty"`
}
