package models

import (
	"time"

	"github.com/uptrace/bun"
)

type TransactionKind string

const (
	TransactionActionApproved   TransactionKind = "action_approved"
	TransactionProposalApproved TransactionKind = "proposal_approved"
)

// PointTransaction is the append-only audit record of a reward-earning
// event. Rows are never mutated.
type PointTransaction struct {
	bun.BaseModel `bun:"table:point_transaction"`
	ID            int64           `bun:"id,pk,autoincrement" json:"id"`
	Reference     string          `bun:"reference,notnull" json:"reference"`
	UserID        int64           `bun:"user_id,notnull" json:"user_id"`
	Points        int             `bun:"points" json:"points"`
	CO2           float64         `bun:"co2" json:"co2"`
	Kind          TransactionKind `bun:"kind" json:"kind"`
	ActionLogID   *int64          `bun:"action_log_id" json:"action_log_id"`
	CreatedAt     time.Time       `bun:"created_at,default:current_timestamp" json:"created_at"`
}
