package datastore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"greensteps/internal/models"

	"github.com/uptrace/bun"
)

// ErrNotPending is returned when a settlement touches a log that already
// left the pending state; a retried approve or reject is a no-op.
var ErrNotPending = errors.New("action log is not pending")

func CreateTableActionLog(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.ActionLog)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.ActionLog)(nil)).Index("index_action_log_user_id").IfNotExists().Column("user_id").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.ActionLog)(nil)).Index("index_action_log_user_action_completed").IfNotExists().Column("user_id", "action_id", "completed_at").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.ActionLog)(nil)).Index("index_action_log_status").IfNotExists().Column("verification_status").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func InsertActionLog(ctx context.Context, db *bun.DB, log *models.ActionLog) (*models.ActionLog, error) {
	_, err := db.NewInsert().Model(log).Exec(ctx)
	if err != nil {
		return nil, err
	}

	return log, nil
}

func FindActionLogByID(ctx context.Context, db *bun.DB, logID int64) (*models.ActionLog, error) {
	var log models.ActionLog
	err := db.NewSelect().Model(&log).Where("al.id = ?", logID).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &log, nil
}

// FindRecentLog returns the latest pending or approved log for (user, action)
// completed after since. Advisory only: nothing stops two concurrent
// submissions from both passing this check before either row lands.
func FindRecentLog(ctx context.Context, db *bun.DB, userID, actionID int64, since time.Time) (*models.ActionLog, error) {
	var log models.ActionLog
	err := db.NewSelect().Model(&log).
		Where("user_id = ?", userID).
		Where("action_id = ?", actionID).
		Where("completed_at > ?", since).
		Where("verification_status IN (?)", bun.In([]models.VerificationStatus{models.StatusPending, models.StatusApproved})).
		Order("completed_at DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &log, nil
}

func GetUserActionLogs(ctx context.Context, db *bun.DB, userID int64, limit, offset int) ([]*models.ActionLog, error) {
	var logs []*models.ActionLog
	err := db.NewSelect().Model(&logs).
		Relation("Action").
		Where("al.user_id = ?", userID).
		Order("al.completed_at DESC").
		Limit(limit).
		Offset(offset).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return logs, nil
}

func GetPendingActionLogs(ctx context.Context, db *bun.DB, limit, offset int) ([]*models.ActionLog, error) {
	var logs []*models.ActionLog
	err := db.NewSelect().Model(&logs).
		Relation("Action").
		Where("al.verification_status = ?", models.StatusPending).
		Order("al.completed_at ASC").
		Limit(limit).
		Offset(offset).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return logs, nil
}

// ApproveActionLog settles a pending log in one transaction: guarded status
// flip, atomic totals increment, append-only audit row. Safe to retry by log
// id; a second call finds no pending row and returns ErrNotPending.
func ApproveActionLog(ctx context.Context, db *bun.DB, logID, verifierID int64, reference string) (*models.ActionLog, error) {
	var log models.ActionLog
	err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := tx.NewSelect().Model(&log).Where("al.id = ?", logID).For("UPDATE").Scan(ctx); err != nil {
			return err
		}

		if !log.Status.CanTransitionTo(models.StatusApproved) {
			return ErrNotPending
		}

		now := time.Now()
		res, err := tx.NewUpdate().Model((*models.ActionLog)(nil)).
			Set("verification_status = ?", models.StatusApproved).
			Set("verified_by = ?", verifierID).
			Set("verified_at = ?", now).
			Where("id = ?", logID).
			Where("verification_status = ?", models.StatusPending).
			Exec(ctx)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotPending
		}

		if err := AddUserTotals(ctx, tx, log.UserID, log.PointsEarned, log.CO2Saved); err != nil {
			return err
		}

		if err := InsertPointTransaction(ctx, tx, &models.PointTransaction{
			Reference:   reference,
			UserID:      log.UserID,
			Points:      log.PointsEarned,
			CO2:         log.CO2Saved,
			Kind:        models.TransactionActionApproved,
			ActionLogID: &log.ID,
		}); err != nil {
			return err
		}

		log.Status = models.StatusApproved
		log.VerifiedBy = &verifierID
		log.VerifiedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &log, nil
}

// SettleProposal activates a user-submitted action with its final reward
// values and credits the submitter in the same transaction: the log is born
// approved, totals move once, and the ledger row lands with everything else.
func SettleProposal(ctx context.Context, db *bun.DB, log *models.ActionLog, reference string) (*models.ActionLog, error) {
	err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := ActivateAction(ctx, tx, log.ActionID, log.PointsEarned, log.CO2Saved); err != nil {
			return err
		}

		if _, err := tx.NewInsert().Model(log).Exec(ctx); err != nil {
			return err
		}

		if err := AddUserTotals(ctx, tx, log.UserID, log.PointsEarned, log.CO2Saved); err != nil {
			return err
		}

		return InsertPointTransaction(ctx, tx, &models.PointTransaction{
			Reference:   reference,
			UserID:      log.UserID,
			Points:      log.PointsEarned,
			CO2:         log.CO2Saved,
			Kind:        models.TransactionProposalApproved,
			ActionLogID: &log.ID,
		})
	})
	if err != nil {
		return nil, err
	}

	return log, nil
}

// RejectActionLog flips a pending log to rejected and stores the reason.
// Awards nothing.
func RejectActionLog(ctx context.Context, db *bun.DB, logID, verifierID int64, reason string) error {
	res, err := db.NewUpdate().Model((*models.ActionLog)(nil)).
		Set("verification_status = ?", models.StatusRejected).
		Set("verified_by = ?", verifierID).
		Set("verified_at = ?", time.Now()).
		Set("notes = ?", reason).
		Where("id = ?", logID).
		Where("verification_status = ?", models.StatusPending).
		Exec(ctx)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotPending
	}

	return nil
}

type UserTotals struct {
	UserID int64   `bun:"user_id"`
	Points int     `bun:"points"`
	CO2    float64 `bun:"co2"`
}

// SumApprovedByUser recomputes a user's totals from the settled logs,
// optionally restricted to logs completed at or after from. Leaderboard
// scores read from here rather than the denormalized counters.
func SumApprovedByUser(ctx context.Context, db *bun.DB, userID int64, from *time.Time) (int, float64, error) {
	q := db.NewSelect().
		ColumnExpr("user_id").
		ColumnExpr("COALESCE(SUM(points_earned), 0) AS points").
		ColumnExpr("COALESCE(SUM(co2_saved), 0) AS co2").
		TableExpr("action_log").
		Where("user_id = ?", userID).
		Where("verification_status = ?", models.StatusApproved).
		GroupExpr("user_id")
	if from != nil {
		q = q.Where("completed_at >= ?", from)
	}

	var totals UserTotals
	err := q.Scan(ctx, &totals)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, 0, err
	}

	return totals.Points, totals.CO2, nil
}

func SumApprovedSince(ctx context.Context, db *bun.DB, from *time.Time, limit, offset int) ([]*UserTotals, error) {
	q := db.NewSelect().
		ColumnExpr("user_id").
		ColumnExpr("COALESCE(SUM(points_earned), 0) AS points").
		ColumnExpr("COALESCE(SUM(co2_saved), 0) AS co2").
		TableExpr("action_log").
		Where("verification_status = ?", models.StatusApproved).
		GroupExpr("user_id").
		OrderExpr("points DESC").
		Limit(limit).
		Offset(offset)
	if from != nil {
		q = q.Where("completed_at >= ?", from)
	}

	var totals []*UserTotals
	err := q.Scan(ctx, &totals)
	if err != nil {
		return nil, err
	}

	return totals, nil
}
