package datastore

import (
	"context"

	"greensteps/internal/models"

	"github.com/uptrace/bun"
)

type PlatformStats struct {
	TotalUsers       int             `json:"total_users"`
	ApprovedLogs     int             `json:"approved_logs"`
	PendingLogs      int             `json:"pending_logs"`
	RejectedLogs     int             `json:"rejected_logs"`
	PointsIssued     int             `json:"points_issued"`
	TotalCO2Saved    float64         `json:"total_co2_saved"`
	ActiveChallenges int             `json:"active_challenges"`
	TotalTeams       int             `json:"total_teams"`
	TopCategories    []CategoryCount `json:"top_categories"`
}

type CategoryCount struct {
	Category models.ActionCategory `bun:"category" json:"category"`
	Count    int                   `bun:"count" json:"count"`
}

func GetPlatformStats(ctx context.Context, db *bun.DB) (*PlatformStats, error) {
	stats := &PlatformStats{}

	var err error
	stats.TotalUsers, err = CountUsers(ctx, db)
	if err != nil {
		return nil, err
	}

	for status, target := range map[models.VerificationStatus]*int{
		models.StatusApproved: &stats.ApprovedLogs,
		models.StatusPending:  &stats.PendingLogs,
		models.StatusRejected: &stats.RejectedLogs,
	} {
		count, err := db.NewSelect().Model((*models.ActionLog)(nil)).
			Where("verification_status = ?", status).
			Count(ctx)
		if err != nil {
			return nil, err
		}
		*target = count
	}

	err = db.NewSelect().
		ColumnExpr("COALESCE(SUM(points_earned), 0) AS points").
		ColumnExpr("COALESCE(SUM(co2_saved), 0) AS co2").
		TableExpr("action_log").
		Where("verification_status = ?", models.StatusApproved).
		Scan(ctx, &stats.PointsIssued, &stats.TotalCO2Saved)
	if err != nil {
		return nil, err
	}

	stats.ActiveChallenges, err = db.NewSelect().Model((*models.Challenge)(nil)).
		Where("end_date >= now()").
		Count(ctx)
	if err != nil {
		return nil, err
	}

	stats.TotalTeams, err = db.NewSelect().Model((*models.Team)(nil)).Count(ctx)
	if err != nil {
		return nil, err
	}

	err = db.NewSelect().
		ColumnExpr("a.category AS category").
		ColumnExpr("COUNT(*) AS count").
		TableExpr("action_log al").
		Join("JOIN action a ON a.id = al.action_id").
		Where("al.verification_status = ?", models.StatusApproved).
		GroupExpr("a.category").
		OrderExpr("count DESC").
		Limit(5).
		Scan(ctx, &stats.TopCategories)
	if err != nil {
		return nil, err
	}

	return stats, nil
}
