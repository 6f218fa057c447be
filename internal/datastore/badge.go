package datastore

import (
	"context"

	"greensteps/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableUserBadge(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.UserBadge)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.UserBadge)(nil)).Index("index_user_badge_unique").IfNotExists().Unique().Column("user_id", "badge_slug").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

// InsertUserBadge awards at most once per (user, badge); reports whether a
// new row was written.
func InsertUserBadge(ctx context.Context, db *bun.DB, badge *models.UserBadge) (bool, error) {
	res, err := db.NewInsert().Model(badge).On("CONFLICT (user_id, badge_slug) DO NOTHING").Exec(ctx)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

func GetUserBadges(ctx context.Context, db *bun.DB, userID int64) ([]*models.UserBadge, error) {
	var badges []*models.UserBadge
	err := db.NewSelect().Model(&badges).
		Where("user_id = ?", userID).
		Order("awarded_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return badges, nil
}
