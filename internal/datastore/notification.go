package datastore

import (
	"context"

	"greensteps/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableNotification(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Notification)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Notification)(nil)).Index("index_notification_user_read").IfNotExists().Column("user_id", "read").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func InsertNotification(ctx context.Context, db *bun.DB, notification *models.Notification) error {
	_, err := db.NewInsert().Model(notification).Exec(ctx)
	return err
}

func GetUserNotifications(ctx context.Context, db *bun.DB, userID int64, unreadOnly bool, limit, offset int) ([]*models.Notification, error) {
	var notifications []*models.Notification
	q := db.NewSelect().Model(&notifications).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset)
	if unreadOnly {
		q = q.Where("read = ?", false)
	}

	err := q.Scan(ctx)
	if err != nil {
		return nil, err
	}

	return notifications, nil
}

func CountUnreadNotifications(ctx context.Context, db *bun.DB, userID int64) (int, error) {
	count, err := db.NewSelect().Model((*models.Notification)(nil)).
		Where("user_id = ?", userID).
		Where("read = ?", false).
		Count(ctx)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// MarkNotificationRead is scoped to the owner; zero rows means the
// notification does not exist or belongs to someone else.
func MarkNotificationRead(ctx context.Context, db *bun.DB, notificationID, userID int64) (int64, error) {
	res, err := db.NewUpdate().
		Model((*models.Notification)(nil)).
		Set("read = ?", true).
		Where("id = ?", notificationID).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

func MarkAllNotificationsRead(ctx context.Context, db *bun.DB, userID int64) (int64, error) {
	res, err := db.NewUpdate().
		Model((*models.Notification)(nil)).
		Set("read = ?", true).
		Where("user_id = ?", userID).
		Where("read = ?", false).
		Exec(ctx)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}
