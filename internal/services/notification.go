package services

import (
	"context"
	"errors"

	"greensteps/internal/datastore"
	"greensteps/internal/models"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/samber/do"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

type ServiceNotification struct {
	container  *do.Injector
	postgresDB *bun.DB
	logger     *zap.Logger
}

func NewServiceNotification(container *do.Injector) (*ServiceNotification, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	logger, err := do.Invoke[*zap.Logger](container)
	if err != nil {
		return nil, err
	}

	return &ServiceNotification{container, postgresDB, logger}, nil
}

// Dispatch creates an in-app notification, honoring the user's preferences.
// Best effort: a muted type is a silent no-op and a storage failure never
// fails the transition that produced the event, it is only logged.
func (service *ServiceNotification) Dispatch(ctx context.Context, user *models.User, t models.NotificationType, title, body string) {
	if user == nil || !user.AllowsNotification(t) {
		return
	}

	notification := &models.Notification{
		UserID: user.ID,
		Type:   t,
		Title:  title,
		Body:   body,
		Link:   t.DeepLink(),
	}

	if err := datastore.InsertNotification(ctx, service.postgresDB, notification); err != nil {
		service.logger.Warn("notification dispatch failed",
			zap.Int64("user_id", user.ID),
			zap.String("type", string(t)),
			zap.Error(err))
	}
}

func (service *ServiceNotification) List(ctx context.Context, user *models.User, unreadOnly bool, page, limit int) (*models.NotificationList, error) {
	limit, offset := Paginate(page, limit)

	notifications, err := datastore.GetUserNotifications(ctx, service.postgresDB, user.ID, unreadOnly, limit, offset)
	if err != nil {
		return nil, err
	}

	unread, err := datastore.CountUnreadNotifications(ctx, service.postgresDB, user.ID)
	if err != nil {
		return nil, err
	}

	return &models.NotificationList{
		Notifications: notifications,
		UnreadCount:   unread,
		Page:          offset/limit + 1,
		Limit:         limit,
	}, nil
}

func (service *ServiceNotification) MarkRead(ctx context.Context, user *models.User, notificationID int64) error {
	n, err := datastore.MarkNotificationRead(ctx, service.postgresDB, notificationID, user.ID)
	if err != nil {
		return err
	}
	if n == 0 {
		return errorx.Wrap(errors.New("notification not found"), errorx.NotExist)
	}

	return nil
}

func (service *ServiceNotification) MarkAllRead(ctx context.Context, user *models.User) (int64, error) {
	return datastore.MarkAllNotificationsRead(ctx, service.postgresDB, user.ID)
}

// Announce fans an announcement out to every user, page by page. Users who
// muted announcements are skipped by Dispatch.
func (service *ServiceNotification) Announce(ctx context.Context, t models.NotificationType, title, body string) (int, error) {
	if !t.Valid() {
		return 0, errorx.Wrap(errors.New("unknown notification type"), errorx.Validation)
	}

	sent := 0
	limit := 200
	for offset := 0; ; offset += limit {
		users, err := datastore.GetUsersByLimit(ctx, service.postgresDB, limit, offset)
		if err != nil {
			return sent, err
		}
		if len(users) == 0 {
			return sent, nil
		}

		for _, user := range users {
			if !user.AllowsNotification(t) {
				continue
			}
			service.Dispatch(ctx, user, t, title, body)
			sent++
		}

		if len(users) < limit {
			return sent, nil
		}
	}
}
