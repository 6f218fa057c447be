package services

import (
	"context"
	"fmt"
	"time"

	"greensteps/internal/datastore"
	"greensteps/internal/models"

	"github.com/samber/do"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

type ServiceBadge struct {
	container  *do.Injector
	postgresDB *bun.DB
	logger     *zap.Logger

	serviceNotification *ServiceNotification
}

func NewServiceBadge(container *do.Injector) (*ServiceBadge, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	logger, err := do.Invoke[*zap.Logger](container)
	if err != nil {
		return nil, err
	}

	serviceNotification, err := do.Invoke[*ServiceNotification](container)
	if err != nil {
		return nil, err
	}

	return &ServiceBadge{container, postgresDB, logger, serviceNotification}, nil
}

func (service *ServiceBadge) Catalog() []models.Badge {
	return models.Badges
}

func (service *ServiceBadge) GetUserBadges(ctx context.Context, userID int64) ([]*models.UserBadge, error) {
	return datastore.GetUserBadges(ctx, service.postgresDB, userID)
}

// CrossedBadges returns the badges whose threshold lies in (prev, next].
func CrossedBadges(prev, next int) []models.Badge {
	var crossed []models.Badge
	for _, badge := range models.Badges {
		if prev < badge.PointsThreshold && next >= badge.PointsThreshold {
			crossed = append(crossed, badge)
		}
	}

	return crossed
}

// EvaluateBadges awards every badge crossed by the points move and notifies
// the user once per newly earned badge. The unique index makes a replay
// harmless.
func (service *ServiceBadge) EvaluateBadges(ctx context.Context, user *models.User, prevPoints, newPoints int) {
	for _, badge := range CrossedBadges(prevPoints, newPoints) {
		awarded, err := datastore.InsertUserBadge(ctx, service.postgresDB, &models.UserBadge{
			UserID:    user.ID,
			BadgeSlug: badge.Slug,
			AwardedAt: time.Now(),
		})
		if err != nil {
			service.logger.Warn("badge award failed",
				zap.Int64("user_id", user.ID),
				zap.String("badge", badge.Slug),
				zap.Error(err))
			continue
		}
		if !awarded {
			continue
		}

		service.serviceNotification.Dispatch(ctx, user, models.NotificationAchievement,
			fmt.Sprintf("Badge earned: %s", badge.Title),
			fmt.Sprintf("%s %s", badge.Icon, badge.Description))
	}
}
