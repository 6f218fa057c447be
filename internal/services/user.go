package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"greensteps/internal/datastore"
	"greensteps/internal/datastore/redis_store"
	"greensteps/internal/models"
	"greensteps/internal/pkg/caching"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

type ServiceUser struct {
	container     *do.Injector
	redisDB       redis.UniversalClient
	postgresDB    *bun.DB
	cache         caching.Cache
	readonlyCache caching.ReadOnlyCache
	logger        *zap.Logger
}

func NewServiceUser(container *do.Injector) (*ServiceUser, error) {
	db, err := do.InvokeNamed[redis.UniversalClient](container, "redis-db")
	if err != nil {
		return nil, err
	}

	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	readonlyCache, err := do.Invoke[caching.ReadOnlyCache](container)
	if err != nil {
		return nil, err
	}

	logger, err := do.Invoke[*zap.Logger](container)
	if err != nil {
		return nil, err
	}

	return &ServiceUser{container, db, postgresDB, cache, readonlyCache, logger}, nil
}

func (service *ServiceUser) FindUserByID(ctx context.Context, userID int64) (*models.User, error) {
	callback := func() (*models.User, error) {
		return datastore.FindUserByID(ctx, service.postgresDB, userID)
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyUser(userID), CACHE_TTL_1_MIN, callback)
}

// FindOrCreateUser resolves the authenticated identity to a local profile,
// provisioning one on first sight of the email.
func (service *ServiceUser) FindOrCreateUser(ctx context.Context, userAuth *models.UserFromAuth) (*models.User, error) {
	if userAuth == nil {
		return nil, errors.New("userAuth is nil")
	}

	user, err := datastore.FindUserByEmail(ctx, service.postgresDB, userAuth.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	now := time.Now()
	newUser := &models.User{
		Email:     strings.ToLower(userAuth.Email),
		FirstName: userAuth.FirstName,
		LastName:  userAuth.LastName,
		IsAdmin:   userAuth.IsAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	}

	service.logger.Info("creating user", zap.String("email", newUser.Email))
	user, err = datastore.CreateUser(ctx, service.postgresDB, newUser)
	if err != nil {
		return nil, err
	}

	user.IsNewUser = true
	return user, nil
}

// Me hydrates the profile with the overall rank and earned badges.
func (service *ServiceUser) Me(ctx context.Context, user *models.User) (*models.User, error) {
	callback := func() (*models.User, error) {
		fresh, err := datastore.FindUserByID(ctx, service.postgresDB, user.ID)
		if err != nil {
			return nil, err
		}

		rank, err := redis_store.GetLeaderboardRank(ctx, service.redisDB, LEADERBOARD_OVERALL, user.ID)
		if err != nil {
			return nil, err
		}
		if rank != nil {
			fresh.Rank = rank.Rank
		}

		earned, err := datastore.GetUserBadges(ctx, service.postgresDB, user.ID)
		if err != nil {
			return nil, err
		}

		bySlug := map[string]models.Badge{}
		for _, badge := range models.Badges {
			bySlug[badge.Slug] = badge
		}
		for _, ub := range earned {
			if badge, ok := bySlug[ub.BadgeSlug]; ok {
				fresh.Badges = append(fresh.Badges, badge)
			}
		}

		return fresh, nil
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyMe(user.ID), CACHE_TTL_5_SECONDS, callback)
}

func (service *ServiceUser) UpdatePreferences(ctx context.Context, user *models.User, prefs map[models.NotificationType]bool) (*models.User, error) {
	for t := range prefs {
		if !t.Valid() {
			return nil, errorx.Wrap(errors.New("unknown notification type"), errorx.Validation)
		}
	}

	user.Prefs = prefs
	updated, err := datastore.UpdateUserPrefs(ctx, service.postgresDB, user)
	if err != nil {
		return nil, err
	}

	service.InvalidateUserCache(ctx, user.ID)
	return updated, nil
}

func (service *ServiceUser) GetPointHistory(ctx context.Context, user *models.User, page, limit int) ([]*models.PointTransaction, error) {
	limit, offset := Paginate(page, limit)
	return datastore.GetUserPointTransactions(ctx, service.postgresDB, user.ID, limit, offset)
}

func (service *ServiceUser) InvalidateUserCache(ctx context.Context, userID int64) {
	//nolint:errcheck
	service.cache.Delete(ctx, DBKeyUser(userID))
	//nolint:errcheck
	service.cache.Delete(ctx, DBKeyMe(userID))
}

// Paginate normalizes 1-based page input into a bounded limit/offset pair.
func Paginate(page, limit int) (int, int) {
	if limit <= 0 {
		limit = DEFAULT_PAGE_LIMIT
	}
	if limit > MAX_PAGE_LIMIT {
		limit = MAX_PAGE_LIMIT
	}
	if page < 1 {
		page = 1
	}

	return limit, (page - 1) * limit
}
