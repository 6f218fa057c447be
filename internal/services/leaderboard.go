package services

import (
	"context"
	"time"

	"greensteps/internal/datastore"
	"greensteps/internal/datastore/redis_store"
	"greensteps/internal/models"
	"greensteps/internal/pkg"
	"greensteps/internal/pkg/caching"

	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

type ServiceLeaderboard struct {
	container     *do.Injector
	redisDB       redis.UniversalClient
	postgresDB    *bun.DB
	cache         caching.Cache
	readonlyCache caching.ReadOnlyCache
	logger        *zap.Logger

	serviceUser *ServiceUser
}

func NewServiceLeaderboard(container *do.Injector) (*ServiceLeaderboard, error) {
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

	serviceUser, err := do.Invoke[*ServiceUser](container)
	if err != nil {
		return nil, err
	}

	return &ServiceLeaderboard{container, db, postgresDB, cache, readonlyCache, logger, serviceUser}, nil
}

func (service *ServiceLeaderboard) GetOverallLeaderboard(ctx context.Context, user *models.User) (*models.LeaderboardResponse, error) {
	return service.getLeaderboard(ctx, user, LEADERBOARD_OVERALL, LEADERBOARD_DEFAULT_LIMIT)
}

func (service *ServiceLeaderboard) GetWeeklyLeaderboard(ctx context.Context, user *models.User) (*models.LeaderboardResponse, error) {
	return service.getLeaderboard(ctx, user, LEADERBOARD_WEEKLY, LEADERBOARD_DEFAULT_LIMIT)
}

// UpdateUserScore recomputes both boards for one user from the settled logs.
// Scores are derived, never incremented, so a replayed update converges.
func (service *ServiceLeaderboard) UpdateUserScore(ctx context.Context, userID int64) (*models.LeaderboardItem, error) {
	points, _, err := datastore.SumApprovedByUser(ctx, service.postgresDB, userID, nil)
	if err != nil {
		return nil, err
	}

	if err := redis_store.SetLeaderboardScore(ctx, service.redisDB, LEADERBOARD_OVERALL, userID, float64(points)); err != nil {
		return nil, err
	}

	if err := service.updateWeeklyScore(ctx, userID); err != nil {
		service.logger.Warn("weekly leaderboard update failed", zap.Int64("user_id", userID), zap.Error(err))
	}

	return redis_store.GetLeaderboardRank(ctx, service.redisDB, LEADERBOARD_OVERALL, userID)
}

func (service *ServiceLeaderboard) updateWeeklyScore(ctx context.Context, userID int64) error {
	thisWeek := pkg.GetFirstTimeOfCurrentWeek()
	points, _, err := datastore.SumApprovedByUser(ctx, service.postgresDB, userID, &thisWeek)
	if err != nil {
		return err
	}

	return redis_store.SetLeaderboardScore(ctx, service.redisDB, LEADERBOARD_WEEKLY, userID, float64(points))
}

// Rebuild repopulates both boards from scratch. The weekly board is reset
// first so entries from the previous window drop out.
func (service *ServiceLeaderboard) Rebuild(ctx context.Context) error {
	if err := service.rebuildBoard(ctx, LEADERBOARD_OVERALL, nil); err != nil {
		return err
	}

	thisWeek := pkg.GetFirstTimeOfCurrentWeek()
	return service.rebuildBoard(ctx, LEADERBOARD_WEEKLY, &thisWeek)
}

func (service *ServiceLeaderboard) rebuildBoard(ctx context.Context, name string, from *time.Time) error {
	if err := redis_store.ResetLeaderboard(ctx, service.redisDB, name); err != nil {
		return err
	}

	limit := 500
	for offset := 0; ; offset += limit {
		totals, err := datastore.SumApprovedSince(ctx, service.postgresDB, from, limit, offset)
		if err != nil {
			return err
		}

		for _, t := range totals {
			if err := redis_store.SetLeaderboardScore(ctx, service.redisDB, name, t.UserID, float64(t.Points)); err != nil {
				return err
			}
		}

		if len(totals) < limit {
			break
		}
	}

	items, err := service.hydrate(ctx, name, LEADERBOARD_DEFAULT_LIMIT)
	if err != nil {
		return err
	}

	return redis_store.SaveLeaderboardSnapshot(ctx, service.redisDB, name, LEADERBOARD_DEFAULT_LIMIT, items, CACHE_TTL_1_HOUR)
}

func (service *ServiceLeaderboard) getLeaderboard(ctx context.Context, user *models.User, name string, limit int) (*models.LeaderboardResponse, error) {
	callback := func() (*models.LeaderboardResponse, error) {
		items, err := redis_store.GetLeaderboardSnapshot(ctx, service.redisDB, name, limit)
		if err != nil {
			items, err = service.hydrate(ctx, name, limit)
			if err != nil {
				return nil, err
			}
		}

		me, err := redis_store.GetLeaderboardRank(ctx, service.redisDB, name, user.ID)
		if err != nil {
			return nil, err
		}
		if me == nil {
			me = &models.LeaderboardItem{UserID: user.ID, Rank: -1}
		}
		me.FirstName = user.FirstName
		me.LastName = user.LastName

		return &models.LeaderboardResponse{
			Leaderboard: items,
			Me:          me,
		}, nil
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyLeaderboardByUser(name, user.ID, limit), CACHE_TTL_1_MIN, callback)
}

// hydrate attaches display names to the raw ZSET rows.
func (service *ServiceLeaderboard) hydrate(ctx context.Context, name string, limit int) ([]*models.LeaderboardItem, error) {
	items, err := redis_store.GetLeaderboard(ctx, service.redisDB, name, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.UserID)
	}

	users, err := datastore.FindUsersByIDs(ctx, service.postgresDB, ids)
	if err != nil {
		return nil, err
	}

	byID := map[int64]*models.User{}
	for _, u := range users {
		byID[u.ID] = u
	}

	for _, item := range items {
		if u, ok := byID[item.UserID]; ok {
			item.FirstName = u.FirstName
			item.LastName = u.LastName
		}
	}

	return items, nil
}
