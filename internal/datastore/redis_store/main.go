package redis_store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"greensteps/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

func dbKeyLeaderboard(name string) string {
	return fmt.Sprintf("leaderboard:%s", strings.ToLower(name))
}

func dbKeyLeaderboardSnapshot(name string, limit int) string {
	return fmt.Sprintf("leaderboard:snapshot:%s:%d", strings.ToLower(name), limit)
}

func SetLeaderboardScore(ctx context.Context, cmd redis.Cmdable, name string, userID int64, score float64) error {
	return cmd.ZAdd(ctx, dbKeyLeaderboard(name), redis.Z{
		Score:  score,
		Member: userID,
	}).Err()
}

func GetLeaderboard(ctx context.Context, cmd redis.Cmdable, name string, limit int) ([]*models.LeaderboardItem, error) {
	zs, err := cmd.ZRevRangeWithScores(ctx, dbKeyLeaderboard(name), 0, int64(limit)-1).Result()
	if err != nil {
		return nil, err
	}

	items := make([]*models.LeaderboardItem, 0, len(zs))
	for i, z := range zs {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		var userID int64
		if _, err := fmt.Sscanf(member, "%d", &userID); err != nil {
			continue
		}
		items = append(items, &models.LeaderboardItem{
			UserID: userID,
			Score:  z.Score,
			Rank:   i + 1,
		})
	}

	return items, nil
}

// GetLeaderboardRank returns the caller's 1-based rank and score, or nil
// when the user has no entry yet.
func GetLeaderboardRank(ctx context.Context, cmd redis.Cmdable, name string, userID int64) (*models.LeaderboardItem, error) {
	member := fmt.Sprintf("%d", userID)
	rank, err := cmd.ZRevRank(ctx, dbKeyLeaderboard(name), member).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	score, err := cmd.ZScore(ctx, dbKeyLeaderboard(name), member).Result()
	if err != nil {
		return nil, err
	}

	return &models.LeaderboardItem{
		UserID: userID,
		Score:  score,
		Rank:   int(rank) + 1,
	}, nil
}

func ResetLeaderboard(ctx context.Context, cmd redis.Cmdable, name string) error {
	return cmd.Del(ctx, dbKeyLeaderboard(name)).Err()
}

// SaveLeaderboardSnapshot stores the hydrated top rows so reads skip the
// per-user profile lookups between rebuilds.
func SaveLeaderboardSnapshot(ctx context.Context, cmd redis.Cmdable, name string, limit int, items []*models.LeaderboardItem, ttl time.Duration) error {
	b, err := msgpack.Marshal(items)
	if err != nil {
		return err
	}

	return cmd.Set(ctx, dbKeyLeaderboardSnapshot(name, limit), b, ttl).Err()
}

func GetLeaderboardSnapshot(ctx context.Context, cmd redis.Cmdable, name string, limit int) ([]*models.LeaderboardItem, error) {
	b, err := cmd.Get(ctx, dbKeyLeaderboardSnapshot(name, limit)).Bytes()
	if err != nil {
		return nil, err
	}

	var items []*models.LeaderboardItem
	err = msgpack.Unmarshal(b, &items)
	return items, err
}
