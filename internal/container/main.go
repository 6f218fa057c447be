package container

import (
	"database/sql"
	"os"

	"greensteps/internal/interfaces"
	"greensteps/internal/pkg/caching"
	"greensteps/internal/pkg/limiter"
	"greensteps/internal/pkg/logger"
	"greensteps/internal/services"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/hiendaovinh/toolkit/pkg/db"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"go.uber.org/zap"
)

// New wires the shared dependency graph used by every binary.
func New(vs map[string]string) *do.Injector {
	injector := do.New()

	vs["API_MODE"] = os.Getenv("API_MODE")
	vs["API_ORIGINS"] = os.Getenv("API_ORIGINS")
	if vs["API_MODE"] == "" {
		vs["API_MODE"] = "production"
	}
	if vs["API_ORIGINS"] == "" {
		vs["API_ORIGINS"] = "*"
	}

	do.ProvideNamedValue(injector, "envs", vs)

	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level: os.Getenv("LOG_LEVEL"),
			Path:  os.Getenv("LOG_PATH"),
		})
	})

	do.Provide(injector, func(i *do.Injector) (*bun.DB, error) {
		sqldb := sql.OpenDB(pgdriver.NewConnector(
			pgdriver.WithDSN(os.Getenv("DB_DSN")),
			pgdriver.WithPassword(os.Getenv("DB_PASSWORD")),
		))

		return bun.NewDB(sqldb, pgdialect.New()), nil
	})

	do.ProvideNamed(injector, "redis-db", redisProvider("CLUSTER_REDIS_DB", "REDIS_DB"))
	do.ProvideNamed(injector, "redis-cache", redisProvider("CLUSTER_REDIS_CACHE", "REDIS_CACHE"))
	do.ProvideNamed(injector, "redis-limiter", redisProvider("CLUSTER_REDIS_LIMITER", "REDIS_LIMITER"))
	do.ProvideNamed(injector, "redis-mutex", redisProvider("CLUSTER_REDIS_MUTEX", "REDIS_MUTEX"))

	do.ProvideNamed(injector, "redis-cache-readonly", func(i *do.Injector) (redis.UniversalClient, error) {
		clusterURL := os.Getenv("CLUSTER_REDIS_CACHE_READONLY")
		if clusterURL == "" {
			clusterURL = os.Getenv("CLUSTER_REDIS_CACHE")
		}
		if clusterURL != "" {
			clusterOpts, err := redis.ParseClusterURL(clusterURL)
			if err != nil {
				return nil, err
			}
			clusterOpts.ReadOnly = true
			return redis.NewClusterClient(clusterOpts), nil
		}

		url := os.Getenv("REDIS_CACHE_READONLY")
		if url == "" {
			url = os.Getenv("REDIS_CACHE")
		}
		return db.InitRedis(&db.RedisConfig{URL: url})
	})

	do.Provide(injector, func(i *do.Injector) (caching.Cache, error) {
		dbRedis, err := do.InvokeNamed[redis.UniversalClient](i, "redis-cache")
		if err != nil {
			return nil, err
		}

		return caching.NewCacheRedis(dbRedis, false)
	})

	do.Provide(injector, func(i *do.Injector) (caching.ReadOnlyCache, error) {
		dbRedis, err := do.InvokeNamed[redis.UniversalClient](i, "redis-cache-readonly")
		if err != nil {
			return nil, err
		}

		return caching.NewCacheRedis(dbRedis, false)
	})

	do.Provide(injector, func(i *do.Injector) (interfaces.Limiter, error) {
		dbRedis, err := do.InvokeNamed[redis.UniversalClient](i, "redis-limiter")
		if err != nil {
			return nil, err
		}

		return limiter.NewLimiter(dbRedis)
	})

	do.Provide(injector, func(i *do.Injector) (*redsync.Redsync, error) {
		dbRedis, err := do.InvokeNamed[redis.UniversalClient](i, "redis-mutex")
		if err != nil {
			return nil, err
		}

		return redsync.New(goredis.NewPool(dbRedis)), nil
	})

	do.Provide(injector, func(i *do.Injector) (*services.Authentication, error) {
		return services.NewAuthentication(vs["JWT_SECRET"])
	})

	do.Provide(injector, func(i *do.Injector) (*services.ServiceUser, error) {
		return services.NewServiceUser(injector)
	})

	do.Provide(injector, func(i *do.Injector) (*services.ServiceNotification, error) {
		return services.NewServiceNotification(injector)
	})

	do.Provide(injector, func(i *do.Injector) (*services.ServiceLeaderboard, error) {
		return services.NewServiceLeaderboard(injector)
	})

	do.Provide(injector, func(i *do.Injector) (*services.ServiceBadge, error) {
		return services.NewServiceBadge(injector)
	})

	do.Provide(injector, func(i *do.Injector) (*services.ServiceAction, error) {
		return services.NewServiceAction(injector)
	})

	do.Provide(injector, func(i *do.Injector) (*services.ServiceActionLog, error) {
		return services.NewServiceActionLog(injector)
	})

	do.Provide(injector, func(i *do.Injector) (*services.ServiceChallenge, error) {
		return services.NewServiceChallenge(injector)
	})

	do.Provide(injector, func(i *do.Injector) (*services.ServiceTeam, error) {
		return services.NewServiceTeam(injector)
	})

	do.Provide(injector, func(i *do.Injector) (*services.ServiceTips, error) {
		return services.NewServiceTips(injector)
	})

	do.Provide(injector, func(i *do.Injector) (*services.ServiceStats, error) {
		return services.NewServiceStats(injector)
	})

	return injector
}

func redisProvider(clusterEnv, urlEnv string) func(*do.Injector) (redis.UniversalClient, error) {
	return func(i *do.Injector) (redis.UniversalClient, error) {
		clusterURL := os.Getenv(clusterEnv)
		if clusterURL != "" {
			clusterOpts, err := redis.ParseClusterURL(clusterURL)
			if err != nil {
				return nil, err
			}
			return redis.NewClusterClient(clusterOpts), nil
		}

		return db.InitRedis(&db.RedisConfig{URL: os.Getenv(urlEnv)})
	}
}
