package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"frieren/internal/config"
	"frieren/internal/ratelimit"
	"frieren/internal/repos"
	"frieren/internal/services"
)

type stores struct {
	Orders services.OrderStore
	Admins services.AdminStore
	Close  func()
}

// openStores connects the backend named by STORE_DRIVER.
func openStores(ctx context.Context, cfg config.Config) (*stores, error) {
	switch cfg.StoreDriver {
	case "sqlite", "":
		db, err := repos.OpenDB(cfg.DBDSN)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.DBDSN, err)
		}
		return &stores{
			Orders: repos.NewOrderRepo(db),
			Admins: repos.NewAdminRepo(db),
			Close:  func() { _ = db.Close() },
		}, nil
	case "mongo":
		client, db, err := repos.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		return &stores{
			Orders: repos.NewMongoOrderRepo(db),
			Admins: repos.NewMongoAdminRepo(db),
			Close:  func() { _ = client.Disconnect(context.Background()) },
		}, nil
	}
	return nil, fmt.Errorf("unknown STORE_DRIVER %q (want sqlite or mongo)", cfg.StoreDriver)
}

// openLimiter returns the per-process limiter unless a shared Redis counter is
// configured.
func openLimiter(ctx context.Context, cfg config.Config) (ratelimit.Limiter, func(), error) {
	switch cfg.RateLimiter {
	case "memory", "":
		return ratelimit.NewMemory(), func() {}, nil
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
		}
		return ratelimit.NewRedis(rdb, ""), func() { _ = rdb.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown RATE_LIMIT_DRIVER %q (want memory or redis)", cfg.RateLimiter)
}
