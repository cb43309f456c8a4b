package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/khoahotran/vidshare/internal/config"
	"github.com/khoahotran/vidshare/internal/domain/user"
	"github.com/khoahotran/vidshare/internal/domain/video"
	"github.com/khoahotran/vidshare/pkg/logger"
)

// Repositories groups the stores selected by configuration. Close releases
// every underlying connection.
type Repositories struct {
	Videos    video.Repository
	Users     user.Repository
	FeedCache video.FeedCache
	closers   []func()
}

func (r *Repositories) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
}

func NewRepositories(ctx context.Context, cfg config.Config, log logger.Logger) (*Repositories, error) {
	repos := &Repositories{}

	switch cfg.DB.Driver {
	case config.DriverMongo:
		client, err := NewMongoClient(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		repos.closers = append(repos.closers, func() { _ = client.Disconnect(context.Background()) })

		db := client.Database(cfg.DB.MongoDatabase)
		if err := EnsureVideoIndexes(ctx, db); err != nil {
			repos.Close()
			return nil, err
		}
		if err := EnsureUserIndexes(ctx, db); err != nil {
			repos.Close()
			return nil, err
		}
		repos.Videos = NewMongoVideoRepo(db)
		repos.Users = NewMongoUserRepo(db)

	case config.DriverPostgres:
		pool, err := NewPostgresPool(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		repos.closers = append(repos.closers, pool.Close)
		repos.Videos = NewPostgresVideoRepo(pool)
		repos.Users = NewPostgresUserRepo(pool)

	case config.DriverMemory:
		log.Warn("Using in-memory catalog, data is lost on restart")
		repos.Videos = NewMemoryVideoRepo()
		repos.Users = NewMemoryUserRepo()

	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.DB.Driver)
	}

	if cfg.Redis.Addr == "" {
		repos.FeedCache = NewNopFeedCache()
		return repos, nil
	}

	rdb, err := NewRedisClient(cfg, log)
	if err != nil {
		// The feed cache is optional; listing falls back to the catalog.
		log.Warn("Redis unavailable, feed cache disabled", zap.Error(err))
		repos.FeedCache = NewNopFeedCache()
		return repos, nil
	}
	repos.closers = append(repos.closers, func() { _ = rdb.Close() })
	repos.FeedCache = NewRedisFeedCache(rdb, cfg.Cache.FeedTTL)

	log.Info("Repositories ready", zap.String("driver", cfg.DB.Driver))
	return repos, nil
}
