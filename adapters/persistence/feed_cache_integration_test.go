package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/khoahotran/vidshare/internal/domain/video"
)

type FeedCacheIntegrationTestSuite struct {
	suite.Suite
	container *tcredis.RedisContainer
	rdb       *redis.Client
	cache     video.FeedCache
}

func (s *FeedCacheIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		s.T().Fatalf("Failed to start redis container: %s", err)
	}
	s.container = container

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		s.T().Fatalf("Failed to get connection string: %s", err)
	}
	opts, err := redis.ParseURL(uri)
	if err != nil {
		s.T().Fatalf("Failed to parse redis url: %s", err)
	}
	s.rdb = redis.NewClient(opts)
	s.cache = NewRedisFeedCache(s.rdb, time.Minute)
}

func (s *FeedCacheIntegrationTestSuite) SetupTest() {
	s.Require().NoError(s.rdb.FlushDB(context.Background()).Err())
}

func (s *FeedCacheIntegrationTestSuite) TearDownSuite() {
	if s.rdb != nil {
		_ = s.rdb.Close()
	}
	if s.container != nil {
		if err := s.container.Terminate(context.Background()); err != nil {
			s.T().Fatalf("Failed to terminate redis container: %s", err)
		}
	}
}

func TestFeedCacheIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode.")
	}
	suite.Run(t, new(FeedCacheIntegrationTestSuite))
}

func (s *FeedCacheIntegrationTestSuite) Test_SetGetInvalidate() {
	ctx := context.Background()

	_, ok, err := s.cache.GetFeed(ctx)
	s.Require().NoError(err)
	s.False(ok)

	feed := []*video.Video{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}}
	gen, err := s.cache.Generation(ctx)
	s.Require().NoError(err)
	stored, err := s.cache.SetFeed(ctx, gen, feed)
	s.Require().NoError(err)
	s.True(stored)

	got, ok, err := s.cache.GetFeed(ctx)
	s.Require().NoError(err)
	s.True(ok)
	s.Require().Len(got, 2)
	s.Equal("a", got[0].ID)

	ttl, err := s.rdb.TTL(ctx, feedCacheKey).Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))

	s.Require().NoError(s.cache.Invalidate(ctx))
	_, ok, err = s.cache.GetFeed(ctx)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *FeedCacheIntegrationTestSuite) Test_EmptyFeedIsAHit() {
	ctx := context.Background()
	gen, err := s.cache.Generation(ctx)
	s.Require().NoError(err)
	_, err = s.cache.SetFeed(ctx, gen, []*video.Video{})
	s.Require().NoError(err)

	got, ok, err := s.cache.GetFeed(ctx)
	s.Require().NoError(err)
	s.True(ok)
	s.NotNil(got)
	s.Empty(got)
}

func (s *FeedCacheIntegrationTestSuite) Test_CorruptEntryIsDropped() {
	ctx := context.Background()
	s.Require().NoError(s.rdb.Set(ctx, feedCacheKey, "not-json", time.Minute).Err())

	_, ok, err := s.cache.GetFeed(ctx)
	s.Error(err)
	s.False(ok)

	exists, err := s.rdb.Exists(ctx, feedCacheKey).Result()
	s.Require().NoError(err)
	s.Zero(exists)
}

func (s *FeedCacheIntegrationTestSuite) Test_InvalidateBetweenReadAndWriteDropsSnapshot() {
	ctx := context.Background()

	before, err := s.cache.Generation(ctx)
	s.Require().NoError(err)

	s.Require().NoError(s.cache.Invalidate(ctx))

	stored, err := s.cache.SetFeed(ctx, before, []*video.Video{{ID: "deleted"}})
	s.Require().NoError(err)
	s.False(stored)

	_, ok, err := s.cache.GetFeed(ctx)
	s.Require().NoError(err)
	s.False(ok)

	after, err := s.cache.Generation(ctx)
	s.Require().NoError(err)
	s.Equal(before+1, after)

	stored, err = s.cache.SetFeed(ctx, after, []*video.Video{{ID: "fresh"}})
	s.Require().NoError(err)
	s.True(stored)

	got, ok, err := s.cache.GetFeed(ctx)
	s.Require().NoError(err)
	s.True(ok)
	s.Require().Len(got, 1)
	s.Equal("fresh", got[0].ID)
}
