package persistence

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/khoahotran/vidshare/internal/domain/user"
	"github.com/khoahotran/vidshare/internal/domain/video"
	"github.com/khoahotran/vidshare/pkg/apperror"
)

type VideoRepoIntegrationTestSuite struct {
	suite.Suite
	dbPool      *pgxpool.Pool
	pgContainer *postgres.PostgresContainer
	videoRepo   video.Repository
	userRepo    user.Repository
}

func (s *VideoRepoIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(1*time.Minute),
		),
	)
	if err != nil {
		s.T().Fatalf("Failed to start postgres container: %s", err)
	}
	s.pgContainer = pgContainer

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		s.T().Fatalf("Failed to get connection string: %s", err)
	}

	m, err := migrate.New("file://../../migrations", dsn)
	if err != nil {
		s.T().Fatalf("Failed to create migrate instance: %s", err)
	}
	if err := m.Up(); err != nil {
		s.T().Fatalf("Failed to run migrations: %s", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		s.T().Fatalf("Failed to create pgxpool: %s", err)
	}
	s.dbPool = pool

	s.videoRepo = NewPostgresVideoRepo(s.dbPool)
	s.userRepo = NewPostgresUserRepo(s.dbPool)
}

func (s *VideoRepoIntegrationTestSuite) TearDownSuite() {
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(context.Background()); err != nil {
			s.T().Fatalf("Failed to terminate postgres container: %s", err)
		}
	}
}

func (s *VideoRepoIntegrationTestSuite) SetupTest() {
	_, err := s.dbPool.Exec(context.Background(), "TRUNCATE videos, users")
	s.Require().NoError(err)
}

func TestVideoRepoIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode.")
	}
	suite.Run(t, new(VideoRepoIntegrationTestSuite))
}

func newTestVideo(title string, createdAt time.Time) *video.Video {
	return &video.Video{
		Title:       title,
		Description: "desc",
		VideoURL:    "videos/1700000000000-" + title + ".mp4",
		UserID:      "u1",
		FileName:    title + ".mp4",
		FileSize:    1024,
		FileType:    "video/mp4",
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

func (s *VideoRepoIntegrationTestSuite) Test_Insert_And_FindByID() {
	ctx := context.Background()
	v := newTestVideo("demo", time.Now().UTC().Truncate(time.Microsecond))

	id, err := s.videoRepo.Insert(ctx, v)
	s.Require().NoError(err)
	s.NotEmpty(id)

	found, err := s.videoRepo.FindByID(ctx, id)
	s.Require().NoError(err)
	s.Equal(id, found.ID)
	s.Equal(v.Title, found.Title)
	s.Equal(v.VideoURL, found.VideoURL)
	s.Equal(v.FileSize, found.FileSize)
	s.True(v.CreatedAt.Equal(found.CreatedAt))
}

func (s *VideoRepoIntegrationTestSuite) Test_FindByID_UnknownOrMalformed() {
	_, err := s.videoRepo.FindByID(context.Background(), "not-a-uuid")
	s.ErrorIs(err, apperror.ErrNotFound)

	_, err = s.videoRepo.FindByID(context.Background(), "3f1e8a7c-0000-4000-8000-000000000000")
	s.ErrorIs(err, apperror.ErrNotFound)
}

func (s *VideoRepoIntegrationTestSuite) Test_ListAll_NewestFirst() {
	ctx := context.Background()
	base := time.Now().UTC()
	_, err := s.videoRepo.Insert(ctx, newTestVideo("old", base.Add(-time.Hour)))
	s.Require().NoError(err)
	_, err = s.videoRepo.Insert(ctx, newTestVideo("new", base))
	s.Require().NoError(err)

	videos, err := s.videoRepo.ListAll(ctx)
	s.Require().NoError(err)
	s.Require().Len(videos, 2)
	s.Equal("new", videos[0].Title)
	s.Equal("old", videos[1].Title)
}

func (s *VideoRepoIntegrationTestSuite) Test_ListAll_EmptyIsNotNil() {
	videos, err := s.videoRepo.ListAll(context.Background())
	s.Require().NoError(err)
	s.NotNil(videos)
	s.Empty(videos)
}

func (s *VideoRepoIntegrationTestSuite) Test_DeleteByID_OnlyOneWinner() {
	ctx := context.Background()
	id, err := s.videoRepo.Insert(ctx, newTestVideo("race", time.Now().UTC()))
	s.Require().NoError(err)

	var wg sync.WaitGroup
	results := make([]bool, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			deleted, err := s.videoRepo.DeleteByID(ctx, id)
			s.NoError(err)
			results[i] = deleted
		}(i)
	}
	wg.Wait()

	s.NotEqual(results[0], results[1])
	_, err = s.videoRepo.FindByID(ctx, id)
	s.ErrorIs(err, apperror.ErrNotFound)
}

func (s *VideoRepoIntegrationTestSuite) Test_Increments() {
	ctx := context.Background()
	id, err := s.videoRepo.Insert(ctx, newTestVideo("counted", time.Now().UTC()))
	s.Require().NoError(err)

	_, err = s.videoRepo.IncrementViews(ctx, id)
	s.Require().NoError(err)
	v, err := s.videoRepo.IncrementViews(ctx, id)
	s.Require().NoError(err)
	s.Equal(int64(2), v.Views)

	v, err = s.videoRepo.IncrementLikes(ctx, id)
	s.Require().NoError(err)
	s.Equal(int64(1), v.Likes)

	_, err = s.videoRepo.IncrementViews(ctx, "3f1e8a7c-0000-4000-8000-000000000000")
	s.ErrorIs(err, apperror.ErrNotFound)
}

func (s *VideoRepoIntegrationTestSuite) Test_UserEmailIsUnique() {
	ctx := context.Background()
	u := &user.User{Email: "owner@example.com", PasswordHash: "hash", CreatedAt: time.Now().UTC()}

	id, err := s.userRepo.Create(ctx, u)
	s.Require().NoError(err)

	found, err := s.userRepo.FindByEmail(ctx, "owner@example.com")
	s.Require().NoError(err)
	s.Equal(id, found.ID)

	_, err = s.userRepo.Create(ctx, u)
	s.ErrorIs(err, apperror.ErrConflict)

	_, err = s.userRepo.FindByEmail(ctx, "missing@example.com")
	s.ErrorIs(err, apperror.ErrNotFound)
}
