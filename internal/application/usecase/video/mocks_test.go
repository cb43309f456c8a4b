package video

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/khoahotran/vidshare/internal/domain/video"
)

type mockVideoRepo struct {
	mock.Mock
}

func (m *mockVideoRepo) Insert(ctx context.Context, v *video.Video) (string, error) {
	args := m.Called(v)
	return args.String(0), args.Error(1)
}

func (m *mockVideoRepo) FindByID(ctx context.Context, id string) (*video.Video, error) {
	args := m.Called(id)
	v, _ := args.Get(0).(*video.Video)
	return v, args.Error(1)
}

func (m *mockVideoRepo) DeleteByID(ctx context.Context, id string) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func (m *mockVideoRepo) ListAll(ctx context.Context) ([]*video.Video, error) {
	args := m.Called()
	v, _ := args.Get(0).([]*video.Video)
	return v, args.Error(1)
}

func (m *mockVideoRepo) IncrementViews(ctx context.Context, id string) (*video.Video, error) {
	args := m.Called(id)
	v, _ := args.Get(0).(*video.Video)
	return v, args.Error(1)
}

func (m *mockVideoRepo) IncrementLikes(ctx context.Context, id string) (*video.Video, error) {
	args := m.Called(id)
	v, _ := args.Get(0).(*video.Video)
	return v, args.Error(1)
}

type mockMediaStore struct {
	mock.Mock
}

func (m *mockMediaStore) Upload(ctx context.Context, content []byte, originalName, contentType string) (string, error) {
	args := m.Called(content, originalName, contentType)
	return args.String(0), args.Error(1)
}

func (m *mockMediaStore) Delete(ctx context.Context, locator string) error {
	return m.Called(locator).Error(0)
}

func (m *mockMediaStore) PlaybackURL(locator string) string {
	return "https://media.example.com/" + locator
}

type mockFeedCache struct {
	mock.Mock
}

func (m *mockFeedCache) GetFeed(ctx context.Context) ([]*video.Video, bool, error) {
	args := m.Called()
	v, _ := args.Get(0).([]*video.Video)
	return v, args.Bool(1), args.Error(2)
}

func (m *mockFeedCache) Generation(ctx context.Context) (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockFeedCache) SetFeed(ctx context.Context, gen int64, videos []*video.Video) (bool, error) {
	args := m.Called(gen, videos)
	return args.Bool(0), args.Error(1)
}

func (m *mockFeedCache) Invalidate(ctx context.Context) error {
	return m.Called().Error(0)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishVideoEvent(ctx context.Context, ev video.Event) error {
	return m.Called(ev).Error(0)
}

func (m *mockPublisher) PublishViewEvent(ctx context.Context, ev video.Event) error {
	return m.Called(ev).Error(0)
}

func eventOfType(t video.EventType) interface{} {
	return mock.MatchedBy(func(ev video.Event) bool { return ev.EventType == t })
}
