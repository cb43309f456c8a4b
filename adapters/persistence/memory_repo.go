package persistence

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/vidshare/internal/domain/user"
	"github.com/khoahotran/vidshare/internal/domain/video"
	"github.com/khoahotran/vidshare/pkg/apperror"
)

// memoryVideoRepo backs the "memory" driver used for local runs and tests.
// Records are copied in and out so callers never share state with the store.
type memoryVideoRepo struct {
	mu     sync.RWMutex
	videos map[string]video.Video
}

func NewMemoryVideoRepo() video.Repository {
	return &memoryVideoRepo{videos: make(map[string]video.Video)}
}

func (r *memoryVideoRepo) Insert(ctx context.Context, v *video.Video) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *v
	stored.ID = uuid.NewString()
	r.videos[stored.ID] = stored
	return stored.ID, nil
}

func (r *memoryVideoRepo) FindByID(ctx context.Context, id string) (*video.Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.videos[id]
	if !ok {
		return nil, apperror.NewNotFound("video", id)
	}
	return &v, nil
}

func (r *memoryVideoRepo) DeleteByID(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.videos[id]; !ok {
		return false, nil
	}
	delete(r.videos, id)
	return true, nil
}

func (r *memoryVideoRepo) ListAll(ctx context.Context) ([]*video.Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	videos := make([]*video.Video, 0, len(r.videos))
	for _, v := range r.videos {
		v := v
		videos = append(videos, &v)
	}
	sort.SliceStable(videos, func(i, j int) bool {
		if videos[i].CreatedAt.Equal(videos[j].CreatedAt) {
			return videos[i].ID > videos[j].ID
		}
		return videos[i].CreatedAt.After(videos[j].CreatedAt)
	})
	return videos, nil
}

func (r *memoryVideoRepo) IncrementViews(ctx context.Context, id string) (*video.Video, error) {
	return r.increment(id, func(v *video.Video) { v.Views++ })
}

func (r *memoryVideoRepo) IncrementLikes(ctx context.Context, id string) (*video.Video, error) {
	return r.increment(id, func(v *video.Video) { v.Likes++ })
}

func (r *memoryVideoRepo) increment(id string, apply func(v *video.Video)) (*video.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.videos[id]
	if !ok {
		return nil, apperror.NewNotFound("video", id)
	}
	apply(&v)
	v.UpdatedAt = time.Now().UTC()
	r.videos[id] = v
	return &v, nil
}

type memoryUserRepo struct {
	mu      sync.RWMutex
	byEmail map[string]user.User
}

func NewMemoryUserRepo() user.Repository {
	return &memoryUserRepo{byEmail: make(map[string]user.User)}
}

func (r *memoryUserRepo) Create(ctx context.Context, u *user.User) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(u.Email)
	if _, exists := r.byEmail[email]; exists {
		return "", apperror.NewConflict("user", "email", u.Email)
	}
	stored := *u
	stored.ID = uuid.NewString()
	stored.Email = email
	r.byEmail[email] = stored
	return stored.ID, nil
}

func (r *memoryUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, apperror.NewNotFound("user", email)
	}
	return &u, nil
}
