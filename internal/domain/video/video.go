package video

import (
	"context"
	"strings"
	"time"
)

// MimePrefix is the required prefix of every stored file type.
const MimePrefix = "video/"

// Video is one catalog record. UserID is set at creation and never changes;
// VideoURL is the media locator of exactly one object in the media store.
type Video struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	VideoURL    string    `json:"videoUrl"`
	UserID      string    `json:"userId"`
	FileName    string    `json:"fileName"`
	FileSize    int64     `json:"fileSize"`
	FileType    string    `json:"fileType"`
	Views       int64     `json:"views"`
	Likes       int64     `json:"likes"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// IsVideoType matches the prefix exactly; the stored fileType is the value
// that was checked.
func IsVideoType(mimeType string) bool {
	return strings.HasPrefix(mimeType, MimePrefix)
}

func (v *Video) OwnedBy(ownerID string) bool {
	return ownerID != "" && v.UserID == ownerID
}

// Repository is the catalog store. Implementations assign IDs on Insert and
// return *apperror.AppError values (NotFound for unknown or malformed IDs).
type Repository interface {
	Insert(ctx context.Context, v *Video) (string, error)
	FindByID(ctx context.Context, id string) (*Video, error)
	DeleteByID(ctx context.Context, id string) (bool, error)
	ListAll(ctx context.Context) ([]*Video, error)
	IncrementViews(ctx context.Context, id string) (*Video, error)
	IncrementLikes(ctx context.Context, id string) (*Video, error)
}

// FeedCache holds the newest-first list served by the feed. Every
// Invalidate bumps the generation; SetFeed stores the list only while the
// generation still equals the one read before the catalog was listed, so a
// list overlapping a write never re-fills the cache with its older snapshot.
type FeedCache interface {
	GetFeed(ctx context.Context) ([]*Video, bool, error)
	Generation(ctx context.Context) (int64, error)
	SetFeed(ctx context.Context, gen int64, videos []*Video) (bool, error)
	Invalidate(ctx context.Context) error
}
