package video

import "time"

type EventType string

const (
	EventCreated       EventType = "video.created"
	EventDeleted       EventType = "video.deleted"
	EventMediaOrphaned EventType = "media.orphaned"
	EventViewed        EventType = "video.viewed"
	EventLiked         EventType = "video.liked"
)

// Event is published after a lifecycle step completes. A media.orphaned event
// always names a locator that no catalog record references.
type Event struct {
	EventType  EventType `json:"event_type"`
	VideoID    string    `json:"video_id,omitempty"`
	OwnerID    string    `json:"owner_id,omitempty"`
	Locator    string    `json:"locator,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewEvent(t EventType, v *Video) Event {
	return Event{
		EventType:  t,
		VideoID:    v.ID,
		OwnerID:    v.UserID,
		Locator:    v.VideoURL,
		OccurredAt: time.Now().UTC(),
	}
}

func NewOrphanEvent(locator, ownerID, reason string) Event {
	return Event{
		EventType:  EventMediaOrphaned,
		OwnerID:    ownerID,
		Locator:    locator,
		Reason:     reason,
		OccurredAt: time.Now().UTC(),
	}
}
