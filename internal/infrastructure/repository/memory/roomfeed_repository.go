package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskibarqy/salabet/internal/domain/roomfeed"
)

type RoomFeedRepository struct {
	mu    sync.RWMutex
	items []roomfeed.Notification
	ids   map[string]struct{}
}

func NewRoomFeedRepository() *RoomFeedRepository {
	return &RoomFeedRepository{ids: make(map[string]struct{})}
}

func (r *RoomFeedRepository) Create(_ context.Context, notification roomfeed.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ids[notification.ID]; exists {
		return fmt.Errorf("notification %s already exists", notification.ID)
	}
	r.ids[notification.ID] = struct{}{}
	r.items = append(r.items, notification)
	return nil
}

func (r *RoomFeedRepository) LatestByKind(_ context.Context, roomID string, kind roomfeed.Kind) (roomfeed.Notification, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		latest roomfeed.Notification
		found  bool
	)
	for _, n := range r.items {
		if n.RoomID != roomID || n.Kind != kind {
			continue
		}
		if !found || !n.CreatedAt.Before(latest.CreatedAt) {
			latest = n
			found = true
		}
	}
	return latest, found, nil
}

func (r *RoomFeedRepository) ExistsForMatch(_ context.Context, roomID string, kind roomfeed.Kind, matchID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, n := range r.items {
		if n.RoomID == roomID && n.Kind == kind && n.MatchID == matchID {
			return true, nil
		}
	}
	return false, nil
}

// ListByRoom returns notifications in insertion order.
func (r *RoomFeedRepository) ListByRoom(roomID string) []roomfeed.Notification {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]roomfeed.Notification, 0)
	for _, n := range r.items {
		if n.RoomID == roomID {
			out = append(out, n)
		}
	}
	return out
}
