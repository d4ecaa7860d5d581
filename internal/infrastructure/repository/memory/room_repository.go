package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/salabet/internal/domain/room"
)

type RoomRepository struct {
	mu      sync.RWMutex
	members map[string]map[string]room.Membership
}

func NewRoomRepository(memberships []room.Membership) *RoomRepository {
	r := &RoomRepository{members: make(map[string]map[string]room.Membership)}
	for _, m := range memberships {
		r.Join(m)
	}
	return r
}

// Join adds or replaces a membership.
func (r *RoomRepository) Join(m room.Membership) {
	r.mu.Lock()
	defer r.mu.Unlock()

	byUser, ok := r.members[m.RoomID]
	if !ok {
		byUser = make(map[string]room.Membership)
		r.members[m.RoomID] = byUser
	}
	if m.Role == "" {
		m.Role = room.RoleMember
	}
	byUser[m.UserID] = m
}

func (r *RoomRepository) ListMembers(_ context.Context, roomID string) ([]room.Membership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byUser := r.members[roomID]
	out := make([]room.Membership, 0, len(byUser))
	for _, m := range byUser {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].JoinedAt.Equal(out[j].JoinedAt) {
			return out[i].JoinedAt.Before(out[j].JoinedAt)
		}
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}
