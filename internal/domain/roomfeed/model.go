package roomfeed

import "time"

type Kind string

const (
	KindMatchResult Kind = "match_result"
	KindNewLeader   Kind = "new_leader"
)

// Notification is an automatic message posted to a room's feed.
type Notification struct {
	ID        string
	RoomID    string
	Kind      Kind
	Message   string
	UserID    string
	MatchID   string
	CreatedAt time.Time
}
