package leaderboard

import (
	"context"
	"time"
)

type Repository interface {
	// ReplaceRoomPeriod upserts the given entries and drops rows of users not in the set.
	ReplaceRoomPeriod(ctx context.Context, roomID string, period time.Time, entries []Entry) error
	// ListByRoom returns entries ordered by rank.
	ListByRoom(ctx context.Context, roomID string, period time.Time) ([]Entry, error)
}
