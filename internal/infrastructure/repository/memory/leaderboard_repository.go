package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/salabet/internal/domain/leaderboard"
)

type leaderboardKey struct {
	roomID string
	period string
}

type LeaderboardRepository struct {
	mu      sync.RWMutex
	entries map[leaderboardKey][]leaderboard.Entry
}

func NewLeaderboardRepository() *LeaderboardRepository {
	return &LeaderboardRepository{entries: make(map[leaderboardKey][]leaderboard.Entry)}
}

func (r *LeaderboardRepository) ReplaceRoomPeriod(_ context.Context, roomID string, period time.Time, entries []leaderboard.Entry) error {
	key := leaderboardKey{roomID: roomID, period: leaderboard.FormatPeriod(period)}
	items := append([]leaderboard.Entry(nil), entries...)

	r.mu.Lock()
	r.entries[key] = items
	r.mu.Unlock()
	return nil
}

func (r *LeaderboardRepository) ListByRoom(_ context.Context, roomID string, period time.Time) ([]leaderboard.Entry, error) {
	key := leaderboardKey{roomID: roomID, period: leaderboard.FormatPeriod(period)}

	r.mu.RLock()
	out := append([]leaderboard.Entry(nil), r.entries[key]...)
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	return out, nil
}
