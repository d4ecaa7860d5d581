package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/salabet/internal/domain/match"
)

type MatchRepository struct {
	mu    sync.RWMutex
	items map[string]match.Match
}

func NewMatchRepository(matches []match.Match) *MatchRepository {
	items := make(map[string]match.Match, len(matches))
	for _, m := range matches {
		items[m.ID] = cloneMatch(m)
	}
	return &MatchRepository{items: items}
}

func (r *MatchRepository) ListSettleable(_ context.Context, filter match.SettleableFilter) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, len(r.items))
	for _, m := range r.items {
		if filter.MatchID != "" && m.ID != filter.MatchID {
			continue
		}
		if !m.Settleable() {
			continue
		}
		out = append(out, cloneMatch(m))
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].KickoffAt.Equal(out[j].KickoffAt) {
			return out[i].KickoffAt.Before(out[j].KickoffAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Upsert stores a match, e.g. after a result import.
func (r *MatchRepository) Upsert(m match.Match) {
	r.mu.Lock()
	r.items[m.ID] = cloneMatch(m)
	r.mu.Unlock()
}

func cloneMatch(m match.Match) match.Match {
	m.HomeScore = cloneInt(m.HomeScore)
	m.AwayScore = cloneInt(m.AwayScore)
	return m
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
