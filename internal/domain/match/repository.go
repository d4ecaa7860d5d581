package match

import "context"

type SettleableFilter struct {
	MatchID string
}

// Repository exposes the match reads settlement needs.
// ListSettleable returns finished matches with both scores, ordered by kickoff then id.
type Repository interface {
	ListSettleable(ctx context.Context, filter SettleableFilter) ([]Match, error)
}
