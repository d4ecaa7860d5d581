package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/salabet/internal/domain/prediction"
)

type PredictionRepository struct {
	mu    sync.RWMutex
	items map[string]prediction.Prediction
}

func NewPredictionRepository(predictions []prediction.Prediction) *PredictionRepository {
	items := make(map[string]prediction.Prediction, len(predictions))
	for _, p := range predictions {
		if p.Status == "" {
			p.Status = prediction.StatusPending
		}
		items[p.ID] = clonePrediction(p)
	}
	return &PredictionRepository{items: items}
}

func (r *PredictionRepository) ListForSettlement(_ context.Context, filter prediction.ListFilter) ([]prediction.Prediction, error) {
	statuses := make(map[prediction.Status]struct{}, len(filter.Statuses))
	for _, status := range filter.Statuses {
		statuses[status] = struct{}{}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]prediction.Prediction, 0)
	for _, p := range r.items {
		if filter.MatchID != "" && p.MatchID != filter.MatchID {
			continue
		}
		if filter.RoomID != "" && p.RoomID != filter.RoomID {
			continue
		}
		if _, ok := statuses[p.Status]; !ok {
			continue
		}
		out = append(out, clonePrediction(p))
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *PredictionRepository) ApplySettlement(_ context.Context, settlement prediction.Settlement) (prediction.SettlementResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[settlement.PredictionID]
	if !ok {
		return prediction.SettlementResult{}, fmt.Errorf("prediction %s not found", settlement.PredictionID)
	}

	result := prediction.SettlementResult{
		PreviousStatus: current.Status,
		PreviousPoints: current.PointsAwarded,
	}
	switch {
	case current.Status == prediction.StatusPending:
	case settlement.AllowResettle && current.Status.Settled():
	default:
		return result, nil
	}

	settledAt := settlement.SettledAt
	current.Status = settlement.Status
	current.PointsAwarded = settlement.Points
	current.SettledAt = &settledAt
	r.items[current.ID] = current

	result.Applied = true
	return result, nil
}

func (r *PredictionRepository) SumWonPointsByRoom(_ context.Context, roomID string) (map[string]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]int)
	for _, p := range r.items {
		if p.RoomID != roomID || p.Status != prediction.StatusWon {
			continue
		}
		out[p.UserID] += p.PointsAwarded
	}
	return out, nil
}

// Get is a read helper for fixtures and tests.
func (r *PredictionRepository) Get(predictionID string) (prediction.Prediction, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[predictionID]
	if !ok {
		return prediction.Prediction{}, false
	}
	return clonePrediction(p), true
}

func clonePrediction(p prediction.Prediction) prediction.Prediction {
	if p.RuleOverride != nil {
		rules := *p.RuleOverride
		p.RuleOverride = &rules
	}
	if p.SettledAt != nil {
		settledAt := *p.SettledAt
		p.SettledAt = &settledAt
	}
	return p
}
