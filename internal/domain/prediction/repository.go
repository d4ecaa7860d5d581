package prediction

import "context"

type Repository interface {
	// ListForSettlement returns predictions ordered by creation time then id.
	ListForSettlement(ctx context.Context, filter ListFilter) ([]Prediction, error)
	// ApplySettlement locks the row, re-checks its status and writes points and outcome atomically.
	ApplySettlement(ctx context.Context, settlement Settlement) (SettlementResult, error)
	// SumWonPointsByRoom returns awarded points of WON predictions keyed by user id.
	SumWonPointsByRoom(ctx context.Context, roomID string) (map[string]int, error)
}
