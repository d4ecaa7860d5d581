package memory

import (
	"context"
	"fmt"
	"sync"
)

type UserRepository struct {
	mu     sync.Mutex
	totals map[string]int
}

func NewUserRepository(userIDs ...string) *UserRepository {
	totals := make(map[string]int, len(userIDs))
	for _, userID := range userIDs {
		totals[userID] = 0
	}
	return &UserRepository{totals: totals}
}

func (r *UserRepository) AddPoints(_ context.Context, userID string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	total, ok := r.totals[userID]
	if !ok {
		return fmt.Errorf("user %s not found", userID)
	}
	r.totals[userID] = total + delta
	return nil
}

func (r *UserRepository) TotalPoints(userID string) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	total, ok := r.totals[userID]
	return total, ok
}
