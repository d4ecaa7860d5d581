package user

import "context"

// Repository keeps each user's lifetime points total.
type Repository interface {
	// AddPoints increments the stored total in a single statement.
	AddPoints(ctx context.Context, userID string, delta int) error
}
