package roomfeed

import "context"

type Repository interface {
	Create(ctx context.Context, notification Notification) error
	LatestByKind(ctx context.Context, roomID string, kind Kind) (Notification, bool, error)
	ExistsForMatch(ctx context.Context, roomID string, kind Kind, matchID string) (bool, error)
}
