package room

import "context"

type Repository interface {
	ListMembers(ctx context.Context, roomID string) ([]Membership, error)
}
