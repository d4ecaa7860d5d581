package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/salabet/internal/domain/room"
	qb "github.com/riskibarqy/salabet/internal/platform/querybuilder"
)

type RoomRepository struct {
	db *sqlx.DB
}

func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) ListMembers(ctx context.Context, roomID string) ([]room.Membership, error) {
	query, args, err := qb.Select("rm.room_id", "rm.user_id", "u.username", "rm.role", "rm.joined_at").
		From("room_members rm").
		Join("users u", "u.id = rm.user_id").
		Where(
			qb.Eq("rm.room_id", roomID),
			qb.IsNull("rm.left_at"),
		).
		OrderBy("rm.joined_at", "rm.user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list room members query: %w", err)
	}

	var rows []roomMemberTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list room members: %w", err)
	}

	out := make([]room.Membership, 0, len(rows))
	for _, row := range rows {
		out = append(out, room.Membership{
			RoomID:   row.RoomID,
			UserID:   row.UserID,
			Username: row.Username,
			Role:     room.Role(row.Role),
			JoinedAt: row.JoinedAt.UTC(),
		})
	}
	return out, nil
}
