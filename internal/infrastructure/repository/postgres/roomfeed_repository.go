package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/salabet/internal/domain/roomfeed"
	qb "github.com/riskibarqy/salabet/internal/platform/querybuilder"
)

type RoomFeedRepository struct {
	db *sqlx.DB
}

func NewRoomFeedRepository(db *sqlx.DB) *RoomFeedRepository {
	return &RoomFeedRepository{db: db}
}

func (r *RoomFeedRepository) Create(ctx context.Context, notification roomfeed.Notification) error {
	insertModel := roomFeedInsertModel{
		ID:        notification.ID,
		RoomID:    notification.RoomID,
		Kind:      string(notification.Kind),
		Message:   notification.Message,
		UserID:    nullableString(notification.UserID),
		MatchID:   nullableString(notification.MatchID),
		CreatedAt: notification.CreatedAt.UTC(),
	}

	query, args, err := qb.InsertModel("room_feed_notifications", insertModel, "")
	if err != nil {
		return fmt.Errorf("build create notification query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

func (r *RoomFeedRepository) LatestByKind(ctx context.Context, roomID string, kind roomfeed.Kind) (roomfeed.Notification, bool, error) {
	query, args, err := qb.Select("id", "room_id", "kind", "message", "user_id", "match_id", "created_at").
		From("room_feed_notifications").
		Where(
			qb.Eq("room_id", roomID),
			qb.Eq("kind", string(kind)),
		).
		OrderBy("created_at DESC", "id DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return roomfeed.Notification{}, false, fmt.Errorf("build latest notification query: %w", err)
	}

	var row roomFeedTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return roomfeed.Notification{}, false, nil
		}
		return roomfeed.Notification{}, false, fmt.Errorf("get latest notification: %w", err)
	}

	return roomfeed.Notification{
		ID:        row.ID,
		RoomID:    row.RoomID,
		Kind:      roomfeed.Kind(row.Kind),
		Message:   row.Message,
		UserID:    derefString(row.UserID),
		MatchID:   derefString(row.MatchID),
		CreatedAt: row.CreatedAt.UTC(),
	}, true, nil
}

func (r *RoomFeedRepository) ExistsForMatch(ctx context.Context, roomID string, kind roomfeed.Kind, matchID string) (bool, error) {
	query, args, err := qb.Select("1").
		From("room_feed_notifications").
		Where(
			qb.Eq("room_id", roomID),
			qb.Eq("kind", string(kind)),
			qb.Eq("match_id", matchID),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build notification exists query: %w", err)
	}

	var found int
	if err := r.db.GetContext(ctx, &found, query, args...); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("check notification exists: %w", err)
	}
	return true, nil
}
