package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/salabet/internal/domain/leaderboard"
	qb "github.com/riskibarqy/salabet/internal/platform/querybuilder"
)

type LeaderboardRepository struct {
	db *sqlx.DB
}

func NewLeaderboardRepository(db *sqlx.DB) *LeaderboardRepository {
	return &LeaderboardRepository{db: db}
}

// ReplaceRoomPeriod upserts every entry and drops rows of users no longer ranked, in one transaction.
func (r *LeaderboardRepository) ReplaceRoomPeriod(ctx context.Context, roomID string, period time.Time, entries []leaderboard.Entry) error {
	day := leaderboard.FormatPeriod(period)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace leaderboard: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	userIDs := make([]any, 0, len(entries))
	for _, entry := range entries {
		insertModel := leaderboardEntryInsertModel{
			RoomID: roomID,
			UserID: entry.UserID,
			Period: day,
			Points: entry.Points,
			Rank:   entry.Rank,
		}
		query, args, err := qb.InsertModel("room_leaderboard_entries", insertModel, `ON CONFLICT (room_id, period, user_id)
DO UPDATE SET
    points = EXCLUDED.points,
    rank = EXCLUDED.rank,
    updated_at = NOW()`)
		if err != nil {
			return fmt.Errorf("build upsert leaderboard entry query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert leaderboard entry user=%s: %w", entry.UserID, err)
		}
		userIDs = append(userIDs, entry.UserID)
	}

	query, args, err := qb.DeleteFrom("room_leaderboard_entries").
		Where(
			qb.Eq("room_id", roomID),
			qb.Eq("period", day),
			qb.NotIn("user_id", userIDs),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build prune leaderboard query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("prune leaderboard entries: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace leaderboard: %w", err)
	}
	return nil
}

func (r *LeaderboardRepository) ListByRoom(ctx context.Context, roomID string, period time.Time) ([]leaderboard.Entry, error) {
	query, args, err := qb.Select("room_id", "user_id", "period", "points", "rank").
		From("room_leaderboard_entries").
		Where(
			qb.Eq("room_id", roomID),
			qb.Eq("period", leaderboard.FormatPeriod(period)),
		).
		OrderBy("rank", "user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list leaderboard query: %w", err)
	}

	var rows []leaderboardEntryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list leaderboard: %w", err)
	}

	out := make([]leaderboard.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, leaderboard.Entry{
			RoomID: row.RoomID,
			UserID: row.UserID,
			Period: leaderboard.PeriodOf(row.Period),
			Points: row.Points,
			Rank:   row.Rank,
		})
	}
	return out, nil
}
