package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/salabet/internal/domain/match"
	qb "github.com/riskibarqy/salabet/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) ListSettleable(ctx context.Context, filter match.SettleableFilter) ([]match.Match, error) {
	conditions := []qb.Condition{
		qb.Eq("status", string(match.StatusFinished)),
		qb.IsNotNull("home_score"),
		qb.IsNotNull("away_score"),
		qb.IsNull("deleted_at"),
	}
	if filter.MatchID != "" {
		conditions = append(conditions, qb.Eq("id", filter.MatchID))
	}

	query, args, err := qb.Select(
		"id", "home_team_id", "home_team_name", "away_team_id", "away_team_name",
		"kickoff_at", "status", "home_score", "away_score",
	).
		From("matches").
		Where(conditions...).
		OrderBy("kickoff_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list settleable matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list settleable matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, match.Match{
			ID:         row.ID,
			HomeTeamID: row.HomeTeamID,
			HomeTeam:   row.HomeTeam,
			AwayTeamID: row.AwayTeamID,
			AwayTeam:   row.AwayTeam,
			KickoffAt:  row.KickoffAt.UTC(),
			Status:     match.NormalizeStatus(row.Status),
			HomeScore:  row.HomeScore,
			AwayScore:  row.AwayScore,
		})
	}
	return out, nil
}
