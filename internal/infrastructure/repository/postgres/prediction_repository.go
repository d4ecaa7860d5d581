package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/salabet/internal/domain/prediction"
	qb "github.com/riskibarqy/salabet/internal/platform/querybuilder"
)

type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

func (r *PredictionRepository) ListForSettlement(ctx context.Context, filter prediction.ListFilter) ([]prediction.Prediction, error) {
	statuses := make([]any, 0, len(filter.Statuses))
	for _, status := range filter.Statuses {
		statuses = append(statuses, string(status))
	}

	conditions := []qb.Condition{
		qb.Eq("match_id", filter.MatchID),
		qb.In("status", statuses),
		qb.IsNull("deleted_at"),
	}
	if filter.RoomID != "" {
		conditions = append(conditions, qb.Eq("room_id", filter.RoomID))
	}

	query, args, err := qb.Select(
		"id", "user_id", "match_id", "room_id", "predicted_home", "predicted_away",
		"status", "points_awarded", "rule_override::text AS rule_override", "created_at", "settled_at",
	).
		From("predictions").
		Where(conditions...).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list predictions query: %w", err)
	}

	var rows []predictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list predictions for settlement: %w", err)
	}

	out := make([]prediction.Prediction, 0, len(rows))
	for _, row := range rows {
		out = append(out, predictionFromRow(row))
	}
	return out, nil
}

// ApplySettlement locks the row so two runs cannot both move it out of PENDING.
func (r *PredictionRepository) ApplySettlement(ctx context.Context, settlement prediction.Settlement) (prediction.SettlementResult, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return prediction.SettlementResult{}, fmt.Errorf("begin tx apply settlement: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	lockQuery, lockArgs, err := qb.Select("status", "points_awarded").
		From("predictions").
		Where(qb.Eq("id", settlement.PredictionID), qb.IsNull("deleted_at")).
		ForUpdate().
		ToSQL()
	if err != nil {
		return prediction.SettlementResult{}, fmt.Errorf("build lock prediction query: %w", err)
	}

	var current predictionLockModel
	if err := tx.GetContext(ctx, &current, lockQuery, lockArgs...); err != nil {
		if isNotFound(err) {
			return prediction.SettlementResult{}, fmt.Errorf("prediction %s not found", settlement.PredictionID)
		}
		return prediction.SettlementResult{}, fmt.Errorf("lock prediction: %w", err)
	}

	result := prediction.SettlementResult{
		PreviousStatus: prediction.Status(current.Status),
		PreviousPoints: current.PointsAwarded,
	}
	switch {
	case result.PreviousStatus == prediction.StatusPending:
	case settlement.AllowResettle && result.PreviousStatus.Settled():
	default:
		return result, nil
	}

	updateQuery, updateArgs, err := qb.Update("predictions").
		Set("status", string(settlement.Status)).
		Set("points_awarded", settlement.Points).
		Set("settled_at", settlement.SettledAt.UTC()).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", settlement.PredictionID)).
		ToSQL()
	if err != nil {
		return prediction.SettlementResult{}, fmt.Errorf("build settle prediction query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, updateQuery, updateArgs...); err != nil {
		return prediction.SettlementResult{}, fmt.Errorf("settle prediction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return prediction.SettlementResult{}, fmt.Errorf("commit apply settlement: %w", err)
	}
	result.Applied = true
	return result, nil
}

func (r *PredictionRepository) SumWonPointsByRoom(ctx context.Context, roomID string) (map[string]int, error) {
	query, args, err := qb.Select("user_id", "COALESCE(SUM(points_awarded), 0) AS points").
		From("predictions").
		Where(
			qb.Eq("room_id", roomID),
			qb.Eq("status", string(prediction.StatusWon)),
			qb.IsNull("deleted_at"),
		).
		GroupBy("user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build sum won points query: %w", err)
	}

	var rows []wonPointsRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("sum won points: %w", err)
	}

	out := make(map[string]int, len(rows))
	for _, row := range rows {
		out[row.UserID] = row.Points
	}
	return out, nil
}

// predictionFromRow never fails: an unreadable override travels on the
// prediction so only that row is reported during settlement.
func predictionFromRow(row predictionTableModel) prediction.Prediction {
	override, overrideErr := decodeRuleOverride(row.RuleOverride)
	if overrideErr != nil {
		overrideErr = fmt.Errorf("decode rule override prediction=%s: %w", row.ID, overrideErr)
	}

	var settledAt *time.Time
	if row.SettledAt != nil {
		value := row.SettledAt.UTC()
		settledAt = &value
	}

	return prediction.Prediction{
		ID:              row.ID,
		UserID:          row.UserID,
		MatchID:         row.MatchID,
		RoomID:          row.RoomID,
		PredictedHome:   row.PredictedHome,
		PredictedAway:   row.PredictedAway,
		Status:          prediction.Status(row.Status),
		PointsAwarded:   row.PointsAwarded,
		RuleOverride:    override,
		RuleOverrideErr: overrideErr,
		CreatedAt:       row.CreatedAt.UTC(),
		SettledAt:       settledAt,
	}
}
