package usecase

import (
	"strings"
	"time"

	"github.com/riskibarqy/salabet/internal/domain/prediction"
)

const (
	SettlementStageLoadPredictions = "load_predictions"
	SettlementStagePrediction      = "prediction"
	SettlementStageUserTotal       = "user_total"
	SettlementStageLeaderboard     = "leaderboard"
)

type SettleInput struct {
	MatchID string `json:"match_id"`
	RoomID  string `json:"room_id"`
	DryRun  bool   `json:"dry_run"`
	Verbose bool   `json:"verbose"`
	// Force re-scores WON and LOST predictions too; user totals get the net difference.
	Force bool `json:"force"`
}

func (in SettleInput) normalize() SettleInput {
	in.MatchID = strings.TrimSpace(in.MatchID)
	in.RoomID = strings.TrimSpace(in.RoomID)
	return in
}

func (in SettleInput) flightKey() string {
	var b strings.Builder
	b.WriteString("settle:")
	b.WriteString(in.MatchID)
	b.WriteString(":")
	b.WriteString(in.RoomID)
	if in.DryRun {
		b.WriteString(":dry")
	}
	if in.Force {
		b.WriteString(":force")
	}
	if in.Verbose {
		b.WriteString(":verbose")
	}
	return b.String()
}

type SettlementReport struct {
	RunID                string             `json:"run_id"`
	DryRun               bool               `json:"dry_run"`
	Force                bool               `json:"force"`
	StartedAt            time.Time          `json:"started_at"`
	FinishedAt           time.Time          `json:"finished_at"`
	MatchesProcessed     int                `json:"matches_processed"`
	PredictionsProcessed int                `json:"predictions_processed"`
	Won                  int                `json:"won"`
	Lost                 int                `json:"lost"`
	Skipped              int                `json:"skipped"`
	UsersUpdated         int                `json:"users_updated"`
	LeaderboardsUpdated  int                `json:"leaderboards_updated"`
	Errors               []SettlementError  `json:"errors"`
	Predictions          []PredictionDetail `json:"predictions,omitempty"`
	UserDeltas           []UserDelta        `json:"user_deltas,omitempty"`
}

func (r SettlementReport) ErrorCount() int {
	return len(r.Errors)
}

// SettlementError identifies the item a caught failure belongs to.
type SettlementError struct {
	Stage        string `json:"stage"`
	PredictionID string `json:"prediction_id,omitempty"`
	MatchID      string `json:"match_id,omitempty"`
	UserID       string `json:"user_id,omitempty"`
	RoomID       string `json:"room_id,omitempty"`
	Message      string `json:"message"`
}

type PredictionDetail struct {
	PredictionID string            `json:"prediction_id"`
	MatchID      string            `json:"match_id"`
	RoomID       string            `json:"room_id"`
	UserID       string            `json:"user_id"`
	Predicted    string            `json:"predicted"`
	Actual       string            `json:"actual"`
	RuleSet      string            `json:"rule_set"`
	Points       int               `json:"points"`
	Status       prediction.Status `json:"status"`
	PointsDelta  int               `json:"points_delta"`
}

type UserDelta struct {
	UserID string `json:"user_id"`
	Delta  int    `json:"delta"`
}
