package prediction

import (
	"time"

	"github.com/riskibarqy/salabet/internal/domain/scoring"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusWon      Status = "WON"
	StatusLost     Status = "LOST"
	StatusCanceled Status = "CANCELED"
)

func StatusFromOutcome(outcome scoring.Outcome) Status {
	if outcome == scoring.OutcomeWon {
		return StatusWon
	}
	return StatusLost
}

func (s Status) Settled() bool {
	return s == StatusWon || s == StatusLost
}

// Prediction is one user's scoreline for a match inside a room.
// There is at most one per (user, match, room).
type Prediction struct {
	ID            string
	UserID        string
	MatchID       string
	RoomID        string
	PredictedHome int
	PredictedAway int
	Status        Status
	PointsAwarded int
	RuleOverride  *scoring.RuleSet
	// RuleOverrideErr is set when a stored override could not be read.
	// Such a prediction cannot be scored and fails on its own.
	RuleOverrideErr error
	CreatedAt       time.Time
	SettledAt       *time.Time
}

func (p Prediction) Scoreline() scoring.Scoreline {
	return scoring.Scoreline{Home: p.PredictedHome, Away: p.PredictedAway}
}

// Rules returns the override when present, otherwise the given default.
func (p Prediction) Rules(defaults scoring.RuleSet) scoring.RuleSet {
	if p.RuleOverride != nil {
		return *p.RuleOverride
	}
	return defaults
}

type ListFilter struct {
	MatchID  string
	RoomID   string
	Statuses []Status
}

// Settlement is a guarded outcome write. Without AllowResettle only PENDING rows change.
type Settlement struct {
	PredictionID  string
	Points        int
	Status        Status
	AllowResettle bool
	SettledAt     time.Time
}

type SettlementResult struct {
	Applied        bool
	PreviousStatus Status
	PreviousPoints int
}
