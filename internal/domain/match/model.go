package match

import (
	"strings"
	"time"

	"github.com/riskibarqy/salabet/internal/domain/scoring"
)

type Status string

const (
	StatusScheduled  Status = "SCHEDULED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusFinished   Status = "FINISHED"
	StatusCanceled   Status = "CANCELED"
	StatusPostponed  Status = "POSTPONED"
	StatusSuspended  Status = "SUSPENDED"
)

func NormalizeStatus(value string) Status {
	status := Status(strings.ToUpper(strings.TrimSpace(value)))
	if status == "" {
		return StatusScheduled
	}
	return status
}

// Match is a football fixture with its final result once it has been imported.
type Match struct {
	ID         string
	HomeTeamID string
	HomeTeam   string
	AwayTeamID string
	AwayTeam   string
	KickoffAt  time.Time
	Status     Status
	HomeScore  *int
	AwayScore  *int
}

func (m Match) FinalScore() scoring.FinalScore {
	return scoring.FinalScore{Home: m.HomeScore, Away: m.AwayScore}
}

// Settleable reports whether predictions on this match can be resolved.
func (m Match) Settleable() bool {
	return m.Status == StatusFinished && m.FinalScore().Settleable()
}
