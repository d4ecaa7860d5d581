package memory

import (
	"time"

	"github.com/riskibarqy/salabet/internal/domain/match"
	"github.com/riskibarqy/salabet/internal/domain/prediction"
	"github.com/riskibarqy/salabet/internal/domain/room"
	"github.com/riskibarqy/salabet/internal/domain/scoring"
)

const (
	RoomIDOfficeLeague = "room-office-league"
	RoomIDFamily       = "room-family"
)

var seedKickoff = time.Date(2026, time.February, 14, 12, 0, 0, 0, time.UTC)

func SeedUserIDs() []string {
	return []string{"user-ana", "user-budi", "user-citra", "user-dimas"}
}

func SeedMatches() []match.Match {
	return []match.Match{
		{
			ID: "match-psj-psb", HomeTeamID: "idn-persija", HomeTeam: "Persija Jakarta",
			AwayTeamID: "idn-persib", AwayTeam: "Persib Bandung",
			KickoffAt: seedKickoff, Status: match.StatusFinished,
			HomeScore: intPtr(2), AwayScore: intPtr(1),
		},
		{
			ID: "match-prb-bu", HomeTeamID: "idn-persebaya", HomeTeam: "Persebaya Surabaya",
			AwayTeamID: "idn-baliutd", AwayTeam: "Bali United",
			KickoffAt: seedKickoff.Add(3 * time.Hour), Status: match.StatusFinished,
			HomeScore: intPtr(1), AwayScore: intPtr(1),
		},
		{
			ID: "match-ars-liv", HomeTeamID: "eng-ars", HomeTeam: "Arsenal",
			AwayTeamID: "eng-liv", AwayTeam: "Liverpool",
			KickoffAt: seedKickoff.Add(24 * time.Hour), Status: match.StatusScheduled,
		},
	}
}

func SeedMemberships() []room.Membership {
	return []room.Membership{
		{RoomID: RoomIDOfficeLeague, UserID: "user-ana", Username: "ana", Role: room.RoleAdmin, JoinedAt: seedKickoff.Add(-72 * time.Hour)},
		{RoomID: RoomIDOfficeLeague, UserID: "user-budi", Username: "budi", Role: room.RoleMember, JoinedAt: seedKickoff.Add(-48 * time.Hour)},
		{RoomID: RoomIDOfficeLeague, UserID: "user-citra", Username: "citra", Role: room.RoleMember, JoinedAt: seedKickoff.Add(-24 * time.Hour)},
		{RoomID: RoomIDFamily, UserID: "user-dimas", Username: "dimas", Role: room.RoleAdmin, JoinedAt: seedKickoff.Add(-96 * time.Hour)},
		{RoomID: RoomIDFamily, UserID: "user-ana", Username: "ana", Role: room.RoleMember, JoinedAt: seedKickoff.Add(-12 * time.Hour)},
	}
}

func SeedPredictions() []prediction.Prediction {
	created := seedKickoff.Add(-2 * time.Hour)
	generous := scoring.RuleSet{Name: "family-generous", ExactScore: 15, CorrectWinner: 7, CorrectDraw: 7, CorrectGoalDifference: 4}

	return []prediction.Prediction{
		{ID: "pred-001", UserID: "user-ana", MatchID: "match-psj-psb", RoomID: RoomIDOfficeLeague, PredictedHome: 2, PredictedAway: 1, CreatedAt: created},
		{ID: "pred-002", UserID: "user-budi", MatchID: "match-psj-psb", RoomID: RoomIDOfficeLeague, PredictedHome: 1, PredictedAway: 0, CreatedAt: created.Add(time.Minute)},
		{ID: "pred-003", UserID: "user-citra", MatchID: "match-psj-psb", RoomID: RoomIDOfficeLeague, PredictedHome: 0, PredictedAway: 2, CreatedAt: created.Add(2 * time.Minute)},
		{ID: "pred-004", UserID: "user-ana", MatchID: "match-prb-bu", RoomID: RoomIDOfficeLeague, PredictedHome: 2, PredictedAway: 2, CreatedAt: created.Add(3 * time.Minute)},
		{ID: "pred-005", UserID: "user-budi", MatchID: "match-prb-bu", RoomID: RoomIDOfficeLeague, PredictedHome: 1, PredictedAway: 1, CreatedAt: created.Add(4 * time.Minute)},
		{ID: "pred-006", UserID: "user-dimas", MatchID: "match-psj-psb", RoomID: RoomIDFamily, PredictedHome: 3, PredictedAway: 2, RuleOverride: &generous, CreatedAt: created.Add(5 * time.Minute)},
		{ID: "pred-007", UserID: "user-ana", MatchID: "match-psj-psb", RoomID: RoomIDFamily, PredictedHome: 2, PredictedAway: 1, CreatedAt: created.Add(6 * time.Minute)},
		{ID: "pred-008", UserID: "user-dimas", MatchID: "match-ars-liv", RoomID: RoomIDFamily, PredictedHome: 1, PredictedAway: 0, CreatedAt: created.Add(7 * time.Minute)},
	}
}

func intPtr(v int) *int {
	return &v
}
