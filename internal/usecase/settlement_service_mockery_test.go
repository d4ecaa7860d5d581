package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/salabet/internal/domain/leaderboard"
	"github.com/riskibarqy/salabet/internal/domain/match"
	"github.com/riskibarqy/salabet/internal/domain/prediction"
	"github.com/riskibarqy/salabet/internal/domain/room"
	"github.com/riskibarqy/salabet/internal/domain/roomfeed"
	"github.com/riskibarqy/salabet/internal/domain/scoring"
	"github.com/riskibarqy/salabet/internal/infrastructure/repository/memory"
	leaderboardmock "github.com/riskibarqy/salabet/internal/mocks/domain/leaderboard"
	matchmock "github.com/riskibarqy/salabet/internal/mocks/domain/match"
	predictionmock "github.com/riskibarqy/salabet/internal/mocks/domain/prediction"
	roomfeedmock "github.com/riskibarqy/salabet/internal/mocks/domain/roomfeed"
	usermock "github.com/riskibarqy/salabet/internal/mocks/domain/user"
	"github.com/riskibarqy/salabet/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

func TestSettlementService_Settle_ListMatchesFailureUsingMockery(t *testing.T) {
	t.Parallel()

	matchRepo := matchmock.NewRepository(t)
	matchRepo.
		On("ListSettleable", mock.Anything, match.SettleableFilter{MatchID: "m1"}).
		Return(nil, errors.New("connection refused")).
		Once()

	svc := NewSettlementService(
		matchRepo,
		memory.NewPredictionRepository(nil),
		memory.NewUserRepository(),
		nil,
		nil,
		&sequenceIDs{},
		SettlementConfig{Rules: scoring.DefaultRuleSet()},
		logging.NewNop(),
	)

	_, err := svc.Settle(t.Context(), SettleInput{MatchID: "m1"})
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestSettlementService_Settle_UserTotalFailureUsingMockery(t *testing.T) {
	t.Parallel()

	userRepo := usermock.NewRepository(t)
	userRepo.
		On("AddPoints", mock.Anything, "ana", 10).
		Return(errors.New("deadlock detected")).
		Once()
	userRepo.
		On("AddPoints", mock.Anything, "budi", 8).
		Return(nil).
		Once()

	predictions := memory.NewPredictionRepository([]prediction.Prediction{
		pending("p1", "ana", "m1", "r1", 2, 1),
		pending("p2", "budi", "m1", "r1", 1, 0),
	})
	svc := NewSettlementService(
		memory.NewMatchRepository([]match.Match{finishedMatch("m1", 2, 1)}),
		predictions,
		userRepo,
		nil,
		nil,
		&sequenceIDs{},
		SettlementConfig{Rules: scoring.DefaultRuleSet()},
		logging.NewNop(),
	)

	report, err := svc.Settle(t.Context(), SettleInput{})
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if report.UsersUpdated != 1 {
		t.Fatalf("expected one user updated, got %d", report.UsersUpdated)
	}
	if report.ErrorCount() != 1 {
		t.Fatalf("expected one aggregation error, got %+v", report.Errors)
	}
	got := report.Errors[0]
	if got.Stage != SettlementStageUserTotal || got.UserID != "ana" {
		t.Fatalf("unexpected error item: %+v", got)
	}
	if !strings.Contains(got.Message, "deadlock detected") {
		t.Fatalf("unexpected error message: %q", got.Message)
	}

	// The prediction write is kept even though the total failed.
	if p, _ := predictions.Get("p1"); p.Status != prediction.StatusWon {
		t.Fatalf("expected p1 to stay WON, got %s", p.Status)
	}
}

func TestSettlementService_Settle_LeaderboardFailureUsingMockery(t *testing.T) {
	t.Parallel()

	boards := leaderboardmock.NewRepository(t)
	boards.
		On("ReplaceRoomPeriod", mock.Anything, "r1", leaderboard.PeriodOf(testNow), mock.AnythingOfType("[]leaderboard.Entry")).
		Return(errors.New("statement timeout")).
		Times(2)

	predictions := memory.NewPredictionRepository([]prediction.Prediction{pending("p1", "ana", "m1", "r1", 2, 1)})
	users := memory.NewUserRepository("ana")
	feed := roomfeedmock.NewRepository(t)
	feed.
		On("ExistsForMatch", mock.Anything, "r1", roomfeed.KindMatchResult, "m1").
		Return(false, nil).
		Once()
	feed.
		On("Create", mock.Anything, mock.MatchedBy(func(n roomfeed.Notification) bool {
			return n.Kind == roomfeed.KindMatchResult && n.RoomID == "r1" && n.MatchID == "m1"
		})).
		Return(errors.New("feed unavailable")).
		Once()

	boardSvc := NewLeaderboardService(
		memory.NewRoomRepository([]room.Membership{member("r1", "ana", 0)}),
		predictions,
		boards,
		feed,
		nil,
		&sequenceIDs{},
		LeaderboardConfig{WriteAttempts: 2, RetryDelay: time.Millisecond},
		logging.NewNop(),
	)
	boardSvc.now = func() time.Time { return testNow }

	svc := NewSettlementService(
		memory.NewMatchRepository([]match.Match{finishedMatch("m1", 2, 1)}),
		predictions,
		users,
		feed,
		boardSvc,
		&sequenceIDs{},
		SettlementConfig{Rules: scoring.DefaultRuleSet(), LeaderboardWorkers: 1},
		logging.NewNop(),
	)
	svc.now = func() time.Time { return testNow }

	report, err := svc.Settle(context.Background(), SettleInput{})
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if report.LeaderboardsUpdated != 0 || report.UsersUpdated != 1 {
		t.Fatalf("unexpected aggregation counts: %+v", report)
	}
	if report.ErrorCount() != 1 || report.Errors[0].Stage != SettlementStageLeaderboard || report.Errors[0].RoomID != "r1" {
		t.Fatalf("expected leaderboard error for r1, got %+v", report.Errors)
	}
	if total, _ := users.TotalPoints("ana"); total != 10 {
		t.Fatalf("user total must be applied despite leaderboard failure, got %d", total)
	}
}

func TestSettlementService_Settle_ApplyFailuresUsingMockery(t *testing.T) {
	t.Parallel()

	predictions := predictionmock.NewRepository(t)
	predictions.
		On("ListForSettlement", mock.Anything, prediction.ListFilter{
			MatchID:  "m1",
			Statuses: []prediction.Status{prediction.StatusPending},
		}).
		Return([]prediction.Prediction{
			pending("p1", "ana", "m1", "r1", 2, 1),
			pending("p2", "budi", "m1", "r1", 1, 0),
			pending("p3", "citra", "m1", "r1", 0, 2),
		}, nil).
		Once()
	predictions.
		On("ApplySettlement", mock.Anything, mock.MatchedBy(func(s prediction.Settlement) bool { return s.PredictionID == "p1" })).
		Return(prediction.SettlementResult{}, errors.New("could not serialize access")).
		Once()
	predictions.
		On("ApplySettlement", mock.Anything, mock.MatchedBy(func(s prediction.Settlement) bool { return s.PredictionID == "p2" })).
		Return(prediction.SettlementResult{Applied: false, PreviousStatus: prediction.StatusWon, PreviousPoints: 10}, nil).
		Once()
	predictions.
		On("ApplySettlement", mock.Anything, mock.MatchedBy(func(s prediction.Settlement) bool {
			return s.PredictionID == "p3" && s.Status == prediction.StatusLost && s.Points == 0 && !s.AllowResettle
		})).
		Return(prediction.SettlementResult{Applied: true, PreviousStatus: prediction.StatusPending}, nil).
		Once()

	users := memory.NewUserRepository("ana", "budi", "citra")
	svc := NewSettlementService(
		memory.NewMatchRepository([]match.Match{finishedMatch("m1", 2, 1)}),
		predictions,
		users,
		nil,
		nil,
		&sequenceIDs{},
		SettlementConfig{Rules: scoring.DefaultRuleSet()},
		logging.NewNop(),
	)

	report, err := svc.Settle(t.Context(), SettleInput{})
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if report.Lost != 1 || report.Won != 0 || report.Skipped != 1 {
		t.Fatalf("unexpected outcome counts: %+v", report)
	}
	if report.ErrorCount() != 1 || report.Errors[0].Stage != SettlementStagePrediction || report.Errors[0].PredictionID != "p1" {
		t.Fatalf("expected prediction error for p1, got %+v", report.Errors)
	}
	if report.UsersUpdated != 1 {
		t.Fatalf("only citra has a recorded outcome, got %d users updated", report.UsersUpdated)
	}
}
