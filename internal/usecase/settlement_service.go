package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/salabet/internal/domain/leaderboard"
	"github.com/riskibarqy/salabet/internal/domain/match"
	"github.com/riskibarqy/salabet/internal/domain/prediction"
	"github.com/riskibarqy/salabet/internal/domain/roomfeed"
	"github.com/riskibarqy/salabet/internal/domain/scoring"
	"github.com/riskibarqy/salabet/internal/domain/user"
	idgen "github.com/riskibarqy/salabet/internal/platform/id"
	"github.com/riskibarqy/salabet/internal/platform/logging"
	"github.com/riskibarqy/salabet/internal/platform/resilience"
	"github.com/sourcegraph/conc/panics"
	"go.opentelemetry.io/otel/attribute"
)

type SettlementConfig struct {
	Rules              scoring.RuleSet
	LeaderboardWorkers int
}

// RoomRecalculator rebuilds one room leaderboard for a period.
type RoomRecalculator interface {
	Recalculate(ctx context.Context, roomID string, period time.Time) ([]leaderboard.Entry, error)
}

type SettlementService struct {
	matchRepo      match.Repository
	predictionRepo prediction.Repository
	userRepo       user.Repository
	feedRepo       roomfeed.Repository
	rooms          RoomRecalculator
	idGen          idgen.Generator
	cfg            SettlementConfig
	logger         *logging.Logger
	now            func() time.Time
	flight         resilience.SingleFlight[SettlementReport]
}

func NewSettlementService(
	matchRepo match.Repository,
	predictionRepo prediction.Repository,
	userRepo user.Repository,
	feedRepo roomfeed.Repository,
	rooms RoomRecalculator,
	idGen idgen.Generator,
	cfg SettlementConfig,
	logger *logging.Logger,
) *SettlementService {
	if logger == nil {
		logger = logging.Default()
	}
	if idGen == nil {
		idGen = idgen.NewUUIDGenerator()
	}

	return &SettlementService{
		matchRepo:      matchRepo,
		predictionRepo: predictionRepo,
		userRepo:       userRepo,
		feedRepo:       feedRepo,
		rooms:          rooms,
		idGen:          idGen,
		cfg:            cfg,
		logger:         logger,
		now:            time.Now,
	}
}

type userRoomKey struct {
	userID string
	roomID string
}

type roomMatchKey struct {
	roomID  string
	matchID string
}

type settlementRun struct {
	input   SettleInput
	rules   scoring.RuleSet
	logger  *logging.Logger
	report  *SettlementReport
	deltas  map[userRoomKey]int
	rooms   map[string]struct{}
	results map[roomMatchKey]match.Match
}

// Settle scores every selected prediction of finished matches, then applies
// user totals and rebuilds the leaderboard of every touched room.
// Identical scopes running at the same time share one execution.
func (s *SettlementService) Settle(ctx context.Context, input SettleInput) (SettlementReport, error) {
	input = input.normalize()
	ctx, span := startUsecaseSpan(ctx, "usecase.SettlementService.Settle",
		attribute.String("settle.match_id", input.MatchID),
		attribute.String("settle.room_id", input.RoomID),
		attribute.Bool("settle.dry_run", input.DryRun),
		attribute.Bool("settle.force", input.Force),
	)
	defer span.End()

	report, err, shared := s.flight.DoContext(ctx, input.flightKey(), func(runCtx context.Context) (SettlementReport, error) {
		return s.settle(runCtx, input)
	})
	if shared {
		s.logger.InfoContext(ctx, "settlement joined in-flight run",
			"run_id", report.RunID,
			"match_id", input.MatchID,
			"room_id", input.RoomID,
		)
	}
	recordSpanError(span, err)
	return report, err
}

func (s *SettlementService) settle(ctx context.Context, input SettleInput) (SettlementReport, error) {
	rules := s.cfg.Rules
	if err := rules.Validate(); err != nil {
		return SettlementReport{}, errors.Mark(errors.Wrap(err, "default rule set"), ErrConfiguration)
	}
	if s.matchRepo == nil || s.predictionRepo == nil || s.userRepo == nil {
		return SettlementReport{}, fmt.Errorf("%w: settlement repositories are not configured", ErrDependencyUnavailable)
	}

	runID, err := s.idGen.NewID()
	if err != nil {
		return SettlementReport{}, fmt.Errorf("generate settlement run id: %w", err)
	}

	report := SettlementReport{
		RunID:     runID,
		DryRun:    input.DryRun,
		Force:     input.Force,
		StartedAt: s.now().UTC(),
		Errors:    []SettlementError{},
	}
	logger := s.logger.With("run_id", runID, "dry_run", input.DryRun, "force", input.Force)
	logger.InfoContext(ctx, "settlement started",
		"match_id", input.MatchID,
		"room_id", input.RoomID,
		"rule_set", rules.Name,
	)

	matches, err := s.matchRepo.ListSettleable(ctx, match.SettleableFilter{MatchID: input.MatchID})
	if err != nil {
		return report, errors.Mark(errors.Wrap(err, "list settleable matches"), ErrDependencyUnavailable)
	}

	run := &settlementRun{
		input:   input,
		rules:   rules,
		logger:  logger,
		report:  &report,
		deltas:  make(map[userRoomKey]int),
		rooms:   make(map[string]struct{}),
		results: make(map[roomMatchKey]match.Match),
	}

	var interrupted error
	for _, m := range matches {
		if !m.Settleable() {
			continue
		}
		if err := s.settleMatch(ctx, run, m); err != nil {
			interrupted = err
			break
		}
	}

	// Predictions written so far must reach user totals even when the caller is gone.
	aggCtx := context.WithoutCancel(ctx)
	s.applyUserTotals(aggCtx, run)
	s.recalculateRooms(aggCtx, run)
	s.publishMatchResults(aggCtx, run)

	report.FinishedAt = s.now().UTC()
	logger.InfoContext(ctx, "settlement finished",
		"matches_processed", report.MatchesProcessed,
		"predictions_processed", report.PredictionsProcessed,
		"won", report.Won,
		"lost", report.Lost,
		"skipped", report.Skipped,
		"users_updated", report.UsersUpdated,
		"leaderboards_updated", report.LeaderboardsUpdated,
		"errors", report.ErrorCount(),
		"duration_ms", report.FinishedAt.Sub(report.StartedAt).Milliseconds(),
	)

	if interrupted != nil {
		return report, errors.Wrap(interrupted, "settlement interrupted")
	}
	return report, nil
}

// settleMatch only returns an error when the context is done.
func (s *SettlementService) settleMatch(ctx context.Context, run *settlementRun, m match.Match) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	items, err := s.predictionRepo.ListForSettlement(ctx, prediction.ListFilter{
		MatchID:  m.ID,
		RoomID:   run.input.RoomID,
		Statuses: run.statuses(),
	})
	if err != nil {
		run.fail(ctx, SettlementError{
			Stage:   SettlementStageLoadPredictions,
			MatchID: m.ID,
			RoomID:  run.input.RoomID,
		}, errors.Mark(errors.Wrap(err, "list predictions"), ErrPredictionProcessing))
		return nil
	}
	if len(items) == 0 {
		return nil
	}
	run.report.MatchesProcessed++

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return err
		}

		var catcher panics.Catcher
		var settleErr error
		catcher.Try(func() {
			settleErr = s.settlePrediction(ctx, run, m, item)
		})
		if recovered := catcher.Recovered(); recovered != nil {
			settleErr = errors.Newf("panic while settling prediction: %v", recovered.Value)
		}
		if settleErr != nil {
			run.fail(ctx, SettlementError{
				Stage:        SettlementStagePrediction,
				PredictionID: item.ID,
				MatchID:      m.ID,
				UserID:       item.UserID,
				RoomID:       item.RoomID,
			}, errors.Mark(settleErr, ErrPredictionProcessing))
		}
	}

	return nil
}

func (s *SettlementService) settlePrediction(ctx context.Context, run *settlementRun, m match.Match, item prediction.Prediction) error {
	if item.Status == prediction.StatusCanceled {
		run.report.Skipped++
		return nil
	}

	if item.RuleOverrideErr != nil {
		return errors.Wrap(item.RuleOverrideErr, "rule override")
	}
	rules := item.Rules(run.rules)
	if item.RuleOverride != nil {
		if err := rules.Validate(); err != nil {
			return errors.Wrap(err, "rule override")
		}
	}

	points := scoring.Score(item.Scoreline(), m.FinalScore(), rules)
	status := prediction.StatusFromOutcome(scoring.DetermineOutcome(points))

	previousStatus, previousPoints := item.Status, item.PointsAwarded
	if !run.input.DryRun {
		result, err := s.predictionRepo.ApplySettlement(ctx, prediction.Settlement{
			PredictionID:  item.ID,
			Points:        points,
			Status:        status,
			AllowResettle: run.input.Force,
			SettledAt:     s.now().UTC(),
		})
		if err != nil {
			return errors.Wrap(err, "apply settlement")
		}
		if !result.Applied {
			run.report.Skipped++
			run.logger.DebugContext(ctx, "prediction settled by another run",
				"prediction_id", item.ID,
				"status", result.PreviousStatus,
			)
			return nil
		}
		previousStatus, previousPoints = result.PreviousStatus, result.PreviousPoints
	}

	delta := points
	if previousStatus.Settled() {
		delta -= previousPoints
	}

	run.record(ctx, m, item, rules, points, status, delta)
	return nil
}

func (s *SettlementService) applyUserTotals(ctx context.Context, run *settlementRun) {
	totals := make(map[string]int, len(run.deltas))
	for key, delta := range run.deltas {
		totals[key.userID] += delta
	}

	for _, userID := range sortedKeys(totals) {
		delta := totals[userID]
		if run.input.Verbose {
			run.report.UserDeltas = append(run.report.UserDeltas, UserDelta{UserID: userID, Delta: delta})
		}
		if run.input.DryRun {
			continue
		}

		if err := s.userRepo.AddPoints(ctx, userID, delta); err != nil {
			run.fail(ctx, SettlementError{
				Stage:  SettlementStageUserTotal,
				UserID: userID,
			}, errors.Mark(errors.Wrapf(err, "add %d points", delta), ErrAggregation))
			continue
		}
		run.report.UsersUpdated++
	}
}

func (s *SettlementService) recalculateRooms(ctx context.Context, run *settlementRun) {
	if run.input.DryRun || s.rooms == nil || len(run.rooms) == 0 {
		return
	}

	roomIDs := sortedKeys(run.rooms)
	period := leaderboard.PeriodOf(s.now())

	pool, err := ants.NewPool(normalizeWorkerCount(s.cfg.LeaderboardWorkers, len(roomIDs)))
	if err != nil {
		run.fail(ctx, SettlementError{Stage: SettlementStageLeaderboard},
			errors.Mark(errors.Wrap(err, "create leaderboard worker pool"), ErrAggregation))
		return
	}
	defer pool.Release()

	var (
		mu       sync.Mutex
		workers  sync.WaitGroup
		failures = make(map[string]error)
	)
	for _, roomID := range roomIDs {
		roomID := roomID
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			if _, err := s.rooms.Recalculate(ctx, roomID, period); err != nil {
				mu.Lock()
				failures[roomID] = err
				mu.Unlock()
			}
		}); err != nil {
			workers.Done()
			mu.Lock()
			failures[roomID] = errors.Wrap(err, "submit leaderboard task")
			mu.Unlock()
		}
	}
	workers.Wait()

	for _, roomID := range roomIDs {
		if err, failed := failures[roomID]; failed {
			run.fail(ctx, SettlementError{
				Stage:  SettlementStageLeaderboard,
				RoomID: roomID,
			}, errors.Mark(errors.Wrap(err, "recalculate leaderboard"), ErrAggregation))
			continue
		}
		run.report.LeaderboardsUpdated++
	}
}

// publishMatchResults posts one result message per room and match. Failures are only logged.
func (s *SettlementService) publishMatchResults(ctx context.Context, run *settlementRun) {
	if run.input.DryRun || s.feedRepo == nil || len(run.results) == 0 {
		return
	}

	keys := make([]roomMatchKey, 0, len(run.results))
	for key := range run.results {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].roomID != keys[j].roomID {
			return keys[i].roomID < keys[j].roomID
		}
		return keys[i].matchID < keys[j].matchID
	})

	for _, key := range keys {
		m := run.results[key]
		exists, err := s.feedRepo.ExistsForMatch(ctx, key.roomID, roomfeed.KindMatchResult, m.ID)
		if err != nil {
			run.logger.WarnContext(ctx, "check match result notification failed", "room_id", key.roomID, "match_id", m.ID, "error", err)
			continue
		}
		if exists {
			continue
		}

		notificationID, err := s.idGen.NewID()
		if err != nil {
			run.logger.WarnContext(ctx, "generate notification id failed", "room_id", key.roomID, "match_id", m.ID, "error", err)
			continue
		}
		if err := s.feedRepo.Create(ctx, roomfeed.Notification{
			ID:        notificationID,
			RoomID:    key.roomID,
			Kind:      roomfeed.KindMatchResult,
			Message:   matchResultMessage(m),
			MatchID:   m.ID,
			CreatedAt: s.now().UTC(),
		}); err != nil {
			run.logger.WarnContext(ctx, "create match result notification failed", "room_id", key.roomID, "match_id", m.ID, "error", err)
		}
	}
}

func (r *settlementRun) statuses() []prediction.Status {
	if r.input.Force {
		return []prediction.Status{prediction.StatusPending, prediction.StatusWon, prediction.StatusLost}
	}
	return []prediction.Status{prediction.StatusPending}
}

func (r *settlementRun) record(
	ctx context.Context,
	m match.Match,
	item prediction.Prediction,
	rules scoring.RuleSet,
	points int,
	status prediction.Status,
	delta int,
) {
	r.report.PredictionsProcessed++
	if status == prediction.StatusWon {
		r.report.Won++
	} else {
		r.report.Lost++
	}

	r.deltas[userRoomKey{userID: item.UserID, roomID: item.RoomID}] += delta
	r.rooms[item.RoomID] = struct{}{}
	r.results[roomMatchKey{roomID: item.RoomID, matchID: m.ID}] = m

	logFn := r.logger.DebugContext
	if r.input.Verbose {
		logFn = r.logger.InfoContext
	}
	logFn(ctx, "prediction settled",
		"prediction_id", item.ID,
		"match_id", m.ID,
		"room_id", item.RoomID,
		"user_id", item.UserID,
		"points", points,
		"status", status,
		"delta", delta,
	)

	if r.input.Verbose {
		r.report.Predictions = append(r.report.Predictions, PredictionDetail{
			PredictionID: item.ID,
			MatchID:      m.ID,
			RoomID:       item.RoomID,
			UserID:       item.UserID,
			Predicted:    fmt.Sprintf("%d-%d", item.PredictedHome, item.PredictedAway),
			Actual:       fmt.Sprintf("%d-%d", *m.HomeScore, *m.AwayScore),
			RuleSet:      rules.Name,
			Points:       points,
			Status:       status,
			PointsDelta:  delta,
		})
	}
}

func (r *settlementRun) fail(ctx context.Context, item SettlementError, err error) {
	item.Message = err.Error()
	r.report.Errors = append(r.report.Errors, item)
	r.logger.WarnContext(ctx, "settlement item failed",
		"stage", item.Stage,
		"prediction_id", item.PredictionID,
		"match_id", item.MatchID,
		"user_id", item.UserID,
		"room_id", item.RoomID,
		"error", err,
	)
}

func matchResultMessage(m match.Match) string {
	return fmt.Sprintf("Result: %s %d - %d %s", m.HomeTeam, *m.HomeScore, *m.AwayScore, m.AwayTeam)
}

func normalizeWorkerCount(value int, taskCount int) int {
	if taskCount <= 0 {
		return 1
	}
	if value <= 0 {
		value = 1
	}
	if value > taskCount {
		value = taskCount
	}
	return value
}

func sortedKeys[V any](items map[string]V) []string {
	out := make([]string, 0, len(items))
	for key := range items {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
