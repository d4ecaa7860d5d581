package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/salabet/internal/platform/logging"
	"github.com/riskibarqy/salabet/internal/usecase"
	"github.com/robfig/cron/v3"
)

// Settler runs one settlement pass.
type Settler interface {
	Settle(ctx context.Context, input usecase.SettleInput) (usecase.SettlementReport, error)
}

// Scheduler triggers a settlement pass on a cron schedule. Overlapping ticks
// are skipped so a slow run never stacks with the next one.
type Scheduler struct {
	cron     *cron.Cron
	settler  Settler
	input    usecase.SettleInput
	logger   *logging.Logger
	baseCtx  context.Context
	onReport func(usecase.SettlementReport)
}

func NewScheduler(ctx context.Context, settler Settler, input usecase.SettleInput, logger *logging.Logger, onReport func(usecase.SettlementReport)) *Scheduler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Scheduler{
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		settler:  settler,
		input:    input,
		logger:   logger,
		baseCtx:  ctx,
		onReport: onReport,
	}
}

// Start registers the schedule and starts the cron loop. Standard five field
// expressions and descriptors such as @hourly are accepted.
func (s *Scheduler) Start(schedule string) error {
	schedule = strings.TrimSpace(schedule)
	if schedule == "" {
		return fmt.Errorf("%w: schedule is required", usecase.ErrInvalidInput)
	}
	if _, err := s.cron.AddFunc(schedule, s.runOnce); err != nil {
		return fmt.Errorf("%w: invalid schedule %q: %v", usecase.ErrInvalidInput, schedule, err)
	}

	s.cron.Start()
	s.logger.Info("settlement scheduler started", "schedule", schedule)
	return nil
}

// Stop halts the cron loop and waits for a running pass to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("settlement scheduler stopped")
}

func (s *Scheduler) runOnce() {
	report, err := s.settler.Settle(s.baseCtx, s.input)
	if err != nil {
		s.logger.Error("scheduled settlement failed", "error", err)
		return
	}

	s.logger.Info("scheduled settlement finished",
		"run_id", report.RunID,
		"predictions_processed", report.PredictionsProcessed,
		"won", report.Won,
		"lost", report.Lost,
		"errors", report.ErrorCount(),
	)
	if s.onReport != nil {
		s.onReport(report)
	}
}
