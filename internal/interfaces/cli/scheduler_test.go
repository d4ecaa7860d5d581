package cli

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/riskibarqy/salabet/internal/platform/logging"
	"github.com/riskibarqy/salabet/internal/usecase"
)

type countingSettler struct {
	calls atomic.Int32
	input usecase.SettleInput
	err   error
}

func (s *countingSettler) Settle(_ context.Context, input usecase.SettleInput) (usecase.SettlementReport, error) {
	s.calls.Add(1)
	s.input = input
	return usecase.SettlementReport{RunID: "run-1", Won: 2}, s.err
}

func TestScheduler_StartRejectsInvalidSchedule(t *testing.T) {
	s := NewScheduler(context.Background(), &countingSettler{}, usecase.SettleInput{}, logging.NewNop(), nil)

	for _, schedule := range []string{"", "every minute", "61 * * * *"} {
		if err := s.Start(schedule); !errors.Is(err, usecase.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %q, got %v", schedule, err)
		}
	}
}

func TestScheduler_RunOnceForwardsInputAndReport(t *testing.T) {
	settler := &countingSettler{}
	var got usecase.SettlementReport
	s := NewScheduler(context.Background(), settler, usecase.SettleInput{RoomID: "r1", Force: true}, logging.NewNop(), func(r usecase.SettlementReport) {
		got = r
	})

	s.runOnce()

	if settler.calls.Load() != 1 || settler.input.RoomID != "r1" || !settler.input.Force {
		t.Fatalf("unexpected settle call: calls=%d input=%+v", settler.calls.Load(), settler.input)
	}
	if got.RunID != "run-1" {
		t.Fatalf("expected report callback, got %+v", got)
	}
}

func TestScheduler_RunOnceSkipsCallbackOnError(t *testing.T) {
	settler := &countingSettler{err: usecase.ErrDependencyUnavailable}
	called := false
	s := NewScheduler(context.Background(), settler, usecase.SettleInput{}, logging.NewNop(), func(usecase.SettlementReport) {
		called = true
	})

	s.runOnce()

	if called {
		t.Fatalf("report callback must not run when settlement fails")
	}
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler(context.Background(), &countingSettler{}, usecase.SettleInput{}, logging.NewNop(), nil)
	if err := s.Start("@hourly"); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.Stop()
}
