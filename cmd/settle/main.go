package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/riskibarqy/salabet/internal/app"
	"github.com/riskibarqy/salabet/internal/config"
	"github.com/riskibarqy/salabet/internal/interfaces/cli"
	"github.com/riskibarqy/salabet/internal/observability"
	"github.com/riskibarqy/salabet/internal/platform/logging"
	"github.com/riskibarqy/salabet/internal/usecase"
)

type options struct {
	input    usecase.SettleInput
	asJSON   bool
	daemon   bool
	schedule string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}

	logger := logging.New(logging.Options{
		Level:    cfg.LogLevel,
		FilePath: cfg.LogFile,
	})
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		return 1
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	services, err := app.NewServices(ctx, cfg, logger)
	if err != nil {
		logger.Error("build services", "error", err)
		return 1
	}
	defer func() { _ = services.Close() }()

	render := func(report usecase.SettlementReport) error {
		if opts.asJSON {
			return cli.RenderJSON(os.Stdout, report)
		}
		return cli.RenderText(os.Stdout, report)
	}

	if !opts.daemon {
		report, err := services.Settlement.Settle(ctx, opts.input)
		if err != nil {
			logger.Error("settlement failed", "error", err)
			return 1
		}
		if err := render(report); err != nil {
			logger.Error("render report", "error", err)
			return 1
		}
		return 0
	}

	schedule := opts.schedule
	if schedule == "" {
		schedule = cfg.Settlement.Schedule
	}
	scheduler := cli.NewScheduler(ctx, services.Settlement, opts.input, logger, func(report usecase.SettlementReport) {
		if err := render(report); err != nil {
			logger.Warn("render report", "error", err)
		}
	})
	if err := scheduler.Start(schedule); err != nil {
		logger.Error("start scheduler", "error", err)
		return 1
	}

	<-ctx.Done()
	scheduler.Stop()
	return 0
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("settle", flag.ContinueOnError)
	fs.StringVar(&opts.input.MatchID, "match-id", "", "settle only this match")
	fs.StringVar(&opts.input.RoomID, "room-id", "", "settle only predictions of this room")
	fs.BoolVar(&opts.input.DryRun, "dry-run", false, "score predictions without writing anything")
	fs.BoolVar(&opts.input.Verbose, "verbose", false, "include per prediction details in the report")
	fs.BoolVar(&opts.input.Force, "force", false, "re-settle predictions that are already WON or LOST")
	fs.BoolVar(&opts.asJSON, "json", false, "print the report as JSON")
	fs.BoolVar(&opts.daemon, "daemon", false, "keep running and settle on the configured schedule")
	fs.StringVar(&opts.schedule, "schedule", "", "cron expression; implies -daemon (default SETTLEMENT_SCHEDULE)")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	opts.schedule = strings.TrimSpace(opts.schedule)
	if opts.schedule != "" {
		opts.daemon = true
	}
	return opts, nil
}
