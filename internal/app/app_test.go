package app

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/salabet/internal/config"
	"github.com/riskibarqy/salabet/internal/domain/scoring"
	"github.com/riskibarqy/salabet/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/salabet/internal/platform/logging"
	"github.com/riskibarqy/salabet/internal/usecase"
)

func memoryConfig() config.Config {
	return config.Config{
		HTTPAddr:           ":0",
		ReadTimeout:        time.Second,
		WriteTimeout:       time.Second,
		CORSAllowedOrigins: []string{"*"},
		StoreDriver:        config.StoreDriverMemory,
		CacheEnabled:       true,
		CacheTTL:           time.Minute,
		InternalJobToken:   "secret",
		Settlement: config.SettlementConfig{
			Rules:              scoring.DefaultRuleSet(),
			LeaderboardWorkers: 2,
			WriteRetries:       1,
		},
	}
}

func TestNewServices_MemoryStoreSettlesSeedData(t *testing.T) {
	services, err := NewServices(context.Background(), memoryConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("new services: %v", err)
	}
	defer services.Close()

	report, err := services.Settlement.Settle(context.Background(), usecase.SettleInput{})
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if report.PredictionsProcessed != 7 || report.LeaderboardsUpdated != 2 {
		t.Fatalf("unexpected report: %+v", report)
	}

	entries, err := services.Leaderboard.List(context.Background(), memory.RoomIDFamily, time.Now())
	if err != nil {
		t.Fatalf("list leaderboard: %v", err)
	}
	if len(entries) != 2 || entries[0].UserID != "user-dimas" || entries[0].Points != 11 {
		t.Fatalf("unexpected family leaderboard: %+v", entries)
	}
}

func TestNewServices_UnknownDriver(t *testing.T) {
	cfg := memoryConfig()
	cfg.StoreDriver = "redis"

	if _, err := NewServices(context.Background(), cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected unknown driver error")
	}
}

func TestNewHTTPServer(t *testing.T) {
	services, err := NewServices(context.Background(), memoryConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("new services: %v", err)
	}

	srv, err := NewHTTPServer(memoryConfig(), services, logging.NewNop())
	if err != nil {
		t.Fatalf("new http server: %v", err)
	}
	if srv.Handler == nil || srv.WriteTimeout != time.Second {
		t.Fatalf("unexpected server: %+v", srv)
	}

	cfg := memoryConfig()
	cfg.HTTPAddr = ""
	if _, err := NewHTTPServer(cfg, services, logging.NewNop()); err == nil {
		t.Fatalf("expected empty addr error")
	}
}
