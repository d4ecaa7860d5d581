package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `foo=bar, uptrace-dsn="https://token@api.uptrace.dev?grpc=4317"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected UptraceDSN: %q", cfg.UptraceDSN)
	}
}

func TestLoad_SettlementDefaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	rules := cfg.Settlement.Rules
	if rules.Name != "football-default" {
		t.Fatalf("unexpected rule set name: %q", rules.Name)
	}
	if rules.ExactScore != 10 || rules.CorrectWinner != 5 || rules.CorrectDraw != 5 || rules.CorrectGoalDifference != 3 {
		t.Fatalf("unexpected default weights: %+v", rules)
	}
	if cfg.Settlement.Schedule != "@hourly" {
		t.Fatalf("unexpected schedule: %q", cfg.Settlement.Schedule)
	}
	if cfg.Settlement.LeaderboardWorkers != 4 {
		t.Fatalf("unexpected leaderboard workers: %d", cfg.Settlement.LeaderboardWorkers)
	}
	if cfg.StoreDriver != StoreDriverPostgres {
		t.Fatalf("unexpected store driver: %q", cfg.StoreDriver)
	}
}

func TestLoad_SettlementOverrides(t *testing.T) {
	t.Setenv("APP_ENV", EnvStage)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("SETTLEMENT_RULE_EXACT_SCORE", "12")
	t.Setenv("SETTLEMENT_RULE_CORRECT_GOAL_DIFFERENCE", "-1")
	t.Setenv("SETTLEMENT_RETRY_DELAY", "1s")
	t.Setenv("SETTLEMENT_SCHEDULE", "*/30 * * * *")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Settlement.Rules.ExactScore != 12 {
		t.Fatalf("unexpected exact score weight: %d", cfg.Settlement.Rules.ExactScore)
	}
	// Sign is checked by the settlement run, not at load time.
	if cfg.Settlement.Rules.CorrectGoalDifference != -1 {
		t.Fatalf("unexpected goal difference weight: %d", cfg.Settlement.Rules.CorrectGoalDifference)
	}
	if cfg.Settlement.RetryDelay != time.Second {
		t.Fatalf("unexpected retry delay: %s", cfg.Settlement.RetryDelay)
	}
	if cfg.StoreDriver != StoreDriverMemory {
		t.Fatalf("unexpected store driver: %q", cfg.StoreDriver)
	}
	if cfg.Settlement.Schedule != "*/30 * * * *" {
		t.Fatalf("unexpected schedule: %q", cfg.Settlement.Schedule)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := map[string]string{
		"STORE_DRIVER":                   "mongo",
		"SETTLEMENT_RULE_CORRECT_DRAW":   "five",
		"SETTLEMENT_LEADERBOARD_WORKERS": "0",
		"SETTLEMENT_WRITE_RETRIES":       "0",
		"CACHE_TTL":                      "-1s",
	}

	for key, value := range cases {
		key, value := key, value
		t.Run(key, func(t *testing.T) {
			t.Setenv("APP_ENV", EnvDev)
			t.Setenv("UPTRACE_ENABLED", "false")
			t.Setenv(key, value)

			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", key, value)
			}
		})
	}
}

func TestLoad_CORSAllowedOrigins(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://salabet.app , ,https://admin.salabet.app")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://admin.salabet.app" {
		t.Fatalf("unexpected origins: %+v", cfg.CORSAllowedOrigins)
	}

	t.Setenv("CORS_ALLOWED_ORIGINS", " , ")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for empty CORS_ALLOWED_ORIGINS")
	}
}
