package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/salabet/internal/domain/scoring"
	"github.com/riskibarqy/salabet/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/salabet/internal/platform/cache"
	"github.com/riskibarqy/salabet/internal/platform/logging"
	"github.com/riskibarqy/salabet/internal/usecase"
)

const testJobToken = "job-secret"

func newSeededRouter(t *testing.T) http.Handler {
	t.Helper()

	predictions := memory.NewPredictionRepository(memory.SeedPredictions())
	feed := memory.NewRoomFeedRepository()
	logger := logging.NewNop()

	boards := usecase.NewLeaderboardService(
		memory.NewRoomRepository(memory.SeedMemberships()),
		predictions,
		memory.NewLeaderboardRepository(),
		feed,
		cache.NewStore(time.Minute),
		nil,
		usecase.LeaderboardConfig{WriteAttempts: 1},
		logger,
	)
	settlement := usecase.NewSettlementService(
		memory.NewMatchRepository(memory.SeedMatches()),
		predictions,
		memory.NewUserRepository(memory.SeedUserIDs()...),
		feed,
		boards,
		nil,
		usecase.SettlementConfig{Rules: scoring.DefaultRuleSet(), LeaderboardWorkers: 2},
		logger,
	)

	return NewRouter(NewHandler(settlement, boards, logger), logger, []string{"*"}, testJobToken)
}

func serve(router http.Handler, method, path, body string, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("X-Internal-Job-Token", token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

type envelope[T any] struct {
	APIVersion string `json:"apiVersion"`
	Data       T      `json:"data"`
	Error      *struct {
		Code   int    `json:"code"`
		Status string `json:"status"`
	} `json:"error"`
}

func decodeEnvelope[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()

	var out envelope[T]
	if err := sonic.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal response body: %v (body=%s)", err, rec.Body.String())
	}
	return out
}

func TestRouter_Healthz(t *testing.T) {
	rec := serve(newSeededRouter(t), http.MethodGet, "/healthz", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestRouter_RunSettlementJob(t *testing.T) {
	router := newSeededRouter(t)

	rec := serve(router, http.MethodPost, "/v1/internal/jobs/settle", `{"verbose":true}`, testJobToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	body := decodeEnvelope[usecase.SettlementReport](t, rec)
	report := body.Data
	if body.APIVersion != "2.0" || body.Error != nil {
		t.Fatalf("unexpected envelope: %+v", body)
	}
	if report.MatchesProcessed != 2 || report.PredictionsProcessed != 7 {
		t.Fatalf("unexpected processed counts: %+v", report)
	}
	if report.Won != 6 || report.Lost != 1 || report.Skipped != 0 {
		t.Fatalf("unexpected outcome counts: %+v", report)
	}
	if report.LeaderboardsUpdated != 2 || len(report.Errors) != 0 {
		t.Fatalf("unexpected aggregation: %+v", report)
	}
	if len(report.Predictions) != 7 {
		t.Fatalf("expected verbose prediction details, got %d", len(report.Predictions))
	}

	again := decodeEnvelope[usecase.SettlementReport](t, serve(router, http.MethodPost, "/v1/internal/jobs/settle", "", testJobToken)).Data
	if again.PredictionsProcessed != 0 || again.Won != 0 {
		t.Fatalf("second run must not settle anything, got %+v", again)
	}

	rec = serve(router, http.MethodGet, "/v1/rooms/"+memory.RoomIDOfficeLeague+"/leaderboard", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	board := decodeEnvelope[leaderboardDTO](t, rec).Data
	if len(board.Entries) != 3 {
		t.Fatalf("unexpected leaderboard: %+v", board)
	}
	top := board.Entries[0]
	if top.UserID != "user-ana" || top.Points != 18 || top.Rank != 1 {
		t.Fatalf("unexpected leader: %+v", top)
	}
	if board.Entries[1].UserID != "user-budi" || board.Entries[1].Points != 18 || board.Entries[1].Rank != 2 {
		t.Fatalf("unexpected runner-up: %+v", board.Entries[1])
	}
}

func TestRouter_RunSettlementJob_Rejects(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		token      string
		wantStatus int
	}{
		{name: "missing token", body: "{}", wantStatus: http.StatusUnauthorized},
		{name: "wrong token", body: "{}", token: "nope", wantStatus: http.StatusUnauthorized},
		{name: "malformed json", body: `{"dry_run":`, token: testJobToken, wantStatus: http.StatusBadRequest},
		{name: "unknown field", body: `{"dryrun":true}`, token: testJobToken, wantStatus: http.StatusBadRequest},
		{name: "match id too long", body: `{"match_id":"` + strings.Repeat("m", 65) + `"}`, token: testJobToken, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(newSeededRouter(t), http.MethodPost, "/v1/internal/jobs/settle", tt.body, tt.token)
			if rec.Code != tt.wantStatus {
				t.Fatalf("unexpected status: got=%d want=%d body=%s", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestRouter_DryRunLeavesLeaderboardEmpty(t *testing.T) {
	router := newSeededRouter(t)

	rec := serve(router, http.MethodPost, "/v1/internal/jobs/settle", `{"dry_run":true}`, testJobToken)
	report := decodeEnvelope[usecase.SettlementReport](t, rec).Data
	if !report.DryRun || report.Won != 6 {
		t.Fatalf("unexpected dry run report: %+v", report)
	}

	board := decodeEnvelope[leaderboardDTO](t, serve(router, http.MethodGet, "/v1/rooms/"+memory.RoomIDFamily+"/leaderboard", "", "")).Data
	if len(board.Entries) != 0 {
		t.Fatalf("dry run must not write leaderboards, got %+v", board.Entries)
	}
}

func TestRouter_GetRoomLeaderboard_InvalidPeriod(t *testing.T) {
	rec := serve(newSeededRouter(t), http.MethodGet, "/v1/rooms/r1/leaderboard?period=14-02-2026", "", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if body := decodeEnvelope[any](t, rec); body.Error == nil || body.Error.Status != "INVALID_ARGUMENT" {
		t.Fatalf("unexpected error body: %s", rec.Body.String())
	}
}
