package postgres

import (
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/salabet/internal/domain/scoring"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(sql.ErrNoRows) {
		t.Fatalf("expected true for sql.ErrNoRows")
	}
	if !isNotFound(fmt.Errorf("get prediction: %w", sql.ErrNoRows)) {
		t.Fatalf("expected true for wrapped sql.ErrNoRows")
	}
	if isNotFound(fakeErr("pq: relation predictions does not exist")) {
		t.Fatalf("expected false for unrelated error")
	}
}

func TestRuleOverrideRoundTrip(t *testing.T) {
	encoded, err := encodeRuleOverride(nil)
	if err != nil || encoded != nil {
		t.Fatalf("expected nil override to encode as NULL, got %v err=%v", encoded, err)
	}

	rules := scoring.RuleSet{Name: "cup-night", ExactScore: 20, CorrectWinner: 8, CorrectDraw: 6, CorrectGoalDifference: 4}
	encoded, err = encodeRuleOverride(&rules)
	if err != nil {
		t.Fatalf("encode override: %v", err)
	}

	decoded, err := decodeRuleOverride(encoded)
	if err != nil {
		t.Fatalf("decode override: %v", err)
	}
	if decoded == nil || *decoded != rules {
		t.Fatalf("unexpected decoded override: %+v", decoded)
	}

	null := "null"
	if decoded, err := decodeRuleOverride(&null); err != nil || decoded != nil {
		t.Fatalf("expected json null to decode as no override, got %+v err=%v", decoded, err)
	}

	broken := "{"
	if _, err := decodeRuleOverride(&broken); err == nil {
		t.Fatalf("expected error for malformed override")
	}
}

func TestDecodeRuleOverride_RequiresEveryWeight(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		missing string
	}{
		{name: "only exact score", raw: `{"exact_score":20}`, missing: "correct_winner, correct_draw, correct_goal_difference"},
		{name: "draw missing", raw: `{"exact_score":20,"correct_winner":8,"correct_goal_difference":4}`, missing: "correct_draw"},
		{name: "empty object", raw: `{}`, missing: "exact_score"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := decodeRuleOverride(&tt.raw)
			if err == nil {
				t.Fatalf("expected error for partial override, got %+v", decoded)
			}
			if !strings.Contains(err.Error(), tt.missing) {
				t.Fatalf("expected missing keys %q in error, got %v", tt.missing, err)
			}
		})
	}

	zeroes := `{"name":"stingy","exact_score":0,"correct_winner":0,"correct_draw":0,"correct_goal_difference":0}`
	decoded, err := decodeRuleOverride(&zeroes)
	if err != nil {
		t.Fatalf("explicit zero weights are a complete override: %v", err)
	}
	if decoded == nil || decoded.Name != "stingy" || decoded.ExactScore != 0 {
		t.Fatalf("unexpected decoded override: %+v", decoded)
	}
}

func TestPredictionFromRow_KeepsUnreadableOverrideOnTheRow(t *testing.T) {
	created := time.Date(2026, time.February, 14, 10, 0, 0, 0, time.UTC)
	broken := `{"exact_score":`
	sparse := `{"exact_score":20}`

	rows := []predictionTableModel{
		{ID: "p1", UserID: "ana", MatchID: "m1", RoomID: "r1", Status: "PENDING", RuleOverride: &broken, CreatedAt: created},
		{ID: "p2", UserID: "budi", MatchID: "m1", RoomID: "r1", Status: "PENDING", RuleOverride: &sparse, CreatedAt: created},
		{ID: "p3", UserID: "citra", MatchID: "m1", RoomID: "r1", Status: "PENDING", CreatedAt: created},
	}

	for _, row := range rows[:2] {
		item := predictionFromRow(row)
		if item.RuleOverrideErr == nil || item.RuleOverride != nil {
			t.Fatalf("expected override error on %s, got %+v", row.ID, item)
		}
		if !strings.Contains(item.RuleOverrideErr.Error(), "prediction="+row.ID) {
			t.Fatalf("override error must name the prediction, got %v", item.RuleOverrideErr)
		}
		if item.ID != row.ID || item.UserID != row.UserID || item.MatchID != "m1" {
			t.Fatalf("identity must survive a bad override, got %+v", item)
		}
	}

	if item := predictionFromRow(rows[2]); item.RuleOverrideErr != nil || item.RuleOverride != nil {
		t.Fatalf("row without override must decode cleanly, got %+v", item)
	}
}

func TestNullableHelpers(t *testing.T) {
	if nullableString("  ") != nil {
		t.Fatalf("expected blank string to be NULL")
	}
	if got := derefString(nullableString(" m1 ")); got != "m1" {
		t.Fatalf("unexpected trimmed value: %q", got)
	}
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }
