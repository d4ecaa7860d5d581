package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/salabet/internal/domain/scoring"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func nullableString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

// ruleSetDocument is the JSONB shape of a per-prediction override.
// All four weights are required; a partial document is rejected.
type ruleSetDocument struct {
	Name                  string `json:"name"`
	ExactScore            *int   `json:"exact_score"`
	CorrectWinner         *int   `json:"correct_winner"`
	CorrectDraw           *int   `json:"correct_draw"`
	CorrectGoalDifference *int   `json:"correct_goal_difference"`
}

// encodeRuleOverride returns nil for predictions scored with the default rules.
func encodeRuleOverride(rules *scoring.RuleSet) (*string, error) {
	if rules == nil {
		return nil, nil
	}
	encoded, err := sonic.Marshal(ruleSetDocument{
		Name:                  rules.Name,
		ExactScore:            &rules.ExactScore,
		CorrectWinner:         &rules.CorrectWinner,
		CorrectDraw:           &rules.CorrectDraw,
		CorrectGoalDifference: &rules.CorrectGoalDifference,
	})
	if err != nil {
		return nil, err
	}
	out := string(encoded)
	return &out, nil
}

func decodeRuleOverride(raw *string) (*scoring.RuleSet, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" || strings.TrimSpace(*raw) == "null" {
		return nil, nil
	}
	var doc ruleSetDocument
	if err := sonic.UnmarshalString(*raw, &doc); err != nil {
		return nil, err
	}

	var missing []string
	for _, w := range []struct {
		key   string
		value *int
	}{
		{key: "exact_score", value: doc.ExactScore},
		{key: "correct_winner", value: doc.CorrectWinner},
		{key: "correct_draw", value: doc.CorrectDraw},
		{key: "correct_goal_difference", value: doc.CorrectGoalDifference},
	} {
		if w.value == nil {
			missing = append(missing, w.key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("rule override is missing %s", strings.Join(missing, ", "))
	}

	return &scoring.RuleSet{
		Name:                  doc.Name,
		ExactScore:            *doc.ExactScore,
		CorrectWinner:         *doc.CorrectWinner,
		CorrectDraw:           *doc.CorrectDraw,
		CorrectGoalDifference: *doc.CorrectGoalDifference,
	}, nil
}
