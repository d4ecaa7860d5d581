package scoring

import (
	"errors"
	"testing"
)

func intPtr(v int) *int { return &v }

func final(home, away int) FinalScore {
	return FinalScore{Home: intPtr(home), Away: intPtr(away)}
}

func TestScore(t *testing.T) {
	rules := DefaultRuleSet()

	tests := []struct {
		name      string
		predicted Scoreline
		actual    FinalScore
		want      int
		outcome   Outcome
	}{
		{name: "exact score", predicted: Scoreline{Home: 2, Away: 1}, actual: final(2, 1), want: 10, outcome: OutcomeWon},
		{name: "winner and goal difference", predicted: Scoreline{Home: 2, Away: 0}, actual: final(3, 1), want: 8, outcome: OutcomeWon},
		{name: "away winner only", predicted: Scoreline{Home: 0, Away: 3}, actual: final(1, 2), want: 5, outcome: OutcomeWon},
		{name: "predicted home win but draw", predicted: Scoreline{Home: 1, Away: 0}, actual: final(0, 0), want: 0, outcome: OutcomeLost},
		{name: "draw with different goals", predicted: Scoreline{Home: 1, Away: 1}, actual: final(2, 2), want: 8, outcome: OutcomeWon},
		{name: "wrong winner", predicted: Scoreline{Home: 0, Away: 2}, actual: final(3, 0), want: 0, outcome: OutcomeLost},
		{name: "exact goalless draw", predicted: Scoreline{Home: 0, Away: 0}, actual: final(0, 0), want: 10, outcome: OutcomeWon},
		{name: "unknown home score", predicted: Scoreline{Home: 1, Away: 0}, actual: FinalScore{Away: intPtr(0)}, want: 0, outcome: OutcomeLost},
		{name: "unknown away score", predicted: Scoreline{Home: 1, Away: 0}, actual: FinalScore{Home: intPtr(1)}, want: 0, outcome: OutcomeLost},
		{name: "unknown score", predicted: Scoreline{Home: 1, Away: 0}, actual: FinalScore{}, want: 0, outcome: OutcomeLost},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := Score(tc.predicted, tc.actual, rules)
			if got != tc.want {
				t.Fatalf("unexpected points: got=%d want=%d", got, tc.want)
			}
			if outcome := DetermineOutcome(got); outcome != tc.outcome {
				t.Fatalf("unexpected outcome: got=%s want=%s", outcome, tc.outcome)
			}
		})
	}
}

func TestScore_ExactMatchIgnoresOtherWeights(t *testing.T) {
	rules := RuleSet{Name: "heavy", ExactScore: 4, CorrectWinner: 50, CorrectDraw: 50, CorrectGoalDifference: 50}

	if got := Score(Scoreline{Home: 3, Away: 1}, final(3, 1), rules); got != 4 {
		t.Fatalf("exact match must return exact weight only, got=%d", got)
	}
	if got := Score(Scoreline{Home: 2, Away: 0}, final(3, 1), rules); got != 100 {
		t.Fatalf("non exact bonuses may exceed exact weight, got=%d", got)
	}
}

func TestScore_NonNegativeAndDeterministic(t *testing.T) {
	rules := DefaultRuleSet()
	for ph := 0; ph <= 4; ph++ {
		for pa := 0; pa <= 4; pa++ {
			for ah := 0; ah <= 4; ah++ {
				for aa := 0; aa <= 4; aa++ {
					predicted := Scoreline{Home: ph, Away: pa}
					first := Score(predicted, final(ah, aa), rules)
					if first < 0 {
						t.Fatalf("negative points for %d-%d vs %d-%d: %d", ph, pa, ah, aa, first)
					}
					if second := Score(predicted, final(ah, aa), rules); second != first {
						t.Fatalf("non deterministic points for %d-%d vs %d-%d", ph, pa, ah, aa)
					}
				}
			}
		}
	}
}

func TestRuleSet_Validate(t *testing.T) {
	if err := DefaultRuleSet().Validate(); err != nil {
		t.Fatalf("default rule set should be valid: %v", err)
	}

	invalid := DefaultRuleSet()
	invalid.CorrectDraw = -1
	if err := invalid.Validate(); !errors.Is(err, ErrInvalidRuleSet) {
		t.Fatalf("expected ErrInvalidRuleSet, got %v", err)
	}
}
