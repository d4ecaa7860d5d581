package scoring

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

const DefaultRuleSetName = "football-default"

var ErrInvalidRuleSet = errors.New("invalid rule set")

var ruleValidator = validator.New()

// RuleSet is a named bundle of point weights. Overrides replace the whole set.
type RuleSet struct {
	Name                  string `json:"name"`
	ExactScore            int    `json:"exact_score" validate:"gte=0"`
	CorrectWinner         int    `json:"correct_winner" validate:"gte=0"`
	CorrectDraw           int    `json:"correct_draw" validate:"gte=0"`
	CorrectGoalDifference int    `json:"correct_goal_difference" validate:"gte=0"`
}

func DefaultRuleSet() RuleSet {
	return RuleSet{
		Name:                  DefaultRuleSetName,
		ExactScore:            10,
		CorrectWinner:         5,
		CorrectDraw:           5,
		CorrectGoalDifference: 3,
	}
}

func (r RuleSet) Validate() error {
	if err := ruleValidator.Struct(r); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidRuleSet, r.Name, err)
	}
	return nil
}

// Scoreline is a predicted result. Both sides are always present.
type Scoreline struct {
	Home int
	Away int
}

// FinalScore is the real result of a match. Either side may still be unknown.
type FinalScore struct {
	Home *int
	Away *int
}

func (s FinalScore) Settleable() bool {
	return s.Home != nil && s.Away != nil
}

type Outcome string

const (
	OutcomeWon  Outcome = "WON"
	OutcomeLost Outcome = "LOST"
)
