package scoring

// Score returns the points a prediction earns against the final score.
// An unknown final score yields 0; callers must not treat that as a loss.
func Score(predicted Scoreline, actual FinalScore, rules RuleSet) int {
	if !actual.Settleable() {
		return 0
	}

	actualHome, actualAway := *actual.Home, *actual.Away
	if predicted.Home == actualHome && predicted.Away == actualAway {
		return rules.ExactScore
	}

	actualDiff := actualHome - actualAway
	predictedDiff := predicted.Home - predicted.Away

	points := 0
	if actualDiff == predictedDiff {
		points += rules.CorrectGoalDifference
	}

	switch {
	case actualDiff == 0 && predictedDiff == 0:
		points += rules.CorrectDraw
	case actualDiff > 0 && predictedDiff > 0, actualDiff < 0 && predictedDiff < 0:
		points += rules.CorrectWinner
	}

	return points
}

func DetermineOutcome(points int) Outcome {
	if points > 0 {
		return OutcomeWon
	}
	return OutcomeLost
}
