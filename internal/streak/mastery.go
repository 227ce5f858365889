package streak

const (
	// MaxMastery is the top of the gauge, in half-steps (five full pips).
	MaxMastery = 10

	masteryGain = 2
	masteryLoss = 1
)

// StepMastery moves the gauge up two half-steps on a correct answer and down
// one on a miss, clamped to [0, MaxMastery].
func StepMastery(halfSteps int, correct bool) int {
	if correct {
		halfSteps += masteryGain
	} else {
		halfSteps -= masteryLoss
	}
	return clamp(halfSteps, 0, MaxMastery)
}

// MasteryPips converts half-steps to the displayed pip count (e.g. 7 -> 3.5).
func MasteryPips(halfSteps int) float64 {
	return float64(clamp(halfSteps, 0, MaxMastery)) / 2
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
