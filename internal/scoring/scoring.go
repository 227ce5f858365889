// Package scoring maps answer outcomes to XP awards.
package scoring

import "math"

// Difficulty is a question's difficulty band.
type Difficulty string

const (
	Basic    Difficulty = "basic"
	Medium   Difficulty = "medium"
	Advanced Difficulty = "advanced"
)

// Help is the level of help a learner used before answering.
type Help string

const (
	HelpNone Help = "none"
	HelpTip  Help = "tip"
	HelpDoc  Help = "doc"
)

// Phase identifies where in a topic a question is served.
type Phase string

const (
	PhaseSample Phase = "sample"
	PhaseMicro  Phase = "micro"
	PhaseQuiz   Phase = "quiz"
	PhaseBoss   Phase = "boss"
)

// DefaultBase is used when a difficulty is not in the table.
const DefaultBase = 100

var baseByDifficulty = map[Difficulty]int{
	Basic:    100,
	Medium:   180,
	Advanced: 280,
}

var helpMultiplier = map[Help]float64{
	HelpNone: 1.0,
	HelpTip:  0.75,
	HelpDoc:  0.4,
}

var phasePoints = map[Phase]map[Help]int{
	PhaseMicro: {HelpNone: 10, HelpTip: 7, HelpDoc: 4},
	PhaseQuiz:  {HelpNone: 25, HelpTip: 15, HelpDoc: 8},
}

// ScoreAnswer returns the XP for a correct answer of the given difficulty.
// Unknown difficulties score as basic and unknown help levels carry no penalty.
func ScoreAnswer(d Difficulty, h Help) int {
	base, ok := baseByDifficulty[d]
	if !ok {
		base = DefaultBase
	}
	mult, ok := helpMultiplier[h]
	if !ok {
		mult = 1.0
	}
	return int(math.Round(float64(base) * mult))
}

// AnswerScore is ScoreAnswer gated on correctness.
func AnswerScore(d Difficulty, correct bool, h Help) int {
	if !correct {
		return 0
	}
	return ScoreAnswer(d, h)
}

// PhaseScore returns the fixed point award for a phase. The sample phase,
// the boss phase and incorrect answers award nothing.
func PhaseScore(p Phase, correct bool, h Help) int {
	if !correct {
		return 0
	}
	table, ok := phasePoints[p]
	if !ok {
		return 0
	}
	return table[h]
}

// ParseHelp normalizes a help level. The empty string means no help.
func ParseHelp(s string) (Help, bool) {
	switch Help(s) {
	case "", HelpNone:
		return HelpNone, true
	case HelpTip, HelpDoc:
		return Help(s), true
	}
	return "", false
}

// ValidDifficulty reports whether d is a known difficulty.
func ValidDifficulty(d Difficulty) bool {
	_, ok := baseByDifficulty[d]
	return ok
}

// ValidPhase reports whether p can be attached to a catalog question.
func ValidPhase(p Phase) bool {
	switch p {
	case PhaseMicro, PhaseQuiz, PhaseBoss:
		return true
	}
	return false
}
