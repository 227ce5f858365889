// Package streak tracks consecutive-correct streaks, shield charges and the
// bounded mastery gauge for a learner session.
package streak

import "fmt"

// Scope separates micro-practice streaks from quiz streaks.
type Scope string

const (
	ScopeMicro Scope = "micro"
	ScopeQuiz  Scope = "quiz"
)

// ParseScope validates a scope name.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case ScopeMicro, ScopeQuiz:
		return Scope(s), nil
	}
	return "", fmt.Errorf("unknown streak scope %q", s)
}

const (
	// MicroMilestone is the micro streak length that grants a shield,
	// a hint token and bonus XP, repeating at every multiple.
	MicroMilestone = 5

	// MicroBonusXP is added on top of the regular award at each milestone.
	MicroBonusXP = 10
)

// State is the per-(session, scope) streak record.
type State struct {
	Streak     int `json:"streak"`
	Shield     int `json:"shield"`
	HintTokens int `json:"hintTokens"`
	Mastery    int `json:"masteryHalfSteps"`
}

// Outcome describes what a single answer did to the state.
type Outcome struct {
	State      State `json:"state"`
	ShieldUsed bool  `json:"shieldUsed"`
	BonusXP    int   `json:"bonusXp"`
	Milestone  bool  `json:"milestone"`
}

// Apply returns the state after one answer in scope. The input is not modified.
func Apply(cur State, scope Scope, correct bool) Outcome {
	next := cur
	out := Outcome{}

	if correct {
		next.Streak++
		if scope == ScopeMicro && next.Streak%MicroMilestone == 0 {
			next.Shield++
			next.HintTokens++
			out.BonusXP = MicroBonusXP
			out.Milestone = true
		}
	} else {
		if scope == ScopeMicro && next.Shield > 0 {
			next.Shield--
			out.ShieldUsed = true
		} else {
			next.Streak = 0
		}
	}
	next.Mastery = StepMastery(cur.Mastery, correct)

	out.State = next
	return out
}

// SpendHint consumes one hint token. It reports false and leaves the state
// unchanged when none are left.
func SpendHint(cur State) (State, bool) {
	if cur.HintTokens <= 0 {
		return cur, false
	}
	cur.HintTokens--
	return cur, true
}

// NextMilestone returns the next micro streak length that pays a bonus.
func NextMilestone(current int) int {
	return (current/MicroMilestone + 1) * MicroMilestone
}
