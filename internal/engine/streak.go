package engine

import (
	"context"
	"strings"

	"github.com/x7ian/jstopia/internal/store"
	"github.com/x7ian/jstopia/internal/streak"
)

// StreakView is the stored streak state of one scope.
type StreakView struct {
	Scope         streak.Scope `json:"scope"`
	Streak        int          `json:"streak"`
	Shield        int          `json:"shield"`
	HintTokens    int          `json:"hintTokens"`
	Mastery       int          `json:"masteryHalfSteps"`
	MasteryPips   float64      `json:"masteryPips"`
	NextMilestone int          `json:"nextMilestone,omitempty"`
}

// HintResult is returned by SpendHintToken.
type HintResult struct {
	Spent bool `json:"spent"`
	StreakView
}

func streakView(scope streak.Scope, s store.Streak) StreakView {
	v := StreakView{
		Scope:       scope,
		Streak:      s.Streak,
		Shield:      s.Shield,
		HintTokens:  s.HintTokens,
		Mastery:     s.Mastery,
		MasteryPips: streak.MasteryPips(s.Mastery),
	}
	if scope == streak.ScopeMicro {
		v.NextMilestone = streak.NextMilestone(s.Streak)
	}
	return v
}

func parseStreakArgs(token, scope string) (string, streak.Scope, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", "", invalid("sessionToken", "is required")
	}
	sc, err := streak.ParseScope(scope)
	if err != nil {
		return "", "", invalid("scope", "must be micro or quiz")
	}
	return token, sc, nil
}

// Streak returns the streak state for a scope, zeroed when none exists. It is
// read-only.
func (e *Engine) Streak(ctx context.Context, token, scope string) (*StreakView, error) {
	token, sc, err := parseStreakArgs(token, scope)
	if err != nil {
		return nil, err
	}
	s, err := e.store.Streaks().Get(ctx, token, string(sc))
	if err != nil {
		return nil, storageErr("streak", err)
	}
	v := streakView(sc, s)
	return &v, nil
}

// SpendHintToken consumes one hint token of a scope. With none left it
// reports Spent false and changes nothing.
func (e *Engine) SpendHintToken(ctx context.Context, token, scope string) (*HintResult, error) {
	token, sc, err := parseStreakArgs(token, scope)
	if err != nil {
		return nil, err
	}
	if _, _, err := e.getOrCreateSession(ctx, token); err != nil {
		return nil, err
	}

	res := &HintResult{}
	now := e.now()
	err = e.store.WithTx(ctx, func(r store.Repos) error {
		row, err := r.Streaks().GetForUpdate(ctx, token, string(sc), now)
		if err != nil {
			return err
		}
		next, spent := streak.SpendHint(fromRow(row))
		res.Spent = spent
		if spent {
			row = toRow(token, sc, next, now)
			if err := r.Streaks().Put(ctx, row); err != nil {
				return err
			}
		}
		res.StreakView = streakView(sc, row)
		return nil
	})
	if err != nil {
		return nil, storageErr("spend hint", err)
	}
	return res, nil
}
