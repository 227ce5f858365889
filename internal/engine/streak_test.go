package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x7ian/jstopia/internal/streak"
)

func TestStreak_ZeroBeforeAnyAnswer(t *testing.T) {
	e, _ := newTestEngine(t)
	v, err := e.Streak(context.Background(), "nobody", "micro")
	require.NoError(t, err)
	assert.Equal(t, StreakView{Scope: streak.ScopeMicro, NextMilestone: 5}, *v)

	_, err = e.Streak(context.Background(), "nobody", "boss")
	var inv *ErrInvalidRequest
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, "scope", inv.Field)
}

func TestSpendHintToken(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()
	tok := startSession(t, e)

	res, err := e.SpendHintToken(ctx, tok, "micro")
	require.NoError(t, err)
	assert.False(t, res.Spent)
	assert.Zero(t, res.HintTokens)

	for i := range 5 {
		q, sel := "m1", "1"
		if i%2 == 1 {
			q, sel = "m2", "2"
		}
		answer(t, e, tok, q, sel)
	}

	v, err := e.Streak(ctx, tok, "micro")
	require.NoError(t, err)
	assert.Equal(t, 5, v.Streak)
	assert.Equal(t, 1, v.HintTokens)
	assert.Equal(t, 10, v.NextMilestone)
	assert.Equal(t, 5.0, v.MasteryPips)

	res, err = e.SpendHintToken(ctx, tok, "micro")
	require.NoError(t, err)
	assert.True(t, res.Spent)
	assert.Zero(t, res.HintTokens)
	assert.Equal(t, 5, res.Streak)

	res, err = e.SpendHintToken(ctx, tok, "micro")
	require.NoError(t, err)
	assert.False(t, res.Spent)

	quiz, err := e.SpendHintToken(ctx, tok, "quiz")
	require.NoError(t, err)
	assert.False(t, quiz.Spent)
	assert.Zero(t, quiz.NextMilestone)
}

func TestWeakSpots(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()
	tok := startSession(t, e)

	answer(t, e, tok, "q2", "5")
	answer(t, e, tok, "q1", "b")
	answer(t, e, tok, "q1", "b")
	answer(t, e, tok, "m1", "0")
	answer(t, e, tok, "q1", "a")
	answer(t, e, tok, "bq1", "ko")

	spots, err := e.WeakSpots(ctx, tok, "t1")
	require.NoError(t, err)
	assert.Equal(t, []WeakSpot{
		{Anchor: "x", Title: "Ex", WrongCount: 3},
		{Anchor: "y", Title: "Why", WrongCount: 1},
	}, spots)

	// Boss questions without a doc block are not weak spots.
	spots, err = e.WeakSpots(ctx, tok, "trial")
	require.NoError(t, err)
	assert.Empty(t, spots)

	_, err = e.WeakSpots(ctx, tok, "nope")
	var nf *ErrNotFound
	require.ErrorAs(t, err, &nf)
}

func TestStats(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := e.Stats(ctx, "nobody")
	var nf *ErrNotFound
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "session", nf.Kind)

	tok := readyForCadet(t, e)
	answer(t, e, tok, "q2", "0")
	_, err = e.FinishBossExam(ctx, passingSummary(tok))
	require.NoError(t, err)

	v, err := e.Stats(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, 380, v.TotalXP)
	assert.Equal(t, "cadet", v.Rank)
	assert.Equal(t, 4, v.Attempts)
	assert.Equal(t, 3, v.Correct)
	assert.InDelta(t, 0.75, v.Accuracy, 1e-9)
	assert.Equal(t, 2, v.TopicsCompleted)
	assert.Equal(t, 4, v.TopicsTotal)
	assert.Equal(t, 1, v.BossExams)
	assert.Equal(t, 1, v.BossExamsPassed)
	assert.Equal(t, []WeakSpot{{Anchor: "y", Title: "Why", WrongCount: 1}}, v.WeakSpots)
}
