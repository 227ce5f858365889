package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x7ian/jstopia/internal/catalog"
	"github.com/x7ian/jstopia/internal/ranks"
)

func TestRank_Progression(t *testing.T) {
	obs := &recordingObserver{}
	e, s := newTestEngine(t, WithObserver(obs))
	ctx := context.Background()
	tok := startSession(t, e)

	v, err := e.Rank(ctx, tok, "")
	require.NoError(t, err)
	assert.Equal(t, ranks.Unranked, v.RankSlug)
	assert.Nil(t, v.CurrentRank)
	require.NotNil(t, v.NextRank)
	assert.Equal(t, "novice", v.NextRank.Slug)
	assert.Equal(t, 1.0, v.NextRank.XPProgressPct)
	assert.False(t, v.NextRank.ComingSoon)

	answer(t, e, tok, "q1", "a")
	answer(t, e, tok, "q2", "2")
	v, err = e.Rank(ctx, tok, "b1")
	require.NoError(t, err)
	assert.Equal(t, "novice", v.RankSlug)
	require.NotNil(t, v.CurrentRank)
	assert.Equal(t, "Novice", v.CurrentRank.Title)
	assert.Equal(t, "cadet", v.NextRankSlug)
	assert.Equal(t, 300, v.NextRank.XPMin)
	assert.InDelta(t, 280.0/300.0, v.NextRank.XPProgressPct, 1e-9)
	assert.True(t, v.NextRank.HasBossExam)
	assert.Equal(t, 280, v.TotalXP)

	sess, err := s.Sessions().Get(ctx, tok)
	require.NoError(t, err)
	assert.Nil(t, sess.RankUpdatedAt, "the entry rank is the stored default")

	_, err = e.CompleteLesson(ctx, tok, "t2")
	require.NoError(t, err)
	v, err = e.Rank(ctx, tok, "")
	require.NoError(t, err)
	assert.Equal(t, "cadet", v.RankSlug)
	require.NotNil(t, v.NextRank)
	assert.Equal(t, "sage", v.NextRank.Slug)
	assert.True(t, v.NextRank.ComingSoon)

	sess, err = s.Sessions().Get(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, "cadet", sess.Rank)
	assert.Equal(t, 1, sess.RankLevel)
	require.NotNil(t, sess.RankUpdatedAt)
	assert.True(t, sess.RankUpdatedAt.Equal(t0))
	assert.Equal(t, []string{"cadet"}, obs.promoted)

	// A second read does not promote again.
	_, err = e.Rank(ctx, tok, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"cadet"}, obs.promoted)
}

func TestRank_NeverReportedBelowStoredPromotion(t *testing.T) {
	e, s := newTestEngine(t)
	ctx := context.Background()
	tok := startSession(t, e)

	ok, err := s.Sessions().Promote(ctx, tok, "cadet", 1, "b1", t0)
	require.NoError(t, err)
	require.True(t, ok)

	v, err := e.Rank(ctx, tok, "")
	require.NoError(t, err)
	assert.Equal(t, "cadet", v.RankSlug)

	// Book two has none of book one's topics, so nothing is computed there.
	v, err = e.Rank(ctx, tok, "b2")
	require.NoError(t, err)
	assert.Equal(t, "cadet", v.RankSlug)
}

func TestRank_DefaultCatalogEveryOpenRank(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)
	e := New(openTestStore(t), c, WithClock(func() time.Time { return t0 }))
	ctx := context.Background()
	book1 := "javascriptopia-vanillaland-foundations"
	book2 := "javascriptopia-async-harbor"

	// Trial from book one, one async topic from book two.
	tok := startSession(t, e)
	for _, slug := range []string{"prologue-final-quiz", "async-await"} {
		_, err := e.CompleteLesson(ctx, tok, slug)
		require.NoError(t, err)
	}
	v, err := e.Rank(ctx, tok, book2)
	require.NoError(t, err)
	assert.Equal(t, "async-apprentice", v.RankSlug)
	require.NotNil(t, v.NextRank)
	assert.True(t, v.NextRank.ComingSoon)

	// Every topic completed: each rank not locked by content is computed in
	// some book.
	tok = startSession(t, e)
	for _, b := range c.Books() {
		for _, ch := range b.Chapters {
			for _, tp := range ch.Topics {
				_, err := e.CompleteLesson(ctx, tok, tp.Slug)
				require.NoError(t, err)
			}
		}
	}
	reached := make(map[string]bool)
	for _, b := range c.Books() {
		snap, err := e.bookSnapshot(ctx, e.store, tok, b.Slug)
		require.NoError(t, err)
		for _, d := range c.Ladder().All() {
			if d.Requirement.Satisfied(snap) {
				reached[d.Slug] = true
			}
		}
	}
	for _, d := range c.Ladder().All() {
		assert.Equal(t, !d.LockedByContent, reached[d.Slug], d.Slug)
	}

	v, err = e.Rank(ctx, tok, book1)
	require.NoError(t, err)
	assert.Equal(t, "stack-adept", v.RankSlug)
	v, err = e.Rank(ctx, tok, book2)
	require.NoError(t, err)
	assert.Equal(t, "async-apprentice", v.RankSlug)
}

func TestRank_UnknownBook(t *testing.T) {
	e, _ := newTestEngine(t)
	_, err := e.Rank(context.Background(), "tok", "nope")
	var nf *ErrNotFound
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "book", nf.Kind)
}

func TestStartBossExam(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	rules, err := e.StartBossExam(ctx, "tok", "cadet", "")
	require.NoError(t, err)
	assert.Equal(t, "b1", rules.BookSlug)
	assert.Equal(t, "Cadet", rules.RankTitle)
	assert.Equal(t, 4, rules.Rules.QuestionCount)
	assert.Equal(t, 3, rules.PassScore)
	assert.Equal(t, 2, rules.QuestionsAvailable)

	tests := []struct {
		name, token, rank, book string
		invalid                 bool
	}{
		{"no token", "", "cadet", "", true},
		{"no rank", "tok", "", "", true},
		{"rank without exam", "tok", "novice", "", false},
		{"unknown rank", "tok", "nope", "", false},
		{"unknown book", "tok", "cadet", "nope", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.StartBossExam(ctx, tt.token, tt.rank, tt.book)
			if tt.invalid {
				var inv *ErrInvalidRequest
				require.ErrorAs(t, err, &inv)
				return
			}
			var nf *ErrNotFound
			require.ErrorAs(t, err, &nf)
		})
	}
}

// readyForCadet leaves a session with chapter c1 complete and 380 XP.
func readyForCadet(t *testing.T, e *Engine) string {
	t.Helper()
	tok := startSession(t, e)
	answer(t, e, tok, "q1", "a")
	answer(t, e, tok, "q2", "2")
	answer(t, e, tok, "q1", "a")
	_, err := e.CompleteLesson(context.Background(), tok, "t2")
	require.NoError(t, err)
	return tok
}

func intPtr(v int) *int { return &v }

func passingSummary(tok string) BossExamSummary {
	return BossExamSummary{
		Token:            tok,
		RankSlug:         "cadet",
		Passed:           true,
		CorrectCount:     intPtr(3),
		MasteryHalfSteps: 4,
		HelpUsed:         HelpSummary{None: 2, Tip: 1},
	}
}

func TestFinishBossExam_ContentNotMet(t *testing.T) {
	obs := &recordingObserver{}
	e, s := newTestEngine(t, WithObserver(obs))
	ctx := context.Background()
	tok := startSession(t, e)

	res, err := e.FinishBossExam(ctx, passingSummary(tok))
	require.NoError(t, err)
	assert.False(t, res.Passed)
	assert.False(t, res.RankUp)
	assert.False(t, res.Checks.ContentMet)
	assert.False(t, res.Checks.XPMet)
	assert.Equal(t, "novice", res.PreviousRank)
	assert.Equal(t, "novice", res.NewRank)
	assert.Empty(t, res.NewRankTitle)

	attempts, err := s.BossAttempts().List(ctx, tok, "cadet")
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.False(t, attempts[0].Passed)
	assert.Equal(t, 4, attempts[0].QuestionCount)
	assert.Equal(t, map[string]bool{"cadet": false}, obs.exams)
}

func TestFinishBossExam_EachFactorGates(t *testing.T) {
	e, s := newTestEngine(t)
	ctx := context.Background()
	tok := readyForCadet(t, e)

	tests := []struct {
		name   string
		mutate func(*BossExamSummary)
	}{
		{"client failed", func(s *BossExamSummary) { s.Passed = false }},
		{"too many tips", func(s *BossExamSummary) { s.HelpUsed.Tip = 2 }},
		{"doc revealed", func(s *BossExamSummary) { s.HelpUsed.Doc = 1 }},
		{"low mastery", func(s *BossExamSummary) { s.MasteryHalfSteps = 3 }},
		{"low score", func(s *BossExamSummary) { s.CorrectCount = intPtr(2) }},
		{"longer exam", func(s *BossExamSummary) { s.QuestionCount = 10 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sum := passingSummary(tok)
			tt.mutate(&sum)
			res, err := e.FinishBossExam(ctx, sum)
			require.NoError(t, err)
			assert.False(t, res.Passed)
			assert.False(t, res.RankUp)
			assert.Len(t, res.Checks.Failures(), 1)
		})
	}

	sess, err := s.Sessions().Get(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, "novice", sess.Rank)
	attempts, err := s.BossAttempts().List(ctx, tok, "")
	require.NoError(t, err)
	assert.Len(t, attempts, len(tests))
}

func TestFinishBossExam_PromotesOnce(t *testing.T) {
	obs := &recordingObserver{}
	e, s := newTestEngine(t, WithObserver(obs))
	ctx := context.Background()
	tok := readyForCadet(t, e)

	res, err := e.FinishBossExam(ctx, passingSummary(tok))
	require.NoError(t, err)
	assert.True(t, res.Passed)
	assert.True(t, res.RankUp)
	assert.Equal(t, "novice", res.PreviousRank)
	assert.Equal(t, "cadet", res.NewRank)
	assert.Equal(t, "Cadet", res.NewRankTitle)
	assert.Equal(t, "Cadet", res.AwardedBadge)
	assert.Equal(t, 3, res.Checks.PassScore)
	assert.Equal(t, 380, res.Checks.TotalXP)

	sess, err := s.Sessions().Get(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, "cadet", sess.Rank)
	assert.Equal(t, "b1", sess.CurrentBookSlug)
	require.NotNil(t, sess.RankUpdatedAt)

	again, err := e.FinishBossExam(ctx, passingSummary(tok))
	require.NoError(t, err)
	assert.True(t, again.Passed)
	assert.False(t, again.RankUp)
	assert.Equal(t, "cadet", again.PreviousRank)
	assert.Equal(t, "cadet", again.NewRank)

	assert.Equal(t, []string{"cadet"}, obs.promoted)
	attempts, err := s.BossAttempts().List(ctx, tok, "cadet")
	require.NoError(t, err)
	assert.Len(t, attempts, 2)
	assert.Less(t, attempts[0].Sequence, attempts[1].Sequence)
}

func TestFinishBossExam_ScoreFallback(t *testing.T) {
	e, _ := newTestEngine(t)
	tok := readyForCadet(t, e)

	sum := passingSummary(tok)
	sum.CorrectCount = nil
	sum.Score = 3
	res, err := e.FinishBossExam(context.Background(), sum)
	require.NoError(t, err)
	assert.True(t, res.Checks.ScoreMet)
	assert.True(t, res.RankUp)
}

func TestFinishBossExam_ExplicitZeroCorrectIsKept(t *testing.T) {
	e, s := newTestEngine(t)
	ctx := context.Background()
	tok := readyForCadet(t, e)

	sum := passingSummary(tok)
	sum.CorrectCount = intPtr(0)
	sum.Score = 4
	res, err := e.FinishBossExam(ctx, sum)
	require.NoError(t, err)
	assert.False(t, res.Checks.ScoreMet)
	assert.False(t, res.RankUp)

	attempts, err := s.BossAttempts().List(ctx, tok, "cadet")
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.Equal(t, 0, attempts[0].Score)
}

func TestFinishBossExam_ShortReportedExam(t *testing.T) {
	e, s := newTestEngine(t)
	ctx := context.Background()
	tok := readyForCadet(t, e)

	sum := passingSummary(tok)
	sum.QuestionCount = 1
	sum.CorrectCount = intPtr(1)
	res, err := e.FinishBossExam(ctx, sum)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Checks.PassScore, "the rule's four questions still apply")
	assert.False(t, res.Checks.ScoreMet)
	assert.False(t, res.RankUp)

	attempts, err := s.BossAttempts().List(ctx, tok, "cadet")
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.Equal(t, 4, attempts[0].QuestionCount)
}

func TestFinishBossExam_MoreCorrectThanAsked(t *testing.T) {
	e, s := newTestEngine(t)
	ctx := context.Background()
	tok := readyForCadet(t, e)

	for _, mutate := range []func(*BossExamSummary){
		func(s *BossExamSummary) { s.CorrectCount = intPtr(5) },
		func(s *BossExamSummary) { s.CorrectCount = intPtr(7); s.QuestionCount = 6 },
		func(s *BossExamSummary) { s.CorrectCount = nil; s.Score = 9 },
	} {
		sum := passingSummary(tok)
		mutate(&sum)
		_, err := e.FinishBossExam(ctx, sum)
		var inv *ErrInvalidRequest
		require.ErrorAs(t, err, &inv)
		assert.Equal(t, "correctCount", inv.Field)
	}

	attempts, err := s.BossAttempts().List(ctx, tok, "")
	require.NoError(t, err)
	assert.Empty(t, attempts)
}

func TestFinishBossExam_Invalid(t *testing.T) {
	e, s := newTestEngine(t)
	ctx := context.Background()

	sum := passingSummary("tok")
	sum.HelpUsed.Tip = -1
	_, err := e.FinishBossExam(ctx, sum)
	var inv *ErrInvalidRequest
	require.ErrorAs(t, err, &inv)

	sum = passingSummary("tok")
	sum.RankSlug = "novice"
	_, err = e.FinishBossExam(ctx, sum)
	var nf *ErrNotFound
	require.ErrorAs(t, err, &nf)

	attempts, err := s.BossAttempts().List(ctx, "tok", "")
	require.NoError(t, err)
	assert.Empty(t, attempts)
}
