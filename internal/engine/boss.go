package engine

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/x7ian/jstopia/internal/ranks"
	"github.com/x7ian/jstopia/internal/store"
)

// BossExamRules is returned by StartBossExam.
type BossExamRules struct {
	BookSlug           string             `json:"bookSlug"`
	RankSlug           string             `json:"rankSlug"`
	RankTitle          string             `json:"rankTitle"`
	Rules              ranks.BossExamRule `json:"rules"`
	PassScore          int                `json:"passScore"`
	QuestionsAvailable int                `json:"questionsAvailable"`
}

// HelpSummary counts the help levels used during an exam.
type HelpSummary struct {
	None int `json:"none"`
	Tip  int `json:"tip"`
	Doc  int `json:"doc"`
}

// BossExamSummary is what the client reports when an exam ends.
type BossExamSummary struct {
	Token            string      `json:"sessionToken"`
	BookSlug         string      `json:"bookSlug"`
	RankSlug         string      `json:"rankSlug"`
	Passed           bool        `json:"passed"`
	Score            int         `json:"score"`
	CorrectCount     *int        `json:"correctCount"` // nil falls back to Score
	QuestionCount    int         `json:"questionCount"`
	MasteryHalfSteps int         `json:"masteryHalfSteps"`
	HelpUsed         HelpSummary `json:"helpUsedSummary"`
}

// BossExamResult is returned by FinishBossExam.
type BossExamResult struct {
	RankUp       bool             `json:"rankUp"`
	PreviousRank string           `json:"previousRank"`
	NewRank      string           `json:"newRank"`
	NewRankTitle string           `json:"newRankTitle,omitempty"`
	AwardedBadge string           `json:"awardedBadge,omitempty"`
	Passed       bool             `json:"passed"`
	Checks       ranks.ExamChecks `json:"checks"`
}

func (e *Engine) bossRank(rankSlug string) (ranks.Definition, error) {
	if rankSlug == "" {
		return ranks.Definition{}, invalid("rankSlug", "is required")
	}
	rank, ok := e.catalog.Ladder().Get(rankSlug)
	if !ok || rank.BossExam == nil {
		return ranks.Definition{}, notFound("boss exam", rankSlug)
	}
	return rank, nil
}

// StartBossExam returns the exam rules for a rank. It mutates nothing.
func (e *Engine) StartBossExam(ctx context.Context, token, rankSlug, bookSlug string) (*BossExamRules, error) {
	if strings.TrimSpace(token) == "" {
		return nil, invalid("sessionToken", "is required")
	}
	rank, err := e.bossRank(strings.TrimSpace(rankSlug))
	if err != nil {
		return nil, err
	}
	if bookSlug == "" {
		bookSlug = e.catalog.FirstBook().Slug
	}
	if _, ok := e.catalog.Book(bookSlug); !ok {
		return nil, notFound("book", bookSlug)
	}
	return &BossExamRules{
		BookSlug:           bookSlug,
		RankSlug:           rank.Slug,
		RankTitle:          rank.Title,
		Rules:              *rank.BossExam,
		PassScore:          ranks.PassScore(rank.BossExam.QuestionCount),
		QuestionsAvailable: len(e.catalog.BossQuestions(rank.Slug, "")),
	}, nil
}

// FinishBossExam re-checks every gate factor against current server state,
// records the attempt whatever the outcome, and promotes the session when
// the exam passed and the rank is above the stored one.
func (e *Engine) FinishBossExam(ctx context.Context, sum BossExamSummary) (*BossExamResult, error) {
	token := strings.TrimSpace(sum.Token)
	if token == "" {
		return nil, invalid("sessionToken", "is required")
	}
	rank, err := e.bossRank(strings.TrimSpace(sum.RankSlug))
	if err != nil {
		return nil, err
	}
	bookSlug := strings.TrimSpace(sum.BookSlug)
	if bookSlug == "" {
		bookSlug = e.catalog.FirstBook().Slug
	}
	if _, ok := e.catalog.Book(bookSlug); !ok {
		return nil, notFound("book", bookSlug)
	}
	correct := sum.Score
	if sum.CorrectCount != nil {
		correct = *sum.CorrectCount
	}
	if correct < 0 || sum.QuestionCount < 0 || sum.MasteryHalfSteps < 0 ||
		sum.HelpUsed.Tip < 0 || sum.HelpUsed.Doc < 0 {
		return nil, invalid("summary", "counts must not be negative")
	}
	questionCount := rank.BossExam.EffectiveQuestionCount(sum.QuestionCount)
	if correct > questionCount {
		return nil, invalid("correctCount", fmt.Sprintf("exceeds question count %d", questionCount))
	}

	if _, _, err := e.getOrCreateSession(ctx, token); err != nil {
		return nil, err
	}

	level := e.catalog.Ladder().Index(rank.Slug)
	res := &BossExamResult{}
	now := e.now()

	err = e.store.WithTx(ctx, func(r store.Repos) error {
		sess, err := r.Sessions().Get(ctx, token)
		if err != nil {
			return err
		}
		snap, err := e.bookSnapshot(ctx, r, token, bookSlug)
		if err != nil {
			return err
		}
		checks := ranks.EvaluateBossExam(rank, snap, sess.TotalScore, ranks.ExamSummary{
			Passed:           sum.Passed,
			CorrectCount:     correct,
			QuestionCount:    questionCount,
			MasteryHalfSteps: sum.MasteryHalfSteps,
			TipsUsed:         sum.HelpUsed.Tip,
			DocsUsed:         sum.HelpUsed.Doc,
		})
		res.Checks = checks
		res.Passed = checks.Passed()
		res.PreviousRank = sess.Rank
		res.NewRank = sess.Rank

		err = r.BossAttempts().Append(ctx, &store.BossExamAttempt{
			SessionToken:  token,
			BookSlug:      bookSlug,
			RankSlug:      rank.Slug,
			Passed:        res.Passed,
			Score:         correct,
			QuestionCount: questionCount,
			Mastery:       sum.MasteryHalfSteps,
			TipsUsed:      sum.HelpUsed.Tip,
			DocsUsed:      sum.HelpUsed.Doc,
			CreatedAt:     now,
		})
		if err != nil || !res.Passed {
			return err
		}

		promoted, err := r.Sessions().Promote(ctx, token, rank.Slug, level, bookSlug, now)
		if err != nil || !promoted {
			return err
		}
		res.RankUp = true
		res.NewRank = rank.Slug
		res.NewRankTitle = rank.Title
		res.AwardedBadge = rank.Title
		return nil
	})
	if err != nil {
		e.log.Error("finish boss exam failed",
			zap.String("session", token),
			zap.String("rank", rank.Slug),
			zap.Error(err))
		return nil, storageErr("finish boss exam", err)
	}

	e.obs.BossExamFinished(rank.Slug, res.Passed)
	if res.RankUp {
		e.obs.RankPromoted(rank.Slug)
	}
	e.log.Info("boss exam finished",
		zap.String("session", token),
		zap.String("rank", rank.Slug),
		zap.Bool("passed", res.Passed),
		zap.Bool("rank_up", res.RankUp),
		zap.Strings("failed", res.Checks.Failures()))
	return res, nil
}
