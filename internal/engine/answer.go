package engine

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/x7ian/jstopia/internal/catalog"
	"github.com/x7ian/jstopia/internal/scoring"
	"github.com/x7ian/jstopia/internal/store"
	"github.com/x7ian/jstopia/internal/streak"
)

// AnswerRequest is one submitted answer.
type AnswerRequest struct {
	Token        string `json:"sessionToken"`
	QuestionSlug string `json:"questionId"`
	// Selected is the chosen option or typed answer. Code questions carry the
	// sandbox's answer token.
	Selected  string `json:"selected"`
	HelpUsed  string `json:"helpUsed"`
	ElapsedMs int64  `json:"elapsedMs"`
	TipCount  int    `json:"tipCount"`
}

// Teleport points the learner at the doc section that explains a missed
// question.
type Teleport struct {
	DocPageSlug string `json:"docPageSlug"`
	Anchor      string `json:"anchor"`
}

// AnswerResult is the outcome of SubmitAnswer.
type AnswerResult struct {
	Correct        bool                      `json:"correct"`
	ScoreDelta     int                       `json:"scoreDelta"`
	TotalScore     int                       `json:"totalScore"`
	TopicScore     int                       `json:"topicScore"`
	Explanation    string                    `json:"explanation"`
	Phase          scoring.Phase             `json:"phase"`
	TopicCompleted bool                      `json:"topicCompleted"`
	Unlocked       *catalog.UnlockDescriptor `json:"unlocked,omitempty"`
	Streak         int                       `json:"streak"`
	Shield         int                       `json:"shield"`
	HintTokens     int                       `json:"hintTokens"`
	ShieldUsed     bool                      `json:"shieldUsed"`
	BonusXP        int                       `json:"bonusXp"`
	Milestone      bool                      `json:"milestone"`
	Mastery        int                       `json:"masteryHalfSteps"`
	Teleport       *Teleport                 `json:"teleport,omitempty"`
}

func (req *AnswerRequest) validate() (scoring.Help, error) {
	if strings.TrimSpace(req.Token) == "" {
		return "", invalid("sessionToken", "is required")
	}
	if strings.TrimSpace(req.QuestionSlug) == "" {
		return "", invalid("questionId", "is required")
	}
	if strings.TrimSpace(req.Selected) == "" {
		return "", invalid("selected", "is required")
	}
	help, ok := scoring.ParseHelp(req.HelpUsed)
	if !ok {
		return "", invalid("helpUsed", "must be one of none, tip, doc")
	}
	if req.ElapsedMs < 0 {
		return "", invalid("elapsedMs", "must not be negative")
	}
	if req.TipCount < 0 {
		return "", invalid("tipCount", "must not be negative")
	}
	return help, nil
}

// SubmitAnswer grades an answer and applies every consequence atomically:
// the attempt row, the session total, streak state and, outside boss exams,
// topic progress with completion and the unlock cascade.
func (e *Engine) SubmitAnswer(ctx context.Context, req AnswerRequest) (*AnswerResult, error) {
	help, err := req.validate()
	if err != nil {
		return nil, err
	}
	token := strings.TrimSpace(req.Token)

	q, ok := e.catalog.Question(strings.TrimSpace(req.QuestionSlug))
	if !ok {
		return nil, notFound("question", req.QuestionSlug)
	}
	correct := strings.TrimSpace(req.Selected) == strings.TrimSpace(q.Answer)

	if _, _, err := e.getOrCreateSession(ctx, token); err != nil {
		return nil, err
	}

	res := &AnswerResult{
		Correct:     correct,
		Explanation: q.Explanation,
		Phase:       q.Phase,
	}
	now := e.now()

	err = e.store.WithTx(ctx, func(r store.Repos) error {
		var delta int
		switch q.Phase {
		case scoring.PhaseMicro:
			delta = scoring.PhaseScore(q.Phase, correct, help)
		default:
			delta = scoring.AnswerScore(q.Difficulty, correct, help)
		}

		if scope, ok := streakScope(q.Phase); ok {
			out, err := applyStreak(ctx, r, token, scope, correct, now)
			if err != nil {
				return err
			}
			delta += out.BonusXP
			res.Streak = out.State.Streak
			res.Shield = out.State.Shield
			res.HintTokens = out.State.HintTokens
			res.Mastery = out.State.Mastery
			res.ShieldUsed = out.ShieldUsed
			res.BonusXP = out.BonusXP
			res.Milestone = out.Milestone
		}

		err := r.Attempts().Append(ctx, &store.Attempt{
			SessionToken: token,
			QuestionSlug: q.Slug,
			TopicSlug:    q.TopicSlug,
			Phase:        string(q.Phase),
			RankSlug:     q.RankSlug,
			Correct:      correct,
			Selected:     req.Selected,
			ElapsedMs:    req.ElapsedMs,
			HelpUsed:     string(help),
			TipCount:     req.TipCount,
			ScoreAwarded: delta,
			CreatedAt:    now,
		})
		if err != nil {
			return err
		}

		total, err := r.Sessions().AddScore(ctx, token, delta)
		if err != nil {
			return err
		}
		res.ScoreDelta = delta
		res.TotalScore = total

		if q.Phase == scoring.PhaseBoss {
			return nil
		}
		return e.recordProgress(ctx, r, token, q, correct, now, res)
	})
	if err != nil {
		e.log.Error("submit answer failed",
			zap.String("session", token),
			zap.String("question", q.Slug),
			zap.Error(err))
		return nil, storageErr("submit answer", err)
	}

	if !correct {
		page := e.catalog.DocPageFor(q)
		if _, ok := page.Block(q.Anchor); ok {
			res.Teleport = &Teleport{DocPageSlug: page.Slug, Anchor: q.Anchor}
		}
	}

	e.obs.AnswerSubmitted(string(q.Phase), correct, res.ScoreDelta)
	if res.Milestone {
		e.log.Info("streak milestone",
			zap.String("session", token),
			zap.Int("streak", res.Streak),
			zap.Int("bonus_xp", res.BonusXP))
	}
	if res.TopicCompleted {
		e.obs.TopicCompleted(q.TopicSlug)
		fields := []zap.Field{
			zap.String("session", token),
			zap.String("topic", q.TopicSlug),
		}
		if res.Unlocked != nil {
			fields = append(fields, zap.String("unlocked", res.Unlocked.NextTopicSlug))
		}
		e.log.Info("topic completed", fields...)
	}
	return res, nil
}

// recordProgress updates the progress ledger for a non-boss answer. Only the
// caller whose completion UPDATE changed the row runs the cascade.
func (e *Engine) recordProgress(ctx context.Context, r store.Repos, token string, q *catalog.Question, correct bool, now time.Time, res *AnswerResult) error {
	if _, err := r.Progress().Ensure(ctx, token, q.TopicSlug, store.StatusUnlocked, now); err != nil {
		return err
	}

	if correct {
		if _, err := r.Progress().IncrementScore(ctx, token, q.TopicSlug, now); err != nil {
			return err
		}
		t, _ := e.catalog.Topic(q.TopicSlug)
		if t != nil && !t.PassThrough {
			done, err := r.Progress().Complete(ctx, token, q.TopicSlug, e.requiredFor(q.TopicSlug), now)
			if err != nil {
				return err
			}
			if done {
				next, err := e.unlockAfter(ctx, r, token, q.TopicSlug, now)
				if err != nil {
					return err
				}
				res.TopicCompleted = true
				if !next.IsZero() {
					res.Unlocked = &next
				}
			}
		}
	}

	p, err := r.Progress().Get(ctx, token, q.TopicSlug)
	if err != nil {
		return err
	}
	res.TopicScore = p.Score
	return nil
}

func streakScope(p scoring.Phase) (streak.Scope, bool) {
	switch p {
	case scoring.PhaseMicro:
		return streak.ScopeMicro, true
	case scoring.PhaseQuiz:
		return streak.ScopeQuiz, true
	}
	return "", false
}

func applyStreak(ctx context.Context, r store.Repos, token string, scope streak.Scope, correct bool, now time.Time) (streak.Outcome, error) {
	row, err := r.Streaks().GetForUpdate(ctx, token, string(scope), now)
	if err != nil {
		return streak.Outcome{}, err
	}
	out := streak.Apply(fromRow(row), scope, correct)
	err = r.Streaks().Put(ctx, toRow(token, scope, out.State, now))
	return out, err
}

func fromRow(s store.Streak) streak.State {
	return streak.State{
		Streak:     s.Streak,
		Shield:     s.Shield,
		HintTokens: s.HintTokens,
		Mastery:    s.Mastery,
	}
}

func toRow(token string, scope streak.Scope, st streak.State, now time.Time) store.Streak {
	return store.Streak{
		SessionToken: token,
		Scope:        string(scope),
		Streak:       st.Streak,
		Shield:       st.Shield,
		HintTokens:   st.HintTokens,
		Mastery:      st.Mastery,
		UpdatedAt:    now,
	}
}
