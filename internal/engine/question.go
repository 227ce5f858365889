package engine

import (
	"context"
	"slices"
	"strings"

	"github.com/x7ian/jstopia/internal/catalog"
	"github.com/x7ian/jstopia/internal/scoring"
	"github.com/x7ian/jstopia/internal/store"
)

// NextQuestionRequest selects the next question to serve. Boss phase scopes
// by RankSlug; every other phase scopes by TopicSlug.
type NextQuestionRequest struct {
	Token      string
	TopicSlug  string
	Phase      scoring.Phase // empty means quiz
	RankSlug   string
	Difficulty scoring.Difficulty
}

// DocRef locates the doc block that answers a question.
type DocRef struct {
	PageSlug    string            `json:"pageSlug"`
	AnswerBlock *catalog.DocBlock `json:"answerBlock,omitempty"`
}

// QuestionView is a question as served to the learner. The answer is never
// included.
type QuestionView struct {
	Slug        string               `json:"id"`
	TopicSlug   string               `json:"topicSlug"`
	Type        catalog.QuestionType `json:"type"`
	Difficulty  scoring.Difficulty   `json:"difficulty"`
	Phase       scoring.Phase        `json:"phase"`
	Prompt      string               `json:"prompt"`
	Code        string               `json:"code,omitempty"`
	Choices     []string             `json:"choices,omitempty"`
	Tips        []string             `json:"tips,omitempty"`
	Explanation string               `json:"explanationShort,omitempty"`
	Doc         *DocRef              `json:"doc,omitempty"`
}

// NextQuestion returns the first candidate in catalog order that is not among
// the last five questions attempted in the same scope. When every candidate
// was seen recently it falls back to the first candidate. It is read-only.
func (e *Engine) NextQuestion(ctx context.Context, req NextQuestionRequest) (*QuestionView, error) {
	token := strings.TrimSpace(req.Token)
	if token == "" {
		return nil, invalid("sessionToken", "is required")
	}
	phase := req.Phase
	if phase == "" {
		phase = scoring.PhaseQuiz
	}
	if !scoring.ValidPhase(phase) {
		return nil, invalid("phase", "must be one of micro, quiz, boss")
	}
	if req.Difficulty != "" && !scoring.ValidDifficulty(req.Difficulty) {
		return nil, invalid("difficulty", "must be one of basic, medium, advanced")
	}

	var (
		candidates []*catalog.Question
		filter     = store.AttemptFilter{SessionToken: token}
	)
	if phase == scoring.PhaseBoss {
		if req.RankSlug == "" {
			return nil, invalid("rankSlug", "is required for boss phase")
		}
		if _, ok := e.catalog.Ladder().Get(req.RankSlug); !ok {
			return nil, notFound("rank", req.RankSlug)
		}
		candidates = e.catalog.BossQuestions(req.RankSlug, req.Difficulty)
		filter.RankSlug = req.RankSlug
	} else {
		if req.TopicSlug == "" {
			return nil, invalid("topicSlug", "is required")
		}
		if _, ok := e.catalog.Topic(req.TopicSlug); !ok {
			return nil, notFound("topic", req.TopicSlug)
		}
		candidates = e.catalog.TopicQuestions(req.TopicSlug, phase, req.Difficulty)
		filter.TopicSlug = req.TopicSlug
	}
	if len(candidates) == 0 {
		return nil, notFound("question", "no questions available")
	}

	recent, err := e.store.Attempts().RecentQuestionSlugs(ctx, filter, recentLimit)
	if err != nil {
		return nil, storageErr("recent attempts", err)
	}

	pick := candidates[0]
	for _, q := range candidates {
		if !slices.Contains(recent, q.Slug) {
			pick = q
			break
		}
	}
	return e.questionView(pick), nil
}

func (e *Engine) questionView(q *catalog.Question) *QuestionView {
	v := &QuestionView{
		Slug:        q.Slug,
		TopicSlug:   q.TopicSlug,
		Type:        q.Type,
		Difficulty:  q.Difficulty,
		Phase:       q.Phase,
		Prompt:      q.Prompt,
		Code:        q.Code,
		Choices:     q.Choices,
		Tips:        q.Tips,
		Explanation: q.Explanation,
	}
	if page := e.catalog.DocPageFor(q); page != nil {
		v.Doc = &DocRef{PageSlug: page.Slug}
		if b, ok := page.Block(q.Anchor); ok {
			v.Doc.AnswerBlock = &b
		}
	}
	return v
}
