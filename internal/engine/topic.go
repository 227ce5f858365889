package engine

import (
	"context"
	"errors"
	"strings"

	"github.com/x7ian/jstopia/internal/catalog"
	"github.com/x7ian/jstopia/internal/store"
)

// TopicView is a topic with its place in the tree, doc page and the
// learner's progress on it.
type TopicView struct {
	Topic       TopicSummary     `json:"topic"`
	Chapter     TopicSummary     `json:"chapter"`
	Book        TopicSummary     `json:"book"`
	Doc         *catalog.DocPage `json:"doc,omitempty"`
	Status      store.Status     `json:"topicStatus"`
	Score       int              `json:"score"`
	QuizCount   int              `json:"quizCount"`
	Required    int              `json:"requiredCorrect"`
	PassThrough bool             `json:"passThrough,omitempty"`
	Nav         TopicNav         `json:"nav"`
}

// TopicSummary names a node of the content tree.
type TopicSummary struct {
	Slug       string `json:"slug"`
	Title      string `json:"title"`
	StoryIntro string `json:"storyIntro,omitempty"`
}

// TopicNav links the neighbouring topics of the same chapter.
type TopicNav struct {
	PrevTopicSlug string `json:"prevTopicSlug,omitempty"`
	NextTopicSlug string `json:"nextTopicSlug,omitempty"`
}

// Topic returns the topic view. A topic the session has no progress row for
// reports the catalog default status. It is read-only.
func (e *Engine) Topic(ctx context.Context, token, topicSlug string) (*TopicView, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, invalid("sessionToken", "is required")
	}
	if topicSlug == "" {
		return nil, invalid("topicSlug", "is required")
	}
	t, ok := e.catalog.Topic(topicSlug)
	if !ok {
		return nil, notFound("topic", topicSlug)
	}
	ch, _ := e.catalog.Chapter(t.ChapterSlug)
	b, _ := e.catalog.Book(t.BookSlug)

	v := &TopicView{
		Topic:       TopicSummary{Slug: t.Slug, Title: t.Title, StoryIntro: t.StoryIntro},
		Chapter:     TopicSummary{Slug: ch.Slug, Title: ch.Title, StoryIntro: ch.StoryIntro},
		Book:        TopicSummary{Slug: b.Slug, Title: b.Title, StoryIntro: b.StoryIntro},
		Doc:         t.DocPage,
		Status:      defaultStatus(t),
		QuizCount:   e.catalog.QuizCount(t.Slug),
		Required:    e.requiredFor(t.Slug),
		PassThrough: t.PassThrough,
	}
	prev, next := e.catalog.Neighbors(t.Slug)
	if prev != nil {
		v.Nav.PrevTopicSlug = prev.Slug
	}
	if next != nil {
		v.Nav.NextTopicSlug = next.Slug
	}

	p, err := e.store.Progress().Get(ctx, token, t.Slug)
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		return nil, storageErr("topic progress", err)
	default:
		v.Status = p.Status
		v.Score = p.Score
	}
	return v, nil
}

func defaultStatus(t *catalog.Topic) store.Status {
	if t.LockedByDefault {
		return store.StatusLocked
	}
	return store.StatusUnlocked
}
