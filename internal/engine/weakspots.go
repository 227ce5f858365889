package engine

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/x7ian/jstopia/internal/store"
)

// WeakSpot is a doc section the learner keeps missing questions on.
type WeakSpot struct {
	Anchor     string `json:"anchor"`
	Title      string `json:"title"`
	WrongCount int    `json:"wrongCount"`
}

// WeakSpots aggregates a session's incorrect attempts in a topic by the doc
// block each question links to, most missed first. Questions without a
// resolvable block are skipped.
func (e *Engine) WeakSpots(ctx context.Context, token, topicSlug string) ([]WeakSpot, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, invalid("sessionToken", "is required")
	}
	if topicSlug == "" {
		return nil, invalid("topicSlug", "is required")
	}
	if _, ok := e.catalog.Topic(topicSlug); !ok {
		return nil, notFound("topic", topicSlug)
	}

	wrong, err := e.store.Attempts().WrongCounts(ctx, store.AttemptFilter{SessionToken: token, TopicSlug: topicSlug})
	if err != nil {
		return nil, storageErr("weak spots", err)
	}
	return e.aggregateWeakSpots(wrong), nil
}

// aggregateWeakSpots folds per-question miss counts into per-block counts.
func (e *Engine) aggregateWeakSpots(wrong map[string]int) []WeakSpot {
	byBlock := make(map[string]*WeakSpot)
	for slug, n := range wrong {
		q, ok := e.catalog.Question(slug)
		if !ok {
			continue
		}
		page := e.catalog.DocPageFor(q)
		block, ok := page.Block(q.Anchor)
		if !ok {
			continue
		}
		key := page.Slug + "#" + block.Anchor
		ws, ok := byBlock[key]
		if !ok {
			title := block.Title
			if title == "" {
				title = block.Anchor
			}
			ws = &WeakSpot{Anchor: block.Anchor, Title: title}
			byBlock[key] = ws
		}
		ws.WrongCount += n
	}

	out := make([]WeakSpot, 0, len(byBlock))
	for _, ws := range byBlock {
		out = append(out, *ws)
	}
	slices.SortFunc(out, func(a, b WeakSpot) int {
		if c := cmp.Compare(b.WrongCount, a.WrongCount); c != 0 {
			return c
		}
		return cmp.Compare(a.Anchor, b.Anchor)
	})
	return out
}
