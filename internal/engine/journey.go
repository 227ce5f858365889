package engine

import (
	"context"
	"strings"

	"github.com/x7ian/jstopia/internal/store"
)

// BookView is one book of the journey tree.
type BookView struct {
	Slug       string        `json:"slug"`
	Title      string        `json:"title"`
	Order      int           `json:"order"`
	StoryIntro string        `json:"storyIntro,omitempty"`
	State      store.Status  `json:"state"`
	Chapters   []ChapterView `json:"chapters"`
}

// ChapterView is one chapter of the journey tree.
type ChapterView struct {
	Slug       string       `json:"slug"`
	Title      string       `json:"title"`
	Order      int          `json:"order"`
	StoryIntro string       `json:"storyIntro,omitempty"`
	State      store.Status `json:"state"`
	Topics     []TopicState `json:"topics"`
}

// TopicState is a topic leaf of the journey tree.
type TopicState struct {
	Slug       string       `json:"slug"`
	Title      string       `json:"title"`
	Order      int          `json:"order"`
	StoryIntro string       `json:"storyIntro,omitempty"`
	State      store.Status `json:"state"`
	Score      int          `json:"score"`
}

// Journey projects the catalog tree over the session's progress. Topics
// without a progress row take their catalog default; chapter and book states
// are derived from their topics. It is read-only.
func (e *Engine) Journey(ctx context.Context, token string) ([]BookView, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, invalid("sessionToken", "is required")
	}

	rows, err := e.store.Progress().List(ctx, token)
	if err != nil {
		return nil, storageErr("journey", err)
	}
	progress := make(map[string]store.TopicProgress, len(rows))
	for _, p := range rows {
		progress[p.TopicSlug] = p
	}

	books := e.catalog.Books()
	out := make([]BookView, 0, len(books))
	for _, b := range books {
		bv := BookView{Slug: b.Slug, Title: b.Title, Order: b.Order, StoryIntro: b.StoryIntro}
		var bookStates []store.Status
		for _, ch := range b.Chapters {
			cv := ChapterView{Slug: ch.Slug, Title: ch.Title, Order: ch.Order, StoryIntro: ch.StoryIntro}
			var chapterStates []store.Status
			for i := range ch.Topics {
				t := &ch.Topics[i]
				ts := TopicState{Slug: t.Slug, Title: t.Title, Order: t.Order, StoryIntro: t.StoryIntro, State: defaultStatus(t)}
				if p, ok := progress[t.Slug]; ok {
					ts.State = p.Status
					ts.Score = p.Score
				}
				cv.Topics = append(cv.Topics, ts)
				chapterStates = append(chapterStates, ts.State)
			}
			cv.State = deriveStatus(chapterStates)
			bv.Chapters = append(bv.Chapters, cv)
			bookStates = append(bookStates, chapterStates...)
		}
		bv.State = deriveStatus(bookStates)
		out = append(out, bv)
	}
	return out, nil
}

// deriveStatus folds topic states into a container state: locked when empty,
// completed when every topic is, unlocked when any topic is reachable.
func deriveStatus(states []store.Status) store.Status {
	if len(states) == 0 {
		return store.StatusLocked
	}
	all, reachable := true, false
	for _, s := range states {
		if s != store.StatusCompleted {
			all = false
		}
		if s == store.StatusUnlocked || s == store.StatusCompleted {
			reachable = true
		}
	}
	switch {
	case all:
		return store.StatusCompleted
	case reachable:
		return store.StatusUnlocked
	}
	return store.StatusLocked
}
