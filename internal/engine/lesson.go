package engine

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/x7ian/jstopia/internal/catalog"
	"github.com/x7ian/jstopia/internal/store"
)

// LessonResult reports an explicit topic completion.
type LessonResult struct {
	Completed bool                     `json:"completed"`
	Unlocked  catalog.UnlockDescriptor `json:"unlocked"`
}

// CompleteLesson marks a topic completed without a quiz, as for read-only
// lessons and trial topics, and runs the unlock cascade. Completing a topic
// twice is a no-op that unlocks nothing.
func (e *Engine) CompleteLesson(ctx context.Context, token, topicSlug string) (*LessonResult, error) {
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
	if _, _, err := e.getOrCreateSession(ctx, token); err != nil {
		return nil, err
	}

	res := &LessonResult{}
	now := e.now()
	err := e.store.WithTx(ctx, func(r store.Repos) error {
		if _, err := r.Progress().Ensure(ctx, token, topicSlug, store.StatusUnlocked, now); err != nil {
			return err
		}
		done, err := r.Progress().Complete(ctx, token, topicSlug, 0, now)
		if err != nil || !done {
			return err
		}
		res.Completed = true
		res.Unlocked, err = e.unlockAfter(ctx, r, token, topicSlug, now)
		return err
	})
	if err != nil {
		return nil, storageErr("complete lesson", err)
	}

	if res.Completed {
		e.obs.TopicCompleted(topicSlug)
		e.log.Info("lesson completed",
			zap.String("session", token),
			zap.String("topic", topicSlug),
			zap.String("unlocked", res.Unlocked.NextTopicSlug))
	}
	return res, nil
}
