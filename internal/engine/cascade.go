package engine

import (
	"context"
	"time"

	"github.com/x7ian/jstopia/internal/catalog"
	"github.com/x7ian/jstopia/internal/store"
)

// unlockAfter opens whatever follows topicSlug. It must run in the
// transaction whose completion UPDATE won, so the cascade happens once.
// Opening an already open target is a no-op.
func (e *Engine) unlockAfter(ctx context.Context, r store.Repos, token, topicSlug string, now time.Time) (catalog.UnlockDescriptor, error) {
	next := e.catalog.NextAfter(topicSlug)
	if next.IsZero() {
		return next, nil
	}
	if _, err := r.Progress().Unlock(ctx, token, next.NextTopicSlug, now); err != nil {
		return catalog.UnlockDescriptor{}, err
	}
	return next, nil
}
