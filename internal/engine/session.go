package engine

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/x7ian/jstopia/internal/store"
)

// maxTokenLen bounds caller-supplied session tokens.
const maxTokenLen = 128

// StartResult is returned by StartSession.
type StartResult struct {
	Token   string `json:"sessionToken"`
	Created bool   `json:"created"`
}

// StartSession creates the session for token (a new random token when empty)
// and seeds progress rows for every catalog topic if the session has none.
// It is idempotent.
func (e *Engine) StartSession(ctx context.Context, token string) (*StartResult, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		token = uuid.NewString()
	}

	sess, created, err := e.getOrCreateSession(ctx, token)
	if err != nil {
		return nil, err
	}

	now := e.now()
	seeded := 0
	err = e.store.WithTx(ctx, func(r store.Repos) error {
		n, err := r.Progress().Count(ctx, token)
		if err != nil || n > 0 {
			return err
		}
		for _, slug := range e.catalog.TopicSlugs() {
			t, _ := e.catalog.Topic(slug)
			status := store.StatusUnlocked
			if t.LockedByDefault {
				status = store.StatusLocked
			}
			inserted, err := r.Progress().Ensure(ctx, token, slug, status, now)
			if err != nil {
				return err
			}
			if inserted {
				seeded++
			}
		}
		return nil
	})
	if err != nil {
		return nil, storageErr("start session", err)
	}

	if created || seeded > 0 {
		e.log.Info("session started",
			zap.String("session", sess.Token),
			zap.Bool("created", created),
			zap.Int("seeded_topics", seeded))
	}
	return &StartResult{Token: sess.Token, Created: created}, nil
}

// getOrCreateSession runs outside any business transaction so a retry of the
// surrounding operation stays cheap.
func (e *Engine) getOrCreateSession(ctx context.Context, token string) (*store.Session, bool, error) {
	if token == "" {
		return nil, false, invalid("sessionToken", "is required")
	}
	if len(token) > maxTokenLen {
		return nil, false, invalid("sessionToken", "is too long")
	}
	sess, created, err := e.store.Sessions().GetOrCreate(ctx, token,
		e.catalog.Ladder().Lowest().Slug, e.catalog.FirstBook().Slug, e.now())
	if err != nil {
		return nil, false, storageErr("get or create session", err)
	}
	return sess, created, nil
}
