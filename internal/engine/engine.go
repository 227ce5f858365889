// Package engine runs the progression and assessment operations: sessions,
// answer submission with the unlock cascade, question selection, the journey
// projection, rank computation and the boss exam gate.
package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/x7ian/jstopia/internal/catalog"
	"github.com/x7ian/jstopia/internal/store"
)

// DefaultRequiredCorrect caps the correct answers a topic needs to complete.
const DefaultRequiredCorrect = 6

// recentLimit is how many recent questions NextQuestion avoids repeating.
const recentLimit = 5

// Storage is the persistence the engine runs on.
type Storage interface {
	store.Repos
	WithTx(ctx context.Context, fn func(store.Repos) error) error
	Ping(ctx context.Context) error
}

// Observer receives domain events, e.g. for metrics. Calls happen after the
// owning transaction committed.
type Observer interface {
	AnswerSubmitted(phase string, correct bool, scoreDelta int)
	TopicCompleted(topicSlug string)
	RankPromoted(rankSlug string)
	BossExamFinished(rankSlug string, passed bool)
}

type nopObserver struct{}

func (nopObserver) AnswerSubmitted(string, bool, int) {}
func (nopObserver) TopicCompleted(string)             {}
func (nopObserver) RankPromoted(string)               {}
func (nopObserver) BossExamFinished(string, bool)     {}

// Engine is safe for concurrent use.
type Engine struct {
	store           Storage
	catalog         *catalog.Catalog
	log             *zap.Logger
	obs             Observer
	now             func() time.Time
	requiredCorrect int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithObserver registers a domain event observer.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.obs = o }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithRequiredCorrect overrides DefaultRequiredCorrect. Values below one are
// ignored.
func WithRequiredCorrect(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.requiredCorrect = n
		}
	}
}

// New builds an Engine over a store and a catalog.
func New(s Storage, c *catalog.Catalog, opts ...Option) *Engine {
	e := &Engine{
		store:           s,
		catalog:         c,
		log:             zap.NewNop(),
		obs:             nopObserver{},
		now:             func() time.Time { return time.Now().UTC() },
		requiredCorrect: DefaultRequiredCorrect,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Catalog returns the catalog the engine serves.
func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

// Ready reports whether storage answers.
func (e *Engine) Ready(ctx context.Context) error {
	if err := e.store.Ping(ctx); err != nil {
		return storageErr("ping", err)
	}
	return nil
}

// requiredFor is the number of correct answers that completes a topic.
func (e *Engine) requiredFor(topicSlug string) int {
	quizCount := e.catalog.QuizCount(topicSlug)
	if quizCount == 0 {
		return e.requiredCorrect
	}
	return min(e.requiredCorrect, quizCount)
}
