package engine

import (
	"context"
	"errors"
	"strings"

	"github.com/x7ian/jstopia/internal/ranks"
	"github.com/x7ian/jstopia/internal/store"
)

// StatsView summarizes a session.
type StatsView struct {
	TotalXP         int        `json:"totalXp"`
	Rank            string     `json:"rank"`
	CurrentBookSlug string     `json:"currentBookSlug"`
	Attempts        int        `json:"attempts"`
	Correct         int        `json:"correct"`
	Accuracy        float64    `json:"accuracy"`
	TopicsCompleted int        `json:"topicsCompleted"`
	TopicsTotal     int        `json:"topicsTotal"`
	BossExams       int        `json:"bossExams"`
	BossExamsPassed int        `json:"bossExamsPassed"`
	WeakSpots       []WeakSpot `json:"weakSpots,omitempty"`
}

// maxStatsWeakSpots caps the weak spots listed in a stats summary.
const maxStatsWeakSpots = 5

// Stats summarizes XP, rank and attempt accuracy of an existing session. It
// is read-only.
func (e *Engine) Stats(ctx context.Context, token string) (*StatsView, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, invalid("sessionToken", "is required")
	}
	sess, err := e.store.Sessions().Get(ctx, token)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFound("session", token)
	}
	if err != nil {
		return nil, storageErr("stats", err)
	}

	st, err := e.store.Attempts().Stats(ctx, store.AttemptFilter{SessionToken: token})
	if err != nil {
		return nil, storageErr("stats", err)
	}
	rows, err := e.store.Progress().List(ctx, token)
	if err != nil {
		return nil, storageErr("stats", err)
	}
	boss, err := e.store.BossAttempts().List(ctx, token, "")
	if err != nil {
		return nil, storageErr("stats", err)
	}

	v := &StatsView{
		TotalXP:         sess.TotalScore,
		Rank:            ranks.Unranked,
		CurrentBookSlug: sess.CurrentBookSlug,
		Attempts:        st.Total,
		Correct:         st.Correct,
		TopicsTotal:     len(e.catalog.TopicSlugs()),
		BossExams:       len(boss),
	}
	if st.Total > 0 {
		v.Accuracy = float64(st.Correct) / float64(st.Total)
	}
	for _, p := range rows {
		if p.Status == store.StatusCompleted {
			v.TopicsCompleted++
		}
	}
	for _, b := range boss {
		if b.Passed {
			v.BossExamsPassed++
		}
	}

	snap, err := e.bookSnapshot(ctx, e.store, token, sess.CurrentBookSlug)
	if err != nil {
		return nil, storageErr("stats", err)
	}
	if level := reportedLevel(sess, e.catalog.Ladder().Compute(snap)); level >= 0 {
		cur, _ := e.catalog.Ladder().At(level)
		v.Rank = cur.Slug
	}

	wrong, err := e.store.Attempts().WrongCounts(ctx, store.AttemptFilter{SessionToken: token})
	if err != nil {
		return nil, storageErr("stats", err)
	}
	v.WeakSpots = e.aggregateWeakSpots(wrong)
	if len(v.WeakSpots) > maxStatsWeakSpots {
		v.WeakSpots = v.WeakSpots[:maxStatsWeakSpots]
	}
	return v, nil
}
