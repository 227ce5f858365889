package engine

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/x7ian/jstopia/internal/ranks"
	"github.com/x7ian/jstopia/internal/store"
)

// RankCard describes a rank.
type RankCard struct {
	Slug        string `json:"slug"`
	Level       int    `json:"level"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Accent      string `json:"accent,omitempty"`
}

// NextRankCard is the rank above the current one with the learner's XP
// progress toward its floor.
type NextRankCard struct {
	RankCard
	XPMin         int     `json:"xpMin"`
	XPProgressPct float64 `json:"xpProgressPct"`
	ComingSoon    bool    `json:"comingSoon"`
	HasBossExam   bool    `json:"hasBossExam"`
}

// RankView is the result of Rank.
type RankView struct {
	RankSlug     string        `json:"rankSlug"`
	NextRankSlug string        `json:"nextRankSlug,omitempty"`
	CurrentRank  *RankCard     `json:"currentRank"`
	NextRank     *NextRankCard `json:"nextRank"`
	TotalXP      int           `json:"totalXp"`
}

func card(d ranks.Definition) *RankCard {
	return &RankCard{Slug: d.Slug, Level: d.Level, Title: d.Title, Description: d.Description, Accent: d.Accent}
}

// Rank computes the learner's rank from completed topics of bookSlug (the
// first book when empty) and persists it if it advanced. A rank earned
// earlier, e.g. through a boss exam, is never reported lower.
func (e *Engine) Rank(ctx context.Context, token, bookSlug string) (*RankView, error) {
	token = strings.TrimSpace(token)
	if bookSlug == "" {
		bookSlug = e.catalog.FirstBook().Slug
	}
	if _, ok := e.catalog.Book(bookSlug); !ok {
		return nil, notFound("book", bookSlug)
	}

	sess, _, err := e.getOrCreateSession(ctx, token)
	if err != nil {
		return nil, err
	}
	snap, err := e.bookSnapshot(ctx, e.store, token, bookSlug)
	if err != nil {
		return nil, storageErr("rank snapshot", err)
	}

	ladder := e.catalog.Ladder()
	res := ladder.Compute(snap)
	level := res.Level

	if res.Level > sess.RankLevel {
		promoted, err := e.store.Sessions().Promote(ctx, token, res.RankSlug, res.Level, bookSlug, e.now())
		if err != nil {
			return nil, storageErr("promote", err)
		}
		if promoted {
			e.obs.RankPromoted(res.RankSlug)
			e.log.Info("rank advanced",
				zap.String("session", token),
				zap.String("from", sess.Rank),
				zap.String("to", res.RankSlug))
		}
	} else {
		level = reportedLevel(sess, res)
	}

	v := &RankView{RankSlug: ranks.Unranked, TotalXP: sess.TotalScore}
	var next *ranks.Definition
	comingSoon := res.ComingSoon
	if level >= 0 {
		cur, _ := ladder.At(level)
		v.RankSlug = cur.Slug
		v.CurrentRank = card(cur)
		if n, ok := ladder.At(level + 1); ok {
			next = &n
			comingSoon = n.LockedByContent
		}
	} else {
		next = res.Next
	}
	if next != nil {
		v.NextRankSlug = next.Slug
		v.NextRank = &NextRankCard{
			RankCard:      *card(*next),
			XPMin:         next.XPMin,
			XPProgressPct: ranks.XPProgress(sess.TotalScore, *next),
			ComingSoon:    comingSoon,
			HasBossExam:   next.BossExam != nil,
		}
	}
	return v, nil
}

// bookSnapshot reads completed topics through r and scopes them to a book.
func (e *Engine) bookSnapshot(ctx context.Context, r store.Repos, token, bookSlug string) (ranks.Snapshot, error) {
	rows, err := r.Progress().List(ctx, token)
	if err != nil {
		return ranks.Snapshot{}, err
	}
	completed := make(map[string]bool)
	for _, p := range rows {
		if p.Status == store.StatusCompleted {
			completed[p.TopicSlug] = true
		}
	}
	snap, ok := e.catalog.BookSnapshot(bookSlug, completed)
	if !ok {
		snap, _ = e.catalog.BookSnapshot(e.catalog.FirstBook().Slug, completed)
	}
	return snap, nil
}

// reportedLevel is the computed ladder index, raised to the stored one when
// the session was explicitly promoted past it.
func reportedLevel(sess *store.Session, computed ranks.Result) int {
	if sess.RankUpdatedAt != nil && sess.RankLevel > computed.Level {
		return sess.RankLevel
	}
	return computed.Level
}
