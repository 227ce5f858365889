package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

type sessionRepo struct{ conn }

var sessionColumns = []string{
	"id", "token", "total_score", "rank", "rank_level",
	"rank_updated_at", "current_book_slug", "created_at",
}

func (r *sessionRepo) GetOrCreate(ctx context.Context, token, defaultRank, bookSlug string, now time.Time) (*Session, bool, error) {
	res, err := r.exec(ctx, r.b.Insert(SessionsTable.Name).
		Columns("token", "total_score", "rank", "rank_level", "current_book_slug", "created_at").
		Values(token, 0, defaultRank, 0, bookSlug, now).
		OnConflict(entsql.ConflictColumns("token"), entsql.DoNothing()))
	if err != nil {
		return nil, false, fmt.Errorf("insert session: %w", err)
	}
	created, err := affected(res)
	if err != nil {
		return nil, false, fmt.Errorf("insert session: %w", err)
	}

	sess, err := r.Get(ctx, token)
	if err != nil {
		return nil, false, err
	}
	return sess, created, nil
}

func (r *sessionRepo) Get(ctx context.Context, token string) (*Session, error) {
	row := r.queryRow(ctx, r.b.Select(sessionColumns...).
		From(r.b.Table(SessionsTable.Name)).
		Where(entsql.EQ("token", token)))

	var (
		s         Session
		rankAt    sql.NullTime
		createdAt time.Time
	)
	err := row.Scan(&s.ID, &s.Token, &s.TotalScore, &s.Rank, &s.RankLevel, &rankAt, &s.CurrentBookSlug, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query session: %w", err)
	}
	s.RankUpdatedAt = timePtr(rankAt)
	s.CreatedAt = createdAt
	return &s, nil
}

func (r *sessionRepo) AddScore(ctx context.Context, token string, delta int) (int, error) {
	res, err := r.exec(ctx, r.b.Update(SessionsTable.Name).
		Add("total_score", delta).
		Where(entsql.EQ("token", token)))
	if err != nil {
		return 0, fmt.Errorf("add score: %w", err)
	}
	if ok, err := affected(res); err != nil {
		return 0, fmt.Errorf("add score: %w", err)
	} else if !ok {
		return 0, ErrNotFound
	}

	var total int
	err = r.queryRow(ctx, r.b.Select("total_score").
		From(r.b.Table(SessionsTable.Name)).
		Where(entsql.EQ("token", token))).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("read score: %w", err)
	}
	return total, nil
}

func (r *sessionRepo) Promote(ctx context.Context, token, rank string, level int, bookSlug string, at time.Time) (bool, error) {
	res, err := r.exec(ctx, r.b.Update(SessionsTable.Name).
		Set("rank", rank).
		Set("rank_level", level).
		Set("rank_updated_at", at).
		Set("current_book_slug", bookSlug).
		Where(entsql.And(
			entsql.EQ("token", token),
			entsql.LT("rank_level", level),
		)))
	if err != nil {
		return false, fmt.Errorf("promote session: %w", err)
	}
	promoted, err := affected(res)
	if err != nil {
		return false, fmt.Errorf("promote session: %w", err)
	}
	return promoted, nil
}
