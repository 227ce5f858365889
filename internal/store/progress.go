package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

type progressRepo struct{ conn }

var progressColumns = []string{"session_token", "topic_slug", "status", "score", "completed_at", "updated_at"}

func progressKey(token, topic string) *entsql.Predicate {
	return entsql.And(
		entsql.EQ("session_token", token),
		entsql.EQ("topic_slug", topic),
	)
}

func (r *progressRepo) Count(ctx context.Context, token string) (int, error) {
	var n int
	err := r.queryRow(ctx, r.b.Select(entsql.Count("*")).
		From(r.b.Table(TopicProgressTable.Name)).
		Where(entsql.EQ("session_token", token))).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count progress: %w", err)
	}
	return n, nil
}

func (r *progressRepo) Ensure(ctx context.Context, token, topic string, status Status, now time.Time) (bool, error) {
	res, err := r.exec(ctx, r.b.Insert(TopicProgressTable.Name).
		Columns("session_token", "topic_slug", "status", "score", "updated_at").
		Values(token, topic, string(status), 0, now).
		OnConflict(entsql.ConflictColumns("session_token", "topic_slug"), entsql.DoNothing()))
	if err != nil {
		return false, fmt.Errorf("ensure progress %s: %w", topic, err)
	}
	inserted, err := affected(res)
	if err != nil {
		return false, fmt.Errorf("ensure progress %s: %w", topic, err)
	}
	return inserted, nil
}

func (r *progressRepo) IncrementScore(ctx context.Context, token, topic string, now time.Time) (bool, error) {
	res, err := r.exec(ctx, r.b.Update(TopicProgressTable.Name).
		Add("score", 1).
		Set("status", string(StatusUnlocked)).
		Set("updated_at", now).
		Where(entsql.And(
			progressKey(token, topic),
			entsql.NEQ("status", string(StatusCompleted)),
		)))
	if err != nil {
		return false, fmt.Errorf("increment progress %s: %w", topic, err)
	}
	changed, err := affected(res)
	if err != nil {
		return false, fmt.Errorf("increment progress %s: %w", topic, err)
	}
	return changed, nil
}

func (r *progressRepo) Complete(ctx context.Context, token, topic string, minScore int, now time.Time) (bool, error) {
	res, err := r.exec(ctx, r.b.Update(TopicProgressTable.Name).
		Set("status", string(StatusCompleted)).
		Set("completed_at", now).
		Set("updated_at", now).
		Where(entsql.And(
			progressKey(token, topic),
			entsql.NEQ("status", string(StatusCompleted)),
			entsql.GTE("score", minScore),
		)))
	if err != nil {
		return false, fmt.Errorf("complete progress %s: %w", topic, err)
	}
	completed, err := affected(res)
	if err != nil {
		return false, fmt.Errorf("complete progress %s: %w", topic, err)
	}
	return completed, nil
}

func (r *progressRepo) Unlock(ctx context.Context, token, topic string, now time.Time) (bool, error) {
	inserted, err := r.Ensure(ctx, token, topic, StatusUnlocked, now)
	if err != nil || inserted {
		return inserted, err
	}

	res, err := r.exec(ctx, r.b.Update(TopicProgressTable.Name).
		Set("status", string(StatusUnlocked)).
		Set("updated_at", now).
		Where(entsql.And(
			progressKey(token, topic),
			entsql.EQ("status", string(StatusLocked)),
		)))
	if err != nil {
		return false, fmt.Errorf("unlock %s: %w", topic, err)
	}
	unlocked, err := affected(res)
	if err != nil {
		return false, fmt.Errorf("unlock %s: %w", topic, err)
	}
	return unlocked, nil
}

func (r *progressRepo) Get(ctx context.Context, token, topic string) (*TopicProgress, error) {
	row := r.queryRow(ctx, r.b.Select(progressColumns...).
		From(r.b.Table(TopicProgressTable.Name)).
		Where(progressKey(token, topic)))
	p, err := scanProgress(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query progress %s: %w", topic, err)
	}
	return p, nil
}

func (r *progressRepo) List(ctx context.Context, token string) ([]TopicProgress, error) {
	rows, err := r.query(ctx, r.b.Select(progressColumns...).
		From(r.b.Table(TopicProgressTable.Name)).
		Where(entsql.EQ("session_token", token)).
		OrderBy("id"))
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	defer rows.Close()

	var out []TopicProgress
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProgress(s rowScanner) (*TopicProgress, error) {
	var (
		p           TopicProgress
		status      string
		completedAt sql.NullTime
	)
	if err := s.Scan(&p.SessionToken, &p.TopicSlug, &status, &p.Score, &completedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Status = Status(status)
	p.CompletedAt = timePtr(completedAt)
	return &p, nil
}
