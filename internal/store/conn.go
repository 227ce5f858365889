package store

import (
	"context"
	"database/sql"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// conn binds repositories to a querier and a dialect-aware builder.
type conn struct {
	q      querier
	b      *entsql.DialectBuilder
	driver string
}

func (c conn) Sessions() SessionRepo         { return &sessionRepo{c} }
func (c conn) Progress() ProgressRepo        { return &progressRepo{c} }
func (c conn) Attempts() AttemptRepo         { return &attemptRepo{c} }
func (c conn) BossAttempts() BossAttemptRepo { return &bossAttemptRepo{c} }
func (c conn) Streaks() StreakRepo           { return &streakRepo{c} }

func (c conn) exec(ctx context.Context, qb entsql.Querier) (sql.Result, error) {
	query, args := qb.Query()
	return c.q.ExecContext(ctx, query, args...)
}

func (c conn) query(ctx context.Context, qb entsql.Querier) (*sql.Rows, error) {
	query, args := qb.Query()
	return c.q.QueryContext(ctx, query, args...)
}

func (c conn) queryRow(ctx context.Context, qb entsql.Querier) *sql.Row {
	query, args := qb.Query()
	return c.q.QueryRowContext(ctx, query, args...)
}

// affected reports whether res touched at least one row.
func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}
