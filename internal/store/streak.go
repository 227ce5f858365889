package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

type streakRepo struct{ conn }

func streakKey(token, scope string) *entsql.Predicate {
	return entsql.And(
		entsql.EQ("session_token", token),
		entsql.EQ("scope", scope),
	)
}

func (r *streakRepo) Get(ctx context.Context, token, scope string) (Streak, error) {
	s := Streak{SessionToken: token, Scope: scope}
	err := r.queryRow(ctx, r.b.Select("streak", "shield", "hint_tokens", "mastery", "updated_at").
		From(r.b.Table(StreaksTable.Name)).
		Where(streakKey(token, scope))).
		Scan(&s.Streak, &s.Shield, &s.HintTokens, &s.Mastery, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Streak{SessionToken: token, Scope: scope}, nil
	}
	if err != nil {
		return Streak{}, fmt.Errorf("query streak: %w", err)
	}
	return s, nil
}

func (r *streakRepo) GetForUpdate(ctx context.Context, token, scope string, now time.Time) (Streak, error) {
	_, err := r.exec(ctx, r.b.Insert(StreaksTable.Name).
		Columns("session_token", "scope", "streak", "shield", "hint_tokens", "mastery", "updated_at").
		Values(token, scope, 0, 0, 0, 0, now).
		OnConflict(entsql.ConflictColumns("session_token", "scope"), entsql.DoNothing()))
	if err != nil {
		return Streak{}, fmt.Errorf("ensure streak: %w", err)
	}
	// Touching the row takes its write lock on Postgres; SQLite already
	// serializes the whole transaction.
	_, err = r.exec(ctx, r.b.Update(StreaksTable.Name).
		Set("updated_at", now).
		Where(streakKey(token, scope)))
	if err != nil {
		return Streak{}, fmt.Errorf("lock streak: %w", err)
	}
	return r.Get(ctx, token, scope)
}

func (r *streakRepo) Put(ctx context.Context, s Streak) error {
	_, err := r.exec(ctx, r.b.Insert(StreaksTable.Name).
		Columns("session_token", "scope", "streak", "shield", "hint_tokens", "mastery", "updated_at").
		Values(s.SessionToken, s.Scope, s.Streak, s.Shield, s.HintTokens, s.Mastery, s.UpdatedAt).
		OnConflict(
			entsql.ConflictColumns("session_token", "scope"),
			entsql.ResolveWithNewValues(),
		))
	if err != nil {
		return fmt.Errorf("save streak: %w", err)
	}
	return nil
}
