package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

type attemptRepo struct{ conn }

func (r *attemptRepo) Append(ctx context.Context, a *Attempt) error {
	seq, err := r.nextSequence(ctx)
	if err != nil {
		return err
	}

	_, err = r.exec(ctx, r.b.Insert(AttemptsTable.Name).
		Columns(
			"sequence", "session_token", "question_slug", "topic_slug", "phase", "rank_slug",
			"correct", "selected", "elapsed_ms", "help_used", "tip_count", "score_awarded", "created_at",
		).
		Values(
			seq, a.SessionToken, a.QuestionSlug, a.TopicSlug, a.Phase, a.RankSlug,
			a.Correct, a.Selected, a.ElapsedMs, a.HelpUsed, a.TipCount, a.ScoreAwarded, a.CreatedAt,
		))
	if err != nil {
		return fmt.Errorf("save attempt: %w", err)
	}

	err = r.queryRow(ctx, r.b.Select("id").
		From(r.b.Table(AttemptsTable.Name)).
		Where(entsql.EQ("sequence", seq))).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("read attempt id: %w", err)
	}
	a.Sequence = seq
	return nil
}

func (f AttemptFilter) predicate() *entsql.Predicate {
	preds := []*entsql.Predicate{entsql.EQ("session_token", f.SessionToken)}
	switch {
	case f.RankSlug != "":
		preds = append(preds, entsql.EQ("phase", "boss"), entsql.EQ("rank_slug", f.RankSlug))
	case f.TopicSlug != "":
		preds = append(preds, entsql.EQ("topic_slug", f.TopicSlug))
	}
	return entsql.And(preds...)
}

func (r *attemptRepo) RecentQuestionSlugs(ctx context.Context, f AttemptFilter, limit int) ([]string, error) {
	rows, err := r.query(ctx, r.b.Select("question_slug").
		From(r.b.Table(AttemptsTable.Name)).
		Where(f.predicate()).
		OrderBy(entsql.Desc("sequence")).
		Limit(limit))
	if err != nil {
		return nil, fmt.Errorf("query recent attempts: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, fmt.Errorf("scan recent attempt: %w", err)
		}
		out = append(out, slug)
	}
	return out, rows.Err()
}

func (r *attemptRepo) WrongCounts(ctx context.Context, f AttemptFilter) (map[string]int, error) {
	rows, err := r.query(ctx, r.b.Select("question_slug", entsql.As(entsql.Count("*"), "wrong")).
		From(r.b.Table(AttemptsTable.Name)).
		Where(entsql.And(f.predicate(), entsql.EQ("correct", false))).
		GroupBy("question_slug"))
	if err != nil {
		return nil, fmt.Errorf("query wrong attempts: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var (
			slug string
			n    int
		)
		if err := rows.Scan(&slug, &n); err != nil {
			return nil, fmt.Errorf("scan wrong attempts: %w", err)
		}
		out[slug] = n
	}
	return out, rows.Err()
}

func (r *attemptRepo) Stats(ctx context.Context, f AttemptFilter) (AttemptStats, error) {
	var st AttemptStats
	err := r.queryRow(ctx, r.b.Select(entsql.Count("*")).
		From(r.b.Table(AttemptsTable.Name)).
		Where(f.predicate())).Scan(&st.Total)
	if err != nil {
		return AttemptStats{}, fmt.Errorf("count attempts: %w", err)
	}
	err = r.queryRow(ctx, r.b.Select(entsql.Count("*")).
		From(r.b.Table(AttemptsTable.Name)).
		Where(entsql.And(f.predicate(), entsql.EQ("correct", true)))).Scan(&st.Correct)
	if err != nil {
		return AttemptStats{}, fmt.Errorf("count correct attempts: %w", err)
	}
	return st, nil
}
