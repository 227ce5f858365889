package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

type bossAttemptRepo struct{ conn }

var bossAttemptColumns = []string{
	"id", "sequence", "session_token", "book_slug", "rank_slug", "passed",
	"score", "question_count", "mastery", "tips_used", "docs_used", "created_at",
}

func (r *bossAttemptRepo) Append(ctx context.Context, a *BossExamAttempt) error {
	seq, err := r.nextSequence(ctx)
	if err != nil {
		return err
	}

	_, err = r.exec(ctx, r.b.Insert(BossExamAttemptsTable.Name).
		Columns(bossAttemptColumns[1:]...).
		Values(
			seq, a.SessionToken, a.BookSlug, a.RankSlug, a.Passed,
			a.Score, a.QuestionCount, a.Mastery, a.TipsUsed, a.DocsUsed, a.CreatedAt,
		))
	if err != nil {
		return fmt.Errorf("save boss exam attempt: %w", err)
	}

	err = r.queryRow(ctx, r.b.Select("id").
		From(r.b.Table(BossExamAttemptsTable.Name)).
		Where(entsql.EQ("sequence", seq))).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("read boss exam attempt id: %w", err)
	}
	a.Sequence = seq
	return nil
}

func (r *bossAttemptRepo) List(ctx context.Context, token, rankSlug string) ([]BossExamAttempt, error) {
	pred := entsql.EQ("session_token", token)
	if rankSlug != "" {
		pred = entsql.And(pred, entsql.EQ("rank_slug", rankSlug))
	}
	rows, err := r.query(ctx, r.b.Select(bossAttemptColumns...).
		From(r.b.Table(BossExamAttemptsTable.Name)).
		Where(pred).
		OrderBy("sequence"))
	if err != nil {
		return nil, fmt.Errorf("list boss exam attempts: %w", err)
	}
	defer rows.Close()

	var out []BossExamAttempt
	for rows.Next() {
		var a BossExamAttempt
		err := rows.Scan(&a.ID, &a.Sequence, &a.SessionToken, &a.BookSlug, &a.RankSlug, &a.Passed,
			&a.Score, &a.QuestionCount, &a.Mastery, &a.TipsUsed, &a.DocsUsed, &a.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan boss exam attempt: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
