package store

import (
	"context"
	"database/sql"
	"fmt"
)

// The audit sequence is shared by attempts and boss exam attempts. The two
// logs live in separate tables, so their auto-increment ids cannot order one
// against the other; every audit row takes the next value from one shared
// sequence instead.
//
// Postgres uses a native SEQUENCE: nextval takes no row lock, so concurrent
// audit inserts never queue behind each other. Values are unique and
// increasing but may skip after a rollback. SQLite has no sequences; there a
// single-row counter is bumped inside the writing transaction, which costs
// nothing extra because the store already serializes writers on one
// connection.

const auditSequence = "audit_sequence"

// ensureSequence creates the sequence, or the seeded counter table on SQLite.
func ensureSequence(ctx context.Context, db *sql.DB, driver string) error {
	if driver == DriverPostgres {
		if _, err := db.ExecContext(ctx, `CREATE SEQUENCE IF NOT EXISTS `+auditSequence); err != nil {
			return fmt.Errorf("create sequence: %w", err)
		}
		return nil
	}

	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val BIGINT NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return fmt.Errorf("create sequence table: %w", err)
	}

	_, err = db.ExecContext(ctx, `INSERT INTO global_sequence (id, next_val) VALUES (1, 1) ON CONFLICT (id) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("seed sequence: %w", err)
	}
	return nil
}

// sequenceQuery returns the statement yielding the next sequence value.
func sequenceQuery(driver string) string {
	if driver == DriverPostgres {
		return `SELECT nextval('` + auditSequence + `')`
	}
	return `UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`
}

// nextSequence returns the next sequence number through the repository's
// querier, which is normally the caller's transaction.
func (c conn) nextSequence(ctx context.Context) (int64, error) {
	var seq int64
	if err := c.q.QueryRowContext(ctx, sequenceQuery(c.driver)).Scan(&seq); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}
