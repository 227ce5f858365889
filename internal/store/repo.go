package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("store: not found")

// Session is an anonymous learner session.
type Session struct {
	ID              int64
	Token           string
	TotalScore      int
	Rank            string
	RankLevel       int // ladder index of Rank
	RankUpdatedAt   *time.Time
	CurrentBookSlug string
	CreatedAt       time.Time
}

// Status is a topic's lock state. It only advances.
type Status string

const (
	StatusLocked    Status = "locked"
	StatusUnlocked  Status = "unlocked"
	StatusCompleted Status = "completed"
)

// TopicProgress is the per-(session, topic) ledger row.
type TopicProgress struct {
	SessionToken string
	TopicSlug    string
	Status       Status
	Score        int
	CompletedAt  *time.Time
	UpdatedAt    time.Time
}

// Attempt is one answer submission. Append-only.
type Attempt struct {
	ID           int64
	Sequence     int64
	SessionToken string
	QuestionSlug string
	TopicSlug    string
	Phase        string
	RankSlug     string
	Correct      bool
	Selected     string
	ElapsedMs    int64
	HelpUsed     string
	TipCount     int
	ScoreAwarded int
	CreatedAt    time.Time
}

// AttemptFilter selects attempts of one session. A non-empty RankSlug selects
// boss-phase attempts for that rank; otherwise TopicSlug, when set, selects
// attempts within that topic.
type AttemptFilter struct {
	SessionToken string
	TopicSlug    string
	RankSlug     string
}

// AttemptStats aggregates a session's attempts.
type AttemptStats struct {
	Total   int
	Correct int
}

// BossExamAttempt is the audit row written by every boss exam finish.
type BossExamAttempt struct {
	ID            int64
	Sequence      int64
	SessionToken  string
	BookSlug      string
	RankSlug      string
	Passed        bool
	Score         int
	QuestionCount int
	Mastery       int
	TipsUsed      int
	DocsUsed      int
	CreatedAt     time.Time
}

// Streak is the server-side streak state for one (session, scope).
type Streak struct {
	SessionToken string
	Scope        string
	Streak       int
	Shield       int
	HintTokens   int
	Mastery      int
	UpdatedAt    time.Time
}

// SessionRepo manages session rows.
type SessionRepo interface {
	// GetOrCreate returns the session for token, creating it holding
	// defaultRank at ladder level 0 if it does not exist. created reports
	// whether this call inserted it.
	GetOrCreate(ctx context.Context, token, defaultRank, bookSlug string, now time.Time) (sess *Session, created bool, err error)

	// Get returns ErrNotFound for unknown tokens.
	Get(ctx context.Context, token string) (*Session, error)

	// AddScore increments total_score and returns the new total.
	AddScore(ctx context.Context, token string, delta int) (int, error)

	// Promote moves the session to rank only if its stored level is strictly
	// below level. Reports whether the row changed.
	Promote(ctx context.Context, token, rank string, level int, bookSlug string, at time.Time) (bool, error)
}

// ProgressRepo manages the topic progress ledger.
type ProgressRepo interface {
	// Count returns the number of progress rows for a session.
	Count(ctx context.Context, token string) (int, error)

	// Ensure inserts a row with status if none exists for (token, topic).
	// Reports whether a row was inserted.
	Ensure(ctx context.Context, token, topic string, status Status, now time.Time) (bool, error)

	// IncrementScore adds one to score and lifts a locked topic to unlocked,
	// unless the topic is completed. Reports whether the row changed.
	IncrementScore(ctx context.Context, token, topic string, now time.Time) (bool, error)

	// Complete marks the topic completed if it is not already and its score
	// is at least minScore. Exactly one caller observes true per topic.
	Complete(ctx context.Context, token, topic string, minScore int, now time.Time) (bool, error)

	// Unlock creates the row as unlocked or lifts it from locked. Completed
	// and unlocked rows are left alone. Reports whether anything changed.
	Unlock(ctx context.Context, token, topic string, now time.Time) (bool, error)

	// Get returns ErrNotFound when no row exists.
	Get(ctx context.Context, token, topic string) (*TopicProgress, error)

	// List returns every row of a session.
	List(ctx context.Context, token string) ([]TopicProgress, error)
}

// AttemptRepo is the append-only attempt log.
type AttemptRepo interface {
	// Append assigns ID and Sequence and writes the attempt.
	Append(ctx context.Context, a *Attempt) error

	// RecentQuestionSlugs returns the question slugs of the latest attempts
	// matching f, newest first.
	RecentQuestionSlugs(ctx context.Context, f AttemptFilter, limit int) ([]string, error)

	// WrongCounts counts incorrect attempts per question slug.
	WrongCounts(ctx context.Context, f AttemptFilter) (map[string]int, error)

	// Stats aggregates attempts matching f.
	Stats(ctx context.Context, f AttemptFilter) (AttemptStats, error)
}

// BossAttemptRepo is the append-only boss exam audit log.
type BossAttemptRepo interface {
	// Append assigns ID and Sequence and writes the attempt.
	Append(ctx context.Context, a *BossExamAttempt) error

	// List returns a session's attempts, oldest first. An empty rankSlug
	// lists all ranks.
	List(ctx context.Context, token, rankSlug string) ([]BossExamAttempt, error)
}

// StreakRepo stores streak state per (session, scope).
type StreakRepo interface {
	// Get returns the state, zeroed when none has been stored.
	Get(ctx context.Context, token, scope string) (Streak, error)

	// GetForUpdate is Get that also locks the row until the surrounding
	// transaction ends.
	GetForUpdate(ctx context.Context, token, scope string, now time.Time) (Streak, error)

	// Put stores the state.
	Put(ctx context.Context, s Streak) error
}

// Repos groups the repositories bound to one connection or transaction.
type Repos interface {
	Sessions() SessionRepo
	Progress() ProgressRepo
	Attempts() AttemptRepo
	BossAttempts() BossAttemptRepo
	Streaks() StreakRepo
}
