package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table and column layout, declared the same way ent's generated migrate
// package declares them so schema.Migrate can create and evolve them.
var (
	// SessionsColumns holds the columns for the "sessions" table.
	SessionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "token", Type: field.TypeString, Size: 128},
		{Name: "total_score", Type: field.TypeInt, Default: 0},
		{Name: "rank", Type: field.TypeString, Size: 64},
		{Name: "rank_level", Type: field.TypeInt, Default: 0},
		{Name: "rank_updated_at", Type: field.TypeTime, Nullable: true},
		{Name: "current_book_slug", Type: field.TypeString, Size: 128, Default: ""},
		{Name: "created_at", Type: field.TypeTime},
	}
	// SessionsTable holds the schema information for the "sessions" table.
	SessionsTable = &schema.Table{
		Name:       "sessions",
		Columns:    SessionsColumns,
		PrimaryKey: []*schema.Column{SessionsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "session_token",
				Unique:  true,
				Columns: []*schema.Column{SessionsColumns[1]},
			},
		},
	}

	// TopicProgressColumns holds the columns for the "topic_progress" table.
	TopicProgressColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "session_token", Type: field.TypeString, Size: 128},
		{Name: "topic_slug", Type: field.TypeString, Size: 128},
		{Name: "status", Type: field.TypeString, Size: 16},
		{Name: "score", Type: field.TypeInt, Default: 0},
		{Name: "completed_at", Type: field.TypeTime, Nullable: true},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// TopicProgressTable holds the schema information for the "topic_progress" table.
	TopicProgressTable = &schema.Table{
		Name:       "topic_progress",
		Columns:    TopicProgressColumns,
		PrimaryKey: []*schema.Column{TopicProgressColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "topicprogress_session_token_topic_slug",
				Unique:  true,
				Columns: []*schema.Column{TopicProgressColumns[1], TopicProgressColumns[2]},
			},
		},
	}

	// AttemptsColumns holds the columns for the "attempts" table.
	AttemptsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "sequence", Type: field.TypeInt64},
		{Name: "session_token", Type: field.TypeString, Size: 128},
		{Name: "question_slug", Type: field.TypeString, Size: 128},
		{Name: "topic_slug", Type: field.TypeString, Size: 128},
		{Name: "phase", Type: field.TypeString, Size: 16},
		{Name: "rank_slug", Type: field.TypeString, Size: 64, Default: ""},
		{Name: "correct", Type: field.TypeBool},
		{Name: "selected", Type: field.TypeString, Size: 2147483647},
		{Name: "elapsed_ms", Type: field.TypeInt64, Default: 0},
		{Name: "help_used", Type: field.TypeString, Size: 8},
		{Name: "tip_count", Type: field.TypeInt, Default: 0},
		{Name: "score_awarded", Type: field.TypeInt, Default: 0},
		{Name: "created_at", Type: field.TypeTime},
	}
	// AttemptsTable holds the schema information for the "attempts" table.
	AttemptsTable = &schema.Table{
		Name:       "attempts",
		Columns:    AttemptsColumns,
		PrimaryKey: []*schema.Column{AttemptsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "attempt_sequence",
				Unique:  true,
				Columns: []*schema.Column{AttemptsColumns[1]},
			},
			{
				Name:    "attempt_session_token_topic_slug",
				Unique:  false,
				Columns: []*schema.Column{AttemptsColumns[2], AttemptsColumns[4]},
			},
		},
	}

	// BossExamAttemptsColumns holds the columns for the "boss_exam_attempts" table.
	BossExamAttemptsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "sequence", Type: field.TypeInt64},
		{Name: "session_token", Type: field.TypeString, Size: 128},
		{Name: "book_slug", Type: field.TypeString, Size: 128},
		{Name: "rank_slug", Type: field.TypeString, Size: 64},
		{Name: "passed", Type: field.TypeBool},
		{Name: "score", Type: field.TypeInt},
		{Name: "question_count", Type: field.TypeInt},
		{Name: "mastery", Type: field.TypeInt},
		{Name: "tips_used", Type: field.TypeInt},
		{Name: "docs_used", Type: field.TypeInt},
		{Name: "created_at", Type: field.TypeTime},
	}
	// BossExamAttemptsTable holds the schema information for the "boss_exam_attempts" table.
	BossExamAttemptsTable = &schema.Table{
		Name:       "boss_exam_attempts",
		Columns:    BossExamAttemptsColumns,
		PrimaryKey: []*schema.Column{BossExamAttemptsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "bossexamattempt_sequence",
				Unique:  true,
				Columns: []*schema.Column{BossExamAttemptsColumns[1]},
			},
			{
				Name:    "bossexamattempt_session_token_rank_slug",
				Unique:  false,
				Columns: []*schema.Column{BossExamAttemptsColumns[2], BossExamAttemptsColumns[4]},
			},
		},
	}

	// StreaksColumns holds the columns for the "streaks" table.
	StreaksColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "session_token", Type: field.TypeString, Size: 128},
		{Name: "scope", Type: field.TypeString, Size: 16},
		{Name: "streak", Type: field.TypeInt, Default: 0},
		{Name: "shield", Type: field.TypeInt, Default: 0},
		{Name: "hint_tokens", Type: field.TypeInt, Default: 0},
		{Name: "mastery", Type: field.TypeInt, Default: 0},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// StreaksTable holds the schema information for the "streaks" table.
	StreaksTable = &schema.Table{
		Name:       "streaks",
		Columns:    StreaksColumns,
		PrimaryKey: []*schema.Column{StreaksColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "streak_session_token_scope",
				Unique:  true,
				Columns: []*schema.Column{StreaksColumns[1], StreaksColumns[2]},
			},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		SessionsTable,
		TopicProgressTable,
		AttemptsTable,
		BossExamAttemptsTable,
		StreaksTable,
	}
)
