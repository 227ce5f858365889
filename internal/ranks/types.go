// Package ranks holds the rank ladder, the rank computation over a progress
// snapshot and the boss exam pass criteria.
package ranks

// Unranked is reported before the learner reaches the lowest rank.
const Unranked = "unranked"

// ChapterCount requires at least Count completed topics in a chapter.
type ChapterCount struct {
	ChapterSlug string `yaml:"chapter" json:"chapterSlug"`
	Count       int    `yaml:"count" json:"count"`
}

// Requirement is the content a learner must have completed to hold a rank.
type Requirement struct {
	Topics        []string       `yaml:"topics,omitempty" json:"topics,omitempty"`
	Chapters      []string       `yaml:"chapters,omitempty" json:"chapters,omitempty"`
	ChapterCounts []ChapterCount `yaml:"chapter_counts,omitempty" json:"chapterCounts,omitempty"`

	// Strict requires Topics completed even when the snapshot does not
	// carry them, e.g. a trial that lives in another book.
	Strict bool `yaml:"strict,omitempty" json:"strict,omitempty"`

	// AnyOf is satisfied when at least one alternative is.
	AnyOf []Requirement `yaml:"any_of,omitempty" json:"anyOf,omitempty"`
}

// IsZero reports whether the requirement has no conditions.
func (r Requirement) IsZero() bool {
	return len(r.Topics) == 0 && len(r.Chapters) == 0 && len(r.ChapterCounts) == 0 && len(r.AnyOf) == 0
}

// DifficultyMix is the share of each difficulty in a boss exam.
type DifficultyMix struct {
	Basic    float64 `yaml:"basic" json:"basic"`
	Medium   float64 `yaml:"medium" json:"medium"`
	Advanced float64 `yaml:"advanced" json:"advanced"`
}

// BossExamRule configures the gated exam for a rank.
type BossExamRule struct {
	QuestionCount         int            `yaml:"question_count" json:"questionCount"`
	AllowedTipCount       int            `yaml:"allowed_tip_count" json:"allowedTipCount"`
	AllowedDocRevealCount int            `yaml:"allowed_doc_reveal_count" json:"allowedDocRevealCount"`
	MasteryMinHalfSteps   int            `yaml:"mastery_min_half_steps" json:"masteryMinHalfSteps"`
	DifficultyMix         *DifficultyMix `yaml:"difficulty_mix,omitempty" json:"difficultyMix,omitempty"`
}

// PassScore is the minimum correct count for n questions: ceil(0.7 * n).
func PassScore(n int) int {
	if n <= 0 {
		return 0
	}
	return (7*n + 9) / 10
}

// Definition is one rung of the ladder.
type Definition struct {
	Slug            string        `yaml:"slug" json:"slug"`
	Level           int           `yaml:"level" json:"level"`
	Title           string        `yaml:"title" json:"title"`
	Description     string        `yaml:"description" json:"description"`
	Accent          string        `yaml:"accent,omitempty" json:"accent,omitempty"`
	XPMin           int           `yaml:"xp_min" json:"xpMin"`
	Requirement     Requirement   `yaml:"requirement,omitempty" json:"requirement"`
	BossExam        *BossExamRule `yaml:"boss_exam,omitempty" json:"bossExam,omitempty"`
	LockedByContent bool          `yaml:"locked_by_content,omitempty" json:"lockedByContent"`
}

// ChapterProgress counts topics in one chapter.
type ChapterProgress struct {
	Total     int
	Completed int
}

// Done reports whether every topic in a non-empty chapter is completed.
func (c ChapterProgress) Done() bool {
	return c.Total > 0 && c.Completed >= c.Total
}

// Snapshot is the learner progress rank computation runs against.
type Snapshot struct {
	CompletedTopics map[string]bool
	Chapters        map[string]ChapterProgress
	// AvailableTopics lists topics present in the catalog. When nil every
	// topic is assumed to exist.
	AvailableTopics map[string]bool
}

// Result is the outcome of rank computation.
type Result struct {
	RankSlug   string
	Level      int // ladder index, -1 when unranked
	Next       *Definition
	ComingSoon bool
}
