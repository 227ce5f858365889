package catalog

import (
	"github.com/x7ian/jstopia/internal/ranks"
	"github.com/x7ian/jstopia/internal/scoring"
)

// QuestionType is how a question is answered.
type QuestionType string

const (
	TypeMCQ          QuestionType = "mcq"
	TypeCodeOutput   QuestionType = "code_output"
	TypeCodeComplete QuestionType = "code_complete"
	// TypeCode answers arrive already reduced to an answer token by the
	// sandbox; the engine only compares strings.
	TypeCode QuestionType = "code"
)

// File is the on-disk catalog document.
type File struct {
	Books []Book             `yaml:"books"`
	Ranks []ranks.Definition `yaml:"ranks"`
}

// Book is the top level of the content tree.
type Book struct {
	Slug            string    `yaml:"slug" json:"slug"`
	Title           string    `yaml:"title" json:"title"`
	Order           int       `yaml:"order" json:"order"`
	LockedByDefault bool      `yaml:"locked_by_default" json:"lockedByDefault"`
	StoryIntro      string    `yaml:"story_intro" json:"storyIntro,omitempty"`
	Chapters        []Chapter `yaml:"chapters" json:"chapters"`
}

// Chapter groups topics inside a book.
type Chapter struct {
	Slug            string  `yaml:"slug" json:"slug"`
	Title           string  `yaml:"title" json:"title"`
	Order           int     `yaml:"order" json:"order"`
	LockedByDefault bool    `yaml:"locked_by_default" json:"lockedByDefault"`
	StoryIntro      string  `yaml:"story_intro" json:"storyIntro,omitempty"`
	Topics          []Topic `yaml:"topics" json:"topics"`
}

// Topic is the unit of progress.
type Topic struct {
	Slug            string     `yaml:"slug" json:"slug"`
	Title           string     `yaml:"title" json:"title"`
	Order           int        `yaml:"order" json:"order"`
	LockedByDefault bool       `yaml:"locked_by_default" json:"lockedByDefault"`
	StoryIntro      string     `yaml:"story_intro" json:"storyIntro,omitempty"`
	PassThrough     bool       `yaml:"pass_through" json:"passThrough,omitempty"`
	DocPage         *DocPage   `yaml:"doc_page" json:"docPage,omitempty"`
	Questions       []Question `yaml:"questions" json:"-"`

	// Filled in when the catalog is indexed.
	ChapterSlug string `yaml:"-" json:"chapterSlug"`
	BookSlug    string `yaml:"-" json:"bookSlug"`
}

// DocPage is the explanatory page attached to a topic.
type DocPage struct {
	Slug             string     `yaml:"slug" json:"slug"`
	Title            string     `yaml:"title" json:"title"`
	EstimatedMinutes int        `yaml:"estimated_minutes" json:"estimatedMinutes,omitempty"`
	Objectives       []string   `yaml:"objectives" json:"objectives,omitempty"`
	Blocks           []DocBlock `yaml:"blocks" json:"blocks"`
}

// Block returns the block with the given anchor.
func (p *DocPage) Block(anchor string) (DocBlock, bool) {
	if p == nil {
		return DocBlock{}, false
	}
	for _, b := range p.Blocks {
		if b.Anchor == anchor {
			return b, true
		}
	}
	return DocBlock{}, false
}

// DocBlock is an anchored section of a doc page.
type DocBlock struct {
	Anchor  string `yaml:"anchor" json:"anchor"`
	Kind    string `yaml:"kind" json:"kind"`
	Title   string `yaml:"title" json:"title"`
	Excerpt string `yaml:"excerpt" json:"excerpt,omitempty"`
}

// Question is an immutable catalog question.
type Question struct {
	Slug        string             `yaml:"slug"`
	Difficulty  scoring.Difficulty `yaml:"difficulty"`
	Type        QuestionType       `yaml:"type"`
	Phase       scoring.Phase      `yaml:"phase"`
	RankSlug    string             `yaml:"rank"`
	Prompt      string             `yaml:"prompt"`
	Code        string             `yaml:"code"`
	Choices     []string           `yaml:"choices"`
	Answer      string             `yaml:"answer"`
	Tips        []string           `yaml:"tips"`
	Explanation string             `yaml:"explanation"`
	Anchor      string             `yaml:"anchor"`

	// DocPageSlug overrides the topic's doc page for the answer anchor.
	DocPageSlug string `yaml:"doc_page"`

	TopicSlug string `yaml:"-"`
}

// UnlockDescriptor reports what a completion made reachable. All fields are
// empty when nothing further exists.
type UnlockDescriptor struct {
	NextTopicSlug   string `json:"nextTopicSlug,omitempty"`
	NextChapterSlug string `json:"nextChapterSlug,omitempty"`
	NextBookSlug    string `json:"nextBookSlug,omitempty"`
}

// IsZero reports whether nothing was unlocked.
func (u UnlockDescriptor) IsZero() bool {
	return u.NextTopicSlug == ""
}
