// Package catalog is the read-only content tree: books, chapters, topics,
// their questions and doc anchors, and the rank ladder that ships with them.
package catalog

import (
	"cmp"
	"slices"

	"github.com/x7ian/jstopia/internal/ranks"
	"github.com/x7ian/jstopia/internal/scoring"
)

// Catalog is immutable once built and safe for concurrent use.
type Catalog struct {
	books     []Book
	bookIdx   map[string]int
	chapters  map[string]*Chapter
	topics    map[string]*Topic
	questions map[string]*Question
	topicSeq  []string // every topic slug in book, chapter, topic order
	unlocks   map[string]UnlockDescriptor
	ladder    *ranks.Ladder
}

// New sorts, validates and indexes a decoded catalog document.
func New(f File) (*Catalog, error) {
	books := slices.Clone(f.Books)
	sortBooks(books)

	if err := validate(books); err != nil {
		return nil, err
	}
	ladder, err := ranks.NewLadder(f.Ranks)
	if err != nil {
		return nil, err
	}

	c := &Catalog{
		books:     books,
		bookIdx:   make(map[string]int, len(books)),
		chapters:  make(map[string]*Chapter),
		topics:    make(map[string]*Topic),
		questions: make(map[string]*Question),
		unlocks:   make(map[string]UnlockDescriptor),
		ladder:    ladder,
	}
	for bi := range c.books {
		b := &c.books[bi]
		c.bookIdx[b.Slug] = bi
		for ci := range b.Chapters {
			ch := &b.Chapters[ci]
			c.chapters[ch.Slug] = ch
			for ti := range ch.Topics {
				t := &ch.Topics[ti]
				t.BookSlug = b.Slug
				t.ChapterSlug = ch.Slug
				c.topics[t.Slug] = t
				c.topicSeq = append(c.topicSeq, t.Slug)
				for qi := range t.Questions {
					q := &t.Questions[qi]
					q.TopicSlug = t.Slug
					c.questions[q.Slug] = q
				}
			}
		}
	}
	c.buildUnlockPath()

	if err := validateRankRefs(c); err != nil {
		return nil, err
	}
	return c, nil
}

func sortBooks(books []Book) {
	slices.SortStableFunc(books, func(a, b Book) int { return cmp.Compare(a.Order, b.Order) })
	for bi := range books {
		b := &books[bi]
		b.Chapters = slices.Clone(b.Chapters)
		slices.SortStableFunc(b.Chapters, func(a, b Chapter) int { return cmp.Compare(a.Order, b.Order) })
		for ci := range b.Chapters {
			ch := &b.Chapters[ci]
			ch.Topics = slices.Clone(ch.Topics)
			slices.SortStableFunc(ch.Topics, func(a, b Topic) int { return cmp.Compare(a.Order, b.Order) })
		}
	}
}

// buildUnlockPath precomputes, for every topic, the target its completion
// unlocks: the next topic in the chapter, else the first topic of the next
// chapter in the book, else the first topic of the next book. An empty next
// chapter does not fall through to later chapters of the same book.
func (c *Catalog) buildUnlockPath() {
	for bi, b := range c.books {
		for ci, ch := range b.Chapters {
			for ti, t := range ch.Topics {
				c.unlocks[t.Slug] = c.nextTarget(bi, ci, ti)
			}
		}
	}
}

func (c *Catalog) nextTarget(bi, ci, ti int) UnlockDescriptor {
	b := c.books[bi]
	ch := b.Chapters[ci]
	if ti+1 < len(ch.Topics) {
		return UnlockDescriptor{NextTopicSlug: ch.Topics[ti+1].Slug}
	}
	if ci+1 < len(b.Chapters) {
		next := b.Chapters[ci+1]
		if len(next.Topics) > 0 {
			return UnlockDescriptor{NextChapterSlug: next.Slug, NextTopicSlug: next.Topics[0].Slug}
		}
	}
	if bi+1 < len(c.books) {
		nb := c.books[bi+1]
		if len(nb.Chapters) > 0 && len(nb.Chapters[0].Topics) > 0 {
			return UnlockDescriptor{
				NextBookSlug:    nb.Slug,
				NextChapterSlug: nb.Chapters[0].Slug,
				NextTopicSlug:   nb.Chapters[0].Topics[0].Slug,
			}
		}
	}
	return UnlockDescriptor{}
}

// NextAfter returns what completing topicSlug unlocks.
func (c *Catalog) NextAfter(topicSlug string) UnlockDescriptor {
	return c.unlocks[topicSlug]
}

// Books returns the books in order.
func (c *Catalog) Books() []Book { return c.books }

// Book looks up a book by slug.
func (c *Catalog) Book(slug string) (*Book, bool) {
	i, ok := c.bookIdx[slug]
	if !ok {
		return nil, false
	}
	return &c.books[i], true
}

// FirstBook returns the lowest-ordered book.
func (c *Catalog) FirstBook() *Book { return &c.books[0] }

// Chapter looks up a chapter by slug.
func (c *Catalog) Chapter(slug string) (*Chapter, bool) {
	ch, ok := c.chapters[slug]
	return ch, ok
}

// Topic looks up a topic by slug.
func (c *Catalog) Topic(slug string) (*Topic, bool) {
	t, ok := c.topics[slug]
	return t, ok
}

// TopicSlugs returns every topic slug in unlock order.
func (c *Catalog) TopicSlugs() []string { return slices.Clone(c.topicSeq) }

// Neighbors returns the topics before and after slug within its chapter.
func (c *Catalog) Neighbors(slug string) (prev, next *Topic) {
	t, ok := c.topics[slug]
	if !ok {
		return nil, nil
	}
	ch := c.chapters[t.ChapterSlug]
	i := slices.IndexFunc(ch.Topics, func(o Topic) bool { return o.Slug == slug })
	if i > 0 {
		prev = &ch.Topics[i-1]
	}
	if i >= 0 && i+1 < len(ch.Topics) {
		next = &ch.Topics[i+1]
	}
	return prev, next
}

// Question looks up a question by slug.
func (c *Catalog) Question(slug string) (*Question, bool) {
	q, ok := c.questions[slug]
	return q, ok
}

// TopicQuestions returns the questions of a topic in a phase, in catalog
// order. An empty difficulty matches all.
func (c *Catalog) TopicQuestions(topicSlug string, phase scoring.Phase, d scoring.Difficulty) []*Question {
	t, ok := c.topics[topicSlug]
	if !ok {
		return nil
	}
	var out []*Question
	for i := range t.Questions {
		q := &t.Questions[i]
		if q.Phase == phase && (d == "" || q.Difficulty == d) {
			out = append(out, q)
		}
	}
	return out
}

// BossQuestions returns boss-phase questions for a rank in catalog order.
func (c *Catalog) BossQuestions(rankSlug string, d scoring.Difficulty) []*Question {
	var out []*Question
	for _, slug := range c.topicSeq {
		t := c.topics[slug]
		for i := range t.Questions {
			q := &t.Questions[i]
			if q.Phase == scoring.PhaseBoss && q.RankSlug == rankSlug && (d == "" || q.Difficulty == d) {
				out = append(out, q)
			}
		}
	}
	return out
}

// QuizCount is the number of quiz-phase questions in a topic.
func (c *Catalog) QuizCount(topicSlug string) int {
	return len(c.TopicQuestions(topicSlug, scoring.PhaseQuiz, ""))
}

// DocPageFor resolves the doc page a question's anchor lives on.
func (c *Catalog) DocPageFor(q *Question) *DocPage {
	t, ok := c.topics[q.TopicSlug]
	if q.DocPageSlug == "" {
		if ok {
			return t.DocPage
		}
		return nil
	}
	for _, other := range c.topics {
		if other.DocPage != nil && other.DocPage.Slug == q.DocPageSlug {
			return other.DocPage
		}
	}
	return nil
}

// Ladder returns the rank ladder.
func (c *Catalog) Ladder() *ranks.Ladder { return c.ladder }

// BookSnapshot builds a rank snapshot for one book from the set of completed
// topic slugs. Chapter totals and available topics cover only that book, so
// topics of other books count as absent.
func (c *Catalog) BookSnapshot(bookSlug string, completed map[string]bool) (ranks.Snapshot, bool) {
	b, ok := c.Book(bookSlug)
	if !ok {
		return ranks.Snapshot{}, false
	}
	chapters := make([]*Chapter, len(b.Chapters))
	for i := range b.Chapters {
		chapters[i] = &b.Chapters[i]
	}
	return snapshotOf(chapters, completed), true
}

func snapshotOf(chapters []*Chapter, completed map[string]bool) ranks.Snapshot {
	snap := ranks.Snapshot{
		CompletedTopics: completed,
		Chapters:        make(map[string]ranks.ChapterProgress, len(chapters)),
		AvailableTopics: make(map[string]bool),
	}
	for _, ch := range chapters {
		cp := ranks.ChapterProgress{Total: len(ch.Topics)}
		for _, t := range ch.Topics {
			snap.AvailableTopics[t.Slug] = true
			if completed[t.Slug] {
				cp.Completed++
			}
		}
		snap.Chapters[ch.Slug] = cp
	}
	return snap
}
