package catalog

import (
	"fmt"
	"slices"
	"strings"

	"github.com/x7ian/jstopia/internal/ranks"
	"github.com/x7ian/jstopia/internal/scoring"
)

// validate performs structural checks on the content tree.
// Returns a combined error describing all problems found, or nil if valid.
func validate(books []Book) error {
	var errs []string

	if len(books) == 0 {
		errs = append(errs, "catalog has no books")
	}

	bookSlugs := make(map[string]bool)
	chapterSlugs := make(map[string]bool)
	topicSlugs := make(map[string]bool)
	questionSlugs := make(map[string]bool)

	for _, b := range books {
		if bookSlugs[b.Slug] {
			errs = append(errs, fmt.Sprintf("duplicate book slug: %q", b.Slug))
		}
		bookSlugs[b.Slug] = true

		for _, ch := range b.Chapters {
			if chapterSlugs[ch.Slug] {
				errs = append(errs, fmt.Sprintf("duplicate chapter slug: %q", ch.Slug))
			}
			chapterSlugs[ch.Slug] = true

			for _, t := range ch.Topics {
				if topicSlugs[t.Slug] {
					errs = append(errs, fmt.Sprintf("duplicate topic slug: %q", t.Slug))
				}
				topicSlugs[t.Slug] = true

				for _, q := range t.Questions {
					if questionSlugs[q.Slug] {
						errs = append(errs, fmt.Sprintf("duplicate question slug: %q", q.Slug))
					}
					questionSlugs[q.Slug] = true
					errs = append(errs, validateQuestion(t, q)...)
				}
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func validateQuestion(t Topic, q Question) []string {
	var errs []string
	if !scoring.ValidDifficulty(q.Difficulty) {
		errs = append(errs, fmt.Sprintf("question %q has unknown difficulty %q", q.Slug, q.Difficulty))
	}
	if !scoring.ValidPhase(q.Phase) {
		errs = append(errs, fmt.Sprintf("question %q has unknown phase %q", q.Slug, q.Phase))
	}
	if q.Phase == scoring.PhaseBoss && q.RankSlug == "" {
		errs = append(errs, fmt.Sprintf("boss question %q has no rank", q.Slug))
	}
	if q.Type == TypeMCQ {
		if len(q.Choices) < 2 {
			errs = append(errs, fmt.Sprintf("mcq question %q needs at least 2 choices", q.Slug))
		} else if !slices.ContainsFunc(q.Choices, func(c string) bool { return strings.TrimSpace(c) == strings.TrimSpace(q.Answer) }) {
			errs = append(errs, fmt.Sprintf("mcq question %q answer is not among its choices", q.Slug))
		}
	}
	if q.Anchor != "" && q.DocPageSlug == "" {
		if _, ok := t.DocPage.Block(q.Anchor); !ok {
			errs = append(errs, fmt.Sprintf("question %q references missing anchor %q in topic %q", q.Slug, q.Anchor, t.Slug))
		}
	}
	return errs
}

// validateRankRefs checks cross references that need the built indexes:
// external doc pages, boss question ranks and rank chapter requirements.
func validateRankRefs(c *Catalog) error {
	var errs []string

	for _, q := range c.questions {
		if q.DocPageSlug != "" {
			page := c.DocPageFor(q)
			if page == nil {
				errs = append(errs, fmt.Sprintf("question %q references missing doc page %q", q.Slug, q.DocPageSlug))
			} else if _, ok := page.Block(q.Anchor); q.Anchor != "" && !ok {
				errs = append(errs, fmt.Sprintf("question %q references missing anchor %q on %q", q.Slug, q.Anchor, q.DocPageSlug))
			}
		}
		if q.RankSlug != "" {
			if _, ok := c.ladder.Get(q.RankSlug); !ok {
				errs = append(errs, fmt.Sprintf("question %q references unknown rank %q", q.Slug, q.RankSlug))
			}
		}
	}

	for _, d := range c.ladder.All() {
		for _, slug := range chapterRefs(d.Requirement) {
			if _, ok := c.chapters[slug]; !ok {
				errs = append(errs, fmt.Sprintf("rank %q requires unknown chapter %q", d.Slug, slug))
			}
		}
		for _, slug := range strictTopicRefs(d.Requirement) {
			if _, ok := c.topics[slug]; !ok {
				errs = append(errs, fmt.Sprintf("rank %q strictly requires unknown topic %q", d.Slug, slug))
			}
		}
	}

	if len(errs) > 0 {
		slices.Sort(errs)
		return fmt.Errorf("catalog validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func chapterRefs(r ranks.Requirement) []string {
	out := slices.Clone(r.Chapters)
	for _, cc := range r.ChapterCounts {
		out = append(out, cc.ChapterSlug)
	}
	for _, alt := range r.AnyOf {
		out = append(out, chapterRefs(alt)...)
	}
	return out
}

// strictTopicRefs lists topics that must exist for r to ever be met.
func strictTopicRefs(r ranks.Requirement) []string {
	var out []string
	if r.Strict {
		out = slices.Clone(r.Topics)
	}
	for _, alt := range r.AnyOf {
		out = append(out, strictTopicRefs(alt)...)
	}
	return out
}
