package ranks

import (
	"fmt"
	"slices"
	"strings"
)

// Ladder is an immutable, ordered list of rank definitions.
type Ladder struct {
	ranks  []Definition
	bySlug map[string]int
}

// NewLadder sorts definitions by level and indexes them.
func NewLadder(defs []Definition) (*Ladder, error) {
	sorted := slices.Clone(defs)
	slices.SortStableFunc(sorted, func(a, b Definition) int { return a.Level - b.Level })

	if err := validateLadder(sorted); err != nil {
		return nil, err
	}

	l := &Ladder{
		ranks:  sorted,
		bySlug: make(map[string]int, len(sorted)),
	}
	for i, d := range sorted {
		l.bySlug[d.Slug] = i
	}
	return l, nil
}

func validateLadder(defs []Definition) error {
	var errs []string
	if len(defs) == 0 {
		errs = append(errs, "ladder has no ranks")
	}
	seen := make(map[string]bool, len(defs))
	for i, d := range defs {
		if d.Slug == "" || d.Slug == Unranked {
			errs = append(errs, fmt.Sprintf("rank %d: invalid slug %q", i, d.Slug))
		}
		if seen[d.Slug] {
			errs = append(errs, fmt.Sprintf("duplicate rank slug: %q", d.Slug))
		}
		seen[d.Slug] = true
		if i > 0 && defs[i-1].Level == d.Level {
			errs = append(errs, fmt.Sprintf("ranks %q and %q share level %d", defs[i-1].Slug, d.Slug, d.Level))
		}
		if d.XPMin < 0 {
			errs = append(errs, fmt.Sprintf("rank %q: xp_min must be >= 0, got %d", d.Slug, d.XPMin))
		}
		if b := d.BossExam; b != nil {
			if b.QuestionCount <= 0 {
				errs = append(errs, fmt.Sprintf("rank %q: boss exam question_count must be > 0", d.Slug))
			}
			if b.AllowedTipCount < 0 || b.AllowedDocRevealCount < 0 {
				errs = append(errs, fmt.Sprintf("rank %q: boss exam help allowances must be >= 0", d.Slug))
			}
			if b.MasteryMinHalfSteps < 0 || b.MasteryMinHalfSteps > 10 {
				errs = append(errs, fmt.Sprintf("rank %q: mastery_min_half_steps must be in [0, 10]", d.Slug))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("rank ladder validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// All returns the ranks lowest first.
func (l *Ladder) All() []Definition {
	return slices.Clone(l.ranks)
}

// Len returns the number of ranks.
func (l *Ladder) Len() int { return len(l.ranks) }

// Lowest returns the entry rank, which new sessions hold by default.
func (l *Ladder) Lowest() Definition { return l.ranks[0] }

// Get returns the rank with the given slug.
func (l *Ladder) Get(slug string) (Definition, bool) {
	i, ok := l.bySlug[slug]
	if !ok {
		return Definition{}, false
	}
	return l.ranks[i], true
}

// Index returns the ladder position of slug, or -1.
func (l *Ladder) Index(slug string) int {
	i, ok := l.bySlug[slug]
	if !ok {
		return -1
	}
	return i
}

// At returns the rank at ladder position i.
func (l *Ladder) At(i int) (Definition, bool) {
	if i < 0 || i >= len(l.ranks) {
		return Definition{}, false
	}
	return l.ranks[i], true
}

// Next returns the rank immediately above slug.
func (l *Ladder) Next(slug string) (Definition, bool) {
	i := l.Index(slug)
	if i < 0 {
		return Definition{}, false
	}
	return l.At(i + 1)
}

// XPProgress is the fraction of the way from 0 to next's XP floor, capped at 1.
func XPProgress(totalXP int, next Definition) float64 {
	if next.XPMin <= 0 {
		return 1
	}
	return min(1, float64(totalXP)/float64(next.XPMin))
}
