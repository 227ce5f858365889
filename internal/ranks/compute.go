package ranks

// Satisfied reports whether the snapshot meets r.
//
// Required topics missing from the snapshot count as done so unwritten
// content never blocks a learner, but a topic list with no available topic
// at all and nothing else to check cannot be met. Strict requirements get no
// such allowance.
func (r Requirement) Satisfied(s Snapshot) bool {
	if r.IsZero() {
		return true
	}

	concrete := r.Strict || len(r.Chapters) > 0 || len(r.ChapterCounts) > 0 || len(r.AnyOf) > 0
	for _, slug := range r.Topics {
		if !r.Strict && !s.topicExists(slug) {
			continue
		}
		concrete = true
		if !s.CompletedTopics[slug] {
			return false
		}
	}
	if !concrete {
		return false
	}

	for _, slug := range r.Chapters {
		if !s.Chapters[slug].Done() {
			return false
		}
	}
	for _, cc := range r.ChapterCounts {
		if s.Chapters[cc.ChapterSlug].Completed < cc.Count {
			return false
		}
	}
	if len(r.AnyOf) > 0 {
		for _, alt := range r.AnyOf {
			if alt.Satisfied(s) {
				return true
			}
		}
		return false
	}
	return true
}

func (s Snapshot) topicExists(slug string) bool {
	if s.AvailableTopics == nil {
		return true
	}
	return s.AvailableTopics[slug]
}

// Compute returns the highest rank whose requirement the snapshot meets.
// The learner is unranked until the lowest rank's requirement holds. XP is
// never consulted.
func (l *Ladder) Compute(s Snapshot) Result {
	if !l.ranks[0].Requirement.Satisfied(s) {
		first := l.ranks[0]
		return Result{
			RankSlug:   Unranked,
			Level:      -1,
			Next:       &first,
			ComingSoon: first.LockedByContent,
		}
	}

	current := 0
	for i := 1; i < len(l.ranks); i++ {
		if l.ranks[i].Requirement.Satisfied(s) {
			current = i
		}
	}

	res := Result{RankSlug: l.ranks[current].Slug, Level: current}
	if next, ok := l.At(current + 1); ok {
		res.Next = &next
		res.ComingSoon = next.LockedByContent
	}
	return res
}
