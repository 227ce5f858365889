package ranks

import "fmt"

// ExamSummary is what the client reports when a boss exam ends.
type ExamSummary struct {
	Passed           bool
	CorrectCount     int
	QuestionCount    int // raised to the rule's question count
	MasteryHalfSteps int
	TipsUsed         int
	DocsUsed         int
}

// ExamChecks itemises each pass condition.
type ExamChecks struct {
	ContentMet bool `json:"contentMet"`
	ClientPass bool `json:"clientPass"`
	XPMet      bool `json:"xpMet"`
	HelpWithin bool `json:"helpWithin"`
	MasteryMet bool `json:"masteryMet"`
	ScoreMet   bool `json:"scoreMet"`
	PassScore  int  `json:"passScore"`
	TotalXP    int  `json:"totalXp"`
	RequiredXP int  `json:"requiredXp"`
}

// Passed is the conjunction of every check.
func (c ExamChecks) Passed() bool {
	return c.ContentMet && c.ClientPass && c.XPMet && c.HelpWithin && c.MasteryMet && c.ScoreMet
}

// Failures names the checks that did not hold.
func (c ExamChecks) Failures() []string {
	var out []string
	if !c.ContentMet {
		out = append(out, "content")
	}
	if !c.ClientPass {
		out = append(out, "client")
	}
	if !c.XPMet {
		out = append(out, fmt.Sprintf("xp %d < %d", c.TotalXP, c.RequiredXP))
	}
	if !c.HelpWithin {
		out = append(out, "help")
	}
	if !c.MasteryMet {
		out = append(out, "mastery")
	}
	if !c.ScoreMet {
		out = append(out, "score")
	}
	return out
}

// EffectiveQuestionCount is the exam length a pass is judged against. A
// client may report a longer exam but never a shorter one than the rule's.
func (r BossExamRule) EffectiveQuestionCount(reported int) int {
	return max(reported, r.QuestionCount)
}

// EvaluateBossExam applies the boss exam gate for rank against a snapshot
// taken at finish time. Ranks locked pending content never pass.
func EvaluateBossExam(rank Definition, snap Snapshot, totalXP int, sum ExamSummary) ExamChecks {
	rule := rank.BossExam
	if rule == nil {
		return ExamChecks{}
	}

	pass := PassScore(rule.EffectiveQuestionCount(sum.QuestionCount))

	return ExamChecks{
		ContentMet: !rank.LockedByContent && rank.Requirement.strictlySatisfied(snap),
		ClientPass: sum.Passed,
		XPMet:      totalXP >= rank.XPMin,
		HelpWithin: sum.TipsUsed <= rule.AllowedTipCount && sum.DocsUsed <= rule.AllowedDocRevealCount,
		MasteryMet: sum.MasteryHalfSteps >= rule.MasteryMinHalfSteps,
		ScoreMet:   sum.CorrectCount >= pass,
		PassScore:  pass,
		TotalXP:    totalXP,
		RequiredXP: rank.XPMin,
	}
}

// strictlySatisfied is Satisfied without the catalog-absence allowance: the
// exam gate wants every listed topic actually completed.
func (r Requirement) strictlySatisfied(s Snapshot) bool {
	strict := s
	strict.AvailableTopics = nil
	return r.Satisfied(strict)
}
