// Package render turns engine views into styled terminal text for the CLI.
package render

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/x7ian/jstopia/internal/engine"
	"github.com/x7ian/jstopia/internal/store"
	"github.com/x7ian/jstopia/internal/ui/components"
	"github.com/x7ian/jstopia/internal/ui/theme"
)

// barWidth is the width of progress bars in CLI output.
const barWidth = 40

func statusMark(s store.Status) string {
	switch s {
	case store.StatusCompleted:
		return theme.Completed.Render("✓")
	case store.StatusUnlocked:
		return theme.Unlocked.Render("●")
	default:
		return theme.Locked.Render("○")
	}
}

func statusStyle(s store.Status) lipgloss.Style {
	switch s {
	case store.StatusCompleted:
		return theme.Completed
	case store.StatusUnlocked:
		return theme.Unlocked
	default:
		return theme.Locked
	}
}

// Journey renders the book, chapter and topic tree with progress marks.
func Journey(books []engine.BookView) string {
	var b strings.Builder
	for i, book := range books {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s %s\n", statusMark(book.State), theme.Title.Render(book.Title))
		for _, ch := range book.Chapters {
			fmt.Fprintf(&b, "  %s %s\n", statusMark(ch.State), theme.Subtitle.Render(ch.Title))
			for _, t := range ch.Topics {
				line := fmt.Sprintf("    %s %s", statusMark(t.State), statusStyle(t.State).Render(t.Title))
				if t.Score > 0 {
					line += theme.Hint.Render(fmt.Sprintf("  %d xp", t.Score))
				}
				b.WriteString(line + "\n")
			}
		}
	}
	return b.String()
}

// Rank renders the current rank card and the progress toward the next one.
func Rank(v *engine.RankView) string {
	var lines []string
	if cur := v.CurrentRank; cur != nil {
		lines = append(lines,
			theme.Title.Render(fmt.Sprintf("Level %d · %s", cur.Level, cur.Title)),
			theme.Hint.Render(cur.Description),
		)
	} else {
		lines = append(lines, theme.Title.Render("Unranked"))
	}
	lines = append(lines, "", theme.Body.Render(fmt.Sprintf("Total XP: %d", v.TotalXP)))

	if next := v.NextRank; next != nil {
		lines = append(lines, "", theme.Subtitle.Render("Next: "+next.Title))
		if next.ComingSoon {
			lines = append(lines, theme.Hint.Render("Coming soon"))
		} else {
			lines = append(lines, components.ProgressBar{
				Label:       fmt.Sprintf("%d XP", next.XPMin),
				Fraction:    next.XPProgressPct,
				ShowPercent: true,
				Width:       barWidth,
			}.View())
			if next.HasBossExam {
				lines = append(lines, theme.Hint.Render("Boss exam required"))
			}
		}
	}
	return theme.Card.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// Stats renders the session summary.
func Stats(v *engine.StatsView) string {
	rows := [][2]string{
		{"Rank", v.Rank},
		{"Total XP", fmt.Sprint(v.TotalXP)},
		{"Book", v.CurrentBookSlug},
		{"Answers", fmt.Sprintf("%d (%d correct)", v.Attempts, v.Correct)},
		{"Boss exams", fmt.Sprintf("%d (%d passed)", v.BossExams, v.BossExamsPassed)},
	}
	label := lipgloss.NewStyle().Foreground(theme.TextDim).Width(12)

	lines := []string{theme.Title.Render("Stats"), ""}
	for _, r := range rows {
		lines = append(lines, label.Render(r[0])+theme.Body.Render(r[1]))
	}
	lines = append(lines, "",
		components.ProgressBar{Label: "Accuracy", Fraction: v.Accuracy, ShowPercent: true, Width: barWidth}.View(),
	)

	topics := 0.0
	if v.TopicsTotal > 0 {
		topics = float64(v.TopicsCompleted) / float64(v.TopicsTotal)
	}
	lines = append(lines, components.ProgressBar{Label: "Topics  ", Fraction: topics, ShowPercent: true, Width: barWidth}.View())

	if len(v.WeakSpots) > 0 {
		lines = append(lines, "", theme.Subtitle.Render("Weak spots"))
		for _, w := range v.WeakSpots {
			lines = append(lines, theme.Failed.Render(fmt.Sprintf("%2d×", w.WrongCount))+" "+theme.Body.Render(w.Title))
		}
	}
	return theme.Card.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
