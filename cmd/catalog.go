package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/x7ian/jstopia/internal/scoring"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the content catalog",
}

var catalogCheckCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Validate a catalog file (the built-in catalog when omitted)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		if len(args) == 1 {
			path = args[0]
		} else {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			path = cfg.CatalogPath
		}

		cat, err := loadCatalog(path)
		if err != nil {
			return err
		}

		chapters, questions := 0, map[scoring.Phase]int{}
		for _, b := range cat.Books() {
			chapters += len(b.Chapters)
			for _, ch := range b.Chapters {
				for _, t := range ch.Topics {
					for _, q := range t.Questions {
						questions[q.Phase]++
					}
				}
			}
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "catalog ok: %s\n", describe(path))
		fmt.Fprintf(out, "  books:     %d\n", len(cat.Books()))
		fmt.Fprintf(out, "  chapters:  %d\n", chapters)
		fmt.Fprintf(out, "  topics:    %d\n", len(cat.TopicSlugs()))
		fmt.Fprintf(out, "  questions: %d micro, %d quiz, %d boss\n",
			questions[scoring.PhaseMicro], questions[scoring.PhaseQuiz], questions[scoring.PhaseBoss])
		fmt.Fprintf(out, "  ranks:     %d\n", cat.Ladder().Len())
		return nil
	},
}

func describe(path string) string {
	if path == "" {
		return "built-in"
	}
	return path
}

func init() {
	catalogCmd.AddCommand(catalogCheckCmd)
}
