package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/x7ian/jstopia/internal/ui/render"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Show a session's rank and progress toward the next one",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		token, _ := cmd.Flags().GetString("session")
		book, _ := cmd.Flags().GetString("book")
		view, err := d.eng.Rank(cmd.Context(), token, book)
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(cmd, view)
		}
		fmt.Fprintln(cmd.OutOrStdout(), render.Rank(view))
		return nil
	},
}

func init() {
	sessionFlag(rankCmd)
	rankCmd.Flags().String("book", "", "Book slug; the first book when empty")
	rankCmd.Flags().Bool("json", false, "Print JSON instead of the rank card")
}
