package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/x7ian/jstopia/internal/ui/render"
)

var journeyCmd = &cobra.Command{
	Use:   "journey",
	Short: "Show the book, chapter and topic tree for a session",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		token, _ := cmd.Flags().GetString("session")
		books, err := d.eng.Journey(cmd.Context(), token)
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(cmd, books)
		}
		fmt.Fprint(cmd.OutOrStdout(), render.Journey(books))
		return nil
	},
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	sessionFlag(journeyCmd)
	journeyCmd.Flags().Bool("json", false, "Print JSON instead of the styled tree")
}
