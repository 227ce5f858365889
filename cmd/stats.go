package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/x7ian/jstopia/internal/ui/render"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics for a session",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		token, _ := cmd.Flags().GetString("session")
		view, err := d.eng.Stats(cmd.Context(), token)
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(cmd, view)
		}
		fmt.Fprintln(cmd.OutOrStdout(), render.Stats(view))
		return nil
	},
}

func init() {
	sessionFlag(statsCmd)
	statsCmd.Flags().Bool("json", false, "Print JSON instead of the summary card")
}
