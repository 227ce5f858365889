package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session [token]",
	Short: "Start a learner session, or resume an existing token",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		var token string
		if len(args) == 1 {
			token = args[0]
		}
		res, err := d.eng.StartSession(cmd.Context(), token)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.Token)
		return nil
	},
}

// sessionFlag registers the --session flag on a command that reads one
// learner's state.
func sessionFlag(c *cobra.Command) {
	c.Flags().StringP("session", "s", "", "Session token")
	_ = c.MarkFlagRequired("session")
}
