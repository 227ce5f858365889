package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jstopia",
	Short: "Gamified JavaScript learning engine",
	Long: "jstopia serves the JavaScriptopia progression engine: topic quizzes with an unlock cascade,\n" +
		"micro-practice streaks, ranks and boss exams.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Database DSN or SQLite file path (overrides JSTOPIA_DB)")
	pf.String("driver", "", "Database driver: sqlite or postgres (overrides JSTOPIA_DB_DRIVER)")
	pf.String("catalog", "", "Catalog YAML file; the built-in catalog when empty (overrides JSTOPIA_CATALOG)")
	pf.String("log-level", "", "Log level: debug, info, warn, error (overrides JSTOPIA_LOG_LEVEL)")
	pf.String("log-format", "", "Log format: console or json (overrides JSTOPIA_LOG_FORMAT)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(journeyCmd)
	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(versionCmd)
}
