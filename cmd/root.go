package cmd

import (
	"github.com/spf13/cobra"

	"github.com/wanjiru/soma/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "soma",
	Short: "Offline KCSE study companion",
	Long:  "Soma — a terminal study aid with quizzes, notes and progress tracking that works fully offline.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, "", "")
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides SOMA_DB env var)")
	rootCmd.PersistentFlags().Bool("verbose", false, "Write debug logs next to the database file")

	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(notesCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then SOMA_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
