package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wanjiru/soma/internal/questionbank"
)

var notesCmd = &cobra.Command{
	Use:   "notes [subject]",
	Short: "Open the study notes for a subject",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return runApp(cmd, "", "")
		}
		subject, err := questionbank.ParseSubject(args[0])
		if err != nil {
			return fmt.Errorf("%w (choose from: %s)", err, subjectList())
		}
		return runApp(cmd, "", subject)
	},
}
