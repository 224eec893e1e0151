package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wanjiru/soma/internal/questionbank"
)

var quizCmd = &cobra.Command{
	Use:   "quiz [subject]",
	Short: "Jump straight into a quiz",
	Long: "Start a quiz for the given subject without going through the menu.\n" +
		"Subjects: " + subjectList(),
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return runApp(cmd, "", "")
		}
		subject, err := questionbank.ParseSubject(args[0])
		if err != nil {
			return fmt.Errorf("%w (choose from: %s)", err, subjectList())
		}
		return runApp(cmd, subject, "")
	},
}

func subjectList() string {
	names := make([]string, 0, len(questionbank.Subjects()))
	for _, s := range questionbank.Subjects() {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}
