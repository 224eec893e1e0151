package cmd

import (
	"context"
	"fmt"
	"sort"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/wanjiru/soma/internal/progress"
	"github.com/wanjiru/soma/internal/store"
	"github.com/wanjiru/soma/internal/timeutil"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print saved progress without opening the app",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		rec := progress.New(st).Load(context.Background())
		printStats(rec)
		return nil
	},
}

func printStats(rec progress.Record) {
	heading := lipgloss.NewStyle().Bold(true)
	dim := lipgloss.NewStyle().Faint(true)

	fmt.Println(heading.Render("Soma — My Progress"))
	fmt.Println()
	fmt.Printf("  Quizzes taken:     %d\n", rec.QuizzesTaken)
	fmt.Printf("  Total study time:  %s\n", timeutil.FormatDuration(time.Duration(rec.TotalDurationMs)*time.Millisecond))
	fmt.Printf("  Studied today:     %s\n", timeutil.FormatDuration(time.Duration(rec.TodayDurationMs)*time.Millisecond))
	fmt.Printf("  Bookmarked:        %d questions\n", len(rec.Bookmarks))
	fmt.Printf("  Needs review:      %d questions\n", len(rec.Wrong))

	if len(rec.PerSubjectDuration) > 0 {
		fmt.Println()
		fmt.Println(heading.Render("Time per subject"))
		subjects := make([]string, 0, len(rec.PerSubjectDuration))
		for s := range rec.PerSubjectDuration {
			subjects = append(subjects, s)
		}
		sort.Strings(subjects)
		for _, s := range subjects {
			fmt.Printf("  %-18s %s\n", s,
				timeutil.FormatDuration(time.Duration(rec.PerSubjectDuration[s])*time.Millisecond))
		}
	}

	if len(rec.Sessions) > 0 {
		fmt.Println()
		fmt.Println(heading.Render("Recent quizzes"))
		start := len(rec.Sessions) - 5
		if start < 0 {
			start = 0
		}
		for i := len(rec.Sessions) - 1; i >= start; i-- {
			s := rec.Sessions[i]
			date := s.Date
			if t, err := time.Parse(time.RFC3339, s.Date); err == nil {
				date = t.Format("2006-01-02")
			}
			fmt.Printf("  %s  %-18s %d/%d\n", dim.Render(date), s.Subject, s.Score, s.Total)
		}
	}
}
