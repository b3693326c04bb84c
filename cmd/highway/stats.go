package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/speedy-highway/internal/analytics"
	"github.com/vovakirdan/speedy-highway/internal/progress"
)

var (
	flagScoresCSV  string
	flagSummaryCSV string
)

var statsCmd = &cobra.Command{
	Use:   "stats [file]",
	Short: "Summarize a progress record",
	Long: `Validate a progress record and print summary statistics. Missing or
malformed fields fall back to their defaults, so partial files still
produce a report.

Examples:
  highway stats
  highway stats ./game_data.json
  highway stats --csv scores.csv --summary-csv summary.csv`,
	Args: cobra.MaximumNArgs(1),
	Run:  runStats,
}

func init() {
	statsCmd.Flags().StringVar(&flagScoresCSV, "csv", "", "Export high scores to this CSV file")
	statsCmd.Flags().StringVar(&flagSummaryCSV, "summary-csv", "", "Export summary metrics to this CSV file")
}

func runStats(cmd *cobra.Command, args []string) {
	path, raw := readRecord(args)
	cfg := loadConfig()
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Loading: %s\n\n", path)
	printViolations(w, progress.Validate(raw))

	s := analytics.Summarize(raw, cfg.DifficultyNames())
	fmt.Fprintln(w, "--- Summary statistics ---")
	fmt.Fprintf(w, "  Games played:          %d\n", s.GamesPlayed)
	fmt.Fprintf(w, "  Total playtime:        %.1f min\n", s.PlaytimeMinutes)
	fmt.Fprintf(w, "  Best streak:           %d\n", s.BestStreak)
	fmt.Fprintf(w, "  Unlocked cars:         %d/%d\n", s.UnlockedCars, len(cfg.Cars))
	fmt.Fprintf(w, "  Achievements:          %d/%d (%.1f%%)\n", s.AchievementsUnlocked, s.AchievementsTotal, s.CompletionPct)
	fmt.Fprintf(w, "  High scores stored:    %d\n", s.HighScores)
	fmt.Fprintf(w, "  Top score:             %d\n", s.TopScore)
	if s.HighScores > 0 {
		fmt.Fprintf(w, "  Mean of stored scores: %.1f\n", s.ScoreMean)
	}
	fmt.Fprint(w, "  Best per difficulty:  ")
	for _, b := range s.BestPerDifficulty {
		fmt.Fprintf(w, " %s=%d", b.Name, b.Score)
	}
	fmt.Fprintln(w)

	if len(s.ByDifficulty) > 0 {
		labels := make([]string, 0, len(s.ByDifficulty))
		for k := range s.ByDifficulty {
			labels = append(labels, k)
		}
		sort.Strings(labels)
		fmt.Fprintln(w, "  Stored scores by difficulty:")
		for _, k := range labels {
			d := s.ByDifficulty[k]
			fmt.Fprintf(w, "    %-8s %d entries, top %d\n", k, d.Count, d.Top)
		}
	}

	if flagScoresCSV != "" {
		writeFile(flagScoresCSV, func(f io.Writer) error { return analytics.WriteScoresCSV(f, raw) })
		fmt.Fprintf(w, "\nHigh scores written to %s\n", flagScoresCSV)
	}
	if flagSummaryCSV != "" {
		writeFile(flagSummaryCSV, func(f io.Writer) error { return analytics.WriteSummaryCSV(f, s) })
		fmt.Fprintf(w, "Summary written to %s\n", flagSummaryCSV)
	}
}

func printViolations(w io.Writer, violations []string) {
	if len(violations) == 0 {
		fmt.Fprintln(w, "Schema validation: OK")
		fmt.Fprintln(w)
		return
	}
	fmt.Fprintln(w, "Schema validation issues:")
	for _, v := range violations {
		fmt.Fprintf(w, "  - %s\n", v)
	}
	fmt.Fprintln(w)
}

func writeFile(path string, write func(io.Writer) error) {
	f, err := os.Create(path)
	if err != nil {
		fatalf("cannot create %s: %v", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		fatalf("cannot write %s: %v", path, err)
	}
	if err := f.Close(); err != nil {
		fatalf("cannot write %s: %v", path, err)
	}
}
