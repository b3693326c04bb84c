package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/speedy-highway/internal/storage"
)

var (
	flagRunsLimit      int
	flagRunsTop        bool
	flagRunsDifficulty int
	flagRunsClear      bool
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded runs",
	Long: `List races recorded in the run ledger. Every run keeps its seed and
input trace so it can be re-simulated with 'highway replay <id>'.

Examples:
  highway runs
  highway runs --top --difficulty 3
  highway runs --clear`,
	Args: cobra.NoArgs,
	Run:  runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 20, "Number of runs to show")
	runsCmd.Flags().BoolVar(&flagRunsTop, "top", false, "Order by score instead of date")
	runsCmd.Flags().IntVar(&flagRunsDifficulty, "difficulty", -1, "Only runs at this difficulty index (with --top)")
	runsCmd.Flags().BoolVar(&flagRunsClear, "clear", false, "Delete every recorded run")
}

func runRuns(cmd *cobra.Command, _ []string) {
	store, err := storage.Open(env.RunsDB)
	if err != nil {
		fatalf("opening run ledger: %v", err)
	}
	defer store.Close()
	w := cmd.OutOrStdout()

	if flagRunsClear {
		if err := store.ClearRuns(); err != nil {
			fatalf("clearing runs: %v", err)
		}
		fmt.Fprintln(w, "All runs deleted.")
		return
	}

	var runs []storage.Run
	if flagRunsTop {
		runs, err = store.TopRuns(flagRunsDifficulty, flagRunsLimit)
	} else {
		runs, err = store.RecentRuns(flagRunsLimit)
	}
	if err != nil {
		fatalf("retrieving runs: %v", err)
	}

	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded yet.")
		return
	}

	names := loadConfig().DifficultyNames()
	fmt.Fprintf(w, "  %-5s  %-8s  %-8s  %-7s  %-12s  %-16s  %s\n", "ID", "Score", "Level", "Ticks", "Seed", "Cause", "Date")
	for _, r := range runs {
		level := fmt.Sprintf("%d", r.Difficulty)
		if r.Difficulty >= 0 && r.Difficulty < len(names) {
			level = names[r.Difficulty]
		}
		fmt.Fprintf(w, "  %-5d  %-8d  %-8s  %-7d  %-12d  %-16s  %s\n",
			r.ID, r.Score, level, r.Ticks, r.Seed, r.Cause, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	if stats, err := store.Stats(); err == nil && stats.Runs > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%d runs, best %d, average %.1f\n", stats.Runs, stats.HighScore, stats.AvgScore)
	}
}
