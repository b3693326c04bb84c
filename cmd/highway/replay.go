package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/speedy-highway/internal/race"
	"github.com/vovakirdan/speedy-highway/internal/storage"
)

var replayCmd = &cobra.Command{
	Use:   "replay <id>",
	Short: "Re-simulate a recorded run",
	Long: `Re-run a recorded race headlessly from its seed, lane draws and input
trace, then compare the result with what was recorded. Exits non-zero when
the replay diverges.

Examples:
  highway replay 12`,
	Args: cobra.ExactArgs(1),
	Run:  runReplay,
}

func runReplay(cmd *cobra.Command, args []string) {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fatalf("invalid run id %q", args[0])
	}

	store, err := storage.Open(env.RunsDB)
	if err != nil {
		fatalf("opening run ledger: %v", err)
	}
	defer store.Close()

	run, err := store.RunByID(id)
	if err != nil {
		fatalf("loading run %d: %v", id, err)
	}
	if run == nil {
		fatalf("run %d not found", id)
	}

	cfg := loadConfig()
	w := cmd.OutOrStdout()
	sess, err := race.Replay(cfg, run.Difficulty, run.Seed, run.Replay.Draws, run.Replay.Trace, run.Ticks)
	fmt.Fprintf(w, "Run #%d  seed %d  %s\n", run.ID, run.Seed, cfg.DifficultyAt(run.Difficulty).Name)
	fmt.Fprintf(w, "  recorded: score %d, %d ticks, %s\n", run.Score, run.Ticks, run.Cause)
	fmt.Fprintf(w, "  replayed: score %d, %d ticks, %s\n", sess.TotalScore, sess.Tick, sess.Cause)
	if err != nil {
		fatalf("%v", err)
	}
	if sess.TotalScore != run.Score || sess.Tick != run.Ticks || sess.Cause.String() != run.Cause {
		fmt.Fprintln(w, "MISMATCH")
		os.Exit(1)
	}
	fmt.Fprintln(w, "OK")
}
