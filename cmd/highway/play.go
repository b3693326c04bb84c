package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/speedy-highway/internal/challenge"
	"github.com/vovakirdan/speedy-highway/internal/core"
	"github.com/vovakirdan/speedy-highway/internal/entropy"
	"github.com/vovakirdan/speedy-highway/internal/game"
	"github.com/vovakirdan/speedy-highway/internal/platform/tui"
	"github.com/vovakirdan/speedy-highway/internal/storage"
)

var flagWindowed bool

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the game",
	Long: `Start Speedy Highway in the terminal.

Controls:
  Left/Right (A/D)  - Change lane (hold to keep moving)
  P/Esc             - Pause / resume
  Enter             - Start / confirm
  S                 - High scores
  T                 - Achievements
  C                 - Car selection
  D                 - Cycle difficulty
  E                 - Enter a seed
  Q/Ctrl+C          - Quit

Examples:
  highway play
  highway play --seed 42
  highway play --config ./my-highway.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagWindowed, "windowed", false, "Render inline instead of the alternate screen")
}

func runPlay(cmd *cobra.Command, _ []string) {
	logger, closer := openLogger()
	defer closer.Close()

	cfg := loadConfig()
	store := loadStore(cfg, logger)

	// The ledger is optional; the game runs without replays.
	var ledger game.Ledger
	runs, err := storage.Open(env.RunsDB)
	if err != nil {
		logger.Warn("could not open run ledger", "error", err)
	} else {
		defer runs.Close()
		ledger = runs
	}

	seed := fixedSeed(cmd)

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}
	rc := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
	}
	if rc.TickRate <= 0 {
		rc.TickRate = core.DefaultConfig().TickRate
	}

	machine := game.NewMachine(game.Options{
		Config:     cfg,
		Store:      store,
		Source:     entropy.New(0),
		Clock:      challenge.RealClock{},
		Ledger:     ledger,
		Logger:     logger,
		Fullscreen: !flagWindowed,
		Seed:       seed,
	})

	logger.Info("starting", "data", env.DataPath, "runs", env.RunsDB, "fps", rc.TickRate)
	if err := tui.Run(machine, rc, logger); err != nil {
		fatalf("%v", err)
	}
}

// fixedSeed returns the --seed value when the flag was given. Any value,
// zero included, fixes the seed; without the flag every race draws a new one.
func fixedSeed(cmd *cobra.Command) *int64 {
	if !cmd.Flags().Changed("seed") {
		return nil
	}
	v := flagSeed
	return &v
}
