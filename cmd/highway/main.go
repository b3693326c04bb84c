// highway is a lane-dodge racing game for the terminal.
//
// Usage:
//
//	highway play             - Play the game (default)
//	highway scores           - Show the high-score table
//	highway stats [file]     - Summarize a progress record
//	highway validate [file]  - Check a progress record against its schema
//	highway runs             - List recorded runs
//	highway replay <id>      - Re-simulate a recorded run
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 60)
//	--seed <value>      - Fix the entropy seed for every race (unset: new seed per race)
//	--data <path>       - Progress record (default: ~/.highway/game_data.json)
//	--runs-db <path>    - Run ledger database (default: ~/.highway/runs.db)
//	--config <path>     - Custom highway.yaml
//	--log-level <level> - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/speedy-highway/internal/config"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDataPath string
	flagRunsDB   string
	flagConfig   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "highway",
	Short: "Speedy Highway - dodge traffic in your terminal",
	Long: `Speedy Highway is a four-lane dodge racer. Steer around oncoming
cars, collect near misses, unlock cars and complete the daily challenge.

Available commands:
  play      - Play the game
  scores    - View high scores
  stats     - Summarize and export a progress record
  validate  - Check a progress record
  runs      - List recorded runs
  replay    - Re-simulate a recorded run

Examples:
  highway
  highway play --seed 42
  highway stats --csv scores.csv
  highway replay 12`,
	PersistentPreRunE: applyEnv,
	Run:               runPlay,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "Fix the entropy seed for every race, 0 included (default: a new seed per race)")
	rootCmd.PersistentFlags().StringVar(&flagDataPath, "data", "", "Path to progress record (env HIGHWAY_DATA_PATH)")
	rootCmd.PersistentFlags().StringVar(&flagRunsDB, "runs-db", "", "Path to run ledger database (env HIGHWAY_RUNS_DB)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom highway.yaml (env HIGHWAY_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (env HIGHWAY_LOG_LEVEL)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(replayCmd)
}

// env holds the environment after flags were applied over it.
var env config.Env

// applyEnv reads the environment and lets explicitly set flags win.
func applyEnv(cmd *cobra.Command, _ []string) error {
	e, err := config.LoadEnv()
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("data") {
		e.DataPath = flagDataPath
	}
	if flags.Changed("runs-db") {
		e.RunsDB = flagRunsDB
	}
	if flags.Changed("config") {
		e.ConfigPath = flagConfig
	}
	if flags.Changed("log-level") {
		e.LogLevel = flagLogLevel
	}
	if e.DataPath, err = config.ExpandHome(e.DataPath); err != nil {
		return err
	}
	if e.RunsDB, err = config.ExpandHome(e.RunsDB); err != nil {
		return err
	}
	if e.LogFile, err = config.ExpandHome(e.LogFile); err != nil {
		return err
	}
	env = e
	return nil
}
