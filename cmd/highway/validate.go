package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/speedy-highway/internal/progress"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a progress record against its schema",
	Long: `Print every schema violation of a progress record. Exits non-zero
when the record is invalid.

Examples:
  highway validate
  highway validate ./game_data.json`,
	Args: cobra.MaximumNArgs(1),
	Run:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) {
	_, raw := readRecord(args)
	violations := progress.Validate(raw)
	printViolations(cmd.OutOrStdout(), violations)
	if len(violations) > 0 {
		os.Exit(1)
	}
}
