package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/speedy-highway/internal/config"
	"github.com/vovakirdan/speedy-highway/internal/progress"
)

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// openLogger logs to the log file; the terminal belongs to the UI. The
// returned closer is never nil.
func openLogger() (*log.Logger, io.Closer) {
	level, err := log.ParseLevel(env.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}

	var w io.Writer = io.Discard
	var closer io.Closer = io.NopCloser(nil)
	if env.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(env.LogFile), 0o755); err == nil {
			if f, err := os.OpenFile(env.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
				w, closer = f, f
			}
		}
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "highway",
		Level:           level,
	})
	return logger, closer
}

func loadConfig() config.HighwayConfig {
	cfg, err := config.LoadHighway(env.ConfigPath)
	if err != nil {
		fatalf("%v", err)
	}
	return cfg
}

// loadStore opens the progress record. Problems with the file are reported
// and the defaults are used.
func loadStore(cfg config.HighwayConfig, logger *log.Logger) *progress.Store {
	store := progress.NewStore(env.DataPath, cfg, progress.WithLogger(logger))
	violations, err := store.Load()
	if err != nil {
		logger.Warn("using default progress", "path", env.DataPath, "error", err)
		for _, v := range violations {
			logger.Warn("schema violation", "detail", v)
		}
	}
	return store
}

// readRecord returns the raw record at the argument path or the configured one.
func readRecord(args []string) (string, []byte) {
	path := env.DataPath
	if len(args) > 0 {
		path = args[0]
	}
	data, err := os.ReadFile(path)
	if err != nil {
		fatalf("cannot read %s: %v", path, err)
	}
	return path, data
}
