package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Env holds runtime paths and switches read from the environment. Command
// line flags take precedence over these values.
type Env struct {
	DataPath   string `env:"HIGHWAY_DATA_PATH" envDefault:"~/.highway/game_data.json"`
	RunsDB     string `env:"HIGHWAY_RUNS_DB" envDefault:"~/.highway/runs.db"`
	ConfigPath string `env:"HIGHWAY_CONFIG"`
	LogLevel   string `env:"HIGHWAY_LOG_LEVEL" envDefault:"info"`
	LogFile    string `env:"HIGHWAY_LOG_FILE" envDefault:"~/.highway/highway.log"`
}

// LoadEnv parses the environment into Env.
func LoadEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("config: parse env: %w", err)
	}
	return e, nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: cannot determine home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
