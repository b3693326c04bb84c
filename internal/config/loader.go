package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const highwayFile = "highway.yaml"

// LoadHighway loads the simulation tunables.
// Search order: customPath -> ~/.highway/configs/highway.yaml -> ./configs/highway.yaml -> embedded default
//
// A custom path that cannot be read or parsed is an error. Other sources are
// skipped silently when missing or malformed.
func LoadHighway(customPath string) (HighwayConfig, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return HighwayConfig{}, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		cfg, err := parseHighway(data)
		if err != nil {
			return HighwayConfig{}, fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(highwayFile); userCfgPath != "" {
		if cfg, ok := tryLoad(userCfgPath); ok {
			return cfg, nil
		}
	}

	// Try local configs directory
	if cfg, ok := tryLoad(filepath.Join("configs", highwayFile)); ok {
		return cfg, nil
	}

	// Use embedded default YAML
	cfg, err := parseHighway(defaultHighwayYAML)
	if err != nil {
		return DefaultHighwayConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

func tryLoad(path string) (HighwayConfig, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return HighwayConfig{}, false
	}
	cfg, err := parseHighway(data)
	if err != nil {
		return HighwayConfig{}, false
	}
	return cfg, true
}

// parseHighway decodes YAML on top of the hardcoded defaults so partial
// override files only need the keys they change.
func parseHighway(data []byte) (HighwayConfig, error) {
	cfg := DefaultHighwayConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return HighwayConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return HighwayConfig{}, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".highway", "configs", filename)
}
