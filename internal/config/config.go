package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/hwcompat/hwcompat/internal/compatdb"
	"github.com/hwcompat/hwcompat/internal/exceptions"
)

type Config struct {
	// Paths to the deprecation and exception databases
	CompatDB     string `yaml:"compat_db,omitempty"`
	ExceptionsDB string `yaml:"exceptions_db,omitempty"`

	// Module index root passed to modprobe; empty uses the running system
	KmodIndexDir string `yaml:"kmod_index_dir,omitempty"`

	// OS major version the upgrade targets
	TargetVersion int `yaml:"target_version,omitempty"`

	// Audit run history database location
	HistoryDB string `yaml:"history_db,omitempty"`
}

// defaultConfig provides baseline settings
var defaultConfig = Config{
	CompatDB:      compatdb.DefaultPath,
	ExceptionsDB:  exceptions.DefaultPath,
	TargetVersion: 9,
}

func Load(path string) (*Config, error) {
	if path == "" {
		// Try default locations
		candidates := []string{
			"/etc/hwcompat/config.yaml",
			filepath.Join(os.Getenv("HOME"), ".config/hwcompat/config.yaml"),
			"config.yaml",
		}
		for _, c := range candidates {
			if _, err := os.Stat(c); err == nil {
				path = c
				break
			}
		}
	}

	var cfg Config
	if path == "" {
		// No config file found - run on defaults
		cfg = defaultConfig
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			cfg = defaultConfig
		} else {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, err
			}
		}
	}

	// Apply defaults for missing fields
	if cfg.CompatDB == "" {
		cfg.CompatDB = defaultConfig.CompatDB
	}
	if cfg.ExceptionsDB == "" {
		cfg.ExceptionsDB = defaultConfig.ExceptionsDB
	}
	if cfg.TargetVersion == 0 {
		cfg.TargetVersion = defaultConfig.TargetVersion
	}

	return &cfg, nil
}
