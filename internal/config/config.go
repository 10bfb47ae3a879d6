// Package config handles loading the defaults file and resolving the validated,
// immutable configuration for one sweep.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/bral/git-sweep-remote/internal/types"
)

const (
	defaultConfigDir  = "git-sweep-remote"
	defaultConfigFile = "config.toml"

	DefaultDays            = 91
	DefaultProtectedBranch = "main"
	DefaultRemote          = "origin"
	DefaultMergeFilter     = types.MergeFilterMerged
)

// FileConfig holds the settings read from the TOML defaults file.
// Tags correspond to the keys in the file; absent keys keep their defaults.
type FileConfig struct {
	Days            int    `toml:"days"`
	MergeFilter     string `toml:"merge_filter"`
	ProtectedBranch string `toml:"protected_branch"`
	Remote          string `toml:"remote"`
}

// DefaultFileConfig returns the built-in defaults.
func DefaultFileConfig() FileConfig {
	return FileConfig{
		Days:            DefaultDays,
		MergeFilter:     string(DefaultMergeFilter),
		ProtectedBranch: DefaultProtectedBranch,
		Remote:          DefaultRemote,
	}
}

// DefaultPath returns the location of the defaults file under the user config directory.
func DefaultPath() (string, error) {
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userConfigDir, defaultConfigDir, defaultConfigFile), nil
}

// LoadFile loads the defaults file from customPath, or from DefaultPath when customPath is empty.
// When no file exists it returns the built-in defaults together with ErrConfigNotFound.
func LoadFile(customPath string) (FileConfig, error) {
	cfg := DefaultFileConfig()

	configPath := customPath
	if configPath == "" {
		defaultPath, err := DefaultPath()
		if err != nil {
			// Cannot determine user config dir, so there is nothing to load.
			return cfg, ErrConfigNotFound
		}
		configPath = defaultPath
	}

	if _, err := os.Stat(configPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, ErrConfigNotFound
		}
		return cfg, fmt.Errorf("error checking config path %q: %w", configPath, err)
	}

	if _, err := toml.DecodeFile(configPath, &cfg); err != nil {
		return DefaultFileConfig(), fmt.Errorf("%w %q: %v", ErrConfigDecode, configPath, err)
	}

	return cfg, nil
}
