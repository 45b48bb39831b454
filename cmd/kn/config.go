package main

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// CLIConfig holds client defaults read from ~/.config/knotes/config.toml.
// Flags and environment variables take precedence.
type CLIConfig struct {
	Server string `toml:"server"`
	Token  string `toml:"token,omitempty"`
}

func cliConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "knotes", "config.toml"), nil
}

func loadCLIConfig() (CLIConfig, error) {
	path, err := cliConfigPath()
	if err != nil {
		return CLIConfig{}, err
	}
	var cfg CLIConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return CLIConfig{}, nil
		}
		return CLIConfig{}, err
	}
	return cfg, nil
}
