// Package config loads the TOML configuration file. Every field has a
// default rooted at ~/.config/mailsift, so a missing file is a valid state.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config captures the options shared by all subcommands.
type Config struct {
	DBPath         string `toml:"db_path"`
	RulesPath      string `toml:"rules_path"`
	CredentialsDir string `toml:"credentials_dir"`
	MaxFetch       int64  `toml:"max_fetch"`
	LogLevel       string `toml:"log_level"`
}

// Default returns the configuration used when no file is present.
func Default() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("determine home directory: %w", err)
	}
	dir := filepath.Join(home, ".config", "mailsift")
	return Config{
		DBPath:         filepath.Join(dir, "mailsift.db"),
		RulesPath:      filepath.Join(dir, "rules.json"),
		CredentialsDir: dir,
		MaxFetch:       10,
		LogLevel:       "info",
	}, nil
}

// DefaultPath is where Load looks when no --config flag is given.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "mailsift", "config.toml"), nil
}

// Load reads the file at path over the defaults. A missing file yields the
// defaults without error; fields absent from the file keep their defaults.
func Load(path string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return Config{}, err
	}
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.MaxFetch <= 0 {
		return Config{}, fmt.Errorf("config %s: max_fetch must be positive", path)
	}
	return cfg, nil
}
