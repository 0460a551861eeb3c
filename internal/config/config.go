// Package config handles command-line argument parsing and the persisted
// backup selection (allowlist).
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexflint/go-arg"
)

// Config holds the application configuration.
type Config struct {
	GameDir string   `arg:"-g,--game-dir" help:"Game save-data directory (overrides Steam auto-detection)"`
	DataDir string   `arg:"--data-dir" help:"Directory holding save slots, config, and logs (default: alongside the executable)"`
	Exclude []string `arg:"--exclude,separate" help:"Glob pattern hidden from the selection tree (repeatable)"`

	// Headless operations; when none is given the interactive TUI runs.
	List    bool   `arg:"-l,--list" help:"List save slots and exit"`
	Backup  string `arg:"-b,--backup" placeholder:"NAME" help:"Back up the current save into a new slot and exit"`
	Restore string `arg:"-r,--restore" placeholder:"NAME" help:"Load the named slot into the game directory and exit"`
	Delete  string `arg:"--delete" placeholder:"NAME" help:"Delete the named slot and exit"`
	Mode    string `arg:"--mode" default:"Unknown" help:"Play mode recorded with --backup (Solo Play|Online Play)"`
	Mirror  string `arg:"--mirror" placeholder:"URL" help:"Mirror a slot to an SFTP URL (sftp://user@host[:port]/path) and exit"`
	Slot    string `arg:"--slot" placeholder:"NAME" help:"Slot name to mirror with --mirror"`

	InteractiveMode bool `arg:"-"`
}

// Description returns the program description for go-arg.
func (Config) Description() string {
	return "Manage selective backups of Conan Exiles save data"
}

// Version returns the version string for go-arg.
func (Config) Version() string {
	return "save-manager 1.0.0"
}

// SlotsDir returns the directory holding save slots.
func (cfg *Config) SlotsDir() string {
	return filepath.Join(cfg.DataDir, "saved")
}

// AllowlistPath returns the path of the persisted selection file.
func (cfg *Config) AllowlistPath() string {
	return filepath.Join(cfg.DataDir, "config.json")
}

// LogPath returns the path of the application event log.
func (cfg *Config) LogPath() string {
	return filepath.Join(cfg.DataDir, "logs", "app.log")
}

// ParseFlags parses command-line flags and returns configuration.
func ParseFlags() (*Config, error) {
	cfg := &Config{}

	arg.MustParse(cfg)

	return PostProcessConfig(cfg)
}

// PostProcessConfig applies post-processing logic to a parsed config.
func PostProcessConfig(cfg *Config) (*Config, error) {
	// Interactive unless a headless operation was requested
	cfg.InteractiveMode = !cfg.List &&
		cfg.Backup == "" && cfg.Restore == "" && cfg.Delete == "" && cfg.Mirror == ""

	if cfg.Mirror != "" && cfg.Slot == "" {
		return nil, fmt.Errorf("--mirror requires --slot")
	}

	if cfg.DataDir == "" {
		cfg.DataDir = defaultDataDir()
	}

	if cfg.GameDir != "" {
		if err := validateDir(cfg.GameDir, "game directory"); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// validateDir checks that path exists and is a directory.
func validateDir(path, label string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("%s does not exist: %s", label, path)
	}

	if err != nil {
		return fmt.Errorf("cannot access %s: %w", label, err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory: %s", label, path)
	}

	return nil
}

// defaultDataDir places slots, config, and logs alongside the executable,
// falling back to the working directory.
func defaultDataDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}

	return filepath.Dir(exe)
}
