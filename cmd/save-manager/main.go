// Package main is the entry point for the save-manager application.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term" //nolint:depguard // Required for TTY detection

	"github.com/QuantumPixelator/conan-exiles-save-manager/internal/applog"
	"github.com/QuantumPixelator/conan-exiles-save-manager/internal/config"
	"github.com/QuantumPixelator/conan-exiles-save-manager/internal/savedata"
	"github.com/QuantumPixelator/conan-exiles-save-manager/internal/steam"
	"github.com/QuantumPixelator/conan-exiles-save-manager/internal/tui"
	apperrors "github.com/QuantumPixelator/conan-exiles-save-manager/pkg/errors"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		if suggestions := apperrors.FormatSuggestions(err); suggestions != "" {
			fmt.Fprintln(os.Stderr, suggestions)
		}

		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.ParseFlags()
	if err != nil {
		return err
	}

	logger, closeLog, err := applog.Open(cfg.LogPath())
	if err != nil {
		return err
	}
	defer closeLog()

	logger.Infof("save-manager starting, data dir %s", cfg.DataDir)

	// The game directory comes from the flag, or from Steam discovery.
	// Listing, deleting, and mirroring slots work without one.
	if cfg.GameDir == "" {
		if dir, found := steam.FindGameSaveDir(logger); found {
			cfg.GameDir = dir
		}
	}

	store, err := savedata.NewStore(cfg.SlotsDir(), logger)
	if err != nil {
		return err
	}

	allowlist := config.LoadAllowlist(cfg.AllowlistPath(), logger)

	if !cfg.InteractiveMode {
		return runHeadless(cfg, store, allowlist, logger)
	}

	if cfg.GameDir == "" {
		return fmt.Errorf("could not locate the game's save directory; pass --game-dir")
	}

	model := tui.NewAppModel(cfg, store, allowlist, logger)

	// Only use alt screen if stdout is a TTY
	var opts []tea.ProgramOption
	if term.IsTerminal(int(os.Stdout.Fd())) {
		opts = append(opts, tea.WithAltScreen())
	}

	program := tea.NewProgram(model, opts...)

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run UI: %w", err)
	}

	return nil
}
