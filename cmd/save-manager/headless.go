package main

import (
	"fmt"
	"path"

	"go.uber.org/zap"

	"github.com/QuantumPixelator/conan-exiles-save-manager/internal/config"
	"github.com/QuantumPixelator/conan-exiles-save-manager/internal/mirror"
	"github.com/QuantumPixelator/conan-exiles-save-manager/internal/savedata"
	"github.com/QuantumPixelator/conan-exiles-save-manager/internal/syncengine"
	"github.com/QuantumPixelator/conan-exiles-save-manager/internal/tui/shared"
	apperrors "github.com/QuantumPixelator/conan-exiles-save-manager/pkg/errors"
)

// runHeadless dispatches the scriptable, non-interactive operations.
func runHeadless(
	cfg *config.Config,
	store *savedata.Store,
	allowlist *config.Allowlist,
	logger *zap.SugaredLogger,
) error {
	switch {
	case cfg.List:
		return listSlots(store)
	case cfg.Backup != "":
		return backupSlot(cfg, store, allowlist, logger)
	case cfg.Restore != "":
		return restoreSlot(cfg, store, allowlist, logger)
	case cfg.Delete != "":
		return store.Delete(cfg.Delete)
	case cfg.Mirror != "":
		return mirrorSlot(cfg, store, logger)
	}

	return nil
}

func listSlots(store *savedata.Store) error {
	slots, err := store.List()
	if err != nil {
		return err
	}

	if len(slots) == 0 {
		fmt.Println("No save slots.")
		return nil
	}

	for _, slot := range slots {
		fmt.Printf("%-24s  %s  %10s  %s\n",
			slot.Name, shared.FormatDate(slot.ModTime), shared.FormatMB(slot.SizeBytes), slot.Mode)
	}

	return nil
}

func backupSlot(
	cfg *config.Config,
	store *savedata.Store,
	allowlist *config.Allowlist,
	logger *zap.SugaredLogger,
) error {
	if err := requireGameDir(cfg); err != nil {
		return err
	}

	if allowlist.Len() == 0 {
		return fmt.Errorf("no paths selected; open the Configuration tab and save a selection first")
	}

	dir, err := store.Create(cfg.Backup)
	if err != nil {
		return err
	}

	if err := store.SetMode(cfg.Backup, cfg.Mode); err != nil {
		logger.Warnf("failed to write metadata for %s: %v", cfg.Backup, err)
	}

	if err := runCopy(cfg.GameDir, dir, allowlist, logger); err != nil {
		return err
	}

	fmt.Printf("Backed up to %s.\n", cfg.Backup)

	return nil
}

func restoreSlot(
	cfg *config.Config,
	store *savedata.Store,
	allowlist *config.Allowlist,
	logger *zap.SugaredLogger,
) error {
	if err := requireGameDir(cfg); err != nil {
		return err
	}

	if allowlist.Len() == 0 {
		return fmt.Errorf("no paths selected; open the Configuration tab and save a selection first")
	}

	if !store.Exists(cfg.Restore) {
		return fmt.Errorf("no such save slot: %s", cfg.Restore)
	}

	if err := runCopy(store.Dir(cfg.Restore), cfg.GameDir, allowlist, logger); err != nil {
		return err
	}

	fmt.Printf("Loaded %s.\n", cfg.Restore)

	return nil
}

func mirrorSlot(cfg *config.Config, store *savedata.Store, logger *zap.SugaredLogger) error {
	if !store.Exists(cfg.Slot) {
		return fmt.Errorf("no such save slot: %s", cfg.Slot)
	}

	target, err := mirror.ParseTarget(cfg.Mirror)
	if err != nil {
		return err
	}

	conn, err := mirror.Connect(target)
	if err != nil {
		return err
	}

	defer func() {
		_ = conn.Close()
	}()

	count, err := conn.UploadDir(store.Dir(cfg.Slot), path.Join(target.Path, cfg.Slot), logger)
	if err != nil {
		return err
	}

	fmt.Printf("Mirrored %s: %d files uploaded.\n", cfg.Slot, count)

	return nil
}

// runCopy runs the engine synchronously, enriching a failure with
// suggestions for the terminal.
func runCopy(sourceRoot, destRoot string, allowlist *config.Allowlist, logger *zap.SugaredLogger) error {
	engine := syncengine.New(sourceRoot, destRoot, allowlist.Paths(), logger)

	if err := engine.Run(); err != nil {
		return apperrors.NewEnricher().Enrich(err, "")
	}

	return nil
}

func requireGameDir(cfg *config.Config) error {
	if cfg.GameDir == "" {
		return fmt.Errorf("could not locate the game's save directory; pass --game-dir")
	}

	return nil
}
