// Package steam locates the Conan Exiles save-data directory inside a Steam
// installation and launches the game through the Steam client.
package steam

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// ConanAppID is the Steam application id for Conan Exiles.
const ConanAppID = "440900"

// FindGameSaveDir returns the game's live save-data directory
// (<steam>/steamapps/common/Conan Exiles/ConanSandbox) if a Steam install
// with the game can be located. When it cannot, the user supplies the
// directory manually via --game-dir.
func FindGameSaveDir(logger *zap.SugaredLogger) (string, bool) {
	root, ok := findSteamRoot(logger)
	if !ok {
		return "", false
	}

	candidate := filepath.Join(root, "steamapps", "common", "Conan Exiles", "ConanSandbox")

	info, err := os.Stat(candidate)
	if err != nil || !info.IsDir() {
		return "", false
	}

	logger.Infof("game path found: %s", candidate)

	return candidate, true
}
