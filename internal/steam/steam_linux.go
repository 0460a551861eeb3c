package steam

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// findSteamRoot probes the usual Steam install locations under the user's
// home directory.
func findSteamRoot(logger *zap.SugaredLogger) (string, bool) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}

	candidates := []string{
		filepath.Join(home, ".steam", "steam"),
		filepath.Join(home, ".steam", "debian-installation"),
		filepath.Join(home, ".local", "share", "Steam"),
	}

	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err == nil && info.IsDir() {
			logger.Infof("steam path found: %s", candidate)
			return candidate, true
		}
	}

	return "", false
}
