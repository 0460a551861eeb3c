package steam

import (
	"go.uber.org/zap"
	"golang.org/x/sys/windows/registry"
)

// findSteamRoot reads the Steam install path from the Windows registry.
func findSteamRoot(logger *zap.SugaredLogger) (string, bool) {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE, `SOFTWARE\WOW6432Node\Valve\Steam`, registry.QUERY_VALUE)
	if err != nil {
		logger.Errorf("steam path detection error: %v", err)
		return "", false
	}

	defer func() {
		_ = key.Close()
	}()

	value, _, err := key.GetStringValue("SteamPath")
	if err != nil {
		logger.Errorf("steam path detection error: %v", err)
		return "", false
	}

	logger.Infof("steam path found: %s", value)

	return value, true
}
