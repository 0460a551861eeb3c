//go:build !linux && !windows

package steam

import "go.uber.org/zap"

func findSteamRoot(_ *zap.SugaredLogger) (string, bool) {
	return "", false
}
