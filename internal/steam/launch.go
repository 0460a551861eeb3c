package steam

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"go.uber.org/zap"
)

// Launcher starts Conan Exiles through the Steam client and waits for the
// game process to finish.
type Launcher struct {
	logger *zap.SugaredLogger
}

// NewLauncher creates a Launcher.
func NewLauncher(logger *zap.SugaredLogger) *Launcher {
	return &Launcher{logger: logger}
}

// LaunchAndWait asks Steam to run the game and blocks until the launched
// process terminates. The game's exit status carries no meaning here, so a
// non-zero exit is not treated as an error.
func (l *Launcher) LaunchAndWait(ctx context.Context) error {
	l.logger.Infof("launching game via steam (app %s)", ConanAppID)

	cmd := exec.CommandContext(ctx, "steam", "steam://rungameid/"+ConanAppID)

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			l.logger.Warnf("game process exited with status %d", exitErr.ExitCode())
			return nil
		}

		return fmt.Errorf("failed to launch game: %w", err)
	}

	l.logger.Infof("game process finished")

	return nil
}
