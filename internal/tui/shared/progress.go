package shared

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
)

// NewProgressModel creates a new progress bar model with the specified width.
// This is a helper function for creating progress bars with consistent styling.
func NewProgressModel(width int) progress.Model {
	progressBar := progress.New(progress.WithDefaultGradient())
	progressBar.Width = width
	progressBar.ShowPercentage = false // We render percentage ourselves

	if !colorsDisabled {
		progressBar.EmptyColor = dimColorCode
		progressBar.FullColor = accentColorCode
	}

	return progressBar
}

// RenderProgress renders progress using either bubbles' styled bar or an
// ASCII fallback when colors are disabled.
func RenderProgress(model progress.Model, percent float64) string {
	if colorsDisabled {
		return renderASCIIProgress(percent, model.Width)
	}

	return model.ViewAs(percent)
}

// renderASCIIProgress renders "[=====>     ] 45%" for percent in [0, 1].
func renderASCIIProgress(percent float64, width int) string {
	pct := int(percent * 100) //nolint:mnd // percentage scale
	filled := int(percent * float64(width))

	var bar strings.Builder

	bar.WriteString("[")

	switch {
	case filled >= width:
		bar.WriteString(strings.Repeat("=", width))
	case percent > 0:
		equalsCount := max(0, filled-1)
		bar.WriteString(strings.Repeat("=", equalsCount))
		bar.WriteString(">")
		bar.WriteString(strings.Repeat(" ", width-equalsCount-1))
	default:
		bar.WriteString(strings.Repeat(" ", width))
	}

	bar.WriteString("]")

	return fmt.Sprintf("%s %d%%", bar.String(), pct)
}
