package shared

import (
	"fmt"
	"time"
)

// ============================================================================
// Formatting Functions
// These are used by multiple screens for consistent display
// ============================================================================

const bytesPerMB = 1024 * 1024

// FormatMB formats a byte count as megabytes with one decimal, the unit the
// saves table and the selection summary both display.
func FormatMB(bytes int64) string {
	return fmt.Sprintf("%.1f MB", float64(bytes)/bytesPerMB)
}

// FormatDate formats a slot modification time for the saves table.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02 15:04")
}
