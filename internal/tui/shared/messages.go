package shared

import (
	"github.com/QuantumPixelator/conan-exiles-save-manager/internal/savedata"
)

// ============================================================================
// Worker Result Messages
// Long-running operations run in tea.Cmd goroutines and report back with
// these; the screens never block on filesystem or process work.
// ============================================================================

// SlotsLoadedMsg carries a fresh slot listing.
type SlotsLoadedMsg struct {
	Slots []savedata.Slot
	Err   error
}

// CopyDoneMsg is sent when a copy worker's run returns without error. It can
// overtake events still buffered in the bridge, so the screen holds it until
// BridgeClosedMsg confirms the event stream is fully processed; the terminal
// status always follows the progress updates.
type CopyDoneMsg struct {
	Title string
}

// CopyFailedMsg is sent when a copy worker's run aborted. Held the same way
// as CopyDoneMsg.
type CopyFailedMsg struct {
	Title string
	Err   error
}

// DeleteDoneMsg is sent when a slot delete worker finishes.
type DeleteDoneMsg struct {
	Name string
	Err  error
}

// LaunchExitedMsg is sent when the launched game process terminates. The
// post-game restore copy starts only after this arrives.
type LaunchExitedMsg struct {
	Slot string
	Err  error
}

// SelectionSavedMsg reports the persisted selection and its on-disk size.
type SelectionSavedMsg struct {
	Count int
	Bytes int64
	Err   error
}
