package screens

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/QuantumPixelator/conan-exiles-save-manager/internal/config"
	"github.com/QuantumPixelator/conan-exiles-save-manager/internal/savedata"
	"github.com/QuantumPixelator/conan-exiles-save-manager/internal/steam"
	"github.com/QuantumPixelator/conan-exiles-save-manager/internal/syncengine"
	"github.com/QuantumPixelator/conan-exiles-save-manager/internal/tui/shared"
	apperrors "github.com/QuantumPixelator/conan-exiles-save-manager/pkg/errors"
)

// modalKind identifies which prompt, if any, owns the keyboard.
type modalKind int

const (
	modalNone modalKind = iota
	modalName
	modalMode
	modalConfirmLoad
	modalConfirmDelete
)

// playModes are the choices offered by the mode chooser.
var playModes = []string{savedata.ModeSolo, savedata.ModeOnline} //nolint:gochecknoglobals // fixed chooser options

// SavesScreen is the Saves tab: the slot table and every operation on it
// (backup, load, launch, create, delete, change mode, refresh).
type SavesScreen struct {
	gameDir   string
	store     *savedata.Store
	allowlist *config.Allowlist
	launcher  *steam.Launcher
	logger    *zap.SugaredLogger
	enricher  apperrors.Enricher

	table table.Model
	slots []savedata.Slot

	// At most one worker runs at a time; action keys are ignored while busy.
	busy        bool
	busyTitle   string
	progressBar progress.Model
	percent     float64
	bridge      *shared.EventBridge
	lastResult  *syncengine.Result

	// The run outcome can overtake events still buffered in the bridge, so
	// it is held here until the listen chain reports the bridge drained.
	copyOutcome   tea.Msg
	bridgeDrained bool

	modal       modalKind
	nameInput   textinput.Model
	modeCursor  int
	pendingName string

	status  string
	errText string
	width   int
	height  int
}

// NewSavesScreen creates the saves tab.
func NewSavesScreen(
	gameDir string,
	store *savedata.Store,
	allowlist *config.Allowlist,
	launcher *steam.Launcher,
	logger *zap.SugaredLogger,
) SavesScreen {
	columns := []table.Column{
		{Title: "Name", Width: 24},
		{Title: "Date", Width: 17},
		{Title: "Size", Width: 10},
		{Title: "Mode", Width: 12},
	}

	slotTable := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(slotTableHeight),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(shared.PrimaryColor())
	styles.Selected = styles.Selected.Foreground(shared.HighlightColor()).Bold(true)
	slotTable.SetStyles(styles)

	nameInput := textinput.New()
	nameInput.Placeholder = "save name"
	nameInput.CharLimit = 64

	return SavesScreen{
		gameDir:     gameDir,
		store:       store,
		allowlist:   allowlist,
		launcher:    launcher,
		logger:      logger,
		enricher:    apperrors.NewEnricher(),
		table:       slotTable,
		progressBar: shared.NewProgressModel(shared.ProgressBarWidth),
		nameInput:   nameInput,
	}
}

// Init loads the initial slot listing.
func (s SavesScreen) Init() tea.Cmd {
	return s.loadSlots()
}

// InModal reports whether a prompt currently owns the keyboard. The app
// model uses this to keep tab-switch and quit keys out of text entry.
func (s SavesScreen) InModal() bool {
	return s.modal != modalNone
}

// Busy reports whether a copy, delete, or launch worker is in flight.
func (s SavesScreen) Busy() bool {
	return s.busy
}

// Update handles messages for the saves tab.
//
//nolint:cyclop // message dispatch
func (s SavesScreen) Update(msg tea.Msg) (SavesScreen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height

		return s, nil
	case shared.SlotsLoadedMsg:
		return s.handleSlotsLoaded(msg)
	case shared.EngineEventMsg:
		return s.handleEngineEvent(msg)
	case shared.BridgeClosedMsg:
		s.bridgeDrained = true
		return s.finishCopyIfReady()
	case shared.CopyDoneMsg:
		s.copyOutcome = msg
		return s.finishCopyIfReady()
	case shared.CopyFailedMsg:
		s.copyOutcome = msg
		return s.finishCopyIfReady()
	case shared.DeleteDoneMsg:
		return s.handleDeleteDone(msg)
	case shared.LaunchExitedMsg:
		return s.handleLaunchExited(msg)
	case tea.KeyMsg:
		return s.handleKeyMsg(msg)
	}

	return s, nil
}

// View renders the saves tab.
func (s SavesScreen) View() string {
	if s.modal != modalNone {
		return s.renderModal()
	}

	var builder strings.Builder

	builder.WriteString(shared.RenderTitle("Save Slots"))
	builder.WriteString("\n")
	builder.WriteString(s.table.View())
	builder.WriteString("\n\n")

	current := "None"
	if slot := s.selectedSlot(); slot != nil {
		current = slot.Name
	}

	builder.WriteString(shared.RenderLabel("Current Save: "))
	builder.WriteString(current)
	builder.WriteString("\n")

	if s.busy {
		builder.WriteString("\n")
		builder.WriteString(s.busyTitle)
		builder.WriteString("\n")

		if s.bridge != nil {
			builder.WriteString(shared.RenderProgress(s.progressBar, s.percent))
			builder.WriteString("\n")
		}
	}

	if s.errText != "" {
		builder.WriteString("\n")
		builder.WriteString(shared.RenderError(s.errText))
		builder.WriteString("\n")
	} else if s.status != "" {
		builder.WriteString("\n")
		builder.WriteString(shared.RenderSuccess(s.status))
		builder.WriteString("\n")
	}

	builder.WriteString("\n")
	builder.WriteString(shared.RenderDim(s.helpText()))
	builder.WriteString("\n")

	return builder.String()
}

// ============================================================================
// Key Handling
// ============================================================================

//nolint:cyclop // key dispatch
func (s SavesScreen) handleKeyMsg(msg tea.KeyMsg) (SavesScreen, tea.Cmd) {
	switch s.modal {
	case modalName:
		return s.handleNameModalKey(msg)
	case modalMode:
		return s.handleModeModalKey(msg)
	case modalConfirmLoad, modalConfirmDelete:
		return s.handleConfirmKey(msg)
	case modalNone:
	}

	if s.busy {
		return s, nil
	}

	hasConfig := s.allowlist.Len() > 0
	hasCurrent := s.selectedSlot() != nil

	switch msg.String() {
	case "b", "n":
		// Backup into a new slot; both keys mirror the original's two
		// identically-behaved buttons.
		if !hasConfig {
			s.errText = "Please configure selections first."
			return s, nil
		}

		return s.openNameModal(), nil
	case "l":
		if hasConfig && hasCurrent {
			s.modal = modalConfirmLoad
		}

		return s, nil
	case "g":
		if hasConfig && hasCurrent {
			return s.startLaunch(s.selectedSlot().Name)
		}

		return s, nil
	case "d":
		if hasCurrent {
			s.modal = modalConfirmDelete
		}

		return s, nil
	case "m":
		if hasCurrent {
			s.modal = modalMode
			s.modeCursor = 0
			s.pendingName = ""
		}

		return s, nil
	case "r":
		return s, s.loadSlots()
	}

	var cmd tea.Cmd

	s.table, cmd = s.table.Update(msg)

	return s, cmd
}

func (s SavesScreen) handleNameModalKey(msg tea.KeyMsg) (SavesScreen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.modal = modalNone
		return s, nil
	case "enter":
		name := strings.TrimSpace(s.nameInput.Value())
		if name == "" {
			return s, nil
		}

		if s.store.Exists(name) {
			s.errText = "Save name already exists."
			s.modal = modalNone

			return s, nil
		}

		s.pendingName = name
		s.modal = modalMode
		s.modeCursor = 0

		return s, nil
	}

	var cmd tea.Cmd

	s.nameInput, cmd = s.nameInput.Update(msg)

	return s, cmd
}

func (s SavesScreen) handleModeModalKey(msg tea.KeyMsg) (SavesScreen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.modal = modalNone
		s.pendingName = ""

		return s, nil
	case "up", "k":
		if s.modeCursor > 0 {
			s.modeCursor--
		}

		return s, nil
	case "down", "j":
		if s.modeCursor < len(playModes)-1 {
			s.modeCursor++
		}

		return s, nil
	case "enter":
		mode := playModes[s.modeCursor]
		s.modal = modalNone

		if s.pendingName != "" {
			return s.startBackup(s.pendingName, mode)
		}

		return s.changeMode(mode)
	}

	return s, nil
}

func (s SavesScreen) handleConfirmKey(msg tea.KeyMsg) (SavesScreen, tea.Cmd) {
	kind := s.modal

	switch msg.String() {
	case "y", "Y":
		s.modal = modalNone

		slot := s.selectedSlot()
		if slot == nil {
			return s, nil
		}

		if kind == modalConfirmLoad {
			return s.startCopy(
				s.store.Dir(slot.Name), s.gameDir,
				fmt.Sprintf("Loading %s...", slot.Name),
			)
		}

		return s.startDelete(slot.Name)
	case "n", "N", "esc":
		s.modal = modalNone
		return s, nil
	}

	return s, nil
}

// ============================================================================
// Operations
// ============================================================================

func (s SavesScreen) openNameModal() SavesScreen {
	s.modal = modalName
	s.errText = ""
	s.nameInput.SetValue("")
	s.nameInput.Focus()

	return s
}

// startBackup creates the slot, tags its play mode, and kicks off the copy
// from the game directory. A metadata write failure is logged, not fatal.
func (s SavesScreen) startBackup(name, mode string) (SavesScreen, tea.Cmd) {
	s.pendingName = ""

	dir, err := s.store.Create(name)
	if err != nil {
		s.errText = "Failed to create save slot: " + err.Error()
		return s, nil
	}

	if err := s.store.SetMode(name, mode); err != nil {
		s.logger.Warnf("failed to write metadata for %s: %v", name, err)
	}

	return s.startCopy(s.gameDir, dir, fmt.Sprintf("Backing up to %s...", name))
}

func (s SavesScreen) startCopy(sourceRoot, destRoot, title string) (SavesScreen, tea.Cmd) {
	engine := syncengine.New(sourceRoot, destRoot, s.allowlist.Paths(), s.logger)
	bridge := shared.NewEventBridge()
	engine.SetEventEmitter(bridge)

	s.bridge = bridge
	s.busy = true
	s.busyTitle = title
	s.percent = 0
	s.lastResult = nil
	s.copyOutcome = nil
	s.bridgeDrained = false
	s.status = ""
	s.errText = ""

	runCopy := func() tea.Msg {
		err := engine.Run()
		bridge.Close()

		if err != nil {
			return shared.CopyFailedMsg{Title: title, Err: err}
		}

		return shared.CopyDoneMsg{Title: title}
	}

	return s, tea.Batch(runCopy, bridge.ListenCmd())
}

func (s SavesScreen) startLaunch(name string) (SavesScreen, tea.Cmd) {
	s.busy = true
	s.busyTitle = fmt.Sprintf("Playing %s... waiting for the game to exit", name)
	s.status = ""
	s.errText = ""

	launcher := s.launcher

	return s, func() tea.Msg {
		err := launcher.LaunchAndWait(context.Background())

		return shared.LaunchExitedMsg{Slot: name, Err: err}
	}
}

func (s SavesScreen) startDelete(name string) (SavesScreen, tea.Cmd) {
	s.busy = true
	s.busyTitle = fmt.Sprintf("Deleting %s...", name)
	s.status = ""
	s.errText = ""

	store := s.store

	return s, func() tea.Msg {
		return shared.DeleteDoneMsg{Name: name, Err: store.Delete(name)}
	}
}

// changeMode rewrites the selected slot's metadata. The write is small
// enough to do inline.
func (s SavesScreen) changeMode(mode string) (SavesScreen, tea.Cmd) {
	slot := s.selectedSlot()
	if slot == nil {
		return s, nil
	}

	if err := s.store.SetMode(slot.Name, mode); err != nil {
		s.errText = "Failed to change mode: " + err.Error()
		return s, nil
	}

	return s, s.loadSlots()
}

func (s SavesScreen) loadSlots() tea.Cmd {
	store := s.store

	return func() tea.Msg {
		slots, err := store.List()

		return shared.SlotsLoadedMsg{Slots: slots, Err: err}
	}
}

// ============================================================================
// Message Handlers
// ============================================================================

func (s SavesScreen) handleSlotsLoaded(msg shared.SlotsLoadedMsg) (SavesScreen, tea.Cmd) {
	if msg.Err != nil {
		s.errText = "Failed to list saves: " + msg.Err.Error()
		return s, nil
	}

	s.slots = msg.Slots

	rows := make([]table.Row, 0, len(msg.Slots))
	for _, slot := range msg.Slots {
		rows = append(rows, table.Row{
			slot.Name,
			shared.FormatDate(slot.ModTime),
			shared.FormatMB(slot.SizeBytes),
			slot.Mode,
		})
	}

	s.table.SetRows(rows)

	if s.table.Cursor() >= len(rows) {
		s.table.SetCursor(max(0, len(rows)-1))
	}

	return s, nil
}

func (s SavesScreen) handleEngineEvent(msg shared.EngineEventMsg) (SavesScreen, tea.Cmd) {
	switch event := msg.Event.(type) {
	case syncengine.Progress:
		s.percent = float64(event.Percent()) / 100 //nolint:mnd // percentage scale
	case syncengine.CopyComplete:
		s.lastResult = event.Result
	}

	if s.bridge != nil {
		return s, s.bridge.ListenCmd()
	}

	return s, nil
}

// finishCopyIfReady completes the copy once both the run outcome has arrived
// and the bridge has drained. Finishing only after the drain keeps the
// terminal status behind every progress update, in emission order.
func (s SavesScreen) finishCopyIfReady() (SavesScreen, tea.Cmd) {
	if s.copyOutcome == nil || !s.bridgeDrained {
		return s, nil
	}

	outcome := s.copyOutcome
	s.copyOutcome = nil
	s.bridgeDrained = false
	s.busy = false
	s.bridge = nil

	switch msg := outcome.(type) {
	case shared.CopyDoneMsg:
		s.percent = 1

		s.status = msg.Title + " completed."
		if s.lastResult != nil {
			s.status = fmt.Sprintf("%s completed. %d files, %s.",
				msg.Title, s.lastResult.FilesCopied, shared.FormatMB(s.lastResult.BytesCopied))
		}

		s.logger.Infof("%s completed successfully", msg.Title)

		return s, s.loadSlots()
	case shared.CopyFailedMsg:
		enriched := s.enricher.Enrich(msg.Err, "")
		s.errText = renderEnriched(enriched)
		s.logger.Warnf("%s failed: %v", msg.Title, msg.Err)
	}

	return s, nil
}

func (s SavesScreen) handleDeleteDone(msg shared.DeleteDoneMsg) (SavesScreen, tea.Cmd) {
	s.busy = false

	if msg.Err != nil {
		s.errText = "Failed to delete save."
		s.logger.Errorf("delete of %s failed: %v", msg.Name, msg.Err)

		return s, nil
	}

	s.status = "Save deleted."

	return s, s.loadSlots()
}

// handleLaunchExited starts the post-game restore copy back into the slot
// that was being played.
func (s SavesScreen) handleLaunchExited(msg shared.LaunchExitedMsg) (SavesScreen, tea.Cmd) {
	if msg.Err != nil {
		s.busy = false

		enriched := s.enricher.Enrich(msg.Err, "")
		s.errText = renderEnriched(enriched)

		return s, nil
	}

	return s.startCopy(
		s.gameDir, s.store.Dir(msg.Slot),
		fmt.Sprintf("Restoring %s after game...", msg.Slot),
	)
}

// ============================================================================
// Rendering
// ============================================================================

func (s SavesScreen) renderModal() string {
	var builder strings.Builder

	switch s.modal {
	case modalName:
		builder.WriteString(shared.RenderTitle("New Save Slot"))
		builder.WriteString("\nEnter save name:\n\n")
		builder.WriteString(s.nameInput.View())
		builder.WriteString("\n\n")
		builder.WriteString(shared.RenderDim("enter confirm • esc cancel"))
	case modalMode:
		builder.WriteString(shared.RenderTitle("Play Mode"))
		builder.WriteString("\nSelect play mode:\n\n")

		for i, mode := range playModes {
			if i == s.modeCursor {
				builder.WriteString(shared.RenderLabel(shared.PromptArrow + mode))
			} else {
				builder.WriteString("  " + mode)
			}

			builder.WriteString("\n")
		}

		builder.WriteString("\n")
		builder.WriteString(shared.RenderDim("↑/↓ move • enter select • esc cancel"))
	case modalConfirmLoad:
		builder.WriteString(shared.RenderWarning("Overwrite current game save?"))
		builder.WriteString("\n\n")
		builder.WriteString(shared.RenderDim("y confirm • n cancel"))
	case modalConfirmDelete:
		name := ""
		if slot := s.selectedSlot(); slot != nil {
			name = slot.Name
		}

		builder.WriteString(shared.RenderWarning(fmt.Sprintf("Delete save '%s'?", name)))
		builder.WriteString("\n\n")
		builder.WriteString(shared.RenderDim("y confirm • n cancel"))
	case modalNone:
	}

	return shared.RenderBox(builder.String())
}

func (s SavesScreen) helpText() string {
	if s.busy {
		return "operation in progress..."
	}

	return "b backup • l load • g launch • n new • d delete • m mode • r refresh • tab switch • q quit"
}

// renderEnriched formats an enriched error with its suggestions beneath it.
func renderEnriched(err error) string {
	text := err.Error()
	if suggestions := apperrors.FormatSuggestions(err); suggestions != "" {
		text += "\n" + suggestions
	}

	return text
}

func (s SavesScreen) selectedSlot() *savedata.Slot {
	cursor := s.table.Cursor()
	if cursor < 0 || cursor >= len(s.slots) {
		return nil
	}

	return &s.slots[cursor]
}

const slotTableHeight = 10
