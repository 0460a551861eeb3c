// Package screens contains the tab screens composed by the app model.
package screens

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/QuantumPixelator/conan-exiles-save-manager/internal/config"
	"github.com/QuantumPixelator/conan-exiles-save-manager/internal/tui/shared"
	"github.com/QuantumPixelator/conan-exiles-save-manager/internal/tui/widgets"
)

// treeLoadedMsg carries the scanned selection tree.
type treeLoadedMsg struct {
	roots []*widgets.TreeNode
	err   error
}

// ConfigScreen is the Configuration tab: a checkbox tree over the live game
// directory that edits the persisted backup selection.
type ConfigScreen struct {
	gameDir       string
	allowlistPath string
	allowlist     *config.Allowlist
	filter        config.PathFilter
	logger        *zap.SugaredLogger

	tree    *widgets.FileTree
	loading bool
	status  string
	errText string
	width   int
	height  int
}

// NewConfigScreen creates the configuration tab.
func NewConfigScreen(
	gameDir, allowlistPath string,
	allowlist *config.Allowlist,
	filter config.PathFilter,
	logger *zap.SugaredLogger,
) ConfigScreen {
	return ConfigScreen{
		gameDir:       gameDir,
		allowlistPath: allowlistPath,
		allowlist:     allowlist,
		filter:        filter,
		logger:        logger,
		loading:       true,
	}
}

// Init starts the directory scan.
func (s ConfigScreen) Init() tea.Cmd {
	return s.loadTree()
}

// Update handles messages for the configuration tab.
func (s ConfigScreen) Update(msg tea.Msg) (ConfigScreen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height

		return s, nil
	case treeLoadedMsg:
		return s.handleTreeLoaded(msg)
	case shared.SelectionSavedMsg:
		return s.handleSelectionSaved(msg)
	case tea.KeyMsg:
		return s.handleKeyMsg(msg)
	}

	return s, nil
}

// View renders the configuration tab.
func (s ConfigScreen) View() string {
	var builder strings.Builder

	builder.WriteString(shared.RenderTitle("Configuration"))
	builder.WriteString("\n")
	builder.WriteString(shared.RenderDim("Game directory: " + s.gameDir))
	builder.WriteString("\n\n")

	switch {
	case s.loading:
		builder.WriteString("Scanning game directory...\n")
	case s.tree == nil || s.tree.Len() == 0:
		builder.WriteString(shared.RenderDim("(no files found)"))
		builder.WriteString("\n")
	default:
		builder.WriteString(s.tree.View(s.treeHeight()))
	}

	builder.WriteString("\n")

	if s.errText != "" {
		builder.WriteString(shared.RenderError(s.errText))
		builder.WriteString("\n")
	} else if s.status != "" {
		builder.WriteString(shared.RenderSuccess(s.status))
		builder.WriteString("\n")
	}

	builder.WriteString(shared.RenderDim("↑/↓ move • space toggle • enter expand/collapse • s save selections"))
	builder.WriteString("\n")

	return builder.String()
}

func (s ConfigScreen) handleKeyMsg(msg tea.KeyMsg) (ConfigScreen, tea.Cmd) {
	if s.tree == nil {
		return s, nil
	}

	switch msg.String() {
	case "up", "k":
		s.tree.CursorUp()
	case "down", "j":
		s.tree.CursorDown()
	case " ":
		s.tree.ToggleChecked()
	case "enter", "right", "left":
		s.tree.ToggleExpanded()
	case "s":
		return s.saveSelection()
	}

	return s, nil
}

func (s ConfigScreen) handleTreeLoaded(msg treeLoadedMsg) (ConfigScreen, tea.Cmd) {
	s.loading = false

	if msg.err != nil {
		s.errText = "Failed to read game directory: " + msg.err.Error()
		s.logger.Errorf("game directory scan failed: %v", msg.err)

		return s, nil
	}

	s.tree = widgets.NewFileTree(msg.roots)

	return s, nil
}

func (s ConfigScreen) handleSelectionSaved(msg shared.SelectionSavedMsg) (ConfigScreen, tea.Cmd) {
	if msg.Err != nil {
		s.errText = "Failed to save config: " + msg.Err.Error()
		s.logger.Errorf("config save failed: %v", msg.Err)

		return s, nil
	}

	s.errText = ""
	s.status = fmt.Sprintf("Selected: %d items totaling %s", msg.Count, shared.FormatMB(msg.Bytes))

	return s, nil
}

func (s ConfigScreen) loadTree() tea.Cmd {
	return func() tea.Msg {
		roots, err := widgets.BuildTree(s.gameDir, s.filter, s.allowlist)

		return treeLoadedMsg{roots: roots, err: err}
	}
}

// saveSelection persists the checked paths and reports their on-disk size.
func (s ConfigScreen) saveSelection() (ConfigScreen, tea.Cmd) {
	s.allowlist.SetPaths(s.tree.CheckedPaths())
	s.status = ""

	return s, func() tea.Msg {
		if err := s.allowlist.Save(s.allowlistPath); err != nil {
			return shared.SelectionSavedMsg{Err: err}
		}

		return shared.SelectionSavedMsg{
			Count: s.allowlist.Len(),
			Bytes: s.allowlist.SelectedSize(s.gameDir),
		}
	}
}

func (s ConfigScreen) treeHeight() int {
	// Leave room for the title, game dir line, status, and help text.
	const chromeLines = 8

	height := s.height - chromeLines
	if height < 5 {
		height = 5
	}

	return height
}
