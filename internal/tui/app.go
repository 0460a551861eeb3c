// Package tui is the interactive terminal front-end: a two-tab view over
// the save slots and the backup selection.
package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/QuantumPixelator/conan-exiles-save-manager/internal/config"
	"github.com/QuantumPixelator/conan-exiles-save-manager/internal/savedata"
	"github.com/QuantumPixelator/conan-exiles-save-manager/internal/steam"
	"github.com/QuantumPixelator/conan-exiles-save-manager/internal/tui/screens"
	"github.com/QuantumPixelator/conan-exiles-save-manager/internal/tui/shared"
)

const (
	tabSaves = iota
	tabConfiguration
)

var tabTitles = []string{"Saves", "Configuration"} //nolint:gochecknoglobals // fixed tab set

// AppModel is the top-level model. It owns the tab bar and delegates
// everything else to the tab screens.
type AppModel struct {
	cfg       *config.Config
	saves     screens.SavesScreen
	configure screens.ConfigScreen
	activeTab int
	width     int
	height    int
}

// NewAppModel wires the screens over the shared slot store and allowlist.
// cfg.GameDir must already be resolved.
func NewAppModel(
	cfg *config.Config,
	store *savedata.Store,
	allowlist *config.Allowlist,
	logger *zap.SugaredLogger,
) *AppModel {
	return &AppModel{
		cfg: cfg,
		saves: screens.NewSavesScreen(
			cfg.GameDir, store, allowlist, steam.NewLauncher(logger), logger),
		configure: screens.NewConfigScreen(
			cfg.GameDir, cfg.AllowlistPath(), allowlist,
			config.NewExcludeFilter(cfg.Exclude), logger),
	}
}

// ActiveTab returns the active tab index (for testing).
func (a AppModel) ActiveTab() int {
	return a.activeTab
}

// Init implements tea.Model
func (a AppModel) Init() tea.Cmd {
	return tea.Batch(a.saves.Init(), a.configure.Init())
}

// Update implements tea.Model
func (a AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if windowMsg, ok := msg.(tea.WindowSizeMsg); ok {
		a.width = windowMsg.Width
		a.height = windowMsg.Height
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		return a.handleKeyMsg(keyMsg)
	}

	// Worker results and other messages go to both screens; each ignores
	// those it doesn't own. A copy can finish while the other tab is open.
	var savesCmd, configureCmd tea.Cmd

	a.saves, savesCmd = a.saves.Update(msg)
	a.configure, configureCmd = a.configure.Update(msg)

	return a, tea.Batch(savesCmd, configureCmd)
}

// View implements tea.Model
func (a AppModel) View() string {
	var builder strings.Builder

	builder.WriteString(shared.RenderTitle("Conan Exiles Save Manager"))
	builder.WriteString("\n")
	builder.WriteString(a.renderTabBar())
	builder.WriteString("\n\n")

	if a.activeTab == tabSaves {
		builder.WriteString(a.saves.View())
	} else {
		builder.WriteString(a.configure.View())
	}

	return builder.String()
}

func (a AppModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == shared.KeyCtrlC {
		return a, tea.Quit
	}

	// Tab-switch and quit keys stay out of text entry prompts.
	if !a.saves.InModal() {
		switch msg.String() {
		case "tab":
			a.activeTab = (a.activeTab + 1) % len(tabTitles)
			return a, nil
		case "q":
			return a, tea.Quit
		}
	}

	var cmd tea.Cmd

	if a.activeTab == tabSaves {
		a.saves, cmd = a.saves.Update(msg)
	} else {
		a.configure, cmd = a.configure.Update(msg)
	}

	return a, cmd
}

func (a AppModel) renderTabBar() string {
	var parts []string

	for i, title := range tabTitles {
		if i == a.activeTab {
			parts = append(parts, shared.ActiveTabStyle().Render(title))
		} else {
			parts = append(parts, shared.TabStyle().Render(title))
		}
	}

	return strings.Join(parts, " ")
}
