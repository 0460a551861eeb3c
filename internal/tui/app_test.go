//nolint:varnamelen // g is the conventional gomega handle
package tui_test

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	. "github.com/onsi/gomega" //nolint:revive // dot import is the gomega convention

	"github.com/QuantumPixelator/conan-exiles-save-manager/internal/applog"
	"github.com/QuantumPixelator/conan-exiles-save-manager/internal/config"
	"github.com/QuantumPixelator/conan-exiles-save-manager/internal/savedata"
	"github.com/QuantumPixelator/conan-exiles-save-manager/internal/tui"
)

func newApp(t *testing.T) *tui.AppModel {
	t.Helper()

	g := NewWithT(t)

	cfg := &config.Config{
		GameDir: t.TempDir(),
		DataDir: t.TempDir(),
	}

	store, err := savedata.NewStore(filepath.Join(cfg.DataDir, "saved"), applog.Nop())
	g.Expect(err).NotTo(HaveOccurred())

	return tui.NewAppModel(cfg, store, config.NewAllowlist(nil), applog.Nop())
}

func TestTabKeySwitchesBetweenSavesAndConfiguration(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	app := newApp(t)
	g.Expect(app.ActiveTab()).To(Equal(0))

	model, _ := app.Update(tea.KeyMsg{Type: tea.KeyTab})
	switched, ok := model.(tui.AppModel)
	g.Expect(ok).To(BeTrue())
	g.Expect(switched.ActiveTab()).To(Equal(1))

	model, _ = switched.Update(tea.KeyMsg{Type: tea.KeyTab})
	back, ok := model.(tui.AppModel)
	g.Expect(ok).To(BeTrue())
	g.Expect(back.ActiveTab()).To(Equal(0))
}

func TestCtrlCQuits(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	app := newApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	g.Expect(cmd).NotTo(BeNil())
	g.Expect(cmd()).To(Equal(tea.Quit()))
}

func TestViewShowsTheTabBar(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	app := newApp(t)

	view := app.View()

	g.Expect(view).To(ContainSubstring("Saves"))
	g.Expect(view).To(ContainSubstring("Configuration"))
}
