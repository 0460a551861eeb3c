//nolint:varnamelen // g is the conventional gomega handle
package screens_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	. "github.com/onsi/gomega" //nolint:revive // dot import is the gomega convention

	"github.com/QuantumPixelator/conan-exiles-save-manager/internal/applog"
	"github.com/QuantumPixelator/conan-exiles-save-manager/internal/config"
	"github.com/QuantumPixelator/conan-exiles-save-manager/internal/savedata"
	"github.com/QuantumPixelator/conan-exiles-save-manager/internal/steam"
	"github.com/QuantumPixelator/conan-exiles-save-manager/internal/tui/screens"
	"github.com/QuantumPixelator/conan-exiles-save-manager/internal/tui/shared"
)

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newSavesScreen(t *testing.T, paths []string) (screens.SavesScreen, *savedata.Store, string) {
	t.Helper()

	g := NewWithT(t)

	gameDir := t.TempDir()
	g.Expect(os.WriteFile(filepath.Join(gameDir, "log.txt"), []byte("abc"), 0o600)).To(Succeed())

	store, err := savedata.NewStore(filepath.Join(t.TempDir(), "saved"), applog.Nop())
	g.Expect(err).NotTo(HaveOccurred())

	screen := screens.NewSavesScreen(
		gameDir, store, config.NewAllowlist(paths), steam.NewLauncher(applog.Nop()), applog.Nop())

	return screen, store, gameDir
}

func TestBackupKeyWarnsWithoutASavedSelection(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	screen, _, _ := newSavesScreen(t, nil)

	screen, cmd := screen.Update(key("b"))

	g.Expect(cmd).To(BeNil())
	g.Expect(screen.InModal()).To(BeFalse())
	g.Expect(screen.View()).To(ContainSubstring("Please configure selections first."))
}

// The full backup path: name prompt, mode chooser, engine run, slot listed.
func TestBackupFlowCreatesAndFillsTheSlot(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	screen, store, _ := newSavesScreen(t, []string{"log.txt"})

	screen, _ = screen.Update(key("b"))
	g.Expect(screen.InModal()).To(BeTrue())

	screen, _ = screen.Update(key("base"))
	screen, _ = screen.Update(tea.KeyMsg{Type: tea.KeyEnter})

	// Mode chooser: pick the second entry, Online Play.
	screen, _ = screen.Update(tea.KeyMsg{Type: tea.KeyDown})

	var cmd tea.Cmd

	screen, cmd = screen.Update(tea.KeyMsg{Type: tea.KeyEnter})
	g.Expect(screen.Busy()).To(BeTrue())
	g.Expect(cmd).NotTo(BeNil())

	// The batch holds the engine run and the first event listen, in order.
	batch, ok := cmd().(tea.BatchMsg)
	g.Expect(ok).To(BeTrue())
	g.Expect(batch).To(HaveLen(2))

	doneMsg := batch[0]()

	// Deliver the run outcome before any buffered event reaches the screen,
	// the interleaving a real scheduler produces. The screen must hold the
	// outcome until the event stream is fully drained.
	screen, cmd = screen.Update(doneMsg)
	g.Expect(screen.Busy()).To(BeTrue())
	g.Expect(cmd).To(BeNil())

	// Drain the event stream back through the screen.
	listen := batch[1]
	for {
		msg := listen()

		var next tea.Cmd

		screen, next = screen.Update(msg)

		if _, closed := msg.(shared.BridgeClosedMsg); closed {
			cmd = next
			break
		}

		g.Expect(next).NotTo(BeNil())

		listen = next
	}

	g.Expect(screen.Busy()).To(BeFalse())
	g.Expect(screen.View()).To(ContainSubstring("1 files"))

	copied, err := os.ReadFile(filepath.Join(store.Dir("base"), "log.txt"))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(string(copied)).To(Equal("abc"))
	g.Expect(store.Mode("base")).To(Equal(savedata.ModeOnline))

	// The done handler refreshes the slot listing.
	g.Expect(cmd).NotTo(BeNil())
	screen, _ = screen.Update(cmd())
	g.Expect(screen.View()).To(ContainSubstring("base"))
}

func TestDuplicateBackupNameIsRejected(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	screen, store, _ := newSavesScreen(t, []string{"log.txt"})

	_, err := store.Create("taken")
	g.Expect(err).NotTo(HaveOccurred())

	screen, _ = screen.Update(key("b"))
	screen, _ = screen.Update(key("taken"))
	screen, _ = screen.Update(tea.KeyMsg{Type: tea.KeyEnter})

	g.Expect(screen.InModal()).To(BeFalse())
	g.Expect(screen.View()).To(ContainSubstring("Save name already exists."))
}

func TestEscCancelsTheNamePrompt(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	screen, _, _ := newSavesScreen(t, []string{"log.txt"})

	screen, _ = screen.Update(key("b"))
	g.Expect(screen.InModal()).To(BeTrue())

	screen, _ = screen.Update(tea.KeyMsg{Type: tea.KeyEsc})
	g.Expect(screen.InModal()).To(BeFalse())
	g.Expect(screen.Busy()).To(BeFalse())
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	screen, store, _ := newSavesScreen(t, []string{"log.txt"})

	_, err := store.Create("doomed")
	g.Expect(err).NotTo(HaveOccurred())

	slots, err := store.List()
	g.Expect(err).NotTo(HaveOccurred())

	var cmd tea.Cmd

	screen, cmd = screen.Update(shared.SlotsLoadedMsg{Slots: slots})
	g.Expect(cmd).To(BeNil())

	screen, _ = screen.Update(key("d"))
	g.Expect(screen.InModal()).To(BeTrue())

	// Declining leaves the slot alone.
	screen, _ = screen.Update(key("n"))
	g.Expect(screen.InModal()).To(BeFalse())
	g.Expect(store.Exists("doomed")).To(BeTrue())

	screen, _ = screen.Update(key("d"))
	screen, cmd = screen.Update(key("y"))
	g.Expect(screen.Busy()).To(BeTrue())
	g.Expect(cmd).NotTo(BeNil())

	screen, cmd = screen.Update(cmd())
	g.Expect(screen.Busy()).To(BeFalse())
	g.Expect(store.Exists("doomed")).To(BeFalse())
	g.Expect(cmd).NotTo(BeNil())
}

// The restore copy back into the played slot starts only once the game
// process has exited.
func TestGameExitTriggersTheRestoreCopyIntoTheSlot(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	screen, store, _ := newSavesScreen(t, []string{"log.txt"})

	_, err := store.Create("played")
	g.Expect(err).NotTo(HaveOccurred())

	slots, err := store.List()
	g.Expect(err).NotTo(HaveOccurred())

	screen, _ = screen.Update(shared.SlotsLoadedMsg{Slots: slots})

	// The launch key holds the busy flag for the whole play session. The
	// returned worker would exec steam, so it is not invoked here.
	screen, cmd := screen.Update(key("g"))
	g.Expect(screen.Busy()).To(BeTrue())
	g.Expect(cmd).NotTo(BeNil())

	// Before the game exits, nothing has been copied into the slot.
	g.Expect(filepath.Join(store.Dir("played"), "log.txt")).NotTo(BeAnExistingFile())

	screen, cmd = screen.Update(shared.LaunchExitedMsg{Slot: "played"})
	g.Expect(screen.Busy()).To(BeTrue())
	g.Expect(screen.View()).To(ContainSubstring("Restoring played after game..."))
	g.Expect(cmd).NotTo(BeNil())

	batch, ok := cmd().(tea.BatchMsg)
	g.Expect(ok).To(BeTrue())
	g.Expect(batch).To(HaveLen(2))

	// Running the copy worker fills the slot from the game directory.
	doneMsg := batch[0]()
	g.Expect(doneMsg).To(Equal(shared.CopyDoneMsg{Title: "Restoring played after game..."}))

	copied, err := os.ReadFile(filepath.Join(store.Dir("played"), "log.txt"))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(string(copied)).To(Equal("abc"))
}

func TestLaunchFailureClearsBusyWithoutRestoring(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	screen, store, _ := newSavesScreen(t, []string{"log.txt"})

	_, err := store.Create("played")
	g.Expect(err).NotTo(HaveOccurred())

	slots, err := store.List()
	g.Expect(err).NotTo(HaveOccurred())

	screen, _ = screen.Update(shared.SlotsLoadedMsg{Slots: slots})
	screen, _ = screen.Update(key("g"))
	g.Expect(screen.Busy()).To(BeTrue())

	screen, cmd := screen.Update(shared.LaunchExitedMsg{
		Slot: "played",
		Err:  errors.New("failed to launch game: steam not found"),
	})

	g.Expect(screen.Busy()).To(BeFalse())
	g.Expect(cmd).To(BeNil())
	g.Expect(screen.View()).To(ContainSubstring("steam not found"))
	g.Expect(filepath.Join(store.Dir("played"), "log.txt")).NotTo(BeAnExistingFile())
}

func TestActionKeysAreIgnoredWhileAWorkerRuns(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	screen, store, _ := newSavesScreen(t, []string{"log.txt"})

	_, err := store.Create("held")
	g.Expect(err).NotTo(HaveOccurred())

	slots, err := store.List()
	g.Expect(err).NotTo(HaveOccurred())

	screen, _ = screen.Update(shared.SlotsLoadedMsg{Slots: slots})
	screen, _ = screen.Update(key("d"))
	screen, _ = screen.Update(key("y"))
	g.Expect(screen.Busy()).To(BeTrue())

	screen, cmd := screen.Update(key("b"))
	g.Expect(cmd).To(BeNil())
	g.Expect(screen.InModal()).To(BeFalse())
}
