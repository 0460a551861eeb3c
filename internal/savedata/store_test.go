//nolint:varnamelen // Test files use idiomatic short variable names (t, g, etc.)
package savedata_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers

	"github.com/QuantumPixelator/conan-exiles-save-manager/internal/applog"
	"github.com/QuantumPixelator/conan-exiles-save-manager/internal/savedata"
)

// mustNewStore creates a store and fails the test on error.
func mustNewStore(t *testing.T) *savedata.Store {
	t.Helper()

	store, err := savedata.NewStore(filepath.Join(t.TempDir(), "saved"), applog.Nop())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	return store
}

func TestCreateSlotTwiceFailsWithSlotExists(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	store := mustNewStore(t)

	dir, err := store.Create("x")
	g.Expect(err).ShouldNot(HaveOccurred())

	// Populate the first slot so we can verify it survives the second call.
	g.Expect(os.WriteFile(filepath.Join(dir, "game.db"), []byte("original"), 0o644)).Should(Succeed())

	_, err = store.Create("x")
	g.Expect(err).Should(MatchError(savedata.ErrSlotExists))

	content, err := os.ReadFile(filepath.Join(dir, "game.db"))
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(string(content)).Should(Equal("original"))
}

func TestCreateSlotRejectsInvalidNames(t *testing.T) {
	t.Parallel()

	store := mustNewStore(t)

	for _, name := range []string{"", "   ", ".", "..", "a/b", `a\b`} {
		if _, err := store.Create(name); err == nil {
			t.Errorf("Create(%q) should have failed", name)
		}
	}
}

func TestModeRoundTrip(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	store := mustNewStore(t)

	_, err := store.Create("slot1")
	g.Expect(err).ShouldNot(HaveOccurred())

	g.Expect(store.SetMode("slot1", savedata.ModeSolo)).Should(Succeed())
	g.Expect(store.Mode("slot1")).Should(Equal("Solo Play"))

	g.Expect(store.SetMode("slot1", savedata.ModeOnline)).Should(Succeed())
	g.Expect(store.Mode("slot1")).Should(Equal("Online Play"))
}

func TestModeDefaultsToUnknown(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	store := mustNewStore(t)

	_, err := store.Create("bare")
	g.Expect(err).ShouldNot(HaveOccurred())

	// No metadata file at all.
	g.Expect(store.Mode("bare")).Should(Equal(savedata.ModeUnknown))

	// Corrupt metadata file.
	metaPath := filepath.Join(store.Dir("bare"), savedata.MetadataFileName)
	g.Expect(os.WriteFile(metaPath, []byte("{broken"), 0o600)).Should(Succeed())
	g.Expect(store.Mode("bare")).Should(Equal(savedata.ModeUnknown))

	// Metadata file without a mode key.
	g.Expect(os.WriteFile(metaPath, []byte("{}"), 0o600)).Should(Succeed())
	g.Expect(store.Mode("bare")).Should(Equal(savedata.ModeUnknown))
}

func TestDeleteRemovesSlotFromListing(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	store := mustNewStore(t)

	dir, err := store.Create("doomed")
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(os.WriteFile(filepath.Join(dir, "game.db"), []byte("data"), 0o644)).Should(Succeed())

	g.Expect(store.Delete("doomed")).Should(Succeed())
	g.Expect(store.Exists("doomed")).Should(BeFalse())

	slots, err := store.List()
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(slots).Should(BeEmpty())
}

func TestListSortsByModTimeDescending(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	store := mustNewStore(t)

	older, err := store.Create("older")
	g.Expect(err).ShouldNot(HaveOccurred())
	newer, err := store.Create("newer")
	g.Expect(err).ShouldNot(HaveOccurred())

	now := time.Now()
	g.Expect(os.Chtimes(older, now.Add(-time.Hour), now.Add(-time.Hour))).Should(Succeed())
	g.Expect(os.Chtimes(newer, now, now)).Should(Succeed())

	slots, err := store.List()
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(slots).Should(HaveLen(2))
	g.Expect(slots[0].Name).Should(Equal("newer"))
	g.Expect(slots[1].Name).Should(Equal("older"))
}

func TestListIgnoresNonDirectoryEntries(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	store := mustNewStore(t)

	_, err := store.Create("real")
	g.Expect(err).ShouldNot(HaveOccurred())

	// A stray file in the slots root must not become a slot.
	g.Expect(os.WriteFile(filepath.Join(store.Root(), "stray.txt"), []byte("x"), 0o644)).Should(Succeed())

	slots, err := store.List()
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(slots).Should(HaveLen(1))
	g.Expect(slots[0].Name).Should(Equal("real"))
}

func TestListPopulatesSizeAndMode(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	store := mustNewStore(t)

	dir, err := store.Create("full")
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(os.WriteFile(filepath.Join(dir, "game.db"), make([]byte, 10), 0o644)).Should(Succeed())
	g.Expect(store.SetMode("full", savedata.ModeSolo)).Should(Succeed())

	slots, err := store.List()
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(slots).Should(HaveLen(1))
	g.Expect(slots[0].Mode).Should(Equal(savedata.ModeSolo))

	// Size includes the metadata record itself.
	metaSize, err := os.Stat(filepath.Join(dir, savedata.MetadataFileName))
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(slots[0].SizeBytes).Should(Equal(10 + metaSize.Size()))
}
