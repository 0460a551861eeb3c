//nolint:varnamelen // Test files use idiomatic short variable names (t, g, etc.)
package config_test

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers

	"github.com/QuantumPixelator/conan-exiles-save-manager/internal/applog"
	"github.com/QuantumPixelator/conan-exiles-save-manager/internal/config"
)

func TestAllowlistRoundTrip(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	path := filepath.Join(t.TempDir(), "config.json")

	list := config.NewAllowlist([]string{"db/", "log.txt", "db/", "", "Saved/profile.bin"})
	g.Expect(list.Len()).Should(Equal(3))
	g.Expect(list.Paths()).Should(Equal([]string{"db/", "log.txt", "Saved/profile.bin"}))

	g.Expect(list.Save(path)).Should(Succeed())

	loaded := config.LoadAllowlist(path, applog.Nop())
	g.Expect(loaded.Paths()).Should(Equal([]string{"db/", "log.txt", "Saved/profile.bin"}))
	g.Expect(loaded.Contains("db/")).Should(BeTrue())
	g.Expect(loaded.Contains("db")).Should(BeFalse(), "membership is by exact string, marker included")
}

func TestLoadAllowlistMissingFileIsEmpty(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	list := config.LoadAllowlist(filepath.Join(t.TempDir(), "config.json"), applog.Nop())
	g.Expect(list.Len()).Should(BeZero())
}

func TestLoadAllowlistCorruptFileIsEmpty(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	path := filepath.Join(t.TempDir(), "config.json")
	g.Expect(os.WriteFile(path, []byte("{not json"), 0o600)).Should(Succeed())

	list := config.LoadAllowlist(path, applog.Nop())
	g.Expect(list.Len()).Should(BeZero())
}

func TestIsDirEntry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rel      string
		expected bool
	}{
		{"db/", true},
		{"db", false},
		{"Saved/profile.bin", false},
		{"Saved/Logs/", true},
	}

	for _, tt := range tests {
		if got := config.IsDirEntry(tt.rel); got != tt.expected {
			t.Errorf("IsDirEntry(%q) = %v, want %v", tt.rel, got, tt.expected)
		}
	}
}

func TestSelectedSize(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	root := t.TempDir()
	g.Expect(os.MkdirAll(filepath.Join(root, "db"), 0o750)).Should(Succeed())
	g.Expect(os.WriteFile(filepath.Join(root, "db", "a.txt"), make([]byte, 5), 0o644)).Should(Succeed())
	g.Expect(os.WriteFile(filepath.Join(root, "log.txt"), make([]byte, 3), 0o644)).Should(Succeed())
	g.Expect(os.WriteFile(filepath.Join(root, "unselected.txt"), make([]byte, 99), 0o644)).Should(Succeed())

	list := config.NewAllowlist([]string{"db/", "log.txt", "gone.txt"})
	g.Expect(list.SelectedSize(root)).Should(Equal(int64(8)))
}

func TestPostProcessConfig(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	cfg, err := config.PostProcessConfig(&config.Config{DataDir: t.TempDir()})
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(cfg.InteractiveMode).Should(BeTrue())
	g.Expect(cfg.SlotsDir()).Should(HaveSuffix("saved"))
	g.Expect(cfg.AllowlistPath()).Should(HaveSuffix("config.json"))

	cfg, err = config.PostProcessConfig(&config.Config{DataDir: t.TempDir(), List: true})
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(cfg.InteractiveMode).Should(BeFalse())

	_, err = config.PostProcessConfig(&config.Config{DataDir: t.TempDir(), Mirror: "sftp://joe@host/backups"})
	g.Expect(err).Should(MatchError(ContainSubstring("--slot")))
}

func TestPostProcessConfigRejectsBadGameDir(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	_, err := config.PostProcessConfig(&config.Config{
		DataDir: t.TempDir(),
		GameDir: filepath.Join(t.TempDir(), "nope"),
	})
	g.Expect(err).Should(MatchError(ContainSubstring("does not exist")))
}
