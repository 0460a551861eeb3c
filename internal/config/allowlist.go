package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/QuantumPixelator/conan-exiles-save-manager/pkg/fileops"
)

// DirSuffix marks allowlist entries that refer to directories.
const DirSuffix = "/"

// Allowlist is the ordered, de-duplicated set of relative paths that
// participate in backup and restore copies. Directory entries carry a
// trailing slash marker; membership is by exact string.
type Allowlist struct {
	paths []string
	index map[string]struct{}
}

// NewAllowlist builds an allowlist from paths, preserving first-seen order
// and dropping duplicates and empty strings.
func NewAllowlist(paths []string) *Allowlist {
	list := &Allowlist{index: make(map[string]struct{})}
	list.SetPaths(paths)

	return list
}

// LoadAllowlist reads the persisted selection from path. A missing or corrupt
// file yields an empty allowlist; the condition is logged, never fatal.
func LoadAllowlist(path string, logger *zap.SugaredLogger) *Allowlist {
	data, err := os.ReadFile(path) // #nosec G304 - path is controlled by caller
	if err != nil {
		if os.IsNotExist(err) {
			logger.Infof("no config at %s, starting with empty selection", path)
		} else {
			logger.Errorf("config load error: %v", err)
		}

		return NewAllowlist(nil)
	}

	var paths []string
	if err := json.Unmarshal(data, &paths); err != nil {
		logger.Errorf("config parse error for %s: %v", path, err)
		return NewAllowlist(nil)
	}

	logger.Infof("config loaded: %d paths", len(paths))

	return NewAllowlist(paths)
}

// IsDirEntry reports whether rel refers to a directory (trailing slash marker).
func IsDirEntry(rel string) bool {
	return strings.HasSuffix(rel, DirSuffix)
}

// Contains reports whether rel is a member of the selection.
func (a *Allowlist) Contains(rel string) bool {
	_, ok := a.index[rel]
	return ok
}

// Len returns the number of selected paths.
func (a *Allowlist) Len() int {
	return len(a.paths)
}

// Paths returns a copy of the selected paths in insertion order.
func (a *Allowlist) Paths() []string {
	out := make([]string, len(a.paths))
	copy(out, a.paths)

	return out
}

// Save writes the selection to path wholesale as a JSON array.
func (a *Allowlist) Save(path string) error {
	data, err := json.MarshalIndent(a.paths, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode selection: %w", err)
	}

	err = os.WriteFile(path, data, 0o600)
	if err != nil {
		return fmt.Errorf("failed to save config to %s: %w", path, err)
	}

	return nil
}

// SelectedSize sums the on-disk size of every selected path under root,
// recomputed freshly. Missing entries contribute zero.
func (a *Allowlist) SelectedSize(root string) int64 {
	var total int64

	for _, rel := range a.paths {
		size, err := fileops.PathSize(resolve(root, rel))
		if err != nil {
			continue
		}

		total += size
	}

	return total
}

// SetPaths replaces the selection, preserving first-seen order and dropping
// duplicates and empty strings.
func (a *Allowlist) SetPaths(paths []string) {
	a.paths = a.paths[:0]
	a.index = make(map[string]struct{}, len(paths))

	for _, p := range paths {
		if p == "" {
			continue
		}

		if _, seen := a.index[p]; seen {
			continue
		}

		a.index[p] = struct{}{}
		a.paths = append(a.paths, p)
	}
}

// resolve joins a relative allowlist entry onto root, stripping the
// directory marker. Entries are stored with forward slashes.
func resolve(root, rel string) string {
	trimmed := strings.TrimSuffix(rel, DirSuffix)
	return filepath.Join(root, filepath.FromSlash(trimmed))
}
