// Package savedata manages the registry of save slots: named directories
// under a slots root, each holding a selective copy of the game's save data
// plus a small metadata record.
package savedata

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/QuantumPixelator/conan-exiles-save-manager/pkg/fileops"
)

// Exported constants.
const (
	// MetadataFileName is the per-slot metadata record.
	MetadataFileName = "metadata.json"

	// ModeSolo tags a slot as a solo-play save.
	ModeSolo = "Solo Play"
	// ModeOnline tags a slot as an online-play save.
	ModeOnline = "Online Play"
	// ModeUnknown is reported when a slot has no readable metadata.
	ModeUnknown = "Unknown"
)

// Exported variables.
var (
	ErrInvalidName = errors.New("invalid slot name")
	ErrSlotExists  = errors.New("slot already exists")
)

// Slot describes one save slot as listed in the UI.
type Slot struct {
	Name      string
	ModTime   time.Time
	SizeBytes int64
	Mode      string
}

// Store is the save-slot registry rooted at a single directory it owns.
type Store struct {
	root   string
	logger *zap.SugaredLogger
}

// NewStore creates a store rooted at root, creating the directory if needed.
func NewStore(root string, logger *zap.SugaredLogger) (*Store, error) {
	err := os.MkdirAll(root, fileops.DefaultDirPermissions)
	if err != nil {
		return nil, fmt.Errorf("failed to create slots directory %s: %w", root, err)
	}

	return &Store{root: root, logger: logger}, nil
}

// Root returns the slots root directory.
func (s *Store) Root() string {
	return s.root
}

// Dir returns the directory of the named slot.
func (s *Store) Dir(name string) string {
	return filepath.Join(s.root, name)
}

// Create makes an empty directory for a new slot. It fails with ErrSlotExists
// when a slot of that exact name is already present and ErrInvalidName for
// empty names or names containing path separators.
func (s *Store) Create(name string) (string, error) {
	if !validName(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	dir := s.Dir(name)

	if _, err := os.Stat(dir); err == nil {
		return "", fmt.Errorf("%w: %s", ErrSlotExists, name)
	}

	err := os.Mkdir(dir, fileops.DefaultDirPermissions)
	if err != nil {
		return "", fmt.Errorf("failed to create slot %s: %w", name, err)
	}

	return dir, nil
}

// Delete recursively removes the slot's directory. On failure the slot is
// left as-is and the error is returned to the caller.
func (s *Store) Delete(name string) error {
	if !validName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	err := os.RemoveAll(s.Dir(name))
	if err != nil {
		return fmt.Errorf("failed to delete slot %s: %w", name, err)
	}

	s.logger.Infof("deleted save slot: %s", name)

	return nil
}

// Exists reports whether a slot directory of that name is present.
func (s *Store) Exists(name string) bool {
	info, err := os.Stat(s.Dir(name))
	return err == nil && info.IsDir()
}

// List enumerates the slots, most recently modified first. Non-directory
// entries in the slots root are ignored; a slot whose details cannot be read
// is logged and skipped rather than failing the whole listing.
func (s *Store) List() ([]Slot, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read slots directory %s: %w", s.root, err)
	}

	slots := make([]Slot, 0, len(entries))

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			s.logger.Errorf("error reading slot %s: %v", entry.Name(), err)
			continue
		}

		size, err := s.Size(entry.Name())
		if err != nil {
			s.logger.Errorf("error measuring slot %s: %v", entry.Name(), err)
			continue
		}

		slots = append(slots, Slot{
			Name:      entry.Name(),
			ModTime:   info.ModTime(),
			SizeBytes: size,
			Mode:      s.Mode(entry.Name()),
		})
	}

	sort.Slice(slots, func(i, j int) bool {
		return slots[i].ModTime.After(slots[j].ModTime)
	})

	return slots, nil
}

// Mode reads the slot's play-mode tag. Any read or parse failure yields
// ModeUnknown rather than an error.
func (s *Store) Mode(name string) string {
	data, err := os.ReadFile(filepath.Join(s.Dir(name), MetadataFileName)) // #nosec G304 - path is derived from slot root
	if err != nil {
		return ModeUnknown
	}

	var meta slotMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return ModeUnknown
	}

	if meta.Mode == "" {
		return ModeUnknown
	}

	return meta.Mode
}

// SetMode writes the slot's play-mode tag, overwriting any existing record.
func (s *Store) SetMode(name, mode string) error {
	data, err := json.MarshalIndent(slotMetadata{Mode: mode}, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode metadata for %s: %w", name, err)
	}

	path := filepath.Join(s.Dir(name), MetadataFileName)

	err = os.WriteFile(path, data, 0o600)
	if err != nil {
		return fmt.Errorf("failed to write metadata for %s: %w", name, err)
	}

	return nil
}

// Size returns the total bytes under the slot directory, computed freshly.
func (s *Store) Size(name string) (int64, error) {
	return fileops.DirSize(s.Dir(name))
}

// slotMetadata is the on-disk metadata record.
type slotMetadata struct {
	Mode string `json:"mode"`
}

// validName rejects empty names and names that would escape the slots root.
func validName(name string) bool {
	if strings.TrimSpace(name) == "" {
		return false
	}

	if name == "." || name == ".." {
		return false
	}

	return !strings.ContainsAny(name, `/\`)
}
