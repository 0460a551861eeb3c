// Package syncengine copies a configured set of relative paths between two
// directory roots: the live game save directory and a save slot.
//
// The copy is selective and lenient about configuration drift: a configured
// path that no longer exists at the source is skipped, never an error. An I/O
// failure on a path that does exist aborts the whole run at that path, with
// no rollback of paths already copied. Destination directories are merged,
// not mirrored; files present only at the destination survive a run.
package syncengine

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/QuantumPixelator/conan-exiles-save-manager/internal/config"
	"github.com/QuantumPixelator/conan-exiles-save-manager/pkg/fileops"
)

// CopyError reports the relative path that aborted a run and the underlying
// cause.
type CopyError struct {
	Path  string
	Cause error
}

// Error implements the error interface.
func (e *CopyError) Error() string {
	return "copy error for " + e.Path + ": " + e.Cause.Error()
}

// Unwrap returns the underlying cause.
func (e *CopyError) Unwrap() error {
	return e.Cause
}

// Engine performs one selective copy between two roots.
type Engine struct {
	SourceRoot string
	DestRoot   string
	Paths      []string

	emitter EventEmitter
	logger  *zap.SugaredLogger
}

// New creates an engine for one run. paths are relative to both roots, in
// configuration order; directory entries carry the trailing slash marker.
func New(sourceRoot, destRoot string, paths []string, logger *zap.SugaredLogger) *Engine {
	return &Engine{
		SourceRoot: sourceRoot,
		DestRoot:   destRoot,
		Paths:      paths,
		logger:     logger,
	}
}

// SetEventEmitter sets the event emitter for UI communication.
// The emitter is optional - if nil, no events are emitted.
func (e *Engine) SetEventEmitter(emitter EventEmitter) {
	e.emitter = emitter
}

// Run processes every configured path in order. It blocks until all paths
// are processed or the first failing path aborts the run, so callers drive it
// from a worker goroutine, not the UI loop. There is no mid-run cancellation.
func (e *Engine) Run() error {
	total := len(e.Paths)
	result := &Result{}

	e.emit(CopyStarted{Total: total})

	for i, rel := range e.Paths {
		trimmed := strings.TrimSuffix(rel, config.DirSuffix)
		src := filepath.Join(e.SourceRoot, filepath.FromSlash(trimmed))
		dst := filepath.Join(e.DestRoot, filepath.FromSlash(trimmed))

		info, err := os.Stat(src)
		if os.IsNotExist(err) {
			e.logger.Warnf("source path does not exist, skipping: %s", src)
			e.emit(PathSkipped{Path: rel})

			result.PathsSkipped++
			e.emit(Progress{Completed: i + 1, Total: total})

			continue
		}

		if err != nil {
			return e.fail(rel, err)
		}

		var (
			files int
			bytes int64
		)

		if info.IsDir() {
			files, bytes, err = fileops.CopyTree(src, dst)
		} else {
			bytes, err = fileops.CopyFile(src, dst)
			files = 1
		}

		if err != nil {
			return e.fail(rel, err)
		}

		result.PathsCopied++
		result.FilesCopied += files
		result.BytesCopied += bytes

		e.emit(PathCopied{Path: rel, Files: files, Bytes: bytes})
		e.emit(Progress{Completed: i + 1, Total: total})
	}

	e.logger.Infof("copy complete: %d paths copied, %d skipped, %d files, %d bytes",
		result.PathsCopied, result.PathsSkipped, result.FilesCopied, result.BytesCopied)
	e.emit(CopyComplete{Result: result})

	return nil
}

// emit sends an event if an emitter is configured.
// Safe to call even when emitter is nil.
func (e *Engine) emit(event Event) {
	if e.emitter != nil {
		e.emitter.Emit(event)
	}
}

// fail logs and reports the path that aborted the run.
func (e *Engine) fail(rel string, cause error) error {
	copyErr := &CopyError{Path: rel, Cause: cause}

	e.logger.Errorf("copy error for %s: %v", rel, cause)
	e.emit(CopyFailed{Path: rel, Err: copyErr})

	return copyErr
}
