package syncengine

// Event is the interface implemented by all sync engine events.
type Event interface {
	isEvent()
}

// EventEmitter is the interface for emitting events.
type EventEmitter interface {
	Emit(event Event)
}

// CopyStarted is emitted once before any path is processed.
type CopyStarted struct {
	Total int // number of configured paths
}

func (CopyStarted) isEvent() {}

// PathSkipped is emitted for a configured path that no longer exists at the
// source. Skipping is not an error.
type PathSkipped struct {
	Path string
}

func (PathSkipped) isEvent() {}

// PathCopied is emitted when one configured path has been fully copied.
type PathCopied struct {
	Path  string
	Files int
	Bytes int64
}

func (PathCopied) isEvent() {}

// Progress is emitted after each path completes, copied or skipped.
type Progress struct {
	Completed int
	Total     int
}

func (Progress) isEvent() {}

// Percent returns the completion percentage, 0-100.
func (p Progress) Percent() int {
	if p.Total == 0 {
		return 100
	}

	return p.Completed * 100 / p.Total
}

// CopyComplete is emitted when every path has been processed successfully.
type CopyComplete struct {
	Result *Result
}

func (CopyComplete) isEvent() {}

// CopyFailed is the terminal event when a path aborts the run.
type CopyFailed struct {
	Path string
	Err  error
}

func (CopyFailed) isEvent() {}

// Result summarizes a successful run.
type Result struct {
	PathsCopied  int
	PathsSkipped int
	FilesCopied  int
	BytesCopied  int64
}
