package watcher

import (
	"slices"
	"strings"
	"sync"
	"time"
)

// Change is one collapsed file system change inside a batch.
type Change struct {
	Path string
	Op   ChangeOp
}

// ChangeOp is the kind of file system change.
type ChangeOp int

const (
	OpCreate ChangeOp = iota
	OpWrite
	OpRemove
	OpRename
	// OpIgnoreRules marks a change to an ignore file; the filter rules must be
	// reloaded before the next pass.
	OpIgnoreRules
)

func (op ChangeOp) String() string {
	switch op {
	case OpCreate:
		return "create"
	case OpWrite:
		return "write"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	case OpIgnoreRules:
		return "ignore-rules"
	}
	return "unknown"
}

// Debouncer collects changes and emits them as one batch after a quiet period.
// Changes to the same path within a window collapse into the latest one. The
// output holds at most one batch: while the consumer is busy (typically with a
// full reindex) further changes accumulate and are delivered together.
type Debouncer struct {
	interval time.Duration
	pending  map[string]Change
	mu       sync.Mutex
	timer    *time.Timer
	output   chan []Change
}

// NewDebouncer creates a debouncer with the specified quiet interval.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{
		interval: interval,
		pending:  make(map[string]Change),
		output:   make(chan []Change, 1),
	}
}

// Output returns the channel that receives batches sorted by path.
func (d *Debouncer) Output() <-chan []Change {
	return d.output
}

// Add records a change and restarts the quiet period.
func (d *Debouncer) Add(path string, op ChangeOp) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending[path] = Change{Path: path, Op: op}
	d.schedule()
}

// Stop cancels a pending flush. Undelivered changes are dropped.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = make(map[string]Change)
}

func (d *Debouncer) schedule() {
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, d.flush)
}

// flush hands the pending changes to the consumer. If the previous batch has
// not been taken yet the changes stay pending and the flush is retried.
func (d *Debouncer) flush() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.pending) == 0 {
		return
	}

	batch := make([]Change, 0, len(d.pending))
	for _, change := range d.pending {
		batch = append(batch, change)
	}
	slices.SortFunc(batch, func(a, b Change) int {
		return strings.Compare(a.Path, b.Path)
	})

	select {
	case d.output <- batch:
		d.pending = make(map[string]Change)
	default:
		d.schedule()
	}
}
