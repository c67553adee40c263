// Package history implements a bounded linear undo/redo log.
//
// A [History] holds snapshots of some state T (a diagram graph, or the
// source text of a text-based diagram) and a cursor pointing at the current
// one. Recording a new snapshot after undoing discards the redo tail, so the
// log is always linear.
//
// # Echo Suppression
//
// Callers usually record from a change notification: "the graph changed,
// record it". Undo and redo change the graph too, and recording that change
// would push a duplicate of the entry just restored. [History.Undo] and
// [History.Redo] therefore arm a one-shot flag and the next [History.Record]
// consumes it without recording.
//
// # Capacity
//
// At most Limit snapshots are retained. When a record would exceed the cap,
// the oldest snapshot is evicted.
package history

// DefaultLimit is the number of snapshots retained when no limit is given.
const DefaultLimit = 50

// History is a bounded undo/redo log of snapshots of T.
//
// The zero value is not usable; create one with [New]. History performs no
// copying: T should be a value type or be cloned by the caller before it is
// recorded.
type History[T any] struct {
	entries  []T
	cursor   int
	limit    int
	suppress bool
}

// New returns an empty history retaining at most limit snapshots.
// A limit below 1 selects [DefaultLimit].
func New[T any](limit int) *History[T] {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &History[T]{cursor: -1, limit: limit}
}

// Record appends snapshot as the newest entry and makes it current.
//
// Any entries after the cursor are discarded first. If the previous call
// on h was Undo or Redo, Record clears that flag and records nothing; it
// reports whether snapshot was recorded.
func (h *History[T]) Record(snapshot T) bool {
	if h.suppress {
		h.suppress = false
		return false
	}
	h.entries = append(h.entries[:h.cursor+1], snapshot)
	if over := len(h.entries) - h.limit; over > 0 {
		clear(h.entries[:over])
		h.entries = h.entries[over:]
	}
	h.cursor = len(h.entries) - 1
	return true
}

// Undo moves the cursor one entry back and returns the snapshot there.
// It returns false, leaving h unchanged, when there is nothing to undo.
func (h *History[T]) Undo() (T, bool) {
	if !h.CanUndo() {
		var zero T
		return zero, false
	}
	h.cursor--
	h.suppress = true
	return h.entries[h.cursor], true
}

// Redo moves the cursor one entry forward and returns the snapshot there.
// It returns false, leaving h unchanged, when there is nothing to redo.
func (h *History[T]) Redo() (T, bool) {
	if !h.CanRedo() {
		var zero T
		return zero, false
	}
	h.cursor++
	h.suppress = true
	return h.entries[h.cursor], true
}

// CanUndo reports whether an earlier snapshot exists.
func (h *History[T]) CanUndo() bool { return h.cursor > 0 }

// CanRedo reports whether a later snapshot exists.
func (h *History[T]) CanRedo() bool { return h.cursor < len(h.entries)-1 }

// Current returns the snapshot at the cursor, or false when h is empty.
func (h *History[T]) Current() (T, bool) {
	if h.cursor < 0 {
		var zero T
		return zero, false
	}
	return h.entries[h.cursor], true
}

// Len returns the number of retained snapshots.
func (h *History[T]) Len() int { return len(h.entries) }

// Limit returns the capacity of h.
func (h *History[T]) Limit() int { return h.limit }

// Cursor returns the index of the current snapshot, or -1 when h is empty.
func (h *History[T]) Cursor() int { return h.cursor }

// Suppressed reports whether the next Record will be skipped.
func (h *History[T]) Suppressed() bool { return h.suppress }

// Entries returns the retained snapshots, oldest first. The slice is a
// copy; the snapshots themselves are not.
func (h *History[T]) Entries() []T {
	out := make([]T, len(h.entries))
	copy(out, h.entries)
	return out
}

// Restore returns a history with the given entries and cursor, as saved
// from [History.Entries] and [History.Cursor]. Entries beyond limit are
// dropped from the oldest end and the cursor is clamped into range. The
// suppress flag starts cleared.
func Restore[T any](entries []T, cursor, limit int) *History[T] {
	h := New[T](limit)
	if over := len(entries) - h.limit; over > 0 {
		entries = entries[over:]
		cursor -= over
	}
	h.entries = append([]T(nil), entries...)
	switch {
	case len(h.entries) == 0:
		h.cursor = -1
	case cursor < 0:
		h.cursor = 0
	case cursor >= len(h.entries):
		h.cursor = len(h.entries) - 1
	default:
		h.cursor = cursor
	}
	return h
}
