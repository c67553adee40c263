package history

import (
	"fmt"
	"slices"
	"testing"
)

func recordAll(h *History[int], vals ...int) {
	for _, v := range vals {
		h.Record(v)
	}
}

func TestEmpty(t *testing.T) {
	h := New[int](0)
	if h.Limit() != DefaultLimit {
		t.Errorf("Limit() = %d, want %d", h.Limit(), DefaultLimit)
	}
	if h.CanUndo() || h.CanRedo() {
		t.Error("empty history can undo or redo")
	}
	if _, ok := h.Current(); ok {
		t.Error("Current() on empty history returned ok")
	}
	if _, ok := h.Undo(); ok {
		t.Error("Undo() on empty history returned ok")
	}
	if h.Suppressed() {
		t.Error("failed Undo armed suppression")
	}
}

func TestUndoRedo(t *testing.T) {
	h := New[int](10)
	recordAll(h, 1, 2, 3)

	if v, ok := h.Undo(); !ok || v != 2 {
		t.Fatalf("Undo() = %d, %v; want 2, true", v, ok)
	}
	if v, ok := h.Undo(); !ok || v != 1 {
		t.Fatalf("Undo() = %d, %v; want 1, true", v, ok)
	}
	if h.CanUndo() {
		t.Error("CanUndo() at the oldest entry")
	}
	if v, ok := h.Redo(); !ok || v != 2 {
		t.Fatalf("Redo() = %d, %v; want 2, true", v, ok)
	}
	if !h.CanRedo() {
		t.Error("CanRedo() = false with an entry ahead")
	}
}

func TestRecordSuppressedAfterUndo(t *testing.T) {
	h := New[int](10)
	recordAll(h, 1, 2, 3)

	restored, _ := h.Undo()
	if h.Record(restored) {
		t.Error("echo of the restored snapshot was recorded")
	}
	if h.Len() != 3 || h.Cursor() != 1 {
		t.Fatalf("after echo Len=%d Cursor=%d, want 3 and 1", h.Len(), h.Cursor())
	}
	if !h.CanRedo() {
		t.Error("echo discarded the redo tail")
	}

	if !h.Record(9) {
		t.Fatal("second Record after Undo was skipped")
	}
	if got := h.Entries(); !slices.Equal(got, []int{1, 2, 9}) {
		t.Errorf("Entries() = %v, want [1 2 9]", got)
	}
	if h.CanRedo() {
		t.Error("redo tail kept after a new record")
	}
}

func TestCapacity(t *testing.T) {
	h := New[int](DefaultLimit)
	for i := range 100 {
		h.Record(i)
	}
	if h.Len() != DefaultLimit {
		t.Fatalf("Len() = %d, want %d", h.Len(), DefaultLimit)
	}
	if h.Cursor() != DefaultLimit-1 {
		t.Fatalf("Cursor() = %d, want %d", h.Cursor(), DefaultLimit-1)
	}

	var last int
	undos := 0
	for h.CanUndo() {
		last, _ = h.Undo()
		undos++
	}
	if undos != DefaultLimit-1 {
		t.Errorf("undid %d times, want %d", undos, DefaultLimit-1)
	}
	if last != 50 {
		t.Errorf("oldest retained snapshot = %d, want 50", last)
	}
}

func TestCursorStaysInBounds(t *testing.T) {
	h := New[int](5)
	ops := "rrurrrruuuuuurrrrrrrurur"
	for i, op := range ops {
		switch op {
		case 'r':
			h.Record(i)
		case 'u':
			h.Undo()
		}
		if h.Len() > h.Limit() {
			t.Fatalf("step %d: Len() = %d exceeds limit", i, h.Len())
		}
		if c := h.Cursor(); c < -1 || c >= h.Len() {
			t.Fatalf("step %d: Cursor() = %d out of range [0,%d)", i, c, h.Len())
		}
	}
}

func TestRestore(t *testing.T) {
	tests := []struct {
		name       string
		entries    []int
		cursor     int
		limit      int
		wantCursor int
		wantLen    int
	}{
		{"as saved", []int{1, 2, 3}, 1, 10, 1, 3},
		{"cursor past end", []int{1, 2, 3}, 7, 10, 2, 3},
		{"negative cursor", []int{1, 2, 3}, -4, 10, 0, 3},
		{"empty", nil, 3, 10, -1, 0},
		{"over limit", []int{1, 2, 3, 4, 5}, 4, 3, 2, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Restore(tt.entries, tt.cursor, tt.limit)
			if h.Cursor() != tt.wantCursor || h.Len() != tt.wantLen {
				t.Errorf("Restore() cursor=%d len=%d, want %d and %d", h.Cursor(), h.Len(), tt.wantCursor, tt.wantLen)
			}
			if h.Suppressed() {
				t.Error("restored history starts suppressed")
			}
		})
	}
}

func TestEntriesIsACopy(t *testing.T) {
	h := New[int](3)
	recordAll(h, 1, 2)
	e := h.Entries()
	e[0] = 42
	if v := h.Entries()[0]; v != 1 {
		t.Errorf("Entries() aliases internal storage: got %d", v)
	}
}

func ExampleHistory() {
	h := New[string](DefaultLimit)
	h.Record("a")
	h.Record("ab")
	h.Record("abc")

	prev, _ := h.Undo()
	h.Record(prev) // the change notification caused by the undo
	fmt.Println(prev, h.Len(), h.CanRedo())

	h.Record("abX")
	fmt.Println(h.Entries())
	// Output:
	// ab 3 true
	// [a ab abX]
}
