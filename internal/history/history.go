package history

import (
	"sync"
)

// History manages undo/redo state for a single value.
//
// Thread Safety:
// History is safe for concurrent use. Each operation completes under the
// lock, so concurrent callers observe a linear sequence of transitions.
type History[T any] struct {
	mu sync.Mutex

	current     T
	initialized bool

	undoStack []T
	redoStack []T

	limit int
	clone func(T) T
}

// Option configures a History
type Option[T any] func(*History[T])

// WithLimit bounds the undo stack. Once full, the oldest snapshot is dropped
// and can no longer be restored. Zero or negative means unbounded.
func WithLimit[T any](n int) Option[T] {
	return func(h *History[T]) {
		if n > 0 {
			h.limit = n
		}
	}
}

// WithClone sets the copy function applied to values entering and leaving
// the history, so callers never share memory with stored snapshots.
func WithClone[T any](fn func(T) T) Option[T] {
	return func(h *History[T]) {
		if fn != nil {
			h.clone = fn
		}
	}
}

// New creates a history whose current value is initial. The history is not
// yet initialized: the next SetWithUndo does not record initial.
func New[T any](initial T, opts ...Option[T]) *History[T] {
	h := &History[T]{
		clone: func(v T) T { return v },
	}
	for _, opt := range opts {
		opt(h)
	}
	h.current = h.clone(initial)
	return h
}

// Current returns a copy of the current value
func (h *History[T]) Current() T {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.clone(h.current)
}

// SetWithUndo installs next. If the history has been initialized, the value
// being replaced is pushed onto the undo stack and the redo stack is cleared.
func (h *History[T]) SetWithUndo(next T) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.initialized {
		h.pushUndoLocked(h.current)
		h.redoStack = nil
	}
	h.current = h.clone(next)
	h.initialized = true
}

// SetWithoutUndo installs next without touching either stack
func (h *History[T]) SetWithoutUndo(next T) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.current = h.clone(next)
	h.initialized = true
}

// Update derives the next value from a copy of the current one and records
// it with SetWithUndo semantics. fn runs under the lock.
func (h *History[T]) Update(fn func(T) T) T {
	h.mu.Lock()
	defer h.mu.Unlock()

	next := fn(h.clone(h.current))
	if h.initialized {
		h.pushUndoLocked(h.current)
		h.redoStack = nil
	}
	h.current = next
	h.initialized = true
	return h.clone(next)
}

// Undo restores the most recent snapshot. It reports false, changing
// nothing, when the undo stack is empty.
func (h *History[T]) Undo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undoStack) == 0 {
		return false
	}
	last := len(h.undoStack) - 1
	prev := h.undoStack[last]
	h.undoStack = h.undoStack[:last]

	h.redoStack = append(h.redoStack, h.current)
	h.current = prev
	return true
}

// Redo reapplies the most recently undone value. It reports false, changing
// nothing, when the redo stack is empty.
func (h *History[T]) Redo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redoStack) == 0 {
		return false
	}
	last := len(h.redoStack) - 1
	next := h.redoStack[last]
	h.redoStack = h.redoStack[:last]

	h.pushUndoLocked(h.current)
	h.current = next
	return true
}

// CanUndo returns true if undo is available
func (h *History[T]) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available
func (h *History[T]) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack) > 0
}

// UndoDepth returns the number of undo steps available
func (h *History[T]) UndoDepth() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// RedoDepth returns the number of redo steps available
func (h *History[T]) RedoDepth() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack)
}

// Initialized reports whether a value has been installed since construction
func (h *History[T]) Initialized() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.initialized
}

func (h *History[T]) pushUndoLocked(v T) {
	h.undoStack = append(h.undoStack, v)
	if h.limit > 0 && len(h.undoStack) > h.limit {
		excess := len(h.undoStack) - h.limit
		// Zero out dropped entries so large snapshots can be collected.
		var zero T
		for i := 0; i < excess; i++ {
			h.undoStack[i] = zero
		}
		h.undoStack = h.undoStack[excess:]
	}
}
