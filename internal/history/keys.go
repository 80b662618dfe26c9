package history

import (
	"phone8ez/internal/shortcut"
)

var (
	undoChord = shortcut.MustParseChord("mod+z")
	redoChord = shortcut.MustParseChord("mod+shift+z")
)

// BindShortcuts subscribes mod+z to Undo and mod+shift+z to Redo on d.
// A matching chord is always consumed so the client suppresses the platform
// default, even when there is nothing to undo or redo.
// The bindings stay active until the returned subscription is closed.
func BindShortcuts[T any](d *shortcut.Dispatcher, h *History[T]) *shortcut.Subscription {
	return d.Subscribe(func(e shortcut.Event) bool {
		switch {
		case undoChord.Matches(e):
			if h.CanUndo() {
				h.Undo()
			}
			return true
		case redoChord.Matches(e):
			if h.CanRedo() {
				h.Redo()
			}
			return true
		default:
			return false
		}
	})
}
