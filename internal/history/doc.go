// Package history tracks one evolving value with linear undo/redo.
//
// A History holds the current value and two stacks of earlier snapshots.
// Recording a new value pushes the previous one onto the undo stack and
// discards everything on the redo stack:
//
//	h := history.New(collection, history.WithClone(dataset.Collection.Clone))
//	h.SetWithUndo(next)    // undoable
//	h.SetWithoutUndo(seed) // programmatic reset, not undoable
//	h.Undo()
//	h.Redo()
//
// The first assignment after construction never becomes an undo step: a
// History starts uninitialized, and only once a value has been installed
// does SetWithUndo record the value it replaces.
//
// Stacks are unbounded unless WithLimit is given, in which case the oldest
// snapshot is dropped once the undo stack is full.
//
// BindShortcuts wires mod+z and mod+shift+z to Undo and Redo through a
// shortcut.Dispatcher subscription that the caller closes when done.
package history
