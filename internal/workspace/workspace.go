// Package workspace holds each signed-in user's in-memory dataset collection
// together with its undo/redo history and keyboard bindings.
package workspace

import (
	"strings"
	"sync"
	"time"

	"phone8ez/domain/core"
	"phone8ez/domain/dataset"
	"phone8ez/internal/history"
	"phone8ez/internal/metrics"
	"phone8ez/internal/shortcut"
)

// State is the history summary shown next to the dataset list
type State struct {
	CanUndo   bool `json:"can_undo"`
	CanRedo   bool `json:"can_redo"`
	UndoDepth int  `json:"undo_depth"`
	RedoDepth int  `json:"redo_depth"`
	Count     int  `json:"count"`
}

// Workspace is one user's dataset collection. Every edit except Reset is
// recorded for undo.
type Workspace struct {
	owner    core.Email
	history  *history.History[dataset.Collection]
	keys     *shortcut.Dispatcher
	bindings *shortcut.Subscription
	now      func() time.Time

	// serializes every history transition so read-modify-write edits never
	// interleave with adds, undo or redo
	editMu sync.Mutex

	mu       sync.Mutex
	lastUsed time.Time
	closed   bool
}

// New creates an empty workspace. historyLimit <= 0 keeps unbounded history.
func New(owner core.Email, historyLimit int) *Workspace {
	return newWorkspace(owner, historyLimit, time.Now)
}

func newWorkspace(owner core.Email, historyLimit int, now func() time.Time) *Workspace {
	h := history.New(dataset.Collection{},
		history.WithClone(dataset.Collection.Clone),
		history.WithLimit[dataset.Collection](historyLimit),
	)
	// The empty starting collection is a real state the first edit can be
	// undone back to.
	h.SetWithoutUndo(dataset.Collection{})

	keys := shortcut.NewDispatcher()
	w := &Workspace{
		owner:    owner,
		history:  h,
		keys:     keys,
		now:      now,
		lastUsed: now(),
	}
	w.bindings = history.BindShortcuts(keys, h)
	return w
}

// Owner returns the email the workspace belongs to
func (w *Workspace) Owner() core.Email {
	return w.owner
}

// Datasets returns a copy of the current collection
func (w *Workspace) Datasets() dataset.Collection {
	w.touch()
	return w.history.Current()
}

// Get returns the dataset with the given id
func (w *Workspace) Get(id dataset.ID) (dataset.Dataset, error) {
	w.touch()
	d, ok := w.history.Current().Find(id)
	if !ok {
		return dataset.Dataset{}, core.NewNotFoundError("dataset", id.String())
	}
	return d, nil
}

// Add appends datasets as one undoable step
func (w *Workspace) Add(datasets ...dataset.Dataset) dataset.Collection {
	w.touch()
	if len(datasets) == 0 {
		return w.history.Current()
	}
	added := dataset.Collection(datasets).Clone()

	w.editMu.Lock()
	defer w.editMu.Unlock()
	metrics.HistoryTransitions.WithLabelValues("edit").Inc()
	return w.history.Update(func(c dataset.Collection) dataset.Collection {
		return append(c, added...)
	})
}

// Rename changes a dataset's name as one undoable step
func (w *Workspace) Rename(id dataset.ID, name string) (dataset.Dataset, error) {
	w.touch()
	w.editMu.Lock()
	defer w.editMu.Unlock()

	c := w.history.Current()
	i := c.Index(id)
	if i < 0 {
		return dataset.Dataset{}, core.NewNotFoundError("dataset", id.String())
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return dataset.Dataset{}, core.NewValidationError("name", "must not be empty")
	}
	c[i].Name = name
	w.history.SetWithUndo(c)
	metrics.HistoryTransitions.WithLabelValues("edit").Inc()
	return c[i], nil
}

// Remove deletes a dataset as one undoable step
func (w *Workspace) Remove(id dataset.ID) error {
	w.touch()
	w.editMu.Lock()
	defer w.editMu.Unlock()

	c := w.history.Current()
	i := c.Index(id)
	if i < 0 {
		return core.NewNotFoundError("dataset", id.String())
	}
	w.history.SetWithUndo(append(c[:i], c[i+1:]...))
	metrics.HistoryTransitions.WithLabelValues("edit").Inc()
	return nil
}

// ReplaceDatasets swaps in a whole new collection as one undoable step.
// A successful file import lands here.
func (w *Workspace) ReplaceDatasets(datasets dataset.Collection) {
	w.touch()
	w.editMu.Lock()
	defer w.editMu.Unlock()

	if datasets == nil {
		datasets = dataset.Collection{}
	}
	w.history.SetWithUndo(datasets)
	metrics.HistoryTransitions.WithLabelValues("replace").Inc()
}

// Reset installs datasets without recording an undo step
func (w *Workspace) Reset(datasets dataset.Collection) {
	w.touch()
	w.editMu.Lock()
	defer w.editMu.Unlock()

	if datasets == nil {
		datasets = dataset.Collection{}
	}
	w.history.SetWithoutUndo(datasets)
	metrics.HistoryTransitions.WithLabelValues("reset").Inc()
}

// Undo reverts the most recent edit, reporting false when there is none
func (w *Workspace) Undo() bool {
	w.touch()
	w.editMu.Lock()
	defer w.editMu.Unlock()

	ok := w.history.Undo()
	if ok {
		metrics.HistoryTransitions.WithLabelValues("undo").Inc()
	}
	return ok
}

// Redo reapplies the most recently undone edit, reporting false when there is none
func (w *Workspace) Redo() bool {
	w.touch()
	w.editMu.Lock()
	defer w.editMu.Unlock()

	ok := w.history.Redo()
	if ok {
		metrics.HistoryTransitions.WithLabelValues("redo").Inc()
	}
	return ok
}

// HandleKey routes a key event through the workspace bindings. It reports
// whether the client should suppress the event's default action.
func (w *Workspace) HandleKey(e shortcut.Event) bool {
	w.touch()
	w.editMu.Lock()
	defer w.editMu.Unlock()

	handled := w.keys.Dispatch(e)
	if handled {
		metrics.HistoryTransitions.WithLabelValues("key").Inc()
	}
	return handled
}

// State summarizes the history
func (w *Workspace) State() State {
	return State{
		CanUndo:   w.history.CanUndo(),
		CanRedo:   w.history.CanRedo(),
		UndoDepth: w.history.UndoDepth(),
		RedoDepth: w.history.RedoDepth(),
		Count:     len(w.history.Current()),
	}
}

// LastUsed returns when the workspace was last read or edited
func (w *Workspace) LastUsed() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastUsed
}

// Close releases the keyboard bindings. Key events are ignored afterwards.
func (w *Workspace) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	w.mu.Unlock()

	w.bindings.Close()
}

// Closed reports whether Close has been called
func (w *Workspace) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

func (w *Workspace) touch() {
	w.mu.Lock()
	w.lastUsed = w.now()
	w.mu.Unlock()
}
