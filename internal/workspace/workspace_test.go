package workspace

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"phone8ez/domain/core"
	"phone8ez/domain/dataset"
	"phone8ez/internal"
	"phone8ez/internal/shortcut"
)

func ds(id, name string) dataset.Dataset {
	return dataset.Dataset{
		ID:   dataset.ID(id),
		Name: name,
		Type: dataset.TypeNormal,
		Data: dataset.SheetPayload{SheetData: [][]string{{"모델", name}}},
	}
}

func names(c dataset.Collection) []string {
	out := make([]string, len(c))
	for i, d := range c {
		out[i] = d.Name
	}
	return out
}

func TestFirstEditIsUndoable(t *testing.T) {
	w := New("a@example.com", 0)
	defer w.Close()

	assert.Equal(t, State{}, w.State())

	w.Add(ds("1", "SKT"))
	assert.Equal(t, State{CanUndo: true, UndoDepth: 1, Count: 1}, w.State())

	require.True(t, w.Undo())
	assert.Empty(t, w.Datasets())
	assert.False(t, w.Undo())
}

func TestEditsUndoInOrder(t *testing.T) {
	w := New("a@example.com", 0)
	defer w.Close()

	w.Add(ds("1", "SKT"), ds("2", "KT"))
	_, err := w.Rename("1", " SKT 3월 ")
	require.NoError(t, err)
	require.NoError(t, w.Remove("2"))
	assert.Equal(t, []string{"SKT 3월"}, names(w.Datasets()))

	require.True(t, w.Undo())
	assert.Equal(t, []string{"SKT 3월", "KT"}, names(w.Datasets()))
	require.True(t, w.Undo())
	assert.Equal(t, []string{"SKT", "KT"}, names(w.Datasets()))

	require.True(t, w.Redo())
	assert.Equal(t, []string{"SKT 3월", "KT"}, names(w.Datasets()))

	w.Add(ds("3", "LGU+"))
	assert.False(t, w.State().CanRedo)
}

func TestEditErrorsRecordNothing(t *testing.T) {
	w := New("a@example.com", 0)
	defer w.Close()
	w.Add(ds("1", "SKT"))

	_, err := w.Rename("missing", "x")
	assert.True(t, core.IsNotFoundError(err))
	_, err = w.Rename("1", "   ")
	assert.True(t, core.IsValidationError(err))
	assert.True(t, core.IsNotFoundError(w.Remove("missing")))
	_, err = w.Get("missing")
	assert.ErrorIs(t, err, core.ErrNotFound)

	assert.Equal(t, 1, w.State().UndoDepth)
}

func TestDatasetsReturnsCopy(t *testing.T) {
	w := New("a@example.com", 0)
	defer w.Close()
	w.Add(ds("1", "SKT"))

	c := w.Datasets()
	c[0].Name = "changed"
	c[0].Data.SheetData[0][1] = "changed"

	got, err := w.Get("1")
	require.NoError(t, err)
	assert.Equal(t, "SKT", got.Name)
	assert.Equal(t, "SKT", got.Data.SheetData[0][1])
}

func TestReplaceIsUndoableResetIsNot(t *testing.T) {
	w := New("a@example.com", 0)
	defer w.Close()
	w.Add(ds("1", "SKT"))

	w.ReplaceDatasets(dataset.Collection{ds("9", "imported")})
	assert.Equal(t, []string{"imported"}, names(w.Datasets()))
	require.True(t, w.Undo())
	assert.Equal(t, []string{"SKT"}, names(w.Datasets()))

	w.Reset(nil)
	assert.Empty(t, w.Datasets())
	assert.Equal(t, 1, w.State().UndoDepth)
	assert.Equal(t, 1, w.State().RedoDepth)
}

func TestHistoryLimit(t *testing.T) {
	w := New("a@example.com", 2)
	defer w.Close()

	for i := 0; i < 5; i++ {
		w.Add(ds(string(rune('a'+i)), "x"))
	}
	assert.Equal(t, 2, w.State().UndoDepth)
}

func TestHandleKey(t *testing.T) {
	w := New("a@example.com", 0)
	w.Add(ds("1", "SKT"))

	assert.True(t, w.HandleKey(shortcut.Event{Key: "z", Meta: true}))
	assert.Empty(t, w.Datasets())
	assert.True(t, w.HandleKey(shortcut.Event{Key: "Z", Ctrl: true, Shift: true}))
	assert.Len(t, w.Datasets(), 1)
	assert.False(t, w.HandleKey(shortcut.Event{Key: "s", Ctrl: true}))

	w.Close()
	w.Close()
	assert.True(t, w.Closed())
	assert.False(t, w.HandleKey(shortcut.Event{Key: "z", Ctrl: true}))
	assert.Len(t, w.Datasets(), 1)
}

func TestConcurrentAdds(t *testing.T) {
	w := New("a@example.com", 0)
	defer w.Close()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.Add(ds(string(dataset.NewID()), "x"))
		}()
	}
	wg.Wait()

	assert.Len(t, w.Datasets(), 50)
	assert.Equal(t, 50, w.State().UndoDepth)
}

func TestConcurrentAddsAndEdits(t *testing.T) {
	w := New("a@example.com", 0)
	defer w.Close()

	w.Add(ds("base", "base"), ds("gone", "gone"))

	const adds = 200
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		for i := 0; i < adds; i++ {
			w.Add(ds(string(dataset.NewID()), "x"))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < adds; i++ {
			_, err := w.Rename("base", fmt.Sprintf("base %d", i))
			assert.NoError(t, err)
		}
	}()
	go func() {
		defer wg.Done()
		assert.NoError(t, w.Remove("gone"))
	}()
	wg.Wait()

	c := w.Datasets()
	assert.Len(t, c, adds+1)
	base, ok := c.Find("base")
	require.True(t, ok)
	assert.Equal(t, fmt.Sprintf("base %d", adds-1), base.Name)
}

func TestAddCopiesDatasets(t *testing.T) {
	w := New("a@example.com", 0)
	defer w.Close()

	d := ds("1", "SKT")
	w.Add(d)
	d.Data.SheetData[0][1] = "changed"

	got, err := w.Get("1")
	require.NoError(t, err)
	assert.Equal(t, "SKT", got.Data.SheetData[0][1])
}

func TestRegistryGetAndDrop(t *testing.T) {
	r := NewRegistry(Config{}, internal.NewNopLogger())

	a := r.Get("a@example.com")
	assert.Same(t, a, r.Get("a@example.com"))
	assert.NotSame(t, a, r.Get("b@example.com"))
	assert.Equal(t, 2, r.Len())

	assert.True(t, r.Drop("a@example.com"))
	assert.True(t, a.Closed())
	assert.False(t, r.Drop("a@example.com"))
	assert.Equal(t, 1, r.Len())

	b := r.Get("b@example.com")
	assert.Equal(t, 1, r.CloseAll())
	assert.True(t, b.Closed())
	assert.Zero(t, r.Len())
}

func TestRegistrySweep(t *testing.T) {
	clock := time.Date(2025, 3, 7, 9, 0, 0, 0, time.UTC)
	r := NewRegistry(Config{IdleTTL: time.Hour}, internal.NewNopLogger())
	r.now = func() time.Time { return clock }

	idle := r.Get("idle@example.com")
	clock = clock.Add(45 * time.Minute)
	busy := r.Get("busy@example.com")

	assert.Equal(t, 0, r.Sweep(clock))
	assert.Equal(t, 1, r.Sweep(clock.Add(30*time.Minute)))

	assert.True(t, idle.Closed())
	assert.False(t, busy.Closed())
	assert.Equal(t, 1, r.Len())
	assert.NotSame(t, idle, r.Get("idle@example.com"))
}

func TestRegistryGetKeepsWorkspaceAlive(t *testing.T) {
	clock := time.Date(2025, 3, 7, 9, 0, 0, 0, time.UTC)
	r := NewRegistry(Config{IdleTTL: time.Hour}, internal.NewNopLogger())
	r.now = func() time.Time { return clock }

	w := r.Get("a@example.com")
	clock = clock.Add(2 * time.Hour)

	assert.Same(t, w, r.Get("a@example.com"))
	assert.Equal(t, 0, r.Sweep(clock))
	assert.False(t, w.Closed())
}

func TestRegistryRunStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := NewRegistry(Config{IdleTTL: time.Nanosecond, SweepInterval: time.Millisecond}, internal.NewNopLogger())
	r.Get("a@example.com")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return r.Len() == 0 }, time.Second, time.Millisecond)
	cancel()
	<-done
}
