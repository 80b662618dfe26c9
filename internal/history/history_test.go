package history

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstSetIsNotUndoable(t *testing.T) {
	h := New(0)
	assert.False(t, h.Initialized())

	h.SetWithUndo(1)
	assert.True(t, h.Initialized())
	assert.Equal(t, 1, h.Current())
	assert.False(t, h.CanUndo(), "first assignment must not create an undo step")
	assert.False(t, h.CanRedo())

	h.SetWithUndo(2)
	assert.True(t, h.CanUndo())
	assert.False(t, h.CanRedo())
	assert.Equal(t, 2, h.Current())
}

func TestUndoChainRestoresFirstValue(t *testing.T) {
	for n := 2; n <= 12; n++ {
		h := New(-1)
		for v := 1; v <= n; v++ {
			h.SetWithUndo(v)
		}

		for i := 0; i < n-1; i++ {
			require.True(t, h.Undo(), "undo %d of %d", i+1, n-1)
		}
		assert.Equal(t, 1, h.Current(), "n=%d", n)
		assert.False(t, h.CanUndo(), "n=%d", n)
		assert.Equal(t, n-1, h.RedoDepth())
	}
}

func TestRedoAfterUndoRestoresPriorValue(t *testing.T) {
	h := New("")
	h.SetWithUndo("a")
	h.SetWithUndo("b")
	h.SetWithUndo("c")

	before := h.Current()
	require.True(t, h.Undo())
	assert.Equal(t, "b", h.Current())
	require.True(t, h.Redo())
	assert.Equal(t, before, h.Current())

	// undo;redo round trips leave the observable value unchanged
	for i := 0; i < 3; i++ {
		h.Undo()
		h.Redo()
		assert.Equal(t, before, h.Current())
	}
}

func TestSetAfterUndoClearsRedo(t *testing.T) {
	h := New(0)
	h.SetWithUndo(1)
	h.SetWithUndo(2)
	h.SetWithUndo(3)

	h.Undo()
	h.Undo()
	require.True(t, h.CanRedo())

	h.SetWithUndo(10)
	assert.False(t, h.CanRedo())
	assert.False(t, h.Redo())
	assert.Equal(t, 10, h.Current())

	require.True(t, h.Undo())
	assert.Equal(t, 1, h.Current())
}

func TestEmptyStacksAreNoOps(t *testing.T) {
	h := New(7)
	assert.False(t, h.Undo())
	assert.False(t, h.Redo())
	assert.Equal(t, 7, h.Current())
	assert.Equal(t, 0, h.UndoDepth())
	assert.Equal(t, 0, h.RedoDepth())

	h.SetWithUndo(8)
	assert.False(t, h.Undo())
	assert.Equal(t, 8, h.Current())
}

func TestSetWithoutUndoLeavesStacks(t *testing.T) {
	h := New(0)
	h.SetWithUndo(1)
	h.SetWithUndo(2)
	h.Undo()
	require.Equal(t, 1, h.UndoDepth())
	require.Equal(t, 1, h.RedoDepth())

	h.SetWithoutUndo(99)
	assert.Equal(t, 99, h.Current())
	assert.Equal(t, 1, h.UndoDepth())
	assert.Equal(t, 1, h.RedoDepth())
}

func TestSetWithoutUndoInitializes(t *testing.T) {
	h := New(0)
	h.SetWithoutUndo(5)
	h.SetWithUndo(6)
	require.True(t, h.CanUndo())
	h.Undo()
	assert.Equal(t, 5, h.Current())
}

func TestUpdateRecordsStep(t *testing.T) {
	h := New([]int(nil), WithClone(cloneInts))
	h.SetWithoutUndo([]int{1})

	got := h.Update(func(v []int) []int { return append(v, 2) })
	assert.Equal(t, []int{1, 2}, got)
	require.True(t, h.Undo())
	assert.Equal(t, []int{1}, h.Current())
}

func TestCloneIsolatesSnapshots(t *testing.T) {
	h := New([]int(nil), WithClone(cloneInts))
	in := []int{1, 2, 3}
	h.SetWithUndo(in)
	in[0] = 100

	cur := h.Current()
	cur[1] = 200

	assert.Equal(t, []int{1, 2, 3}, h.Current())
}

func TestWithLimitDropsOldest(t *testing.T) {
	h := New(0, WithLimit[int](2))
	for v := 1; v <= 5; v++ {
		h.SetWithUndo(v)
	}
	assert.Equal(t, 2, h.UndoDepth())

	h.Undo()
	h.Undo()
	assert.Equal(t, 3, h.Current())
	assert.False(t, h.Undo())
}

func TestConcurrentSetsAreLinear(t *testing.T) {
	h := New(0)
	h.SetWithoutUndo(0)

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			h.SetWithUndo(v)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, h.UndoDepth())
	for h.Undo() {
	}
	assert.Equal(t, 0, h.Current())
}

func cloneInts(v []int) []int {
	if v == nil {
		return nil
	}
	out := make([]int, len(v))
	copy(out, v)
	return out
}
