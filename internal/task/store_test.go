package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAssignsUniqueIDs(t *testing.T) {
	s := NewStore(nil, SortManual)

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		created := s.Create(Draft{Title: "x"})
		assert.False(t, seen[created.ID])
		seen[created.ID] = true
	}
}

func TestCreateAppendsWithDefaults(t *testing.T) {
	s := NewStore(nil, SortManual)
	s.Create(Draft{Title: "first"})
	created := s.Create(Draft{Title: "second", Subtasks: []string{"a", "b"}})

	tasks := s.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, "second", tasks[1].Title)
	assert.False(t, created.Completed)
	require.Len(t, created.Subtasks, 2)
	assert.Equal(t, Subtask{Text: "a"}, created.Subtasks[0])
	assert.Equal(t, Subtask{Text: "b"}, created.Subtasks[1])
}

func TestEditReconcilesSubtaskCompletion(t *testing.T) {
	s := NewStore(nil, SortManual)
	created := s.Create(Draft{Title: "Groceries", Subtasks: []string{"Buy milk"}})
	require.NoError(t, s.SetSubtaskDone(created.ID, 0, true))

	require.NoError(t, s.Edit(created.ID, Draft{
		Title:    "Groceries",
		Subtasks: []string{"Buy milk", "Buy eggs"},
	}))

	got, ok := s.Get(created.ID)
	require.True(t, ok)
	assert.Equal(t, []Subtask{
		{Text: "Buy milk", Completed: true},
		{Text: "Buy eggs", Completed: false},
	}, got.Subtasks)
}

func TestEditDropsSubtasksNotResubmitted(t *testing.T) {
	s := NewStore(nil, SortManual)
	created := s.Create(Draft{Title: "t", Subtasks: []string{"keep", "drop"}})

	require.NoError(t, s.Edit(created.ID, Draft{Title: "t", Subtasks: []string{"keep"}}))

	got, _ := s.Get(created.ID)
	assert.Equal(t, []Subtask{{Text: "keep"}}, got.Subtasks)
}

func TestEditKeepsCompletedFlagAndPosition(t *testing.T) {
	s := NewStore(nil, SortManual)
	a := s.Create(Draft{Title: "a"})
	b := s.Create(Draft{Title: "b"})
	c := s.Create(Draft{Title: "c"})
	require.NoError(t, s.ToggleComplete(b.ID))

	require.NoError(t, s.Edit(b.ID, Draft{Title: "b2", Description: "changed"}))

	tasks := s.Tasks()
	require.Len(t, tasks, 3)
	assert.Equal(t, []string{a.ID, b.ID, c.ID}, ids(tasks))
	assert.Equal(t, "b2", tasks[1].Title)
	assert.True(t, tasks[1].Completed)
}

func TestEditUnknownID(t *testing.T) {
	s := NewStore(nil, SortManual)
	err := s.Edit("nope", Draft{Title: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestToggleCompleteIsAnInvolution(t *testing.T) {
	s := NewStore(nil, SortManual)
	created := s.Create(Draft{Title: "x"})

	require.NoError(t, s.ToggleComplete(created.ID))
	got, _ := s.Get(created.ID)
	assert.True(t, got.Completed)

	require.NoError(t, s.ToggleComplete(created.ID))
	got, _ = s.Get(created.ID)
	assert.False(t, got.Completed)
}

func TestToggleCompleteUnknownID(t *testing.T) {
	s := NewStore(nil, SortManual)
	assert.ErrorIs(t, s.ToggleComplete("nope"), ErrNotFound)
}

func TestSetSubtaskDoneTakesExplicitValue(t *testing.T) {
	s := NewStore(nil, SortManual)
	created := s.Create(Draft{Title: "x", Subtasks: []string{"a"}})

	// Setting the same value twice is not a flip.
	require.NoError(t, s.SetSubtaskDone(created.ID, 0, true))
	require.NoError(t, s.SetSubtaskDone(created.ID, 0, true))

	got, _ := s.Get(created.ID)
	assert.True(t, got.Subtasks[0].Completed)
}

func TestSetSubtaskDoneBadIndex(t *testing.T) {
	s := NewStore(nil, SortManual)
	created := s.Create(Draft{Title: "x", Subtasks: []string{"a"}})

	assert.ErrorIs(t, s.SetSubtaskDone(created.ID, -1, true), ErrIndexOutOfRange)
	assert.ErrorIs(t, s.SetSubtaskDone(created.ID, 1, true), ErrIndexOutOfRange)
	assert.ErrorIs(t, s.SetSubtaskDone("nope", 0, true), ErrNotFound)
}

func TestDeleteClosesTheGap(t *testing.T) {
	s := NewStore(nil, SortManual)
	a := s.Create(Draft{Title: "a"})
	b := s.Create(Draft{Title: "b"})
	c := s.Create(Draft{Title: "c"})

	require.NoError(t, s.Delete(b.ID))

	assert.Equal(t, []string{a.ID, c.ID}, ids(s.Tasks()))
	assert.ErrorIs(t, s.Delete(b.ID), ErrNotFound)
}

func TestReconcileOrderReplacesManualOrder(t *testing.T) {
	s := NewStore(nil, SortManual)
	a := s.Create(Draft{Title: "a"})
	b := s.Create(Draft{Title: "b"})
	c := s.Create(Draft{Title: "c"})

	require.NoError(t, s.ReconcileOrder([]string{c.ID, a.ID, b.ID}))

	assert.Equal(t, []string{c.ID, a.ID, b.ID}, ids(s.Tasks()))
}

func TestReconcileOrderRejectsBadPermutations(t *testing.T) {
	s := NewStore(nil, SortManual)
	a := s.Create(Draft{Title: "a"})
	b := s.Create(Draft{Title: "b"})
	before := ids(s.Tasks())

	tests := []struct {
		name string
		in   []string
	}{
		{"missing id", []string{a.ID}},
		{"duplicate id", []string{a.ID, a.ID}},
		{"foreign id", []string{a.ID, "nope"}},
		{"extra id", []string{a.ID, b.ID, "extra"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, s.ReconcileOrder(tt.in), ErrInvalidPermutation)
			assert.Equal(t, before, ids(s.Tasks()))
		})
	}
}

func TestSetSortMode(t *testing.T) {
	s := NewStore(nil, SortManual)

	for _, mode := range []SortMode{SortDueAsc, SortDueDesc, SortTitleAsc, SortManual} {
		require.NoError(t, s.SetSortMode(mode))
		assert.Equal(t, mode, s.Mode())
	}

	assert.Error(t, s.SetSortMode(SortMode("priority")))
	assert.Equal(t, SortManual, s.Mode())
}

func TestNewStoreFallsBackToManual(t *testing.T) {
	s := NewStore(nil, SortMode("bogus"))
	assert.Equal(t, SortManual, s.Mode())
}

func TestCreateClassifyDeleteRoundTrip(t *testing.T) {
	now := time.Now()
	s := NewStore(nil, SortManual)
	created := s.Create(Draft{Title: "Pay rent", DueDate: DateOf(now)})

	presented := Present(s.Tasks(), s.Mode())
	require.Len(t, presented, 1)
	assert.Equal(t, UrgencyToday, Classify(presented[0].DueDate, now))

	require.NoError(t, s.Delete(created.ID))
	assert.Equal(t, 0, s.Len())
}

func ids(tasks []Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}
