package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lista/internal/task"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "lista.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestFirstRunDefaults(t *testing.T) {
	s := openTestStore(t)

	tasks, err := s.LoadTasks()
	require.NoError(t, err)
	assert.Empty(t, tasks)

	mode, err := s.LoadSortMode()
	require.NoError(t, err)
	assert.Equal(t, task.SortManual, mode)
}

func TestSaveAndLoadTasks(t *testing.T) {
	s := openTestStore(t)
	in := []task.Task{
		{
			ID:        "a",
			Title:     "Pay rent",
			DueDate:   task.NewDate(2026, time.September, 1),
			Completed: true,
			Subtasks:  []task.Subtask{{Text: "transfer", Completed: true}},
		},
		{
			ID:          "b",
			Title:       "Call plumber",
			Description: "kitchen sink drips",
			Subtasks:    []task.Subtask{},
		},
	}

	require.NoError(t, s.SaveTasks(in))

	got, err := s.LoadTasks()
	require.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestSaveTasksOverwrites(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.SaveTasks([]task.Task{
		{ID: "a", Title: "one", Subtasks: []task.Subtask{}},
		{ID: "b", Title: "two", Subtasks: []task.Subtask{}},
	}))
	require.NoError(t, s.SaveTasks([]task.Task{
		{ID: "b", Title: "two", Subtasks: []task.Subtask{}},
	}))

	got, err := s.LoadTasks()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)
}

func TestSortModeRoundTrip(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.SaveSortMode(task.SortDueDesc))

	mode, err := s.LoadSortMode()
	require.NoError(t, err)
	assert.Equal(t, task.SortDueDesc, mode)
}

func TestUnknownStoredSortModeFallsBackToManual(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.set(keySortPref, "priority"))

	mode, err := s.LoadSortMode()
	require.NoError(t, err)
	assert.Equal(t, task.SortManual, mode)
}

func TestDataSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lista.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.SaveTasks([]task.Task{{ID: "a", Title: "keep me", Subtasks: []task.Subtask{}}}))
	require.NoError(t, s.SaveSortMode(task.SortTitleAsc))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.LoadTasks()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "keep me", got[0].Title)

	mode, err := s.LoadSortMode()
	require.NoError(t, err)
	assert.Equal(t, task.SortTitleAsc, mode)
}
