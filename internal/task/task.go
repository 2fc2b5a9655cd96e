// Package task holds the task list state machine: the record types, the
// store with its mutation operations, the presentation sort and the due-date
// urgency classifier. It does no I/O; persistence and rendering live in
// internal/storage and internal/ui.
package task

import "fmt"

type Subtask struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     Date      `json:"dueDate"`
	Completed   bool      `json:"completed"`
	Subtasks    []Subtask `json:"subtasks"`
}

// Draft carries the user-entered fields of a create or edit form. Subtasks
// are plain labels in entry order; their completion flags are reconciled by
// the store against the task being edited.
type Draft struct {
	Title       string
	Description string
	DueDate     Date
	Subtasks    []string
}

// SortMode selects the presentation order of the list. SortManual is the
// stored order and the only mode the user can rearrange by hand.
type SortMode string

const (
	SortManual   SortMode = "manual"
	SortDueAsc   SortMode = "due-date-asc"
	SortDueDesc  SortMode = "due-date-desc"
	SortTitleAsc SortMode = "title-asc"
)

func (m SortMode) valid() bool {
	switch m {
	case SortManual, SortDueAsc, SortDueDesc, SortTitleAsc:
		return true
	}
	return false
}

func ParseSortMode(v string) (SortMode, error) {
	m := SortMode(v)
	if !m.valid() {
		return SortManual, fmt.Errorf("unknown sort mode %q", v)
	}
	return m, nil
}
