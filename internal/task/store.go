package task

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
)

var (
	// ErrNotFound means an operation referenced a task id that is not in
	// the store. The caller's id bookkeeping is stale.
	ErrNotFound = errors.New("task not found")
	// ErrIndexOutOfRange means a subtask index fell outside the task's
	// subtask list.
	ErrIndexOutOfRange = errors.New("subtask index out of range")
	// ErrInvalidPermutation means a reorder sequence was not an exact
	// permutation of the current task ids.
	ErrInvalidPermutation = errors.New("not a permutation of current task ids")
)

// Store owns the canonical (manual) task order and the active sort mode.
// Every mutation is synchronous; on success the caller is expected to
// persist the store and re-present the list. Failed persistence does not
// roll the store back.
type Store struct {
	tasks []Task
	mode  SortMode
}

// NewStore builds a store from persisted state. An invalid mode falls back
// to SortManual so a corrupted preference cannot wedge startup.
func NewStore(tasks []Task, mode SortMode) *Store {
	if !mode.valid() {
		mode = SortManual
	}
	return &Store{tasks: slices.Clone(tasks), mode: mode}
}

// Tasks returns a copy of the tasks in canonical order.
func (s *Store) Tasks() []Task {
	return slices.Clone(s.tasks)
}

func (s *Store) Len() int { return len(s.tasks) }

func (s *Store) Mode() SortMode { return s.mode }

func (s *Store) Get(id string) (Task, bool) {
	i := s.index(id)
	if i < 0 {
		return Task{}, false
	}
	return s.tasks[i], true
}

// Create assigns a fresh id, appends the task to the end of the manual
// order and returns it. Title validation is the form's job, not the store's.
func (s *Store) Create(d Draft) Task {
	t := Task{
		ID:          uuid.NewString(),
		Title:       d.Title,
		Description: d.Description,
		DueDate:     d.DueDate,
		Subtasks:    newSubtasks(d.Subtasks),
	}
	s.tasks = append(s.tasks, t)
	return t
}

// Edit replaces the task's fields in place, keeping its id, list position
// and completed flag. Subtasks use replace semantics: labels not re-entered
// are dropped, and a re-entered label carries forward the completed flag of
// the first existing subtask with the same text.
func (s *Store) Edit(id string, d Draft) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("edit %q: %w", id, ErrNotFound)
	}
	old := s.tasks[i]
	subs := newSubtasks(d.Subtasks)
	for j := range subs {
		if prev, ok := findSubtask(old.Subtasks, subs[j].Text); ok {
			subs[j].Completed = prev.Completed
		}
	}
	s.tasks[i] = Task{
		ID:          old.ID,
		Title:       d.Title,
		Description: d.Description,
		DueDate:     d.DueDate,
		Completed:   old.Completed,
		Subtasks:    subs,
	}
	return nil
}

func (s *Store) ToggleComplete(id string) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("toggle %q: %w", id, ErrNotFound)
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	return nil
}

// SetSubtaskDone sets the subtask's completed flag to an explicit value; the
// view passes its checkbox state directly rather than asking for a flip.
func (s *Store) SetSubtaskDone(id string, index int, done bool) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("subtask of %q: %w", id, ErrNotFound)
	}
	if index < 0 || index >= len(s.tasks[i].Subtasks) {
		return fmt.Errorf("subtask %d of %q: %w", index, id, ErrIndexOutOfRange)
	}
	s.tasks[i].Subtasks[index].Completed = done
	return nil
}

// Delete removes the task permanently; the manual order of the remaining
// tasks closes over the gap.
func (s *Store) Delete(id string) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("delete %q: %w", id, ErrNotFound)
	}
	s.tasks = slices.Delete(s.tasks, i, i+1)
	return nil
}

// ReconcileOrder replaces the canonical manual order with ids, which must
// contain each current task id exactly once. A malformed sequence (say, a
// task was deleted mid-gesture) fails with ErrInvalidPermutation and leaves
// the order untouched; a task must never be silently dropped or duplicated.
func (s *Store) ReconcileOrder(ids []string) error {
	if len(ids) != len(s.tasks) {
		return fmt.Errorf("reorder of %d ids against %d tasks: %w", len(ids), len(s.tasks), ErrInvalidPermutation)
	}
	byID := make(map[string]int, len(s.tasks))
	for i, t := range s.tasks {
		byID[t.ID] = i
	}
	next := make([]Task, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		i, ok := byID[id]
		if !ok || seen[id] {
			return fmt.Errorf("reorder with id %q: %w", id, ErrInvalidPermutation)
		}
		seen[id] = true
		next = append(next, s.tasks[i])
	}
	s.tasks = next
	return nil
}

func (s *Store) SetSortMode(mode SortMode) error {
	if !mode.valid() {
		return fmt.Errorf("set sort mode: unknown sort mode %q", mode)
	}
	s.mode = mode
	return nil
}

func (s *Store) index(id string) int {
	return slices.IndexFunc(s.tasks, func(t Task) bool { return t.ID == id })
}

func newSubtasks(labels []string) []Subtask {
	subs := make([]Subtask, 0, len(labels))
	for _, text := range labels {
		subs = append(subs, Subtask{Text: text})
	}
	return subs
}

func findSubtask(subs []Subtask, text string) (Subtask, bool) {
	for _, st := range subs {
		if st.Text == text {
			return st, true
		}
	}
	return Subtask{}, false
}
