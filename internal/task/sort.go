package task

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// The app is single-threaded, so one shared collator is fine even though
// collate.Collator is not safe for concurrent use.
var titleCollator = collate.New(language.English)

// Present returns the tasks in presentation order for mode without touching
// the input. Manual mode passes the stored order through; the other modes
// are stable comparator sorts, so ties keep their stored relative order.
func Present(tasks []Task, mode SortMode) []Task {
	out := slices.Clone(tasks)
	switch mode {
	case SortDueAsc:
		slices.SortStableFunc(out, func(a, b Task) int { return compareDue(a, b, 1) })
	case SortDueDesc:
		slices.SortStableFunc(out, func(a, b Task) int { return compareDue(a, b, -1) })
	case SortTitleAsc:
		slices.SortStableFunc(out, func(a, b Task) int {
			return titleCollator.CompareString(a.Title, b.Title)
		})
	}
	return out
}

// A task with no due date sorts after every dated task regardless of
// direction; dir only flips the comparison between two real dates.
func compareDue(a, b Task, dir int) int {
	switch {
	case a.DueDate.IsZero() && b.DueDate.IsZero():
		return 0
	case a.DueDate.IsZero():
		return 1
	case b.DueDate.IsZero():
		return -1
	}
	return dir * a.DueDate.Compare(b.DueDate)
}
