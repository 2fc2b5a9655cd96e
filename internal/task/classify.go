package task

import "time"

// Urgency buckets a due date relative to today.
type Urgency int

const (
	UrgencyNone Urgency = iota
	UrgencyOverdue
	UrgencyToday
	UrgencyNear
	UrgencySafe
)

func (u Urgency) String() string {
	switch u {
	case UrgencyOverdue:
		return "overdue"
	case UrgencyToday:
		return "due today"
	case UrgencyNear:
		return "due soon"
	case UrgencySafe:
		return "on track"
	}
	return ""
}

// Classify maps a due date to its urgency bucket relative to now, both
// truncated to calendar days. It must be called on every render rather than
// cached, so the buckets roll over at midnight.
func Classify(due Date, now time.Time) Urgency {
	if due.IsZero() {
		return UrgencyNone
	}
	days := due.DaysFrom(DateOf(now))
	switch {
	case days < 0:
		return UrgencyOverdue
	case days == 0:
		return UrgencyToday
	case days <= 7:
		return UrgencyNear
	}
	return UrgencySafe
}
