package task

import (
	"encoding/json"
	"time"
)

// DateLayout is the input and wire format for due dates.
const DateLayout = "2006-01-02"

// Date is a calendar date with no time component. The zero value means
// "no due date", which is distinct from any real date.
type Date struct {
	t     time.Time
	valid bool
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC), valid: true}
}

// DateOf truncates t to calendar-day granularity in t's location.
func DateOf(t time.Time) Date {
	return NewDate(t.Date())
}

// ParseDate parses a YYYY-MM-DD string. The empty string is the absent date.
func ParseDate(v string) (Date, error) {
	if v == "" {
		return Date{}, nil
	}
	t, err := time.Parse(DateLayout, v)
	if err != nil {
		return Date{}, err
	}
	return Date{t: t, valid: true}, nil
}

func (d Date) IsZero() bool { return !d.valid }

// String formats the date as YYYY-MM-DD, or "" for the absent date.
func (d Date) String() string {
	if !d.valid {
		return ""
	}
	return d.t.Format(DateLayout)
}

// Format renders the date in an arbitrary time layout, "" when absent.
func (d Date) Format(layout string) string {
	if !d.valid {
		return ""
	}
	return d.t.Format(layout)
}

func (d Date) Compare(other Date) int {
	return d.t.Compare(other.t)
}

// DaysFrom returns the number of calendar days from base to d. Negative when
// d is earlier than base.
func (d Date) DaysFrom(base Date) int {
	return int(d.t.Sub(base.t) / (24 * time.Hour))
}

// The wire format is the plain YYYY-MM-DD string, "" when absent.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
