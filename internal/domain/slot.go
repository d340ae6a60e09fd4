package domain

import (
	"time"
)

// Canonical wire formats for slot dates and times. Slots are wall-clock
// values in the process's local time zone.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Slot is an ephemeral (date, time) pair at the granularity of the
// configured appointment duration. It is never persisted on its own.
type Slot struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// SlotInstant parses a date (YYYY-MM-DD) and a time-of-day (HH:MM) into a
// single local instant. Malformed input is reported as an error, never a
// panic; callers in the validation path translate it to "not a legal slot".
func SlotInstant(date, timeOfDay string) (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+TimeLayout, date+" "+timeOfDay, time.Local)
}

// SlotFromTime truncates an instant to slot granularity.
func SlotFromTime(t time.Time) Slot {
	return Slot{
		Date: t.Format(DateLayout),
		Time: t.Format(TimeLayout),
	}
}

// Instant converts the slot back into a local time.Time.
func (s Slot) Instant() (time.Time, error) {
	return SlotInstant(s.Date, s.Time)
}
