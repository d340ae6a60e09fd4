package scheduling

import (
	"time"

	"github.com/BasedPanda/healthcare-voice-assistant/internal/domain"
)

// Config carries the business-calendar parameters shared by validation and
// slot search. It is passed in at construction and never read from ambient
// state. WorkingHoursEnd is exclusive: the last bookable slot starts strictly
// before it.
type Config struct {
	WorkingHoursStart int
	WorkingHoursEnd   int
	SlotDuration      time.Duration
	MinNotice         time.Duration

	// MaxSearchDays bounds the forward scan of NextAvailableSlot.
	MaxSearchDays int
	// MaxSuggestionProbes bounds the number of candidate slots examined by
	// SuggestAlternatives, so the search terminates even when nothing is
	// available in a reasonable horizon.
	MaxSuggestionProbes int
}

func DefaultConfig() Config {
	return Config{
		WorkingHoursStart:   9,
		WorkingHoursEnd:     17,
		SlotDuration:        30 * time.Minute,
		MinNotice:           time.Hour,
		MaxSearchDays:       30,
		MaxSuggestionProbes: 100,
	}
}

// SlotValidator decides whether a (date, time) pair is a legal appointment
// slot. It is a pure computation over its inputs and the injected clock;
// malformed input yields false, never an error.
type SlotValidator struct {
	cfg Config
	now func() time.Time
}

func NewSlotValidator(cfg Config, now func() time.Time) *SlotValidator {
	if now == nil {
		now = time.Now
	}
	return &SlotValidator{cfg: cfg, now: now}
}

// IsValidSlot reports whether date (YYYY-MM-DD) plus timeOfDay (HH:MM) names
// a bookable instant: parseable, at or after now + minimum notice, within
// working hours, and on a working weekday.
func (v *SlotValidator) IsValidSlot(date, timeOfDay string) bool {
	instant, err := domain.SlotInstant(date, timeOfDay)
	if err != nil {
		return false
	}

	// An instant exactly at now + notice is admissible.
	if instant.Before(v.now().Add(v.cfg.MinNotice)) {
		return false
	}

	hour := instant.Hour()
	if hour < v.cfg.WorkingHoursStart || hour >= v.cfg.WorkingHoursEnd {
		return false
	}

	return !isWeekend(instant)
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
