package scheduling

import (
	"testing"
	"time"
)

// 2025-01-03 is a Friday; 2025-01-04/05 are the weekend; 2025-01-06 a Monday.
func fridayMorning() time.Time {
	return time.Date(2025, 1, 3, 8, 0, 0, 0, time.Local)
}

func TestIsValidSlot(t *testing.T) {
	v := NewSlotValidator(DefaultConfig(), fridayMorning)

	cases := []struct {
		name string
		date string
		tod  string
		want bool
	}{
		{"weekday within hours", "2025-01-06", "09:00", true},
		{"last slot before closing", "2025-01-06", "16:30", true},
		{"before opening", "2025-01-06", "08:30", false},
		{"at closing hour", "2025-01-06", "17:00", false},
		{"after closing", "2025-01-06", "17:30", false},
		{"saturday", "2025-01-04", "10:00", false},
		{"sunday", "2025-01-05", "10:00", false},
		{"in the past", "2025-01-02", "10:00", false},
		{"malformed date", "2025-13-40", "10:00", false},
		{"malformed time", "2025-01-06", "10am", false},
		{"empty input", "", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := v.IsValidSlot(tc.date, tc.tod); got != tc.want {
				t.Fatalf("IsValidSlot(%q, %q) = %v, want %v", tc.date, tc.tod, got, tc.want)
			}
		})
	}
}

func TestIsValidSlot_NoticeBoundary(t *testing.T) {
	// now = Friday 08:00, notice = 1h. A slot exactly at now + notice is
	// admissible; one minute earlier is not.
	v := NewSlotValidator(DefaultConfig(), fridayMorning)

	if !v.IsValidSlot("2025-01-03", "09:00") {
		t.Fatalf("slot exactly at now + notice should be valid")
	}

	later := NewSlotValidator(DefaultConfig(), func() time.Time {
		return time.Date(2025, 1, 3, 8, 1, 0, 0, time.Local)
	})
	if later.IsValidSlot("2025-01-03", "09:00") {
		t.Fatalf("slot inside the notice window should be invalid")
	}
}

func TestIsValidSlot_CustomHours(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WorkingHoursStart = 10
	cfg.WorkingHoursEnd = 14
	v := NewSlotValidator(cfg, fridayMorning)

	if v.IsValidSlot("2025-01-06", "09:30") {
		t.Fatalf("09:30 should be outside 10-14 hours")
	}
	if !v.IsValidSlot("2025-01-06", "13:30") {
		t.Fatalf("13:30 should be inside 10-14 hours")
	}
	if v.IsValidSlot("2025-01-06", "14:00") {
		t.Fatalf("14:00 should be excluded by the exclusive end")
	}
}
