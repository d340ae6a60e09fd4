package assistant

import (
	"regexp"
	"strings"
	"time"

	"github.com/BasedPanda/healthcare-voice-assistant/internal/domain"
)

// Intent is the action a patient utterance asks for.
type Intent string

const (
	IntentSchedule Intent = "SCHEDULE_APPOINTMENT"
	IntentCheck    Intent = "CHECK_APPOINTMENTS"
	IntentCancel   Intent = "CANCEL_APPOINTMENT"
	IntentNextSlot Intent = "NEXT_AVAILABLE_SLOT"
	IntentExit     Intent = "EXIT"
	IntentUnknown  Intent = "UNKNOWN"
)

// Entities holds the appointment details extracted from an utterance. Empty
// fields mean the utterance did not mention them.
type Entities struct {
	Date     string
	Time     string
	Provider string
	Notes    string
}

// intentRules is ordered: earlier rules win, so "cancel" beats the "make"
// hidden inside other words and "next available" is not swallowed by the
// availability check keywords.
var intentRules = []struct {
	intent   Intent
	patterns []*regexp.Regexp
}{
	{IntentNextSlot, compileWords("next available", "earliest", "soonest")},
	{IntentCancel, compileWords("cancel", "delete", "remove", "reschedule")},
	{IntentSchedule, compileWords("schedule", "book", "make", "set up", "arrange")},
	{IntentCheck, compileWords("check", "view", "show", "list", "what are", "do i have")},
	{IntentExit, compileWords("exit", "quit", "goodbye", "bye")},
}

func compileWords(words ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(words))
	for _, w := range words {
		out = append(out, regexp.MustCompile(`\b`+w+`\b`))
	}
	return out
}

var (
	dateRe   = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
	timeRe   = regexp.MustCompile(`\b(\d{1,2}:\d{2})\b`)
	doctorRe = regexp.MustCompile(`\bdr\.?\s+(\w+)`)
)

// specialties maps spoken descriptions to a provider label.
var specialties = map[string][]string{
	"General":     {"doctor", "physician", "gp", "general practitioner"},
	"Cardiology":  {"cardiologist", "heart doctor", "heart specialist"},
	"Dermatology": {"dermatologist", "skin doctor", "skin specialist"},
	"Pediatrics":  {"pediatrician", "children doctor", "child specialist"},
	"Neurology":   {"neurologist", "brain doctor", "nerve specialist"},
}

// specialtyOrder keeps extraction deterministic; General goes last so a more
// specific mention wins over the generic "doctor".
var specialtyOrder = []string{"Cardiology", "Dermatology", "Pediatrics", "Neurology", "General"}

// ParseIntent classifies the utterance and pulls out any appointment details
// it carries. Dates must be spoken in YYYY-MM-DD form; natural-language dates
// are out of scope for the recognizer.
func ParseIntent(text string) (Intent, Entities) {
	text = strings.ToLower(strings.TrimSpace(text))

	intent := IntentUnknown
	for _, rule := range intentRules {
		if matchAny(rule.patterns, text) {
			intent = rule.intent
			break
		}
	}

	var ents Entities
	switch intent {
	case IntentSchedule, IntentCancel, IntentNextSlot:
		ents = extractEntities(text)
	}
	return intent, ents
}

func matchAny(patterns []*regexp.Regexp, text string) bool {
	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

func extractEntities(text string) Entities {
	var ents Entities

	if m := dateRe.FindStringSubmatch(text); m != nil {
		ents.Date = m[1]
	}
	if m := timeRe.FindStringSubmatch(text); m != nil {
		ents.Time = normalizeTime(m[1])
	}
	ents.Provider = extractProvider(text)
	return ents
}

// normalizeTime pads "9:00" to "09:00"; anything unparseable is dropped.
func normalizeTime(raw string) string {
	t, err := time.Parse(domain.TimeLayout, raw)
	if err != nil {
		return ""
	}
	return t.Format(domain.TimeLayout)
}

func extractProvider(text string) string {
	if m := doctorRe.FindStringSubmatch(text); m != nil {
		return "Dr. " + capitalize(m[1])
	}
	for _, specialty := range specialtyOrder {
		for _, keyword := range specialties[specialty] {
			if strings.Contains(text, keyword) {
				return "Dr. " + specialty + " (Specialist)"
			}
		}
	}
	return ""
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
