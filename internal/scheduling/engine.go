package scheduling

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/BasedPanda/healthcare-voice-assistant/internal/domain"
	"github.com/BasedPanda/healthcare-voice-assistant/internal/store"
)

// Reason classifies the outcome of an engine operation so adapters can react
// without parsing the spoken message: offer alternatives on a conflict, map
// to an HTTP status, and so on.
type Reason string

const (
	ReasonOK         Reason = "ok"
	ReasonInvalid    Reason = "invalid"
	ReasonConflict   Reason = "conflict"
	ReasonNotFound   Reason = "not_found"
	ReasonStoreError Reason = "store_error"
)

// Result is the outcome of a booking-related operation: a success flag plus
// a message suitable for direct relay to a text-to-speech collaborator.
type Result struct {
	OK      bool   `json:"success"`
	Reason  Reason `json:"reason"`
	Message string `json:"message"`
}

func success(msg string) Result {
	return Result{OK: true, Reason: ReasonOK, Message: msg}
}

func failure(reason Reason, msg string) Result {
	return Result{OK: false, Reason: reason, Message: msg}
}

// Engine enforces the one-active-appointment-per-slot invariant and provides
// booking, cancellation, lookup and slot search. Durable state and the
// occupancy check live in the AppointmentStore; slot legality lives in the
// SlotValidator. Store failures are logged here and surfaced as failed
// results, never as panics, so the dispatch layer can always speak a reply.
type Engine struct {
	store     store.AppointmentStore
	validator *SlotValidator
	cfg       Config
	log       *slog.Logger
	now       func() time.Time
}

func NewEngine(st store.AppointmentStore, cfg Config, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		store:     st,
		validator: NewSlotValidator(cfg, nil),
		cfg:       cfg,
		log:       log.With(slog.String("component", "scheduling.engine")),
		now:       time.Now,
	}
}

// Schedule books the slot for the given provider. The occupancy check and
// the insert are a single store call, so concurrent attempts on the same
// slot resolve to exactly one winner.
func (e *Engine) Schedule(ctx context.Context, date, timeOfDay, provider, notes string) Result {
	provider = strings.TrimSpace(provider)
	if provider == "" {
		return failure(ReasonInvalid, "A doctor or specialty is required")
	}
	if !e.validator.IsValidSlot(date, timeOfDay) {
		return failure(ReasonInvalid, "Invalid appointment date or time")
	}

	_, err := e.store.Insert(ctx, domain.Appointment{
		Date:         date,
		Time:         timeOfDay,
		Provider:     provider,
		PatientNotes: notes,
		Status:       domain.AppointmentStatusScheduled,
	})
	if errors.Is(err, store.ErrConflict) {
		e.log.Info("slot already booked", slog.String("date", date), slog.String("time", timeOfDay))
		return failure(ReasonConflict, "This time slot is not available")
	}
	if err != nil {
		e.log.Error("appointment insert failed", slog.Any("err", err), slog.String("date", date), slog.String("time", timeOfDay))
		return failure(ReasonStoreError, "An error occurred while scheduling the appointment")
	}

	e.log.Info("appointment scheduled",
		slog.String("date", date),
		slog.String("time", timeOfDay),
		slog.String("provider", provider),
	)
	return success("Appointment scheduled successfully")
}

// Cancel transitions the active appointment at the slot to cancelled.
// Cancelling an already-cancelled or never-booked slot fails cleanly.
func (e *Engine) Cancel(ctx context.Context, date, timeOfDay string) Result {
	err := e.store.MarkCancelled(ctx, date, timeOfDay)
	if errors.Is(err, store.ErrNotFound) {
		return failure(ReasonNotFound, "No appointment found for the specified time")
	}
	if err != nil {
		e.log.Error("appointment cancel failed", slog.Any("err", err), slog.String("date", date), slog.String("time", timeOfDay))
		return failure(ReasonStoreError, "An error occurred while cancelling the appointment")
	}

	e.log.Info("appointment cancelled", slog.String("date", date), slog.String("time", timeOfDay))
	return success("Appointment cancelled successfully")
}

// UpdateNotes replaces the patient notes on the active appointment at the slot.
func (e *Engine) UpdateNotes(ctx context.Context, date, timeOfDay, notes string) Result {
	err := e.store.UpdateNotes(ctx, date, timeOfDay, notes)
	if errors.Is(err, store.ErrNotFound) {
		return failure(ReasonNotFound, "No appointment found for the specified time")
	}
	if err != nil {
		e.log.Error("notes update failed", slog.Any("err", err), slog.String("date", date), slog.String("time", timeOfDay))
		return failure(ReasonStoreError, "An error occurred while updating the notes")
	}
	return success("Appointment notes updated successfully")
}

// List returns the active appointments for one date ordered by time, or,
// with an empty date, all active appointments from today forward ordered by
// (date, time). Cancelled appointments are never included.
func (e *Engine) List(ctx context.Context, date string) ([]domain.Appointment, error) {
	if date == "" {
		return e.store.ListUpcoming(ctx, e.now().Format(domain.DateLayout))
	}
	return e.store.List(ctx, date)
}

// IsAvailable reports whether the slot is both legal and unoccupied. Store
// failures are treated as unavailable.
func (e *Engine) IsAvailable(ctx context.Context, date, timeOfDay string) bool {
	if !e.validator.IsValidSlot(date, timeOfDay) {
		return false
	}
	free, err := e.slotFree(ctx, date, timeOfDay)
	if err != nil {
		e.log.Error("availability check failed", slog.Any("err", err), slog.String("date", date), slog.String("time", timeOfDay))
		return false
	}
	return free
}

// NextAvailableSlot scans forward from fromDate (default: today), sweeping
// each day's working hours in SlotDuration steps, and returns the first
// legal unoccupied slot. The scan gives up after MaxSearchDays days.
func (e *Engine) NextAvailableSlot(ctx context.Context, fromDate string) (domain.Slot, bool, error) {
	start := e.now()
	if fromDate != "" {
		parsed, err := time.ParseInLocation(domain.DateLayout, fromDate, time.Local)
		if err != nil {
			return domain.Slot{}, false, nil
		}
		start = parsed
	}

	for i := 0; i < e.cfg.MaxSearchDays; i++ {
		day := start.AddDate(0, 0, i)
		open := e.openingOn(day)
		closing := time.Date(day.Year(), day.Month(), day.Day(), e.cfg.WorkingHoursEnd, 0, 0, 0, day.Location())

		for t := open; t.Before(closing); t = t.Add(e.cfg.SlotDuration) {
			slot := domain.SlotFromTime(t)
			if !e.validator.IsValidSlot(slot.Date, slot.Time) {
				continue
			}
			free, err := e.slotFree(ctx, slot.Date, slot.Time)
			if err != nil {
				e.log.Error("slot search failed", slog.Any("err", err), slog.String("date", slot.Date), slog.String("time", slot.Time))
				return domain.Slot{}, false, err
			}
			if free {
				return slot, true, nil
			}
		}
	}

	return domain.Slot{}, false, nil
}

// SuggestAlternatives proposes up to count free slots after the requested
// (date, time), in strictly increasing chronological order. Advancing past
// the closing hour jumps to the next day's opening; weekends are skipped to
// the following working day's opening. At most MaxSuggestionProbes
// candidates are examined, so the search always terminates; the result may
// hold fewer than count entries, possibly none.
func (e *Engine) SuggestAlternatives(ctx context.Context, date, timeOfDay string, count int) ([]domain.Slot, error) {
	if count <= 0 {
		return nil, nil
	}
	cur, err := domain.SlotInstant(date, timeOfDay)
	if err != nil {
		return nil, nil
	}

	var out []domain.Slot
	for probes := 0; probes < e.cfg.MaxSuggestionProbes && len(out) < count; probes++ {
		cur = cur.Add(e.cfg.SlotDuration)
		if cur.Hour() >= e.cfg.WorkingHoursEnd {
			cur = e.openingOn(cur.AddDate(0, 0, 1))
		} else if cur.Hour() < e.cfg.WorkingHoursStart {
			cur = e.openingOn(cur)
		}
		for isWeekend(cur) {
			cur = e.openingOn(cur.AddDate(0, 0, 1))
		}

		slot := domain.SlotFromTime(cur)
		if !e.validator.IsValidSlot(slot.Date, slot.Time) {
			continue
		}
		free, err := e.slotFree(ctx, slot.Date, slot.Time)
		if err != nil {
			e.log.Error("alternative search failed", slog.Any("err", err), slog.String("date", slot.Date), slog.String("time", slot.Time))
			return out, err
		}
		if free {
			out = append(out, slot)
		}
	}

	return out, nil
}

// slotFree reports whether no active appointment occupies the slot.
func (e *Engine) slotFree(ctx context.Context, date, timeOfDay string) (bool, error) {
	appt, err := e.store.Find(ctx, date, timeOfDay)
	if errors.Is(err, store.ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return appt.Status != domain.AppointmentStatusScheduled, nil
}

func (e *Engine) openingOn(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), e.cfg.WorkingHoursStart, 0, 0, 0, day.Location())
}
