package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/BasedPanda/healthcare-voice-assistant/internal/domain"
	"github.com/BasedPanda/healthcare-voice-assistant/internal/scheduling"
	"github.com/BasedPanda/healthcare-voice-assistant/internal/voice"
)

// defaultProvider is used when the utterance names no doctor or specialty.
const defaultProvider = "Dr. General (General Physician)"

// schedulingEngine is the slice of the scheduling engine the dispatcher uses.
type schedulingEngine interface {
	Schedule(ctx context.Context, date, timeOfDay, provider, notes string) scheduling.Result
	Cancel(ctx context.Context, date, timeOfDay string) scheduling.Result
	List(ctx context.Context, date string) ([]domain.Appointment, error)
	IsAvailable(ctx context.Context, date, timeOfDay string) bool
	NextAvailableSlot(ctx context.Context, fromDate string) (domain.Slot, bool, error)
	SuggestAlternatives(ctx context.Context, date, timeOfDay string, count int) ([]domain.Slot, error)
}

// Dispatcher turns recognized utterances into engine calls and speakable
// replies. It never returns an error to the caller: engine and store failures
// come back as apologetic replies so the conversation can continue.
type Dispatcher struct {
	engine schedulingEngine
	log    *slog.Logger
}

func NewDispatcher(engine schedulingEngine, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{
		engine: engine,
		log:    log.With(slog.String("component", "assistant.dispatcher")),
	}
}

// Handle processes one utterance and returns the spoken reply. done is true
// when the patient asked to end the conversation.
func (d *Dispatcher) Handle(ctx context.Context, input string) (reply string, done bool) {
	intent, ents := ParseIntent(input)
	d.log.Info("utterance processed", slog.String("intent", string(intent)))

	switch intent {
	case IntentSchedule:
		return d.handleSchedule(ctx, ents), false
	case IntentCheck:
		return d.handleCheck(ctx), false
	case IntentCancel:
		return d.handleCancel(ctx, ents), false
	case IntentNextSlot:
		return d.handleNextSlot(ctx, ents), false
	case IntentExit:
		return "Goodbye!", true
	default:
		return "I'm not sure what you'd like to do. You can schedule an appointment, " +
			"check your appointments, or cancel an appointment. What would you like to do?", false
	}
}

func (d *Dispatcher) handleSchedule(ctx context.Context, ents Entities) string {
	if ents.Date == "" || ents.Time == "" {
		return "I need both a date and time for the appointment. When would you like to schedule it?"
	}

	if !d.engine.IsAvailable(ctx, ents.Date, ents.Time) {
		alternatives, err := d.engine.SuggestAlternatives(ctx, ents.Date, ents.Time, 3)
		if err != nil {
			d.log.Error("alternative lookup failed", slog.Any("err", err))
		}
		if len(alternatives) == 0 {
			return "I'm sorry, there are no available slots around that time."
		}
		return "That time is not available. Here are some alternative slots: " + formatSlots(alternatives)
	}

	provider := ents.Provider
	if provider == "" {
		provider = defaultProvider
	}
	res := d.engine.Schedule(ctx, ents.Date, ents.Time, provider, ents.Notes)
	if !res.OK {
		return "I'm sorry, I couldn't schedule the appointment. " + res.Message
	}
	return "Great! " + res.Message
}

func (d *Dispatcher) handleCheck(ctx context.Context) string {
	appointments, err := d.engine.List(ctx, "")
	if err != nil {
		d.log.Error("appointment lookup failed", slog.Any("err", err))
		return "I had trouble retrieving your appointments. Please try again."
	}
	if len(appointments) == 0 {
		return "You have no upcoming appointments scheduled."
	}

	var b strings.Builder
	b.WriteString("Here are your upcoming appointments: ")
	shown := appointments
	if len(shown) > 3 {
		shown = shown[:3]
	}
	for _, appt := range shown {
		fmt.Fprintf(&b, "On %s at %s with %s. ",
			formatDate(appt.Date), formatTime(appt.Time), appt.Provider)
	}
	if extra := len(appointments) - len(shown); extra > 0 {
		fmt.Fprintf(&b, "And %d more appointments.", extra)
	}
	return strings.TrimSpace(b.String())
}

func (d *Dispatcher) handleCancel(ctx context.Context, ents Entities) string {
	if ents.Date == "" || ents.Time == "" {
		return "I need both the date and time of the appointment you want to cancel."
	}
	res := d.engine.Cancel(ctx, ents.Date, ents.Time)
	if !res.OK {
		return "I couldn't cancel the appointment. " + res.Message
	}
	return "The appointment has been cancelled successfully."
}

func (d *Dispatcher) handleNextSlot(ctx context.Context, ents Entities) string {
	slot, found, err := d.engine.NextAvailableSlot(ctx, ents.Date)
	if err != nil {
		d.log.Error("slot search failed", slog.Any("err", err))
		return "I had trouble finding an available slot. Please try again."
	}
	if !found {
		return "I'm sorry, I couldn't find an available slot in the coming days."
	}
	return fmt.Sprintf("The next available slot is %s at %s.",
		formatDate(slot.Date), formatTime(slot.Time))
}

func formatSlots(slots []domain.Slot) string {
	parts := make([]string, 0, len(slots))
	for _, s := range slots {
		parts = append(parts, formatDate(s.Date)+" at "+formatTime(s.Time))
	}
	return strings.Join(parts, ", ")
}

// formatDate renders "2025-01-06" as "Monday, January 06" for speech output.
// Unparseable values pass through untouched.
func formatDate(date string) string {
	t, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("Monday, January 02")
}

func formatTime(timeOfDay string) string {
	t, err := time.Parse(domain.TimeLayout, timeOfDay)
	if err != nil {
		return timeOfDay
	}
	return t.Format("03:04 PM")
}

// Session runs the listen-dispatch-speak loop over a voice channel.
type Session struct {
	listener   *voice.Listener
	speaker    *voice.Speaker
	dispatcher *Dispatcher
	log        *slog.Logger
}

func NewSession(listener *voice.Listener, speaker *voice.Speaker, dispatcher *Dispatcher, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	return &Session{
		listener:   listener,
		speaker:    speaker,
		dispatcher: dispatcher,
		log:        log.With(slog.String("component", "assistant.session")),
	}
}

// Run speaks the greeting and then dispatches utterances until the patient
// says goodbye, the input closes, or the context is cancelled.
func (s *Session) Run(ctx context.Context) error {
	s.speaker.Say("Healthcare Voice Assistant is ready. How can I help you today?")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		input, err := s.listener.Listen()
		if err != nil {
			s.log.Info("input closed", slog.Any("err", err))
			return nil
		}
		if strings.TrimSpace(input) == "" {
			continue
		}

		reply, done := s.dispatcher.Handle(ctx, input)
		s.speaker.Say(reply)
		if done {
			return nil
		}
	}
}
