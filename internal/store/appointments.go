package store

import (
	"context"

	"github.com/BasedPanda/healthcare-voice-assistant/internal/domain"
)

// AppointmentStore is the durable-state collaborator consumed by the
// scheduling engine. Implementations must make Insert atomic against
// concurrent inserts for the same (date, time): when a scheduled record
// already occupies the slot the second insert fails with ErrConflict, never
// with a duplicate row.
type AppointmentStore interface {
	// Insert creates a new scheduled appointment and returns it with its
	// assigned ID and timestamps.
	Insert(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)

	// Find returns the most recent record for the slot regardless of
	// status, or ErrNotFound.
	Find(ctx context.Context, date, timeOfDay string) (domain.Appointment, error)

	// MarkCancelled transitions the scheduled record at the slot to
	// cancelled. The record is retained; there is no physical delete.
	// Returns ErrNotFound when nothing is scheduled there.
	MarkCancelled(ctx context.Context, date, timeOfDay string) error

	// UpdateNotes replaces the patient notes on the scheduled record at the
	// slot. Returns ErrNotFound when nothing is scheduled there.
	UpdateNotes(ctx context.Context, date, timeOfDay, notes string) error

	// List returns the scheduled appointments for one date, ordered by time
	// ascending.
	List(ctx context.Context, date string) ([]domain.Appointment, error)

	// ListUpcoming returns all scheduled appointments from fromDate forward,
	// ordered by (date, time) ascending.
	ListUpcoming(ctx context.Context, fromDate string) ([]domain.Appointment, error)
}
