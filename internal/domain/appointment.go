package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// Appointment is identified by its (date, time) slot: at most one
// appointment with status "scheduled" may exist per slot. Cancellation is a
// soft delete, so several cancelled records may share a slot over time.
type Appointment struct {
	bun.BaseModel `bun:"table:appointments"`

	ID           uuid.UUID         `bun:"id,pk,type:uuid" json:"id"`
	Date         string            `bun:"date,notnull" json:"date"`
	Time         string            `bun:"time,notnull" json:"time"`
	Provider     string            `bun:"provider,notnull" json:"provider"`
	PatientNotes string            `bun:"patient_notes" json:"patient_notes,omitempty"`
	Status       AppointmentStatus `bun:"status,notnull" json:"status"`
	CreatedAt    time.Time         `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt    time.Time         `bun:"updated_at,notnull" json:"updated_at"`
}

func (a *Appointment) Slot() Slot {
	return Slot{Date: a.Date, Time: a.Time}
}

func (a *Appointment) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if a.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			a.ID = id
		}
		if a.Status == "" {
			a.Status = AppointmentStatusScheduled
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = now
		}
		if a.UpdatedAt.IsZero() {
			a.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		a.UpdatedAt = now
	}
	return nil
}
