// Package memory provides a mutex-guarded in-process AppointmentStore used
// by the interactive assistant and by engine tests. The mutex serializes the
// check-then-insert sequence, so two concurrent inserts for the same slot
// cannot both succeed.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/BasedPanda/healthcare-voice-assistant/internal/domain"
	"github.com/BasedPanda/healthcare-voice-assistant/internal/store"
)

type Store struct {
	mu    sync.Mutex
	appts []domain.Appointment
}

func New() *Store {
	return &Store{}
}

var _ store.AppointmentStore = (*Store)(nil)

func (s *Store) Insert(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeIndex(appt.Date, appt.Time) >= 0 {
		return domain.Appointment{}, store.ErrConflict
	}

	id, err := uuid.NewV7()
	if err != nil {
		return domain.Appointment{}, err
	}

	now := time.Now().UTC()
	appt.ID = id
	if appt.Status == "" {
		appt.Status = domain.AppointmentStatusScheduled
	}
	appt.CreatedAt = now
	appt.UpdatedAt = now

	s.appts = append(s.appts, appt)
	return appt, nil
}

func (s *Store) Find(ctx context.Context, date, timeOfDay string) (domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(s.appts) - 1; i >= 0; i-- {
		if s.appts[i].Date == date && s.appts[i].Time == timeOfDay {
			return s.appts[i], nil
		}
	}
	return domain.Appointment{}, store.ErrNotFound
}

func (s *Store) MarkCancelled(ctx context.Context, date, timeOfDay string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.activeIndex(date, timeOfDay)
	if i < 0 {
		return store.ErrNotFound
	}
	s.appts[i].Status = domain.AppointmentStatusCancelled
	s.appts[i].UpdatedAt = time.Now().UTC()
	return nil
}

func (s *Store) UpdateNotes(ctx context.Context, date, timeOfDay, notes string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.activeIndex(date, timeOfDay)
	if i < 0 {
		return store.ErrNotFound
	}
	s.appts[i].PatientNotes = notes
	s.appts[i].UpdatedAt = time.Now().UTC()
	return nil
}

func (s *Store) List(ctx context.Context, date string) ([]domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Appointment
	for _, a := range s.appts {
		if a.Status == domain.AppointmentStatusScheduled && a.Date == date {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out, nil
}

func (s *Store) ListUpcoming(ctx context.Context, fromDate string) ([]domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Appointment
	for _, a := range s.appts {
		if a.Status == domain.AppointmentStatusScheduled && a.Date >= fromDate {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

// activeIndex assumes s.mu is held.
func (s *Store) activeIndex(date, timeOfDay string) int {
	for i, a := range s.appts {
		if a.Status == domain.AppointmentStatusScheduled && a.Date == date && a.Time == timeOfDay {
			return i
		}
	}
	return -1
}
