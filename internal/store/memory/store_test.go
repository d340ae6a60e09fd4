package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/BasedPanda/healthcare-voice-assistant/internal/domain"
	"github.com/BasedPanda/healthcare-voice-assistant/internal/store"
)

func TestInsertAndFind(t *testing.T) {
	s := New()
	ctx := context.Background()

	a, err := s.Insert(ctx, domain.Appointment{
		Date:     "2025-01-06",
		Time:     "09:00",
		Provider: "Dr. Smith",
	})
	if err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if a.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Fatalf("expected assigned id")
	}
	if a.Status != domain.AppointmentStatusScheduled {
		t.Fatalf("status = %q, want scheduled", a.Status)
	}
	if a.CreatedAt.IsZero() || a.UpdatedAt.IsZero() {
		t.Fatalf("expected timestamps to be set")
	}

	got, err := s.Find(ctx, "2025-01-06", "09:00")
	if err != nil {
		t.Fatalf("Find error: %v", err)
	}
	if got.ID != a.ID {
		t.Fatalf("found id = %s, want %s", got.ID, a.ID)
	}
}

func TestInsert_ConflictOnActiveSlot(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, err := s.Insert(ctx, domain.Appointment{Date: "2025-01-06", Time: "09:00", Provider: "Dr. Smith"}); err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	_, err := s.Insert(ctx, domain.Appointment{Date: "2025-01-06", Time: "09:00", Provider: "Dr. Jones"})
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("err = %v, want %v", err, store.ErrConflict)
	}
}

func TestInsert_ConcurrentSameSlotHasOneWinner(t *testing.T) {
	s := New()
	ctx := context.Background()

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.Insert(ctx, domain.Appointment{Date: "2025-01-06", Time: "10:00", Provider: "Dr. Smith"})
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, store.ErrConflict):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("winners = %d, want 1", wins)
	}
}

func TestMarkCancelled_SoftDeleteAndRebook(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, err := s.Insert(ctx, domain.Appointment{Date: "2025-01-06", Time: "09:00", Provider: "Dr. Smith"}); err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if err := s.MarkCancelled(ctx, "2025-01-06", "09:00"); err != nil {
		t.Fatalf("MarkCancelled error: %v", err)
	}

	// The record is retained with status cancelled.
	got, err := s.Find(ctx, "2025-01-06", "09:00")
	if err != nil {
		t.Fatalf("Find error: %v", err)
	}
	if got.Status != domain.AppointmentStatusCancelled {
		t.Fatalf("status = %q, want cancelled", got.Status)
	}

	// Cancelling again fails cleanly.
	if err := s.MarkCancelled(ctx, "2025-01-06", "09:00"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("second cancel err = %v, want %v", err, store.ErrNotFound)
	}

	// The freed slot can be booked again.
	if _, err := s.Insert(ctx, domain.Appointment{Date: "2025-01-06", Time: "09:00", Provider: "Dr. Jones"}); err != nil {
		t.Fatalf("rebook error: %v", err)
	}
}

func TestUpdateNotes(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.UpdateNotes(ctx, "2025-01-06", "09:00", "n"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want %v", err, store.ErrNotFound)
	}

	if _, err := s.Insert(ctx, domain.Appointment{Date: "2025-01-06", Time: "09:00", Provider: "Dr. Smith"}); err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if err := s.UpdateNotes(ctx, "2025-01-06", "09:00", "follow-up"); err != nil {
		t.Fatalf("UpdateNotes error: %v", err)
	}
	got, err := s.Find(ctx, "2025-01-06", "09:00")
	if err != nil {
		t.Fatalf("Find error: %v", err)
	}
	if got.PatientNotes != "follow-up" {
		t.Fatalf("notes = %q, want %q", got.PatientNotes, "follow-up")
	}
}

func TestList_OrderedAndExcludesCancelled(t *testing.T) {
	s := New()
	ctx := context.Background()

	for _, tod := range []string{"10:00", "09:00", "11:00"} {
		if _, err := s.Insert(ctx, domain.Appointment{Date: "2025-01-06", Time: tod, Provider: "Dr. Smith"}); err != nil {
			t.Fatalf("Insert error: %v", err)
		}
	}
	if _, err := s.Insert(ctx, domain.Appointment{Date: "2025-01-07", Time: "09:00", Provider: "Dr. Smith"}); err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if err := s.MarkCancelled(ctx, "2025-01-06", "10:00"); err != nil {
		t.Fatalf("MarkCancelled error: %v", err)
	}

	rows, err := s.List(ctx, "2025-01-06")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(rows) != 2 || rows[0].Time != "09:00" || rows[1].Time != "11:00" {
		t.Fatalf("rows = %+v", rows)
	}

	upcoming, err := s.ListUpcoming(ctx, "2025-01-06")
	if err != nil {
		t.Fatalf("ListUpcoming error: %v", err)
	}
	if len(upcoming) != 3 {
		t.Fatalf("len(upcoming) = %d, want 3", len(upcoming))
	}
	if upcoming[2].Date != "2025-01-07" {
		t.Fatalf("last upcoming date = %q, want 2025-01-07", upcoming[2].Date)
	}

	past, err := s.ListUpcoming(ctx, "2025-01-08")
	if err != nil {
		t.Fatalf("ListUpcoming error: %v", err)
	}
	if len(past) != 0 {
		t.Fatalf("len(past) = %d, want 0", len(past))
	}
}
