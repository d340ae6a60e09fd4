package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"

	"github.com/BasedPanda/healthcare-voice-assistant/internal/domain"
	"github.com/BasedPanda/healthcare-voice-assistant/internal/store"
)

// AppointmentRepo implements store.AppointmentStore on postgres. Slot
// exclusivity is enforced by the partial unique index appointments_active_slot
// on (date, time) WHERE status = 'scheduled', so Insert is atomic against
// concurrent bookings of the same slot without any explicit locking here.
type AppointmentRepo struct {
	db *bun.DB
}

func NewAppointmentRepo(db *bun.DB) *AppointmentRepo {
	return &AppointmentRepo{db: db}
}

var _ store.AppointmentStore = (*AppointmentRepo)(nil)

func (r *AppointmentRepo) Insert(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	m := domain.Appointment{
		ID:           appt.ID,
		Date:         appt.Date,
		Time:         appt.Time,
		Provider:     appt.Provider,
		PatientNotes: appt.PatientNotes,
		Status:       appt.Status,
	}

	if _, err := r.db.NewInsert().Model(&m).Exec(ctx); err != nil {
		return domain.Appointment{}, mapInsertError(err)
	}
	return m, nil
}

func (r *AppointmentRepo) Find(ctx context.Context, date, timeOfDay string) (domain.Appointment, error) {
	var row domain.Appointment
	err := r.db.NewSelect().
		Model(&row).
		Where("date = ?", date).
		Where("time = ?", timeOfDay).
		OrderExpr("created_at DESC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Appointment{}, store.ErrNotFound
	}
	if err != nil {
		return domain.Appointment{}, err
	}
	return row, nil
}

func (r *AppointmentRepo) MarkCancelled(ctx context.Context, date, timeOfDay string) error {
	res, err := r.db.NewUpdate().
		Model((*domain.Appointment)(nil)).
		Set("status = ?", domain.AppointmentStatusCancelled).
		Set("updated_at = ?", time.Now().UTC()).
		Where("date = ?", date).
		Where("time = ?", timeOfDay).
		Where("status = ?", domain.AppointmentStatusScheduled).
		Exec(ctx)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *AppointmentRepo) UpdateNotes(ctx context.Context, date, timeOfDay, notes string) error {
	res, err := r.db.NewUpdate().
		Model((*domain.Appointment)(nil)).
		Set("patient_notes = ?", notes).
		Set("updated_at = ?", time.Now().UTC()).
		Where("date = ?", date).
		Where("time = ?", timeOfDay).
		Where("status = ?", domain.AppointmentStatusScheduled).
		Exec(ctx)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *AppointmentRepo) List(ctx context.Context, date string) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	err := r.db.NewSelect().
		Model(&rows).
		Where("date = ?", date).
		Where("status = ?", domain.AppointmentStatusScheduled).
		OrderExpr("time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AppointmentRepo) ListUpcoming(ctx context.Context, fromDate string) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	err := r.db.NewSelect().
		Model(&rows).
		Where("date >= ?", fromDate).
		Where("status = ?", domain.AppointmentStatusScheduled).
		OrderExpr("date ASC, time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// mapInsertError translates the unique-violation raised by the
// appointments_active_slot index into the store's conflict sentinel.
func mapInsertError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return store.ErrConflict
	}
	return err
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}
