package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mlebedeva/clinic_booking/internal/model"
	"github.com/mlebedeva/clinic_booking/internal/repository/base"
	"github.com/mlebedeva/clinic_booking/internal/service"
)

// Имя частичного уникального индекса, охраняющего инвариант
// "не более одной открытой записи на (врач, дата, время)"
const openSlotConstraint = "uq_reservations_open_slot"

const reservationColumns = `
	id, code, doctor_id, date, start_time::text, end_time::text, status,
	patient_name, patient_email, patient_phone, notes, cancellation_reason,
	reminder_sent, created_at, updated_at
`

// ReservationRepository реализует service.ReservationLedger поверх таблицы
// reservations. Гонка check-then-act при записи решается не в приложении:
// конкурирующий INSERT упирается в частичный уникальный индекс, и проигравший
// детерминированно получает ErrSlotAlreadyBooked.
type ReservationRepository struct {
	*base.Repository
}

func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{Repository: base.NewRepository(pool)}
}

// ReserveIfFree атомарно создаёт запись.
// Одна команда, без предварительного SELECT: инвариант живёт в индексе.
func (r *ReservationRepository) ReserveIfFree(ctx context.Context, res *model.Reservation) error {
	query := `
		INSERT INTO reservations (code, doctor_id, date, start_time, end_time, status, patient_name, patient_email, patient_phone, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		res.Code,
		res.DoctorID,
		res.Date,
		res.StartTime.DBString(),
		res.EndTime.DBString(),
		res.Status,
		res.PatientName,
		res.PatientEmail,
		res.PatientPhone,
		res.Notes,
	).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)

	if err != nil {
		if base.IsUniqueViolation(err, openSlotConstraint) {
			return service.ErrSlotAlreadyBooked
		}
		return fmt.Errorf("reserve slot: %w", err)
	}

	return nil
}

// FindOpen получает открытую (pending/confirmed) запись на слот
func (r *ReservationRepository) FindOpen(ctx context.Context, doctorID int64, date time.Time, start model.TimeOfDay) (*model.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE doctor_id = $1 AND date = $2 AND start_time = $3
		  AND status IN ('pending', 'confirmed')
		LIMIT 1
	`

	res, err := scanReservation(r.QueryRow(ctx, query, doctorID, date, start.DBString()))
	if base.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find open reservation: %w", err)
	}

	return res, nil
}

// UpdateStatus переводит запись из expected в next одной условной командой.
// Ноль затронутых строк означает либо отсутствие записи (ErrNotFound),
// либо проигранную гонку (ErrStatusConflict).
func (r *ReservationRepository) UpdateStatus(ctx context.Context, id int64, expected, next model.ReservationStatus, cancellationReason *string) (*model.Reservation, error) {
	query := `
		UPDATE reservations
		SET status = $1,
		    cancellation_reason = COALESCE($2, cancellation_reason),
		    updated_at = now()
		WHERE id = $3 AND status = $4
		RETURNING ` + reservationColumns + `
	`

	res, err := scanReservation(r.QueryRow(ctx, query, next, cancellationReason, id, expected))
	if base.IsNotFound(err) {
		exists, existsErr := r.exists(ctx, id)
		if existsErr != nil {
			return nil, existsErr
		}
		if !exists {
			return nil, service.ErrNotFound
		}
		return nil, service.ErrStatusConflict
	}
	if err != nil {
		return nil, fmt.Errorf("update reservation status: %w", err)
	}

	return res, nil
}

// GetByID получает запись по ID
func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*model.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE id = $1
	`

	res, err := scanReservation(r.QueryRow(ctx, query, id))
	if base.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get reservation by id: %w", err)
	}

	return res, nil
}

// GetByCode получает запись по публичному коду
func (r *ReservationRepository) GetByCode(ctx context.Context, code uuid.UUID) (*model.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE code = $1
	`

	res, err := scanReservation(r.QueryRow(ctx, query, code))
	if base.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get reservation by code: %w", err)
	}

	return res, nil
}

// ListByDoctorAndDate получает записи врача на дату по времени начала
func (r *ReservationRepository) ListByDoctorAndDate(ctx context.Context, doctorID int64, date time.Time) ([]*model.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE doctor_id = $1 AND date = $2
		ORDER BY start_time
	`

	rows, err := r.Query(ctx, query, doctorID, date)
	if err != nil {
		return nil, fmt.Errorf("list reservations by doctor and date: %w", err)
	}
	defer rows.Close()

	return collectReservations(rows)
}

// ListDueReminders получает подтверждённые записи на дату без отправленного напоминания
func (r *ReservationRepository) ListDueReminders(ctx context.Context, date time.Time) ([]*model.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE date = $1 AND status = 'confirmed' AND reminder_sent = false
		ORDER BY start_time
	`

	rows, err := r.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("list due reminders: %w", err)
	}
	defer rows.Close()

	return collectReservations(rows)
}

// MarkReminderSent отмечает что напоминание по записи отправлено
func (r *ReservationRepository) MarkReminderSent(ctx context.Context, id int64) error {
	query := `
		UPDATE reservations
		SET reminder_sent = true, updated_at = now()
		WHERE id = $1
	`

	affected, err := r.ExecAffected(ctx, query, id)
	if err != nil {
		return fmt.Errorf("mark reminder sent: %w", err)
	}

	if affected == 0 {
		return service.ErrNotFound
	}

	return nil
}

func (r *ReservationRepository) exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM reservations WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check reservation exists: %w", err)
	}
	return exists, nil
}

// scanReservation читает строку записи, нормализуя время из колонок time
func scanReservation(row pgx.Row) (*model.Reservation, error) {
	res := &model.Reservation{}
	var startRaw, endRaw string

	err := row.Scan(
		&res.ID,
		&res.Code,
		&res.DoctorID,
		&res.Date,
		&startRaw,
		&endRaw,
		&res.Status,
		&res.PatientName,
		&res.PatientEmail,
		&res.PatientPhone,
		&res.Notes,
		&res.CancellationReason,
		&res.ReminderSent,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if res.StartTime, err = model.ParseTimeOfDay(startRaw); err != nil {
		return nil, err
	}
	if res.EndTime, err = model.ParseTimeOfDay(endRaw); err != nil {
		return nil, err
	}

	return res, nil
}

func collectReservations(rows pgx.Rows) ([]*model.Reservation, error) {
	var reservations []*model.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		reservations = append(reservations, res)
	}

	return reservations, rows.Err()
}
