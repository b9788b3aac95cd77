package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mlebedeva/clinic_booking/internal/model"
	"github.com/mlebedeva/clinic_booking/internal/repository/base"
	"github.com/mlebedeva/clinic_booking/internal/service"
)

// AbsenceRepository хранит интервалы отсутствия врачей
type AbsenceRepository struct {
	*base.Repository
}

func NewAbsenceRepository(pool *pgxpool.Pool) *AbsenceRepository {
	return &AbsenceRepository{Repository: base.NewRepository(pool)}
}

// ListCovering получает интервалы врача, накрывающие дату (границы включительно)
func (r *AbsenceRepository) ListCovering(ctx context.Context, doctorID int64, date time.Time) ([]*model.AbsenceInterval, error) {
	query := `
		SELECT id, doctor_id, start_date, end_date, reason, created_at
		FROM absences
		WHERE doctor_id = $1 AND start_date <= $2 AND end_date >= $2
		ORDER BY start_date
	`

	rows, err := r.Query(ctx, query, doctorID, date)
	if err != nil {
		return nil, fmt.Errorf("list covering absences: %w", err)
	}
	defer rows.Close()

	return collectAbsences(rows)
}

// Add добавляет интервал отсутствия
func (r *AbsenceRepository) Add(ctx context.Context, absence *model.AbsenceInterval) error {
	query := `
		INSERT INTO absences (doctor_id, start_date, end_date, reason)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		absence.DoctorID,
		absence.StartDate,
		absence.EndDate,
		absence.Reason,
	).Scan(&absence.ID, &absence.CreatedAt)

	if err != nil {
		return fmt.Errorf("add absence: %w", err)
	}

	return nil
}

// Remove удаляет интервал отсутствия врача
func (r *AbsenceRepository) Remove(ctx context.Context, doctorID, absenceID int64) error {
	query := `DELETE FROM absences WHERE id = $1 AND doctor_id = $2`

	affected, err := r.ExecAffected(ctx, query, absenceID, doctorID)
	if err != nil {
		return fmt.Errorf("remove absence: %w", err)
	}

	if affected == 0 {
		return service.ErrNotFound
	}

	return nil
}

// ListByDoctor получает все интервалы отсутствия врача
func (r *AbsenceRepository) ListByDoctor(ctx context.Context, doctorID int64) ([]*model.AbsenceInterval, error) {
	query := `
		SELECT id, doctor_id, start_date, end_date, reason, created_at
		FROM absences
		WHERE doctor_id = $1
		ORDER BY start_date DESC
	`

	rows, err := r.Query(ctx, query, doctorID)
	if err != nil {
		return nil, fmt.Errorf("list absences by doctor: %w", err)
	}
	defer rows.Close()

	return collectAbsences(rows)
}

func collectAbsences(rows pgx.Rows) ([]*model.AbsenceInterval, error) {
	var absences []*model.AbsenceInterval
	for rows.Next() {
		absence := &model.AbsenceInterval{}
		err := rows.Scan(
			&absence.ID,
			&absence.DoctorID,
			&absence.StartDate,
			&absence.EndDate,
			&absence.Reason,
			&absence.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan absence: %w", err)
		}
		absences = append(absences, absence)
	}

	return absences, rows.Err()
}
