package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mlebedeva/clinic_booking/internal/model"
	"github.com/mlebedeva/clinic_booking/internal/repository/base"
	"github.com/mlebedeva/clinic_booking/internal/service"
)

// AvailabilityRepository хранит шаблоны регулярного приёма.
// Уникальность (doctor_id, weekday) обеспечивается ограничением в БД,
// поэтому Upsert один INSERT ... ON CONFLICT.
type AvailabilityRepository struct {
	*base.Repository
}

func NewAvailabilityRepository(pool *pgxpool.Pool) *AvailabilityRepository {
	return &AvailabilityRepository{Repository: base.NewRepository(pool)}
}

// GetActiveTemplate получает активный шаблон врача на день недели
func (r *AvailabilityRepository) GetActiveTemplate(ctx context.Context, doctorID int64, weekday int) (*model.AvailabilityTemplate, error) {
	query := `
		SELECT id, doctor_id, weekday, start_time::text, end_time::text, slot_duration_minutes, is_active, created_at, updated_at
		FROM availability_templates
		WHERE doctor_id = $1 AND weekday = $2 AND is_active = true
	`

	tmpl, err := scanTemplate(r.QueryRow(ctx, query, doctorID, weekday))
	if base.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get availability template: %w", err)
	}

	return tmpl, nil
}

// Upsert создаёт шаблон или целиком заменяет существующий на тот же день недели
func (r *AvailabilityRepository) Upsert(ctx context.Context, tmpl *model.AvailabilityTemplate) error {
	query := `
		INSERT INTO availability_templates (doctor_id, weekday, start_time, end_time, slot_duration_minutes, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (doctor_id, weekday) DO UPDATE SET
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			slot_duration_minutes = EXCLUDED.slot_duration_minutes,
			is_active = EXCLUDED.is_active,
			updated_at = now()
		RETURNING id, created_at, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		tmpl.DoctorID,
		tmpl.Weekday,
		tmpl.StartTime.DBString(),
		tmpl.EndTime.DBString(),
		tmpl.SlotDurationMinutes,
		tmpl.IsActive,
	).Scan(&tmpl.ID, &tmpl.CreatedAt, &tmpl.UpdatedAt)

	if err != nil {
		return fmt.Errorf("upsert availability template: %w", err)
	}

	return nil
}

// Remove удаляет шаблон врача
func (r *AvailabilityRepository) Remove(ctx context.Context, doctorID, templateID int64) error {
	query := `DELETE FROM availability_templates WHERE id = $1 AND doctor_id = $2`

	affected, err := r.ExecAffected(ctx, query, templateID, doctorID)
	if err != nil {
		return fmt.Errorf("remove availability template: %w", err)
	}

	if affected == 0 {
		return service.ErrNotFound
	}

	return nil
}

// ListByDoctor получает все шаблоны врача
func (r *AvailabilityRepository) ListByDoctor(ctx context.Context, doctorID int64) ([]*model.AvailabilityTemplate, error) {
	query := `
		SELECT id, doctor_id, weekday, start_time::text, end_time::text, slot_duration_minutes, is_active, created_at, updated_at
		FROM availability_templates
		WHERE doctor_id = $1
		ORDER BY weekday
	`

	rows, err := r.Query(ctx, query, doctorID)
	if err != nil {
		return nil, fmt.Errorf("list availability templates: %w", err)
	}
	defer rows.Close()

	var templates []*model.AvailabilityTemplate
	for rows.Next() {
		tmpl, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan availability template: %w", err)
		}
		templates = append(templates, tmpl)
	}

	return templates, rows.Err()
}

// scanTemplate читает строку шаблона, нормализуя время из колонок time
func scanTemplate(row pgx.Row) (*model.AvailabilityTemplate, error) {
	tmpl := &model.AvailabilityTemplate{}
	var startRaw, endRaw string

	err := row.Scan(
		&tmpl.ID,
		&tmpl.DoctorID,
		&tmpl.Weekday,
		&startRaw,
		&endRaw,
		&tmpl.SlotDurationMinutes,
		&tmpl.IsActive,
		&tmpl.CreatedAt,
		&tmpl.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if tmpl.StartTime, err = model.ParseTimeOfDay(startRaw); err != nil {
		return nil, err
	}
	if tmpl.EndTime, err = model.ParseTimeOfDay(endRaw); err != nil {
		return nil, err
	}

	return tmpl, nil
}
