package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mlebedeva/clinic_booking/internal/repository/base"
)

// DoctorRepository реализует service.DoctorDirectory поверх таблицы doctors.
// CRUD врачей живёт в административном контуре, движку нужен только реестр.
type DoctorRepository struct {
	*base.Repository
}

func NewDoctorRepository(pool *pgxpool.Pool) *DoctorRepository {
	return &DoctorRepository{Repository: base.NewRepository(pool)}
}

// ListActiveIDs получает идентификаторы всех активных врачей
func (r *DoctorRepository) ListActiveIDs(ctx context.Context) ([]int64, error) {
	query := `
		SELECT id
		FROM doctors
		WHERE is_active = true
		ORDER BY id
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active doctors: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan doctor id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// IsActive проверяет что врач существует и активен
func (r *DoctorRepository) IsActive(ctx context.Context, doctorID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM doctors WHERE id = $1 AND is_active = true
		)
	`

	var active bool
	if err := r.QueryRow(ctx, query, doctorID).Scan(&active); err != nil {
		return false, fmt.Errorf("check doctor active: %w", err)
	}

	return active, nil
}

// Exists проверяет что врач существует (активность не важна)
func (r *DoctorRepository) Exists(ctx context.Context, doctorID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM doctors WHERE id = $1
		)
	`

	var exists bool
	if err := r.QueryRow(ctx, query, doctorID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check doctor exists: %w", err)
	}

	return exists, nil
}
