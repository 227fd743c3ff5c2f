package repository

import (
	"context"
	"time"

	"github.com/spec-kit/helpdesk-workflow/internal/domain"
)

// TechnicianRepository handles persistence for technicians.
type TechnicianRepository interface {
	Create(ctx context.Context, technician *domain.Technician) error
	GetByID(ctx context.Context, id string) (*domain.Technician, error)
	List(ctx context.Context) ([]domain.Technician, error)
}

type technicianRepository struct {
	db DB
}

// NewTechnicianRepository instantiates the repository.
func NewTechnicianRepository(db DB) TechnicianRepository {
	return &technicianRepository{db: db}
}

func (r *technicianRepository) Create(ctx context.Context, technician *domain.Technician) error {
	const query = `
        INSERT INTO technicians (full_name, email, specialization, active_flag, created_at)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id`
	if technician.CreatedAt.IsZero() {
		technician.CreatedAt = time.Now().UTC()
	}
	return r.db.QueryRow(ctx, query,
		technician.FullName,
		technician.Email,
		technician.Specialization,
		technician.Active,
		technician.CreatedAt,
	).Scan(&technician.ID)
}

func (r *technicianRepository) GetByID(ctx context.Context, id string) (*domain.Technician, error) {
	const query = `
        SELECT id, full_name, email, specialization, active_flag, created_at
        FROM technicians WHERE id=$1 AND active_flag`

	var technician domain.Technician
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&technician.ID,
		&technician.FullName,
		&technician.Email,
		&technician.Specialization,
		&technician.Active,
		&technician.CreatedAt,
	); err != nil {
		return nil, notFound(err)
	}
	return &technician, nil
}

func (r *technicianRepository) List(ctx context.Context) ([]domain.Technician, error) {
	const query = `
        SELECT id, full_name, email, specialization, active_flag, created_at
        FROM technicians WHERE active_flag ORDER BY full_name ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Technician
	for rows.Next() {
		var technician domain.Technician
		if err := rows.Scan(
			&technician.ID,
			&technician.FullName,
			&technician.Email,
			&technician.Specialization,
			&technician.Active,
			&technician.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, technician)
	}
	return result, rows.Err()
}
