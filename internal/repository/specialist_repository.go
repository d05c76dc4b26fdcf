package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/course-service/internal/domain"
)

// SpecialistRepository defines persistence access for instructors.
type SpecialistRepository interface {
	Create(ctx context.Context, specialist *domain.Specialist) error
	GetByID(ctx context.Context, id int64) (*domain.Specialist, error)
	GetByEmail(ctx context.Context, email string) (*domain.Specialist, error)
}

type specialistRepository struct {
	pool *pgxpool.Pool
}

// NewSpecialistRepository returns a Postgres-backed implementation.
func NewSpecialistRepository(pool *pgxpool.Pool) SpecialistRepository {
	return &specialistRepository{pool: pool}
}

func (r *specialistRepository) Create(ctx context.Context, specialist *domain.Specialist) error {
	const query = `
        INSERT INTO specialists (name, email, password_hash)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		specialist.Name,
		specialist.Email,
		specialist.PasswordHash,
	).Scan(&specialist.ID, &specialist.CreatedAt, &specialist.UpdatedAt)
	return mapUniqueViolation(err)
}

func (r *specialistRepository) GetByID(ctx context.Context, id int64) (*domain.Specialist, error) {
	const query = `
        SELECT id, name, email, password_hash, created_at, updated_at
        FROM specialists WHERE id=$1`

	return scanSpecialist(r.pool.QueryRow(ctx, query, id))
}

func (r *specialistRepository) GetByEmail(ctx context.Context, email string) (*domain.Specialist, error) {
	const query = `
        SELECT id, name, email, password_hash, created_at, updated_at
        FROM specialists WHERE email=$1`

	return scanSpecialist(r.pool.QueryRow(ctx, query, email))
}

func scanSpecialist(row pgx.Row) (*domain.Specialist, error) {
	var specialist domain.Specialist
	if err := row.Scan(
		&specialist.ID,
		&specialist.Name,
		&specialist.Email,
		&specialist.PasswordHash,
		&specialist.CreatedAt,
		&specialist.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &specialist, nil
}
