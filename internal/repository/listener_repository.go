package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/course-service/internal/domain"
)

// ListenerRepository defines persistence access for learners.
type ListenerRepository interface {
	Create(ctx context.Context, listener *domain.Listener) error
	GetByID(ctx context.Context, id int64) (*domain.Listener, error)
	GetByEmail(ctx context.Context, email string) (*domain.Listener, error)
}

type listenerRepository struct {
	pool *pgxpool.Pool
}

// NewListenerRepository returns a Postgres-backed implementation.
func NewListenerRepository(pool *pgxpool.Pool) ListenerRepository {
	return &listenerRepository{pool: pool}
}

func (r *listenerRepository) Create(ctx context.Context, listener *domain.Listener) error {
	const query = `
        INSERT INTO listeners (name, email, password_hash)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		listener.Name,
		listener.Email,
		listener.PasswordHash,
	).Scan(&listener.ID, &listener.CreatedAt, &listener.UpdatedAt)
	return mapUniqueViolation(err)
}

func (r *listenerRepository) GetByID(ctx context.Context, id int64) (*domain.Listener, error) {
	const query = `
        SELECT id, name, email, password_hash, created_at, updated_at
        FROM listeners WHERE id=$1`

	return scanListener(r.pool.QueryRow(ctx, query, id))
}

func (r *listenerRepository) GetByEmail(ctx context.Context, email string) (*domain.Listener, error) {
	const query = `
        SELECT id, name, email, password_hash, created_at, updated_at
        FROM listeners WHERE email=$1`

	return scanListener(r.pool.QueryRow(ctx, query, email))
}

func scanListener(row pgx.Row) (*domain.Listener, error) {
	var listener domain.Listener
	if err := row.Scan(
		&listener.ID,
		&listener.Name,
		&listener.Email,
		&listener.PasswordHash,
		&listener.CreatedAt,
		&listener.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &listener, nil
}
