package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/course-service/internal/domain"
)

// ApplicationRepository defines persistence access for course applications.
// Create returns ErrDuplicate when an application already exists for the
// (listener, course) pair; the unique index makes the check-and-insert
// atomic under concurrent applies.
type ApplicationRepository interface {
	Create(ctx context.Context, app *domain.CourseApplication) error
	GetByID(ctx context.Context, id int64) (*domain.CourseApplication, error)
	GetByPair(ctx context.Context, listenerID, courseID int64) (*domain.CourseApplication, error)
	UpdateStatus(ctx context.Context, id int64, status domain.ApplicationStatus) error
	ListByCourse(ctx context.Context, courseID int64) ([]domain.CourseApplication, error)
}

type applicationRepository struct {
	pool *pgxpool.Pool
}

// NewApplicationRepository returns a Postgres-backed implementation.
func NewApplicationRepository(pool *pgxpool.Pool) ApplicationRepository {
	return &applicationRepository{pool: pool}
}

func (r *applicationRepository) Create(ctx context.Context, app *domain.CourseApplication) error {
	const query = `
        INSERT INTO course_applications (listener_id, course_id, status)
        VALUES ($1, $2, $3)
        RETURNING id, applied_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		app.ListenerID,
		app.CourseID,
		app.Status,
	).Scan(&app.ID, &app.AppliedAt, &app.UpdatedAt)
	return mapUniqueViolation(err)
}

func (r *applicationRepository) GetByID(ctx context.Context, id int64) (*domain.CourseApplication, error) {
	const query = `
        SELECT id, listener_id, course_id, status, applied_at, updated_at
        FROM course_applications WHERE id=$1`

	return scanApplication(r.pool.QueryRow(ctx, query, id))
}

func (r *applicationRepository) GetByPair(ctx context.Context, listenerID, courseID int64) (*domain.CourseApplication, error) {
	const query = `
        SELECT id, listener_id, course_id, status, applied_at, updated_at
        FROM course_applications WHERE listener_id=$1 AND course_id=$2`

	return scanApplication(r.pool.QueryRow(ctx, query, listenerID, courseID))
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, id int64, status domain.ApplicationStatus) error {
	const query = `
        UPDATE course_applications SET status=$1, updated_at=NOW()
        WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *applicationRepository) ListByCourse(ctx context.Context, courseID int64) ([]domain.CourseApplication, error) {
	const query = `
        SELECT id, listener_id, course_id, status, applied_at, updated_at
        FROM course_applications WHERE course_id=$1
        ORDER BY applied_at`

	rows, err := r.pool.Query(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []domain.CourseApplication
	for rows.Next() {
		var app domain.CourseApplication
		if err := rows.Scan(
			&app.ID,
			&app.ListenerID,
			&app.CourseID,
			&app.Status,
			&app.AppliedAt,
			&app.UpdatedAt,
		); err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}

func scanApplication(row pgx.Row) (*domain.CourseApplication, error) {
	var app domain.CourseApplication
	if err := row.Scan(
		&app.ID,
		&app.ListenerID,
		&app.CourseID,
		&app.Status,
		&app.AppliedAt,
		&app.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &app, nil
}
