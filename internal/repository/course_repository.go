package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/course-service/internal/domain"
)

// CourseRepository defines the course persistence boundary. Only the fields
// the enrollment and authorization paths inspect are modeled here.
type CourseRepository interface {
	Create(ctx context.Context, course *domain.Course) error
	GetByID(ctx context.Context, id int64) (*domain.Course, error)
	FindOwner(ctx context.Context, courseID int64) (int64, error)
}

type courseRepository struct {
	pool *pgxpool.Pool
}

// NewCourseRepository returns a Postgres-backed implementation.
func NewCourseRepository(pool *pgxpool.Pool) CourseRepository {
	return &courseRepository{pool: pool}
}

func (r *courseRepository) Create(ctx context.Context, course *domain.Course) error {
	const query = `
        INSERT INTO courses (owner_specialist_id, title, description, total_lessons, total_tests)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		course.OwnerID,
		course.Title,
		course.Description,
		course.TotalLessons,
		course.TotalTests,
	).Scan(&course.ID, &course.CreatedAt, &course.UpdatedAt)
}

func (r *courseRepository) GetByID(ctx context.Context, id int64) (*domain.Course, error) {
	const query = `
        SELECT id, owner_specialist_id, title, description, total_lessons, total_tests, created_at, updated_at
        FROM courses WHERE id=$1`

	var course domain.Course
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&course.ID,
		&course.OwnerID,
		&course.Title,
		&course.Description,
		&course.TotalLessons,
		&course.TotalTests,
		&course.CreatedAt,
		&course.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepository) FindOwner(ctx context.Context, courseID int64) (int64, error) {
	const query = `SELECT owner_specialist_id FROM courses WHERE id=$1`

	var ownerID int64
	if err := r.pool.QueryRow(ctx, query, courseID).Scan(&ownerID); err != nil {
		return 0, err
	}
	return ownerID, nil
}
