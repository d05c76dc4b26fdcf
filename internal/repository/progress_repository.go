package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/course-service/internal/domain"
)

// ProgressRepository defines persistence access for progress stats.
type ProgressRepository interface {
	// CreateIfAbsent inserts a zeroed stat for the pair unless one exists.
	// Safe to call repeatedly; re-approval never resets counters.
	CreateIfAbsent(ctx context.Context, stat *domain.ProgressStat) error
	GetByPair(ctx context.Context, listenerID, courseID int64) (*domain.ProgressStat, error)
	Update(ctx context.Context, stat *domain.ProgressStat) error
}

type progressRepository struct {
	pool *pgxpool.Pool
}

// NewProgressRepository returns a Postgres-backed implementation.
func NewProgressRepository(pool *pgxpool.Pool) ProgressRepository {
	return &progressRepository{pool: pool}
}

func (r *progressRepository) CreateIfAbsent(ctx context.Context, stat *domain.ProgressStat) error {
	const query = `
        INSERT INTO progress_stats (listener_id, course_id, lessons_completed, tests_passed, progress_percent)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (listener_id, course_id) DO NOTHING
        RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		stat.ListenerID,
		stat.CourseID,
		stat.LessonsCompleted,
		stat.TestsPassed,
		stat.ProgressPercent,
	).Scan(&stat.ID, &stat.CreatedAt, &stat.UpdatedAt)
	if err == pgx.ErrNoRows {
		// Conflict path: a stat already exists, load it instead.
		existing, getErr := r.GetByPair(ctx, stat.ListenerID, stat.CourseID)
		if getErr != nil {
			return getErr
		}
		*stat = *existing
		return nil
	}
	return err
}

func (r *progressRepository) GetByPair(ctx context.Context, listenerID, courseID int64) (*domain.ProgressStat, error) {
	const query = `
        SELECT id, listener_id, course_id, lessons_completed, tests_passed, progress_percent, created_at, updated_at
        FROM progress_stats WHERE listener_id=$1 AND course_id=$2`

	var stat domain.ProgressStat
	if err := r.pool.QueryRow(ctx, query, listenerID, courseID).Scan(
		&stat.ID,
		&stat.ListenerID,
		&stat.CourseID,
		&stat.LessonsCompleted,
		&stat.TestsPassed,
		&stat.ProgressPercent,
		&stat.CreatedAt,
		&stat.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &stat, nil
}

func (r *progressRepository) Update(ctx context.Context, stat *domain.ProgressStat) error {
	const query = `
        UPDATE progress_stats
        SET lessons_completed=$1, tests_passed=$2, progress_percent=$3, updated_at=NOW()
        WHERE id=$4`

	cmd, err := r.pool.Exec(ctx, query,
		stat.LessonsCompleted,
		stat.TestsPassed,
		stat.ProgressPercent,
		stat.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
