package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/course-service/internal/domain"
)

const (
	courseOwnerKeyPrefix = "course:owner:"
	courseOwnerTTL       = 5 * time.Minute
)

// cachedCourseRepository is a read-through Redis cache in front of the
// course store. Only owner lookups are cached; they run on every
// specialist-gated enrollment mutation.
type cachedCourseRepository struct {
	inner  CourseRepository
	client *redis.Client
	logger *zap.Logger
}

// NewCachedCourseRepository decorates a CourseRepository with owner caching.
// A nil client returns the inner repository untouched.
func NewCachedCourseRepository(inner CourseRepository, client *redis.Client, logger *zap.Logger) CourseRepository {
	if client == nil {
		return inner
	}
	return &cachedCourseRepository{inner: inner, client: client, logger: logger}
}

func (r *cachedCourseRepository) Create(ctx context.Context, course *domain.Course) error {
	return r.inner.Create(ctx, course)
}

func (r *cachedCourseRepository) GetByID(ctx context.Context, id int64) (*domain.Course, error) {
	return r.inner.GetByID(ctx, id)
}

func (r *cachedCourseRepository) FindOwner(ctx context.Context, courseID int64) (int64, error) {
	key := courseOwnerKeyPrefix + strconv.FormatInt(courseID, 10)

	cached, err := r.client.Get(ctx, key).Result()
	if err == nil {
		if ownerID, parseErr := strconv.ParseInt(cached, 10, 64); parseErr == nil {
			return ownerID, nil
		}
	} else if err != redis.Nil {
		r.logger.Warn("course owner cache read failed", zap.Error(err))
	}

	ownerID, err := r.inner.FindOwner(ctx, courseID)
	if err != nil {
		return 0, err
	}

	if err := r.client.Set(ctx, key, strconv.FormatInt(ownerID, 10), courseOwnerTTL).Err(); err != nil {
		r.logger.Warn("course owner cache write failed", zap.Error(err))
	}
	return ownerID, nil
}
