// Package memory provides in-memory repository implementations with the
// same sentinel-error semantics as the Postgres ones. Used by tests and
// local development without a database.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/course-service/internal/domain"
	"github.com/spec-kit/course-service/internal/repository"
)

// ListenerStore is an in-memory repository.ListenerRepository.
type ListenerStore struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]domain.Listener
}

// NewListenerStore creates an empty store.
func NewListenerStore() *ListenerStore {
	return &ListenerStore{nextID: 1, byID: make(map[int64]domain.Listener)}
}

func (s *ListenerStore) Create(_ context.Context, listener *domain.Listener) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.byID {
		if existing.Email == listener.Email {
			return repository.ErrDuplicate
		}
	}
	listener.ID = s.nextID
	s.nextID++
	now := time.Now()
	listener.CreatedAt = now
	listener.UpdatedAt = now
	s.byID[listener.ID] = *listener
	return nil
}

func (s *ListenerStore) GetByID(_ context.Context, id int64) (*domain.Listener, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	listener, ok := s.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &listener, nil
}

func (s *ListenerStore) GetByEmail(_ context.Context, email string) (*domain.Listener, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, listener := range s.byID {
		if listener.Email == email {
			out := listener
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

// SpecialistStore is an in-memory repository.SpecialistRepository.
type SpecialistStore struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]domain.Specialist
}

// NewSpecialistStore creates an empty store.
func NewSpecialistStore() *SpecialistStore {
	return &SpecialistStore{nextID: 1, byID: make(map[int64]domain.Specialist)}
}

func (s *SpecialistStore) Create(_ context.Context, specialist *domain.Specialist) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.byID {
		if existing.Email == specialist.Email {
			return repository.ErrDuplicate
		}
	}
	specialist.ID = s.nextID
	s.nextID++
	now := time.Now()
	specialist.CreatedAt = now
	specialist.UpdatedAt = now
	s.byID[specialist.ID] = *specialist
	return nil
}

func (s *SpecialistStore) GetByID(_ context.Context, id int64) (*domain.Specialist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	specialist, ok := s.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &specialist, nil
}

func (s *SpecialistStore) GetByEmail(_ context.Context, email string) (*domain.Specialist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, specialist := range s.byID {
		if specialist.Email == email {
			out := specialist
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

// CourseStore is an in-memory repository.CourseRepository.
type CourseStore struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]domain.Course
}

// NewCourseStore creates an empty store.
func NewCourseStore() *CourseStore {
	return &CourseStore{nextID: 1, byID: make(map[int64]domain.Course)}
}

func (s *CourseStore) Create(_ context.Context, course *domain.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	course.ID = s.nextID
	s.nextID++
	now := time.Now()
	course.CreatedAt = now
	course.UpdatedAt = now
	s.byID[course.ID] = *course
	return nil
}

func (s *CourseStore) GetByID(_ context.Context, id int64) (*domain.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	course, ok := s.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &course, nil
}

func (s *CourseStore) FindOwner(_ context.Context, courseID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	course, ok := s.byID[courseID]
	if !ok {
		return 0, pgx.ErrNoRows
	}
	return course.OwnerID, nil
}

type pairKey struct {
	listenerID int64
	courseID   int64
}

// ApplicationStore is an in-memory repository.ApplicationRepository. The
// pair index makes check-and-insert atomic, matching the unique constraint.
type ApplicationStore struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]domain.CourseApplication
	byPair map[pairKey]int64
}

// NewApplicationStore creates an empty store.
func NewApplicationStore() *ApplicationStore {
	return &ApplicationStore{
		nextID: 1,
		byID:   make(map[int64]domain.CourseApplication),
		byPair: make(map[pairKey]int64),
	}
}

func (s *ApplicationStore) Create(_ context.Context, app *domain.CourseApplication) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pairKey{listenerID: app.ListenerID, courseID: app.CourseID}
	if _, exists := s.byPair[key]; exists {
		return repository.ErrDuplicate
	}
	app.ID = s.nextID
	s.nextID++
	now := time.Now()
	app.AppliedAt = now
	app.UpdatedAt = now
	s.byID[app.ID] = *app
	s.byPair[key] = app.ID
	return nil
}

func (s *ApplicationStore) GetByID(_ context.Context, id int64) (*domain.CourseApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &app, nil
}

func (s *ApplicationStore) GetByPair(_ context.Context, listenerID, courseID int64) (*domain.CourseApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byPair[pairKey{listenerID: listenerID, courseID: courseID}]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	app := s.byID[id]
	return &app, nil
}

func (s *ApplicationStore) UpdateStatus(_ context.Context, id int64, status domain.ApplicationStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	app.Status = status
	app.UpdatedAt = time.Now()
	s.byID[id] = app
	return nil
}

func (s *ApplicationStore) ListByCourse(_ context.Context, courseID int64) ([]domain.CourseApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var apps []domain.CourseApplication
	for _, app := range s.byID {
		if app.CourseID == courseID {
			apps = append(apps, app)
		}
	}
	return apps, nil
}

// ProgressStore is an in-memory repository.ProgressRepository.
type ProgressStore struct {
	mu     sync.Mutex
	nextID int64
	byPair map[pairKey]domain.ProgressStat
}

// NewProgressStore creates an empty store.
func NewProgressStore() *ProgressStore {
	return &ProgressStore{nextID: 1, byPair: make(map[pairKey]domain.ProgressStat)}
}

func (s *ProgressStore) CreateIfAbsent(_ context.Context, stat *domain.ProgressStat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pairKey{listenerID: stat.ListenerID, courseID: stat.CourseID}
	if existing, ok := s.byPair[key]; ok {
		*stat = existing
		return nil
	}
	stat.ID = s.nextID
	s.nextID++
	now := time.Now()
	stat.CreatedAt = now
	stat.UpdatedAt = now
	s.byPair[key] = *stat
	return nil
}

func (s *ProgressStore) GetByPair(_ context.Context, listenerID, courseID int64) (*domain.ProgressStat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stat, ok := s.byPair[pairKey{listenerID: listenerID, courseID: courseID}]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &stat, nil
}

func (s *ProgressStore) Update(_ context.Context, stat *domain.ProgressStat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pairKey{listenerID: stat.ListenerID, courseID: stat.CourseID}
	existing, ok := s.byPair[key]
	if !ok || existing.ID != stat.ID {
		return pgx.ErrNoRows
	}
	stat.UpdatedAt = time.Now()
	s.byPair[key] = *stat
	return nil
}
