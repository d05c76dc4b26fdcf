package domain

import "time"

// Listener is the domain model for learners who enroll in courses.
type Listener struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
