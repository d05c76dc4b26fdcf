package domain

import "time"

// Specialist models an instructor who owns courses and reviews applications.
type Specialist struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
