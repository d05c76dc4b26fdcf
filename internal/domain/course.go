package domain

import "time"

// Course is the resource enrollment applications point at. Lesson and test
// content lives outside this service; only the counts needed for progress
// percentages are tracked here.
type Course struct {
	ID           int64
	OwnerID      int64
	Title        string
	Description  string
	TotalLessons int
	TotalTests   int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
