package domain

import "time"

// ProgressStat tracks a Listener's completion counters for one Course.
// Created exactly once, when the matching application becomes Approved;
// mutated only through enrollment workflow side effects.
type ProgressStat struct {
	ID               int64
	ListenerID       int64
	CourseID         int64
	LessonsCompleted int
	TestsPassed      int
	ProgressPercent  float64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ComputePercent returns the course progress as the sum of two halves,
// lessons and tests. A half with a zero total contributes zero.
func ComputePercent(lessonsCompleted, totalLessons, testsPassed, totalTests int) float64 {
	var percent float64
	if totalLessons > 0 {
		percent += 50 * float64(lessonsCompleted) / float64(totalLessons)
	}
	if totalTests > 0 {
		percent += 50 * float64(testsPassed) / float64(totalTests)
	}
	return percent
}
