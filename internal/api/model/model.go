package model

import "time"

// Job is the read-side view of a job record. Pass-through task data is
// not modeled; it lives only in the stored document.
type Job struct {
	JobID       string     `firestore:"-"`
	UserID      string     `firestore:"userId"`
	UserEmail   string     `firestore:"userEmail"`
	JobType     string     `firestore:"jobType"`
	Status      string     `firestore:"status"`
	Priority    int        `firestore:"priority"`
	CreatedAt   time.Time  `firestore:"createdAt"`
	CompletedAt *time.Time `firestore:"completedAt"`
	Errors      []string   `firestore:"errors"`
	Attempts    int        `firestore:"attempts"`
}
