package domain

import "time"

// Job is a job record as stored in the jobs collection. Enqueue merges
// arbitrary caller-supplied task data into the same document; those
// pass-through fields are ignored when decoding here.
type Job struct {
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
