package dto

// QueueJobRequest is the enqueue request body. TaskData is an arbitrary
// payload merged verbatim into the job record.
type QueueJobRequest struct {
	JobType  string         `json:"jobType"`
	Priority int            `json:"priority"`
	TaskData map[string]any `json:"taskData"`
}

// QueueJobResponse is returned on a successful enqueue
type QueueJobResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	JobID   string `json:"jobId"`
}

// JobDTO is the read-side view of a job record
type JobDTO struct {
	JobID       string   `json:"jobId"`
	UserID      string   `json:"userId"`
	UserEmail   string   `json:"userEmail"`
	JobType     string   `json:"jobType"`
	Status      string   `json:"status"`
	Priority    int      `json:"priority"`
	CreatedAt   string   `json:"createdAt"`
	CompletedAt string   `json:"completedAt,omitempty"`
	Errors      []string `json:"errors"`
	Attempts    int      `json:"attempts"`
}
