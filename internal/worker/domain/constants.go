package domain

// Job status constants
const (
	JobStatusPending   = "pending"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"

	// JobStatusInProgress is reserved in the status vocabulary but
	// nothing sets it: a dispatch moves a job straight from pending
	// to a terminal state.
	JobStatusInProgress = "in-progress"
)

// Job type constants
const (
	JobTypeExportData    = "exportData"
	JobTypeDeleteAccount = "deleteAccount"
)
