package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/gin-gonic/gin"

	"github.com/snapmeal/jobs-be/internal/api/domain"
	"github.com/snapmeal/jobs-be/internal/api/dto"
)

// QueueJob handles POST /api/v1/jobs
// Validates the caller and request, persists a pending job record, and
// returns its id. Duplicate calls create duplicate jobs; there is no
// idempotency key.
func (h *JobHandler) QueueJob(c *gin.Context) {
	if !c.GetBool(ContextAuthenticated) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"code":  "unauthenticated",
			"error": "User must be authenticated to use this function.",
		})
		return
	}

	var req dto.QueueJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"code":  "invalid-argument",
			"error": "Invalid request body",
		})
		return
	}

	if req.JobType == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":  "invalid-argument",
			"error": "Job type is required.",
		})
		return
	}

	userID := c.GetString(ContextUserID)
	userEmail := c.GetString(ContextUserEmail)

	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":  "invalid-argument",
			"error": "User ID is required.",
		})
		return
	}

	priority := req.Priority
	if priority == 0 {
		priority = 1
	}

	// Task data merges in first so the standard fields always win.
	fields := make(map[string]any, len(req.TaskData)+9)
	for k, v := range req.TaskData {
		fields[k] = v
	}
	fields["userId"] = userID
	fields["userEmail"] = userEmail
	fields["jobType"] = req.JobType
	fields["status"] = domain.JobStatusPending
	fields["priority"] = priority
	fields["createdAt"] = firestore.ServerTimestamp
	fields["completedAt"] = nil
	fields["errors"] = []string{}
	fields["attempts"] = 0

	jobID, err := h.storage.CreateJob(c.Request.Context(), fields)
	if err != nil {
		h.reporter.CaptureException(err)
		h.logger.Error("Failed to create job", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":  "internal",
			"error": fmt.Sprintf("Error adding task to queue: %v", err),
		})
		return
	}

	h.logger.Info("Job queued",
		slog.String("job_id", jobID),
		slog.String("job_type", req.JobType),
		slog.String("user_id", userID),
	)

	c.JSON(http.StatusOK, dto.QueueJobResponse{
		Success: true,
		Message: fmt.Sprintf("Your %s task has been queued.", req.JobType),
		JobID:   jobID,
	})
}

// GetJob handles GET /api/v1/jobs/:job_id
// Returns the current state of a job record, including its errors list,
// so callers can observe dispatch outcomes.
func (h *JobHandler) GetJob(c *gin.Context) {
	jobID := c.Param("job_id")
	if jobID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":  "invalid-argument",
			"error": "job_id is required",
		})
		return
	}

	job, err := h.storage.GetJobByID(c.Request.Context(), jobID)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"code":  "not-found",
				"error": "Job not found",
			})
			return
		}

		h.reporter.CaptureException(err)
		h.logger.Error("Failed to get job", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":  "internal",
			"error": "Failed to get job",
		})
		return
	}

	resp := dto.JobDTO{
		JobID:     job.JobID,
		UserID:    job.UserID,
		UserEmail: job.UserEmail,
		JobType:   job.JobType,
		Status:    job.Status,
		Priority:  job.Priority,
		CreatedAt: job.CreatedAt.Format(time.RFC3339),
		Errors:    job.Errors,
		Attempts:  job.Attempts,
	}
	if job.CompletedAt != nil {
		resp.CompletedAt = job.CompletedAt.Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, resp)
}
