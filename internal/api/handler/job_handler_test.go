package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snapmeal/jobs-be/internal/api/domain"
	"github.com/snapmeal/jobs-be/internal/api/dto"
	"github.com/snapmeal/jobs-be/internal/api/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeJobStore struct {
	createdFields map[string]any
	createErr     error

	job    *model.Job
	getErr error
}

func (f *fakeJobStore) CreateJob(ctx context.Context, fields map[string]any) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.createdFields = fields
	return "job-123", nil
}

func (f *fakeJobStore) GetJobByID(ctx context.Context, jobID string) (*model.Job, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.job, nil
}

type fakeReporter struct {
	captured []error
}

func (f *fakeReporter) CaptureException(err error) {
	f.captured = append(f.captured, err)
}

func newTestHandler(store *fakeJobStore, reporter *fakeReporter) *JobHandler {
	return NewJobHandler(&Dependencies{
		Logger:   testLogger(),
		Storage:  store,
		Reporter: reporter,
	})
}

func performQueueJob(h *JobHandler, body string, authed bool, uid, email string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/jobs", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	if authed {
		c.Set(ContextAuthenticated, true)
		c.Set(ContextUserID, uid)
		c.Set(ContextUserEmail, email)
	}
	h.QueueJob(c)
	return w
}

func TestJobHandler_QueueJob_Unauthenticated(t *testing.T) {
	store := &fakeJobStore{}
	h := newTestHandler(store, &fakeReporter{})

	w := performQueueJob(h, `{"jobType":"exportData"}`, false, "", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "unauthenticated")
	assert.Nil(t, store.createdFields)
}

func TestJobHandler_QueueJob_MissingJobType(t *testing.T) {
	store := &fakeJobStore{}
	h := newTestHandler(store, &fakeReporter{})

	w := performQueueJob(h, `{"priority":2}`, true, "u1", "u1@x.com")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Job type is required.")
}

func TestJobHandler_QueueJob_InvalidBody(t *testing.T) {
	store := &fakeJobStore{}
	h := newTestHandler(store, &fakeReporter{})

	w := performQueueJob(h, `{not json`, true, "u1", "u1@x.com")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid request body")
}

func TestJobHandler_QueueJob_MissingUserID(t *testing.T) {
	store := &fakeJobStore{}
	h := newTestHandler(store, &fakeReporter{})

	w := performQueueJob(h, `{"jobType":"exportData"}`, true, "", "u1@x.com")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "User ID is required.")
}

func TestJobHandler_QueueJob_Success(t *testing.T) {
	store := &fakeJobStore{}
	reporter := &fakeReporter{}
	h := newTestHandler(store, reporter)

	w := performQueueJob(h, `{"jobType":"exportData","taskData":{"format":"csv"}}`, true, "u1", "u1@x.com")

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.QueueJobResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Your exportData task has been queued.", resp.Message)
	assert.Equal(t, "job-123", resp.JobID)

	fields := store.createdFields
	require.NotNil(t, fields)
	assert.Equal(t, "u1", fields["userId"])
	assert.Equal(t, "u1@x.com", fields["userEmail"])
	assert.Equal(t, "exportData", fields["jobType"])
	assert.Equal(t, domain.JobStatusPending, fields["status"])
	assert.Equal(t, 1, fields["priority"], "priority defaults to 1")
	assert.Equal(t, firestore.ServerTimestamp, fields["createdAt"])
	assert.Nil(t, fields["completedAt"])
	assert.Equal(t, []string{}, fields["errors"])
	assert.Equal(t, 0, fields["attempts"])
	assert.Equal(t, "csv", fields["format"], "task data passes through")
	assert.Empty(t, reporter.captured)
}

func TestJobHandler_QueueJob_TaskDataCannotOverrideStandardFields(t *testing.T) {
	store := &fakeJobStore{}
	h := newTestHandler(store, &fakeReporter{})

	body := `{"jobType":"deleteAccount","taskData":{"status":"completed","userId":"someone-else"}}`
	w := performQueueJob(h, body, true, "u1", "u1@x.com")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.JobStatusPending, store.createdFields["status"])
	assert.Equal(t, "u1", store.createdFields["userId"])
}

func TestJobHandler_QueueJob_PriorityOverride(t *testing.T) {
	store := &fakeJobStore{}
	h := newTestHandler(store, &fakeReporter{})

	w := performQueueJob(h, `{"jobType":"exportData","priority":5}`, true, "u1", "u1@x.com")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, store.createdFields["priority"])
}

func TestJobHandler_QueueJob_StoreFailure(t *testing.T) {
	store := &fakeJobStore{createErr: errors.New("firestore unavailable")}
	reporter := &fakeReporter{}
	h := newTestHandler(store, reporter)

	w := performQueueJob(h, `{"jobType":"exportData"}`, true, "u1", "u1@x.com")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Error adding task to queue")
	assert.Len(t, reporter.captured, 1)
}

func performGetJob(h *JobHandler, jobID string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/jobs/"+jobID, nil)
	c.Params = gin.Params{{Key: "job_id", Value: jobID}}
	h.GetJob(c)
	return w
}

func TestJobHandler_GetJob_Success(t *testing.T) {
	completed := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	store := &fakeJobStore{
		job: &model.Job{
			JobID:       "job-123",
			UserID:      "u1",
			UserEmail:   "u1@x.com",
			JobType:     "exportData",
			Status:      domain.JobStatusCompleted,
			Priority:    1,
			CreatedAt:   time.Date(2026, 3, 14, 8, 30, 0, 0, time.UTC),
			CompletedAt: &completed,
			Errors:      []string{},
			Attempts:    1,
		},
	}
	h := newTestHandler(store, &fakeReporter{})

	w := performGetJob(h, "job-123")

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.JobDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "job-123", resp.JobID)
	assert.Equal(t, domain.JobStatusCompleted, resp.Status)
	assert.Equal(t, "2026-03-14T08:30:00Z", resp.CreatedAt)
	assert.Equal(t, "2026-03-14T09:00:00Z", resp.CompletedAt)
	assert.Equal(t, 1, resp.Attempts)
}

func TestJobHandler_GetJob_NotFound(t *testing.T) {
	store := &fakeJobStore{getErr: domain.ErrJobNotFound}
	h := newTestHandler(store, &fakeReporter{})

	w := performGetJob(h, "missing")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not-found")
}

func TestJobHandler_GetJob_StoreFailure(t *testing.T) {
	store := &fakeJobStore{getErr: errors.New("firestore unavailable")}
	reporter := &fakeReporter{}
	h := newTestHandler(store, reporter)

	w := performGetJob(h, "job-123")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Len(t, reporter.captured, 1)
}
