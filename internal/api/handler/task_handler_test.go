package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upskillhq/skillmatch/internal/engine/domain"
	"github.com/upskillhq/skillmatch/internal/engine/storage"
)

type fakeEngine struct {
	processErr   error
	gotLimit     int
	enqueued     []string
	processCount int
}

func (f *fakeEngine) ProcessBatch(_ context.Context, limit int) (int, error) {
	f.gotLimit = limit
	if f.processErr != nil {
		return 0, f.processErr
	}
	return f.processCount, nil
}

func (f *fakeEngine) Enqueue(_ context.Context, companyID, scope, scopeID, reason string) (string, error) {
	if !domain.ValidScope(scope) {
		return "", fmt.Errorf("%w: %s", domain.ErrInvalidScope, scope)
	}
	f.enqueued = append(f.enqueued, scope+"/"+scopeID)
	return "task-1", nil
}

type fakeReader struct{}

func (fakeReader) ListTasks(context.Context, storage.TaskFilter) ([]domain.QueueTask, error) {
	return nil, nil
}

func (fakeReader) GetEmployeeSnapshot(context.Context, string, string) (*domain.EmployeeMatchSnapshot, error) {
	return nil, domain.ErrSnapshotNotFound
}

func (fakeReader) GetDepartmentSnapshot(context.Context, string, string) (*domain.DepartmentMatchSnapshot, error) {
	return nil, domain.ErrSnapshotNotFound
}

func (fakeReader) GetOrganizationSnapshot(context.Context, string) (*domain.OrganizationMatchSnapshot, error) {
	return nil, domain.ErrSnapshotNotFound
}

func newTestHandler(engine Engine) *TaskHandler {
	return NewTaskHandler(&Dependencies{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Engine: engine,
		Store:  fakeReader{},
	})
}

func performJSON(t *testing.T, h gin.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	r := gin.New()
	r.Handle(method, "/", h)

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestProcessTasks(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		processCount  int
		processErr    error
		wantStatus    int
		wantLimit     int
		wantProcessed string
	}{
		{
			name:          "defaults applied on empty body",
			body:          "",
			processCount:  3,
			wantStatus:    http.StatusOK,
			wantLimit:     25,
			wantProcessed: `"processed":3`,
		},
		{
			name:          "explicit mode and limit",
			body:          `{"mode":"process","limit":2}`,
			processCount:  2,
			wantStatus:    http.StatusOK,
			wantLimit:     2,
			wantProcessed: `"processed":2`,
		},
		{
			name:       "unsupported mode",
			body:       `{"mode":"replay"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "engine failure surfaces as 500",
			body:       `{"mode":"process"}`,
			processErr: errors.New("queue unavailable"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &fakeEngine{processCount: tt.processCount, processErr: tt.processErr}
			h := newTestHandler(engine)

			w := performJSON(t, h.ProcessTasks, http.MethodPost, "/", tt.body)

			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantLimit, engine.gotLimit)
				assert.Contains(t, w.Body.String(), tt.wantProcessed)
			}
		})
	}
}

func TestEnqueueTask(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name:       "valid employee task",
			body:       `{"company_id":"acme","scope":"employee","scope_id":"emp-1","reason":"skills_changed"}`,
			wantStatus: http.StatusAccepted,
		},
		{
			name:       "missing company_id",
			body:       `{"scope":"employee","scope_id":"emp-1"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid scope",
			body:       `{"company_id":"acme","scope":"team","scope_id":"t-1"}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &fakeEngine{}
			h := newTestHandler(engine)

			w := performJSON(t, h.EnqueueTask, http.MethodPost, "/", tt.body)

			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusAccepted {
				assert.Equal(t, []string{"employee/emp-1"}, engine.enqueued)
				assert.Contains(t, w.Body.String(), `"task_id":"task-1"`)
			}
		})
	}
}
