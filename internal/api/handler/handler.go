package handler

import (
	"context"
	"log/slog"

	"github.com/upskillhq/skillmatch/internal/engine/domain"
	"github.com/upskillhq/skillmatch/internal/engine/storage"
)

// Engine is the slice of the aggregation engine the HTTP surface drives.
type Engine interface {
	ProcessBatch(ctx context.Context, limit int) (int, error)
	Enqueue(ctx context.Context, companyID, scope, scopeID, reason string) (string, error)
}

// SnapshotReader serves the dashboard read endpoints.
type SnapshotReader interface {
	ListTasks(ctx context.Context, filter storage.TaskFilter) ([]domain.QueueTask, error)
	GetEmployeeSnapshot(ctx context.Context, companyID, employeeID string) (*domain.EmployeeMatchSnapshot, error)
	GetDepartmentSnapshot(ctx context.Context, companyID, department string) (*domain.DepartmentMatchSnapshot, error)
	GetOrganizationSnapshot(ctx context.Context, companyID string) (*domain.OrganizationMatchSnapshot, error)
}

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger *slog.Logger
	Engine Engine
	Store  SnapshotReader
}

// TaskHandler handles the recompute trigger and task queue HTTP requests
type TaskHandler struct {
	logger *slog.Logger
	engine Engine
	store  SnapshotReader
}

// NewTaskHandler creates a new TaskHandler instance
func NewTaskHandler(deps *Dependencies) *TaskHandler {
	return &TaskHandler{
		logger: deps.Logger,
		engine: deps.Engine,
		store:  deps.Store,
	}
}

// SnapshotHandler handles snapshot read HTTP requests
type SnapshotHandler struct {
	logger *slog.Logger
	store  SnapshotReader
}

// NewSnapshotHandler creates a new SnapshotHandler instance
func NewSnapshotHandler(deps *Dependencies) *SnapshotHandler {
	return &SnapshotHandler{
		logger: deps.Logger,
		store:  deps.Store,
	}
}
