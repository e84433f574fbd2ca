// Package engine implements the market-skill-match aggregation engine: a
// queue-driven recompute of employee, department, and organization match
// snapshots against externally produced market benchmarks.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/upskillhq/skillmatch/internal/engine/domain"
)

// DefaultBatchLimit bounds a processor invocation when the caller passes no limit.
const DefaultBatchLimit = 25

// Store is the relational backing for the engine: the task queue, the
// benchmark and directory reads, and the snapshot upserts. It is the only
// shared mutable resource; all coordination goes through it.
type Store interface {
	// Task queue
	PendingTasks(ctx context.Context, limit int) ([]domain.QueueTask, error)
	EnqueueTask(ctx context.Context, task *domain.QueueTask) error
	DeleteTasks(ctx context.Context, taskIDs []string) error

	// Benchmarks (read-only, produced externally)
	LatestBenchmarkByDepartment(ctx context.Context, companyID, department string) (*domain.MarketBenchmark, error)
	LatestBenchmarkByRole(ctx context.Context, companyID, roleName string) (*domain.MarketBenchmark, error)
	LatestBenchmark(ctx context.Context, companyID string) (*domain.MarketBenchmark, error)

	// Employee directory (read-only)
	GetEmployee(ctx context.Context, companyID, employeeID string) (*domain.Employee, error)
	ListEmployeeSkills(ctx context.Context, companyID, employeeID string) ([]domain.ObservedSkill, error)
	ListEmployeesByDepartment(ctx context.Context, companyID, department string) ([]domain.Employee, error)

	// Snapshots
	UpsertEmployeeSnapshot(ctx context.Context, snap *domain.EmployeeMatchSnapshot) error
	GetEmployeeSnapshot(ctx context.Context, companyID, employeeID string) (*domain.EmployeeMatchSnapshot, error)
	ListEmployeeSnapshots(ctx context.Context, companyID string) ([]domain.EmployeeMatchSnapshot, error)
	UpsertDepartmentSnapshot(ctx context.Context, snap *domain.DepartmentMatchSnapshot) error
	ListDepartmentSnapshots(ctx context.Context, companyID string) ([]domain.DepartmentMatchSnapshot, error)
	UpsertOrganizationSnapshot(ctx context.Context, snap *domain.OrganizationMatchSnapshot) error
}

// Notifier wakes the worker after an external enqueue. Best-effort: the queue
// row is the source of truth and the worker also runs on a schedule, so a
// failed notification is logged and dropped.
type Notifier interface {
	NotifyTaskEnqueued(ctx context.Context, taskID string) error
}

// Engine runs recompute tasks against a Store.
type Engine struct {
	store    Store
	notifier Notifier
	logger   *slog.Logger
}

// New creates an Engine. notifier may be nil when no wake-up channel exists
// (the worker service's own engine, tests).
func New(store Store, notifier Notifier, logger *slog.Logger) *Engine {
	return &Engine{
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
}

// Enqueue inserts a pending recompute task and fires a wake-up notification.
// ScopeID is the employee id or department name; for organization scope it is
// left empty (the company id already identifies the scope instance).
func (e *Engine) Enqueue(ctx context.Context, companyID, scope, scopeID, reason string) (string, error) {
	if !domain.ValidScope(scope) {
		return "", fmt.Errorf("%w: %s", domain.ErrInvalidScope, scope)
	}

	task := &domain.QueueTask{
		TaskID:    uuid.New().String(),
		CompanyID: companyID,
		Scope:     scope,
		ScopeID:   scopeID,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}

	if err := e.store.EnqueueTask(ctx, task); err != nil {
		return "", fmt.Errorf("failed to enqueue task: %w", err)
	}

	e.logger.Info("Recompute task enqueued",
		slog.String("task_id", task.TaskID),
		slog.String("company_id", companyID),
		slog.String("scope", scope),
		slog.String("scope_id", scopeID),
		slog.String("reason", reason),
	)

	if e.notifier != nil {
		if err := e.notifier.NotifyTaskEnqueued(ctx, task.TaskID); err != nil {
			e.logger.Warn("Failed to publish enqueue notification",
				slog.String("task_id", task.TaskID),
				slog.String("error", err.Error()),
			)
		}
	}

	return task.TaskID, nil
}
