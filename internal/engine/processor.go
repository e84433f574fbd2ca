package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/upskillhq/skillmatch/internal/engine/domain"
)

// ProcessBatch pulls up to limit pending tasks in FIFO order and runs each
// one sequentially. A successful employee- or department-scope task fans out
// one organization-scope follow-up before the batch's processed tasks are
// deleted in a single operation. A failed task is logged and left pending;
// one bad task never blocks the rest of the batch. Returns the number of
// tasks processed.
//
// There is no leasing: two overlapping invocations can pick up the same
// pending task. Every recompute is an idempotent upsert, so duplicate
// processing is wasted work, not corruption.
func (e *Engine) ProcessBatch(ctx context.Context, limit int) (int, error) {
	if limit <= 0 {
		limit = DefaultBatchLimit
	}

	tasks, err := e.store.PendingTasks(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("failed to load pending tasks: %w", err)
	}

	processed := make([]string, 0, len(tasks))
	for _, task := range tasks {
		if err := e.runTask(ctx, task); err != nil {
			e.logger.Error("Recompute task failed, leaving in queue",
				slog.String("task_id", task.TaskID),
				slog.String("company_id", task.CompanyID),
				slog.String("scope", task.Scope),
				slog.String("scope_id", task.ScopeID),
				slog.String("reason", task.Reason),
				slog.String("error", err.Error()),
			)
			continue
		}
		processed = append(processed, task.TaskID)
	}

	if len(processed) > 0 {
		if err := e.store.DeleteTasks(ctx, processed); err != nil {
			return 0, fmt.Errorf("failed to delete processed tasks: %w", err)
		}
	}

	e.logger.Info("Batch processed",
		slog.Int("selected", len(tasks)),
		slog.Int("processed", len(processed)),
	)

	return len(processed), nil
}

// runTask dispatches one task by scope and, on success, enqueues its
// organization-scope follow-up. A failed follow-up enqueue fails the task so
// it stays pending and the bubble is retried with it.
func (e *Engine) runTask(ctx context.Context, task domain.QueueTask) error {
	switch task.Scope {
	case domain.ScopeEmployee:
		if err := e.RecomputeEmployee(ctx, task.CompanyID, task.ScopeID); err != nil {
			return err
		}
	case domain.ScopeDepartment:
		if err := e.RecomputeDepartment(ctx, task.CompanyID, task.ScopeID); err != nil {
			return err
		}
	case domain.ScopeOrganization:
		return e.RecomputeOrganization(ctx, task.CompanyID)
	default:
		return fmt.Errorf("%w: %s", domain.ErrInvalidScope, task.Scope)
	}

	followUp := &domain.QueueTask{
		TaskID:    uuid.New().String(),
		CompanyID: task.CompanyID,
		Scope:     domain.ScopeOrganization,
		Reason:    domain.FollowUpReason(task.Scope),
		CreatedAt: time.Now().UTC(),
	}
	if err := e.store.EnqueueTask(ctx, followUp); err != nil {
		return fmt.Errorf("failed to enqueue follow-up task: %w", err)
	}

	e.logger.Debug("Follow-up task enqueued",
		slog.String("task_id", followUp.TaskID),
		slog.String("company_id", followUp.CompanyID),
		slog.String("reason", followUp.Reason),
	)

	return nil
}
