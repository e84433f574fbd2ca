package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/upskillhq/skillmatch/internal/api/dto"
	"github.com/upskillhq/skillmatch/internal/engine/domain"
	"github.com/upskillhq/skillmatch/internal/engine/storage"
)

const (
	// ModeProcess is the only documented processor mode
	ModeProcess = "process"

	defaultBatchLimit = 25
)

// ProcessTasks handles POST /api/v1/recompute
// Runs one processor batch and reports the processed count
func (h *TaskHandler) ProcessTasks(c *gin.Context) {
	var req dto.ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	if req.Mode == "" {
		req.Mode = ModeProcess
	}
	if req.Mode != ModeProcess {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "unsupported mode: " + req.Mode,
		})
		return
	}

	if req.Limit <= 0 {
		req.Limit = defaultBatchLimit
	}

	h.logger.Info("Processing recompute batch",
		slog.String("mode", req.Mode),
		slog.Int("limit", req.Limit),
	)

	processed, err := h.engine.ProcessBatch(c.Request.Context(), req.Limit)
	if err != nil {
		h.logger.Error("Batch processing failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, dto.ProcessResponse{Processed: processed})
}

// EnqueueTask handles POST /api/v1/tasks
// Adds a pending recompute task; used by external producers after a change
// that warrants a recompute (e.g. skills updated)
func (h *TaskHandler) EnqueueTask(c *gin.Context) {
	var req dto.EnqueueTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	taskID, err := h.engine.Enqueue(c.Request.Context(), req.CompanyID, req.Scope, req.ScopeID, req.Reason)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidScope) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "scope must be employee, department, or organization",
			})
			return
		}
		h.logger.Error("Failed to enqueue task", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to enqueue task",
		})
		return
	}

	c.JSON(http.StatusAccepted, dto.EnqueueTaskResponse{
		TaskID:    taskID,
		CompanyID: req.CompanyID,
		Scope:     req.Scope,
		ScopeID:   req.ScopeID,
		Reason:    req.Reason,
	})
}

// ListTasks handles GET /api/v1/tasks
// Lists pending tasks in queue order with cursor pagination
func (h *TaskHandler) ListTasks(c *gin.Context) {
	var req dto.ListTasksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.logger.Error("Invalid query parameters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid query parameters",
		})
		return
	}

	if req.PageSize <= 0 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	cursor, err := DecodeTaskCursor(req.Cursor)
	if err != nil {
		h.logger.Error("Invalid cursor", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid cursor",
		})
		return
	}

	filter := storage.TaskFilter{
		CompanyID: req.CompanyID,
		Scope:     req.Scope,
		PageSize:  req.PageSize,
		Cursor:    cursor,
	}

	tasks, err := h.store.ListTasks(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list tasks", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list tasks",
		})
		return
	}

	hasMore := len(tasks) > req.PageSize
	if hasMore {
		tasks = tasks[:req.PageSize]
	}

	taskResponse := make([]dto.TaskDTO, len(tasks))
	for i, task := range tasks {
		taskResponse[i] = dto.TaskDTO{
			TaskID:    task.TaskID,
			CompanyID: task.CompanyID,
			Scope:     task.Scope,
			ScopeID:   task.ScopeID,
			Reason:    task.Reason,
			CreatedAt: task.CreatedAt.Format(time.RFC3339),
		}
	}

	var nextCursor string
	if hasMore {
		lastTask := tasks[len(tasks)-1]
		nextCursor = EncodeTaskCursor(&storage.TaskCursor{
			CreatedAt: lastTask.CreatedAt,
			Seq:       lastTask.Seq,
		})
	}

	c.JSON(http.StatusOK, dto.ListTasksResponse{
		Tasks:      taskResponse,
		NextCursor: nextCursor,
	})
}
