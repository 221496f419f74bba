package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"github.com/eprocure/lookups/internal/tasks"
)

// TaskStatusReader looks up queued task state.
type TaskStatusReader interface {
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}

// CleanupTrigger enqueues an audit cleanup outside the cron schedule.
type CleanupTrigger interface {
	RunNow() (string, error)
}

// TasksController handles task queue management endpoints.
type TasksController struct {
	client  TaskStatusReader
	cleanup CleanupTrigger
}

// NewTasksController creates a new TasksController. cleanup may be nil when
// audit retention is disabled.
func NewTasksController(client TaskStatusReader, cleanup CleanupTrigger) *TasksController {
	return &TasksController{client: client, cleanup: cleanup}
}

// GetTaskStatus handles GET /api/tasks/:id
func (tc *TasksController) GetTaskStatus(c *gin.Context) {
	taskID := c.Param("id")
	if taskID == "" {
		respondBadRequest(c, "task ID is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := tc.client.Status(ctx, taskID)
	if err != nil {
		respondInternalError(c, err, "task status")
		return
	}

	code := http.StatusOK
	if status == backlite.TaskStatusNotFound {
		code = http.StatusNotFound
	}
	c.JSON(code, gin.H{
		"id":     taskID,
		"status": tasks.StatusName(status),
	})
}

// RunAuditCleanup handles POST /api/tasks/cleanup_audit_events/run
func (tc *TasksController) RunAuditCleanup(c *gin.Context) {
	if tc.cleanup == nil {
		respondError(c, http.StatusServiceUnavailable, "audit cleanup is disabled")
		return
	}

	id, err := tc.cleanup.RunNow()
	if err != nil {
		respondInternalError(c, err, "enqueue audit cleanup")
		return
	}

	respondAccepted(c, gin.H{
		"task_id": id,
		"type":    tasks.CleanupAuditEventsQueue,
		"message": "task enqueued",
	})
}
