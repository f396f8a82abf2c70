package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"github.com/cardshelf/showcase/internal/tasks"
)

// TasksController handles task queue endpoints.
type TasksController struct {
	client *tasks.Client
	maxAge time.Duration
}

// NewTasksController creates a new TasksController. maxAge is the age
// threshold of manually triggered prune runs.
func NewTasksController(client *tasks.Client, maxAge time.Duration) *TasksController {
	return &TasksController{client: client, maxAge: maxAge}
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

	c.JSON(http.StatusOK, gin.H{
		"id":     taskID,
		"status": taskStatusToString(status),
	})
}

// PruneImages handles POST /api/tasks/prune_images/run
func (tc *TasksController) PruneImages(c *gin.Context) {
	id, err := tc.client.PruneImages(c.Request.Context(), tc.maxAge)
	if err != nil {
		respondInternalError(c, err, "enqueue image prune")
		return
	}
	respondAccepted(c, "task enqueued", gin.H{"task_id": id, "type": tasks.QueuePruneImages})
}

func taskStatusToString(status backlite.TaskStatus) string {
	switch status {
	case backlite.TaskStatusPending:
		return "pending"
	case backlite.TaskStatusRunning:
		return "running"
	case backlite.TaskStatusSuccess:
		return "success"
	case backlite.TaskStatusFailure:
		return "failure"
	case backlite.TaskStatusNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}
