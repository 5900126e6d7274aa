package v1

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Saadsid007/task-dashboard/internal/models"
	"github.com/Saadsid007/task-dashboard/internal/services"
)

type taskResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func newTaskResponse(task *models.Task) taskResponse {
	return taskResponse{
		ID:          task.ID,
		UserID:      task.UserID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// taskIDParam parses the :id path segment. A syntactically invalid id cannot
// match any task, so it reads as not found rather than a bad request.
func taskIDParam(c *gin.Context) (string, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return "", false
	}
	return id.String(), true
}

type createTaskRequest struct {
	Title       string  `json:"title" binding:"required,min=2,max=120"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=500"`
	Status      *string `json:"status,omitempty" binding:"omitempty,oneof=todo in_progress done"`
}

func (r *createTaskRequest) normalize() {
	r.Title = strings.TrimSpace(r.Title)
	trimPtr(r.Description)
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		abort(c, newUnauthorizedError())
		return
	}

	var req createTaskRequest
	err := bindJSON(c, &req)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind json")
		abort(c, newValidationError(err))
		return
	}

	params := services.CreateTaskParams{
		UserID: userID,
		Title:  req.Title,
	}
	if req.Description != nil {
		params.Description = *req.Description
	}
	if req.Status != nil {
		params.Status = *req.Status
	}

	task, err := h.tasks.Create(c, params)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create task")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"task": newTaskResponse(task)})
}

func (h *handlerImpl) HandleListTasks(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		abort(c, newUnauthorizedError())
		return
	}

	filter := services.TaskFilter{
		TitleContains: strings.TrimSpace(c.Query("q")),
	}

	// Unknown status values are ignored rather than rejected.
	status := strings.TrimSpace(c.Query("status"))
	if models.IsValidStatus(status) {
		filter.Status = status
	}

	tasks, err := h.tasks.List(c, userID, filter)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list tasks")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	response := make([]taskResponse, 0, len(tasks))
	for _, task := range tasks {
		response = append(response, newTaskResponse(task))
	}

	c.JSON(http.StatusOK, gin.H{"tasks": response})
}

type updateTaskRequest struct {
	Title       *string `json:"title,omitempty" binding:"omitempty,min=2,max=120"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=500"`
	Status      *string `json:"status,omitempty" binding:"omitempty,oneof=todo in_progress done"`
}

func (r *updateTaskRequest) normalize() {
	trimPtr(r.Title)
	trimPtr(r.Description)
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		abort(c, newUnauthorizedError())
		return
	}

	taskID, ok := taskIDParam(c)
	if !ok {
		abort(c, newNotFoundError(services.ErrTaskNotFound.Error()))
		return
	}

	var req updateTaskRequest
	err := bindJSON(c, &req)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind json")
		abort(c, newValidationError(err))
		return
	}

	task, err := h.tasks.Update(c, services.UpdateTaskParams{
		ID:          taskID,
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		h.logger.Warn().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to update task")
		switch {
		case errors.Is(err, services.ErrTaskNotFound):
			abort(c, newNotFoundError(services.ErrTaskNotFound.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": newTaskResponse(task)})
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		abort(c, newUnauthorizedError())
		return
	}

	taskID, ok := taskIDParam(c)
	if !ok {
		abort(c, newNotFoundError(services.ErrTaskNotFound.Error()))
		return
	}

	err := h.tasks.Delete(c, taskID, userID)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to delete task")
		switch {
		case errors.Is(err, services.ErrTaskNotFound):
			abort(c, newNotFoundError(services.ErrTaskNotFound.Error()))
		default:
			// Unlike auth failures, store faults here are server errors.
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
