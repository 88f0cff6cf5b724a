package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"homeclean-backend/internal/models"
	"homeclean-backend/internal/services"
)

type TasksHandler struct {
	tasks *services.TaskService
}

func NewTasksHandler(tasks *services.TaskService) *TasksHandler {
	return &TasksHandler{tasks: tasks}
}

// CreateTask godoc
// @Summary     Create a cleaning task
// @Description Submits the task wizard. Each call creates a new task with status New.
// @Tags        tasks
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.CreateTaskRequest true "Task details"
// @Success     201 {object} models.Task
// @Failure     400 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Router      /tasks [post]
func (h *TasksHandler) CreateTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req models.CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// ListTasks godoc
// @Summary     List the caller's posted tasks
// @Tags        tasks
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.TaskListResponse
// @Router      /tasks [get]
func (h *TasksHandler) ListTasks(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	tasks, err := h.tasks.ListOwned(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.TaskListResponse{Tasks: tasks})
}

// ListAvailable godoc
// @Summary     List open tasks for cleaners
// @Tags        tasks
// @Produce     json
// @Security    Bearer
// @Param       match_availability query bool false "Only tasks inside the caller's availability grid"
// @Success     200 {object} models.TaskListResponse
// @Router      /tasks/available [get]
func (h *TasksHandler) ListAvailable(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	match, _ := strconv.ParseBool(c.Query("match_availability"))

	tasks, err := h.tasks.ListAvailable(c.Request.Context(), userID, match)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.TaskListResponse{Tasks: tasks})
}

// ListAssigned godoc
// @Summary     List tasks assigned to the caller
// @Tags        tasks
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.TaskListResponse
// @Router      /tasks/assigned [get]
func (h *TasksHandler) ListAssigned(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	tasks, err := h.tasks.ListAssigned(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.TaskListResponse{Tasks: tasks})
}

// GetTask godoc
// @Summary     Get a task
// @Tags        tasks
// @Produce     json
// @Security    Bearer
// @Param       task_id path string true "Task ID (UUID)"
// @Success     200 {object} models.Task
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /tasks/{task_id} [get]
func (h *TasksHandler) GetTask(c *gin.Context) {
	userID, taskID, ok := userAndTask(c)
	if !ok {
		return
	}
	task, err := h.tasks.Get(c.Request.Context(), userID, taskID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// UpdateTask godoc
// @Summary     Edit a task
// @Description Owner only. Any field, including status, may be set directly.
// @Tags        tasks
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       task_id path string true "Task ID (UUID)"
// @Param       request body models.TaskPatch true "Fields to change"
// @Success     200 {object} models.Task
// @Failure     400 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Router      /tasks/{task_id} [patch]
func (h *TasksHandler) UpdateTask(c *gin.Context) {
	userID, taskID, ok := userAndTask(c)
	if !ok {
		return
	}
	var patch models.TaskPatch
	if !bindJSON(c, &patch) {
		return
	}

	task, err := h.tasks.Update(c.Request.Context(), userID, taskID, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// DeleteTask godoc
// @Summary     Delete a task
// @Tags        tasks
// @Security    Bearer
// @Param       task_id path string true "Task ID (UUID)"
// @Success     204
// @Failure     403 {object} models.ErrorResponse
// @Router      /tasks/{task_id} [delete]
func (h *TasksHandler) DeleteTask(c *gin.Context) {
	userID, taskID, ok := userAndTask(c)
	if !ok {
		return
	}
	if err := h.tasks.Delete(c.Request.Context(), userID, taskID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AcceptTask godoc
// @Summary     Accept an open task
// @Description Cleaner only. When two cleaners accept at once, one gets 409.
// @Tags        tasks
// @Produce     json
// @Security    Bearer
// @Param       task_id path string true "Task ID (UUID)"
// @Success     200 {object} models.Task
// @Failure     403 {object} models.ErrorResponse
// @Failure     409 {object} models.ErrorResponse
// @Router      /tasks/{task_id}/accept [post]
func (h *TasksHandler) AcceptTask(c *gin.Context) {
	h.transition(c, h.tasks.Accept)
}

// ConfirmTask godoc
// @Summary     Confirm the accepting cleaner
// @Tags        tasks
// @Produce     json
// @Security    Bearer
// @Param       task_id path string true "Task ID (UUID)"
// @Success     200 {object} models.Task
// @Failure     409 {object} models.ErrorResponse
// @Router      /tasks/{task_id}/confirm [post]
func (h *TasksHandler) ConfirmTask(c *gin.Context) {
	h.transition(c, h.tasks.Confirm)
}

// CheckIn godoc
// @Summary     Record cleaner arrival
// @Tags        tasks
// @Produce     json
// @Security    Bearer
// @Param       task_id path string true "Task ID (UUID)"
// @Success     200 {object} models.Task
// @Router      /tasks/{task_id}/check-in [post]
func (h *TasksHandler) CheckIn(c *gin.Context) {
	h.transition(c, h.tasks.CheckIn)
}

// CompleteTask godoc
// @Summary     Mark a task completed
// @Tags        tasks
// @Produce     json
// @Security    Bearer
// @Param       task_id path string true "Task ID (UUID)"
// @Success     200 {object} models.Task
// @Router      /tasks/{task_id}/complete [post]
func (h *TasksHandler) CompleteTask(c *gin.Context) {
	h.transition(c, h.tasks.Complete)
}

// CancelTask godoc
// @Summary     Cancel a task
// @Tags        tasks
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       task_id path string true "Task ID (UUID)"
// @Param       request body models.CancelTaskRequest false "Optional reason"
// @Success     200 {object} models.Task
// @Router      /tasks/{task_id}/cancel [post]
func (h *TasksHandler) CancelTask(c *gin.Context) {
	userID, taskID, ok := userAndTask(c)
	if !ok {
		return
	}
	var req models.CancelTaskRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	task, err := h.tasks.Cancel(c.Request.Context(), userID, taskID, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TasksHandler) transition(c *gin.Context, step func(ctx context.Context, userID, taskID uuid.UUID) (*models.Task, error)) {
	userID, taskID, ok := userAndTask(c)
	if !ok {
		return
	}
	task, err := step(c.Request.Context(), userID, taskID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func userAndTask(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	taskID, ok := uuidParam(c, "task_id")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	return userID, taskID, true
}
