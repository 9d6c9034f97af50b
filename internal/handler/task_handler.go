package handler

import (
	"errors"
	"net/http"
	"time"

	"taskboard/internal/middleware"
	"taskboard/internal/model"
	"taskboard/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TaskHandler struct {
	taskRepo repository.TaskRepositoryInterface
	logger   *zap.Logger
}

func NewTaskHandler(taskRepo repository.TaskRepositoryInterface, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{taskRepo: taskRepo, logger: logger}
}

// TaskRequest представляет запрос на создание задачи
type TaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// StatusRequest представляет запрос на перенос задачи в другую колонку
type StatusRequest struct {
	Status model.Status `json:"status" binding:"required,taskstatus"`
}

// TaskResponse представляет ответ с данными задачи
type TaskResponse struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

func toTaskResponse(t *model.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID.String(),
		UserID:      t.UserID.String(),
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status.String(),
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
	}
}

// List godoc
// @Summary   Tasks of the current user, newest first
// @Tags      Tasks
// @Produce   json
// @Security  BearerAuth
// @Success   200 {array} TaskResponse
// @Router    /api/tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	tasks, err := h.taskRepo.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("list tasks", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	response := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		response = append(response, toTaskResponse(&tasks[i]))
	}
	c.JSON(http.StatusOK, response)
}

// Create godoc
// @Summary   Create a task in the pending column
// @Tags      Tasks
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     request body TaskRequest true "Task"
// @Success   201 {object} TaskResponse
// @Failure   400 {object} map[string]string
// @Router    /api/tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide title and description"})
		return
	}

	task := &model.Task{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Status:      model.StatusPending,
		CreatedAt:   time.Now(),
	}

	if err := h.taskRepo.Create(c.Request.Context(), task); err != nil {
		h.logger.Error("create task", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	c.JSON(http.StatusCreated, toTaskResponse(task))
}

// UpdateStatus godoc
// @Summary   Move a task to another column
// @Tags      Tasks
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     id path string true "Task ID"
// @Param     request body StatusRequest true "New status"
// @Success   200 {object} TaskResponse
// @Failure   400,403,404 {object} map[string]string
// @Router    /api/tasks/{id} [put]
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	task, ok := h.ownedTask(c)
	if !ok {
		return
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	if err := h.taskRepo.UpdateStatus(c.Request.Context(), task, req.Status); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		h.logger.Error("update task status", zap.String("task_id", task.ID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(task))
}

// Delete godoc
// @Summary   Delete a task
// @Tags      Tasks
// @Produce   json
// @Security  BearerAuth
// @Param     id path string true "Task ID"
// @Success   200 {object} map[string]string
// @Failure   400,403,404 {object} map[string]string
// @Router    /api/tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	task, ok := h.ownedTask(c)
	if !ok {
		return
	}

	if err := h.taskRepo.Delete(c.Request.Context(), task.ID); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		h.logger.Error("delete task", zap.String("task_id", task.ID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task removed"})
}

// ownedTask загружает задачу из URL и проверяет, что она принадлежит текущему пользователю.
// При неудаче ответ уже записан.
func (h *TaskHandler) ownedTask(c *gin.Context) (*model.Task, bool) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return nil, false
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return nil, false
	}

	task, err := h.taskRepo.GetByID(c.Request.Context(), taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			h.logger.Error("get task", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		}
		return nil, false
	}

	if task.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to modify this task"})
		return nil, false
	}

	return task, true
}
