package handler

import (
	"net/http"
	"time"

	"taskmarket/internal/middleware"
	"taskmarket/internal/model"
	"taskmarket/internal/repository"
	"taskmarket/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TaskHandler struct {
	taskRepo repository.TaskRepositoryInterface
	store    *storage.Store
}

func NewTaskHandler(taskRepo repository.TaskRepositoryInterface, store *storage.Store) *TaskHandler {
	return &TaskHandler{
		taskRepo: taskRepo,
		store:    store,
	}
}

// TaskResponse is the wire shape of one task
type TaskResponse struct {
	ID           string               `json:"id"`
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	Budget       string               `json:"budget"`
	Region       string               `json:"region"`
	PosterID     string               `json:"poster_id"`
	ContractorID *string              `json:"contractor_id,omitempty"`
	Status       string               `json:"status"`
	IsCompleted  bool                 `json:"is_completed"`
	ClosedAt     *string              `json:"closed_at,omitempty"`
	CreatedAt    string               `json:"created_at"`
	Attachments  model.AttachmentList `json:"attachments"`
}

// UpdateTaskRequest carries the editable task fields
type UpdateTaskRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Budget      string  `json:"budget"`
	Region      string  `json:"region"`
	ClosedAt    *string `json:"closed_at"`
}

func taskToResponse(task *model.Task) TaskResponse {
	resp := TaskResponse{
		ID:          task.ID.String(),
		Title:       task.Title,
		Description: task.Description,
		Budget:      task.Budget,
		Region:      task.Region,
		PosterID:    task.PosterID.String(),
		Status:      task.Status,
		IsCompleted: task.IsCompleted,
		CreatedAt:   task.CreatedAt.Format(time.RFC3339),
		Attachments: task.Attachments,
	}
	if resp.Attachments == nil {
		resp.Attachments = model.AttachmentList{}
	}
	if task.ContractorID != nil {
		contractorID := task.ContractorID.String()
		resp.ContractorID = &contractorID
	}
	if task.ClosedAt != nil {
		closedAt := task.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &closedAt
	}
	return resp
}

// Create posts a new task. Expects a multipart form with title, description,
// budget, region, optional closed_at (RFC3339) and taskFiles[] attachments.
func (h *TaskHandler) Create(c *gin.Context) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authenticated"})
		return
	}

	posterID, ok := userID.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Invalid user ID format"})
		return
	}

	title := c.PostForm("title")
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "title is required"})
		return
	}

	var closedAt *time.Time
	if v := c.PostForm("closed_at"); v != "" && v != "null" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid closed_at format"})
			return
		}
		closedAt = &t
	}

	// Attachments are stored before the database write; a file left behind
	// by a failed insert is an accepted orphan.
	attachments := model.AttachmentList{}
	if form, err := c.MultipartForm(); err == nil && form != nil {
		files := form.File["taskFiles"]
		attachments, err = h.store.SaveAll(files)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to store attachments"})
			return
		}
	}

	task := &model.Task{
		Title:       title,
		Description: c.PostForm("description"),
		Budget:      c.PostForm("budget"),
		Region:      c.PostForm("region"),
		Attachments: attachments,
		PosterID:    posterID,
		Status:      model.TaskStatusOpen,
		ClosedAt:    closedAt,
	}

	if err := h.taskRepo.Create(c.Request.Context(), task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create task"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":     true,
		"id":          task.ID.String(),
		"created_at":  task.CreatedAt.Format(time.RFC3339),
		"attachments": attachments,
	})
}

// List returns every open task, newest first
func (h *TaskHandler) List(c *gin.Context) {
	tasks, err := h.taskRepo.ListOpen(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve tasks"})
		return
	}

	response := make([]TaskResponse, len(tasks))
	for i := range tasks {
		response[i] = taskToResponse(&tasks[i])
	}

	c.JSON(http.StatusOK, response)
}

// ListMine returns the caller's own tasks, newest first
func (h *TaskHandler) ListMine(c *gin.Context) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authenticated"})
		return
	}

	posterID, ok := userID.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Invalid user ID format"})
		return
	}

	tasks, err := h.taskRepo.ListByPoster(c.Request.Context(), posterID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve tasks"})
		return
	}

	response := make([]TaskResponse, len(tasks))
	for i := range tasks {
		response[i] = taskToResponse(&tasks[i])
	}

	c.JSON(http.StatusOK, response)
}

// GetByID returns one task
func (h *TaskHandler) GetByID(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid task ID format"})
		return
	}

	task, err := h.taskRepo.GetByID(c.Request.Context(), taskID)
	if err != nil {
		if err == repository.ErrTaskNotFound {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve task"})
		}
		return
	}

	c.JSON(http.StatusOK, taskToResponse(task))
}

// Update edits a task. Poster only.
func (h *TaskHandler) Update(c *gin.Context) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authenticated"})
		return
	}

	authenticatedUserID, ok := userID.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Invalid user ID format"})
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid task ID format"})
		return
	}

	task, err := h.taskRepo.GetByID(c.Request.Context(), taskID)
	if err != nil {
		if err == repository.ErrTaskNotFound {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve task"})
		}
		return
	}

	if task.PosterID != authenticatedUserID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Only the poster can edit this task"})
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	task.Title = req.Title
	task.Description = req.Description
	task.Budget = req.Budget
	task.Region = req.Region
	if req.ClosedAt != nil && *req.ClosedAt != "" {
		t, err := time.Parse(time.RFC3339, *req.ClosedAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid closed_at format"})
			return
		}
		task.ClosedAt = &t
	} else {
		task.ClosedAt = nil
	}

	if err := h.taskRepo.Update(c.Request.Context(), task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update task"})
		return
	}

	c.JSON(http.StatusOK, taskToResponse(task))
}

// Delete removes a task and its intents. Poster only.
func (h *TaskHandler) Delete(c *gin.Context) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authenticated"})
		return
	}

	authenticatedUserID, ok := userID.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Invalid user ID format"})
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid task ID format"})
		return
	}

	task, err := h.taskRepo.GetByID(c.Request.Context(), taskID)
	if err != nil {
		if err == repository.ErrTaskNotFound {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve task"})
		}
		return
	}

	if task.PosterID != authenticatedUserID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Only the poster can delete this task"})
		return
	}

	if err := h.taskRepo.Delete(c.Request.Context(), taskID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ToggleCompleted flips the completion flag. Poster only.
func (h *TaskHandler) ToggleCompleted(c *gin.Context) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authenticated"})
		return
	}

	authenticatedUserID, ok := userID.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Invalid user ID format"})
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid task ID format"})
		return
	}

	task, err := h.taskRepo.GetByID(c.Request.Context(), taskID)
	if err != nil {
		if err == repository.ErrTaskNotFound {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve task"})
		}
		return
	}

	if task.PosterID != authenticatedUserID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Only the poster can update this task"})
		return
	}

	newStatus, err := h.taskRepo.ToggleCompleted(c.Request.Context(), taskID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "newStatus": newStatus})
}
