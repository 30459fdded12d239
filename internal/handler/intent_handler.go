package handler

import (
	"net/http"

	"taskmarket/internal/middleware"
	"taskmarket/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type IntentHandler struct {
	intentRepo repository.IntentRepositoryInterface
	taskRepo   repository.TaskRepositoryInterface
}

func NewIntentHandler(
	intentRepo repository.IntentRepositoryInterface,
	taskRepo repository.TaskRepositoryInterface,
) *IntentHandler {
	return &IntentHandler{
		intentRepo: intentRepo,
		taskRepo:   taskRepo,
	}
}

// Toggle flips the caller's interest in a task: present -> withdrawn,
// absent -> expressed.
func (h *IntentHandler) Toggle(c *gin.Context) {
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

	if _, err := h.taskRepo.GetByID(c.Request.Context(), taskID); err != nil {
		if err == repository.ErrTaskNotFound {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve task"})
		}
		return
	}

	added, err := h.intentRepo.Toggle(c.Request.Context(), taskID, authenticatedUserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update intent"})
		return
	}

	action := "removed"
	if added {
		action = "added"
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "action": action})
}

// Check reports whether the caller has expressed interest in the task
func (h *IntentHandler) Check(c *gin.Context) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusOK, gin.H{"hasIntent": false})
		return
	}

	authenticatedUserID, ok := userID.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"hasIntent": false})
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"hasIntent": false})
		return
	}

	hasIntent, err := h.intentRepo.Exists(c.Request.Context(), taskID, authenticatedUserID)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"hasIntent": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"hasIntent": hasIntent})
}

// ListByTask returns everyone interested in a task, oldest first
func (h *IntentHandler) ListByTask(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid task ID format"})
		return
	}

	intents, err := h.intentRepo.ListByTask(c.Request.Context(), taskID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve intents"})
		return
	}

	c.JSON(http.StatusOK, intents)
}
