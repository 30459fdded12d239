package handler

import (
	"math"
	"net/http"

	"taskmarket/internal/middleware"
	"taskmarket/internal/model"
	"taskmarket/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReviewHandler struct {
	reviewRepo repository.ReviewRepositoryInterface
	taskRepo   repository.TaskRepositoryInterface
}

func NewReviewHandler(
	reviewRepo repository.ReviewRepositoryInterface,
	taskRepo repository.TaskRepositoryInterface,
) *ReviewHandler {
	return &ReviewHandler{
		reviewRepo: reviewRepo,
		taskRepo:   taskRepo,
	}
}

// SubmitReviewRequest carries one rating. RoleType names the reviewer's side:
// a client reviews the contractor, a contractor reviews the poster.
type SubmitReviewRequest struct {
	TaskID   string `json:"task_id" binding:"required,uuid"`
	RoleType string `json:"role_type" binding:"required,oneof=client contractor"`
	Score1   int    `json:"score_1" binding:"required,min=1,max=5"`
	Score2   int    `json:"score_2" binding:"required,min=1,max=5"`
	Score3   int    `json:"score_3" binding:"required,min=1,max=5"`
	Comment  string `json:"comment"`
}

// Submit stores a review for a task's counterparty
func (h *ReviewHandler) Submit(c *gin.Context) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authenticated"})
		return
	}

	reviewerID, ok := userID.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Invalid user ID format"})
		return
	}

	var req SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	taskID, err := uuid.Parse(req.TaskID)
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

	// The reviewee is the task's other party.
	var revieweeID uuid.UUID
	if req.RoleType == model.RoleClient {
		if task.ContractorID == nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Task has no contractor to review"})
			return
		}
		revieweeID = *task.ContractorID
	} else {
		revieweeID = task.PosterID
	}

	review := &model.Review{
		TaskID:     taskID,
		ReviewerID: reviewerID,
		RevieweeID: revieweeID,
		RoleType:   req.RoleType,
		Score1:     req.Score1,
		Score2:     req.Score2,
		Score3:     req.Score3,
		Comment:    req.Comment,
	}

	if err := h.reviewRepo.Create(c.Request.Context(), review); err != nil {
		if err == repository.ErrDuplicateReview {
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "You have already reviewed this task"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to save review"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true})
}

// Rating aggregates a user's received reviews on read
func (h *ReviewHandler) Rating(c *gin.Context) {
	revieweeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid user ID format"})
		return
	}

	summary, err := h.reviewRepo.RatingSummary(c.Request.Context(), revieweeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve rating"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"average_score": math.Round(summary.AverageScore*10) / 10,
		"total_reviews": summary.TotalReviews,
		"reviews":       summary.Comments,
	})
}
