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

type ReplyHandler struct {
	replyRepo repository.ReplyRepositoryInterface
	taskRepo  repository.TaskRepositoryInterface
	store     *storage.Store
}

func NewReplyHandler(
	replyRepo repository.ReplyRepositoryInterface,
	taskRepo repository.TaskRepositoryInterface,
	store *storage.Store,
) *ReplyHandler {
	return &ReplyHandler{
		replyRepo: replyRepo,
		taskRepo:  taskRepo,
		store:     store,
	}
}

// AcceptReplyRequest names the task the reply must belong to
type AcceptReplyRequest struct {
	TaskID string `json:"task_id" binding:"required,uuid"`
}

// ReplyHistoryResponse is the wire shape of one history version
type ReplyHistoryResponse struct {
	ID          string               `json:"id"`
	TaskID      string               `json:"task_id"`
	ResponderID string               `json:"responder_id"`
	PriceText   string               `json:"price_text"`
	Message     string               `json:"message"`
	Attachments model.AttachmentList `json:"attachments"`
	VersionNum  int                  `json:"version_num"`
	CreatedAt   string               `json:"created_at"`
}

// Submit records a contractor's proposal. Expects a multipart form with
// task_id, price_text (or price), message and reply_files[] attachments.
// Resubmitting replaces the responder's reply and appends a new history
// version; the reply's status resets to pending either way.
func (h *ReplyHandler) Submit(c *gin.Context) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authenticated"})
		return
	}

	responderID, ok := userID.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Invalid user ID format"})
		return
	}

	taskIDStr := c.PostForm("task_id")
	price := c.PostForm("price_text")
	if price == "" {
		price = c.PostForm("price")
	}
	if taskIDStr == "" || price == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "task_id and price are required"})
		return
	}

	taskID, err := uuid.Parse(taskIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid task ID format"})
		return
	}

	// Files are stored before the transaction; failures skip the file and a
	// rolled-back submission may orphan what was already stored.
	attachments := model.AttachmentList{}
	if form, err := c.MultipartForm(); err == nil && form != nil {
		files := form.File["reply_files"]
		attachments, err = h.store.SaveAll(files)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to store attachments"})
			return
		}
	}

	result, err := h.replyRepo.Submit(c.Request.Context(), repository.ReplySubmission{
		TaskID:      taskID,
		ResponderID: responderID,
		PriceText:   price,
		Message:     c.PostForm("message"),
		Attachments: attachments,
	})
	if err != nil {
		switch err {
		case repository.ErrTaskNotFound:
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Task not found"})
		case repository.ErrReplyResolved:
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Reply was already accepted"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to save reply"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"id":         result.Reply.ID.String(),
		"version":    result.Version,
		"history_id": result.HistoryID.String(),
	})
}

// Accept resolves a reply in the responder's favor. Poster only.
func (h *ReplyHandler) Accept(c *gin.Context) {
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

	replyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid reply ID format"})
		return
	}

	var req AcceptReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "task_id is required"})
		return
	}
	taskID, err := uuid.Parse(req.TaskID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid task ID format"})
		return
	}

	// Acceptance authority lives with the task owner, not the reply author.
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
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Only the poster can accept a reply"})
		return
	}

	if err := h.replyRepo.Accept(c.Request.Context(), taskID, replyID); err != nil {
		if err == repository.ErrReplyNotFound {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Reply not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to accept reply"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Reject marks a single reply rejected. Poster only, derived through the
// reply's task.
func (h *ReplyHandler) Reject(c *gin.Context) {
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

	replyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid reply ID format"})
		return
	}

	reply, err := h.replyRepo.GetByID(c.Request.Context(), replyID)
	if err != nil {
		if err == repository.ErrReplyNotFound {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Reply not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve reply"})
		}
		return
	}

	task, err := h.taskRepo.GetByID(c.Request.Context(), reply.TaskID)
	if err != nil {
		if err == repository.ErrTaskNotFound {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve task"})
		}
		return
	}

	if task.PosterID != authenticatedUserID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Only the poster can reject a reply"})
		return
	}

	if err := h.replyRepo.Reject(c.Request.Context(), replyID); err != nil {
		if err == repository.ErrReplyNotFound {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Reply not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to reject reply"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListByTask returns a task's replies with responder names, oldest first
func (h *ReplyHandler) ListByTask(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid task ID format"})
		return
	}

	replies, err := h.replyRepo.ListByTask(c.Request.Context(), taskID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve replies"})
		return
	}

	c.JSON(http.StatusOK, replies)
}

// HistoryByTask returns a task's reply history, newest version first
func (h *ReplyHandler) HistoryByTask(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid task ID format"})
		return
	}

	history, err := h.replyRepo.HistoryByTask(c.Request.Context(), taskID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve reply history"})
		return
	}

	response := make([]ReplyHistoryResponse, len(history))
	for i, entry := range history {
		response[i] = ReplyHistoryResponse{
			ID:          entry.ID.String(),
			TaskID:      entry.TaskID.String(),
			ResponderID: entry.ResponderID.String(),
			PriceText:   entry.PriceText,
			Message:     entry.Message,
			Attachments: entry.Attachments,
			VersionNum:  entry.VersionNum,
			CreatedAt:   entry.CreatedAt.Format(time.RFC3339),
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "history": response})
}
