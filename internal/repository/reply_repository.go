package repository

import (
	"context"
	"errors"
	"time"

	"taskmarket/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReplyRepository struct {
	db *gorm.DB
}

type ReplyRepositoryInterface interface {
	Submit(ctx context.Context, sub ReplySubmission) (*ReplySubmissionResult, error)
	Accept(ctx context.Context, taskID, replyID uuid.UUID) error
	Reject(ctx context.Context, replyID uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Reply, error)
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]TaskReply, error)
	HistoryByTask(ctx context.Context, taskID uuid.UUID) ([]model.ReplyHistory, error)
}

var _ ReplyRepositoryInterface = (*ReplyRepository)(nil)

func NewReplyRepository(db *gorm.DB) *ReplyRepository {
	return &ReplyRepository{db: db}
}

// ReplySubmission carries one reply submission from a responder.
type ReplySubmission struct {
	TaskID      uuid.UUID
	ResponderID uuid.UUID
	PriceText   string
	Message     string
	Attachments model.AttachmentList
}

// ReplySubmissionResult reports the upserted reply row and the history entry
// appended for this submission.
type ReplySubmissionResult struct {
	Reply     *model.Reply
	Version   int
	HistoryID uuid.UUID
}

// TaskReply is a reply row joined with the responder's display name.
type TaskReply struct {
	ID            uuid.UUID            `json:"id"`
	TaskID        uuid.UUID            `json:"task_id"`
	ResponderID   uuid.UUID            `json:"responder_id"`
	ResponderName string               `json:"responder_name"`
	PriceText     string               `json:"price_text"`
	Message       string               `json:"message"`
	Attachments   model.AttachmentList `gorm:"type:jsonb" json:"attachments"`
	Status        string               `json:"status"`
	CreatedAt     time.Time            `json:"created_at"`
}

// Submit appends a versioned history entry and upserts the responder's reply
// row, all in one transaction. The task row is locked first so two concurrent
// submissions for the same task can never compute the same version number.
// Every submission (including resubmission) resets the reply to pending and
// flags the task as under review.
func (r *ReplyRepository) Submit(ctx context.Context, sub ReplySubmission) (*ReplySubmissionResult, error) {
	var res ReplySubmissionResult

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var task model.Task
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&task, "id = ?", sub.TaskID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return err
		}

		// An accepted reply is resolved; resubmitting over it would silently
		// undo the poster's decision.
		var prev model.Reply
		err = tx.Where("task_id = ? AND responder_id = ?", sub.TaskID, sub.ResponderID).
			First(&prev).Error
		if err == nil && prev.Status == model.ReplyStatusAccepted {
			return ErrReplyResolved
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var maxVersion int
		err = tx.Model(&model.ReplyHistory{}).
			Where("task_id = ?", sub.TaskID).
			Select("COALESCE(MAX(version_num), 0)").
			Scan(&maxVersion).Error
		if err != nil {
			return err
		}

		history := model.ReplyHistory{
			TaskID:      sub.TaskID,
			ResponderID: sub.ResponderID,
			PriceText:   sub.PriceText,
			Message:     sub.Message,
			Attachments: sub.Attachments,
			VersionNum:  maxVersion + 1,
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}

		reply := model.Reply{
			TaskID:      sub.TaskID,
			ResponderID: sub.ResponderID,
			PriceText:   sub.PriceText,
			Message:     sub.Message,
			Attachments: sub.Attachments,
			Status:      model.ReplyStatusPending,
		}
		err = tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "task_id"}, {Name: "responder_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"price_text", "message", "attachments", "status", "updated_at",
			}),
		}).Create(&reply).Error
		if err != nil {
			return err
		}

		// Mark the task so the poster sees a new proposal is waiting.
		err = tx.Model(&model.Task{}).
			Where("id = ?", sub.TaskID).
			Update("status", model.TaskStatusReview).Error
		if err != nil {
			return err
		}

		res = ReplySubmissionResult{
			Reply:     &reply,
			Version:   history.VersionNum,
			HistoryID: history.ID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Accept resolves the reply lifecycle for a task: every sibling reply is
// rejected, the target is accepted, and the task gets the responder as
// contractor and is marked completed. All four writes commit or none do.
// Accepting a reply that is already accepted is a no-op. Accepting a
// previously rejected reply proceeds normally: the poster may change their
// mind as long as no other reply has been accepted for the task.
func (r *ReplyRepository) Accept(ctx context.Context, taskID, replyID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var reply model.Reply
		err := tx.First(&reply, "id = ? AND task_id = ?", replyID, taskID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReplyNotFound
			}
			return err
		}

		if reply.Status == model.ReplyStatusAccepted {
			return nil
		}

		err = tx.Model(&model.Reply{}).
			Where("task_id = ? AND id <> ?", taskID, replyID).
			Update("status", model.ReplyStatusRejected).Error
		if err != nil {
			return err
		}

		err = tx.Model(&model.Reply{}).
			Where("id = ?", replyID).
			Update("status", model.ReplyStatusAccepted).Error
		if err != nil {
			return err
		}

		return tx.Model(&model.Task{}).
			Where("id = ?", taskID).
			Updates(map[string]interface{}{
				"contractor_id": reply.ResponderID,
				"is_completed":  true,
			}).Error
	})
}

// Reject sets a single reply to rejected. No effect on the task.
func (r *ReplyRepository) Reject(ctx context.Context, replyID uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&model.Reply{}).
		Where("id = ?", replyID).
		Update("status", model.ReplyStatusRejected)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReplyNotFound
	}
	return nil
}

// GetByID retrieves a reply by its ID
func (r *ReplyRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Reply, error) {
	var reply model.Reply
	result := r.db.WithContext(ctx).First(&reply, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrReplyNotFound
		}
		return nil, result.Error
	}
	return &reply, nil
}

// ListByTask retrieves a task's replies with responder names, oldest first
func (r *ReplyRepository) ListByTask(ctx context.Context, taskID uuid.UUID) ([]TaskReply, error) {
	var replies []TaskReply
	err := r.db.WithContext(ctx).Model(&model.Reply{}).
		Select("replies.id, replies.task_id, replies.responder_id, replies.price_text, replies.message, replies.attachments, replies.status, replies.created_at, users.name AS responder_name").
		Joins("LEFT JOIN users ON users.id = replies.responder_id").
		Where("replies.task_id = ?", taskID).
		Order("replies.created_at ASC").
		Find(&replies).Error
	if err != nil {
		return nil, err
	}
	return replies, nil
}

// HistoryByTask retrieves a task's reply history, newest version first
func (r *ReplyRepository) HistoryByTask(ctx context.Context, taskID uuid.UUID) ([]model.ReplyHistory, error) {
	var history []model.ReplyHistory
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("version_num DESC").
		Find(&history).Error
	if err != nil {
		return nil, err
	}
	return history, nil
}
