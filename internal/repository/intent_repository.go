package repository

import (
	"context"
	"errors"
	"time"

	"taskmarket/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IntentRepository struct {
	db *gorm.DB
}

type IntentRepositoryInterface interface {
	Toggle(ctx context.Context, taskID, userID uuid.UUID) (bool, error)
	Exists(ctx context.Context, taskID, userID uuid.UUID) (bool, error)
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]TaskIntent, error)
}

var _ IntentRepositoryInterface = (*IntentRepository)(nil)

func NewIntentRepository(db *gorm.DB) *IntentRepository {
	return &IntentRepository{db: db}
}

// TaskIntent is an intent row joined with the interested user's display name.
type TaskIntent struct {
	ID        uuid.UUID `json:"id"`
	TaskID    uuid.UUID `json:"task_id"`
	UserID    uuid.UUID `json:"user_id"`
	UserName  string    `json:"user_name"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Toggle flips the presence of an intent row for (task, user): delete if it
// exists, create otherwise. Returns true when interest was added.
func (r *IntentRepository) Toggle(ctx context.Context, taskID, userID uuid.UUID) (bool, error) {
	var added bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Intent
		err := tx.Where("task_id = ? AND user_id = ?", taskID, userID).First(&existing).Error

		if err == nil {
			added = false
			return tx.Delete(&model.Intent{}, "id = ?", existing.ID).Error
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		added = true
		intent := model.Intent{TaskID: taskID, UserID: userID}
		return tx.Create(&intent).Error
	})
	return added, err
}

// Exists reports whether the user has expressed interest in the task
func (r *IntentRepository) Exists(ctx context.Context, taskID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Intent{}).
		Where("task_id = ? AND user_id = ?", taskID, userID).
		Count(&count).Error
	return count > 0, err
}

// ListByTask retrieves a task's intents with user names, oldest first
func (r *IntentRepository) ListByTask(ctx context.Context, taskID uuid.UUID) ([]TaskIntent, error) {
	var intents []TaskIntent
	err := r.db.WithContext(ctx).Model(&model.Intent{}).
		Select("intents.id, intents.task_id, intents.user_id, intents.message, intents.created_at, users.name AS user_name").
		Joins("LEFT JOIN users ON users.id = intents.user_id").
		Where("intents.task_id = ?", taskID).
		Order("intents.created_at ASC").
		Find(&intents).Error
	if err != nil {
		return nil, err
	}
	return intents, nil
}
