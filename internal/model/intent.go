package model

import (
	"time"

	"github.com/google/uuid"
)

// Intent is a lightweight expression of interest in a task, distinct from a
// formal reply. One row per (task, user); toggling interest deletes it again.
type Intent struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	TaskID      uuid.UUID      `gorm:"type:uuid;not null;index;uniqueIndex:idx_intents_task_user"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_intents_task_user"`
	Message     string
	Attachments AttachmentList `gorm:"type:jsonb;default:'[]'"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`

	Task Task `gorm:"foreignKey:TaskID"`
	User User `gorm:"foreignKey:UserID"`
}
