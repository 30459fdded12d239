package model

import (
	"time"

	"github.com/google/uuid"
)

// ReplyHistory is the append-only log of every reply submission for a task.
// VersionNum is strictly increasing per task starting at 1. Rows are never
// updated or deleted.
type ReplyHistory struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	TaskID      uuid.UUID      `gorm:"type:uuid;not null;index;uniqueIndex:idx_reply_histories_task_version"`
	ResponderID uuid.UUID      `gorm:"type:uuid;not null"`
	PriceText   string         `gorm:"not null"`
	Message     string
	Attachments AttachmentList `gorm:"type:jsonb;default:'[]'"`
	VersionNum  int            `gorm:"not null;uniqueIndex:idx_reply_histories_task_version"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
}
