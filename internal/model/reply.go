package model

import (
	"time"

	"github.com/google/uuid"
)

// Reply is a contractor's current proposal for a task. The row is upserted per
// (task, responder); every prior submission lives in ReplyHistory. Status is
// mutated by the task poster, not the responder.
type Reply struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	TaskID      uuid.UUID      `gorm:"type:uuid;not null;index;uniqueIndex:idx_replies_task_responder"`
	ResponderID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_replies_task_responder"`
	PriceText   string         `gorm:"not null"`
	Message     string
	Attachments AttachmentList `gorm:"type:jsonb;default:'[]'"`
	Status      string         `gorm:"not null;default:'pending';check:status IN ('pending', 'accepted', 'rejected')"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Task      Task `gorm:"foreignKey:TaskID"`
	Responder User `gorm:"foreignKey:ResponderID"`
}

// Reply status values. pending -> accepted | rejected; at most one reply per
// task may be accepted.
const (
	ReplyStatusPending  = "pending"
	ReplyStatusAccepted = "accepted"
	ReplyStatusRejected = "rejected"
)
