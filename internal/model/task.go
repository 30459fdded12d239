package model

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Title        string         `gorm:"not null"`
	Description  string
	Budget       string
	Region       string
	Attachments  AttachmentList `gorm:"type:jsonb;default:'[]'"`
	PosterID     uuid.UUID      `gorm:"type:uuid;not null;index"`
	ContractorID *uuid.UUID     `gorm:"type:uuid"`
	Status       string         `gorm:"not null;default:'open'"`
	IsCompleted  bool           `gorm:"not null;default:false"`
	ClosedAt     *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Poster     User  `gorm:"foreignKey:PosterID"`
	Contractor *User `gorm:"foreignKey:ContractorID"`
}

// Task status values. "review" marks that a new reply is waiting on the poster.
const (
	TaskStatusOpen   = "open"
	TaskStatusReview = "review"
)
