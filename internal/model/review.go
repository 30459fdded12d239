package model

import (
	"time"

	"github.com/google/uuid"
)

// Review is a one-way rating from reviewer to reviewee for a completed task.
// One row per (task, reviewer); immutable once created.
type Review struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	TaskID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_task_reviewer"`
	ReviewerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_task_reviewer"`
	RevieweeID uuid.UUID `gorm:"type:uuid;not null;index"`
	RoleType   string    `gorm:"not null;check:role_type IN ('client', 'contractor')"`
	Score1     int       `gorm:"column:score_1;not null"`
	Score2     int       `gorm:"column:score_2;not null"`
	Score3     int       `gorm:"column:score_3;not null"`
	Comment    string
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

// Reviewer roles: a client reviews the contractor, a contractor reviews the
// client (task poster).
const (
	RoleClient     = "client"
	RoleContractor = "contractor"
)
