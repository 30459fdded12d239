package repository

import (
	"context"
	"errors"

	"taskmarket/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewRepository struct {
	db *gorm.DB
}

type ReviewRepositoryInterface interface {
	Create(ctx context.Context, review *model.Review) error
	RatingSummary(ctx context.Context, revieweeID uuid.UUID) (*RatingSummary, error)
}

var _ ReviewRepositoryInterface = (*ReviewRepository)(nil)

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// RatingSummary aggregates every review where the user is the reviewee.
// AverageScore is the mean of (score_1+score_2+score_3)/3; zero reviews
// report 0, not an error.
type RatingSummary struct {
	AverageScore float64  `json:"average_score"`
	TotalReviews int64    `json:"total_reviews"`
	Comments     []string `json:"reviews"`
}

// Create stores a review. One review per (task, reviewer); a second attempt
// returns ErrDuplicateReview.
func (r *ReviewRepository) Create(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Review
		err := tx.Where("task_id = ? AND reviewer_id = ?", review.TaskID, review.ReviewerID).
			First(&existing).Error
		if err == nil {
			return ErrDuplicateReview
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return tx.Create(review).Error
	})
}

// RatingSummary computes the review count and mean score for a user plus the
// five most recent non-empty comments, newest first. Computed on read.
func (r *ReviewRepository) RatingSummary(ctx context.Context, revieweeID uuid.UUID) (*RatingSummary, error) {
	var row struct {
		TotalCount int64
		AvgScore   *float64
	}
	err := r.db.WithContext(ctx).Model(&model.Review{}).
		Select("COUNT(*) AS total_count, AVG(CAST(score_1 + score_2 + score_3 AS FLOAT) / 3.0) AS avg_score").
		Where("reviewee_id = ?", revieweeID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	summary := RatingSummary{
		TotalReviews: row.TotalCount,
		Comments:     []string{},
	}
	// AVG over zero rows is NULL, which must read as zero.
	if row.AvgScore != nil {
		summary.AverageScore = *row.AvgScore
	}

	err = r.db.WithContext(ctx).Model(&model.Review{}).
		Where("reviewee_id = ? AND comment IS NOT NULL AND comment != ''", revieweeID).
		Order("created_at DESC").
		Limit(5).
		Pluck("comment", &summary.Comments).Error
	if err != nil {
		return nil, err
	}

	return &summary, nil
}
