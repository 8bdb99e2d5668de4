package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Quick-Genius/Apna-Lawyer/internal/model"
)

var ErrDuplicateReview = errors.New("review already exists")

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) ListByLawyer(ctx context.Context, lawyerID uint) ([]model.Review, error) {
	var reviews []model.Review
	if err := r.db.WithContext(ctx).Where("lawyer_id = ?", lawyerID).Order("created_at DESC").Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("list reviews failed: %w", err)
	}
	return reviews, nil
}

// CreateAndRerate inserts the review and recomputes the lawyer's rating and
// review count in the same transaction.
func (r *ReviewRepository) CreateAndRerate(ctx context.Context, review *model.Review) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&model.Review{}).
			Where("lawyer_id = ? AND user_id = ?", review.LawyerID, review.UserID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrDuplicateReview
		}
		if err := tx.Create(review).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateReview
			}
			return err
		}

		var agg struct {
			Avg   float64
			Total int
		}
		if err := tx.Model(&model.Review{}).Where("lawyer_id = ?", review.LawyerID).
			Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS total").Scan(&agg).Error; err != nil {
			return err
		}
		return tx.Model(&model.Lawyer{}).Where("id = ?", review.LawyerID).Updates(map[string]interface{}{
			"rating":        roundRating(agg.Avg),
			"total_reviews": agg.Total,
		}).Error
	})
	if errors.Is(err, ErrDuplicateReview) {
		return ErrDuplicateReview
	}
	if err != nil {
		return fmt.Errorf("create review failed: %w", err)
	}
	return nil
}

func roundRating(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
