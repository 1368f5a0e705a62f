package repository

import (
	"context"

	"github.com/fashionmart/storefront-api/models"
)

// CreateReview inserts a review. A second review by the same customer for
// the same product violates the unique index.
func (s *Store) CreateReview(ctx context.Context, r *models.Review) error {
	db, cancel := s.session(ctx)
	defer cancel()
	return db.Create(r).Error
}

// ReviewExists reports whether the customer already reviewed the product
func (s *Store) ReviewExists(ctx context.Context, customerID, productID uint) (bool, error) {
	db, cancel := s.session(ctx)
	defer cancel()

	var n int64
	err := db.Model(&models.Review{}).
		Where("customer_id = ? AND product_id = ?", customerID, productID).
		Count(&n).Error
	return n > 0, err
}

// ListReviews returns a product's reviews newest first with the reviewer loaded
func (s *Store) ListReviews(ctx context.Context, productID uint) ([]models.Review, error) {
	db, cancel := s.session(ctx)
	defer cancel()

	var reviews []models.Review
	err := db.Preload("Customer").
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&reviews).Error
	return reviews, err
}

// SummarizeRatings returns the unrounded average and count for a product
func (s *Store) SummarizeRatings(ctx context.Context, productID uint) (models.RatingSummary, error) {
	db, cancel := s.session(ctx)
	defer cancel()

	var summary models.RatingSummary
	err := db.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("product_id = ?", productID).
		Scan(&summary).Error
	return summary, err
}
