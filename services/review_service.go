package services

import (
	"context"
	"math"
	"strings"

	"github.com/fashionmart/storefront-api/models"
	"github.com/fashionmart/storefront-api/repository"
)

// ReviewService enforces one review per customer and product
type ReviewService struct {
	store *repository.Store
}

// NewReviewService creates a review service
func NewReviewService(store *repository.Store) *ReviewService {
	return &ReviewService{store: store}
}

// ProductReviews is a product's reviews with their aggregate
type ProductReviews struct {
	Reviews []models.Review      `json:"reviews"`
	Summary models.RatingSummary `json:"summary"`
}

// AddReview records a 1 to 5 rating and refreshes the product rating
func (s *ReviewService) AddReview(ctx context.Context, customerID, productID uint, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, newError(KindValidation, "rating must be between 1 and 5")
	}

	review := &models.Review{
		CustomerID: customerID,
		ProductID:  productID,
		Rating:     rating,
		Comment:    strings.TrimSpace(comment),
	}
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.GetProduct(ctx, productID); err != nil {
			if repository.IsNotFound(err) {
				return newError(KindNotFound, "product %d not found", productID)
			}
			return err
		}

		exists, err := tx.ReviewExists(ctx, customerID, productID)
		if err != nil {
			return err
		}
		if exists {
			return newError(KindDuplicateReview, "you have already reviewed this product")
		}

		if err := tx.CreateReview(ctx, review); err != nil {
			if repository.IsUniqueViolation(err) {
				return newError(KindDuplicateReview, "you have already reviewed this product")
			}
			return err
		}

		summary, err := tx.SummarizeRatings(ctx, productID)
		if err != nil {
			return err
		}
		return tx.SetProductRating(ctx, productID, roundRating(summary.Average))
	})
	if err != nil {
		return nil, passThrough(err, "failed to add review")
	}
	return review, nil
}

// ListReviews returns a product's reviews newest first with the average
// rounded to one decimal. The average is 0 when there are no reviews.
func (s *ReviewService) ListReviews(ctx context.Context, productID uint) (*ProductReviews, error) {
	if _, err := s.store.GetProduct(ctx, productID); err != nil {
		if repository.IsNotFound(err) {
			return nil, newError(KindNotFound, "product %d not found", productID)
		}
		return nil, persistenceError("failed to load product", err)
	}

	reviews, err := s.store.ListReviews(ctx, productID)
	if err != nil {
		return nil, persistenceError("failed to list reviews", err)
	}
	summary, err := s.store.SummarizeRatings(ctx, productID)
	if err != nil {
		return nil, persistenceError("failed to summarize reviews", err)
	}
	summary.Average = roundRating(summary.Average)
	if summary.Count == 0 {
		summary.Average = 0
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return &ProductReviews{Reviews: reviews, Summary: summary}, nil
}

func roundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}
