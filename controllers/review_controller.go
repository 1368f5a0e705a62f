package controllers

import (
	"net/http"

	"github.com/fashionmart/storefront-api/services"
	"github.com/gin-gonic/gin"
)

// CreateReviewRequest represents the request body for reviewing a product
type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

// CreateReview handles POST /api/v1/products/:id/reviews
func CreateReview(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	productID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	review, err := services.NewReviewService(newStore()).AddReview(c.Request.Context(), identity.ID, productID, req.Rating, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, review)
}

// ListReviews handles GET /api/v1/products/:id/reviews
func ListReviews(c *gin.Context) {
	productID, ok := paramID(c, "id")
	if !ok {
		return
	}

	reviews, err := services.NewReviewService(newStore()).ListReviews(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, reviews)
}
