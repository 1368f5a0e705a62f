package controllers

import (
	"net/http"

	"github.com/fashionmart/storefront-api/repository"
	"github.com/fashionmart/storefront-api/services"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents the request body for a new product
type CreateProductRequest struct {
	Name        string          `json:"name" binding:"required"`
	Category    string          `json:"category" binding:"required"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" binding:"gte=0"`
	Description string          `json:"description"`
}

// UpdateProductRequest holds the product fields to change
type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Category    *string          `json:"category"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"`
	Description *string          `json:"description"`
}

// ListProducts handles GET /api/v1/products?category=&search=
func ListProducts(c *gin.Context) {
	products, err := newCatalogService().ListProducts(c.Request.Context(), repository.ProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, products)
}

// ListCategories handles GET /api/v1/products/categories
func ListCategories(c *gin.Context) {
	categories, err := newCatalogService().ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, categories)
}

// GetProduct handles GET /api/v1/products/:id - the product with its reviews
func GetProduct(c *gin.Context) {
	productID, ok := paramID(c, "id")
	if !ok {
		return
	}

	product, err := newCatalogService().GetProduct(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err)
		return
	}
	reviews, err := services.NewReviewService(newStore()).ListReviews(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"product": product,
		"reviews": reviews.Reviews,
		"summary": reviews.Summary,
	})
}

// CreateProduct handles POST /api/v1/admin/products
func CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	product, err := newCatalogService().CreateProduct(c.Request.Context(), services.ProductInput{
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Stock:       req.Stock,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, product)
}

// UpdateProduct handles PUT /api/v1/admin/products/:id
func UpdateProduct(c *gin.Context) {
	productID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	product, err := newCatalogService().UpdateProduct(c.Request.Context(), productID, services.ProductUpdate{
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Stock:       req.Stock,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, product)
}

// DeleteProduct handles DELETE /api/v1/admin/products/:id
func DeleteProduct(c *gin.Context) {
	productID, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := newCatalogService().DeleteProduct(c.Request.Context(), productID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Product deleted",
	})
}

// UploadProductImage handles POST /api/v1/admin/products/:id/image (multipart field "image")
func UploadProductImage(c *gin.Context) {
	productID, ok := paramID(c, "id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    string(services.KindValidation),
				"message": "An image file is required in the \"image\" field",
			},
		})
		return
	}

	product, err := newCatalogService().SetProductImage(c.Request.Context(), productID, fileHeader)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, product)
}
