package services

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"strings"

	"github.com/fashionmart/storefront-api/models"
	"github.com/fashionmart/storefront-api/repository"
	"github.com/fashionmart/storefront-api/utils"
	"github.com/shopspring/decimal"
)

// CatalogService manages products and resolves their image URLs
type CatalogService struct {
	store  *repository.Store
	images ImageService
}

// NewCatalogService creates a catalog service. images may be nil, in which
// case products are returned without image URLs and uploads are refused.
func NewCatalogService(store *repository.Store, images ImageService) *CatalogService {
	return &CatalogService{store: store, images: images}
}

// ProductInput is the payload for a new product
type ProductInput struct {
	Name        string
	Category    string
	Price       decimal.Decimal
	Stock       int
	Description string
}

// ProductUpdate holds the fields to change; nil means unchanged
type ProductUpdate struct {
	Name        *string
	Category    *string
	Price       *decimal.Decimal
	Stock       *int
	Description *string
}

// ListProducts returns the catalog, optionally filtered
func (s *CatalogService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]models.Product, error) {
	products, err := s.store.ListProducts(ctx, filter)
	if err != nil {
		return nil, persistenceError("failed to list products", err)
	}
	if products == nil {
		products = []models.Product{}
	}
	for i := range products {
		s.resolveImage(ctx, &products[i])
	}
	return products, nil
}

// ListCategories returns the distinct product categories
func (s *CatalogService) ListCategories(ctx context.Context) ([]string, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, persistenceError("failed to list categories", err)
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}

// GetProduct loads one product
func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.store.GetProduct(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, newError(KindNotFound, "product %d not found", id)
		}
		return nil, persistenceError("failed to load product", err)
	}
	s.resolveImage(ctx, product)
	return product, nil
}

// CreateProduct adds a product to the catalog
func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	product := &models.Product{
		Name:        strings.TrimSpace(in.Name),
		Category:    strings.TrimSpace(in.Category),
		Price:       in.Price.Round(2),
		Stock:       in.Stock,
		Description: in.Description,
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	if err := s.store.CreateProduct(ctx, product); err != nil {
		return nil, persistenceError("failed to create product", err)
	}
	return product, nil
}

// UpdateProduct changes the given fields of a product
func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, in ProductUpdate) (*models.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
		fields["name"] = product.Name
	}
	if in.Category != nil {
		product.Category = strings.TrimSpace(*in.Category)
		fields["category"] = product.Category
	}
	if in.Price != nil {
		product.Price = in.Price.Round(2)
		fields["price"] = product.Price
	}
	if in.Stock != nil {
		product.Stock = *in.Stock
		fields["stock"] = product.Stock
	}
	if in.Description != nil {
		product.Description = *in.Description
		fields["description"] = product.Description
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return product, nil
	}

	if err := s.store.UpdateProduct(ctx, id, fields); err != nil {
		if repository.IsNotFound(err) {
			return nil, newError(KindNotFound, "product %d not found", id)
		}
		return nil, persistenceError("failed to update product", err)
	}
	return s.GetProduct(ctx, id)
}

// DeleteProduct removes a product from the catalog. Past orders keep their items.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return newError(KindNotFound, "product %d not found", id)
		}
		return persistenceError("failed to delete product", err)
	}
	return nil
}

// SetProductImage stores a new image for the product and drops the old one
func (s *CatalogService) SetProductImage(ctx context.Context, id uint, fileHeader *multipart.FileHeader) (*models.Product, error) {
	if s.images == nil {
		return nil, newError(KindValidation, "image uploads are not configured")
	}
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	key, err := s.images.UploadImage(ctx, fileHeader)
	if err != nil {
		var uploadErr *utils.FileUploadError
		if errors.As(err, &uploadErr) {
			return nil, newError(KindValidation, "%s", uploadErr.Message)
		}
		return nil, persistenceError("failed to store image", err)
	}

	if err := s.store.UpdateProduct(ctx, id, map[string]interface{}{"image_key": key}); err != nil {
		if delErr := s.images.DeleteImage(ctx, key); delErr != nil {
			slog.WarnContext(ctx, "failed to delete unsaved image", "product_id", id, "key", key, "error", delErr)
		}
		if repository.IsNotFound(err) {
			return nil, newError(KindNotFound, "product %d not found", id)
		}
		return nil, persistenceError("failed to save image", err)
	}
	if product.ImageKey != nil && *product.ImageKey != key {
		if err := s.images.DeleteImage(ctx, *product.ImageKey); err != nil {
			slog.WarnContext(ctx, "failed to delete replaced image", "product_id", id, "error", err)
		}
	}
	return s.GetProduct(ctx, id)
}

func (s *CatalogService) resolveImage(ctx context.Context, p *models.Product) {
	if s.images == nil || p.ImageKey == nil || *p.ImageKey == "" {
		return
	}
	url, err := s.images.GetImageURL(ctx, *p.ImageKey)
	if err != nil {
		slog.WarnContext(ctx, "failed to resolve image url", "product_id", p.ID, "error", err)
		return
	}
	p.ImageURL = &url
}

func validateProduct(p *models.Product) error {
	switch {
	case p.Name == "":
		return newError(KindValidation, "name is required")
	case p.Category == "":
		return newError(KindValidation, "category is required")
	case p.Price.IsNegative():
		return newError(KindValidation, "price cannot be negative")
	case p.Stock < 0:
		return newError(KindValidation, "stock cannot be negative")
	}
	return nil
}
