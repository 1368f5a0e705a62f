package repository

import (
	"context"
	"strings"

	"github.com/fashionmart/storefront-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductFilter narrows a product listing. Empty fields match everything.
type ProductFilter struct {
	Category string
	Search   string // case-insensitive substring of the name
}

// CreateProduct inserts a product
func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	db, cancel := s.session(ctx)
	defer cancel()
	return db.Create(p).Error
}

// GetProduct loads a live (not deleted) product
func (s *Store) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	db, cancel := s.session(ctx)
	defer cancel()

	var p models.Product
	if err := db.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// LockProduct loads a product with a row lock for the rest of the transaction.
// SQLite has no row locks and serializes writers instead.
func (s *Store) LockProduct(ctx context.Context, id uint) (*models.Product, error) {
	db, cancel := s.session(ctx)
	defer cancel()

	var p models.Product
	if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProducts returns products matching the filter ordered by name
func (s *Store) ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	db, cancel := s.session(ctx)
	defer cancel()

	q := db.Model(&models.Product{})
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Search != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(f.Search)+"%")
	}

	var products []models.Product
	err := q.Order("name ASC").Order("id ASC").Find(&products).Error
	return products, err
}

// ListCategories returns the distinct categories in alphabetical order
func (s *Store) ListCategories(ctx context.Context) ([]string, error) {
	db, cancel := s.session(ctx)
	defer cancel()

	var categories []string
	err := db.Model(&models.Product{}).Distinct().Order("category ASC").Pluck("category", &categories).Error
	return categories, err
}

// UpdateProduct writes the given columns
func (s *Store) UpdateProduct(ctx context.Context, id uint, fields map[string]interface{}) error {
	db, cancel := s.session(ctx)
	defer cancel()

	res := db.Model(&models.Product{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteProduct soft-deletes a product; order items keep referencing it
func (s *Store) DeleteProduct(ctx context.Context, id uint) error {
	db, cancel := s.session(ctx)
	defer cancel()

	res := db.Delete(&models.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ReserveStock atomically moves qty units from stock to demand. It only
// succeeds while enough stock remains and returns ErrConflict otherwise.
func (s *Store) ReserveStock(ctx context.Context, productID uint, qty int) error {
	db, cancel := s.session(ctx)
	defer cancel()

	res := db.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, qty).
		Updates(map[string]interface{}{
			"stock":  gorm.Expr("stock - ?", qty),
			"demand": gorm.Expr("demand + ?", qty),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

// SetProductRating stores the aggregated review rating
func (s *Store) SetProductRating(ctx context.Context, productID uint, rating float64) error {
	db, cancel := s.session(ctx)
	defer cancel()
	return db.Model(&models.Product{}).Where("id = ?", productID).Update("rating", rating).Error
}

// TopProductsByDemand returns the n most ordered products
func (s *Store) TopProductsByDemand(ctx context.Context, n int) ([]models.Product, error) {
	db, cancel := s.session(ctx)
	defer cancel()

	var products []models.Product
	err := db.Order("demand DESC").Order("id ASC").Limit(n).Find(&products).Error
	return products, err
}
