package repository

import (
	"context"

	"github.com/fashionmart/storefront-api/models"
)

// CreateCustomer inserts a customer and fills in its id
func (s *Store) CreateCustomer(ctx context.Context, c *models.Customer) error {
	db, cancel := s.session(ctx)
	defer cancel()
	return db.Create(c).Error
}

// GetCustomer loads a customer by id
func (s *Store) GetCustomer(ctx context.Context, id uint) (*models.Customer, error) {
	db, cancel := s.session(ctx)
	defer cancel()

	var c models.Customer
	if err := db.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// GetCustomerByUsername loads a customer by login name
func (s *Store) GetCustomerByUsername(ctx context.Context, username string) (*models.Customer, error) {
	db, cancel := s.session(ctx)
	defer cancel()

	var c models.Customer
	if err := db.Where("username = ?", username).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCustomers returns all customers by id
func (s *Store) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	db, cancel := s.session(ctx)
	defer cancel()

	var customers []models.Customer
	err := db.Order("id ASC").Find(&customers).Error
	return customers, err
}

// CreateDeliveryMan inserts a delivery agent
func (s *Store) CreateDeliveryMan(ctx context.Context, d *models.DeliveryMan) error {
	db, cancel := s.session(ctx)
	defer cancel()
	return db.Create(d).Error
}

// GetDeliveryMan loads a delivery agent by id
func (s *Store) GetDeliveryMan(ctx context.Context, id uint) (*models.DeliveryMan, error) {
	db, cancel := s.session(ctx)
	defer cancel()

	var d models.DeliveryMan
	if err := db.First(&d, id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// GetDeliveryManByUsername loads a delivery agent by login name
func (s *Store) GetDeliveryManByUsername(ctx context.Context, username string) (*models.DeliveryMan, error) {
	db, cancel := s.session(ctx)
	defer cancel()

	var d models.DeliveryMan
	if err := db.Where("username = ?", username).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// ListDeliveryMen returns all delivery agents by id
func (s *Store) ListDeliveryMen(ctx context.Context) ([]models.DeliveryMan, error) {
	db, cancel := s.session(ctx)
	defer cancel()

	var agents []models.DeliveryMan
	err := db.Order("id ASC").Find(&agents).Error
	return agents, err
}

// UpdateDeliveryManStatus sets Active or Inactive
func (s *Store) UpdateDeliveryManStatus(ctx context.Context, id uint, status string) error {
	db, cancel := s.session(ctx)
	defer cancel()

	res := db.Model(&models.DeliveryMan{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateAdmin inserts an admin
func (s *Store) CreateAdmin(ctx context.Context, a *models.Admin) error {
	db, cancel := s.session(ctx)
	defer cancel()
	return db.Create(a).Error
}

// GetAdminByUsername loads an admin by login name
func (s *Store) GetAdminByUsername(ctx context.Context, username string) (*models.Admin, error) {
	db, cancel := s.session(ctx)
	defer cancel()

	var a models.Admin
	if err := db.Where("username = ?", username).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// Count returns the number of rows of the given model
func (s *Store) Count(ctx context.Context, model interface{}) (int64, error) {
	db, cancel := s.session(ctx)
	defer cancel()

	var n int64
	err := db.Model(model).Count(&n).Error
	return n, err
}
