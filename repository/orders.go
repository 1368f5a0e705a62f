package repository

import (
	"context"

	"github.com/fashionmart/storefront-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderFilter narrows an order listing. Zero fields match everything.
type OrderFilter struct {
	CustomerID    uint
	DeliveryManID uint
	Status        models.OrderStatus
}

// CreateOrder inserts the order together with its items and delivery record
func (s *Store) CreateOrder(ctx context.Context, o *models.Order) error {
	db, cancel := s.session(ctx)
	defer cancel()
	return db.Create(o).Error
}

func withOrderDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items.Product", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("Delivery").
		Preload("Customer").
		Preload("DeliveryMan")
}

// GetOrder loads an order with items, delivery, customer and agent
func (s *Store) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	db, cancel := s.session(ctx)
	defer cancel()

	var o models.Order
	if err := withOrderDetails(db).First(&o, id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// LockOrder loads an order and its delivery, holding a row lock on the
// order for the rest of the transaction.
func (s *Store) LockOrder(ctx context.Context, id uint) (*models.Order, error) {
	db, cancel := s.session(ctx)
	defer cancel()

	var o models.Order
	if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&o, id).Error; err != nil {
		return nil, err
	}

	var d models.Delivery
	err := db.Where("order_id = ?", o.ID).First(&d).Error
	switch {
	case err == nil:
		o.Delivery = &d
	case !IsNotFound(err):
		return nil, err
	}
	return &o, nil
}

// ListOrders returns matching orders newest first with their details
func (s *Store) ListOrders(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	db, cancel := s.session(ctx)
	defer cancel()

	q := withOrderDetails(db.Model(&models.Order{}))
	if f.CustomerID != 0 {
		q = q.Where("customer_id = ?", f.CustomerID)
	}
	if f.DeliveryManID != 0 {
		q = q.Where("delivery_man_id = ?", f.DeliveryManID)
	}
	if f.Status != "" {
		q = q.Where("order_status = ?", f.Status)
	}

	var orders []models.Order
	err := q.Order("created_at DESC").Order("id DESC").Find(&orders).Error
	return orders, err
}

// SaveLifecycle writes the statuses in l onto the order and its delivery.
// The order write is guarded by the version read with the order; a stale
// version yields ErrConflict. On success o reflects the stored state.
func (s *Store) SaveLifecycle(ctx context.Context, o *models.Order, l models.Lifecycle) error {
	db, cancel := s.session(ctx)
	defer cancel()

	res := db.Model(&models.Order{}).
		Where("id = ? AND version = ?", o.ID, o.Version).
		Updates(map[string]interface{}{
			"order_status":   l.Order,
			"payment_status": l.Payment,
			"version":        gorm.Expr("version + ?", 1),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}

	res = db.Model(&models.Delivery{}).
		Where("order_id = ?", o.ID).
		Updates(map[string]interface{}{
			"delivery_status": l.Delivery,
			"delivery_date":   l.DeliveryDate,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		d := models.Delivery{OrderID: o.ID, DeliveryStatus: l.Delivery, DeliveryDate: l.DeliveryDate}
		if err := db.Create(&d).Error; err != nil {
			return err
		}
		o.Delivery = &d
	} else if o.Delivery != nil {
		o.Delivery.DeliveryStatus = l.Delivery
		o.Delivery.DeliveryDate = l.DeliveryDate
	}

	o.OrderStatus = l.Order
	o.PaymentStatus = l.Payment
	o.Version++
	return nil
}

// AssignDeliveryMan links the order to an agent, guarded by version
func (s *Store) AssignDeliveryMan(ctx context.Context, o *models.Order, deliveryManID uint) error {
	db, cancel := s.session(ctx)
	defer cancel()

	res := db.Model(&models.Order{}).
		Where("id = ? AND version = ?", o.ID, o.Version).
		Updates(map[string]interface{}{
			"delivery_man_id": deliveryManID,
			"version":         gorm.Expr("version + ?", 1),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}

	o.DeliveryManID = &deliveryManID
	o.Version++
	return nil
}

// OrderStatusCount is one row of the per-status breakdown
type OrderStatusCount struct {
	Status models.OrderStatus `json:"status"`
	Count  int64              `json:"count"`
}

// CountOrdersByStatus groups orders by their status
func (s *Store) CountOrdersByStatus(ctx context.Context) ([]OrderStatusCount, error) {
	db, cancel := s.session(ctx)
	defer cancel()

	var rows []OrderStatusCount
	err := db.Model(&models.Order{}).
		Select("order_status AS status, COUNT(*) AS count").
		Group("order_status").
		Order("order_status ASC").
		Scan(&rows).Error
	return rows, err
}

// RevenueOf sums the totals of orders in the given status
func (s *Store) RevenueOf(ctx context.Context, status models.OrderStatus) (decimal.Decimal, error) {
	db, cancel := s.session(ctx)
	defer cancel()

	var total decimal.NullDecimal
	err := db.Model(&models.Order{}).
		Select("SUM(total_amount)").
		Where("order_status = ?", status).
		Row().Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
