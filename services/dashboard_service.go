package services

import (
	"context"

	"github.com/fashionmart/storefront-api/models"
	"github.com/fashionmart/storefront-api/repository"
	"github.com/shopspring/decimal"
)

const topProductCount = 5

// Dashboard is the admin overview
type Dashboard struct {
	Customers      int64                         `json:"customers"`
	DeliveryMen    int64                         `json:"delivery_men"`
	Products       int64                         `json:"products"`
	Orders         int64                         `json:"orders"`
	OrdersByStatus []repository.OrderStatusCount `json:"orders_by_status"`
	Revenue        decimal.Decimal               `json:"revenue"`
	TopProducts    []models.Product              `json:"top_products"`
}

// DashboardService aggregates store statistics for admins
type DashboardService struct {
	store *repository.Store
}

// NewDashboardService creates a dashboard service
func NewDashboardService(store *repository.Store) *DashboardService {
	return &DashboardService{store: store}
}

// Summary counts accounts, products and orders. Revenue sums Complete orders.
func (s *DashboardService) Summary(ctx context.Context) (*Dashboard, error) {
	var (
		d   Dashboard
		err error
	)
	counts := []struct {
		model interface{}
		dest  *int64
	}{
		{&models.Customer{}, &d.Customers},
		{&models.DeliveryMan{}, &d.DeliveryMen},
		{&models.Product{}, &d.Products},
		{&models.Order{}, &d.Orders},
	}
	for _, c := range counts {
		if *c.dest, err = s.store.Count(ctx, c.model); err != nil {
			return nil, persistenceError("failed to count records", err)
		}
	}

	if d.OrdersByStatus, err = s.store.CountOrdersByStatus(ctx); err != nil {
		return nil, persistenceError("failed to count orders", err)
	}
	if d.OrdersByStatus == nil {
		d.OrdersByStatus = []repository.OrderStatusCount{}
	}
	if d.Revenue, err = s.store.RevenueOf(ctx, models.OrderStatusComplete); err != nil {
		return nil, persistenceError("failed to sum revenue", err)
	}
	if d.TopProducts, err = s.store.TopProductsByDemand(ctx, topProductCount); err != nil {
		return nil, persistenceError("failed to rank products", err)
	}
	if d.TopProducts == nil {
		d.TopProducts = []models.Product{}
	}
	return &d, nil
}
