package services

import (
	"testing"
	"time"

	"github.com/fashionmart/storefront-api/models"
	"github.com/fashionmart/storefront-api/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestStore opens a migrated in-memory database on a single connection
func newTestStore(t *testing.T) (*repository.Store, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return repository.New(db, 5*time.Second), db
}

func seedCustomer(t *testing.T, db *gorm.DB, username string) *models.Customer {
	t.Helper()
	c := &models.Customer{
		Username:     username,
		PasswordHash: "x",
		Name:         username,
		Email:        username + "@example.com",
		Number:       "3",
		Road:         "Mirpur Road",
		City:         "Dhaka",
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

func seedAgent(t *testing.T, db *gorm.DB, username, status string) *models.DeliveryMan {
	t.Helper()
	d := &models.DeliveryMan{Username: username, PasswordHash: "x", Name: username, Status: status}
	require.NoError(t, db.Create(d).Error)
	return d
}

func seedProduct(t *testing.T, db *gorm.DB, name, price string, stock int) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Category: "Test", Price: decimal.RequireFromString(price), Stock: stock}
	require.NoError(t, db.Create(p).Error)
	return p
}

func reloadProduct(t *testing.T, db *gorm.DB, id uint) models.Product {
	t.Helper()
	var p models.Product
	require.NoError(t, db.First(&p, id).Error)
	return p
}

type cartItem struct {
	product *models.Product
	qty     int
}

func line(p *models.Product, qty int) cartItem {
	return cartItem{product: p, qty: qty}
}

// cartWith builds a cart holding qty of each product at its current price
func cartWith(items ...cartItem) *models.Cart {
	cart := models.NewCart()
	for _, it := range items {
		cart.Lines[it.product.ID] = models.CartLine{
			ProductID: it.product.ID,
			Name:      it.product.Name,
			Price:     it.product.Price,
			Quantity:  it.qty,
		}
	}
	return cart
}
