package services

import (
	"context"

	"github.com/fashionmart/storefront-api/models"
	"github.com/fashionmart/storefront-api/repository"
	"github.com/shopspring/decimal"
)

// ProductReader is the catalog lookup the cart needs
type ProductReader interface {
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
}

// CartService applies cart operations to a caller-owned cart value.
// It never stores the cart; the caller persists it when Dirty is set.
type CartService struct {
	products       ProductReader
	deliveryCharge decimal.Decimal
}

// NewCartService creates a cart service
func NewCartService(products ProductReader, deliveryCharge decimal.Decimal) *CartService {
	return &CartService{products: products, deliveryCharge: deliveryCharge}
}

// CartSummary is the priced view of a cart
type CartSummary struct {
	Items          []models.CartLine `json:"items"`
	ItemCount      int               `json:"item_count"`
	Subtotal       decimal.Decimal   `json:"subtotal"`
	DeliveryCharge decimal.Decimal   `json:"delivery_charge"`
	Total          decimal.Decimal   `json:"total"`
}

// Add puts qty units of a product in the cart, merging with an existing
// line. The cumulative quantity may not exceed the product's current stock.
// A new line snapshots the product's name, price and image.
func (s *CartService) Add(ctx context.Context, cart *models.Cart, productID uint, qty int) (*models.Cart, error) {
	if qty <= 0 {
		return cart, newError(KindValidation, "quantity must be greater than zero")
	}
	if cart == nil {
		cart = models.NewCart()
	}
	if cart.Lines == nil {
		cart.Lines = make(map[uint]models.CartLine)
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		if repository.IsNotFound(err) {
			return cart, newError(KindNotFound, "product %d not found", productID)
		}
		return cart, persistenceError("failed to load product", err)
	}

	line, exists := cart.Lines[productID]
	requested := line.Quantity + qty
	if requested > product.Stock {
		return cart, newError(KindInsufficientStock, "only %d of %s in stock", product.Stock, product.Name)
	}

	if exists {
		line.Quantity = requested
	} else {
		line = models.CartLine{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  qty,
		}
		if product.ImageKey != nil {
			line.Image = *product.ImageKey
		}
	}
	cart.Lines[productID] = line
	cart.Dirty = true
	return cart, nil
}

// SetQuantity overwrites a line's quantity; zero or less removes the line.
// Stock is not re-checked here, only at checkout.
func (s *CartService) SetQuantity(cart *models.Cart, productID uint, qty int) (*models.Cart, error) {
	if cart == nil || cart.Lines == nil {
		return cart, newError(KindNotFound, "product %d is not in the cart", productID)
	}
	line, ok := cart.Lines[productID]
	if !ok {
		return cart, newError(KindNotFound, "product %d is not in the cart", productID)
	}

	if qty <= 0 {
		delete(cart.Lines, productID)
	} else {
		line.Quantity = qty
		cart.Lines[productID] = line
	}
	cart.Dirty = true
	return cart, nil
}

// Remove deletes a line
func (s *CartService) Remove(cart *models.Cart, productID uint) (*models.Cart, error) {
	if cart == nil || cart.Lines == nil {
		return cart, newError(KindNotFound, "product %d is not in the cart", productID)
	}
	if _, ok := cart.Lines[productID]; !ok {
		return cart, newError(KindNotFound, "product %d is not in the cart", productID)
	}
	delete(cart.Lines, productID)
	cart.Dirty = true
	return cart, nil
}

// Get returns the cart, never nil
func (s *CartService) Get(cart *models.Cart) *models.Cart {
	if cart == nil {
		return models.NewCart()
	}
	return cart
}

// Clear empties the cart
func (s *CartService) Clear(cart *models.Cart) *models.Cart {
	if cart == nil {
		cart = models.NewCart()
	}
	cart.Reset()
	return cart
}

// Summarize prices the cart with the configured delivery charge
func (s *CartService) Summarize(cart *models.Cart) CartSummary {
	cart = s.Get(cart)
	subtotal := cart.Subtotal()
	return CartSummary{
		Items:          cart.SortedLines(),
		ItemCount:      cart.ItemCount(),
		Subtotal:       subtotal,
		DeliveryCharge: s.deliveryCharge,
		Total:          subtotal.Add(s.deliveryCharge),
	}
}
