package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCart(t *testing.T) {
	var nilCart *Cart
	assert.True(t, nilCart.IsEmpty())
	assert.Zero(t, nilCart.ItemCount())
	assert.True(t, nilCart.Subtotal().IsZero())

	cart := NewCart()
	cart.Lines[9] = CartLine{ProductID: 9, Price: decimal.RequireFromString("2.25"), Quantity: 4}
	cart.Lines[3] = CartLine{ProductID: 3, Price: decimal.RequireFromString("10.10"), Quantity: 1}

	lines := cart.SortedLines()
	assert.Equal(t, uint(3), lines[0].ProductID)
	assert.Equal(t, uint(9), lines[1].ProductID)
	assert.Equal(t, 5, cart.ItemCount())
	assert.Equal(t, "19.1", cart.Subtotal().String())

	cart.Reset()
	assert.True(t, cart.IsEmpty())
	assert.True(t, cart.Dirty)
}

func TestCustomerAddress(t *testing.T) {
	tests := []struct {
		name     string
		customer Customer
		expected string
	}{
		{"full", Customer{Number: "12", Road: "Lake Road", Area: "Dhanmondi", City: "Dhaka", District: "Dhaka"}, "12, Lake Road, Dhanmondi, Dhaka, Dhaka"},
		{"gaps are skipped", Customer{Number: "4", City: " Sylhet "}, "4, Sylhet"},
		{"empty", Customer{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.customer.Address())
		})
	}
}

func TestOrderHelpers(t *testing.T) {
	agent := uint(7)
	order := Order{
		OrderStatus:   OrderStatusShipped,
		PaymentStatus: PaymentStatusPending,
		PaymentMethod: PaymentMethodOnline,
		DeliveryManID: &agent,
	}
	assert.True(t, order.IsAssignedTo(7))
	assert.False(t, order.IsAssignedTo(8))
	assert.False(t, (&Order{}).IsAssignedTo(0))

	l := order.Lifecycle()
	assert.Equal(t, DeliveryStatus(OrderStatusShipped), l.Delivery)
	assert.Equal(t, PaymentMethodOnline, l.Method)

	item := OrderItem{Quantity: 3, Price: decimal.RequireFromString("4.50")}
	assert.Equal(t, "13.5", item.LineTotal().String())
}

func TestIdentityKind(t *testing.T) {
	assert.True(t, IdentityCustomer.Valid())
	assert.True(t, IdentityDeliveryMan.Valid())
	assert.True(t, IdentityAdmin.Valid())
	assert.False(t, IdentityKind("guest").Valid())
}
