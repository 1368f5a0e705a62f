package models

import "fmt"

// OrderStatus is the fulfilment state of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusComplete   OrderStatus = "Complete"
)

// orderStatusRank orders statuses along the only permitted direction of travel
var orderStatusRank = map[OrderStatus]int{
	OrderStatusPending:    0,
	OrderStatusProcessing: 1,
	OrderStatusShipped:    2,
	OrderStatusDelivered:  3,
	OrderStatusComplete:   4,
}

// ParseOrderStatus validates a status name
func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if _, ok := orderStatusRank[status]; !ok {
		return "", fmt.Errorf("unknown order status %q", s)
	}
	return status, nil
}

// IsCompletion reports whether reaching this status stamps the delivery date
func (s OrderStatus) IsCompletion() bool {
	return s == OrderStatusDelivered || s == OrderStatusComplete
}

// PaymentStatus tracks whether the order has been paid for
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "Pending"
	PaymentStatusPaid    PaymentStatus = "Paid"
)

// ParsePaymentStatus validates a payment status name
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(s) {
	case PaymentStatusPending, PaymentStatusPaid:
		return PaymentStatus(s), nil
	}
	return "", fmt.Errorf("unknown payment status %q", s)
}

// PaymentMethod is recorded on the order; no payment is processed
type PaymentMethod string

const (
	PaymentMethodCashOnDelivery PaymentMethod = "Cash on Delivery"
	PaymentMethodOnline         PaymentMethod = "Online Payment"
	PaymentMethodBankTransfer   PaymentMethod = "Bank Transfer"
)

// ParsePaymentMethod validates a payment method name
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case PaymentMethodCashOnDelivery, PaymentMethodOnline, PaymentMethodBankTransfer:
		return PaymentMethod(s), nil
	}
	return "", fmt.Errorf("unknown payment method %q", s)
}

// IsPrepaid reports whether the money is collected before delivery
func (m PaymentMethod) IsPrepaid() bool {
	return m == PaymentMethodOnline || m == PaymentMethodBankTransfer
}

// DeliveryStatus mirrors OrderStatus on the delivery record
type DeliveryStatus string

const (
	DeliveryStatusPending DeliveryStatus = "Pending"
)

// Delivery agent account states
const (
	AgentStatusActive   = "Active"
	AgentStatusInactive = "Inactive"
)
