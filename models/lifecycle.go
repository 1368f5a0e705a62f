package models

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTransition is returned when a status would move backwards
var ErrInvalidTransition = errors.New("invalid status transition")

// Lifecycle is the combined order, payment and delivery state of one order.
// Transitions are computed on copies; callers persist the result.
type Lifecycle struct {
	Order        OrderStatus
	Payment      PaymentStatus
	Delivery     DeliveryStatus
	DeliveryDate *time.Time
	Method       PaymentMethod
}

// NewLifecycle is the state of a freshly placed order
func NewLifecycle(method PaymentMethod) Lifecycle {
	return Lifecycle{
		Order:    OrderStatusPending,
		Payment:  PaymentStatusPending,
		Delivery: DeliveryStatusPending,
		Method:   method,
	}
}

// WithOrderStatus applies a delivery agent setting the order status.
//
// Delivered and Complete both go through the delivery cascade: prepaid
// orders are marked Paid and Complete, cash orders that were already paid
// become Complete, unpaid cash orders stay Delivered until the payment is
// recorded. Complete cannot be set on an unpaid cash order. Delivered on an
// order the cascade already completed is a no-op.
func (l Lifecycle) WithOrderStatus(next OrderStatus, now time.Time) (Lifecycle, error) {
	if next == OrderStatusDelivered && l.Order == OrderStatusComplete {
		return l.mirror(now), nil
	}
	if orderStatusRank[next] < orderStatusRank[l.Order] {
		return l, fmt.Errorf("%w: order cannot move from %s to %s", ErrInvalidTransition, l.Order, next)
	}

	if next.IsCompletion() {
		switch {
		case l.Method.IsPrepaid():
			l.Payment = PaymentStatusPaid
			next = OrderStatusComplete
		case l.Payment == PaymentStatusPaid:
			next = OrderStatusComplete
		case next == OrderStatusComplete:
			return l, fmt.Errorf("%w: unpaid %s order cannot be completed", ErrInvalidTransition, l.Method)
		}
	}
	l.Order = next
	return l.mirror(now), nil
}

// WithPaymentStatus applies a delivery agent recording the payment status.
// A Delivered order that becomes Paid is Complete.
func (l Lifecycle) WithPaymentStatus(next PaymentStatus, now time.Time) (Lifecycle, error) {
	if l.Payment == PaymentStatusPaid && next == PaymentStatusPending {
		return l, fmt.Errorf("%w: payment cannot move from %s to %s", ErrInvalidTransition, l.Payment, next)
	}

	wasDelivered := l.Order == OrderStatusDelivered
	l.Payment = next
	if wasDelivered && next == PaymentStatusPaid {
		l.Order = OrderStatusComplete
	}
	return l.mirror(now), nil
}

// mirror copies the order status onto the delivery and stamps the
// delivery date the first time a completion status is reached.
func (l Lifecycle) mirror(now time.Time) Lifecycle {
	l.Delivery = DeliveryStatus(l.Order)
	if l.Order.IsCompletion() && l.DeliveryDate == nil {
		y, m, d := now.UTC().Date()
		date := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		l.DeliveryDate = &date
	}
	return l
}
