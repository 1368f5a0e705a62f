package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fashionmart/storefront-api/models"
	"github.com/fashionmart/storefront-api/repository"
	"github.com/shopspring/decimal"
)

// OrderService creates orders from carts and drives their lifecycle
type OrderService struct {
	store          *repository.Store
	deliveryCharge decimal.Decimal
	methods        map[models.PaymentMethod]bool
	notifier       Notifier
	now            func() time.Time
}

// NewOrderService creates an order service. paymentMethods lists the
// accepted methods by name; unknown names are ignored.
func NewOrderService(store *repository.Store, deliveryCharge decimal.Decimal, paymentMethods []string, notifier Notifier) *OrderService {
	methods := make(map[models.PaymentMethod]bool, len(paymentMethods))
	for _, name := range paymentMethods {
		if m, err := models.ParsePaymentMethod(name); err == nil {
			methods[m] = true
		}
	}
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &OrderService{
		store:          store,
		deliveryCharge: deliveryCharge,
		methods:        methods,
		notifier:       notifier,
		now:            time.Now,
	}
}

// DeliveryCharge returns the fee added to every order
func (s *OrderService) DeliveryCharge() decimal.Decimal {
	return s.deliveryCharge
}

// CreateOrder turns the cart into an order. The order, its items, the stock
// reservations and the delivery record commit together or not at all. On
// success the cart is emptied; on failure it is left untouched.
func (s *OrderService) CreateOrder(ctx context.Context, customerID uint, cart *models.Cart, paymentMethod string) (*models.Order, error) {
	if cart.IsEmpty() {
		return nil, newError(KindEmptyCart, "cart is empty")
	}
	method, err := models.ParsePaymentMethod(paymentMethod)
	if err != nil {
		return nil, newError(KindValidation, "%s", err.Error())
	}
	if !s.methods[method] {
		return nil, newError(KindValidation, "payment method %q is not accepted", method)
	}

	var (
		order    *models.Order
		customer *models.Customer
	)
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		customer, err = tx.GetCustomer(ctx, customerID)
		if err != nil {
			if repository.IsNotFound(err) {
				return newError(KindNotFound, "customer %d not found", customerID)
			}
			return err
		}

		lines := cart.SortedLines()
		items := make([]models.OrderItem, 0, len(lines))
		subtotal := decimal.Zero
		for _, line := range lines {
			if line.Quantity <= 0 {
				return newError(KindValidation, "quantity for product %d must be greater than zero", line.ProductID)
			}
			if err := reserve(ctx, tx, line); err != nil {
				return err
			}
			items = append(items, models.OrderItem{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Price:     line.Price,
			})
			subtotal = subtotal.Add(line.LineTotal())
		}

		lifecycle := models.NewLifecycle(method)
		order = &models.Order{
			CustomerID:      customer.ID,
			TotalAmount:     subtotal.Add(s.deliveryCharge),
			OrderStatus:     lifecycle.Order,
			PaymentMethod:   method,
			PaymentStatus:   lifecycle.Payment,
			DeliveryAddress: customer.Address(),
			Version:         1,
			Items:           items,
			Delivery:        &models.Delivery{DeliveryStatus: lifecycle.Delivery},
		}
		return tx.CreateOrder(ctx, order)
	})
	if err != nil {
		return nil, passThrough(err, "failed to create order")
	}

	cart.Reset()
	slog.InfoContext(ctx, "order created",
		"order_id", order.ID,
		"customer_id", customerID,
		"total", order.TotalAmount.StringFixed(2),
		"payment_method", method)

	if err := s.notifier.OrderPlaced(ctx, customer, order); err != nil {
		slog.WarnContext(ctx, "order confirmation failed", "order_id", order.ID, "error", err)
	}

	if full, err := s.store.GetOrder(ctx, order.ID); err == nil {
		return full, nil
	}
	return order, nil
}

// reserve checks and takes stock for one cart line inside the transaction
func reserve(ctx context.Context, tx *repository.Store, line models.CartLine) error {
	product, err := tx.LockProduct(ctx, line.ProductID)
	if err != nil {
		if repository.IsNotFound(err) {
			return newError(KindNotFound, "product %d not found", line.ProductID)
		}
		return err
	}
	if product.Stock < line.Quantity {
		return newError(KindInsufficientStock, "only %d of %s in stock", product.Stock, product.Name)
	}
	if err := tx.ReserveStock(ctx, line.ProductID, line.Quantity); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return newError(KindConcurrencyConflict, "stock of %s changed during checkout", product.Name)
		}
		return err
	}
	return nil
}

// UpdateOrderStatus lets the assigned delivery agent move the order forward.
// Delivered cascades per the payment method; see models.Lifecycle.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, agentID, orderID uint, status string) (*models.Order, error) {
	next, err := models.ParseOrderStatus(status)
	if err != nil {
		return nil, newError(KindValidation, "%s", err.Error())
	}
	return s.transition(ctx, agentID, orderID, func(l models.Lifecycle) (models.Lifecycle, error) {
		return l.WithOrderStatus(next, s.now())
	})
}

// UpdatePaymentStatus lets the assigned delivery agent record the payment.
// Paying a Delivered order completes it.
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, agentID, orderID uint, status string) (*models.Order, error) {
	next, err := models.ParsePaymentStatus(status)
	if err != nil {
		return nil, newError(KindValidation, "%s", err.Error())
	}
	return s.transition(ctx, agentID, orderID, func(l models.Lifecycle) (models.Lifecycle, error) {
		return l.WithPaymentStatus(next, s.now())
	})
}

// transition runs one read-decide-write step on a locked order. Only the
// assigned agent may apply it, and only while active.
func (s *OrderService) transition(ctx context.Context, agentID, orderID uint, apply func(models.Lifecycle) (models.Lifecycle, error)) (*models.Order, error) {
	var before, after models.Lifecycle
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		order, err := tx.LockOrder(ctx, orderID)
		if err != nil {
			if repository.IsNotFound(err) {
				return newError(KindNotFound, "order %d not found", orderID)
			}
			return err
		}
		if !order.IsAssignedTo(agentID) {
			return newError(KindUnauthorized, "order %d is not assigned to you", orderID)
		}
		agent, err := tx.GetDeliveryMan(ctx, agentID)
		if err != nil {
			if repository.IsNotFound(err) {
				return newError(KindUnauthorized, "delivery man %d not found", agentID)
			}
			return err
		}
		if !agent.IsActive() {
			return newError(KindUnauthorized, "delivery man %d is inactive", agentID)
		}

		before = order.Lifecycle()
		after, err = apply(before)
		if err != nil {
			return newError(KindValidation, "%s", err.Error())
		}
		if err := tx.SaveLifecycle(ctx, order, after); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return newError(KindConcurrencyConflict, "order %d was modified concurrently", orderID)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, passThrough(err, "failed to update order")
	}

	slog.InfoContext(ctx, "order lifecycle updated",
		"order_id", orderID,
		"delivery_man_id", agentID,
		"order_status_from", before.Order,
		"order_status_to", after.Order,
		"payment_status_from", before.Payment,
		"payment_status_to", after.Payment)

	return s.GetOrder(ctx, orderID)
}

// AssignDeliveryAgent links an order to an active delivery agent.
// Completed orders are locked against reassignment.
func (s *OrderService) AssignDeliveryAgent(ctx context.Context, orderID, agentID uint) (*models.Order, error) {
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		agent, err := tx.GetDeliveryMan(ctx, agentID)
		if err != nil {
			if repository.IsNotFound(err) {
				return newError(KindNotFound, "delivery man %d not found", agentID)
			}
			return err
		}
		if !agent.IsActive() {
			return newError(KindValidation, "delivery man %d is inactive", agentID)
		}

		order, err := tx.LockOrder(ctx, orderID)
		if err != nil {
			if repository.IsNotFound(err) {
				return newError(KindNotFound, "order %d not found", orderID)
			}
			return err
		}
		if order.OrderStatus == models.OrderStatusComplete {
			return newError(KindValidation, "order %d is complete and cannot be reassigned", orderID)
		}

		if err := tx.AssignDeliveryMan(ctx, order, agentID); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return newError(KindConcurrencyConflict, "order %d was modified concurrently", orderID)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, passThrough(err, "failed to assign delivery man")
	}

	slog.InfoContext(ctx, "delivery man assigned", "order_id", orderID, "delivery_man_id", agentID)
	return s.GetOrder(ctx, orderID)
}

// GetOrder loads any order (admin view)
func (s *OrderService) GetOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, newError(KindNotFound, "order %d not found", orderID)
		}
		return nil, persistenceError("failed to load order", err)
	}
	return order, nil
}

// GetCustomerOrder loads an order only if the customer owns it
func (s *OrderService) GetCustomerOrder(ctx context.Context, customerID, orderID uint) (*models.Order, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != customerID {
		return nil, newError(KindNotFound, "order %d not found", orderID)
	}
	return order, nil
}

// GetAgentOrder loads an order only if it is assigned to the agent
func (s *OrderService) GetAgentOrder(ctx context.Context, agentID, orderID uint) (*models.Order, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.IsAssignedTo(agentID) {
		return nil, newError(KindUnauthorized, "order %d is not assigned to you", orderID)
	}
	return order, nil
}

// ListCustomerOrders returns a customer's orders newest first
func (s *OrderService) ListCustomerOrders(ctx context.Context, customerID uint) ([]models.Order, error) {
	return s.list(ctx, repository.OrderFilter{CustomerID: customerID})
}

// ListAgentOrders returns the orders assigned to a delivery agent
func (s *OrderService) ListAgentOrders(ctx context.Context, agentID uint) ([]models.Order, error) {
	return s.list(ctx, repository.OrderFilter{DeliveryManID: agentID})
}

// ListOrders returns all orders, optionally only those in one status
func (s *OrderService) ListOrders(ctx context.Context, status string) ([]models.Order, error) {
	filter := repository.OrderFilter{}
	if status != "" {
		parsed, err := models.ParseOrderStatus(status)
		if err != nil {
			return nil, newError(KindValidation, "%s", err.Error())
		}
		filter.Status = parsed
	}
	return s.list(ctx, filter)
}

func (s *OrderService) list(ctx context.Context, filter repository.OrderFilter) ([]models.Order, error) {
	orders, err := s.store.ListOrders(ctx, filter)
	if err != nil {
		return nil, persistenceError("failed to list orders", err)
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}
