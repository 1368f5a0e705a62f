package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/fashionmart/storefront-api/models"
	"github.com/keighl/postmark"
)

// Notifier tells customers about their orders
type Notifier interface {
	OrderPlaced(ctx context.Context, customer *models.Customer, order *models.Order) error
}

var notifierInstance Notifier = LogNotifier{}

// GetNotifier returns the configured notifier
func GetNotifier() Notifier {
	return notifierInstance
}

// SetNotifier replaces the notifier
func SetNotifier(n Notifier) {
	notifierInstance = n
}

// PostmarkNotifier sends order confirmation mail through Postmark
type PostmarkNotifier struct {
	client *postmark.Client
	from   string
}

// NewPostmarkNotifier creates a Postmark-backed notifier
func NewPostmarkNotifier(serverToken, from string) *PostmarkNotifier {
	return &PostmarkNotifier{
		client: postmark.NewClient(serverToken, ""),
		from:   from,
	}
}

// OrderPlaced sends the confirmation receipt
func (p *PostmarkNotifier) OrderPlaced(ctx context.Context, customer *models.Customer, order *models.Order) error {
	if customer.Email == "" {
		return nil
	}
	_, err := p.client.SendEmail(postmark.Email{
		From:     p.from,
		To:       customer.Email,
		Subject:  fmt.Sprintf("Order #%d confirmation", order.ID),
		HtmlBody: orderConfirmationHTML(customer, order),
		TextBody: orderConfirmationText(customer, order),
	})
	if err != nil {
		return fmt.Errorf("failed to send confirmation for order %d: %w", order.ID, err)
	}
	return nil
}

func orderConfirmationText(customer *models.Customer, order *models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\nThank you for your purchase. Order #%d has been placed.\n\n", customer.Name, order.ID)
	for _, item := range order.Items {
		fmt.Fprintf(&b, "  product %d x%d @ %s\n", item.ProductID, item.Quantity, item.Price.StringFixed(2))
	}
	fmt.Fprintf(&b, "\nTotal: %s\nPayment method: %s\nDelivery to: %s\n",
		order.TotalAmount.StringFixed(2), order.PaymentMethod, order.DeliveryAddress)
	return b.String()
}

func orderConfirmationHTML(customer *models.Customer, order *models.Order) string {
	return fmt.Sprintf(
		"<strong>Dear %s,</strong><br><br>Thank you for your purchase! Your order #%d has been placed.<br><br>Total Amount: <strong>%s</strong><br>Payment Method: <strong>%s</strong><br>Delivery Address: %s",
		customer.Name, order.ID, order.TotalAmount.StringFixed(2), order.PaymentMethod, order.DeliveryAddress,
	)
}

// LogNotifier only logs; used when no mail provider is configured
type LogNotifier struct{}

// OrderPlaced logs the order
func (LogNotifier) OrderPlaced(ctx context.Context, customer *models.Customer, order *models.Order) error {
	slog.InfoContext(ctx, "order placed",
		"order_id", order.ID,
		"customer_id", customer.ID,
		"total", order.TotalAmount.StringFixed(2))
	return nil
}

// MockNotifier records notifications for tests
type MockNotifier struct {
	Err    error
	orders []uint
	mu     sync.Mutex
}

// NewMockNotifier creates a recording notifier
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// OrderPlaced records the order id and returns Err
func (m *MockNotifier) OrderPlaced(ctx context.Context, customer *models.Customer, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = append(m.orders, order.ID)
	return m.Err
}

// Orders returns the ids notified so far
func (m *MockNotifier) Orders() []uint {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]uint(nil), m.orders...)
}
