package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a placed customer order
type Order struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	CustomerID      uint            `gorm:"not null;index" json:"customer_id"`
	Customer        *Customer       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"` // subtotal plus delivery charge, fixed at creation
	OrderStatus     OrderStatus     `gorm:"not null;default:'Pending';index" json:"order_status"`
	PaymentMethod   PaymentMethod   `gorm:"not null" json:"payment_method"`
	PaymentStatus   PaymentStatus   `gorm:"not null;default:'Pending'" json:"payment_status"`
	DeliveryAddress string          `gorm:"type:text;not null" json:"delivery_address"` // snapshot of the customer address
	DeliveryManID   *uint           `gorm:"index" json:"delivery_man_id"`
	DeliveryMan     *DeliveryMan    `gorm:"foreignKey:DeliveryManID" json:"delivery_man,omitempty"`
	Version         uint            `gorm:"not null;default:1" json:"-"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Delivery        *Delivery       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"delivery,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// Lifecycle extracts the combined status of the order.
// Delivery must be loaded for the delivery fields to be filled.
func (o *Order) Lifecycle() Lifecycle {
	l := Lifecycle{
		Order:    o.OrderStatus,
		Payment:  o.PaymentStatus,
		Delivery: DeliveryStatus(o.OrderStatus),
		Method:   o.PaymentMethod,
	}
	if o.Delivery != nil {
		l.Delivery = o.Delivery.DeliveryStatus
		l.DeliveryDate = o.Delivery.DeliveryDate
	}
	return l
}

// IsAssignedTo reports whether the order belongs to the given delivery agent
func (o *Order) IsAssignedTo(deliveryManID uint) bool {
	return o.DeliveryManID != nil && *o.DeliveryManID == deliveryManID
}

// OrderItem is one product line of an order
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"not null;index" json:"order_id"`
	ProductID uint            `gorm:"not null;index" json:"product_id"`
	Product   *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int             `gorm:"not null;check:quantity > 0" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"` // unit price at purchase time
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// LineTotal is price times quantity
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Delivery tracks the hand-over of an order
type Delivery struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	OrderID        uint           `gorm:"not null;uniqueIndex" json:"order_id"`
	DeliveryStatus DeliveryStatus `gorm:"not null;default:'Pending'" json:"delivery_status"`
	DeliveryDate   *time.Time     `json:"delivery_date"` // set once, on the first completion status
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// TableName specifies the table name for the Delivery model
func (Delivery) TableName() string {
	return "deliveries"
}

// All lists every persisted model in migration order
func All() []interface{} {
	return []interface{}{
		&Customer{}, &DeliveryMan{}, &Admin{},
		&Product{}, &Order{}, &OrderItem{}, &Delivery{}, &Review{},
	}
}
