package models

import "time"

// Review is one customer's rating of one product
type Review struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CustomerID uint      `gorm:"not null;uniqueIndex:idx_reviews_customer_product" json:"customer_id"`
	Customer   *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	ProductID  uint      `gorm:"not null;uniqueIndex:idx_reviews_customer_product;index" json:"product_id"`
	Rating     int       `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment    string    `gorm:"type:text" json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for the Review model
func (Review) TableName() string {
	return "reviews"
}

// RatingSummary aggregates the reviews of a product
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}
