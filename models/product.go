package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a catalog entry
type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"not null;index" json:"name"`
	Category    string          `gorm:"not null;index" json:"category"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Stock       int             `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
	Demand      int             `gorm:"not null;default:0" json:"demand"` // units ordered so far
	Rating      float64         `gorm:"not null;default:0" json:"rating"`
	ImageKey    *string         `json:"image_key"`                    // storage key of the uploaded image
	ImageURL    *string         `gorm:"-" json:"image_url,omitempty"` // computed on read
	Description string          `gorm:"type:text" json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Product model
func (Product) TableName() string {
	return "products"
}
