package models

import (
	"strings"
	"time"
)

// Customer is a shopper account created at registration
type Customer struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"` // bcrypt hash, never the raw password
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Number       string    `json:"number"`
	Road         string    `json:"road"`
	Area         string    `json:"area"`
	City         string    `json:"city"`
	District     string    `json:"district"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}

// Address joins the non-empty address parts, house number first
func (c Customer) Address() string {
	var parts []string
	for _, p := range []string{c.Number, c.Road, c.Area, c.City, c.District} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// DeliveryMan is a delivery agent account managed by admins
type DeliveryMan struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Name         string    `gorm:"not null" json:"name"`
	Phone        string    `json:"phone"`
	Status       string    `gorm:"not null;default:'Active'" json:"status"` // Active or Inactive
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for the DeliveryMan model
func (DeliveryMan) TableName() string {
	return "delivery_men"
}

// IsActive reports whether the agent may log in and receive orders
func (d DeliveryMan) IsActive() bool {
	return d.Status == AgentStatusActive
}

// Admin is a back-office account
type Admin struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Name         string    `gorm:"not null" json:"name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Admin model
func (Admin) TableName() string {
	return "admins"
}
