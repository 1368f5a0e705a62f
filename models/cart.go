package models

import (
	"sort"

	"github.com/shopspring/decimal"
)

// CartLine is a product in the cart with the details captured when it was added
type CartLine struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image,omitempty"`
}

// LineTotal is price times quantity
func (l CartLine) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is the session-owned basket. It is never persisted as a table.
type Cart struct {
	Lines map[uint]CartLine `json:"lines"`
	Dirty bool              `json:"-"` // set by every mutation, cleared by the session store on save
}

// NewCart returns an empty cart
func NewCart() *Cart {
	return &Cart{Lines: make(map[uint]CartLine)}
}

// Reset drops every line and marks the cart dirty
func (c *Cart) Reset() {
	c.Lines = make(map[uint]CartLine)
	c.Dirty = true
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Lines) == 0
}

// SortedLines returns the lines by ascending product id
func (c *Cart) SortedLines() []CartLine {
	if c == nil {
		return nil
	}
	lines := make([]CartLine, 0, len(c.Lines))
	for _, l := range c.Lines {
		lines = append(lines, l)
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })
	return lines
}

// Subtotal sums the line totals
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.SortedLines() {
		total = total.Add(l.LineTotal())
	}
	return total
}

// ItemCount sums the quantities
func (c *Cart) ItemCount() int {
	n := 0
	if c == nil {
		return n
	}
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}
