package models

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices travel as JSON numbers, matching what browser clients send.
	decimal.MarshalJSONWithoutQuotes = true
}

// Name length bounds, counted in characters after trimming.
const (
	NameMinLength = 2
	NameMaxLength = 100
)

// ValidName reports whether an already trimmed name fits the length bounds.
func ValidName(name string) bool {
	n := utf8.RuneCountInString(name)
	return n >= NameMinLength && n <= NameMaxLength
}

// Product represents an inventory item.
// A product is visible to reads only while IsActive is true; deletes flip the flag.
type Product struct {
	ID            int             `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity"`
	ReorderLevel  int             `json:"reorderLevel"`
	Category      string          `json:"category"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     *time.Time      `json:"updatedAt"`
	IsActive      bool            `json:"isActive"`
}

// IsLowStock reports whether stock is at or below the reorder level.
func (p Product) IsLowStock() bool {
	return p.StockQuantity <= p.ReorderLevel
}

// Clone returns a copy that shares no memory with p.
func (p Product) Clone() Product {
	if p.UpdatedAt != nil {
		updatedAt := *p.UpdatedAt
		p.UpdatedAt = &updatedAt
	}
	return p
}

// CreateProductRequest is the body accepted by POST /api/products.
// Name presence and price positivity are enforced by the create operation itself.
type CreateProductRequest struct {
	Name          string          `json:"name" validate:"omitempty,min=2,max=100"`
	Description   string          `json:"description" validate:"omitempty,max=500"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity" validate:"gte=0"`
	ReorderLevel  int             `json:"reorderLevel" validate:"gte=0"`
	Category      string          `json:"category" validate:"omitempty,max=50"`
}

// Normalize trims surrounding whitespace from the name so length rules see
// what will actually be stored.
func (r *CreateProductRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

// RequiredFieldError returns the first missing required field, name before
// price, with its message. field is empty when both are present.
func (r CreateProductRequest) RequiredFieldError() (field, message string) {
	if strings.TrimSpace(r.Name) == "" {
		return "name", "Product name is required"
	}
	if !r.Price.IsPositive() {
		return "price", "Product price must be greater than zero"
	}
	return "", ""
}

// UpdateProductRequest is a partial update. Fields that are absent or not
// meaningful (empty strings, non-positive price, negative quantities) are ignored.
type UpdateProductRequest struct {
	Name          string           `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Description   string           `json:"description,omitempty" validate:"omitempty,max=500"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	StockQuantity *int             `json:"stockQuantity,omitempty"`
	ReorderLevel  *int             `json:"reorderLevel,omitempty"`
	Category      string           `json:"category,omitempty" validate:"omitempty,max=50"`
}

// Normalize trims surrounding whitespace from the name.
func (r *UpdateProductRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

// ApplyTo overwrites the fields of p that the patch carries meaningful values for.
// A name outside the length bounds is not meaningful.
func (r UpdateProductRequest) ApplyTo(p *Product) {
	if name := strings.TrimSpace(r.Name); ValidName(name) {
		p.Name = name
	}
	if r.Description != "" {
		p.Description = r.Description
	}
	if r.Price != nil && r.Price.IsPositive() {
		p.Price = *r.Price
	}
	if r.StockQuantity != nil && *r.StockQuantity >= 0 {
		p.StockQuantity = *r.StockQuantity
	}
	if r.ReorderLevel != nil && *r.ReorderLevel >= 0 {
		p.ReorderLevel = *r.ReorderLevel
	}
	if r.Category != "" {
		p.Category = r.Category
	}
}
