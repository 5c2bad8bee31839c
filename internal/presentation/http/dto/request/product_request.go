package request

import "github.com/shopspring/decimal"

// ModifierRequest is a modifier offered with a product
type ModifierRequest struct {
	Name  string          `json:"name" binding:"required,max=255"`
	Price decimal.Decimal `json:"price"`
}

// CreateProductRequest represents a product creation request
type CreateProductRequest struct {
	Name      string            `json:"name" binding:"required,min=2,max=255"`
	Category  string            `json:"category" binding:"omitempty,max=100"`
	Price     decimal.Decimal   `json:"price"`
	Modifiers []ModifierRequest `json:"modifiers" binding:"omitempty,dive"`
}
