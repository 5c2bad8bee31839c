package request

import "github.com/google/uuid"

// CreateOrderRequest represents an order submitted by the till. ID is
// optional and makes retries safe.
type CreateOrderRequest struct {
	ID            *uuid.UUID        `json:"id"`
	Type          string            `json:"type" binding:"omitempty,oneof=dine_in takeaway delivery online"`
	CustomerName  string            `json:"customer_name" binding:"max=255"`
	CustomerPhone string            `json:"customer_phone" binding:"max=50"`
	Notes         string            `json:"notes"`
	PaymentMethod string            `json:"payment_method" binding:"max=50"`
	Items         []CartItemRequest `json:"items" binding:"required,dive"`
	Discount      *DiscountRequest  `json:"discount"`
	PrintType     string            `json:"print_type" binding:"omitempty,oneof=customer kitchen both"`
	SkipPrint     bool              `json:"skip_print"`
}

// UpdateOrderStatusRequest moves an order through its lifecycle
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// OrderFilterRequest represents order list filters
type OrderFilterRequest struct {
	Status    string `form:"status"`
	Type      string `form:"type"`
	StaffID   string `form:"staff_id"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	SortOrder string `form:"sort_order" binding:"omitempty,oneof=asc desc"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}
