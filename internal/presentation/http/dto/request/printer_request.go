package request

import "github.com/google/uuid"

// PrintReceiptRequest is the request body for reprinting an order.
type PrintReceiptRequest struct {
	OrderID   uuid.UUID `json:"order_id" binding:"required"`
	PrintType string    `json:"print_type" binding:"omitempty,oneof=customer kitchen both"`
}
