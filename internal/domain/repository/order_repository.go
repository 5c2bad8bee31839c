package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/counterpos/internal/domain/entity"
	"github.com/sangkips/counterpos/internal/domain/enum"
	"github.com/sangkips/counterpos/pkg/pagination"
)

// OrderRepository defines the interface for order data operations
type OrderRepository interface {
	// Create stores the order with its items. When order.CouponID is set the
	// coupon redemption is recorded in the same transaction. created is false
	// when an order with the same ID already exists; order is then left as is.
	Create(ctx context.Context, order *entity.Order) (created bool, err error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	GetByNumber(ctx context.Context, number int) (*entity.Order, error)
	List(ctx context.Context, params *OrderFilterParams) ([]entity.Order, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.OrderStatus) error
}

// OrderFilterParams contains filtering parameters for order queries
type OrderFilterParams struct {
	Pagination *pagination.PaginationParams
	Status     *enum.OrderStatus
	Type       *enum.OrderType
	StaffID    *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	SortOrder  string
}
