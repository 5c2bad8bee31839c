package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/sangkips/counterpos/internal/domain/entity"
	"github.com/sangkips/counterpos/internal/domain/enum"
	"github.com/sangkips/counterpos/internal/domain/repository"
	"github.com/sangkips/counterpos/internal/logger"
	"github.com/sangkips/counterpos/pkg/apperror"
	"github.com/sangkips/counterpos/pkg/pagination"
	"github.com/sangkips/counterpos/pkg/pricing"
)

// OrderPrinter prints committed orders without blocking the caller.
type OrderPrinter interface {
	PrintOrderAsync(order *entity.Order, printType PrintType)
}

// OrderService handles order-related operations
type OrderService struct {
	orderRepo repository.OrderRepository
	pricing   *PricingService
	printer   OrderPrinter
	logger    *logger.Logger
}

// NewOrderService creates a new order service. printer may be nil.
func NewOrderService(
	orderRepo repository.OrderRepository,
	pricingService *PricingService,
	printer OrderPrinter,
	log *logger.Logger,
) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		pricing:   pricingService,
		printer:   printer,
		logger:    log.Named("order"),
	}
}

// CreateOrderInput represents the create order input
type CreateOrderInput struct {
	// ID is optional. A till that retries with the same ID gets the stored
	// order back instead of a duplicate.
	ID            *uuid.UUID
	StaffID       uuid.UUID
	Type          enum.OrderType
	CustomerName  string
	CustomerPhone string
	Notes         string
	PaymentMethod string
	Items         []CartItemInput
	Discount      *DiscountInput
	// PrintType defaults to both; SkipPrint disables printing.
	PrintType PrintType
	SkipPrint bool
}

// CreateOrder prices the cart, commits the order and redeems its coupon in
// one transaction, then prints in the background. created is false when the
// order ID was already used.
func (s *OrderService) CreateOrder(ctx context.Context, input *CreateOrderInput) (order *entity.Order, created bool, err error) {
	if input.ID != nil {
		existing, err := s.orderRepo.GetByID(ctx, *input.ID)
		if err != nil {
			return nil, false, err
		}
		if existing != nil {
			return existing, false, nil
		}
	}

	quote, err := s.pricing.Quote(ctx, &QuoteInput{Items: input.Items, Discount: input.Discount})
	if err != nil {
		return nil, false, err
	}

	order = &entity.Order{
		StaffID:       input.StaffID,
		Type:          input.Type,
		Status:        enum.OrderStatusPending,
		CustomerName:  input.CustomerName,
		CustomerPhone: input.CustomerPhone,
		Notes:         input.Notes,
		PaymentMethod: input.PaymentMethod,
		Items:         buildOrderItems(quote.Lines),
	}
	if input.ID != nil {
		order.ID = *input.ID
	}
	order.ApplyPricing(quote.raw)

	if d := quote.Discount; d != nil {
		order.DiscountType = d.Type
		order.DiscountValue = d.Value
		order.CouponCode = d.CouponCode
	}
	if quote.coupon != nil {
		order.CouponID = &quote.coupon.ID
	}

	created, err = s.orderRepo.Create(ctx, order)
	if err != nil {
		return nil, false, err
	}
	if !created {
		existing, err := s.orderRepo.GetByID(ctx, order.ID)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}

	s.logger.Infow("order created",
		"order_id", order.ID,
		"order_number", order.OrderNumber,
		"total", order.Total.StringFixed(2),
		"coupon", order.CouponCode,
	)

	if s.printer != nil && !input.SkipPrint {
		printType := input.PrintType
		if printType == "" {
			printType = PrintBoth
		}
		s.printer.PrintOrderAsync(order, printType)
	}

	return order, true, nil
}

func buildOrderItems(lines []QuoteLine) []entity.OrderItem {
	return lo.Map(lines, func(l QuoteLine, _ int) entity.OrderItem {
		return entity.OrderItem{
			ProductID:   l.ProductID,
			ProductName: l.Name,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice.Round(2),
			TotalPrice:  l.TotalPrice.Round(2),
			Notes:       l.Note,
			Modifiers: lo.Map(l.Modifiers, func(m pricing.Modifier, _ int) entity.OrderItemModifier {
				return entity.OrderItemModifier{
					ModifierID: uuid.MustParse(m.ID),
					Name:       m.Name,
					Price:      m.Price,
				}
			}),
		}
	})
}

// GetOrder returns an order with its items
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// ListOrders returns a page of orders
func (s *OrderService) ListOrders(ctx context.Context, params *repository.OrderFilterParams) (*pagination.PaginatedResult[entity.Order], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	orders, total, err := s.orderRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return pagination.FromParams(orders, params.Pagination, total), nil
}

// UpdateStatus moves an order through its lifecycle
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.OrderStatus) (*entity.Order, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(status) {
		return nil, apperror.NewAppError(http.StatusUnprocessableEntity,
			fmt.Sprintf("Cannot change order status from %s to %s", order.Status, status))
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	order.Status = status

	s.logger.Infow("order status updated", "order_number", order.OrderNumber, "status", status.String())
	return order, nil
}
