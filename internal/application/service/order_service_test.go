package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/counterpos/internal/domain/entity"
	"github.com/sangkips/counterpos/internal/domain/enum"
	"github.com/sangkips/counterpos/internal/logger"
	"github.com/sangkips/counterpos/pkg/apperror"
	"github.com/sangkips/counterpos/pkg/pricing"
)

type orderFixture struct {
	menu    menu
	coupons *fakeCouponRepo
	orders  *fakeOrderRepo
	printer *fakeOrderPrinter
	service *OrderService
	coupon  *entity.Coupon
}

func newOrderFixture(usageLimit *int) *orderFixture {
	m := testMenu()
	coupon := &entity.Coupon{
		Code:       "TENOFF",
		Type:       pricing.DiscountTypePercentage,
		Value:      d("10"),
		UsageLimit: usageLimit,
		IsActive:   true,
	}
	coupons := newFakeCouponRepo(coupon)
	orders := newFakeOrderRepo(coupons)
	p := &fakeOrderPrinter{}
	return &orderFixture{
		menu:    m,
		coupons: coupons,
		orders:  orders,
		printer: p,
		service: NewOrderService(orders, newTestPricing(m, coupons), p, logger.NewNop()),
		coupon:  coupon,
	}
}

func TestOrderService_CreateOrder(t *testing.T) {
	f := newOrderFixture(nil)
	staff := uuid.New()

	order, created, err := f.service.CreateOrder(context.Background(), &CreateOrderInput{
		StaffID:       staff,
		Type:          enum.OrderTypeTakeaway,
		CustomerName:  "Sam",
		PaymentMethod: "card",
		Items: []CartItemInput{
			{ProductID: f.menu.wrap.ID, Quantity: 2, ModifierIDs: []uuid.UUID{f.menu.cheese.ID}},
			{ProductID: f.menu.drink.ID, Quantity: 1},
		},
		Discount: &DiscountInput{CouponCode: "tenoff"},
	})
	require.NoError(t, err)
	assert.True(t, created)

	assert.Equal(t, 1, order.OrderNumber)
	assert.Equal(t, enum.OrderStatusPending, order.Status)
	assert.Equal(t, staff, order.StaffID)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Chicken Wrap", order.Items[0].ProductName)
	assert.Equal(t, "7.49", order.Items[0].UnitPrice.StringFixed(2))
	require.Len(t, order.Items[0].Modifiers, 1)
	assert.Equal(t, "Extra cheese", order.Items[0].Modifiers[0].Name)

	// 16.98 - 1.698 = 15.282, tax 1.5282
	assert.Equal(t, "16.98", order.Subtotal.StringFixed(2))
	assert.Equal(t, "1.70", order.DiscountAmount.StringFixed(2))
	assert.Equal(t, "1.53", order.TaxAmount.StringFixed(2))
	assert.Equal(t, "16.81", order.Total.StringFixed(2))
	assert.Equal(t, "TENOFF", order.CouponCode)
	require.NotNil(t, order.CouponID)
	assert.Equal(t, f.coupon.ID, *order.CouponID)

	assert.Equal(t, 1, f.coupons.usage(f.coupon.ID))
	require.Len(t, f.printer.prints, 1)
	assert.Equal(t, PrintBoth, f.printer.prints[0].printType)
}

func TestOrderService_RetryWithSameIDRedeemsOnce(t *testing.T) {
	f := newOrderFixture(nil)
	id := uuid.New()
	input := &CreateOrderInput{
		ID:       &id,
		StaffID:  uuid.New(),
		Items:    []CartItemInput{{ProductID: f.menu.drink.ID, Quantity: 2}},
		Discount: &DiscountInput{CouponCode: "TENOFF"},
	}

	first, created, err := f.service.CreateOrder(context.Background(), input)
	require.NoError(t, err)
	require.True(t, created)

	for i := 0; i < 3; i++ {
		again, created, err := f.service.CreateOrder(context.Background(), input)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, first.ID, again.ID)
		assert.Equal(t, first.OrderNumber, again.OrderNumber)
	}

	assert.Equal(t, 1, f.coupons.usage(f.coupon.ID))
	assert.Len(t, f.printer.prints, 1, "retries do not print again")
	assert.Equal(t, 1, f.orders.creates)
}

func TestOrderService_CouponUsageLimit(t *testing.T) {
	limit := 1
	f := newOrderFixture(&limit)
	input := func() *CreateOrderInput {
		return &CreateOrderInput{
			StaffID:  uuid.New(),
			Items:    []CartItemInput{{ProductID: f.menu.drink.ID, Quantity: 1}},
			Discount: &DiscountInput{CouponCode: "TENOFF"},
		}
	}

	_, _, err := f.service.CreateOrder(context.Background(), input())
	require.NoError(t, err)

	_, _, err = f.service.CreateOrder(context.Background(), input())
	cerr, ok := pricing.AsCouponError(err)
	require.True(t, ok)
	assert.Equal(t, pricing.CouponErrorUsageLimitReached, cerr.Code)
	assert.Equal(t, 1, f.coupons.usage(f.coupon.ID))
	assert.Len(t, f.printer.prints, 1)
}

func TestOrderService_RejectedOrderIsNotStored(t *testing.T) {
	f := newOrderFixture(nil)

	_, _, err := f.service.CreateOrder(context.Background(), &CreateOrderInput{
		StaffID:  uuid.New(),
		Items:    []CartItemInput{{ProductID: f.menu.drink.ID, Quantity: 1}},
		Discount: &DiscountInput{Type: pricing.DiscountTypeFixed, Value: d("-3")},
	})
	require.Error(t, err)
	assert.True(t, pricing.IsValidation(err))
	assert.Equal(t, 0, f.orders.creates)
	assert.Empty(t, f.printer.prints)
}

func TestOrderService_PrintOptions(t *testing.T) {
	f := newOrderFixture(nil)
	items := []CartItemInput{{ProductID: f.menu.drink.ID, Quantity: 1}}

	_, _, err := f.service.CreateOrder(context.Background(), &CreateOrderInput{Items: items, SkipPrint: true})
	require.NoError(t, err)
	assert.Empty(t, f.printer.prints)

	_, _, err = f.service.CreateOrder(context.Background(), &CreateOrderInput{Items: items, PrintType: PrintKitchen})
	require.NoError(t, err)
	require.Len(t, f.printer.prints, 1)
	assert.Equal(t, PrintKitchen, f.printer.prints[0].printType)
}

func TestOrderService_UpdateStatus(t *testing.T) {
	f := newOrderFixture(nil)
	order, _, err := f.service.CreateOrder(context.Background(), &CreateOrderInput{
		Items: []CartItemInput{{ProductID: f.menu.drink.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	updated, err := f.service.UpdateStatus(context.Background(), order.ID, enum.OrderStatusPreparing)
	require.NoError(t, err)
	assert.Equal(t, enum.OrderStatusPreparing, updated.Status)

	_, err = f.service.UpdateStatus(context.Background(), order.ID, enum.OrderStatusConfirmed)
	assert.Equal(t, http.StatusUnprocessableEntity, apperror.GetAppError(err).Code)

	_, err = f.service.UpdateStatus(context.Background(), uuid.New(), enum.OrderStatusReady)
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)
}
