package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/sangkips/counterpos/internal/application/service"
	"github.com/sangkips/counterpos/internal/presentation/http/dto/request"
	"github.com/sangkips/counterpos/internal/presentation/http/middleware"
	"github.com/sangkips/counterpos/pkg/pricing"
)

// GetStaffID extracts the signed-in staff ID from the Gin context
func GetStaffID(c *gin.Context) *uuid.UUID {
	value, exists := c.Get(middleware.StaffIDKey)
	if !exists {
		return nil
	}
	staffID, ok := value.(uuid.UUID)
	if !ok {
		return nil
	}
	return &staffID
}

// GetStaffRoles extracts the staff roles from the Gin context
func GetStaffRoles(c *gin.Context) []string {
	roles, exists := c.Get(middleware.StaffRolesKey)
	if !exists {
		return nil
	}
	list, _ := roles.([]string)
	return list
}

// paramUUID parses a path parameter
func paramUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	return id, err == nil
}

func toCartItems(items []request.CartItemRequest) []service.CartItemInput {
	return lo.Map(items, func(i request.CartItemRequest, _ int) service.CartItemInput {
		return service.CartItemInput{
			ProductID:   i.ProductID,
			Quantity:    i.Quantity,
			ModifierIDs: i.ModifierIDs,
			Note:        i.Note,
		}
	})
}

func toDiscount(d *request.DiscountRequest) *service.DiscountInput {
	if d == nil {
		return nil
	}
	return &service.DiscountInput{
		Type:       pricing.DiscountType(d.Type),
		Value:      d.Value,
		CouponCode: d.CouponCode,
	}
}
