package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sangkips/counterpos/internal/domain/enum"
	"github.com/sangkips/counterpos/pkg/pricing"
)

// Order represents a priced, committed order
type Order struct {
	// ID may be supplied by the till so that retries resolve to the same order.
	ID             uuid.UUID            `gorm:"type:uuid;primary_key" json:"id"`
	OrderNumber    int                  `gorm:"autoIncrement;uniqueIndex;not null" json:"order_number"`
	StaffID        uuid.UUID            `gorm:"type:uuid;not null;index" json:"staff_id"`
	Type           enum.OrderType       `gorm:"default:0" json:"order_type"`
	Status         enum.OrderStatus     `gorm:"default:0;index" json:"status"`
	CustomerName   string               `gorm:"size:255" json:"customer_name,omitempty"`
	CustomerPhone  string               `gorm:"size:50" json:"customer_phone,omitempty"`
	Notes          string               `gorm:"type:text" json:"notes,omitempty"`
	PaymentMethod  string               `gorm:"size:50" json:"payment_method"`
	Subtotal       decimal.Decimal      `gorm:"type:numeric(12,2);not null" json:"subtotal"`
	DiscountType   pricing.DiscountType `gorm:"size:20" json:"discount_type,omitempty"`
	DiscountValue  decimal.Decimal      `gorm:"type:numeric(12,2);default:0" json:"discount_value"`
	DiscountAmount decimal.Decimal      `gorm:"type:numeric(12,2);default:0" json:"discount_amount"`
	CouponID       *uuid.UUID           `gorm:"type:uuid;index" json:"coupon_id,omitempty"`
	CouponCode     string               `gorm:"size:50" json:"coupon_code,omitempty"`
	TaxRate        decimal.Decimal      `gorm:"type:numeric(5,2);default:0" json:"tax_rate"`
	TaxAmount      decimal.Decimal      `gorm:"type:numeric(12,2);default:0" json:"tax_amount"`
	Total          decimal.Decimal      `gorm:"type:numeric(12,2);not null" json:"total"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
	DeletedAt      gorm.DeletedAt       `gorm:"index" json:"-"`

	// Relationships
	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new order
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// ApplyPricing copies the rounded amounts of a priced order onto o
func (o *Order) ApplyPricing(p pricing.PricedOrder) {
	r := p.Rounded()
	o.Subtotal = r.Subtotal
	o.DiscountAmount = r.DiscountAmount
	o.TaxRate = r.TaxRate
	o.TaxAmount = r.TaxAmount
	o.Total = r.Total
}

// ItemCount returns the total quantity across all lines
func (o *Order) ItemCount() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

// OrderItem represents a line item in an order. Prices are captured at
// order time so later menu changes do not alter the order.
type OrderItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName string          `gorm:"size:255;not null" json:"product_name"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	TotalPrice  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_price"`
	Notes       string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Relationships
	Modifiers []OrderItemModifier `gorm:"foreignKey:OrderItemID" json:"modifiers,omitempty"`
}

// BeforeCreate generates a UUID before creating a new order item
func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// OrderItemModifier is a modifier captured on an order line
type OrderItemModifier struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	OrderItemID uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_item_id"`
	ModifierID  uuid.UUID       `gorm:"type:uuid" json:"modifier_id"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);default:0" json:"price"`
}

// BeforeCreate generates a UUID before creating a new item modifier
func (m *OrderItemModifier) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the OrderItemModifier model
func (OrderItemModifier) TableName() string {
	return "order_item_modifiers"
}
