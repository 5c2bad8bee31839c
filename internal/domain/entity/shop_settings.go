package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShopSettingsID is the primary key of the single settings row
const ShopSettingsID = 1

// ShopSettings holds the shop details printed on receipts and the tax rate
// applied to new orders. There is exactly one row.
type ShopSettings struct {
	ID             uint            `gorm:"primary_key" json:"-"`
	Name           string          `gorm:"size:255;not null" json:"name"`
	Address        string          `gorm:"type:text" json:"address"`
	Phone          string          `gorm:"size:50" json:"phone"`
	VATNumber      string          `gorm:"size:50" json:"vat_number"`
	TaxRate        decimal.Decimal `gorm:"type:numeric(5,2);default:0" json:"tax_rate"`
	TaxLabel       string          `gorm:"size:50;default:'Tax'" json:"tax_label"`
	CurrencySymbol string          `gorm:"size:10;default:'$'" json:"currency_symbol"`
	Footer         string          `gorm:"type:text" json:"footer"`
	LogoPath       string          `gorm:"size:255" json:"logo_path"`
	QRPath         string          `gorm:"size:255" json:"qr_path"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// TableName returns the table name for the ShopSettings model
func (ShopSettings) TableName() string {
	return "shop_settings"
}
