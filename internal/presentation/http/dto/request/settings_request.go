package request

import "github.com/shopspring/decimal"

// UpdateSettingsRequest represents a partial shop settings update
type UpdateSettingsRequest struct {
	Name           *string          `json:"name" binding:"omitempty,min=1,max=255"`
	Address        *string          `json:"address"`
	Phone          *string          `json:"phone" binding:"omitempty,max=50"`
	VATNumber      *string          `json:"vat_number" binding:"omitempty,max=50"`
	TaxRate        *decimal.Decimal `json:"tax_rate"`
	TaxLabel       *string          `json:"tax_label" binding:"omitempty,max=20"`
	CurrencySymbol *string          `json:"currency_symbol" binding:"omitempty,max=8"`
	Footer         *string          `json:"footer"`
	LogoPath       *string          `json:"logo_path"`
	QRPath         *string          `json:"qr_path"`
}
