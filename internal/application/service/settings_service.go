package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/sangkips/counterpos/internal/config"
	"github.com/sangkips/counterpos/internal/domain/entity"
	"github.com/sangkips/counterpos/internal/domain/repository"
	"github.com/sangkips/counterpos/internal/logger"
	"github.com/sangkips/counterpos/pkg/pricing"
	"github.com/sangkips/counterpos/pkg/receipt"
)

// AssetPaths is updated when the logo or QR image path changes.
type AssetPaths interface {
	SetPath(ref, path string)
}

// SettingsService handles the shop settings singleton
type SettingsService struct {
	settingsRepo repository.SettingsRepository
	assets       AssetPaths
	defaults     config.ShopConfig
	logger       *logger.Logger
}

// NewSettingsService creates a new settings service. assets may be nil.
func NewSettingsService(settingsRepo repository.SettingsRepository, assets AssetPaths, defaults config.ShopConfig, log *logger.Logger) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		assets:       assets,
		defaults:     defaults,
		logger:       log.Named("settings"),
	}
}

// GetSettings retrieves the shop settings, falling back to the configured
// defaults when the row has not been seeded
func (s *SettingsService) GetSettings(ctx context.Context) (*entity.ShopSettings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		settings = &entity.ShopSettings{
			ID:             entity.ShopSettingsID,
			Name:           s.defaults.Name,
			Address:        s.defaults.Address,
			Phone:          s.defaults.Phone,
			VATNumber:      s.defaults.VATNumber,
			TaxRate:        s.defaults.TaxRate,
			TaxLabel:       s.defaults.TaxLabel,
			CurrencySymbol: s.defaults.CurrencySymbol,
			Footer:         s.defaults.Footer,
		}
	}
	return settings, nil
}

// UpdateSettingsInput represents the input for updating settings. Nil fields
// are left unchanged.
type UpdateSettingsInput struct {
	Name           *string
	Address        *string
	Phone          *string
	VATNumber      *string
	TaxRate        *decimal.Decimal
	TaxLabel       *string
	CurrencySymbol *string
	Footer         *string
	LogoPath       *string
	QRPath         *string
}

// UpdateSettings updates the shop settings
func (s *SettingsService) UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*entity.ShopSettings, error) {
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	if input.TaxRate != nil {
		if err := pricing.ValidateTaxRate(*input.TaxRate); err != nil {
			return nil, err
		}
		settings.TaxRate = *input.TaxRate
	}

	setString(&settings.Name, input.Name)
	setString(&settings.Address, input.Address)
	setString(&settings.Phone, input.Phone)
	setString(&settings.VATNumber, input.VATNumber)
	setString(&settings.TaxLabel, input.TaxLabel)
	setString(&settings.CurrencySymbol, input.CurrencySymbol)
	setString(&settings.Footer, input.Footer)

	logoChanged := setString(&settings.LogoPath, input.LogoPath)
	qrChanged := setString(&settings.QRPath, input.QRPath)

	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		return nil, err
	}

	if s.assets != nil {
		if logoChanged {
			s.assets.SetPath(receipt.RefLogo, settings.LogoPath)
		}
		if qrChanged {
			s.assets.SetPath(receipt.RefQR, settings.QRPath)
		}
	}

	s.logger.Infow("shop settings updated", "name", settings.Name, "tax_rate", settings.TaxRate.String())
	return settings, nil
}

// Shop returns the settings as printed on customer receipts
func (s *SettingsService) Shop(ctx context.Context) (receipt.Shop, error) {
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return receipt.Shop{}, err
	}
	return receipt.Shop{
		Name:           settings.Name,
		Address:        settings.Address,
		Phone:          settings.Phone,
		VATNumber:      settings.VATNumber,
		TaxLabel:       settings.TaxLabel,
		CurrencySymbol: settings.CurrencySymbol,
		Footer:         settings.Footer,
	}, nil
}

// TaxRate returns the percentage applied to new orders
func (s *SettingsService) TaxRate(ctx context.Context) (decimal.Decimal, error) {
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return settings.TaxRate, nil
}

// setString assigns *src to *dst and reports whether the value changed.
func setString(dst *string, src *string) bool {
	if src == nil || *dst == *src {
		return false
	}
	*dst = *src
	return true
}
