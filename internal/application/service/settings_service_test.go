package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/counterpos/internal/domain/entity"
	"github.com/sangkips/counterpos/internal/logger"
	"github.com/sangkips/counterpos/pkg/pricing"
	"github.com/sangkips/counterpos/pkg/receipt"
)

type recordingAssets struct {
	paths map[string]string
}

func (a *recordingAssets) SetPath(ref, path string) {
	a.paths[ref] = path
}

func TestSettingsService_DefaultsBeforeSeed(t *testing.T) {
	s := newTestSettings(nil)

	settings, err := s.GetSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Corner Grill", settings.Name)
	assert.Equal(t, "10", settings.TaxRate.String())

	shop, err := s.Shop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "VAT", shop.TaxLabel)
	assert.Equal(t, "Thanks!", shop.Footer)
}

func TestSettingsService_UpdateSettings(t *testing.T) {
	repo := &fakeSettingsRepo{settings: &entity.ShopSettings{
		ID:       entity.ShopSettingsID,
		Name:     "Old Name",
		TaxRate:  d("5"),
		LogoPath: "/srv/logo.png",
	}}
	assets := &recordingAssets{paths: map[string]string{}}
	s := NewSettingsService(repo, assets, testShopConfig(), logger.NewNop())

	name := "Corner Grill"
	rate := d("8.5")
	sameLogo := "/srv/logo.png"
	qr := "/srv/qr.png"

	settings, err := s.UpdateSettings(context.Background(), &UpdateSettingsInput{
		Name:     &name,
		TaxRate:  &rate,
		LogoPath: &sameLogo,
		QRPath:   &qr,
	})
	require.NoError(t, err)
	assert.Equal(t, "Corner Grill", settings.Name)
	assert.Equal(t, 1, repo.saves)
	assert.Equal(t, map[string]string{receipt.RefQR: "/srv/qr.png"}, assets.paths)

	taxRate, err := s.TaxRate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "8.5", taxRate.String())
}

func TestSettingsService_RejectsNegativeTax(t *testing.T) {
	repo := &fakeSettingsRepo{}
	s := newTestSettings(repo)
	rate := d("-1")

	_, err := s.UpdateSettings(context.Background(), &UpdateSettingsInput{TaxRate: &rate})
	require.Error(t, err)
	assert.True(t, pricing.IsValidation(err))
	assert.Equal(t, 0, repo.saves)
}
