package services_test

import (
	"context"
	"fmt"
	"testing"

	"celenk/internal/models"
	"celenk/internal/repositories"
	"celenk/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPricingService_DistrictWinsOverCity(t *testing.T) {
	repo := new(MockPricingRepository)
	svc := services.NewPricingService(repo, newStubSettings(), nil)

	repo.On("FindByLocation", mock.Anything, "istanbul", "kadıköy").
		Return(&models.PricingEntry{ID: "d1", City: "İstanbul", District: "Kadıköy", BasePrice: dec("25"), IsActive: true}, nil).Once()

	quote, err := svc.ResolveShipping(context.Background(), "İstanbul", " Kadıköy ", false)
	require.NoError(t, err)
	assert.Equal(t, "25", quote.Amount.String())
	assert.Equal(t, models.ShippingFromDistrict, quote.Source)
	assert.Equal(t, "d1", quote.EntryID)
	repo.AssertExpectations(t)
}

func TestPricingService_InactiveDistrictFallsBackToCity(t *testing.T) {
	repo := new(MockPricingRepository)
	svc := services.NewPricingService(repo, newStubSettings(), nil)

	repo.On("FindByLocation", mock.Anything, "ankara", "çankaya").
		Return(&models.PricingEntry{ID: "d1", BasePrice: dec("10"), IsActive: false}, nil).Once()
	repo.On("FindByLocation", mock.Anything, "ankara", "").
		Return(&models.PricingEntry{ID: "c1", BasePrice: dec("40"), IsActive: true}, nil).Once()

	quote, err := svc.ResolveShipping(context.Background(), "Ankara", "Çankaya", false)
	require.NoError(t, err)
	assert.Equal(t, "40", quote.Amount.String())
	assert.Equal(t, models.ShippingFromCity, quote.Source)
	repo.AssertExpectations(t)
}

func TestPricingService_ExpressPrice(t *testing.T) {
	repo := new(MockPricingRepository)
	svc := services.NewPricingService(repo, newStubSettings(), nil)

	express := dec("75")
	repo.On("FindByLocation", mock.Anything, "izmir", "").
		Return(&models.PricingEntry{ID: "c1", BasePrice: dec("40"), ExpressPrice: &express, IsActive: true}, nil)

	quote, err := svc.ResolveShipping(context.Background(), "İzmir", "", true)
	require.NoError(t, err)
	assert.Equal(t, "75", quote.Amount.String())

	quote, err = svc.ResolveShipping(context.Background(), "İzmir", "", false)
	require.NoError(t, err)
	assert.Equal(t, "40", quote.Amount.String())
}

func TestPricingService_DefaultAndNone(t *testing.T) {
	repo := new(MockPricingRepository)
	settings := newStubSettings()
	svc := services.NewPricingService(repo, settings, nil)

	repo.On("FindByLocation", mock.Anything, "bursa", mock.Anything).Return(nil, notFound("pricing"))

	quote, err := svc.ResolveShipping(context.Background(), "Bursa", "Nilüfer", false)
	require.NoError(t, err)
	assert.True(t, quote.Amount.IsZero())
	assert.Equal(t, models.ShippingFromNone, quote.Source)

	settings.settings.Business.DefaultShippingCost = dec("30")
	quote, err = svc.ResolveShipping(context.Background(), "Bursa", "Nilüfer", false)
	require.NoError(t, err)
	assert.Equal(t, "30", quote.Amount.String())
	assert.Equal(t, models.ShippingFromDefault, quote.Source)
}

func TestPricingService_CreateEntry(t *testing.T) {
	repo := new(MockPricingRepository)
	svc := services.NewPricingService(repo, newStubSettings(), nil)
	ctx := context.Background()

	repo.On("FindByLocation", mock.Anything, "istanbul", "beşiktaş").Return(nil, notFound("pricing")).Once()
	repo.On("Create", mock.Anything, mock.AnythingOfType("*models.PricingEntry")).Return(nil).Once()

	entry := &models.PricingEntry{City: "İstanbul", District: "Beşiktaş", BasePrice: dec("35"), IsActive: true}
	require.NoError(t, svc.CreateEntry(ctx, entry))
	assert.Equal(t, "istanbul", entry.CityKey)
	assert.Equal(t, "beşiktaş", entry.DistrictKey)

	repo.On("FindByLocation", mock.Anything, "istanbul", "beşiktaş").
		Return(&models.PricingEntry{ID: "other"}, nil).Once()
	err := svc.CreateEntry(ctx, &models.PricingEntry{City: "istanbul", District: "BEŞİKTAŞ", BasePrice: dec("35")})
	assert.ErrorIs(t, err, services.ErrDuplicatePricing)

	err = svc.CreateEntry(ctx, &models.PricingEntry{City: "", BasePrice: dec("35")})
	assert.ErrorIs(t, err, services.ErrValidation)
	repo.AssertExpectations(t)
}

func TestPricingService_ConcurrentDuplicateIsReported(t *testing.T) {
	repo := new(MockPricingRepository)
	svc := services.NewPricingService(repo, newStubSettings(), nil)

	repo.On("FindByLocation", mock.Anything, "antalya", "").Return(nil, notFound("pricing")).Once()
	repo.On("Create", mock.Anything, mock.Anything).
		Return(fmt.Errorf("pricing for antalya/: %w", repositories.ErrConflict)).Once()

	err := svc.CreateEntry(context.Background(), &models.PricingEntry{City: "Antalya", BasePrice: dec("30"), IsActive: true})
	assert.ErrorIs(t, err, services.ErrDuplicatePricing)
	repo.AssertExpectations(t)
}
