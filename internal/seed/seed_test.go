package seed_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"celenk/internal/repositories"
	"celenk/internal/seed"
	"celenk/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedYAML = `
products:
  - name: Açılış Çelengi
    price: 250
    category: [acilis, celenk]
    inStock: true
    images:
      - https://img.example/acilis.jpg
  - name: Cenaze Çelengi
    price: "300.50"
    category: [cenaze]
    inStock: true
pricing:
  - city: İstanbul
    basePrice: 40
    isActive: true
  - city: İstanbul
    district: Kadıköy
    basePrice: 25
    expressPrice: 60
    isActive: true
settings:
  contact:
    whatsapp: "05321112233"
  business:
    defaultShippingCost: 50
    bankTransfer:
      bankName: Ziraat
      iban: TR000000
`

func TestParse(t *testing.T) {
	f, err := seed.Parse([]byte(seedYAML))
	require.NoError(t, err)

	require.Len(t, f.Products, 2)
	assert.Equal(t, []string{"acilis", "celenk"}, f.Products[0].Category)
	assert.Equal(t, "300.5", f.Products[1].Price.String())
	require.Len(t, f.Pricing, 2)
	require.NotNil(t, f.Pricing[1].ExpressPrice)
	assert.Equal(t, "60", f.Pricing[1].ExpressPrice.String())
	require.NotNil(t, f.Settings)
	assert.Equal(t, "50", f.Settings.Business.DefaultShippingCost.String())
	assert.Equal(t, "TR000000", f.Settings.Business.BankTransfer.IBAN)
	assert.NotEmpty(t, f.Settings.Theme.PrimaryColor, "unset sections keep their defaults")
}

func TestSeeder_ApplyIsIdempotent(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := repositories.OpenDatabase("sqlite", dsn)
	require.NoError(t, err)
	require.NoError(t, repositories.Migrate(db))

	settingsService := services.NewSettingsService(repositories.NewGORMSettingsRepository(db), nil)
	pricingService := services.NewPricingService(repositories.NewGORMPricingRepository(db), settingsService, nil)
	productService := services.NewProductService(repositories.NewGORMProductRepository(db), nil)
	seeder := seed.NewSeeder(productService, pricingService, settingsService, nil)

	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o600))
	f, err := seed.Load(path)
	require.NoError(t, err)

	ctx := context.Background()
	res, err := seeder.Apply(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, seed.Result{Products: 2, Pricing: 2, Settings: true}, res)

	res, err = seeder.Apply(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, seed.Result{}, res)

	quote, err := pricingService.ResolveShipping(ctx, "istanbul", "KADIKÖY", true)
	require.NoError(t, err)
	assert.Equal(t, "60", quote.Amount.String())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := seed.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
