// Package seed loads initial catalog, pricing and settings data from a YAML
// file whose keys mirror the JSON API.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"celenk/internal/logging"
	"celenk/internal/models"
	"celenk/internal/services"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// File is the decoded seed document.
type File struct {
	Products []models.Product
	Pricing  []models.PricingEntry
	Settings *models.SiteSettings
}

type rawFile struct {
	Products []map[string]any `yaml:"products"`
	Pricing  []map[string]any `yaml:"pricing"`
	Settings map[string]any   `yaml:"settings"`
}

// Load reads and parses the seed file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a seed document. Each entry goes through the JSON decoding
// of its model, so field names and money values match the API.
func Parse(data []byte) (*File, error) {
	var raw rawFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	f := &File{}
	if err := convert(raw.Products, &f.Products); err != nil {
		return nil, fmt.Errorf("seed products: %w", err)
	}
	if err := convert(raw.Pricing, &f.Pricing); err != nil {
		return nil, fmt.Errorf("seed pricing: %w", err)
	}
	if raw.Settings != nil {
		settings := models.DefaultSiteSettings()
		if err := convert(raw.Settings, &settings); err != nil {
			return nil, fmt.Errorf("seed settings: %w", err)
		}
		f.Settings = &settings
	}
	return f, nil
}

func convert(in, out any) error {
	if in == nil {
		return nil
	}
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// Result counts what Apply inserted.
type Result struct {
	Products int
	Pricing  int
	Settings bool
}

// Seeder applies a seed file through the services, skipping records that
// already exist: products by name, pricing by location, settings when saved.
type Seeder struct {
	products *services.ProductService
	pricing  *services.PricingService
	settings *services.SettingsService
	logger   *zap.Logger
}

// NewSeeder creates a Seeder.
func NewSeeder(products *services.ProductService, pricing *services.PricingService, settings *services.SettingsService, logger *zap.Logger) *Seeder {
	return &Seeder{products: products, pricing: pricing, settings: settings, logger: logging.OrNop(logger)}
}

// Apply inserts the missing records of f.
func (s *Seeder) Apply(ctx context.Context, f *File) (Result, error) {
	var res Result

	existing, err := s.products.GetAllProducts(ctx, services.ProductFilter{})
	if err != nil {
		return res, err
	}
	names := make(map[string]bool, len(existing))
	for _, p := range existing {
		names[p.Name] = true
	}
	for i := range f.Products {
		product := f.Products[i]
		if names[product.Name] {
			continue
		}
		if err := s.products.CreateProduct(ctx, &product); err != nil {
			return res, fmt.Errorf("seed product %q: %w", product.Name, err)
		}
		names[product.Name] = true
		res.Products++
	}

	for i := range f.Pricing {
		entry := f.Pricing[i]
		entry.ID = ""
		err := s.pricing.CreateEntry(ctx, &entry)
		if errors.Is(err, services.ErrDuplicatePricing) {
			continue
		}
		if err != nil {
			return res, fmt.Errorf("seed pricing %s/%s: %w", entry.City, entry.District, err)
		}
		res.Pricing++
	}

	if f.Settings != nil {
		seeded, err := s.settings.SeedSettings(ctx, f.Settings)
		if err != nil {
			return res, fmt.Errorf("seed settings: %w", err)
		}
		res.Settings = seeded
	}

	s.logger.Info("seed applied",
		zap.Int("products", res.Products),
		zap.Int("pricing", res.Pricing),
		zap.Bool("settings", res.Settings))
	return res, nil
}
