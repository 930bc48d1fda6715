package services

import (
	"context"
	"errors"
	"fmt"

	"celenk/internal/logging"
	"celenk/internal/models"
	"celenk/internal/repositories"
	"celenk/internal/textutil"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ShippingResolver quotes the delivery fee for a recipient location.
type ShippingResolver interface {
	ResolveShipping(ctx context.Context, city, district string, express bool) (models.ShippingQuote, error)
}

// PricingService manages delivery pricing entries and resolves shipping.
type PricingService struct {
	repo     repositories.PricingRepository
	settings SettingsProvider
	validate *validator.Validate
	logger   *zap.Logger
}

// NewPricingService creates a new PricingService.
func NewPricingService(repo repositories.PricingRepository, settings SettingsProvider, logger *zap.Logger) *PricingService {
	return &PricingService{
		repo:     repo,
		settings: settings,
		validate: NewValidator(),
		logger:   logging.OrNop(logger),
	}
}

// ResolveShipping picks, in order: the active district entry, the active city
// entry, the settings default, and finally zero.
func (s *PricingService) ResolveShipping(ctx context.Context, city, district string, express bool) (models.ShippingQuote, error) {
	cityKey := textutil.Key(city)
	districtKey := textutil.Key(district)

	if cityKey != "" && districtKey != "" {
		entry, err := s.activeEntry(ctx, cityKey, districtKey)
		if err != nil {
			return models.ShippingQuote{}, err
		}
		if entry != nil {
			return quoteFrom(entry, express), nil
		}
	}

	if cityKey != "" {
		entry, err := s.activeEntry(ctx, cityKey, "")
		if err != nil {
			return models.ShippingQuote{}, err
		}
		if entry != nil {
			return quoteFrom(entry, express), nil
		}
	}

	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return models.ShippingQuote{}, fmt.Errorf("load settings for shipping: %w", err)
	}
	if settings.Business.DefaultShippingCost.IsPositive() {
		return models.ShippingQuote{
			Amount: models.RoundMoney(settings.Business.DefaultShippingCost),
			Source: models.ShippingFromDefault,
		}, nil
	}
	return models.ShippingQuote{Amount: decimal.Zero, Source: models.ShippingFromNone}, nil
}

func (s *PricingService) activeEntry(ctx context.Context, cityKey, districtKey string) (*models.PricingEntry, error) {
	entry, err := s.repo.FindByLocation(ctx, cityKey, districtKey)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve shipping: %w", err)
	}
	if !entry.IsActive {
		return nil, nil
	}
	return entry, nil
}

func quoteFrom(entry *models.PricingEntry, express bool) models.ShippingQuote {
	source := models.ShippingFromCity
	if entry.IsDistrictScoped() {
		source = models.ShippingFromDistrict
	}
	amount := entry.BasePrice
	if express && entry.ExpressPrice != nil {
		amount = *entry.ExpressPrice
	}
	return models.ShippingQuote{Amount: models.RoundMoney(amount), Source: source, EntryID: entry.ID}
}

// ListEntries returns every entry, or only those of city when given.
func (s *PricingService) ListEntries(ctx context.Context, city string) ([]models.PricingEntry, error) {
	return s.repo.GetAll(ctx, textutil.Key(city))
}

// GetEntry returns one entry.
func (s *PricingService) GetEntry(ctx context.Context, id string) (*models.PricingEntry, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateEntry validates and stores a new entry; one entry per location.
func (s *PricingService) CreateEntry(ctx context.Context, entry *models.PricingEntry) error {
	if err := s.prepare(entry); err != nil {
		return err
	}
	if err := s.ensureUnique(ctx, entry); err != nil {
		return err
	}
	return duplicateAsPricingError(s.repo.Create(ctx, entry))
}

// UpdateEntry overwrites an existing entry.
func (s *PricingService) UpdateEntry(ctx context.Context, entry *models.PricingEntry) error {
	if err := s.prepare(entry); err != nil {
		return err
	}
	if err := s.ensureUnique(ctx, entry); err != nil {
		return err
	}
	return duplicateAsPricingError(s.repo.Update(ctx, entry))
}

// duplicateAsPricingError reports a unique-key conflict lost to a concurrent
// write the same way ensureUnique does.
func duplicateAsPricingError(err error) error {
	if errors.Is(err, repositories.ErrConflict) {
		return fmt.Errorf("%w: %v", ErrDuplicatePricing, err)
	}
	return err
}

// DeleteEntry removes an entry.
func (s *PricingService) DeleteEntry(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *PricingService) prepare(entry *models.PricingEntry) error {
	if err := validateStruct(s.validate, entry); err != nil {
		return err
	}
	if entry.ExpressPrice != nil && entry.ExpressPrice.IsNegative() {
		return fieldError("expressPrice", "must not be negative")
	}
	entry.CityKey = textutil.Key(entry.City)
	entry.DistrictKey = textutil.Key(entry.District)
	return nil
}

func (s *PricingService) ensureUnique(ctx context.Context, entry *models.PricingEntry) error {
	existing, err := s.repo.FindByLocation(ctx, entry.CityKey, entry.DistrictKey)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != entry.ID {
		return ErrDuplicatePricing
	}
	return nil
}
