package services

import (
	"context"
	"errors"
	"fmt"

	"celenk/internal/logging"
	"celenk/internal/models"
	"celenk/internal/repositories"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// SettingsProvider is the read side of the settings store used by checkout.
type SettingsProvider interface {
	GetSettings(ctx context.Context) (*models.SiteSettings, error)
}

// SettingsService reads and replaces the singleton site settings.
type SettingsService struct {
	repo     repositories.SettingsRepository
	validate *validator.Validate
	logger   *zap.Logger
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(repo repositories.SettingsRepository, logger *zap.Logger) *SettingsService {
	return &SettingsService{
		repo:     repo,
		validate: NewValidator(),
		logger:   logging.OrNop(logger),
	}
}

// GetSettings returns the stored settings, or the defaults when none were saved yet.
func (s *SettingsService) GetSettings(ctx context.Context) (*models.SiteSettings, error) {
	settings, err := s.repo.Get(ctx)
	if errors.Is(err, repositories.ErrNotFound) {
		defaults := models.DefaultSiteSettings()
		return &defaults, nil
	}
	if err != nil {
		return nil, err
	}
	if settings.Business.BlockedOrderDates == nil {
		settings.Business.BlockedOrderDates = []models.BlockedDateRange{}
	}
	return settings, nil
}

// UpdateSettings replaces the whole settings document.
func (s *SettingsService) UpdateSettings(ctx context.Context, settings *models.SiteSettings) error {
	if err := validateStruct(s.validate, settings); err != nil {
		return err
	}
	for i, r := range settings.Business.BlockedOrderDates {
		if r.StartDate > r.EndDate {
			return fieldError(fmt.Sprintf("business.blockedOrderDates[%d]", i), "startDate is after endDate")
		}
	}
	if settings.Business.BlockedOrderDates == nil {
		settings.Business.BlockedOrderDates = []models.BlockedDateRange{}
	}

	if err := s.repo.Save(ctx, settings); err != nil {
		return err
	}
	s.logger.Info("site settings updated", zap.Int("blocked_ranges", len(settings.Business.BlockedOrderDates)))
	return nil
}

// SeedSettings stores settings only when nothing has been saved yet.
func (s *SettingsService) SeedSettings(ctx context.Context, settings *models.SiteSettings) (bool, error) {
	if _, err := s.repo.Get(ctx); err == nil {
		return false, nil
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return false, err
	}
	if err := s.UpdateSettings(ctx, settings); err != nil {
		return false, err
	}
	return true, nil
}
