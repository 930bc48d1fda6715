package repositories

import (
	"context"
	"errors"
	"fmt"

	"celenk/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PricingRepository defines the interface for delivery pricing entries.
type PricingRepository interface {
	GetAll(ctx context.Context, cityKey string) ([]models.PricingEntry, error)
	GetByID(ctx context.Context, id string) (*models.PricingEntry, error)
	// FindByLocation returns the entry for exactly (cityKey, districtKey);
	// an empty districtKey selects the city-scoped entry.
	FindByLocation(ctx context.Context, cityKey, districtKey string) (*models.PricingEntry, error)
	Create(ctx context.Context, entry *models.PricingEntry) error
	Update(ctx context.Context, entry *models.PricingEntry) error
	Delete(ctx context.Context, id string) error
}

// GORMPricingRepository is a GORM implementation of PricingRepository.
type GORMPricingRepository struct {
	db *gorm.DB
}

// NewGORMPricingRepository creates a new instance of GORMPricingRepository.
func NewGORMPricingRepository(db *gorm.DB) *GORMPricingRepository {
	return &GORMPricingRepository{db: db}
}

// GetAll lists entries ordered by city then district, optionally for one city.
func (r *GORMPricingRepository) GetAll(ctx context.Context, cityKey string) ([]models.PricingEntry, error) {
	q := r.db.WithContext(ctx)
	if cityKey != "" {
		q = q.Where("city_key = ?", cityKey)
	}
	var entries []models.PricingEntry
	if err := q.Order("city_key, district_key").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to get pricing entries: %w", err)
	}
	return entries, nil
}

// GetByID retrieves a single entry.
func (r *GORMPricingRepository) GetByID(ctx context.Context, id string) (*models.PricingEntry, error) {
	var entry models.PricingEntry
	if err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("pricing entry %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get pricing entry %s: %w", id, err)
	}
	return &entry, nil
}

// FindByLocation looks up the entry scoped exactly to the given keys.
func (r *GORMPricingRepository) FindByLocation(ctx context.Context, cityKey, districtKey string) (*models.PricingEntry, error) {
	var entry models.PricingEntry
	err := r.db.WithContext(ctx).
		Where("city_key = ? AND district_key = ?", cityKey, districtKey).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("pricing for %s/%s: %w", cityKey, districtKey, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find pricing for %s/%s: %w", cityKey, districtKey, err)
	}
	return &entry, nil
}

// Create stores a new entry.
func (r *GORMPricingRepository) Create(ctx context.Context, entry *models.PricingEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("pricing for %s/%s: %w", entry.CityKey, entry.DistrictKey, ErrConflict)
		}
		return fmt.Errorf("failed to create pricing entry: %w", err)
	}
	return nil
}

// Update overwrites an entry.
func (r *GORMPricingRepository) Update(ctx context.Context, entry *models.PricingEntry) error {
	res := r.db.WithContext(ctx).Model(&models.PricingEntry{ID: entry.ID}).
		Select("city", "district", "city_key", "district_key", "base_price", "express_price", "is_active").
		Updates(entry)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("pricing for %s/%s: %w", entry.CityKey, entry.DistrictKey, ErrConflict)
		}
		return fmt.Errorf("failed to update pricing entry %s: %w", entry.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("pricing entry %s: %w", entry.ID, ErrNotFound)
	}
	return nil
}

// Delete removes an entry.
func (r *GORMPricingRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.PricingEntry{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete pricing entry %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("pricing entry %s: %w", id, ErrNotFound)
	}
	return nil
}
