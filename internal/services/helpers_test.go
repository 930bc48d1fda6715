package services_test

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"celenk/internal/models"
	"celenk/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type stubSettings struct {
	settings models.SiteSettings
	err      error
}

func newStubSettings() *stubSettings {
	return &stubSettings{settings: models.DefaultSiteSettings()}
}

func (s *stubSettings) GetSettings(_ context.Context) (*models.SiteSettings, error) {
	if s.err != nil {
		return nil, s.err
	}
	copied := s.settings
	return &copied, nil
}

type stubShipping struct {
	quote models.ShippingQuote
	err   error
}

func (s stubShipping) ResolveShipping(_ context.Context, _, _ string, _ bool) (models.ShippingQuote, error) {
	return s.quote, s.err
}

// recordingNotifier counts OrderPlaced calls.
type recordingNotifier struct {
	mu     sync.Mutex
	orders []string
}

func (n *recordingNotifier) OrderPlaced(_ context.Context, order *models.Order) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.orders = append(n.orders, order.OrderNumber)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.orders)
}

type failingEmail struct {
	mu    sync.Mutex
	calls int
}

func (f *failingEmail) Send(_ context.Context, _ string, _ map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return errors.New("emailjs: 503 service unavailable")
}

// MockPricingRepository is a mock implementation of repositories.PricingRepository.
type MockPricingRepository struct {
	mock.Mock
}

func (m *MockPricingRepository) GetAll(ctx context.Context, cityKey string) ([]models.PricingEntry, error) {
	args := m.Called(ctx, cityKey)
	return args.Get(0).([]models.PricingEntry), args.Error(1)
}

func (m *MockPricingRepository) GetByID(ctx context.Context, id string) (*models.PricingEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PricingEntry), args.Error(1)
}

func (m *MockPricingRepository) FindByLocation(ctx context.Context, cityKey, districtKey string) (*models.PricingEntry, error) {
	args := m.Called(ctx, cityKey, districtKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PricingEntry), args.Error(1)
}

func (m *MockPricingRepository) Create(ctx context.Context, entry *models.PricingEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockPricingRepository) Update(ctx context.Context, entry *models.PricingEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockPricingRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func notFound(what string) error {
	return fmt.Errorf("%s: %w", what, repositories.ErrNotFound)
}
