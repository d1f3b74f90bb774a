package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/festory/festory/internal/festival"
)

// ErrUnknownRegion is returned when the requested region label is not in the
// region catalog.
var ErrUnknownRegion = errors.New("weather: unknown region")

// Provider fetches current conditions for a coordinate pair.
type Provider interface {
	Current(ctx context.Context, region string, lat, lon float64) (Report, error)
}

// Service resolves region labels to coordinates and caches provider answers.
type Service struct {
	provider Provider
	cache    *reportCache
	logger   *slog.Logger
}

// NewService constructs a weather service around the provider. Reports are
// cached per region for the given TTL.
func NewService(provider Provider, ttl time.Duration, now func() time.Time, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		provider: provider,
		cache:    newReportCache(ttl, 0, now),
		logger:   logger,
	}
}

// CurrentByRegion returns the current weather for a region label from the
// region catalog, serving cached reports while they are fresh.
func (s *Service) CurrentByRegion(ctx context.Context, label string) (Report, error) {
	if s == nil || s.provider == nil {
		return Report{}, fmt.Errorf("weather service not configured")
	}

	region, ok := festival.RegionByLabel(label)
	if !ok {
		return Report{}, fmt.Errorf("%w: %q", ErrUnknownRegion, label)
	}

	if report, ok := s.cache.Get(region.Label); ok {
		return report, nil
	}

	report, err := s.provider.Current(ctx, region.Label, region.Latitude, region.Longitude)
	if err != nil {
		return Report{}, err
	}
	s.cache.Store(region.Label, report)
	return report, nil
}
