package service

import (
	"context"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"agro-analytics/internal/domain"
	"agro-analytics/internal/repository"
	"agro-analytics/internal/weather"
)

const (
	defaultHistoryLimit = 7
	maxHistoryLimit     = 100
)

// WeatherService reenvia consultas al proveedor y guarda un historico de lecturas.
type WeatherService struct {
	logger    *zap.Logger
	client    weather.Client
	snapshots repository.WeatherSnapshotRepository
	tasks     *taskRunner
}

func NewWeatherService(logger *zap.Logger, client weather.Client, snapshots repository.WeatherSnapshotRepository) *WeatherService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WeatherService{
		logger:    logger,
		client:    client,
		snapshots: snapshots,
		tasks:     newTaskRunner(logger, 0),
	}
}

// ParseCoordinates valida lat/lon recibidos como texto.
func ParseCoordinates(latRaw, lonRaw string) (float64, float64, error) {
	latRaw = strings.TrimSpace(latRaw)
	lonRaw = strings.TrimSpace(lonRaw)
	if latRaw == "" || lonRaw == "" {
		return 0, 0, ErrInvalidInput
	}
	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil || math.IsNaN(lat) || lat < -90 || lat > 90 {
		return 0, 0, ErrInvalidInput
	}
	lon, err := strconv.ParseFloat(lonRaw, 64)
	if err != nil || math.IsNaN(lon) || lon < -180 || lon > 180 {
		return 0, 0, ErrInvalidInput
	}
	return lat, lon, nil
}

// Current devuelve el clima actual y guarda un snapshot sin esperar al insert.
func (s *WeatherService) Current(ctx context.Context, lat, lon float64) (domain.CurrentWeather, error) {
	current, err := s.client.Current(ctx, lat, lon)
	if err != nil {
		return domain.CurrentWeather{}, upstreamErr("fetch current weather", err)
	}

	if s.snapshots != nil {
		snapshot := domain.SnapshotFromCurrent(current)
		s.tasks.Go(ctx, "store weather snapshot", func(ctx context.Context) error {
			return s.snapshots.Create(ctx, snapshot)
		}, zap.String("location", snapshot.Location))
	}
	return current, nil
}

func (s *WeatherService) Forecast(ctx context.Context, lat, lon float64) ([]domain.ForecastSample, error) {
	samples, err := s.client.Forecast(ctx, lat, lon)
	if err != nil {
		return nil, upstreamErr("fetch forecast", err)
	}
	return samples, nil
}

func (s *WeatherService) Geocode(ctx context.Context, query string) ([]domain.Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrInvalidInput
	}
	places, err := s.client.Geocode(ctx, query)
	if err != nil {
		return nil, upstreamErr("geocode", err)
	}
	return places, nil
}

// History lista los snapshots guardados para una ubicacion, del mas reciente al mas antiguo.
func (s *WeatherService) History(ctx context.Context, location string, limit int) ([]domain.WeatherSnapshot, error) {
	location = strings.TrimSpace(location)
	if location == "" || limit < 0 {
		return nil, ErrInvalidInput
	}
	if limit == 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	snapshots, err := s.snapshots.ListByLocation(ctx, location, limit)
	if err != nil {
		return nil, storageErr("list weather snapshots", err)
	}
	return snapshots, nil
}

func (s *WeatherService) Wait() {
	s.tasks.Wait()
}
