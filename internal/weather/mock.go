package weather

import (
	"context"

	"agro-analytics/internal/domain"
)

// MockClient permite tests sin llamar al proveedor real.
type MockClient struct {
	CurrentResp  domain.CurrentWeather
	ForecastResp []domain.ForecastSample
	Places       []domain.Place
	Err          error
}

func (m *MockClient) Current(_ context.Context, _, _ float64) (domain.CurrentWeather, error) {
	return m.CurrentResp, m.Err
}

func (m *MockClient) Forecast(_ context.Context, _, _ float64) ([]domain.ForecastSample, error) {
	return m.ForecastResp, m.Err
}

func (m *MockClient) Geocode(_ context.Context, _ string) ([]domain.Place, error) {
	return m.Places, m.Err
}
