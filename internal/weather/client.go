package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"agro-analytics/internal/domain"
)

const (
	forecastSamples = 8
	geocodeLimit    = 5
)

// Client define la interfaz hacia el proveedor de clima.
type Client interface {
	Current(ctx context.Context, lat, lon float64) (domain.CurrentWeather, error)
	Forecast(ctx context.Context, lat, lon float64) ([]domain.ForecastSample, error)
	Geocode(ctx context.Context, query string) ([]domain.Place, error)
}

// OpenWeatherClient implementa Client contra la API de OpenWeather.
type OpenWeatherClient struct {
	baseURL string
	geoURL  string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
	now     func() time.Time
}

// NewOpenWeatherClient construye un cliente con timeout fijo.
func NewOpenWeatherClient(baseURL, geoURL, apiKey string, timeout time.Duration, logger *zap.Logger) *OpenWeatherClient {
	if baseURL == "" {
		baseURL = "https://api.openweathermap.org/data/2.5"
	}
	if geoURL == "" {
		geoURL = "https://api.openweathermap.org/geo/1.0"
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpenWeatherClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		geoURL:  strings.TrimRight(geoURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (c *OpenWeatherClient) Current(ctx context.Context, lat, lon float64) (domain.CurrentWeather, error) {
	var cr currentResponse
	if err := c.get(ctx, c.baseURL+"/weather", coordParams(lat, lon), &cr); err != nil {
		return domain.CurrentWeather{}, err
	}

	w := domain.CurrentWeather{
		Location:    cr.Name + ", " + cr.Sys.Country,
		Temperature: cr.Main.Temp,
		Humidity:    cr.Main.Humidity,
		Pressure:    cr.Main.Pressure,
		WindSpeed:   cr.Wind.Speed,
		Timestamp:   c.now(),
	}
	if len(cr.Weather) > 0 {
		w.Description = cr.Weather[0].Description
		w.Icon = cr.Weather[0].Icon
	}
	return w, nil
}

func (c *OpenWeatherClient) Forecast(ctx context.Context, lat, lon float64) ([]domain.ForecastSample, error) {
	var fr forecastResponse
	if err := c.get(ctx, c.baseURL+"/forecast", coordParams(lat, lon), &fr); err != nil {
		return nil, err
	}

	items := fr.List
	if len(items) > forecastSamples {
		items = items[:forecastSamples]
	}
	samples := make([]domain.ForecastSample, 0, len(items))
	for _, item := range items {
		s := domain.ForecastSample{
			Datetime:    item.DtTxt,
			Temperature: item.Main.Temp,
			Humidity:    item.Main.Humidity,
			WindSpeed:   item.Wind.Speed,
		}
		if len(item.Weather) > 0 {
			s.Description = item.Weather[0].Description
			s.Icon = item.Weather[0].Icon
		}
		samples = append(samples, s)
	}
	return samples, nil
}

func (c *OpenWeatherClient) Geocode(ctx context.Context, query string) ([]domain.Place, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(geocodeLimit))

	var gr []geoItem
	if err := c.get(ctx, c.geoURL+"/direct", params, &gr); err != nil {
		return nil, err
	}
	if len(gr) > geocodeLimit {
		gr = gr[:geocodeLimit]
	}
	places := make([]domain.Place, 0, len(gr))
	for _, item := range gr {
		places = append(places, domain.Place{
			Name:    item.Name,
			Country: item.Country,
			State:   item.State,
			Lat:     item.Lat,
			Lon:     item.Lon,
		})
	}
	return places, nil
}

func (c *OpenWeatherClient) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	params.Set("appid", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		c.logger.Warn("weather provider error",
			zap.Int("status", resp.StatusCode),
			zap.String("endpoint", endpoint),
			zap.ByteString("body", respBody),
		)
		return fmt.Errorf("weather http error: status=%d", resp.StatusCode)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

func coordParams(lat, lon float64) url.Values {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("units", "metric")
	return params
}

type condition struct {
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type currentResponse struct {
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
		Pressure float64 `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []condition `json:"weather"`
}

type forecastResponse struct {
	List []struct {
		DtTxt string `json:"dt_txt"`
		Main  struct {
			Temp     float64 `json:"temp"`
			Humidity float64 `json:"humidity"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Weather []condition `json:"weather"`
	} `json:"list"`
}

type geoItem struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	State   string  `json:"state"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}
