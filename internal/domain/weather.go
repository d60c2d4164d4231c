package domain

import "time"

// CurrentWeather es la respuesta normalizada de condiciones actuales.
type CurrentWeather struct {
	Location    string    `json:"location"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	Pressure    float64   `json:"pressure"`
	WindSpeed   float64   `json:"windSpeed"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Timestamp   time.Time `json:"timestamp"`
}

type ForecastSample struct {
	Datetime    string  `json:"datetime"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	WindSpeed   float64 `json:"windSpeed"`
}

type Place struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	State   string  `json:"state"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// WeatherSnapshot es un registro historico de solo escritura.
type WeatherSnapshot struct {
	ID          int64     `json:"id"`
	Location    string    `json:"location"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	Pressure    float64   `json:"pressure"`
	WindSpeed   float64   `json:"windSpeed"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	CreatedAt   time.Time `json:"createdAt"`
}

func SnapshotFromCurrent(w CurrentWeather) WeatherSnapshot {
	return WeatherSnapshot{
		Location:    w.Location,
		Temperature: w.Temperature,
		Humidity:    w.Humidity,
		Pressure:    w.Pressure,
		WindSpeed:   w.WindSpeed,
		Description: w.Description,
		Icon:        w.Icon,
		CreatedAt:   w.Timestamp,
	}
}
