package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agro-analytics/internal/service"
)

// WeatherHandler expone las consultas al proveedor de clima.
type WeatherHandler struct {
	logger  *zap.Logger
	weather *service.WeatherService
}

func NewWeatherHandler(logger *zap.Logger, weather *service.WeatherService) *WeatherHandler {
	return &WeatherHandler{logger: logger, weather: weather}
}

// Current maneja GET /weather/current?lat=&lon=.
func (h *WeatherHandler) Current(c *gin.Context) {
	lat, lon, err := service.ParseCoordinates(c.Query("lat"), c.Query("lon"))
	if err != nil {
		respondError(c, h.logger, "current weather", err)
		return
	}
	current, err := h.weather.Current(c.Request.Context(), lat, lon)
	if err != nil {
		respondError(c, h.logger, "current weather", err)
		return
	}
	c.JSON(http.StatusOK, current)
}

// Forecast maneja GET /weather/forecast?lat=&lon=.
func (h *WeatherHandler) Forecast(c *gin.Context) {
	lat, lon, err := service.ParseCoordinates(c.Query("lat"), c.Query("lon"))
	if err != nil {
		respondError(c, h.logger, "forecast", err)
		return
	}
	samples, err := h.weather.Forecast(c.Request.Context(), lat, lon)
	if err != nil {
		respondError(c, h.logger, "forecast", err)
		return
	}
	c.JSON(http.StatusOK, samples)
}

// Geocode maneja GET /weather/geocode?q=.
func (h *WeatherHandler) Geocode(c *gin.Context) {
	places, err := h.weather.Geocode(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, h.logger, "geocode", err)
		return
	}
	c.JSON(http.StatusOK, places)
}

// History maneja GET /weather/history?location=&limit=.
func (h *WeatherHandler) History(c *gin.Context) {
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
			return
		}
		limit = n
	}
	snapshots, err := h.weather.History(c.Request.Context(), c.Query("location"), limit)
	if err != nil {
		respondError(c, h.logger, "weather history", err)
		return
	}
	c.JSON(http.StatusOK, snapshots)
}
