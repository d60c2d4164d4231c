package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agro-analytics/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	jwtSvc *service.JWTService,
	authH *AuthHandler,
	weatherH *WeatherHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.GET("/health", Health)

	requireAuth := JWTAuthMiddleware(logger, jwtSvc)

	auth := r.Group("/auth")
	auth.POST("/send-otp", authH.SendOTP)
	auth.POST("/verify-otp", authH.VerifyOTP)
	auth.POST("/register", authH.Register)
	auth.POST("/verify-registration", authH.VerifyRegistration)
	auth.POST("/logout", requireAuth, authH.Logout)
	auth.GET("/me", requireAuth, authH.Me)

	weather := r.Group("/weather", requireAuth)
	weather.GET("/current", weatherH.Current)
	weather.GET("/forecast", weatherH.Forecast)
	weather.GET("/geocode", weatherH.Geocode)
	weather.GET("/history", weatherH.History)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
