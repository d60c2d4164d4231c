package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort       string `env:"HTTP_PORT" envDefault:"5000"`
	LogDevelopment bool   `env:"LOG_DEVELOPMENT" envDefault:"false"`

	DatabaseURL   string        `env:"DATABASE_URL,required,notEmpty"`
	DBAutoMigrate bool          `env:"DB_AUTO_MIGRATE" envDefault:"true"`
	DBMaxConns    int32         `env:"DB_MAX_CONNS" envDefault:"10"`
	DBConnTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"5s"`

	JWTSecret string        `env:"JWT_SECRET,required,notEmpty"`
	JWTIssuer string        `env:"JWT_ISSUER" envDefault:"agro-analytics"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"24h"`

	OTPTTL             time.Duration `env:"OTP_TTL" envDefault:"10m"`
	OTPReturnCode      bool          `env:"OTP_RETURN_CODE" envDefault:"true"`
	OTPRateLimitWindow time.Duration `env:"OTP_RATE_LIMIT_WINDOW" envDefault:"10m"`
	OTPRateLimitMax    int           `env:"OTP_RATE_LIMIT_MAX" envDefault:"5"`

	OpenWeatherAPIKey  string        `env:"OPENWEATHER_API_KEY"`
	OpenWeatherBaseURL string        `env:"OPENWEATHER_BASE_URL" envDefault:"https://api.openweathermap.org/data/2.5"`
	OpenWeatherGeoURL  string        `env:"OPENWEATHER_GEO_URL" envDefault:"https://api.openweathermap.org/geo/1.0"`
	WeatherTimeout     time.Duration `env:"WEATHER_TIMEOUT" envDefault:"15s"`

	MailProvider string `env:"MAIL_PROVIDER" envDefault:"smtp"`

	SMTPHost     string        `env:"SMTP_HOST"`
	SMTPPort     int           `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string        `env:"SMTP_USER"`
	SMTPPass     string        `env:"SMTP_PASS"`
	SMTPFrom     string        `env:"SMTP_FROM"`
	SMTPFromName string        `env:"SMTP_FROM_NAME" envDefault:"AgroAnalytics"`
	SMTPUseTLS   bool          `env:"SMTP_USE_TLS" envDefault:"false"`
	SMTPTimeout  time.Duration `env:"SMTP_TIMEOUT" envDefault:"20s"`

	EmailJSURL        string        `env:"EMAILJS_URL" envDefault:"https://api.emailjs.com/api/v1.0/email/send"`
	EmailJSServiceID  string        `env:"EMAILJS_SERVICE_ID"`
	EmailJSTemplateID string        `env:"EMAILJS_TEMPLATE_ID"`
	EmailJSPublicKey  string        `env:"EMAILJS_PUBLIC_KEY"`
	EmailJSTimeout    time.Duration `env:"EMAILJS_TIMEOUT" envDefault:"15s"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
