package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"agro-analytics/internal/config"
	"agro-analytics/internal/db"
	"agro-analytics/internal/email"
	apihttp "agro-analytics/internal/http"
	"agro-analytics/internal/repository"
	"agro-analytics/internal/service"
	"agro-analytics/internal/weather"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := newLogger(cfg)
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()
	if err := db.Ping(ctx, pool, 5*time.Second); err != nil {
		logger.Fatal("db unreachable", zap.Error(err))
	}

	if cfg.DBAutoMigrate {
		if err := db.Migrate(ctx, pool); err != nil {
			logger.Fatal("db migrate", zap.Error(err))
		}
	}

	userRepo := repository.NewPgUserRepository(pool)
	loginOTPRepo := repository.NewPgLoginOTPRepository(pool)
	registrationOTPRepo := repository.NewPgRegistrationOTPRepository(pool)
	snapshotRepo := repository.NewPgWeatherSnapshotRepository(pool)

	var (
		otpLimiter  service.OTPRateLimiter
		tokenStore  service.TokenRevocationStore
		redisClient *redis.Client
	)
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory stores", zap.Error(err))
		} else {
			if cfg.OTPRateLimitMax > 0 {
				otpLimiter = service.NewRedisOTPRateLimiter(redisClient, cfg.OTPRateLimitWindow, cfg.OTPRateLimitMax, logger)
			}
			tokenStore = service.NewRedisTokenRevocationStore(redisClient)
		}
		cancel()
		defer redisClient.Close()
	}
	if otpLimiter == nil && cfg.OTPRateLimitMax > 0 {
		otpLimiter = service.NewOTPRateLimiter(cfg.OTPRateLimitWindow, cfg.OTPRateLimitMax)
	}

	jwtSvc := service.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL, tokenStore)
	emailSender := newEmailSender(cfg, logger)
	weatherClient := weather.NewOpenWeatherClient(cfg.OpenWeatherBaseURL, cfg.OpenWeatherGeoURL, cfg.OpenWeatherAPIKey, cfg.WeatherTimeout, logger)
	if cfg.OpenWeatherAPIKey == "" {
		logger.Warn("openweather api key not configured")
	}

	authSvc := service.NewAuthService(logger, userRepo, loginOTPRepo, registrationOTPRepo, emailSender, jwtSvc, otpLimiter, cfg.OTPTTL)
	weatherSvc := service.NewWeatherService(logger, weatherClient, snapshotRepo)

	router := apihttp.NewRouter(logger, jwtSvc,
		apihttp.NewAuthHandler(logger, authSvc, jwtSvc, cfg.OTPReturnCode),
		apihttp.NewWeatherHandler(logger, weatherSvc),
	)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	authSvc.Wait()
	weatherSvc.Wait()
}

func newLogger(cfg *config.Config) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.LogDevelopment {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	return logger
}

// newEmailSender elige el proveedor de correo; si falta configuracion los envios se descartan.
func newEmailSender(cfg *config.Config, logger *zap.Logger) email.Sender {
	switch strings.ToLower(strings.TrimSpace(cfg.MailProvider)) {
	case "smtp":
		if cfg.SMTPHost == "" {
			break
		}
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS, cfg.SMTPTimeout)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
			break
		}
		return sender
	case "emailjs":
		sender, err := email.NewEmailJSSender(cfg.EmailJSURL, cfg.EmailJSServiceID, cfg.EmailJSTemplateID, cfg.EmailJSPublicKey, cfg.SMTPFromName, cfg.EmailJSTimeout)
		if err != nil {
			logger.Warn("emailjs sender init failed", zap.Error(err))
			break
		}
		return sender
	}
	logger.Warn("email sender not configured", zap.String("provider", cfg.MailProvider))
	return email.NewDisabledSender("email sender not configured")
}
