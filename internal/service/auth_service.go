package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"agro-analytics/internal/domain"
	"agro-analytics/internal/email"
	"agro-analytics/internal/repository"
)

const defaultOTPTTL = 10 * time.Minute

// AuthService emite y verifica codigos OTP para login y registro.
type AuthService struct {
	logger           *zap.Logger
	users            repository.UserRepository
	loginOTPs        repository.LoginOTPRepository
	registrationOTPs repository.RegistrationOTPRepository
	emailSender      email.Sender
	tokens           *JWTService
	otpLimiter       OTPRateLimiter
	otpTTL           time.Duration
	now              func() time.Time
	tasks            *taskRunner
}

func NewAuthService(
	logger *zap.Logger,
	users repository.UserRepository,
	loginOTPs repository.LoginOTPRepository,
	registrationOTPs repository.RegistrationOTPRepository,
	emailSender email.Sender,
	tokens *JWTService,
	otpLimiter OTPRateLimiter,
	otpTTL time.Duration,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if otpTTL <= 0 {
		otpTTL = defaultOTPTTL
	}
	return &AuthService{
		logger:           logger,
		users:            users,
		loginOTPs:        loginOTPs,
		registrationOTPs: registrationOTPs,
		emailSender:      emailSender,
		tokens:           tokens,
		otpLimiter:       otpLimiter,
		otpTTL:           otpTTL,
		now:              func() time.Time { return time.Now().UTC() },
		tasks:            newTaskRunner(logger, 0),
	}
}

// CodeIssue es el resultado de emitir un codigo.
type CodeIssue struct {
	Code      string
	ExpiresIn int64
}

// AuthResult es la sesion emitida tras una verificacion exitosa.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      domain.User
}

type RegistrationInput struct {
	Name     string
	Email    string
	FarmSize *float64
}

// RequestLoginCode no comprueba si el usuario existe; eso se valida al verificar.
func (s *AuthService) RequestLoginCode(ctx context.Context, emailAddr string) (CodeIssue, error) {
	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" || !isValidEmail(emailAddr) {
		return CodeIssue{}, ErrInvalidInput
	}
	if !s.allow(ctx, "login:"+emailAddr) {
		return CodeIssue{}, ErrRateLimited
	}

	code, err := generateCode()
	if err != nil {
		return CodeIssue{}, err
	}
	now := s.now()
	otp, err := s.loginOTPs.Create(ctx, domain.LoginOTP{
		Email:     emailAddr,
		Code:      code,
		ExpiresAt: now.Add(s.otpTTL),
		CreatedAt: now,
	})
	if err != nil {
		return CodeIssue{}, storageErr("store login code", err)
	}

	s.logger.Info("login code issued", zap.String("email", emailAddr), zap.Int64("otp_id", otp.ID))
	s.notify(ctx, email.Message{
		Kind:      email.KindLoginCode,
		To:        emailAddr,
		Code:      code,
		ExpiresAt: otp.ExpiresAt,
	})

	return CodeIssue{Code: code, ExpiresIn: s.expiresIn()}, nil
}

func (s *AuthService) VerifyLoginCode(ctx context.Context, emailAddr, code string) (AuthResult, error) {
	emailAddr = normalizeEmail(emailAddr)
	code = strings.TrimSpace(code)
	if emailAddr == "" || code == "" {
		return AuthResult{}, ErrInvalidInput
	}
	if !isValidOTPCode(code) {
		return AuthResult{}, ErrInvalidOrExpiredCode
	}

	otp, err := s.loginOTPs.FindActive(ctx, emailAddr, code, s.now())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return AuthResult{}, ErrInvalidOrExpiredCode
		}
		return AuthResult{}, storageErr("find login code", err)
	}

	consumed, err := s.loginOTPs.Consume(ctx, otp.ID)
	if err != nil {
		return AuthResult{}, storageErr("consume login code", err)
	}
	if !consumed {
		s.logger.Info("login code already consumed", zap.String("email", emailAddr), zap.Int64("otp_id", otp.ID))
		return AuthResult{}, ErrInvalidOrExpiredCode
	}

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return AuthResult{}, ErrUserNotFound
		}
		return AuthResult{}, storageErr("find user", err)
	}

	return s.issueSession(user)
}

func (s *AuthService) RequestRegistrationCode(ctx context.Context, input RegistrationInput) (CodeIssue, error) {
	name := strings.TrimSpace(input.Name)
	emailAddr := normalizeEmail(input.Email)
	if name == "" || emailAddr == "" || input.FarmSize == nil {
		return CodeIssue{}, ErrInvalidInput
	}
	farmSize := *input.FarmSize
	if farmSize < 0 || math.IsNaN(farmSize) || math.IsInf(farmSize, 0) {
		return CodeIssue{}, ErrInvalidInput
	}
	if !isValidEmail(emailAddr) {
		return CodeIssue{}, ErrInvalidInput
	}

	exists, err := s.users.ExistsByEmail(ctx, emailAddr)
	if err != nil {
		return CodeIssue{}, storageErr("check existing user", err)
	}
	if exists {
		return CodeIssue{}, ErrDuplicateAccount
	}
	if !s.allow(ctx, "register:"+emailAddr) {
		return CodeIssue{}, ErrRateLimited
	}

	code, err := generateCode()
	if err != nil {
		return CodeIssue{}, err
	}
	now := s.now()
	otp, err := s.registrationOTPs.Create(ctx, domain.RegistrationOTP{
		Email:     emailAddr,
		Name:      name,
		FarmSize:  farmSize,
		Code:      code,
		ExpiresAt: now.Add(s.otpTTL),
		CreatedAt: now,
	})
	if err != nil {
		return CodeIssue{}, storageErr("store registration code", err)
	}

	s.logger.Info("registration code issued", zap.String("email", emailAddr), zap.Int64("otp_id", otp.ID))
	s.notify(ctx, email.Message{
		Kind:      email.KindRegistrationCode,
		To:        emailAddr,
		Name:      name,
		Code:      code,
		ExpiresAt: otp.ExpiresAt,
	})

	return CodeIssue{Code: code, ExpiresIn: s.expiresIn()}, nil
}

func (s *AuthService) VerifyRegistrationCode(ctx context.Context, emailAddr, code string) (AuthResult, error) {
	emailAddr = normalizeEmail(emailAddr)
	code = strings.TrimSpace(code)
	if emailAddr == "" || code == "" {
		return AuthResult{}, ErrInvalidInput
	}
	if !isValidOTPCode(code) {
		return AuthResult{}, ErrInvalidOrExpiredCode
	}

	otp, err := s.registrationOTPs.FindActive(ctx, emailAddr, code, s.now())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return AuthResult{}, ErrInvalidOrExpiredCode
		}
		return AuthResult{}, storageErr("find registration code", err)
	}

	consumed, err := s.registrationOTPs.Consume(ctx, otp.ID)
	if err != nil {
		return AuthResult{}, storageErr("consume registration code", err)
	}
	if !consumed {
		return AuthResult{}, ErrInvalidOrExpiredCode
	}

	exists, err := s.users.ExistsByEmail(ctx, emailAddr)
	if err != nil {
		return AuthResult{}, storageErr("check existing user", err)
	}
	if exists {
		return AuthResult{}, ErrDuplicateAccount
	}

	now := s.now()
	user, err := s.users.Create(ctx, domain.User{
		Email:     otp.Email,
		Name:      otp.Name,
		FarmSize:  otp.FarmSize,
		CreatedAt: now,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return AuthResult{}, ErrDuplicateAccount
		}
		return AuthResult{}, storageErr("create user", err)
	}

	s.logger.Info("user registered", zap.String("email", user.Email), zap.Int64("user_id", user.ID))
	s.notify(ctx, email.Message{
		Kind: email.KindWelcome,
		To:   user.Email,
		Name: user.Name,
	})

	return s.issueSession(user)
}

// Profile devuelve el usuario autenticado por id.
func (s *AuthService) Profile(ctx context.Context, userID int64) (domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, storageErr("find user", err)
	}
	return user, nil
}

// Wait espera a que terminen las notificaciones pendientes.
func (s *AuthService) Wait() {
	s.tasks.Wait()
}

func (s *AuthService) issueSession(user domain.User) (AuthResult, error) {
	if s.tokens == nil {
		return AuthResult{}, errors.New("jwt not configured")
	}
	issued, err := s.tokens.Issue(user)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Token: issued.Token, ExpiresAt: issued.ExpiresAt, User: user}, nil
}

// notify envia el correo en segundo plano; un fallo nunca llega al caller.
func (s *AuthService) notify(ctx context.Context, msg email.Message) {
	if s.emailSender == nil {
		return
	}
	s.tasks.Go(ctx, "send "+string(msg.Kind)+" email", func(ctx context.Context) error {
		return s.emailSender.Send(ctx, msg)
	}, zap.String("email", msg.To))
}

func (s *AuthService) allow(ctx context.Context, key string) bool {
	if s.otpLimiter == nil {
		return true
	}
	return s.otpLimiter.Allow(ctx, key)
}

func (s *AuthService) expiresIn() int64 {
	return int64(s.otpTTL / time.Second)
}
