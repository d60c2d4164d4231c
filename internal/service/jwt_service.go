package service

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"agro-analytics/internal/domain"
)

// JWTService emite y valida los bearer tokens de sesion.
type JWTService struct {
	secret  []byte
	ttl     time.Duration
	issuer  string
	revoked TokenRevocationStore
	now     func() time.Time
}

// IssuedToken es el token firmado junto a su vencimiento.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}

type Claims struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

var (
	ErrTokenMissing = errors.New("token missing")
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenRevoked = errors.New("token revoked")
)

const defaultIssuer = "agro-analytics"

func NewJWTService(secret, issuer string, ttl time.Duration, store TokenRevocationStore) *JWTService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if strings.TrimSpace(issuer) == "" {
		issuer = defaultIssuer
	}
	if store == nil {
		store = NewMemoryTokenRevocationStore()
	}
	return &JWTService{
		secret:  []byte(secret),
		ttl:     ttl,
		issuer:  issuer,
		revoked: store,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *JWTService) Issue(user domain.User) (IssuedToken, error) {
	if len(s.secret) == 0 {
		return IssuedToken{}, ErrTokenInvalid
	}
	if user.ID <= 0 {
		return IssuedToken{}, ErrTokenInvalid
	}
	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return IssuedToken{}, err
	}
	return IssuedToken{Token: signed, ExpiresAt: expiresAt}, nil
}

// ParseToken valida firma, vencimiento, emisor y revocacion.
func (s *JWTService) ParseToken(tokenString string) (Claims, error) {
	if len(s.secret) == 0 {
		return Claims{}, ErrTokenInvalid
	}
	if strings.TrimSpace(tokenString) == "" {
		return Claims{}, ErrTokenInvalid
	}

	var claims Claims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	if !s.isValidClaims(claims) {
		return Claims{}, ErrTokenInvalid
	}

	revoked, err := s.revoked.IsRevoked(claims.ID)
	if err != nil {
		return Claims{}, err
	}
	if revoked {
		return Claims{}, ErrTokenRevoked
	}
	return claims, nil
}

// Revoke invalida el token hasta su vencimiento natural.
func (s *JWTService) Revoke(claims Claims) error {
	if claims.ID == "" || claims.ExpiresAt == nil {
		return ErrTokenInvalid
	}
	ttl := claims.ExpiresAt.Time.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	return s.revoked.Revoke(claims.ID, ttl)
}

func (s *JWTService) isValidClaims(claims Claims) bool {
	if claims.UserID <= 0 {
		return false
	}
	if claims.Subject != strconv.FormatInt(claims.UserID, 10) {
		return false
	}
	if strings.TrimSpace(claims.ID) == "" {
		return false
	}
	return strings.TrimSpace(claims.Issuer) == s.issuer
}
