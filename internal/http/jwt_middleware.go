package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agro-analytics/internal/service"
)

const authClaimsKey = "auth_claims"

// JWTAuthMiddleware exige un bearer token valido. Sin token responde 401; token invalido, 403.
func JWTAuthMiddleware(logger *zap.Logger, jwtSvc *service.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if jwtSvc == nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		token, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}

		claims, err := jwtSvc.ParseToken(token)
		if err != nil {
			if !errors.Is(err, service.ErrTokenInvalid) && !errors.Is(err, service.ErrTokenExpired) && !errors.Is(err, service.ErrTokenRevoked) {
				logger.Error("token revocation lookup failed", zap.Error(err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
				return
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		c.Set(authClaimsKey, claims)
		c.Next()
	}
}

func bearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", service.ErrTokenMissing
	}
	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", service.ErrTokenMissing
	}
	return token, nil
}

// GetAuthClaims obtiene claims de JWT desde el contexto.
func GetAuthClaims(c *gin.Context) (service.Claims, bool) {
	val, ok := c.Get(authClaimsKey)
	if !ok {
		return service.Claims{}, false
	}
	claims, ok := val.(service.Claims)
	return claims, ok
}
