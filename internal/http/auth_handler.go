package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agro-analytics/internal/service"
)

// AuthHandler expone el flujo OTP de login y registro.
type AuthHandler struct {
	logger     *zap.Logger
	auth       *service.AuthService
	tokens     *service.JWTService
	returnCode bool
}

// NewAuthHandler crea el handler. Con returnCode en false el codigo solo viaja por correo.
func NewAuthHandler(logger *zap.Logger, auth *service.AuthService, tokens *service.JWTService, returnCode bool) *AuthHandler {
	return &AuthHandler{
		logger:     logger,
		auth:       auth,
		tokens:     tokens,
		returnCode: returnCode,
	}
}

type verifyRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// SendOTP maneja POST /auth/send-otp.
func (h *AuthHandler) SendOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid send otp request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	issue, err := h.auth.RequestLoginCode(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, h.logger, "send otp", err)
		return
	}
	c.JSON(http.StatusOK, h.codeResponse(issue))
}

// VerifyOTP maneja POST /auth/verify-otp.
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid verify otp request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	res, err := h.auth.VerifyLoginCode(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		respondError(c, h.logger, "verify otp", err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(res))
}

// Register maneja POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Name     string   `json:"name"`
		Email    string   `json:"email"`
		FarmSize *float64 `json:"farmSize"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid register request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	issue, err := h.auth.RequestRegistrationCode(c.Request.Context(), service.RegistrationInput{
		Name:     req.Name,
		Email:    req.Email,
		FarmSize: req.FarmSize,
	})
	if err != nil {
		respondError(c, h.logger, "register", err)
		return
	}
	c.JSON(http.StatusOK, h.codeResponse(issue))
}

// VerifyRegistration maneja POST /auth/verify-registration.
func (h *AuthHandler) VerifyRegistration(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid verify registration request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	res, err := h.auth.VerifyRegistrationCode(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		respondError(c, h.logger, "verify registration", err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(res))
}

// Logout revoca el token actual hasta su vencimiento.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	if err := h.tokens.Revoke(claims); err != nil {
		h.logger.Error("logout failed", zap.Error(err), zap.Int64("user_id", claims.UserID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.Status(http.StatusNoContent)
}

// Me maneja GET /auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	user, err := h.auth.Profile(c.Request.Context(), claims.UserID)
	if err != nil {
		respondError(c, h.logger, "load profile", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user.Profile()})
}

func (h *AuthHandler) codeResponse(issue service.CodeIssue) gin.H {
	body := gin.H{"expiresIn": issue.ExpiresIn}
	if h.returnCode {
		body["otp"] = issue.Code
	}
	return body
}

func sessionResponse(res service.AuthResult) gin.H {
	return gin.H{
		"token":     res.Token,
		"expiresAt": res.ExpiresAt,
		"user":      res.User.Profile(),
	}
}
