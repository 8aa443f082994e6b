// internal/handlers/auth/auth_handler.go
package auth

import (
	"errors"
	"net/http"

	"crm-service/internal/domain/auth"
	"crm-service/internal/middleware"
	xerrors "crm-service/internal/pkg/errors"
	"crm-service/internal/pkg/response"
	service "crm-service/internal/service/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *service.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authService *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register ensures a phone number exists. 201 when newly registered,
// 200 when it already was.
func (h *AuthHandler) Register(c *gin.Context) {
	var req auth.RegisterPhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "phone number is required", err)
		return
	}

	pn, created, err := h.authService.RegisterPhone(c.Request.Context(), req.PhoneNumber)
	if err != nil {
		if errors.Is(err, xerrors.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, "invalid phone number", err)
			return
		}
		h.logger.Error("phone registration failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to register phone number", nil)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	response.Success(c, status, "phone number registered", pn)
}

// RequestOTP issues a fresh code for a registered phone number. The
// plaintext code is returned in the response body; there is no SMS
// gateway behind this service.
func (h *AuthHandler) RequestOTP(c *gin.Context) {
	var req auth.RequestOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "phone number is required", err)
		return
	}

	otp, err := h.authService.RequestOTP(c.Request.Context(), req.PhoneNumber)
	if err != nil {
		switch {
		case errors.Is(err, xerrors.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "invalid phone number", err)
		case errors.Is(err, xerrors.ErrNotFound):
			response.Error(c, http.StatusNotFound, "phone number is not registered", nil)
		case errors.Is(err, xerrors.ErrRateLimited):
			response.Error(c, http.StatusTooManyRequests, "too many OTP requests, try again later", nil)
		default:
			h.logger.Error("otp issuance failed", zap.Error(err))
			response.Error(c, http.StatusInternalServerError, "failed to generate OTP", nil)
		}
		return
	}

	response.Success(c, http.StatusCreated, "OTP generated successfully", auth.OTPIssuedResponse{
		PhoneNumber: otp.PhoneNumber,
		OTPCode:     otp.Code,
		ExpiresAt:   otp.ExpiresAt,
	})
}

// VerifyOTP consumes a code and returns the bearer credential. The 400
// message is deliberately generic: wrong, expired and already-used
// codes are indistinguishable to the caller.
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req auth.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "phone number and OTP code are required", err)
		return
	}

	user, credential, err := h.authService.VerifyOTP(c.Request.Context(), req.PhoneNumber, req.OTPCode)
	if err != nil {
		switch {
		case errors.Is(err, xerrors.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "phone number and OTP code are required", nil)
		case errors.Is(err, xerrors.ErrInvalidCredential):
			response.Error(c, http.StatusBadRequest, "invalid or expired OTP", nil)
		default:
			h.logger.Error("otp verification failed", zap.Error(err))
			response.Error(c, http.StatusInternalServerError, "failed to verify OTP", nil)
		}
		return
	}

	response.Success(c, http.StatusOK, "OTP verified successfully", auth.VerifyOTPResponse{
		Token: credential,
		User:  user,
	})
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}

	response.Success(c, http.StatusOK, "authenticated user", user)
}
