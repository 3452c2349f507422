package handler

import (
	"log/slog"
	"net/http"

	"agrimarket/internal/delivery/api/middleware"
	"agrimarket/internal/delivery/api/response"
	"agrimarket/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// AuthHandlerParams holds dependencies for AuthHandler, injected by Fx.
type AuthHandlerParams struct {
	fx.In

	AuthUC usecase.AuthUsecase
	Logger *slog.Logger
}

// AuthHandler serves signup, login, token refresh and the OTP flows.
type AuthHandler struct {
	authUC usecase.AuthUsecase
	logger *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler
func NewAuthHandler(params AuthHandlerParams) *AuthHandler {
	return &AuthHandler{
		authUC: params.AuthUC,
		logger: params.Logger,
	}
}

// RefreshTokenRequest represents the request body for rotating a refresh token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// VerifyActionOTPRequest represents the request body for the action verification code
type VerifyActionOTPRequest struct {
	OTP string `json:"otp" validate:"required,numeric"`
}

// Signup registers a Producer or Consumer.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req usecase.SignupInput
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid signup input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.authUC.Signup(c.Request().Context(), &req)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, user)
}

// Login exchanges credentials for a token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req usecase.LoginInput
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.authUC.Login(c.Request().Context(), &req)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, output)
}

// SendOTP emails a passwordless login code.
func (h *AuthHandler) SendOTP(c echo.Context) error {
	var req usecase.SendOTPInput
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid OTP request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.authUC.SendLoginOTP(c.Request().Context(), &req); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Message(c, http.StatusOK, "OTP sent to your email")
}

// VerifyOTP logs the user in with a login code.
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req usecase.VerifyOTPInput
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid OTP input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.authUC.VerifyLoginOTP(c.Request().Context(), &req)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, output)
}

// RefreshToken rotates the refresh token and issues a new pair.
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	var req RefreshTokenRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid refresh token input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.authUC.RefreshToken(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, output)
}

// Logout revokes the stored refresh token of the caller.
func (h *AuthHandler) Logout(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	if err := h.authUC.Logout(c.Request().Context(), userID); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Message(c, http.StatusOK, "Successfully logged out")
}

// SendActionOTP emails the code that unlocks product management.
func (h *AuthHandler) SendActionOTP(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	if err := h.authUC.SendActionOTP(c.Request().Context(), userID); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Message(c, http.StatusOK, "Verification code sent to your email")
}

// VerifyActionOTP records an action grant for the caller.
func (h *AuthHandler) VerifyActionOTP(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var req VerifyActionOTPRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid OTP input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.authUC.VerifyActionOTP(c.Request().Context(), userID, req.OTP); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Message(c, http.StatusOK, "Action verified")
}
