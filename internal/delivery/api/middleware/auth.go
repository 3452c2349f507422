package middleware

import (
	"log/slog"
	"strings"

	"agrimarket/internal/delivery/api/response"
	deliverycontext "agrimarket/internal/delivery/context"
	"agrimarket/internal/domain/entity"
	domainerrors "agrimarket/internal/domain/errors"
	"agrimarket/internal/domain/service"
	"agrimarket/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

const (
	contextKeyUserID   = "userID"
	contextKeyUserType = "userType"
	contextKeyUsername = "username"

	bearerPrefix = "Bearer "
)

// AuthMiddlewareParams holds dependencies for AuthMiddleware, injected by Fx.
type AuthMiddlewareParams struct {
	fx.In

	TokenService service.TokenService
	AuthUC       usecase.AuthUsecase
	Logger       *slog.Logger
}

// AuthMiddleware provides middleware for JWT authentication and authorization.
type AuthMiddleware struct {
	tokenSvc service.TokenService
	authUC   usecase.AuthUsecase
	logger   *slog.Logger
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(params AuthMiddlewareParams) *AuthMiddleware {
	return &AuthMiddleware{
		tokenSvc: params.TokenService,
		authUC:   params.AuthUC,
		logger:   params.Logger,
	}
}

// Authenticate validates the Bearer access token of the Authorization header.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		return m.authenticate(c, next, false)
	}
}

// AuthenticateStream also accepts the token as a "token" query parameter,
// since browsers cannot set headers on a websocket handshake.
func (m *AuthMiddleware) AuthenticateStream(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		return m.authenticate(c, next, true)
	}
}

func (m *AuthMiddleware) authenticate(c echo.Context, next echo.HandlerFunc, allowQuery bool) error {
	tokenString, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
	if !ok && allowQuery {
		tokenString = c.QueryParam("token")
		ok = tokenString != ""
	}
	if !ok {
		return response.Unauthorized(c, "MISSING_TOKEN", "Authorization token is missing")
	}

	claims, err := m.tokenSvc.ValidateAccessToken(tokenString)
	if err != nil {
		deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger).
			Debug("Rejected access token", slog.Any("error", err))

		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid or expired token")
	}

	c.Set(contextKeyUserID, claims.UserID)
	c.Set(contextKeyUserType, claims.UserType)
	c.Set(contextKeyUsername, claims.SellerName)

	ctx := deliverycontext.WithUserID(c.Request().Context(), claims.UserID)
	if logger := deliverycontext.GetLogger(ctx); logger != nil {
		ctx = deliverycontext.WithLogger(ctx, logger.With(slog.String("user_id", claims.UserID.String())))
	}
	c.SetRequest(c.Request().WithContext(ctx))

	return next(c)
}

// RequireUserType rejects callers of any other user type. It must run after Authenticate.
func (m *AuthMiddleware) RequireUserType(userType entity.UserType) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			current, ok := GetUserType(c)
			if !ok || current != userType {
				appErr := domainerrors.ErrConsumerOnly
				if userType == entity.UserTypeProducer {
					appErr = domainerrors.ErrProducerOnly
				}

				return response.HandleAppError(c, appErr)
			}

			return next(c)
		}
	}
}

// RequireActionGrant lets the request through only after a recent action OTP verification.
func (m *AuthMiddleware) RequireActionGrant(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, ok := GetUserID(c)
		if !ok {
			return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
		}

		granted, err := m.authUC.HasActionGrant(c.Request().Context(), userID)
		if err != nil {
			return err
		}
		if !granted {
			return response.HandleAppError(c, domainerrors.ErrActionVerificationRequired)
		}

		return next(c)
	}
}

// GetUserID returns the authenticated user id.
func GetUserID(c echo.Context) (uuid.UUID, bool) {
	userID, ok := c.Get(contextKeyUserID).(uuid.UUID)

	return userID, ok && userID != uuid.Nil
}

// GetUserType returns the user type carried by the access token.
func GetUserType(c echo.Context) (entity.UserType, bool) {
	userType, ok := c.Get(contextKeyUserType).(entity.UserType)

	return userType, ok && userType != ""
}

// GetUsername returns the display name carried by the access token.
func GetUsername(c echo.Context) string {
	name, _ := c.Get(contextKeyUsername).(string)

	return name
}

func bearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))

	return token, token != ""
}
