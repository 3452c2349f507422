package middleware

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"agrimarket/internal/delivery/api/response"
	"agrimarket/internal/domain/entity"
	"agrimarket/internal/domain/service"
	mockSvc "agrimarket/internal/mocks/service"
	"agrimarket/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type grantStub struct {
	usecase.AuthUsecase
	granted bool
}

func (g grantStub) HasActionGrant(context.Context, uuid.UUID) (bool, error) {
	return g.granted, nil
}

func newTestAuthMiddleware(t *testing.T, granted bool) (*AuthMiddleware, *mockSvc.MockTokenService) {
	tokens := mockSvc.NewMockTokenService(t)

	return NewAuthMiddleware(AuthMiddlewareParams{
		TokenService: tokens,
		AuthUC:       grantStub{granted: granted},
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}), tokens
}

func serve(t *testing.T, req *http.Request, handler echo.HandlerFunc, mws ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	h := handler
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	require.NoError(t, h(c))

	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body response.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body.Error
}

func TestAuthenticate(t *testing.T) {
	userID := uuid.New()
	ok := func(c echo.Context) error {
		id, _ := GetUserID(c)
		userType, _ := GetUserType(c)

		return c.String(http.StatusOK, id.String()+"|"+string(userType)+"|"+GetUsername(c))
	}

	t.Run("valid bearer token", func(t *testing.T) {
		m, tokens := newTestAuthMiddleware(t, false)
		tokens.On("ValidateAccessToken", "good").Return(&service.Claims{UserID: userID, UserType: entity.UserTypeProducer, SellerName: "ramesh"}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer good")
		rec := serve(t, req, ok, m.Authenticate)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, userID.String()+"|Producer|ramesh", rec.Body.String())
	})

	t.Run("missing header", func(t *testing.T) {
		m, _ := newTestAuthMiddleware(t, false)

		rec := serve(t, httptest.NewRequest(http.MethodGet, "/api/profile", nil), ok, m.Authenticate)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "MISSING_TOKEN", errorCode(t, rec))
	})

	t.Run("query token only accepted on streams", func(t *testing.T) {
		m, tokens := newTestAuthMiddleware(t, false)
		tokens.On("ValidateAccessToken", "good").Return(&service.Claims{UserID: userID, UserType: entity.UserTypeConsumer}, nil).Once()

		rec := serve(t, httptest.NewRequest(http.MethodGet, "/api/chat-stream/x?token=good", nil), ok, m.Authenticate)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = serve(t, httptest.NewRequest(http.MethodGet, "/api/chat-stream/x?token=good", nil), ok, m.AuthenticateStream)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		m, tokens := newTestAuthMiddleware(t, false)
		tokens.On("ValidateAccessToken", "stale").Return(nil, errors.New("token has invalid claims: token is expired"))

		req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer stale")
		rec := serve(t, req, ok, m.Authenticate)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "INVALID_TOKEN", errorCode(t, rec))
	})
}

func TestRequireUserTypeAndGrant(t *testing.T) {
	userID := uuid.New()
	ok := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }

	withClaims := func(userType entity.UserType) echo.MiddlewareFunc {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				c.Set(contextKeyUserID, userID)
				c.Set(contextKeyUserType, userType)

				return next(c)
			}
		}
	}

	tests := []struct {
		name     string
		userType entity.UserType
		granted  bool
		status   int
		code     string
	}{
		{name: "producer with grant", userType: entity.UserTypeProducer, granted: true, status: http.StatusNoContent},
		{name: "producer without grant", userType: entity.UserTypeProducer, status: http.StatusForbidden, code: "ACTION_VERIFICATION_REQUIRED"},
		{name: "consumer", userType: entity.UserTypeConsumer, granted: true, status: http.StatusForbidden, code: "PRODUCER_ONLY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestAuthMiddleware(t, tt.granted)

			rec := serve(t, httptest.NewRequest(http.MethodPost, "/api/submit-product", nil), ok,
				withClaims(tt.userType), m.RequireUserType(entity.UserTypeProducer), m.RequireActionGrant)

			assert.Equal(t, tt.status, rec.Code)
			if tt.code != "" {
				assert.Equal(t, tt.code, errorCode(t, rec))
			}
		})
	}
}
