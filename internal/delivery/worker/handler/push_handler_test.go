package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"agrimarket/config"
	deliverycontext "agrimarket/internal/delivery/context"
	"agrimarket/internal/domain/constants"
	domainerrors "agrimarket/internal/domain/errors"
	"agrimarket/internal/domain/service"
	"agrimarket/internal/infra/pubsub"
	"agrimarket/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDelivery struct {
	events    []*service.OrderEvent
	requestID string
	err       error
}

func (d *recordingDelivery) Deliver(ctx context.Context, event *service.OrderEvent) (*usecase.DeliveryResult, error) {
	d.events = append(d.events, event)
	d.requestID = deliverycontext.GetRequestIDFromContext(ctx)
	if d.err != nil {
		return nil, d.err
	}

	return &usecase.DeliveryResult{Emailed: true, PushSucceeded: 1}, nil
}

func newTestPushHandler(delivery usecase.DeliveryUsecase, provider string) *PushHandler {
	cfg := &config.Config{PubSub: &config.PubSubConfig{Provider: provider}}
	cfg.Env.Env = constants.EnvProduction

	return NewPushHandler(PushHandlerParams{
		Config:     cfg,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		DeliveryUC: delivery,
	})
}

func pushBody(t *testing.T, event *service.OrderEvent, attributes map[string]string) string {
	t.Helper()

	body, err := pubsub.EncodePush(event, "projects/test/subscriptions/order-events", time.Now())
	require.NoError(t, err)
	if attributes == nil {
		return string(body)
	}

	var msg pubsub.PushMessage
	require.NoError(t, json.Unmarshal(body, &msg))
	for k, v := range attributes {
		msg.Message.Attributes[k] = v
	}
	body, err = json.Marshal(msg)
	require.NoError(t, err)

	return string(body)
}

func post(h *PushHandler, body string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/push", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	_ = h.HandlePush(e.NewContext(req, rec))

	return rec
}

func TestHandlePush(t *testing.T) {
	event := &service.OrderEvent{
		RequestID:    "req-from-event",
		EventID:      "evt-1",
		Type:         constants.EventOrderAccepted,
		OrderGroupID: "ORD-20261015-K7Q2MZ",
		RecipientID:  "0a9b8c7d-6e5f-4a3b-8c2d-1e0f9a8b7c6d",
		Subject:      "Your order was accepted",
	}

	tests := []struct {
		name       string
		body       func(t *testing.T) string
		deliverErr error
		wantStatus int
		wantCalls  int
		wantReqID  string
	}{
		{
			name:       "delivered",
			body:       func(t *testing.T) string { return pushBody(t, event, nil) },
			wantStatus: http.StatusOK,
			wantCalls:  1,
			wantReqID:  "req-from-event",
		},
		{
			name:       "attribute request id wins",
			body:       func(t *testing.T) string { return pushBody(t, event, map[string]string{"request_id": "req-attr"}) },
			wantStatus: http.StatusOK,
			wantCalls:  1,
			wantReqID:  "req-attr",
		},
		{
			name:       "infrastructure failure is retried",
			body:       func(t *testing.T) string { return pushBody(t, event, nil) },
			deliverErr: errors.New("connection refused"),
			wantStatus: http.StatusServiceUnavailable,
			wantCalls:  1,
			wantReqID:  "req-from-event",
		},
		{
			name:       "rejected event is acknowledged",
			body:       func(t *testing.T) string { return pushBody(t, event, nil) },
			deliverErr: domainerrors.ErrValidationFailed,
			wantStatus: http.StatusOK,
			wantCalls:  1,
			wantReqID:  "req-from-event",
		},
		{
			name:       "data is not base64",
			body:       func(*testing.T) string { return `{"message":{"data":"%%%"}}` },
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "data is not an event",
			body: func(*testing.T) string {
				return `{"message":{"data":"` + base64.StdEncoding.EncodeToString([]byte("not json")) + `"}}`
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delivery := &recordingDelivery{err: tt.deliverErr}
			h := newTestPushHandler(delivery, constants.PubSubProviderLocal)

			rec := post(h, tt.body(t))

			assert.Equal(t, tt.wantStatus, rec.Code)
			require.Len(t, delivery.events, tt.wantCalls)
			if tt.wantCalls > 0 {
				assert.Equal(t, event.EventID, delivery.events[0].EventID)
				assert.Equal(t, tt.wantReqID, delivery.requestID)
			}
		})
	}
}

func TestHandlePush_VerifiesGoogleToken(t *testing.T) {
	delivery := &recordingDelivery{}
	h := newTestPushHandler(delivery, constants.PubSubProviderGoogle)
	require.True(t, h.verifyPushAuth)

	h.verify = func(*http.Request) error { return errors.New("invalid issuer") }
	rec := post(h, pushBody(t, &service.OrderEvent{EventID: "evt-2"}, nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, delivery.events)

	h.verify = func(*http.Request) error { return nil }
	rec = post(h, pushBody(t, &service.OrderEvent{EventID: "evt-2"}, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, delivery.events, 1)
}

func TestVerifyPubSubToken_RejectsMissingHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/push", nil)
	assert.ErrorContains(t, verifyPubSubToken(req), "missing authorization header")

	req.Header.Set("Authorization", "Token abc")
	assert.ErrorContains(t, verifyPubSubToken(req), "invalid authorization header format")
}
