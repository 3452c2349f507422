package pubsub

import (
	"encoding/json"
	"testing"
	"time"

	"agrimarket/internal/domain/constants"
	"agrimarket/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodePush_DecodeEvent(t *testing.T) {
	event := &service.OrderEvent{
		EventID:      "evt-7",
		Type:         constants.EventOrderPlaced,
		OrderGroupID: "ORD-20261015-K7Q2MZ",
		OrderIDs:     []string{"line-1", "line-2"},
		RecipientID:  "seller-1",
	}
	published := time.Date(2026, 10, 15, 8, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))

	body, err := EncodePush(event, "projects/p/subscriptions/s", published)
	require.NoError(t, err)

	var msg PushMessage
	require.NoError(t, json.Unmarshal(body, &msg))
	assert.Equal(t, "2026-10-15T03:00:00Z", msg.Message.PublishTime)
	assert.Equal(t, "evt-7", msg.Message.MessageID)
	assert.NotContains(t, msg.Message.Attributes, AttrRequestID)

	decoded, err := msg.DecodeEvent()
	require.NoError(t, err)
	assert.Equal(t, event, decoded)
}

func TestDecodeEvent_Rejects(t *testing.T) {
	var msg PushMessage

	msg.Message.Data = "%%%"
	_, err := msg.DecodeEvent()
	assert.ErrorContains(t, err, "not base64")

	msg.Message.Data = "bm90IGpzb24=" // "not json"
	_, err = msg.DecodeEvent()
	assert.ErrorContains(t, err, "not an order event")
}
