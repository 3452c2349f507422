package pubsub

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"agrimarket/internal/domain/service"

	"github.com/pkg/errors"
)

// Attribute keys set on every published order event.
const (
	AttrEventID      = "event_id"
	AttrEventType    = "event_type"
	AttrOrderGroupID = "order_group_id"
	AttrRequestID    = "request_id"
)

// PushMessage is the body Pub/Sub POSTs to a push subscription endpoint.
type PushMessage struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// Attributes are readable by subscription filters without decoding the payload.
func Attributes(event *service.OrderEvent) map[string]string {
	attrs := map[string]string{
		AttrEventID:      event.EventID,
		AttrEventType:    event.Type,
		AttrOrderGroupID: event.OrderGroupID,
	}
	if event.RequestID != "" {
		attrs[AttrRequestID] = event.RequestID
	}

	return attrs
}

// EncodePush builds the push body Pub/Sub would deliver for event.
func EncodePush(event *service.OrderEvent, subscription string, publishedAt time.Time) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var msg PushMessage
	msg.Subscription = subscription
	msg.Message.Data = base64.StdEncoding.EncodeToString(data)
	msg.Message.Attributes = Attributes(event)
	msg.Message.MessageID = event.EventID
	msg.Message.PublishTime = publishedAt.UTC().Format(time.RFC3339)

	body, err := json.Marshal(msg)

	return body, errors.WithStack(err)
}

// DecodeEvent extracts the order event carried by a push message.
func (m *PushMessage) DecodeEvent() (*service.OrderEvent, error) {
	data, err := base64.StdEncoding.DecodeString(m.Message.Data)
	if err != nil {
		return nil, errors.Wrap(err, "message data is not base64")
	}

	var event service.OrderEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, errors.Wrap(err, "message data is not an order event")
	}

	return &event, nil
}
