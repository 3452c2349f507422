package service

import "agrimarket/internal/domain/entity"

// ChatBroadcaster fans a persisted chat message out to live subscribers of its order group.
type ChatBroadcaster interface {
	Broadcast(message *entity.Message)
}
