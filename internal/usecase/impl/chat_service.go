package impl

import (
	"context"
	"log/slog"
	"time"
	"unicode/utf8"

	"agrimarket/config"
	deliverycontext "agrimarket/internal/delivery/context"
	"agrimarket/internal/domain/entity"
	domainerrors "agrimarket/internal/domain/errors"
	"agrimarket/internal/domain/repository"
	"agrimarket/internal/domain/service"
	"agrimarket/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const maxMessageLength = 2000

type chatService struct {
	orderRepo    repository.OrderRepository
	messageRepo  repository.MessageRepository
	broadcaster  service.ChatBroadcaster
	sanitizer    service.TextSanitizer
	historyLimit int
	logger       *slog.Logger
	now          func() time.Time
}

// ChatServiceParams holds dependencies for ChatService, injected by Fx.
type ChatServiceParams struct {
	fx.In

	Config      *config.Config
	OrderRepo   repository.OrderRepository
	MessageRepo repository.MessageRepository
	Broadcaster service.ChatBroadcaster
	Sanitizer   service.TextSanitizer
	Logger      *slog.Logger
}

// NewChatService creates a new chat service.
func NewChatService(params ChatServiceParams) usecase.ChatUsecase {
	historyLimit := 0
	if params.Config.Chat != nil {
		historyLimit = params.Config.Chat.HistoryLimit
	}

	return &chatService{
		orderRepo:    params.OrderRepo,
		messageRepo:  params.MessageRepo,
		broadcaster:  params.Broadcaster,
		sanitizer:    params.Sanitizer,
		historyLimit: historyLimit,
		logger:       params.Logger,
		now:          time.Now,
	}
}

func (srv *chatService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListMessages returns the caller's latest messages in the group, oldest first.
func (srv *chatService) ListMessages(ctx context.Context, userID uuid.UUID, groupID string) ([]*entity.Message, error) {
	if _, err := srv.participantLines(ctx, userID, groupID); err != nil {
		return nil, err
	}

	messages, err := srv.messageRepo.ListConversation(ctx, groupID, userID, srv.historyLimit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list messages")
	}

	return messages, nil
}

// SendMessage stores the sanitized text and fans it out to live subscribers of the group.
func (srv *chatService) SendMessage(ctx context.Context, userID uuid.UUID, input *usecase.SendMessageInput) (*entity.Message, error) {
	text := srv.sanitizer.Sanitize(input.Text)
	if text == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("text must not be empty")
	}
	if utf8.RuneCountInString(text) > maxMessageLength {
		return nil, domainerrors.ErrValidationFailed.WithDetails("text must be at most 2000 characters")
	}

	lines, err := srv.participantLines(ctx, userID, input.OrderGroupID)
	if err != nil {
		return nil, err
	}

	receiverID, err := resolveReceiver(lines, userID, input.ReceiverID)
	if err != nil {
		return nil, err
	}

	message := &entity.Message{
		OrderGroupID: input.OrderGroupID,
		SenderID:     userID,
		ReceiverID:   receiverID,
		Text:         text,
		CreatedAt:    srv.now().UTC(),
	}
	if err := srv.messageRepo.Create(ctx, message); err != nil {
		return nil, errors.Wrap(err, "failed to store message")
	}

	srv.broadcaster.Broadcast(message)
	srv.log(ctx).Debug("Chat message sent", slog.String("orderGroupID", input.OrderGroupID), slog.String("messageID", message.ID))

	return message, nil
}

// Authorize is checked before a websocket subscription is opened.
func (srv *chatService) Authorize(ctx context.Context, userID uuid.UUID, groupID string) error {
	_, err := srv.participantLines(ctx, userID, groupID)

	return err
}

func (srv *chatService) participantLines(ctx context.Context, userID uuid.UUID, groupID string) ([]*entity.Order, error) {
	lines, err := srv.orderRepo.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list order group")
	}
	if len(lines) == 0 {
		return nil, domainerrors.ErrOrderNotFound
	}
	if !isGroupParticipant(lines, userID) {
		return nil, domainerrors.ErrChatAccessDenied
	}

	return lines, nil
}

// resolveReceiver defaults to the counterpart of the first line the sender takes part in.
// An explicit receiver must be the sender's counterpart on some line, so
// sellers of the same checkout cannot message each other.
func resolveReceiver(lines []*entity.Order, senderID uuid.UUID, requested *uuid.UUID) (uuid.UUID, error) {
	if requested != nil {
		for _, line := range lines {
			if *requested != senderID && line.IsParticipant(senderID) && line.Counterpart(senderID) == *requested {
				return *requested, nil
			}
		}

		return uuid.Nil, domainerrors.ErrValidationFailed.WithDetails("receiver is not a counterpart in this order")
	}

	for _, line := range lines {
		if line.IsParticipant(senderID) {
			return line.Counterpart(senderID), nil
		}
	}

	return uuid.Nil, domainerrors.ErrChatAccessDenied
}
