package mongodb

import (
	"context"
	"slices"
	"time"

	"agrimarket/internal/domain/entity"
	"agrimarket/internal/domain/repository"
	"agrimarket/internal/errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultHistoryLimit = 100

// messageDocument is the stored shape of a chat message.
type messageDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	OrderGroupID string             `bson:"orderGroupId"`
	SenderID     string             `bson:"senderId"`
	ReceiverID   string             `bson:"receiverId"`
	Text         string             `bson:"text"`
	CreatedAt    time.Time          `bson:"createdAt"`
}

type messageRepository struct {
	collection *mongo.Collection
}

// NewMessageRepository is the constructor for messageRepository.
func NewMessageRepository(collection *mongo.Collection) repository.MessageRepository {
	return &messageRepository{collection: collection}
}

func (repo *messageRepository) Create(ctx context.Context, message *entity.Message) error {
	doc := fromMessageDomain(message)
	doc.ID = primitive.NewObjectID()

	if _, err := repo.collection.InsertOne(ctx, doc); err != nil {
		return errors.Wrap(err, "failed to insert message")
	}
	message.ID = doc.ID.Hex()

	return nil
}

// ListConversation reads the newest limit messages the user took part in and returns them oldest first.
func (repo *messageRepository) ListConversation(ctx context.Context, groupID string, userID uuid.UUID, limit int) ([]*entity.Message, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := repo.collection.Find(ctx, conversationFilter(groupID, userID), opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find messages")
	}
	defer cursor.Close(ctx)

	var docs []messageDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "failed to decode messages")
	}

	messages := make([]*entity.Message, 0, len(docs))
	for i := range docs {
		messages = append(messages, toMessageDomain(&docs[i]))
	}
	slices.Reverse(messages)

	return messages, nil
}

// conversationFilter matches a group's messages with userID on either end, so
// one seller of a multi-seller checkout never reads another seller's thread.
func conversationFilter(groupID string, userID uuid.UUID) bson.M {
	id := userID.String()

	return bson.M{
		"orderGroupId": groupID,
		"$or": bson.A{
			bson.M{"senderId": id},
			bson.M{"receiverId": id},
		},
	}
}

func toMessageDomain(doc *messageDocument) *entity.Message {
	// IDs are written by this service, so a parse failure leaves uuid.Nil.
	senderID, _ := uuid.Parse(doc.SenderID)
	receiverID, _ := uuid.Parse(doc.ReceiverID)

	return &entity.Message{
		ID:           doc.ID.Hex(),
		OrderGroupID: doc.OrderGroupID,
		SenderID:     senderID,
		ReceiverID:   receiverID,
		Text:         doc.Text,
		CreatedAt:    doc.CreatedAt,
	}
}

func fromMessageDomain(message *entity.Message) *messageDocument {
	return &messageDocument{
		OrderGroupID: message.OrderGroupID,
		SenderID:     message.SenderID.String(),
		ReceiverID:   message.ReceiverID.String(),
		Text:         message.Text,
		CreatedAt:    message.CreatedAt.UTC(),
	}
}
