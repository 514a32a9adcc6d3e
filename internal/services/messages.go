package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/cipherhq/echohub-server/internal/docstore"
	"github.com/cipherhq/echohub-server/internal/logger"
	"github.com/cipherhq/echohub-server/internal/metrics"
	"github.com/cipherhq/echohub-server/internal/models"
)

// ChatLogAppender defines the chat-log operations the message service needs.
type ChatLogAppender interface {
	Get(ctx context.Context, chatID string) (*models.Chat, error)
	Append(ctx context.Context, chatID string, msg models.Message) (string, error)
	Messages(ctx context.Context, chatID string) ([]models.Message, error)
}

// ChatResolver resolves or creates the chat for a pair and links both sides.
type ChatResolver interface {
	ResolveOrCreateChat(ctx context.Context, sender, receiver, existingChatID string) (string, error)
	EnsureLinked(ctx context.Context, userA, userB, chatID string) error
}

// IndexReader reads a single contact-index entry.
type IndexReader interface {
	GetEntry(ctx context.Context, userID, contactID string) (string, error)
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// MessageService appends messages to chat logs and orchestrates the send
// flow: resolve chat, append, link both participants.
type MessageService struct {
	chats       ChatLogAppender
	directory   ChatResolver
	index       IndexReader
	kafkaWriter KafkaWriter
}

func NewMessageService(chats ChatLogAppender, directory ChatResolver, index IndexReader, kafkaWriter KafkaWriter) *MessageService {
	return &MessageService{
		chats:       chats,
		directory:   directory,
		index:       index,
		kafkaWriter: kafkaWriter,
	}
}

// AppendMessage appends one entry to an existing chat log and returns the
// generated entry key. The chat must already exist; message text is stored
// as-is (content policy is the transport layer's problem).
func (svc *MessageService) AppendMessage(ctx context.Context, chatID, sender, receiver, text string, timestamp int64) (string, error) {
	if _, err := svc.chats.Get(ctx, chatID); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return "", ErrChatNotFound
		}
		logger.Log.Errorw("failed to check chat", "chat_id", chatID, "err", err)
		return "", err
	}

	key, err := svc.chats.Append(ctx, chatID, models.Message{
		Sender:    sender,
		Receiver:  receiver,
		Text:      text,
		Timestamp: timestamp,
		Chat:      chatID,
	})
	if err != nil {
		logger.Log.Errorw("failed to append message", "chat_id", chatID, "err", err)
		return "", err
	}
	metrics.MessagesStoredTotal.Inc()
	return key, nil
}

// SendMessage stores a message from sender to receiver, creating the chat and
// the contact links on first exchange. A failure after the chat log was
// created is safe to retry: resolution returns the existing log and linking
// is idempotent.
func (svc *MessageService) SendMessage(ctx context.Context, sender, receiver, text, existingChatID string) (*models.Message, error) {
	chatID, err := svc.directory.ResolveOrCreateChat(ctx, sender, receiver, existingChatID)
	if err != nil {
		return nil, err
	}

	msg := models.Message{
		Sender:    sender,
		Receiver:  receiver,
		Text:      text,
		Timestamp: time.Now().UnixMilli(),
		Chat:      chatID,
	}

	key, err := svc.chats.Append(ctx, chatID, msg)
	if err != nil {
		logger.Log.Errorw("failed to store message", "chat_id", chatID, "err", err)
		return nil, err
	}

	metrics.MessagesStoredTotal.Inc()

	if err := svc.directory.EnsureLinked(ctx, sender, receiver, chatID); err != nil {
		return nil, err
	}

	svc.publishMessage(ctx, key, msg)
	return &msg, nil
}

// FetchChat returns the log shared between user and contact. An unlinked pair
// yields an empty log and empty chat id; a linked pair whose log vanished is
// ErrChatNotFound.
func (svc *MessageService) FetchChat(ctx context.Context, userID, contactID string) (string, []models.Message, error) {
	chatID, err := svc.index.GetEntry(ctx, userID, contactID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return "", nil, nil
		}
		logger.Log.Errorw("failed to read contact index", "user_id", userID, "contact_id", contactID, "err", err)
		return "", nil, err
	}

	if _, err := svc.chats.Get(ctx, chatID); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return "", nil, ErrChatNotFound
		}
		return "", nil, err
	}

	msgs, err := svc.chats.Messages(ctx, chatID)
	if err != nil {
		logger.Log.Errorw("failed to load chat log", "chat_id", chatID, "err", err)
		return "", nil, err
	}
	return chatID, msgs, nil
}

// publishMessage emits a stored-message event to Kafka, fire-and-forget.
func (svc *MessageService) publishMessage(ctx context.Context, key string, msg models.Message) {
	if svc.kafkaWriter == nil {
		logger.Log.Debugw("Kafka writer not configured, skipping publishing", "message_key", key)
		return
	}

	data, err := json.Marshal(msg)
	if err != nil {
		logger.Log.Errorw("failed to marshal message for Kafka", "message_key", key, "error", err)
		return
	}

	if err := svc.kafkaWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: data,
	}); err != nil {
		logger.Log.Errorw("failed to publish message to Kafka", "message_key", key, "error", err)
	}
}
