package repositories

import (
	"context"
	"time"

	"github.com/cipherhq/echohub-server/internal/docstore"
	"github.com/cipherhq/echohub-server/internal/logger"
	"github.com/cipherhq/echohub-server/internal/models"
)

const chatsCollection = "chats"

func chatPath(chatID string) string {
	return chatsCollection + "/" + chatID
}

func messagesPath(chatID string) string {
	return chatPath(chatID) + "/messages"
}

// ChatLogRepository manages chat documents and their append-only message
// collections.
type ChatLogRepository struct {
	store docstore.Store
}

func NewChatLogRepository(store docstore.Store) *ChatLogRepository {
	return &ChatLogRepository{store: store}
}

// Create allocates an empty chat log and returns its generated id.
func (r *ChatLogRepository) Create(ctx context.Context, participants []string) (string, error) {
	chat := models.Chat{
		Participants: participants,
		CreatedAt:    time.Now().UTC(),
	}

	id, err := r.store.Append(ctx, chatsCollection, chat)
	if err != nil {
		return "", err
	}
	if err := r.store.Update(ctx, chatPath(id), map[string]any{"id": id}); err != nil {
		return "", err
	}

	logger.Log.Infow("chat created", "chat_id", id, "participants", participants)
	return id, nil
}

// Get returns the chat document, or docstore.ErrNotFound.
func (r *ChatLogRepository) Get(ctx context.Context, chatID string) (*models.Chat, error) {
	raw, err := r.store.Read(ctx, chatPath(chatID))
	if err != nil {
		return nil, err
	}

	var chat models.Chat
	if err := docstore.Unmarshal(raw, &chat); err != nil {
		return nil, err
	}
	chat.ID = chatID
	return &chat, nil
}

// Append adds a message to the chat log and returns its generated entry key.
// Existing entries are never rewritten.
func (r *ChatLogRepository) Append(ctx context.Context, chatID string, msg models.Message) (string, error) {
	return r.store.Append(ctx, messagesPath(chatID), msg)
}

// Messages returns the chat log in append order.
func (r *ChatLogRepository) Messages(ctx context.Context, chatID string) ([]models.Message, error) {
	entries, err := r.store.List(ctx, messagesPath(chatID))
	if err != nil {
		return nil, err
	}

	msgs := make([]models.Message, 0, len(entries))
	for _, entry := range entries {
		var msg models.Message
		if err := docstore.Unmarshal(entry.Value, &msg); err != nil {
			continue
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}
