package services

import (
	"context"
	"errors"

	"github.com/cipherhq/echohub-server/internal/docstore"
	"github.com/cipherhq/echohub-server/internal/logger"
	"github.com/cipherhq/echohub-server/internal/models"
)

// Error variables
var (
	ErrChatNotFound = errors.New("chat not found")
	ErrUserNotFound = errors.New("user not found")
)

// ChatLogCreator defines the chat-log operations the directory needs.
type ChatLogCreator interface {
	Get(ctx context.Context, chatID string) (*models.Chat, error)
	Create(ctx context.Context, participants []string) (string, error)
}

// ContactLinker defines per-direction contact-index access.
type ContactLinker interface {
	GetEntry(ctx context.Context, userID, contactID string) (string, error)
	SetEntry(ctx context.Context, userID, contactID, chatID string) error
}

// ChatDirectoryService resolves the shared chat between two users and keeps
// both users' contact indices pointing at it. The two index directions are
// independent writes: there is no cross-key transaction, so concurrent
// duplicate sends can leave a one-sided link (repaired by the reconciler) or,
// in the worst case, two distinct chats for the same pair. That second race is
// accepted as a permanently split conversation.
type ChatDirectoryService struct {
	chats ChatLogCreator
	index ContactLinker
}

func NewChatDirectoryService(chats ChatLogCreator, index ContactLinker) *ChatDirectoryService {
	return &ChatDirectoryService{chats: chats, index: index}
}

// ResolveOrCreateChat returns existingChatID when it references a live chat
// log, otherwise allocates a fresh empty log for the pair. It never touches
// the contact indices; linking is a separate step because the same resolution
// runs for both fresh and continuing conversations.
func (svc *ChatDirectoryService) ResolveOrCreateChat(ctx context.Context, sender, receiver, existingChatID string) (string, error) {
	if existingChatID != "" {
		_, err := svc.chats.Get(ctx, existingChatID)
		if err == nil {
			return existingChatID, nil
		}
		if !errors.Is(err, docstore.ErrNotFound) {
			logger.Log.Errorw("failed to resolve chat", "chat_id", existingChatID, "err", err)
			return "", err
		}
		// Stale id, fall through and create a fresh log.
	}

	chatID, err := svc.chats.Create(ctx, []string{sender, receiver})
	if err != nil {
		logger.Log.Errorw("failed to create chat", "sender", sender, "receiver", receiver, "err", err)
		return "", err
	}
	return chatID, nil
}

// EnsureLinked makes both users' contact indices reference chatID. Each
// direction is an idempotent read-then-write; a failure after the first write
// leaves a one-sided link, which is non-fatal and safe to retry.
func (svc *ChatDirectoryService) EnsureLinked(ctx context.Context, userA, userB, chatID string) error {
	if err := svc.linkOne(ctx, userA, userB, chatID); err != nil {
		return err
	}
	return svc.linkOne(ctx, userB, userA, chatID)
}

func (svc *ChatDirectoryService) linkOne(ctx context.Context, owner, contact, chatID string) error {
	_, err := svc.index.GetEntry(ctx, owner, contact)
	if err == nil {
		// Entry already present: no-op.
		return nil
	}
	if !errors.Is(err, docstore.ErrNotFound) {
		logger.Log.Errorw("failed to read contact index", "owner", owner, "contact", contact, "err", err)
		return err
	}

	if err := svc.index.SetEntry(ctx, owner, contact, chatID); err != nil {
		logger.Log.Errorw("failed to link contact", "owner", owner, "contact", contact, "chat_id", chatID, "err", err)
		return err
	}
	return nil
}
