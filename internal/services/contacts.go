package services

import (
	"context"
	"errors"
	"sort"

	"github.com/cipherhq/echohub-server/internal/docstore"
	"github.com/cipherhq/echohub-server/internal/logger"
	"github.com/cipherhq/echohub-server/internal/models"
	"github.com/cipherhq/echohub-server/internal/repositories"
)

// UserGetter fetches single user records.
type UserGetter interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// IndexLister reads a user's whole contact index.
type IndexLister interface {
	List(ctx context.Context, userID string) ([]repositories.IndexEntry, error)
}

// ChatLogReader reads chat logs.
type ChatLogReader interface {
	Messages(ctx context.Context, chatID string) ([]models.Message, error)
}

// ContactAggregatorService derives a user's contact list, ordered by
// conversation recency.
type ContactAggregatorService struct {
	users UserGetter
	index IndexLister
	chats ChatLogReader
}

func NewContactAggregatorService(users UserGetter, index IndexLister, chats ChatLogReader) *ContactAggregatorService {
	return &ContactAggregatorService{users: users, index: index, chats: chats}
}

// ListContacts resolves the user's contact index, attaches each contact's
// most recent message, and sorts descending by its timestamp. Contacts whose
// user record vanished are skipped; contacts with an empty or missing chat
// log sort last. An empty index is an empty list, not an error.
func (svc *ContactAggregatorService) ListContacts(ctx context.Context, userID string) ([]models.Contact, error) {
	if _, err := svc.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Log.Errorw("failed to read user", "user_id", userID, "err", err)
		return nil, err
	}

	index, err := svc.index.List(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to read contact index", "user_id", userID, "err", err)
		return nil, err
	}

	contacts := make([]models.Contact, 0, len(index))
	for _, entry := range index {
		contact, err := svc.users.GetByID(ctx, entry.ContactID)
		if err != nil {
			if errors.Is(err, docstore.ErrNotFound) {
				// Contact account no longer exists: skip, don't fail the listing.
				continue
			}
			return nil, err
		}

		last, err := svc.lastMessage(ctx, entry.ChatID)
		if err != nil {
			return nil, err
		}

		contacts = append(contacts, models.Contact{
			User:        contact.Sanitized(),
			Chat:        entry.ChatID,
			LastMessage: last,
		})
	}

	sort.SliceStable(contacts, func(i, j int) bool {
		return recency(contacts[i]) > recency(contacts[j])
	})
	return contacts, nil
}

// lastMessage picks the entry with the greatest stored timestamp, falling
// back to append order on ties. Missing or empty logs yield nil.
func (svc *ContactAggregatorService) lastMessage(ctx context.Context, chatID string) (*models.Message, error) {
	msgs, err := svc.chats.Messages(ctx, chatID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if len(msgs) == 0 {
		return nil, nil
	}

	last := msgs[0]
	for _, msg := range msgs[1:] {
		if msg.Timestamp >= last.Timestamp {
			last = msg
		}
	}
	return &last, nil
}

func recency(c models.Contact) int64 {
	if c.LastMessage == nil {
		return 0
	}
	return c.LastMessage.Timestamp
}
