package repositories

import (
	"context"

	"github.com/cipherhq/echohub-server/internal/docstore"
)

// IndexEntry is one contact-index row: the contact's user id mapped to the
// shared chat id.
type IndexEntry struct {
	ContactID string
	ChatID    string
}

// ContactIndexRepository manages the per-user users/{id}/chats subtree. Each
// entry is an independent document; there is no atomicity across entries.
type ContactIndexRepository struct {
	store docstore.Store
}

func NewContactIndexRepository(store docstore.Store) *ContactIndexRepository {
	return &ContactIndexRepository{store: store}
}

func indexPath(userID string) string {
	return usersCollection + "/" + userID + "/chats"
}

// GetEntry returns the chat id linked to contactID, or docstore.ErrNotFound.
func (r *ContactIndexRepository) GetEntry(ctx context.Context, userID, contactID string) (string, error) {
	raw, err := r.store.Read(ctx, indexPath(userID)+"/"+contactID)
	if err != nil {
		return "", err
	}

	var chatID string
	if err := docstore.Unmarshal(raw, &chatID); err != nil {
		return "", err
	}
	return chatID, nil
}

// SetEntry writes the chat id under contactID, overwriting any previous value.
func (r *ContactIndexRepository) SetEntry(ctx context.Context, userID, contactID, chatID string) error {
	return r.store.Write(ctx, indexPath(userID)+"/"+contactID, chatID)
}

// List returns the user's whole contact index in store order. An empty index
// is an empty slice, not an error.
func (r *ContactIndexRepository) List(ctx context.Context, userID string) ([]IndexEntry, error) {
	entries, err := r.store.List(ctx, indexPath(userID))
	if err != nil {
		return nil, err
	}

	index := make([]IndexEntry, 0, len(entries))
	for _, entry := range entries {
		var chatID string
		if err := docstore.Unmarshal(entry.Value, &chatID); err != nil {
			continue
		}
		index = append(index, IndexEntry{ContactID: entry.Key, ChatID: chatID})
	}
	return index, nil
}
