package repositories

import (
	"context"
	"strings"

	"github.com/cipherhq/echohub-server/internal/docstore"
	"github.com/cipherhq/echohub-server/internal/logger"
	"github.com/cipherhq/echohub-server/internal/models"
)

const usersCollection = "users"

func userPath(id string) string {
	return usersCollection + "/" + id
}

type UserReadRepository struct {
	store docstore.Store
}

func NewUserReadRepository(store docstore.Store) *UserReadRepository {
	return &UserReadRepository{store: store}
}

func (r *UserReadRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	raw, err := r.store.Read(ctx, userPath(id))
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := docstore.Unmarshal(raw, &user); err != nil {
		return nil, err
	}
	user.ID = id
	return &user, nil
}

func (r *UserReadRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findBy(ctx, "email", email)
}

// GetByUsername matches case-insensitively against the stored lowercase form.
func (r *UserReadRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findBy(ctx, "usernameLower", strings.ToLower(username))
}

func (r *UserReadRepository) findBy(ctx context.Context, field, value string) (*models.User, error) {
	entry, err := r.store.FindByField(ctx, usersCollection, field, value)

	logger.Log.Debugw("user lookup",
		"field", field,
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	var user models.User
	if err := docstore.Unmarshal(entry.Value, &user); err != nil {
		return nil, err
	}
	user.ID = entry.Key
	return &user, nil
}

// SearchByUsername returns up to limit users whose username starts with prefix.
func (r *UserReadRepository) SearchByUsername(ctx context.Context, prefix string, limit int) ([]models.User, error) {
	entries, err := r.store.QueryByPrefix(ctx, usersCollection, "username", strings.TrimSpace(prefix), limit)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, len(entries))
	for _, entry := range entries {
		var user models.User
		if err := docstore.Unmarshal(entry.Value, &user); err != nil {
			return nil, err
		}
		user.ID = entry.Key
		users = append(users, user)
	}
	return users, nil
}

// List returns every user document. Used by the link reconciler.
func (r *UserReadRepository) List(ctx context.Context) ([]models.User, error) {
	entries, err := r.store.List(ctx, usersCollection)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, len(entries))
	for _, entry := range entries {
		var user models.User
		if err := docstore.Unmarshal(entry.Value, &user); err != nil {
			continue
		}
		user.ID = entry.Key
		users = append(users, user)
	}
	return users, nil
}

type UserWriteRepository struct {
	store docstore.Store
}

func NewUserWriteRepository(store docstore.Store) *UserWriteRepository {
	return &UserWriteRepository{store: store}
}

// Create pushes a new user document and stamps the generated key back onto it.
func (r *UserWriteRepository) Create(ctx context.Context, user *models.User) (string, error) {
	user.UsernameLower = strings.ToLower(user.Username)

	id, err := r.store.Append(ctx, usersCollection, user)
	if err != nil {
		return "", err
	}
	if err := r.store.Update(ctx, userPath(id), map[string]any{"id": id}); err != nil {
		return "", err
	}
	user.ID = id

	logger.Log.Infow("user created", "user_id", id)
	return id, nil
}

// Update merges fields into the user document.
func (r *UserWriteRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	return r.store.Update(ctx, userPath(id), fields)
}

// RemoveFields deletes the named top-level fields of the user document.
func (r *UserWriteRepository) RemoveFields(ctx context.Context, id string, fields []string) error {
	patch := make(map[string]any, len(fields))
	for _, f := range fields {
		patch[f] = nil
	}
	return r.store.Update(ctx, userPath(id), patch)
}
