package services

import (
	"context"
	"errors"
	"io"

	"github.com/cipherhq/echohub-server/internal/docstore"
	"github.com/cipherhq/echohub-server/internal/logger"
	"github.com/cipherhq/echohub-server/internal/models"
)

// searchLimit caps username search results.
const searchLimit = 5

// ProfileReader defines the user lookups the profile service needs.
type ProfileReader interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	SearchByUsername(ctx context.Context, prefix string, limit int) ([]models.User, error)
}

// ProfileWriter defines the user mutations the profile service needs.
type ProfileWriter interface {
	Update(ctx context.Context, id string, fields map[string]any) error
	RemoveFields(ctx context.Context, id string, fields []string) error
}

// MediaUploader abstracts the external image-hosting service.
type MediaUploader interface {
	Upload(ctx context.Context, file io.Reader) (url, publicID string, err error)
	Destroy(ctx context.Context, publicID string) error
}

// ProfileService serves profile reads and writes, including avatar
// replacement on the media store.
type ProfileService struct {
	reader ProfileReader
	writer ProfileWriter
	media  MediaUploader
}

func NewProfileService(reader ProfileReader, writer ProfileWriter, media MediaUploader) *ProfileService {
	return &ProfileService{reader: reader, writer: writer, media: media}
}

// Get returns the user's profile without the password hash.
func (svc *ProfileService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := svc.reader.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Log.Errorw("failed to get user", "user_id", id, "err", err)
		return nil, err
	}

	sanitized := user.Sanitized()
	return &sanitized, nil
}

// SearchByUsername returns up to five users whose username starts with prefix.
func (svc *ProfileService) SearchByUsername(ctx context.Context, prefix string) ([]models.User, error) {
	users, err := svc.reader.SearchByUsername(ctx, prefix, searchLimit)
	if err != nil {
		logger.Log.Errorw("failed to search users", "err", err)
		return nil, err
	}

	for i := range users {
		users[i] = users[i].Sanitized()
	}
	return users, nil
}

// UpdateData merges profile fields into the user document. When avatar is
// non-nil the previous media asset is destroyed, the new image uploaded, and
// its URL and public id persisted alongside the fields. Returns the avatar
// URL, empty when no avatar was uploaded.
func (svc *ProfileService) UpdateData(ctx context.Context, id string, fields map[string]any, avatar io.Reader) (string, error) {
	user, err := svc.reader.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return "", ErrUserNotFound
		}
		logger.Log.Errorw("failed to get user", "user_id", id, "err", err)
		return "", err
	}

	// Never allow credential fields through a profile update.
	delete(fields, "password")
	delete(fields, "id")

	avatarURL := ""
	if avatar != nil {
		if svc.media == nil {
			return "", errors.New("media store not configured")
		}
		if user.AvatarID != "" {
			if err := svc.media.Destroy(ctx, user.AvatarID); err != nil {
				// The orphaned asset only wastes storage; the update proceeds.
				logger.Log.Errorw("failed to destroy old avatar", "user_id", id, "err", err)
			}
		}

		url, publicID, err := svc.media.Upload(ctx, avatar)
		if err != nil {
			logger.Log.Errorw("failed to upload avatar", "user_id", id, "err", err)
			return "", err
		}
		avatarURL = url
		fields["avatar"] = url
		fields["avatarId"] = publicID
	}

	if err := svc.writer.Update(ctx, id, fields); err != nil {
		logger.Log.Errorw("failed to update user data", "user_id", id, "err", err)
		return "", err
	}
	return avatarURL, nil
}

// RemoveData deletes the named fields from the user document.
func (svc *ProfileService) RemoveData(ctx context.Context, id string, fields []string) error {
	if _, err := svc.reader.GetByID(ctx, id); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return ErrUserNotFound
		}
		logger.Log.Errorw("failed to get user", "user_id", id, "err", err)
		return err
	}

	kept := fields[:0]
	for _, f := range fields {
		if f == "password" || f == "id" || f == "email" {
			continue
		}
		kept = append(kept, f)
	}

	if err := svc.writer.RemoveFields(ctx, id, kept); err != nil {
		logger.Log.Errorw("failed to remove user data", "user_id", id, "err", err)
		return err
	}
	return nil
}
