// Package media stores avatar images on Cloudinary.
package media

import (
	"context"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/cipherhq/echohub-server/internal/logger"
)

const (
	avatarFolder = "avatars"
	// Incoming images are capped to 1024x1024 without upscaling.
	avatarTransformation = "c_limit,w_1024,h_1024"
)

// CloudinaryStore uploads and deletes assets on a Cloudinary account.
type CloudinaryStore struct {
	client *cloudinary.Cloudinary
}

func NewCloudinaryStore(cloudName, apiKey, apiSecret string) (*CloudinaryStore, error) {
	client, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	return &CloudinaryStore{client: client}, nil
}

// Upload stores the image in the avatars folder and returns its secure URL
// and public id.
func (s *CloudinaryStore) Upload(ctx context.Context, file io.Reader) (string, string, error) {
	resp, err := s.client.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:         avatarFolder,
		Transformation: avatarTransformation,
	})
	if err != nil {
		return "", "", err
	}

	logger.Log.Infow("avatar uploaded", "public_id", resp.PublicID)
	return resp.SecureURL, resp.PublicID, nil
}

// Destroy deletes the asset with the given public id.
func (s *CloudinaryStore) Destroy(ctx context.Context, publicID string) error {
	_, err := s.client.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	return err
}
