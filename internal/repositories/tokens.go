package repositories

import (
	"context"

	"github.com/cipherhq/echohub-server/internal/docstore"
	"github.com/cipherhq/echohub-server/internal/models"
)

const (
	verificationsCollection = "verifications"
	resetsCollection        = "passwordResets"
)

// VerificationRepository stores pending email-verification records.
type VerificationRepository struct {
	store docstore.Store
}

func NewVerificationRepository(store docstore.Store) *VerificationRepository {
	return &VerificationRepository{store: store}
}

func (r *VerificationRepository) Save(ctx context.Context, rec *models.VerificationRecord) (string, error) {
	id, err := r.store.Append(ctx, verificationsCollection, rec)
	if err != nil {
		return "", err
	}
	if err := r.store.Update(ctx, verificationsCollection+"/"+id, map[string]any{"id": id}); err != nil {
		return "", err
	}
	rec.ID = id
	return id, nil
}

func (r *VerificationRepository) GetByEmail(ctx context.Context, email string) (*models.VerificationRecord, error) {
	entry, err := r.store.FindByField(ctx, verificationsCollection, "email", email)
	if err != nil {
		return nil, err
	}

	var rec models.VerificationRecord
	if err := docstore.Unmarshal(entry.Value, &rec); err != nil {
		return nil, err
	}
	rec.ID = entry.Key
	return &rec, nil
}

func (r *VerificationRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, verificationsCollection+"/"+id)
}

// ResetRepository stores pending password-reset requests.
type ResetRepository struct {
	store docstore.Store
}

func NewResetRepository(store docstore.Store) *ResetRepository {
	return &ResetRepository{store: store}
}

func (r *ResetRepository) Save(ctx context.Context, req *models.PasswordReset) (string, error) {
	id, err := r.store.Append(ctx, resetsCollection, req)
	if err != nil {
		return "", err
	}
	if err := r.store.Update(ctx, resetsCollection+"/"+id, map[string]any{"id": id}); err != nil {
		return "", err
	}
	req.ID = id
	return id, nil
}

func (r *ResetRepository) Get(ctx context.Context, id string) (*models.PasswordReset, error) {
	raw, err := r.store.Read(ctx, resetsCollection+"/"+id)
	if err != nil {
		return nil, err
	}

	var req models.PasswordReset
	if err := docstore.Unmarshal(raw, &req); err != nil {
		return nil, err
	}
	req.ID = id
	return &req, nil
}

func (r *ResetRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, resetsCollection+"/"+id)
}
