package services

import (
	"context"
	"errors"
	"time"

	"github.com/cipherhq/echohub-server/internal/docstore"
	"github.com/cipherhq/echohub-server/internal/logger"
	"github.com/cipherhq/echohub-server/internal/metrics"
	"github.com/cipherhq/echohub-server/internal/models"
	"github.com/cipherhq/echohub-server/internal/repositories"
)

// UserLister enumerates all users for the repair scan.
type UserLister interface {
	List(ctx context.Context) ([]models.User, error)
}

// IndexRepairer reads and writes contact-index entries.
type IndexRepairer interface {
	List(ctx context.Context, userID string) ([]repositories.IndexEntry, error)
	GetEntry(ctx context.Context, userID, contactID string) (string, error)
	SetEntry(ctx context.Context, userID, contactID, chatID string) error
}

// ReconcilerService repairs one-sided contact links left behind by linking
// failures: for every users/{a}/chats/{b}=chat it ensures the reverse entry
// exists. It deliberately never merges two chats linked from opposite sides
// of the same pair; a split conversation stays split.
type ReconcilerService struct {
	users UserLister
	index IndexRepairer
}

func NewReconcilerService(users UserLister, index IndexRepairer) *ReconcilerService {
	return &ReconcilerService{users: users, index: index}
}

// ReconcileOnce runs a single repair pass and returns how many reverse links
// it wrote.
func (svc *ReconcilerService) ReconcileOnce(ctx context.Context) (int, error) {
	users, err := svc.users.List(ctx)
	if err != nil {
		logger.Log.Errorw("reconcile: failed to list users", "err", err)
		return 0, err
	}

	repaired := 0
	for _, user := range users {
		entries, err := svc.index.List(ctx, user.ID)
		if err != nil {
			logger.Log.Errorw("reconcile: failed to list index", "user_id", user.ID, "err", err)
			continue
		}

		for _, entry := range entries {
			_, err := svc.index.GetEntry(ctx, entry.ContactID, user.ID)
			if err == nil {
				continue
			}
			if !errors.Is(err, docstore.ErrNotFound) {
				logger.Log.Errorw("reconcile: failed to read reverse link", "user_id", user.ID, "contact_id", entry.ContactID, "err", err)
				continue
			}

			if err := svc.index.SetEntry(ctx, entry.ContactID, user.ID, entry.ChatID); err != nil {
				logger.Log.Errorw("reconcile: failed to repair link", "user_id", user.ID, "contact_id", entry.ContactID, "err", err)
				continue
			}
			repaired++
			metrics.LinksRepairedTotal.Inc()
			logger.Log.Infow("reconcile: repaired one-sided link",
				"owner", entry.ContactID,
				"contact", user.ID,
				"chat_id", entry.ChatID,
			)
		}
	}
	return repaired, nil
}

// Run repairs links on every tick until ctx is done.
func (svc *ReconcilerService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := svc.ReconcileOnce(ctx); err != nil {
				logger.Log.Errorw("reconcile pass failed", "err", err)
			}
		}
	}
}
