// Package pgstore backs docstore.Store with PostgreSQL. Every document is one
// row keyed by its full path; a bigserial column preserves append order.
package pgstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/cipherhq/echohub-server/internal/docstore"
	"github.com/cipherhq/echohub-server/internal/logger"
)

type Store struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the documents table and its indexes.
func (s *Store) EnsureSchema(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS documents (
			path   TEXT PRIMARY KEY,
			parent TEXT NOT NULL,
			value  JSONB NOT NULL,
			seq    BIGSERIAL,
			updated_at TIMESTAMP NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_documents_parent ON documents (parent);
	`
	_, err := s.db.ExecContext(ctx, schema)
	if err != nil {
		return wrap(err)
	}
	return nil
}

func parentOf(path string) string {
	i := strings.LastIndex(path, "/")
	if i < 0 {
		return ""
	}
	return path[:i]
}

// wrap maps driver failures onto docstore error kinds.
func wrap(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return docstore.ErrNotFound
	}
	return fmt.Errorf("%w: %v", docstore.ErrUnavailable, err)
}

func (s *Store) Read(ctx context.Context, path string) (json.RawMessage, error) {
	const query = `SELECT value FROM documents WHERE path = $1`

	var raw json.RawMessage
	err := s.db.GetContext(ctx, &raw, query, path)

	logger.Log.Debugw("docstore read",
		"path", path,
		"error", err,
	)

	if err != nil {
		return nil, wrap(err)
	}
	return raw, nil
}

func (s *Store) Write(ctx context.Context, path string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	const query = `
		INSERT INTO documents (path, parent, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (path) DO UPDATE
		SET value = EXCLUDED.value, updated_at = NOW()
	`
	_, err = s.db.ExecContext(ctx, query, path, parentOf(path), raw)

	logger.Log.Debugw("docstore write",
		"path", path,
		"error", err,
	)

	return wrap(err)
}

func (s *Store) Update(ctx context.Context, path string, fields map[string]any) error {
	patch := make(map[string]any, len(fields))
	var removed []string
	for k, v := range fields {
		if v == nil {
			removed = append(removed, k)
			continue
		}
		patch[k] = v
	}

	raw, err := json.Marshal(patch)
	if err != nil {
		return err
	}
	if removed == nil {
		removed = []string{}
	}
	removedLit := "{" + strings.Join(removed, ",") + "}"

	// Merge semantics: existing document (or empty object) minus removed
	// keys, overlaid with the patch.
	const query = `
		INSERT INTO documents (path, parent, value)
		VALUES ($1, $2, $3::jsonb)
		ON CONFLICT (path) DO UPDATE
		SET value = (documents.value - $4::text[]) || $3::jsonb,
		    updated_at = NOW()
	`
	_, err = s.db.ExecContext(ctx, query, path, parentOf(path), raw, removedLit)

	logger.Log.Debugw("docstore update",
		"path", path,
		"removed", removed,
		"error", err,
	)

	return wrap(err)
}

func (s *Store) Delete(ctx context.Context, path string) error {
	const query = `DELETE FROM documents WHERE path = $1 OR path LIKE $1 || '/%'`
	_, err := s.db.ExecContext(ctx, query, path)

	logger.Log.Debugw("docstore delete",
		"path", path,
		"error", err,
	)

	return wrap(err)
}

func (s *Store) Append(ctx context.Context, collection string, value any) (string, error) {
	key := docstore.NewKey()
	if err := s.Write(ctx, collection+"/"+key, value); err != nil {
		return "", err
	}
	return key, nil
}

type row struct {
	Path  string          `db:"path"`
	Value json.RawMessage `db:"value"`
}

func entriesOf(rows []row, collection string) []docstore.Entry {
	entries := make([]docstore.Entry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, docstore.Entry{
			Key:   strings.TrimPrefix(r.Path, collection+"/"),
			Value: r.Value,
		})
	}
	return entries
}

func (s *Store) List(ctx context.Context, collection string) ([]docstore.Entry, error) {
	const query = `SELECT path, value FROM documents WHERE parent = $1 ORDER BY seq`

	var rows []row
	if err := s.db.SelectContext(ctx, &rows, query, collection); err != nil {
		return nil, wrap(err)
	}
	return entriesOf(rows, collection), nil
}

func (s *Store) FindByField(ctx context.Context, collection, field, value string) (*docstore.Entry, error) {
	const query = `
		SELECT path, value FROM documents
		WHERE parent = $1 AND value->>$2 = $3
		ORDER BY seq
		LIMIT 1
	`

	var r row
	err := s.db.GetContext(ctx, &r, query, collection, field, value)

	logger.Log.Debugw("docstore find",
		"collection", collection,
		"field", field,
		"error", err,
	)

	if err != nil {
		return nil, wrap(err)
	}
	entry := docstore.Entry{Key: strings.TrimPrefix(r.Path, collection+"/"), Value: r.Value}
	return &entry, nil
}

// likeEscaper neutralizes LIKE metacharacters so a prefix matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (s *Store) QueryByPrefix(ctx context.Context, collection, field, prefix string, limit int) ([]docstore.Entry, error) {
	const query = `
		SELECT path, value FROM documents
		WHERE parent = $1 AND value->>$2 LIKE $3 || '%'
		ORDER BY seq
		LIMIT $4
	`

	// LIMIT NULL means no limit.
	var lim any
	if limit > 0 {
		lim = limit
	}

	var rows []row
	if err := s.db.SelectContext(ctx, &rows, query, collection, field, likeEscaper.Replace(prefix), lim); err != nil {
		return nil, wrap(err)
	}
	return entriesOf(rows, collection), nil
}
