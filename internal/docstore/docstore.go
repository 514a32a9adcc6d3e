package docstore

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
)

// Error variables
var (
	// ErrNotFound is returned when no document exists at the given path.
	ErrNotFound = errors.New("document not found")
	// ErrUnavailable wraps transient store failures that are safe to retry.
	ErrUnavailable = errors.New("document store unavailable")
)

// Entry is a single child document of a collection, in append order.
type Entry struct {
	Key   string
	Value json.RawMessage
}

// Store is a hierarchical document store addressed by slash-delimited paths,
// e.g. "users/abc" or "chats/xyz/messages". There is no atomicity across
// paths: every call is an independent last-write-wins operation.
type Store interface {
	// Read returns the document at path, or ErrNotFound.
	Read(ctx context.Context, path string) (json.RawMessage, error)

	// Write stores value at path, replacing any existing document.
	Write(ctx context.Context, path string, value any) error

	// Update merges fields into the document at path, creating it if absent.
	// A nil field value removes that key from the document.
	Update(ctx context.Context, path string, fields map[string]any) error

	// Delete removes the document at path together with its descendants.
	Delete(ctx context.Context, path string) error

	// Append stores value under collection with a generated key and returns
	// the key. Append order is preserved and observable through List.
	Append(ctx context.Context, collection string, value any) (string, error)

	// List returns the direct children of collection in append order. A
	// collection with no children yields an empty slice, not an error.
	List(ctx context.Context, collection string) ([]Entry, error)

	// FindByField returns the first child of collection whose document has a
	// string field equal to value, or ErrNotFound.
	FindByField(ctx context.Context, collection, field, value string) (*Entry, error)

	// QueryByPrefix returns up to limit children of collection whose string
	// field starts with prefix, in append order.
	QueryByPrefix(ctx context.Context, collection, field, prefix string, limit int) ([]Entry, error)
}

// NewKey generates a unique child key for pushed documents.
func NewKey() string {
	return uuid.NewString()
}

// Unmarshal decodes a raw document into dst.
func Unmarshal(raw json.RawMessage, dst any) error {
	return json.Unmarshal(raw, dst)
}
