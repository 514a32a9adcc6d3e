// Package memstore is an in-memory docstore.Store used by tests and as a
// development fallback when no database is configured.
package memstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/cipherhq/echohub-server/internal/docstore"
)

type Store struct {
	mu       sync.RWMutex
	docs     map[string]json.RawMessage
	children map[string][]string // parent path -> child keys in insertion order
}

func New() *Store {
	return &Store{
		docs:     make(map[string]json.RawMessage),
		children: make(map[string][]string),
	}
}

func parentOf(path string) (parent, key string) {
	i := strings.LastIndex(path, "/")
	if i < 0 {
		return "", path
	}
	return path[:i], path[i+1:]
}

func (s *Store) put(path string, raw json.RawMessage) {
	parent, key := parentOf(path)
	if _, exists := s.docs[path]; !exists {
		s.children[parent] = append(s.children[parent], key)
	}
	s.docs[path] = raw
}

func (s *Store) Read(ctx context.Context, path string) (json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, ok := s.docs[path]
	if !ok {
		return nil, docstore.ErrNotFound
	}
	return raw, nil
}

func (s *Store) Write(ctx context.Context, path string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(path, raw)
	return nil
}

func (s *Store) Update(ctx context.Context, path string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := make(map[string]any)
	if raw, ok := s.docs[path]; ok {
		if err := json.Unmarshal(raw, &doc); err != nil {
			return err
		}
	}
	for k, v := range fields {
		if v == nil {
			delete(doc, k)
			continue
		}
		doc[k] = v
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	s.put(path, raw)
	return nil
}

func (s *Store) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.docs, path)
	parent, key := parentOf(path)
	s.children[parent] = remove(s.children[parent], key)

	// Drop the subtree as well.
	prefix := path + "/"
	for p := range s.docs {
		if strings.HasPrefix(p, prefix) {
			delete(s.docs, p)
		}
	}
	for p := range s.children {
		if p == path || strings.HasPrefix(p, prefix) {
			delete(s.children, p)
		}
	}
	return nil
}

func remove(keys []string, key string) []string {
	for i, k := range keys {
		if k == key {
			return append(keys[:i], keys[i+1:]...)
		}
	}
	return keys
}

func (s *Store) Append(ctx context.Context, collection string, value any) (string, error) {
	key := docstore.NewKey()
	if err := s.Write(ctx, collection+"/"+key, value); err != nil {
		return "", err
	}
	return key, nil
}

func (s *Store) List(ctx context.Context, collection string) ([]docstore.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]docstore.Entry, 0, len(s.children[collection]))
	for _, key := range s.children[collection] {
		raw, ok := s.docs[collection+"/"+key]
		if !ok {
			continue
		}
		entries = append(entries, docstore.Entry{Key: key, Value: raw})
	}
	return entries, nil
}

func (s *Store) FindByField(ctx context.Context, collection, field, value string) (*docstore.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, key := range s.children[collection] {
		raw, ok := s.docs[collection+"/"+key]
		if !ok {
			continue
		}
		if fieldValue(raw, field) == value {
			return &docstore.Entry{Key: key, Value: raw}, nil
		}
	}
	return nil, docstore.ErrNotFound
}

func (s *Store) QueryByPrefix(ctx context.Context, collection, field, prefix string, limit int) ([]docstore.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []docstore.Entry
	for _, key := range s.children[collection] {
		raw, ok := s.docs[collection+"/"+key]
		if !ok {
			continue
		}
		if strings.HasPrefix(fieldValue(raw, field), prefix) {
			entries = append(entries, docstore.Entry{Key: key, Value: raw})
			if limit > 0 && len(entries) == limit {
				break
			}
		}
	}
	return entries, nil
}

func fieldValue(raw json.RawMessage, field string) string {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ""
	}
	v, ok := doc[field]
	if !ok {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
