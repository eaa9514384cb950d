// Package memory provides an in-memory document store used by tests and
// single-process deployments.
package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"

	"github.com/greenroomhq/greenroom/internal/docstore"
)

// Store is a map-backed document store with per-document revisions.
type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]record
}

type record struct {
	version docstore.Version
	body    []byte
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{collections: make(map[string]map[string]record)}
}

// Collection returns the named collection, creating it on first use.
func (s *Store) Collection(name string) docstore.Collection {
	return &collection{store: s, name: name}
}

// Close releases nothing; it exists to satisfy the store contract.
func (s *Store) Close() error {
	return nil
}

type collection struct {
	store *Store
	name  string
}

func (c *collection) docs(create bool) map[string]record {
	docs, ok := c.store.collections[c.name]
	if !ok && create {
		docs = make(map[string]record)
		c.store.collections[c.name] = docs
	}
	return docs
}

func (c *collection) Get(ctx context.Context, id string) (docstore.Document, error) {
	if err := ctx.Err(); err != nil {
		return docstore.Document{}, err
	}
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	rec, ok := c.docs(false)[id]
	if !ok {
		return docstore.Document{}, docstore.ErrNotFound
	}
	return docstore.Document{ID: id, Version: rec.version, Body: append([]byte(nil), rec.body...)}, nil
}

func (c *collection) Put(ctx context.Context, doc docstore.Document) (docstore.Version, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	docs := c.docs(true)
	existing, ok := docs[doc.ID]
	switch {
	case doc.Version == 0 && ok:
		return 0, docstore.ErrConflict
	case doc.Version != 0 && (!ok || existing.version != doc.Version):
		return 0, docstore.ErrConflict
	}
	next := existing.version + 1
	docs[doc.ID] = record{version: next, body: append([]byte(nil), doc.Body...)}
	return next, nil
}

func (c *collection) Remove(ctx context.Context, id string, version docstore.Version) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	docs := c.docs(false)
	existing, ok := docs[id]
	if !ok {
		return docstore.ErrNotFound
	}
	if existing.version != version {
		return docstore.ErrConflict
	}
	delete(docs, id)
	return nil
}

func (c *collection) QueryByField(ctx context.Context, fieldPath string, value any) ([]docstore.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	want, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	var out []docstore.Document
	for id, rec := range c.docs(false) {
		got, ok := fieldJSON(rec.body, fieldPath)
		if !ok || got != string(want) {
			continue
		}
		out = append(out, docstore.Document{ID: id, Version: rec.version, Body: append([]byte(nil), rec.body...)})
	}
	sortByID(out)
	return out, nil
}

func (c *collection) ListAll(ctx context.Context) ([]docstore.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	var out []docstore.Document
	for id, rec := range c.docs(false) {
		out = append(out, docstore.Document{ID: id, Version: rec.version, Body: append([]byte(nil), rec.body...)})
	}
	sortByID(out)
	return out, nil
}

// fieldJSON resolves a dotted path inside a JSON body and returns the
// matched value re-encoded as canonical JSON.
func fieldJSON(body []byte, fieldPath string) (string, bool) {
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", false
	}
	current := decoded
	for _, part := range strings.Split(fieldPath, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return "", false
		}
		current, ok = obj[part]
		if !ok {
			return "", false
		}
	}
	encoded, err := json.Marshal(current)
	if err != nil {
		return "", false
	}
	return string(encoded), true
}

func sortByID(docs []docstore.Document) {
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
}
