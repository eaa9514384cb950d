// Package docstore defines the versioned document persistence contract used
// by the workflow services.
//
// The store is a narrow collaborator boundary: per-collection CRUD with
// optimistic versioning and field queries. Correctness under concurrent
// commands relies entirely on the compare-and-swap semantics of Put and
// Remove; there are no in-process locks above this interface.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
)

var (
	// ErrNotFound indicates a requested document is missing.
	ErrNotFound = errors.New("document not found")
	// ErrConflict indicates a duplicate create or a stale-version write.
	ErrConflict = errors.New("document version conflict")
)

// Version is the store-managed revision of a document. The zero value marks
// a document that has not been persisted yet.
type Version int64

// Document is one stored record: an identifier, the revision observed at
// read time, and the JSON body.
type Document struct {
	ID      string
	Version Version
	Body    json.RawMessage
}

// Collection is a named set of documents.
//
// Put creates the document when doc.Version is zero and fails with
// ErrConflict if the ID already exists; otherwise it replaces the stored
// body only if the stored version still equals doc.Version. Remove follows
// the same compare-and-swap rule. QueryByField matches a dotted JSON path
// (for example "approvalState.approvedBy") against a value. ListAll returns
// every document and must exclude any internal store metadata.
type Collection interface {
	Get(ctx context.Context, id string) (Document, error)
	Put(ctx context.Context, doc Document) (Version, error)
	Remove(ctx context.Context, id string, version Version) error
	QueryByField(ctx context.Context, fieldPath string, value any) ([]Document, error)
	ListAll(ctx context.Context) ([]Document, error)
}

// Store provides named collections over one backing engine.
type Store interface {
	Collection(name string) Collection
	Close() error
}
