// Package docstore provides key-value-style document CRUD over named
// collections. The MongoDB-backed store is opened at startup and closed
// at shutdown; the in-memory store is the deterministic substitute for
// tests and credential-less environments.
package docstore

import (
	"context"
	"errors"
)

// Collections used by the assistant.
const (
	CollectionCustomers           = "customers"
	CollectionUsers               = "users"
	CollectionCalendars           = "calendars"
	CollectionInstructions        = "instructions"
	CollectionConversationHistory = "conversation_history"
)

// ErrNotFound is returned by FindOne when no document matches.
var ErrNotFound = errors.New("docstore: document not found")

// Document is a stored record; Filter matches fields by equality and
// Update names the fields to set.
type (
	Document map[string]any
	Filter   map[string]any
	Update   map[string]any
)

// Sort orders Find results by a field.
type Sort struct {
	Field string
	Desc  bool
}

// FindOptions tune a Find call.
type FindOptions struct {
	Sort  []Sort
	Limit int64
}

// Store is the document persistence capability.
type Store interface {
	InsertOne(ctx context.Context, collection string, doc Document) (string, error)
	FindOne(ctx context.Context, collection string, filter Filter) (Document, error)
	Find(ctx context.Context, collection string, filter Filter, opts *FindOptions) ([]Document, error)
	UpdateOne(ctx context.Context, collection string, filter Filter, update Update) (int64, error)
	UpdateMany(ctx context.Context, collection string, filter Filter, update Update) (int64, error)
	DeleteOne(ctx context.Context, collection string, filter Filter) (int64, error)
	DeleteMany(ctx context.Context, collection string, filter Filter) (int64, error)
	Close(ctx context.Context) error
}
