// Package docstore is the storage collaborator: named collections of JSON
// documents addressed by id, with optimistic versioning and no
// cross-collection guarantees unless the backend is a Transactor.
package docstore

import (
	"context"
	"errors"
)

var (
	ErrNotFound  = errors.New("docstore: document not found")
	ErrConflict  = errors.New("docstore: version conflict")
	ErrDuplicate = errors.New("docstore: duplicate id")
)

// Filter matches documents whose top-level fields equal the given values.
// Keys are the document's json/bson field names. An empty filter matches all.
type Filter map[string]any

// Collection is one entity type's documents.
//
// Documents carry a "version" field. Insert stores version 1 and the
// caller's document must already say so. Replace succeeds only when the
// stored version equals expectedVersion, and the caller's document must
// carry expectedVersion+1.
//
// FindMany and FindByIDs decode into a pointer to a slice and return
// documents in insertion order.
type Collection interface {
	FindByID(ctx context.Context, id string, out any) error
	FindByIDs(ctx context.Context, ids []string, out any) error
	FindOne(ctx context.Context, filter Filter, out any) error
	FindMany(ctx context.Context, filter Filter, out any) error
	Insert(ctx context.Context, id string, doc any) error
	Replace(ctx context.Context, id string, expectedVersion int64, doc any) error
	DeleteByID(ctx context.Context, id string) error
	DeleteOne(ctx context.Context, filter Filter) error
}

type Store interface {
	Collection(name string) Collection
}

// Transactor is implemented by backends that can run several writes
// atomically. fn must use the Store it is given.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}
