// ABOUTME: DocStore interface for liftlog document storage backends.
// ABOUTME: Backends store opaque JSON documents keyed by collection and id.
package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no document has the requested id.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when inserting an id that already exists.
	ErrDuplicate = errors.New("document already exists")
	// ErrUninitialized is returned by Handle.Instance before Initialize succeeds.
	ErrUninitialized = errors.New("database not initialized")
	// ErrReadOnly is returned by writes against a store opened read-only.
	ErrReadOnly = errors.New("database is locked by another process (MCP server?)")
)

// DocStore is the contract every storage backend implements. Each call is
// atomic for a single document; nothing spans multiple documents.
type DocStore interface {
	// Register prepares the backend to hold documents of the named collection.
	Register(ctx context.Context, collection string) error

	Insert(ctx context.Context, collection, id string, doc []byte) error
	Get(ctx context.Context, collection, id string) ([]byte, error)
	Replace(ctx context.Context, collection, id string, doc []byte) error
	Delete(ctx context.Context, collection, id string) error
	List(ctx context.Context, collection string) ([][]byte, error)

	// Lifecycle
	Close() error
}

// Opener constructs a DocStore. The Handle calls it at most once per
// successful initialization.
type Opener func(ctx context.Context) (DocStore, error)

// docKey builds the type-prefixed key used by the KV backends.
func docKey(collection, id string) []byte {
	return []byte(collection + ":" + id)
}

// collectionPrefix is the key prefix shared by every document of a collection.
func collectionPrefix(collection string) []byte {
	return []byte(collection + ":")
}

// registryKey marks a collection as registered in the KV backends.
func registryKey(collection string) []byte {
	return []byte("_collection:" + collection)
}
