// ABOUTME: Typed collection over a DocStore, validated by a closed JSON schema.
// ABOUTME: Only models values cross this boundary; raw documents stay inside.
package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/harperreed/liftlog/internal/schema"
)

// Collection stores values of type T in one named collection.
type Collection[T any] struct {
	store     DocStore
	validator *schema.Validator
	idOf      func(*T) string

	// mu serializes read-modify-write in Update.
	mu sync.Mutex
}

// NewCollection builds a typed collection. idOf extracts the document id.
func NewCollection[T any](store DocStore, validator *schema.Validator, idOf func(*T) string) *Collection[T] {
	return &Collection[T]{store: store, validator: validator, idOf: idOf}
}

// Name returns the collection name.
func (c *Collection[T]) Name() string {
	return c.validator.Collection()
}

// Insert validates and stores value. It fails with ErrDuplicate if the id exists.
func (c *Collection[T]) Insert(ctx context.Context, value *T) (*T, error) {
	doc, err := schema.Encode(c.validator, value)
	if err != nil {
		return nil, err
	}
	if err := c.store.Insert(ctx, c.Name(), c.idOf(value), doc); err != nil {
		return nil, err
	}
	return value, nil
}

// FindOne returns the document with the given id, or ErrNotFound.
func (c *Collection[T]) FindOne(ctx context.Context, id string) (*T, error) {
	doc, err := c.store.Get(ctx, c.Name(), id)
	if err != nil {
		return nil, err
	}
	value, err := schema.Decode[T](c.validator, doc)
	if err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", c.Name(), id, err)
	}
	return value, nil
}

// Find returns every document in the collection. A document that fails schema
// validation fails the whole read.
func (c *Collection[T]) Find(ctx context.Context) ([]*T, error) {
	docs, err := c.store.List(ctx, c.Name())
	if err != nil {
		return nil, err
	}

	values := make([]*T, 0, len(docs))
	for _, doc := range docs {
		value, err := schema.Decode[T](c.validator, doc)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", c.Name(), err)
		}
		values = append(values, value)
	}
	return values, nil
}

// Update loads the document, applies mutate, validates and writes it back.
// It returns ErrNotFound when the id is absent.
func (c *Collection[T]) Update(ctx context.Context, id string, mutate func(*T) error) (*T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	value, err := c.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := mutate(value); err != nil {
		return nil, err
	}
	if got := c.idOf(value); got != id {
		return nil, fmt.Errorf("update %s: id changed from %s to %s", c.Name(), id, got)
	}

	doc, err := schema.Encode(c.validator, value)
	if err != nil {
		return nil, err
	}
	if err := c.store.Replace(ctx, c.Name(), id, doc); err != nil {
		return nil, err
	}
	return value, nil
}

// Remove deletes the document. It returns ErrNotFound when the id is absent.
func (c *Collection[T]) Remove(ctx context.Context, id string) error {
	return c.store.Delete(ctx, c.Name(), id)
}

// Upsert inserts value, or replaces it when the id already exists. Used by
// restore and migration.
func (c *Collection[T]) Upsert(ctx context.Context, value *T) error {
	doc, err := schema.Encode(c.validator, value)
	if err != nil {
		return err
	}
	id := c.idOf(value)
	err = c.store.Insert(ctx, c.Name(), id, doc)
	if errors.Is(err, ErrDuplicate) {
		return c.store.Replace(ctx, c.Name(), id, doc)
	}
	return err
}
