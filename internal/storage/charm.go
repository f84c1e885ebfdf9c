// ABOUTME: Charm KV backed DocStore with optional cloud sync after writes.
// ABOUTME: Keys are collection-prefixed so both collections share one KV.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	"github.com/dgraph-io/badger/v3"
	"github.com/harperreed/liftlog/internal/logger"
)

// DefaultCharmHost is the charm server used when none is configured.
const DefaultCharmHost = "charm.2389.dev"

// kvStore is the subset of *kv.KV the store relies on.
type kvStore interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Delete(key []byte) error
	Keys() ([][]byte, error)
	Sync() error
	Reset() error
	Close() error
	IsReadOnly() bool
}

// CharmStore stores documents in a Charm KV database.
type CharmStore struct {
	kv       kvStore
	autoSync bool
	mu       sync.RWMutex
}

// Compile-time checks.
var (
	_ DocStore = (*CharmStore)(nil)
	_ kvStore  = (*kv.KV)(nil)
)

// OpenCharm opens the named Charm KV database against host. When autoSync is
// set, remote data is pulled on open and every write is pushed.
func OpenCharm(name, host string, autoSync bool) (*CharmStore, error) {
	if host == "" {
		host = DefaultCharmHost
	}
	if err := os.Setenv("CHARM_HOST", host); err != nil {
		return nil, err
	}

	// Falls back to a read-only snapshot when another process (usually the
	// MCP server) holds the badger lock.
	db, err := kv.OpenWithDefaultsFallback(name)
	if err != nil {
		return nil, fmt.Errorf("open charm kv: %w", err)
	}
	return newCharmStore(db, autoSync), nil
}

func newCharmStore(db kvStore, autoSync bool) *CharmStore {
	s := &CharmStore{kv: db, autoSync: autoSync}
	if db.IsReadOnly() {
		logger.Warn("charm kv is locked by another process, opened read-only")
		return s
	}
	if autoSync {
		if err := db.Sync(); err != nil {
			logger.Warn("initial charm sync failed", "err", err)
		}
	}
	return s
}

// IsReadOnly reports whether the store was opened as a read-only snapshot.
func (s *CharmStore) IsReadOnly() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.kv.IsReadOnly()
}

// writable must be called with s.mu held.
func (s *CharmStore) writable() error {
	if s.kv.IsReadOnly() {
		return ErrReadOnly
	}
	return nil
}

// Close closes the KV database connection.
func (s *CharmStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.kv != nil {
		return s.kv.Close()
	}
	return nil
}

// Sync synchronizes local state with Charm Cloud.
func (s *CharmStore) Sync() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.writable(); err != nil {
		return err
	}
	return s.kv.Sync()
}

// Reset wipes local data and rebuilds from Charm Cloud.
func (s *CharmStore) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writable(); err != nil {
		return err
	}
	return s.kv.Reset()
}

// SetAutoSync enables or disables automatic sync after writes.
func (s *CharmStore) SetAutoSync(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autoSync = enabled
}

// CharmID returns the Charm user ID for the current account.
func CharmID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("create charm client: %w", err)
	}
	return cc.ID()
}

// syncIfEnabled pushes local writes. Sync failures are logged, not returned,
// because the local write already succeeded.
func (s *CharmStore) syncIfEnabled() {
	if !s.autoSync || s.kv.IsReadOnly() {
		return
	}
	if err := s.kv.Sync(); err != nil {
		logger.Warn("charm sync failed", "err", err)
	}
}

// Register records the collection under the registry prefix.
func (s *CharmStore) Register(ctx context.Context, collection string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	// Collections are implicit in the key prefix, so a read-only snapshot
	// can still be read without its registry entry.
	if s.kv.IsReadOnly() {
		return nil
	}
	return s.kv.Set(registryKey(collection), []byte(collection))
}

// exists must be called with s.mu held.
func (s *CharmStore) exists(key []byte) (bool, error) {
	_, err := s.kv.Get(key)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, badger.ErrKeyNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Insert stores doc under id, failing if the id is taken.
func (s *CharmStore) Insert(ctx context.Context, collection, id string, doc []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writable(); err != nil {
		return err
	}

	key := docKey(collection, id)
	found, err := s.exists(key)
	if err != nil {
		return err
	}
	if found {
		return fmt.Errorf("%w: %s", ErrDuplicate, id)
	}
	if err := s.kv.Set(key, doc); err != nil {
		return err
	}
	s.syncIfEnabled()
	return nil
}

// Get returns the document stored under id.
func (s *CharmStore) Get(ctx context.Context, collection, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, err := s.kv.Get(docKey(collection, id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return doc, err
}

// Replace overwrites an existing document.
func (s *CharmStore) Replace(ctx context.Context, collection, id string, doc []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writable(); err != nil {
		return err
	}

	key := docKey(collection, id)
	found, err := s.exists(key)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := s.kv.Set(key, doc); err != nil {
		return err
	}
	s.syncIfEnabled()
	return nil
}

// Delete removes an existing document.
func (s *CharmStore) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writable(); err != nil {
		return err
	}

	key := docKey(collection, id)
	found, err := s.exists(key)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := s.kv.Delete(key); err != nil {
		return err
	}
	s.syncIfEnabled()
	return nil
}

// List returns every document in the collection.
func (s *CharmStore) List(ctx context.Context, collection string) ([][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys, err := s.kv.Keys()
	if err != nil {
		return nil, err
	}

	prefix := collectionPrefix(collection)
	var results [][]byte
	for _, key := range keys {
		if !bytes.HasPrefix(key, prefix) {
			continue
		}
		val, err := s.kv.Get(key)
		if err != nil {
			return nil, err
		}
		results = append(results, val)
	}
	return results, nil
}
