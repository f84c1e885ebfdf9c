// ABOUTME: Handle owns the process's single DB instance.
// ABOUTME: Concurrent first initializations share one in-flight open.
package storage

import (
	"context"
	"sync"

	"github.com/harperreed/liftlog/internal/logger"
	"golang.org/x/sync/singleflight"
)

// Handle is constructed once at startup and injected into the service layer.
type Handle struct {
	open Opener

	mu    sync.RWMutex
	db    *DB
	group singleflight.Group
}

// NewHandle returns an uninitialized handle that opens its store with open.
func NewHandle(open Opener) *Handle {
	return &Handle{open: open}
}

// Initialize opens the store and registers both collections. Calling it again
// returns the existing instance. On failure the handle stays uninitialized and
// Initialize may be retried.
func (h *Handle) Initialize(ctx context.Context) (*DB, error) {
	if db := h.current(); db != nil {
		logger.Debug("database already initialized")
		return db, nil
	}

	v, err, shared := h.group.Do("init", func() (interface{}, error) {
		if db := h.current(); db != nil {
			return db, nil
		}

		store, err := h.open(ctx)
		if err != nil {
			logger.Error("failed to open store", "err", err)
			return nil, err
		}
		db, err := Open(ctx, store)
		if err != nil {
			return nil, err
		}

		h.mu.Lock()
		h.db = db
		h.mu.Unlock()
		logger.Info("database initialized")
		return db, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logger.Debug("joined in-flight database initialization")
	}
	return v.(*DB), nil
}

// Instance returns the initialized DB, or ErrUninitialized.
func (h *Handle) Instance() (*DB, error) {
	if db := h.current(); db != nil {
		return db, nil
	}
	return nil, ErrUninitialized
}

// IsInitialized reports whether Initialize has succeeded.
func (h *Handle) IsInitialized() bool {
	return h.current() != nil
}

// Close closes the store. The handle returns to the uninitialized state.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.db == nil {
		return nil
	}
	err := h.db.Close()
	h.db = nil
	return err
}

func (h *Handle) current() *DB {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.db
}
