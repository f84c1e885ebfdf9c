// ABOUTME: Tests for the Charm store against an in-memory KV double.
// ABOUTME: Covers the DocStore contract and the read-only fallback when the KV is locked.
package storage

import (
	"context"
	"sort"
	"testing"

	"github.com/dgraph-io/badger/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memKV struct {
	data     map[string][]byte
	readOnly bool
	syncs    int
	resets   int
}

func newMemKV(readOnly bool) *memKV {
	return &memKV{data: map[string][]byte{}, readOnly: readOnly}
}

func (m *memKV) Get(key []byte) ([]byte, error) {
	v, ok := m.data[string(key)]
	if !ok {
		return nil, badger.ErrKeyNotFound
	}
	return v, nil
}

func (m *memKV) Set(key, value []byte) error {
	m.data[string(key)] = value
	return nil
}

func (m *memKV) Delete(key []byte) error {
	delete(m.data, string(key))
	return nil
}

func (m *memKV) Keys() ([][]byte, error) {
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([][]byte, len(keys))
	for i, k := range keys {
		out[i] = []byte(k)
	}
	return out, nil
}

func (m *memKV) Sync() error      { m.syncs++; return nil }
func (m *memKV) Reset() error     { m.resets++; return nil }
func (m *memKV) Close() error     { return nil }
func (m *memKV) IsReadOnly() bool { return m.readOnly }

func TestCharmStoreWritesAndSyncs(t *testing.T) {
	ctx := context.Background()
	mem := newMemKV(false)
	s := newCharmStore(mem, true)
	assert.Equal(t, 1, mem.syncs, "auto sync pulls on open")
	assert.False(t, s.IsReadOnly())

	require.NoError(t, s.Register(ctx, "things"))
	require.NoError(t, s.Insert(ctx, "things", "a", []byte(`{"n":1}`)))
	assert.ErrorIs(t, s.Insert(ctx, "things", "a", []byte(`{"n":2}`)), ErrDuplicate)
	require.NoError(t, s.Replace(ctx, "things", "a", []byte(`{"n":3}`)))
	assert.Equal(t, 3, mem.syncs, "each write is pushed")

	docs, err := s.List(ctx, "things")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.JSONEq(t, `{"n":3}`, string(docs[0]))

	require.NoError(t, s.Delete(ctx, "things", "a"))
	_, err = s.Get(ctx, "things", "a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCharmStoreReadOnlyRejectsWrites(t *testing.T) {
	ctx := context.Background()
	mem := newMemKV(true)
	mem.data[string(docKey("things", "a"))] = []byte(`{"n":1}`)

	s := newCharmStore(mem, true)
	assert.True(t, s.IsReadOnly())
	assert.Zero(t, mem.syncs, "no sync against a locked database")

	require.NoError(t, s.Register(ctx, "things"))
	assert.NotContains(t, mem.data, string(registryKey("things")))

	got, err := s.Get(ctx, "things", "a")
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":1}`, string(got))

	docs, err := s.List(ctx, "things")
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	assert.ErrorIs(t, s.Insert(ctx, "things", "b", []byte(`{}`)), ErrReadOnly)
	assert.ErrorIs(t, s.Replace(ctx, "things", "a", []byte(`{}`)), ErrReadOnly)
	assert.ErrorIs(t, s.Delete(ctx, "things", "a"), ErrReadOnly)
	assert.ErrorIs(t, s.Sync(), ErrReadOnly)
	assert.ErrorIs(t, s.Reset(), ErrReadOnly)

	assert.JSONEq(t, `{"n":1}`, string(mem.data[string(docKey("things", "a"))]))
	assert.Zero(t, mem.syncs)
	assert.Zero(t, mem.resets)
}
