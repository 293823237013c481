package badger_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stake_gov/contract"
	"stake_gov/store/badger"
)

func newStore(t *testing.T, opts ...badger.StoreOptionFunc) *badger.Store {
	t.Helper()
	s, err := badger.New(append([]badger.StoreOptionFunc{badger.WithMinLifetime(time.Hour)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func read(t *testing.T, s contract.Store, key string) ([]byte, time.Duration) {
	t.Helper()
	var (
		val []byte
		ttl time.Duration
	)
	require.NoError(t, s.Update(func(txn contract.Txn) error {
		var err error
		if val, err = txn.Get([]byte(key)); err != nil {
			return err
		}
		ttl, err = txn.TTL([]byte(key))
		return err
	}))
	return val, ttl
}

func TestStoreCommitAndRollback(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Update(func(txn contract.Txn) error {
		return txn.Set([]byte("a"), []byte("1"))
	}))

	err := s.Update(func(txn contract.Txn) error {
		require.NoError(t, txn.Set([]byte("a"), []byte("2")))
		require.NoError(t, txn.Set([]byte("b"), []byte("3")))
		v, err := txn.Get([]byte("b"))
		require.NoError(t, err)
		assert.Equal(t, []byte("3"), v)
		return errors.New("abort")
	})
	require.Error(t, err)

	v, _ := read(t, s, "a")
	assert.Equal(t, []byte("1"), v)
	v, ttl := read(t, s, "b")
	assert.Nil(t, v)
	assert.Zero(t, ttl)

	require.NoError(t, s.Update(func(txn contract.Txn) error {
		return txn.Delete([]byte("a"))
	}))
	v, _ = read(t, s, "a")
	assert.Nil(t, v)
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestStoreLifetimes(t *testing.T) {
	c := &clock{t: time.Unix(1756857600, 0)}
	s := newStore(t, badger.WithClock(c.now))
	require.NoError(t, s.Update(func(txn contract.Txn) error {
		return txn.Set([]byte("k"), []byte("v"))
	}))
	_, ttl := read(t, s, "k")
	assert.Equal(t, time.Hour, ttl)

	require.NoError(t, s.Update(func(txn contract.Txn) error {
		moved, err := txn.ExtendTTL([]byte("k"), 30*time.Minute, 2*time.Hour)
		assert.False(t, moved)
		if err != nil {
			return err
		}
		moved, err = txn.ExtendTTL([]byte("k"), 2*time.Hour, 48*time.Hour)
		assert.True(t, moved)
		return err
	}))
	_, ttl = read(t, s, "k")
	assert.Equal(t, 48*time.Hour, ttl)

	// overwriting keeps the extended lifetime
	c.t = c.t.Add(time.Hour)
	require.NoError(t, s.Update(func(txn contract.Txn) error {
		return txn.Set([]byte("k"), []byte("w"))
	}))
	v, ttl := read(t, s, "k")
	assert.Equal(t, []byte("w"), v)
	assert.Equal(t, 47*time.Hour, ttl)
}

func TestStoreArchivesInsteadOfExpiring(t *testing.T) {
	c := &clock{t: time.Unix(1756857600, 0)}
	s := newStore(t, badger.WithClock(c.now), badger.WithMinLifetime(time.Second))
	require.NoError(t, s.Update(func(txn contract.Txn) error {
		return txn.Set([]byte("short"), []byte("v"))
	}))

	c.t = c.t.Add(time.Minute)
	v, ttl := read(t, s, "short")
	assert.Equal(t, []byte("v"), v)
	assert.Equal(t, -59*time.Second, ttl)

	require.NoError(t, s.Update(func(txn contract.Txn) error {
		moved, err := txn.ExtendTTL([]byte("short"), time.Hour, time.Hour)
		assert.True(t, moved)
		return err
	}))
	_, ttl = read(t, s, "short")
	assert.Equal(t, time.Hour, ttl)
}

func TestStoreMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	newStore(t, badger.WithPromRegistry(reg))
	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	assert.True(t, names["governance_store_lsm_size_bytes"])
	assert.True(t, names["governance_store_vlog_size_bytes"])
}

func TestStorePersists(t *testing.T) {
	dir := t.TempDir()
	c := &clock{t: time.Unix(1756857600, 0)}
	s, err := badger.New(badger.WithDataDir(dir), badger.WithGcInterval(time.Hour), badger.WithClock(c.now))
	require.NoError(t, err)
	require.NoError(t, s.Update(func(txn contract.Txn) error {
		return txn.Set([]byte("k"), []byte("v"))
	}))
	require.NoError(t, s.Close())

	s, err = badger.New(badger.WithDataDir(dir), badger.WithClock(c.now))
	require.NoError(t, err)
	defer s.Close()
	v, ttl := read(t, s, "k")
	assert.Equal(t, []byte("v"), v)
	assert.Equal(t, contract.DefaultMinLifetime, ttl)
}
