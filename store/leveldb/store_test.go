package leveldb_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"stake_gov/contract"
	"stake_gov/store/leveldb"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newStore(t *testing.T) (*leveldb.Store, *clock) {
	t.Helper()
	c := &clock{t: time.Unix(1756857600, 0)}
	s, err := leveldb.NewMem(&leveldb.Options{MinLifetime: time.Hour, Clock: c.now})
	require.NoError(t, err)
	return s, c
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

func TestStoreTransactions(t *testing.T) {
	defer goleak.VerifyNone(t)
	s, _ := newStore(t)
	defer s.Close()

	require.NoError(t, s.Update(func(txn contract.Txn) error {
		return txn.Set([]byte("a"), []byte("1"))
	}))
	err := s.Update(func(txn contract.Txn) error {
		require.NoError(t, txn.Set([]byte("a"), []byte("2")))
		require.NoError(t, txn.Set([]byte("b"), []byte("3")))
		return errors.New("abort")
	})
	require.Error(t, err)

	v, ttl := read(t, s, "a")
	assert.Equal(t, []byte("1"), v)
	assert.Equal(t, time.Hour, ttl)
	v, _ = read(t, s, "b")
	assert.Nil(t, v)

	require.NoError(t, s.Update(func(txn contract.Txn) error {
		return txn.Delete([]byte("a"))
	}))
	v, _ = read(t, s, "a")
	assert.Nil(t, v)
}

func TestStoreLifetimes(t *testing.T) {
	defer goleak.VerifyNone(t)
	s, c := newStore(t)
	defer s.Close()

	require.NoError(t, s.Update(func(txn contract.Txn) error {
		return txn.Set([]byte("k"), []byte("v"))
	}))
	c.t = c.t.Add(45 * time.Minute)
	require.NoError(t, s.Update(func(txn contract.Txn) error {
		if err := txn.Set([]byte("k"), []byte("w")); err != nil {
			return err
		}
		moved, err := txn.ExtendTTL([]byte("k"), 10*time.Minute, time.Hour)
		assert.False(t, moved, "15m remaining is above the 10m threshold")
		return err
	}))
	_, ttl := read(t, s, "k")
	assert.Equal(t, 15*time.Minute, ttl)

	require.NoError(t, s.Update(func(txn contract.Txn) error {
		moved, err := txn.ExtendTTL([]byte("k"), 30*time.Minute, 2*time.Hour)
		assert.True(t, moved)
		return err
	}))
	v, ttl := read(t, s, "k")
	assert.Equal(t, []byte("w"), v)
	assert.Equal(t, 2*time.Hour, ttl)

	// past its lifetime the record is archived and still reads back
	c.t = c.t.Add(3 * time.Hour)
	v, ttl = read(t, s, "k")
	assert.Equal(t, []byte("w"), v)
	assert.Equal(t, -time.Hour, ttl)

	require.NoError(t, s.Update(func(txn contract.Txn) error {
		moved, err := txn.ExtendTTL([]byte("k"), time.Hour, 2*time.Hour)
		assert.True(t, moved)
		return err
	}))
	_, ttl = read(t, s, "k")
	assert.Equal(t, 2*time.Hour, ttl)
}

func TestStoreOnDisk(t *testing.T) {
	defer goleak.VerifyNone(t)
	path := filepath.Join(t.TempDir(), "state")
	s, err := leveldb.Open(path, &leveldb.Options{ReadCacheMB: 8, WriteBufferMB: 4})
	require.NoError(t, err)
	require.NoError(t, s.Update(func(txn contract.Txn) error {
		return txn.Set([]byte{0x01}, []byte("hive:tibfox"))
	}))
	require.NoError(t, s.Close())

	s, err = leveldb.Open(path, nil)
	require.NoError(t, err)
	defer s.Close()
	v, ttl := read(t, s, string([]byte{0x01}))
	assert.Equal(t, []byte("hive:tibfox"), v)
	assert.Positive(t, ttl)
}
