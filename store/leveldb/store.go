// Package leveldb keeps contract state in goleveldb. Every value carries an 8-byte
// big-endian expiry header (unix nanoseconds). Records past their expiry stay in place
// as archived until an extension restores them.
package leveldb

import (
	"encoding/binary"
	"time"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	dberrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"

	"stake_gov/contract"
)

const headerSize = 8

var (
	writeOpt = opt.WriteOptions{Sync: true}
	readOpt  = opt.ReadOptions{}
)

// Options tunes the on-disk store.
type Options struct {
	// ReadCacheMB is the block cache size.
	ReadCacheMB int
	// WriteBufferMB is the memtable size.
	WriteBufferMB int
	// OpenFilesCacheCapacity bounds open table files.
	OpenFilesCacheCapacity int
	// MinLifetime is the lifetime freshly written keys start with.
	MinLifetime time.Duration
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Store implements contract.Store on top of leveldb transactions.
type Store struct {
	db          *leveldb.DB
	now         func() time.Time
	minLifetime time.Duration
}

var _ contract.Store = (*Store)(nil)

// Open opens or creates the store at path, recovering a corrupted manifest.
func Open(path string, options *Options) (*Store, error) {
	if options == nil {
		options = &Options{}
	}
	ldbOpts := opt.Options{
		OpenFilesCacheCapacity: options.OpenFilesCacheCapacity,
		BlockCacheCapacity:     options.ReadCacheMB * opt.MiB,
		WriteBuffer:            options.WriteBufferMB * opt.MiB,
		Filter:                 filter.NewBloomFilter(10),
	}
	db, err := leveldb.OpenFile(path, &ldbOpts)
	if _, corrupted := err.(*dberrors.ErrCorrupted); corrupted {
		db, err = leveldb.RecoverFile(path, &ldbOpts)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "open leveldb at %s", path)
	}
	return newStore(db, options), nil
}

// NewMem creates a memory-backed store.
func NewMem(options *Options) (*Store, error) {
	if options == nil {
		options = &Options{}
	}
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "open memory leveldb")
	}
	return newStore(db, options), nil
}

func newStore(db *leveldb.DB, options *Options) *Store {
	s := &Store{db: db, now: options.Clock, minLifetime: options.MinLifetime}
	if s.now == nil {
		s.now = time.Now
	}
	if s.minLifetime <= 0 {
		s.minLifetime = contract.DefaultMinLifetime
	}
	return s
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Update runs fn inside a leveldb transaction. Only one transaction can be open at a
// time, so concurrent calls queue up.
func (s *Store) Update(fn func(contract.Txn) error) error {
	tr, err := s.db.OpenTransaction()
	if err != nil {
		return errors.Wrap(err, "open transaction")
	}
	if err := fn(&txn{tr: tr, store: s, now: s.now()}); err != nil {
		tr.Discard()
		return err
	}
	if err := tr.Commit(); err != nil {
		tr.Discard()
		return errors.Wrap(err, "commit transaction")
	}
	return nil
}

type txn struct {
	tr    *leveldb.Transaction
	store *Store
	now   time.Time
}

type record struct {
	expiresAt time.Time
	value     []byte
}

func encodeRecord(expiresAt time.Time, value []byte) []byte {
	buf := make([]byte, headerSize+len(value))
	binary.BigEndian.PutUint64(buf, uint64(expiresAt.UnixNano())) //nolint:gosec // post-1970 times only
	copy(buf[headerSize:], value)
	return buf
}

// load returns nil for absent keys.
func (t *txn) load(key []byte) (*record, error) {
	raw, err := t.tr.Get(key, &readOpt)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "get %x", key)
	}
	if len(raw) < headerSize {
		return nil, errors.Errorf("record %x: short header", key)
	}
	expiresAt := time.Unix(0, int64(binary.BigEndian.Uint64(raw))) //nolint:gosec // written by encodeRecord
	return &record{expiresAt: expiresAt, value: append([]byte(nil), raw[headerSize:]...)}, nil
}

func (t *txn) Get(key []byte) ([]byte, error) {
	rec, err := t.load(key)
	if err != nil || rec == nil {
		return nil, err
	}
	return rec.value, nil
}

func (t *txn) Set(key, value []byte) error {
	rec, err := t.load(key)
	if err != nil {
		return err
	}
	expiresAt := t.now.Add(t.store.minLifetime)
	if rec != nil {
		expiresAt = rec.expiresAt
	}
	return errors.Wrapf(t.tr.Put(key, encodeRecord(expiresAt, value), &writeOpt), "put %x", key)
}

func (t *txn) Delete(key []byte) error {
	return errors.Wrapf(t.tr.Delete(key, &writeOpt), "delete %x", key)
}

func (t *txn) ExtendTTL(key []byte, threshold, extendTo time.Duration) (bool, error) {
	rec, err := t.load(key)
	if err != nil || rec == nil {
		return false, err
	}
	if rec.expiresAt.Sub(t.now) >= threshold {
		return false, nil
	}
	if err := t.tr.Put(key, encodeRecord(t.now.Add(extendTo), rec.value), &writeOpt); err != nil {
		return false, errors.Wrapf(err, "extend %x", key)
	}
	return true, nil
}

func (t *txn) TTL(key []byte) (time.Duration, error) {
	rec, err := t.load(key)
	if err != nil || rec == nil {
		return 0, err
	}
	return rec.expiresAt.Sub(t.now), nil
}
