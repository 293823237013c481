package badger

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/prometheus/client_golang/prometheus"

	"stake_gov/contract"
)

// Store keeps contract state in badger. Every value carries an 8-byte big-endian expiry
// header (unix nanoseconds). Badger's own entry TTL is never used: a record past its
// expiry is archived, not collected.
type Store struct {
	promRegistry     prometheus.Registerer
	db               *badger.DB
	logger           *slog.Logger
	gcTicker         *time.Ticker
	gcStopCh         chan struct{}
	gcRuns           prometheus.Counter
	dataDir          string
	now              func() time.Time
	gcWg             sync.WaitGroup
	minLifetime      time.Duration
	gcInterval       time.Duration
	blockCacheSize   uint64
	indexCacheSize   uint64
	valueLogFileSize int64
	memTableSize     int64
	valueThreshold   int64
	gcEnabled        bool
}

var _ contract.Store = (*Store)(nil)

// New opens the store.
func New(opts ...StoreOptionFunc) (*Store, error) {
	s := &Store{
		gcEnabled:        true,
		minLifetime:      contract.DefaultMinLifetime,
		gcInterval:       DefaultGcInterval,
		blockCacheSize:   DefaultBlockCacheSize,
		indexCacheSize:   DefaultIndexCacheSize,
		valueLogFileSize: int64(DefaultValueLogFileSize),
		memTableSize:     int64(DefaultMemTableSize),
		valueThreshold:   int64(DefaultValueThreshold),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if s.now == nil {
		s.now = time.Now
	}

	var badgerOpts badger.Options
	if s.dataDir == "" {
		badgerOpts = badger.DefaultOptions("").
			WithLogger(newBadgerLogger(s.logger)).
			// the default INFO logging is a bit verbose
			WithLoggingLevel(badger.WARNING).
			WithInMemory(true).
			WithValueThreshold(s.valueThreshold)
		// value log GC does not apply to in-memory stores
		s.gcEnabled = false
	} else {
		if _, err := os.Stat(s.dataDir); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read data dir: %w", err)
			}
			if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create data dir: %w", err)
			}
		}
		badgerOpts = badger.DefaultOptions(filepath.Join(s.dataDir, "state")).
			WithLogger(newBadgerLogger(s.logger)).
			WithLoggingLevel(badger.WARNING).
			WithBlockCacheSize(int64(s.blockCacheSize)). //nolint:gosec // configured sizes are small
			WithIndexCacheSize(int64(s.indexCacheSize)). //nolint:gosec // configured sizes are small
			WithValueLogFileSize(s.valueLogFileSize).
			WithMemTableSize(s.memTableSize).
			WithValueThreshold(s.valueThreshold).
			WithCompression(options.Snappy)
	}
	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, err
	}
	s.db = db
	if s.promRegistry != nil {
		s.registerMetrics()
	}
	if s.gcEnabled && s.gcInterval > 0 {
		s.gcTicker = time.NewTicker(s.gcInterval)
		s.gcStopCh = make(chan struct{})
		s.gcWg.Add(1)
		go s.valueLogGc(s.gcTicker, s.gcStopCh)
	}
	return s, nil
}

func (s *Store) valueLogGc(t *time.Ticker, stop <-chan struct{}) {
	defer s.gcWg.Done()
	for {
		select {
		case <-t.C:
			for {
				err := s.db.RunValueLogGC(0.5)
				if err != nil {
					if !errors.Is(err, badger.ErrNoRewrite) {
						s.logger.Warn(
							fmt.Sprintf("state DB: GC failure: %s", err),
							"component", "database",
						)
					}
					break
				}
				if s.gcRuns != nil {
					s.gcRuns.Inc()
				}
			}
		case <-stop:
			return
		}
	}
}

// Close stops the GC loop and closes badger.
func (s *Store) Close() error {
	if s.gcTicker != nil {
		s.gcTicker.Stop()
		close(s.gcStopCh)
		s.gcWg.Wait()
		s.gcTicker = nil
	}
	return s.db.Close()
}

// DB returns the database handle
func (s *Store) DB() *badger.DB {
	return s.db
}

// Update runs fn in a read-write badger transaction, committed only when fn succeeds.
func (s *Store) Update(fn func(contract.Txn) error) error {
	return s.db.Update(func(tx *badger.Txn) error {
		return fn(&txn{store: s, tx: tx, now: s.now()})
	})
}

const headerSize = 8

type txn struct {
	store *Store
	tx    *badger.Txn
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
	item, err := t.tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	raw, err := item.ValueCopy(nil)
	if err != nil {
		return nil, err
	}
	if len(raw) < headerSize {
		return nil, fmt.Errorf("record %x: short header", key)
	}
	return &record{
		expiresAt: time.Unix(0, int64(binary.BigEndian.Uint64(raw))), //nolint:gosec // written by encodeRecord
		value:     raw[headerSize:],
	}, nil
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
	return t.tx.Set(key, encodeRecord(expiresAt, value))
}

func (t *txn) Delete(key []byte) error {
	return t.tx.Delete(key)
}

// ExtendTTL rewrites the record with a later expiry.
func (t *txn) ExtendTTL(key []byte, threshold, extendTo time.Duration) (bool, error) {
	rec, err := t.load(key)
	if err != nil || rec == nil {
		return false, err
	}
	if rec.expiresAt.Sub(t.now) >= threshold {
		return false, nil
	}
	if err := t.tx.Set(key, encodeRecord(t.now.Add(extendTo), rec.value)); err != nil {
		return false, err
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
