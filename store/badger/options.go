package badger

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	DefaultBlockCacheSize   uint64 = 64 << 20
	DefaultIndexCacheSize   uint64 = 32 << 20
	DefaultValueLogFileSize        = 256 << 20
	DefaultMemTableSize            = 32 << 20
	DefaultValueThreshold          = 1 << 10
	DefaultGcInterval              = 5 * time.Minute
)

type StoreOptionFunc func(*Store)

func WithLogger(logger *slog.Logger) StoreOptionFunc {
	return func(s *Store) {
		s.logger = logger
	}
}

func WithPromRegistry(registry prometheus.Registerer) StoreOptionFunc {
	return func(s *Store) {
		s.promRegistry = registry
	}
}

// WithDataDir persists the store below dataDir. Without it the store lives in memory.
func WithDataDir(dataDir string) StoreOptionFunc {
	return func(s *Store) {
		s.dataDir = dataDir
	}
}

// WithMinLifetime sets the lifetime freshly written keys start with.
func WithMinLifetime(d time.Duration) StoreOptionFunc {
	return func(s *Store) {
		s.minLifetime = d
	}
}

// WithClock replaces the wall clock used for record lifetimes.
func WithClock(now func() time.Time) StoreOptionFunc {
	return func(s *Store) {
		s.now = now
	}
}

func WithBlockCacheSize(size uint64) StoreOptionFunc {
	return func(s *Store) {
		s.blockCacheSize = size
	}
}

func WithIndexCacheSize(size uint64) StoreOptionFunc {
	return func(s *Store) {
		s.indexCacheSize = size
	}
}

func WithGc(enabled bool) StoreOptionFunc {
	return func(s *Store) {
		s.gcEnabled = enabled
	}
}

func WithGcInterval(interval time.Duration) StoreOptionFunc {
	return func(s *Store) {
		s.gcInterval = interval
	}
}

func WithValueLogFileSize(size int64) StoreOptionFunc {
	return func(s *Store) {
		s.valueLogFileSize = size
	}
}

func WithMemTableSize(size int64) StoreOptionFunc {
	return func(s *Store) {
		s.memTableSize = size
	}
}

func WithValueThreshold(threshold int64) StoreOptionFunc {
	return func(s *Store) {
		s.valueThreshold = threshold
	}
}
