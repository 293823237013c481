package contract

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// MemoryStoreConfig tunes a MemoryStore. The zero value is a purely in-memory store.
type MemoryStoreConfig struct {
	// File, when set, receives a JSON snapshot of the whole map after every commit.
	File string
	// Clock defaults to time.Now.
	Clock func() time.Time
	// MinLifetime defaults to DefaultMinLifetime.
	MinLifetime time.Duration
}

type memEntry struct {
	Value     []byte    `json:"value"`
	ExpiresAt time.Time `json:"expires_at"`
}

// MemoryStore keeps every record in a map. Transactions buffer their writes and only
// touch the map on commit.
type MemoryStore struct {
	mu          sync.Mutex
	db          map[string]memEntry
	filename    string
	now         func() time.Time
	minLifetime time.Duration
}

func NewMemoryStore(cfg MemoryStoreConfig) *MemoryStore {
	m := &MemoryStore{
		db:          make(map[string]memEntry),
		filename:    cfg.File,
		now:         cfg.Clock,
		minLifetime: cfg.MinLifetime,
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.minLifetime <= 0 {
		m.minLifetime = DefaultMinLifetime
	}
	return m
}

func (m *MemoryStore) Update(fn func(Txn) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	txn := &memTxn{store: m, now: m.now(), writes: map[string]*memEntry{}}
	if err := fn(txn); err != nil {
		return err
	}
	if len(txn.writes) == 0 {
		return nil
	}
	if m.filename == "" {
		applyWrites(m.db, txn.writes)
		return nil
	}
	// the snapshot is taken from a staged copy, the live map only moves once it is on disk
	staged := make(map[string]memEntry, len(m.db)+len(txn.writes))
	for k, e := range m.db {
		staged[k] = e
	}
	applyWrites(staged, txn.writes)
	if err := saveToFile(m.filename, staged); err != nil {
		return fmt.Errorf("snapshot %s: %w", m.filename, err)
	}
	m.db = staged
	return nil
}

func applyWrites(db map[string]memEntry, writes map[string]*memEntry) {
	for k, e := range writes {
		if e == nil {
			delete(db, k)
			continue
		}
		db[k] = *e
	}
}

func (m *MemoryStore) Close() error { return nil }

// Len counts stored records, archived ones included.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.db)
}

// Archived counts records whose lifetime ran out.
func (m *MemoryStore) Archived() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	n := 0
	for _, e := range m.db {
		if !e.ExpiresAt.After(now) {
			n++
		}
	}
	return n
}

// saveToFile writes the full map to a JSON file, keys hex encoded.
func saveToFile(filename string, db map[string]memEntry) error {
	out := make(map[string]memEntry, len(db))
	for k, e := range db {
		out[hex.EncodeToString([]byte(k))] = e
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	tmp := filename + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, filename)
}

// LoadFromFile replaces the map with the snapshot on disk. A missing file is not an error.
func (m *MemoryStore) LoadFromFile() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.filename == "" {
		return nil
	}
	data, err := os.ReadFile(m.filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	in := map[string]memEntry{}
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("decode snapshot %s: %w", m.filename, err)
	}
	db := make(map[string]memEntry, len(in))
	for k, e := range in {
		raw, err := hex.DecodeString(k)
		if err != nil {
			return fmt.Errorf("decode snapshot key %q: %w", k, err)
		}
		db[string(raw)] = e
	}
	m.db = db
	return nil
}

type memTxn struct {
	store  *MemoryStore
	now    time.Time
	writes map[string]*memEntry
}

// lookup resolves key against pending writes first, then the committed map.
func (t *memTxn) lookup(key []byte) (memEntry, bool) {
	k := string(key)
	if e, ok := t.writes[k]; ok {
		if e == nil {
			return memEntry{}, false
		}
		return *e, true
	}
	e, ok := t.store.db[k]
	return e, ok
}

func (t *memTxn) Get(key []byte) ([]byte, error) {
	e, ok := t.lookup(key)
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), e.Value...), nil
}

func (t *memTxn) Set(key, value []byte) error {
	expires := t.now.Add(t.store.minLifetime)
	if e, ok := t.lookup(key); ok {
		expires = e.ExpiresAt
	}
	t.writes[string(key)] = &memEntry{Value: append([]byte(nil), value...), ExpiresAt: expires}
	return nil
}

func (t *memTxn) Delete(key []byte) error {
	t.writes[string(key)] = nil
	return nil
}

func (t *memTxn) ExtendTTL(key []byte, threshold, extendTo time.Duration) (bool, error) {
	e, ok := t.lookup(key)
	if !ok || e.ExpiresAt.Sub(t.now) >= threshold {
		return false, nil
	}
	e.ExpiresAt = t.now.Add(extendTo)
	t.writes[string(key)] = &e
	return true, nil
}

func (t *memTxn) TTL(key []byte) (time.Duration, error) {
	e, ok := t.lookup(key)
	if !ok {
		return 0, nil
	}
	return e.ExpiresAt.Sub(t.now), nil
}
