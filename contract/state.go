package contract

import "time"

// Txn is the store view of a single contract call. Writes become visible to other
// calls only once the enclosing Update returns nil; an error discards all of them.
//
// Lifetimes are bookkeeping only. A record whose lifetime ran out is archived, not
// deleted: it still reads back and the next extension restores it.
type Txn interface {
	// Get returns nil, nil for absent keys.
	Get(key []byte) ([]byte, error)
	// Set writes value. A new key starts with the store's minimum lifetime, an
	// existing key keeps its remaining lifetime.
	Set(key, value []byte) error
	Delete(key []byte) error
	// ExtendTTL pushes the expiry of key out to extendTo from now when less than
	// threshold remains. Absent keys are ignored. It reports whether the lifetime moved.
	ExtendTTL(key []byte, threshold, extendTo time.Duration) (bool, error)
	// TTL returns the remaining lifetime of key, zero when absent and negative once
	// the record is archived.
	TTL(key []byte) (time.Duration, error)
}

// Store is the durable key/value map behind the contract.
type Store interface {
	// Update runs fn inside one all-or-nothing transaction.
	Update(fn func(Txn) error) error
	Close() error
}

// DefaultMinLifetime is the lifetime a freshly written key starts with.
const DefaultMinLifetime = time.Duration(DayInLedgers) * DefaultLedgerInterval
