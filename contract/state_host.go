package contract

import (
	"math"
	"time"

	"stake_gov/sdk"
)

// HostStore keeps state in the contract kv of the wasm host. The host has no record
// lifetimes, so keys never expire and extensions are no-ops. Writes are buffered and
// flushed only when the call succeeds.
type HostStore struct{}

func NewHostStore() HostStore { return HostStore{} }

func (HostStore) Update(fn func(Txn) error) error {
	txn := &hostTxn{writes: map[string]*string{}}
	if err := fn(txn); err != nil {
		return err
	}
	for k, v := range txn.writes {
		if v == nil {
			sdk.StateDeleteObject(k)
			continue
		}
		sdk.StateSetObject(k, *v)
	}
	return nil
}

func (HostStore) Close() error { return nil }

type hostTxn struct {
	writes map[string]*string
}

func (t *hostTxn) lookup(key []byte) *string {
	if v, ok := t.writes[string(key)]; ok {
		return v
	}
	return sdk.StateGetObject(string(key))
}

func (t *hostTxn) Get(key []byte) ([]byte, error) {
	v := t.lookup(key)
	if v == nil {
		return nil, nil
	}
	return []byte(*v), nil
}

func (t *hostTxn) Set(key, value []byte) error {
	v := string(value)
	t.writes[string(key)] = &v
	return nil
}

func (t *hostTxn) Delete(key []byte) error {
	t.writes[string(key)] = nil
	return nil
}

func (t *hostTxn) ExtendTTL(key []byte, threshold, extendTo time.Duration) (bool, error) {
	return false, nil
}

func (t *hostTxn) TTL(key []byte) (time.Duration, error) {
	if t.lookup(key) == nil {
		return 0, nil
	}
	return time.Duration(math.MaxInt64), nil
}
