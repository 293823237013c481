package contract_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stake_gov/contract"
	"stake_gov/sdk"
)

func TestHostStoreFlushesOnlyOnSuccess(t *testing.T) {
	sdk.ResetHost(sdk.Env{})
	s := contract.NewHostStore()

	require.NoError(t, s.Update(func(txn contract.Txn) error {
		return txn.Set([]byte("k"), []byte("v"))
	}))
	assert.Equal(t, "v", *sdk.StateGetObject("k"))

	err := s.Update(func(txn contract.Txn) error {
		require.NoError(t, txn.Delete([]byte("k")))
		require.NoError(t, txn.Set([]byte("j"), []byte("x")))
		v, err := txn.Get([]byte("k"))
		require.NoError(t, err)
		assert.Nil(t, v)
		return errors.New("abort")
	})
	require.Error(t, err)
	assert.Equal(t, "v", *sdk.StateGetObject("k"))
	assert.Nil(t, sdk.StateGetObject("j"))

	require.NoError(t, s.Update(func(txn contract.Txn) error {
		ttl, err := txn.TTL([]byte("k"))
		assert.Equal(t, time.Duration(math.MaxInt64), ttl)
		if err != nil {
			return err
		}
		moved, err := txn.ExtendTTL([]byte("k"), time.Hour, 2*time.Hour)
		assert.False(t, moved)
		if err != nil {
			return err
		}
		return txn.Delete([]byte("k"))
	}))
	assert.Nil(t, sdk.StateGetObject("k"))
}
