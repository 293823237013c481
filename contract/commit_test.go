package contract_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stake_gov/contract"
	"stake_gov/sdk"
	"stake_gov/token"
)

type snapshotted struct {
	dir    string
	store  *contract.MemoryStore
	ledger *token.Ledger
	gov    *contract.Contract
	events []string
}

// newSnapshotted builds a contract over a MemoryStore that snapshots into dir.
func newSnapshotted(t *testing.T) *snapshotted {
	t.Helper()
	s := &snapshotted{dir: filepath.Join(t.TempDir(), "data")}
	require.NoError(t, os.Mkdir(s.dir, 0o755))
	s.store = contract.NewMemoryStore(contract.MemoryStoreConfig{File: filepath.Join(s.dir, "state.json")})
	s.ledger = token.NewLedger(s.store)
	gov, err := contract.New(s.store, s.ledger,
		contract.WithAddress(contractAddr),
		contract.WithEventSink(func(line string) { s.events = append(s.events, line) }))
	require.NoError(t, err)
	s.gov = gov
	return s
}

func snapshotEnv(auths ...sdk.Address) sdk.Env {
	env := sdk.Env{ContractId: contractAddr, Timestamp: genesisTime, Sender: sdk.Sender{RequiredAuths: auths}}
	if len(auths) > 0 {
		env.Sender.Address = auths[0]
	}
	return env
}

func TestFailedCommitLeavesAdminUnset(t *testing.T) {
	s := newSnapshotted(t)
	require.NoError(t, os.RemoveAll(s.dir))

	err := s.gov.Initialize(snapshotEnv(), adminAddress)
	assert.ErrorContains(t, err, "snapshot")
	_, err = s.gov.GetAdmin()
	assert.ErrorIs(t, err, contract.ErrNotInitialized)
	assert.Empty(t, s.events)
}

// Token movements share the call's transaction, so a commit that fails after the
// transfer went through leaves balances where they were.
func TestFailedCommitRevertsTransfers(t *testing.T) {
	s := newSnapshotted(t)
	require.NoError(t, s.ledger.Credit(govToken, alice, uint256.NewInt(1000)))
	require.NoError(t, s.gov.Initialize(snapshotEnv(), adminAddress))
	require.NoError(t, s.gov.SetGovernanceToken(snapshotEnv(adminAddress), govToken))
	require.NoError(t, s.gov.Stake(snapshotEnv(alice), alice, uint256.NewInt(100)))
	s.events = nil

	require.NoError(t, os.RemoveAll(s.dir))
	assert.ErrorContains(t, s.gov.Stake(snapshotEnv(alice), alice, uint256.NewInt(50)), "snapshot")
	assert.ErrorContains(t, s.gov.Unstake(snapshotEnv(alice), alice, uint256.NewInt(50)), "snapshot")

	stake, err := s.gov.GetUserStake(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), stake.Uint64())
	total, err := s.gov.GetTotalStaked()
	require.NoError(t, err)
	assert.Equal(t, uint64(100), total.Uint64())

	held, err := s.ledger.Balance(govToken, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(900), held.Uint64())
	escrow, err := s.ledger.Balance(govToken, contractAddr)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), escrow.Uint64())
	assert.Empty(t, s.events)
}
