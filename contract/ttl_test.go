package contract_test

import (
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stake_gov/contract"
	"stake_gov/contract/dao"
)

// adminKey mirrors the single-byte admin record key.
var adminKey = []byte{0x01}

func (f *fixture) ttl(key []byte) time.Duration {
	f.t.Helper()
	var ttl time.Duration
	require.NoError(f.t, f.store.Update(func(txn contract.Txn) error {
		var err error
		ttl, err = txn.TTL(key)
		return err
	}))
	return ttl
}

func TestRecordLifetimeIsExtendedOnAccess(t *testing.T) {
	f := newFixture(t)
	bump := time.Duration(contract.BumpAmount) * contract.DefaultLedgerInterval
	assert.Equal(t, bump, f.ttl(adminKey), "fresh records start at the full bump")

	// well above the threshold, so reading does not move the expiry
	f.advance(10 * 60 * 60)
	_, err := f.gov.GetAdmin()
	require.NoError(t, err)
	assert.Equal(t, bump-10*time.Hour, f.ttl(adminKey))

	// two days in, the remaining lifetime dropped below the threshold
	f.advance(38 * 60 * 60)
	_, err = f.gov.GetAdmin()
	require.NoError(t, err)
	assert.Equal(t, bump, f.ttl(adminKey))
}

// An untouched record is archived, not dropped: it keeps its value and the next
// access restores the full lifetime.
func TestIdleRecordsAreArchivedNotDropped(t *testing.T) {
	f := newFixture(t)
	f.advance(31 * day)
	assert.Negative(t, f.ttl(adminKey))

	admin, err := f.gov.GetAdmin()
	require.NoError(t, err)
	assert.Equal(t, adminAddress, admin)
	asset, err := f.gov.GetGovernanceToken()
	require.NoError(t, err)
	assert.Equal(t, govToken, asset)

	bump := time.Duration(contract.BumpAmount) * contract.DefaultLedgerInterval
	assert.Equal(t, bump, f.ttl(adminKey))
}

func TestAdminCannotBeReclaimedAfterIdle(t *testing.T) {
	f := newFixture(t)
	f.advance(31 * day)

	assert.ErrorIs(t, f.gov.Initialize(f.env(bob), bob), contract.ErrAlreadyInitialized)
	admin, err := f.gov.GetAdmin()
	require.NoError(t, err)
	assert.Equal(t, adminAddress, admin)
}

func TestIdleStakeKeepsTotalsConsistent(t *testing.T) {
	f := newFixture(t)
	f.stake(alice, 100)
	for i := 0; i < 40; i++ {
		f.advance(day)
		f.stake(bob, 1)
	}

	assert.Equal(t, uint64(100), f.userStake(alice))
	assert.Equal(t, uint64(40), f.userStake(bob))
	assert.Equal(t, uint64(140), f.totalStaked())

	require.NoError(t, f.gov.Unstake(f.env(alice), alice, uint256.NewInt(100)))
	assert.Zero(t, f.userStake(alice))
	assert.Equal(t, uint64(40), f.totalStaked())
	assert.Equal(t, uint64(1000), f.balance(alice))
	assert.Equal(t, uint64(40), f.balance(contractAddr))
}

func TestIdleBallotStillCountsOnce(t *testing.T) {
	f := newFixture(t)
	f.propose(1, alice, "T", f.now+day)
	require.NoError(t, f.vote(bob, true, 1))

	f.advance(40 * day)
	assert.ErrorIs(t, f.vote(bob, true, 1), contract.ErrAlreadyVoted)
	assert.True(t, f.hasVoted(bob, 1))
	assert.Equal(t, dao.Votes{YesVotes: 1, TotalVotes: 1}, f.tally(1))
}

func TestLedgerIntervalScalesLifetimes(t *testing.T) {
	f := newBareFixture(t, contract.WithLedgerInterval(time.Second))
	require.NoError(t, f.gov.Initialize(f.env(), adminAddress))
	assert.Equal(t, time.Duration(contract.BumpAmount)*time.Second, f.ttl(adminKey))
}

func TestCachedProposalSurvivesIdle(t *testing.T) {
	f := newFixture(t)
	f.propose(1, alice, "T", f.now+day)
	_, err := f.gov.GetProposal(1)
	require.NoError(t, err)

	f.advance(31 * day)
	p, err := f.gov.GetProposal(1)
	require.NoError(t, err)
	assert.Equal(t, "T", p.Title)
}
