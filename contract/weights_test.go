package contract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stake_gov/contract"
	"stake_gov/contract/dao"
	"stake_gov/sdk"
)

func (f *fixture) canVote(who sdk.Address) bool {
	f.t.Helper()
	ok, err := f.gov.GetUserCanVote(who)
	require.NoError(f.t, err)
	return ok
}

func TestDefaultWeightMakesEveryoneEligible(t *testing.T) {
	f := newFixture(t)
	w, err := f.gov.GetTokenVoteWeight()
	require.NoError(t, err)
	assert.Equal(t, dao.VotesWeight{}, w)
	assert.True(t, f.canVote("hive:nobody"))
}

// staker_weight=100; Alice stakes 150 and is eligible, Bob stakes 50 and is not.
func TestEligibilityFollowsStakerWeight(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.gov.SetTokenVoteWeight(f.env(), 100, 0))

	f.stake(alice, 150)
	assert.True(t, f.canVote(alice))
	f.stake(bob, 50)
	assert.False(t, f.canVote(bob))

	// exactly the weight is enough
	f.stake(bob, 50)
	assert.True(t, f.canVote(bob))

	// eligibility is live, not snapshotted
	require.NoError(t, f.gov.SetTokenVoteWeight(f.env(), 151, 0))
	assert.False(t, f.canVote(alice))
}

func TestSetTokenVoteWeightIsOpenByDefault(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.gov.SetTokenVoteWeight(f.env(), 10, 20))
	w, err := f.gov.GetTokenVoteWeight()
	require.NoError(t, err)
	assert.Equal(t, dao.VotesWeight{StakerWeight: 10, HolderWeight: 20}, w)
	assert.Equal(t, []string{"vw|sw:10|hw:20"}, f.events)
}

func TestAdminGatedWeights(t *testing.T) {
	f := newFixture(t, contract.WithAdminGatedWeights(true))
	assert.ErrorIs(t, f.gov.SetTokenVoteWeight(f.env(alice), 10, 0), contract.ErrUnauthorized)
	require.NoError(t, f.gov.SetTokenVoteWeight(f.env(adminAddress), 10, 0))

	w, err := f.gov.GetTokenVoteWeight()
	require.NoError(t, err)
	assert.Equal(t, uint32(10), w.StakerWeight)

	bare := newBareFixture(t, contract.WithAdminGatedWeights(true))
	assert.ErrorIs(t, bare.gov.SetTokenVoteWeight(bare.env(adminAddress), 10, 0), contract.ErrNotInitialized)
}
