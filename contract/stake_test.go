package contract_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stake_gov/contract"
	"stake_gov/contract/dao"
	"stake_gov/sdk"
	"stake_gov/token"
)

func TestStakeAndUnstake(t *testing.T) {
	f := newFixture(t)

	f.stake(alice, 150)
	assert.Equal(t, uint64(150), f.userStake(alice))
	assert.Equal(t, uint64(150), f.totalStaked())
	assert.Equal(t, uint64(850), f.balance(alice))
	assert.Equal(t, uint64(150), f.balance(contractAddr))

	require.NoError(t, f.gov.Unstake(f.env(alice), alice, uint256.NewInt(50)))
	assert.Equal(t, uint64(100), f.userStake(alice))
	assert.Equal(t, uint64(100), f.totalStaked())
	assert.Equal(t, uint64(900), f.balance(alice))

	assert.Equal(t, []string{
		"sk|by:hive:alice|am:150|as:gov",
		"us|to:hive:alice|am:50|as:gov",
	}, f.events)
}

func TestStakeRequiresAuth(t *testing.T) {
	f := newFixture(t)

	err := f.gov.Stake(f.env(bob), alice, uint256.NewInt(10))
	assert.ErrorIs(t, err, contract.ErrUnauthorized)
	err = f.gov.Unstake(f.env(bob), alice, uint256.NewInt(10))
	assert.ErrorIs(t, err, contract.ErrUnauthorized)

	assert.Zero(t, f.userStake(alice))
	assert.Equal(t, uint64(1000), f.balance(alice))
	assert.Empty(t, f.events)
}

func TestStakeRejectsNonPositiveAmounts(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.gov.Stake(f.env(alice), alice, uint256.NewInt(0)), contract.ErrInvalidAmount)
	assert.ErrorIs(t, f.gov.Stake(f.env(alice), alice, nil), contract.ErrInvalidAmount)
	assert.ErrorIs(t, f.gov.Unstake(f.env(alice), alice, uint256.NewInt(0)), contract.ErrInvalidAmount)
}

func TestStakeWithoutGovernanceToken(t *testing.T) {
	f := newBareFixture(t)
	require.NoError(t, f.gov.Initialize(f.env(), adminAddress))
	err := f.gov.Stake(f.env(alice), alice, uint256.NewInt(10))
	assert.ErrorIs(t, err, contract.ErrGovernanceTokenNotSet)
	assert.Equal(t, uint64(1000), f.balance(alice))
}

func TestStakeTransferFailureLeavesStateUntouched(t *testing.T) {
	f := newFixture(t)
	f.stake(alice, 100)

	err := f.gov.Stake(f.env(bob), bob, uint256.NewInt(1001))
	assert.ErrorIs(t, err, contract.ErrTransferFailed)
	assert.ErrorIs(t, err, token.ErrInsufficientBalance)

	assert.Zero(t, f.userStake(bob))
	assert.Equal(t, uint64(100), f.totalStaked())
	assert.Equal(t, uint64(1000), f.balance(bob))
}

// refusingGateway declines every transfer out of one account.
type refusingGateway struct {
	contract.TokenGateway
	refuse sdk.Address
}

var errPayoutRefused = errors.New("payout refused")

func (g *refusingGateway) Transfer(txn contract.Txn, asset sdk.Asset, from, to sdk.Address, amount *uint256.Int) error {
	if from == g.refuse {
		return errPayoutRefused
	}
	return g.TokenGateway.Transfer(txn, asset, from, to, amount)
}

func TestUnstakeTransferFailureLeavesStateUntouched(t *testing.T) {
	f := newFixture(t)
	f.stake(alice, 100)

	gov, err := contract.New(f.store, &refusingGateway{TokenGateway: f.ledger, refuse: contractAddr},
		contract.WithAddress(contractAddr),
		contract.WithEventSink(func(line string) { f.events = append(f.events, line) }))
	require.NoError(t, err)

	err = gov.Unstake(f.env(alice), alice, uint256.NewInt(40))
	assert.ErrorIs(t, err, contract.ErrTransferFailed)
	assert.ErrorIs(t, err, errPayoutRefused)

	assert.Equal(t, uint64(100), f.userStake(alice))
	assert.Equal(t, uint64(100), f.totalStaked())
	assert.Equal(t, uint64(900), f.balance(alice))
	assert.Equal(t, uint64(100), f.balance(contractAddr))
	assert.Equal(t, []string{"sk|by:hive:alice|am:100|as:gov"}, f.events)
}

func TestStakeOverflow(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ledger.Credit(govToken, alice, new(uint256.Int).SubUint64(dao.MaxAmount, 1000)))

	require.NoError(t, f.gov.Stake(f.env(alice), alice, dao.MaxAmount))
	err := f.gov.Stake(f.env(alice), alice, uint256.NewInt(1))
	assert.ErrorIs(t, err, contract.ErrAmountOverflow)

	// bob's first stake would push the total past the limit
	err = f.gov.Stake(f.env(bob), bob, uint256.NewInt(1))
	assert.ErrorIs(t, err, contract.ErrAmountOverflow)
	assert.Equal(t, uint64(1000), f.balance(bob))

	tooBig := new(uint256.Int).AddUint64(dao.MaxAmount, 1)
	assert.ErrorIs(t, f.gov.Stake(f.env(carol), carol, tooBig), contract.ErrAmountOverflow)

	stake, err := f.gov.GetUserStake(alice)
	require.NoError(t, err)
	assert.True(t, stake.Eq(dao.MaxAmount))
}

func TestUnstakeBoundary(t *testing.T) {
	f := newFixture(t)
	f.stake(alice, 150)
	f.stake(bob, 20)

	err := f.gov.Unstake(f.env(alice), alice, uint256.NewInt(151))
	assert.ErrorIs(t, err, contract.ErrInsufficientStake)
	assert.Equal(t, uint64(150), f.userStake(alice))
	assert.Equal(t, uint64(170), f.totalStaked())
	assert.Equal(t, uint64(850), f.balance(alice))

	require.NoError(t, f.gov.Unstake(f.env(alice), alice, uint256.NewInt(150)))
	assert.Zero(t, f.userStake(alice))
	assert.Equal(t, uint64(20), f.totalStaked())
	assert.Equal(t, uint64(1000), f.balance(alice))

	assert.ErrorIs(t, f.gov.Unstake(f.env(alice), alice, uint256.NewInt(1)), contract.ErrInsufficientStake)
}

func TestUnstakeNeverStaked(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.gov.Unstake(f.env(dave), dave, uint256.NewInt(1)), contract.ErrInsufficientStake)
}

func TestTotalStakedMatchesSumOfStakes(t *testing.T) {
	f := newFixture(t)
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 300; i++ {
		who := principals[rng.Intn(len(principals))]
		amount := uint256.NewInt(uint64(rng.Intn(120)))
		if rng.Intn(2) == 0 {
			_ = f.gov.Stake(f.env(who), who, amount)
		} else {
			_ = f.gov.Unstake(f.env(who), who, amount)
		}

		var sum uint64
		for _, p := range principals {
			sum += f.userStake(p)
		}
		require.Equal(t, sum, f.totalStaked(), "step %d", i)
		require.Equal(t, sum, f.balance(contractAddr), "step %d", i)
	}
}
