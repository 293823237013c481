package contract_test

import (
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"stake_gov/contract"
	"stake_gov/sdk"
	"stake_gov/token"
)

const (
	adminAddress sdk.Address = "hive:tibfox"
	alice        sdk.Address = "hive:alice"
	bob          sdk.Address = "hive:bob"
	carol        sdk.Address = "hive:carol"
	dave         sdk.Address = "hive:dave"
	contractAddr sdk.Address = "contract:gov"
	govToken     sdk.Asset   = "gov"

	// 2025-09-03T00:00:00Z
	genesisTime uint64 = 1756857600
	day         uint64 = 24 * 60 * 60
)

var principals = []sdk.Address{alice, bob, carol, dave}

type fixture struct {
	t      *testing.T
	store  *contract.MemoryStore
	ledger *token.Ledger
	gov    *contract.Contract
	now    uint64
	clock  time.Time
	events []string
}

// newBareFixture builds a contract without initializing it.
func newBareFixture(t *testing.T, opts ...contract.OptionFunc) *fixture {
	f := &fixture{
		t:     t,
		now:   genesisTime,
		clock: time.Unix(int64(genesisTime), 0),
	}
	f.store = contract.NewMemoryStore(contract.MemoryStoreConfig{
		Clock: func() time.Time { return f.clock },
	})
	f.ledger = token.NewLedger(f.store)
	opts = append([]contract.OptionFunc{
		contract.WithAddress(contractAddr),
		contract.WithEventSink(func(line string) { f.events = append(f.events, line) }),
	}, opts...)
	gov, err := contract.New(f.store, f.ledger, opts...)
	require.NoError(t, err)
	f.gov = gov
	for _, p := range principals {
		require.NoError(t, f.ledger.Credit(govToken, p, uint256.NewInt(1000)))
	}
	return f
}

// newFixture initializes the admin and the governance token.
func newFixture(t *testing.T, opts ...contract.OptionFunc) *fixture {
	f := newBareFixture(t, opts...)
	require.NoError(t, f.gov.Initialize(f.env(), adminAddress))
	require.NoError(t, f.gov.SetGovernanceToken(f.env(adminAddress), govToken))
	f.events = nil
	return f
}

// env builds the call snapshot at the current ledger time, authorized by auths.
func (f *fixture) env(auths ...sdk.Address) sdk.Env {
	env := sdk.Env{
		ContractId: contractAddr,
		TxId:       "tx",
		Timestamp:  f.now,
		Sender:     sdk.Sender{RequiredAuths: auths},
	}
	if len(auths) > 0 {
		env.Sender.Address = auths[0]
	}
	return env
}

// advance moves ledger time and the store clock forward together.
func (f *fixture) advance(seconds uint64) {
	f.now += seconds
	f.clock = f.clock.Add(time.Duration(seconds) * time.Second)
}

func (f *fixture) stake(who sdk.Address, amount uint64) {
	f.t.Helper()
	require.NoError(f.t, f.gov.Stake(f.env(who), who, uint256.NewInt(amount)))
}

func (f *fixture) propose(id uint32, creator sdk.Address, title string, end uint64) {
	f.t.Helper()
	require.NoError(f.t, f.gov.CreateProposal(f.env(creator), contract.CreateProposalArgs{
		ID:          id,
		Creator:     creator,
		Title:       title,
		Description: "description of " + title,
		VoteStartAt: f.now,
		VoteEndAt:   end,
	}))
}

func (f *fixture) vote(voter sdk.Address, yes bool, id uint32) error {
	return f.gov.CastVote(f.env(voter), voter, yes, id)
}

func (f *fixture) userStake(who sdk.Address) uint64 {
	f.t.Helper()
	v, err := f.gov.GetUserStake(who)
	require.NoError(f.t, err)
	return v.Uint64()
}

func (f *fixture) totalStaked() uint64 {
	f.t.Helper()
	v, err := f.gov.GetTotalStaked()
	require.NoError(f.t, err)
	return v.Uint64()
}

func (f *fixture) balance(who sdk.Address) uint64 {
	f.t.Helper()
	v, err := f.ledger.Balance(govToken, who)
	require.NoError(f.t, err)
	return v.Uint64()
}
