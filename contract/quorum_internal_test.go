package contract

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"stake_gov/contract/dao"
)

func TestQuorumReached(t *testing.T) {
	cases := []struct {
		name   string
		votes  dao.Votes
		quorum dao.QuorumRequirements
		want   bool
	}{
		{"no ballots", dao.Votes{}, dao.QuorumRequirements{}, false},
		{"one yes, zero rule", dao.Votes{YesVotes: 1, TotalVotes: 1}, dao.QuorumRequirements{}, true},
		{"one no, zero rule", dao.Votes{YesVotes: 0, TotalVotes: 1}, dao.QuorumRequirements{}, false},
		{"total equals min", dao.Votes{YesVotes: 2, TotalVotes: 2}, dao.QuorumRequirements{MinTotalVotes: 2}, false},
		{"yes,yes,no with min 2", dao.Votes{YesVotes: 2, TotalVotes: 3}, dao.QuorumRequirements{MinTotalVotes: 2}, true},
		// a multiplier of 1 demands more yes votes than ballots, which never happens
		{"multiplier one", dao.Votes{YesVotes: 5, TotalVotes: 5}, dao.QuorumRequirements{PercentYes: 1}, false},
		{"huge multiplier does not wrap", dao.Votes{YesVotes: 3, TotalVotes: 3}, dao.QuorumRequirements{PercentYes: math.MaxUint64}, false},
		{"huge tally", dao.Votes{YesVotes: math.MaxUint64, TotalVotes: math.MaxUint64}, dao.QuorumRequirements{MinTotalVotes: math.MaxUint64 - 1}, true},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, quorumReached(tc.votes, tc.quorum))
		})
	}
}

func TestVotingOpen(t *testing.T) {
	p := &dao.Proposal{VoteEndAt: 100}
	assert.True(t, votingOpen(p, 99))
	assert.True(t, votingOpen(p, 100))
	assert.False(t, votingOpen(p, 101))
}

func TestStateKeys(t *testing.T) {
	assert.Equal(t, []byte{kProposal, 0x01, 0x02, 0x00, 0x00}, proposalKey(0x0201))
	assert.Equal(t, []byte{kProposalVotes, 0x07, 0, 0, 0}, proposalVotesKey(7))
	assert.Equal(t, append([]byte{kHasVoted, 0x07, 0, 0, 0}, "hive:bob"...), hasVotedKey("hive:bob", 7))
	assert.Equal(t, append([]byte{kStakedAmount}, "hive:bob"...), stakedAmountKey("hive:bob"))
	assert.NotEqual(t, hasVotedKey("hive:bob", 1), hasVotedKey("hive:bob", 2))
}
