package contract

import (
	"fmt"
	"math/bits"

	"stake_gov/contract/dao"
	"stake_gov/sdk"
)

// GetIsProposalPassed resolves a closed proposal against the quorum rule. It fails
// with ErrVotingStillOpen until the ledger time is past the proposal's end.
func (c *Contract) GetIsProposalPassed(env sdk.Env, proposalID uint32) (bool, error) {
	return query(c, env, "get_is_proposal_passed", func(ctx *opContext) (bool, error) {
		p, err := ctx.requireProposal(proposalID)
		if err != nil {
			return false, err
		}
		if votingOpen(p, ctx.now) {
			return false, fmt.Errorf("%w: proposal %d ends at %d", ErrVotingStillOpen, proposalID, p.VoteEndAt)
		}
		tally, err := ctx.loadVotes(proposalID)
		if err != nil {
			return false, err
		}
		q, err := ctx.loadQuorum()
		if err != nil {
			return false, err
		}
		return quorumReached(tally, q), nil
	})
}

// quorumReached needs strictly more than MinTotalVotes ballots and strictly more yes
// votes than TotalVotes*PercentYes. The product is taken in 128 bits so it cannot wrap.
func quorumReached(v dao.Votes, q dao.QuorumRequirements) bool {
	if v.TotalVotes <= q.MinTotalVotes {
		return false
	}
	hi, lo := bits.Mul64(v.TotalVotes, q.PercentYes)
	return hi == 0 && v.YesVotes > lo
}
