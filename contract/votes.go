package contract

import (
	"fmt"

	"stake_gov/contract/dao"
	"stake_gov/sdk"
)

// CastVote records a single yes/no ballot. Eligibility is checked live against the
// current stake. By default the proposal is neither looked up nor checked for an open
// window; WithEnforceVoteWindow adds both checks.
func (c *Contract) CastVote(env sdk.Env, voter sdk.Address, yes bool, proposalID uint32) error {
	return c.update(env, "cast_vote", func(ctx *opContext) error {
		if c.voterAuth {
			if err := ctx.requireAuth(voter); err != nil {
				return err
			}
		}
		eligible, err := ctx.canVote(voter)
		if err != nil {
			return err
		}
		if !eligible {
			return fmt.Errorf("%w: %s", ErrNotEligible, voter)
		}
		voted, err := ctx.hasVoted(voter, proposalID)
		if err != nil {
			return err
		}
		if voted {
			return fmt.Errorf("%w: %s on proposal %d", ErrAlreadyVoted, voter, proposalID)
		}
		if c.enforceVoteWindow {
			p, err := ctx.requireProposal(proposalID)
			if err != nil {
				return err
			}
			if !votingOpen(p, ctx.now) {
				return fmt.Errorf("%w: proposal %d ended at %d", ErrVotingClosed, proposalID, p.VoteEndAt)
			}
		}
		tally, err := ctx.loadVotes(proposalID)
		if err != nil {
			return err
		}
		tally.TotalVotes++
		if yes {
			tally.YesVotes++
		}
		if err := ctx.markVoted(voter, proposalID); err != nil {
			return err
		}
		if err := ctx.storeVotes(proposalID, tally); err != nil {
			return err
		}
		ctx.emitVoteCastEvent(proposalID, voter, yes)
		choice := "no"
		if yes {
			choice = "yes"
		}
		ctx.onCommit = append(ctx.onCommit, c.metrics.votesCast.WithLabelValues(choice).Inc)
		return nil
	})
}

// GetProposalVotes returns the tally. While voting is open only the administrator and
// principals that already voted may look.
func (c *Contract) GetProposalVotes(env sdk.Env, requester sdk.Address, proposalID uint32) (dao.Votes, error) {
	return query(c, env, "get_proposal_votes", func(ctx *opContext) (dao.Votes, error) {
		p, err := ctx.requireProposal(proposalID)
		if err != nil {
			return dao.Votes{}, err
		}
		admin, err := ctx.loadAdmin()
		if err != nil {
			return dao.Votes{}, err
		}
		if admin == "" || requester != admin {
			voted, err := ctx.hasVoted(requester, proposalID)
			if err != nil {
				return dao.Votes{}, err
			}
			if !voted && votingOpen(p, ctx.now) {
				return dao.Votes{}, ErrResultsNotYetVisible
			}
		}
		return ctx.loadVotes(proposalID)
	})
}

// GetUserHasVoted is false for unknown voters and proposals.
func (c *Contract) GetUserHasVoted(voter sdk.Address, proposalID uint32) (bool, error) {
	return query(c, sdk.Env{}, "get_user_has_voted", func(ctx *opContext) (bool, error) {
		return ctx.hasVoted(voter, proposalID)
	})
}
