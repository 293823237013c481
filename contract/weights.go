package contract

import (
	"github.com/holiman/uint256"

	"stake_gov/contract/dao"
	"stake_gov/sdk"
)

// SetTokenVoteWeight replaces the eligibility policy. Anyone may call it unless the
// contract was built WithAdminGatedWeights.
func (c *Contract) SetTokenVoteWeight(env sdk.Env, stakerWeight, holderWeight uint32) error {
	return c.update(env, "set_token_vote_weight", func(ctx *opContext) error {
		if c.adminGatedWeights {
			if err := ctx.requireAdmin(); err != nil {
				return err
			}
		}
		w := dao.VotesWeight{StakerWeight: stakerWeight, HolderWeight: holderWeight}
		if err := ctx.storeVotesWeight(w); err != nil {
			return err
		}
		ctx.emitVoteWeightEvent(w)
		return nil
	})
}

func (c *Contract) GetTokenVoteWeight() (dao.VotesWeight, error) {
	return query(c, sdk.Env{}, "get_token_vote_weight", func(ctx *opContext) (dao.VotesWeight, error) {
		return ctx.loadVotesWeight()
	})
}

// GetUserCanVote reports whether voter's stake reaches the staker weight.
func (c *Contract) GetUserCanVote(voter sdk.Address) (bool, error) {
	return query(c, sdk.Env{}, "get_user_can_vote", func(ctx *opContext) (bool, error) {
		return ctx.canVote(voter)
	})
}

// canVote is evaluated live on every call; a staker weight of 0 admits everyone.
func (ctx *opContext) canVote(voter sdk.Address) (bool, error) {
	w, err := ctx.loadVotesWeight()
	if err != nil {
		return false, err
	}
	stake, err := ctx.loadStake(voter)
	if err != nil {
		return false, err
	}
	return !stake.Lt(uint256.NewInt(uint64(w.StakerWeight))), nil
}
