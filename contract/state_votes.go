package contract

import (
	"fmt"

	"stake_gov/contract/dao"
	"stake_gov/sdk"
)

// loadVotes returns an empty tally for proposals nobody voted on.
func (ctx *opContext) loadVotes(id uint32) (dao.Votes, error) {
	raw, err := ctx.get(proposalVotesKey(id))
	if err != nil || raw == nil {
		return dao.Votes{}, err
	}
	v, err := dao.DecodeVotes(raw)
	if err != nil {
		return dao.Votes{}, fmt.Errorf("decode votes %d: %w", id, err)
	}
	return v, nil
}

func (ctx *opContext) storeVotes(id uint32, v dao.Votes) error {
	return ctx.set(proposalVotesKey(id), dao.EncodeVotes(v))
}

func (ctx *opContext) hasVoted(voter sdk.Address, id uint32) (bool, error) {
	raw, err := ctx.get(hasVotedKey(voter, id))
	if err != nil || raw == nil {
		return false, err
	}
	voted, err := dao.DecodeBool(raw)
	if err != nil {
		return false, fmt.Errorf("decode has-voted %d: %w", id, err)
	}
	return voted, nil
}

func (ctx *opContext) markVoted(voter sdk.Address, id uint32) error {
	return ctx.set(hasVotedKey(voter, id), dao.EncodeBool(true))
}
