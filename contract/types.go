package contract

import "stake_gov/sdk"

// CreateProposalArgs carries everything CreateProposal stores.
type CreateProposalArgs struct {
	ID          uint32
	Creator     sdk.Address
	Title       string
	Description string
	VoteStartAt uint64
	VoteEndAt   uint64
}

// CastVoteArgs is the decoded form of a vote payload.
type CastVoteArgs struct {
	Voter      sdk.Address
	Yes        bool
	ProposalID uint32
}
