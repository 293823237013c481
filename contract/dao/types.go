package dao

import "stake_gov/sdk"

// Proposal is immutable once stored. Votes are kept apart under their own key.
type Proposal struct {
	ID          uint32
	Creator     sdk.Address
	Title       string
	Description string
	VoteStartAt uint64
	VoteEndAt   uint64
}

// Clone returns a copy so cached proposals can't be mutated by callers.
func (p *Proposal) Clone() *Proposal {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}

// Votes is the running tally of a proposal. Absent tallies read as zero.
type Votes struct {
	YesVotes   uint64
	TotalVotes uint64
}

// VotesWeight is the stake thresholds policy. Only StakerWeight is used for eligibility;
// HolderWeight is stored and reported but nothing consults it.
type VotesWeight struct {
	StakerWeight uint32
	HolderWeight uint32
}

// QuorumRequirements decide whether a closed proposal passed.
// PercentYes is a raw multiplier on the total vote count, not a percentage.
type QuorumRequirements struct {
	MinTotalVotes uint64
	PercentYes    uint64
}

// GovernanceConfig groups the contract wide singletons. Token is empty until the
// administrator sets it.
type GovernanceConfig struct {
	Admin   sdk.Address
	Token   sdk.Asset
	Weights VotesWeight
	Quorum  QuorumRequirements
}
