package contract

import "time"

// -----------------------------------------------------------------------------
// Record Lifetime
// -----------------------------------------------------------------------------

const (
	// DayInLedgers is one day worth of ledgers at the nominal 5 second close time.
	DayInLedgers uint32 = 17280
	// BumpAmount is how far a record's lifetime is pushed out when it gets extended.
	BumpAmount uint32 = 30 * DayInLedgers
	// LifetimeThreshold triggers an extension once less than this many ledgers remain.
	LifetimeThreshold uint32 = BumpAmount - DayInLedgers
)

// DefaultLedgerInterval converts ledger counts into wall-clock lifetimes.
const DefaultLedgerInterval = 5 * time.Second

// DefaultProposalCacheSize bounds the decoded proposal cache.
const DefaultProposalCacheSize = 256

// -----------------------------------------------------------------------------
// Storage Key Prefixes
// -----------------------------------------------------------------------------

const (
	// kAdmin holds the administrator address.
	kAdmin byte = 0x01
	// kGovernanceToken holds the staked asset.
	kGovernanceToken byte = 0x02
	// kQuorum holds the QuorumRequirements singleton.
	kQuorum byte = 0x03
	// kVoteTokenWeight holds the VotesWeight policy.
	kVoteTokenWeight byte = 0x04
	// kTotalStaked holds the global stake sum.
	kTotalStaked byte = 0x05
	// kProposal contains encoded Proposal records.
	kProposal byte = 0x10
	// kProposalVotes holds the running tally per proposal.
	kProposalVotes byte = 0x11
	// kHasVoted flags voter+proposal pairs that already cast a ballot.
	kHasVoted byte = 0x20
	// kStakedAmount holds the stake per staker.
	kStakedAmount byte = 0x30

	// 0x40 and up belong to the token ledger sharing the store.
)
