package contract

import "errors"

var (
	ErrAlreadyInitialized    = errors.New("already initialized")
	ErrNotInitialized        = errors.New("contract not initialized")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrInvalidAddress        = errors.New("invalid address")
	ErrNotEligible           = errors.New("not eligible to vote")
	ErrInvalidProposal       = errors.New("invalid proposal")
	ErrProposalNotFound      = errors.New("proposal not found")
	ErrProposalAlreadyExists = errors.New("proposal already exists")
	ErrAlreadyVoted          = errors.New("already voted")
	ErrResultsNotYetVisible  = errors.New("vote before you can see the result")
	ErrInsufficientStake     = errors.New("cannot unstake more than staked")
	ErrInvalidAmount         = errors.New("amount must be positive")
	ErrAmountOverflow        = errors.New("amount overflows 2^127-1")
	ErrVotingStillOpen       = errors.New("voting still open")
	ErrVotingClosed          = errors.New("voting closed")
	ErrTransferFailed        = errors.New("token transfer failed")
	ErrGovernanceTokenNotSet = errors.New("governance token not set")
)

// ErrorCode maps a contract error onto a stable short code for transports and metrics.
// Unknown errors map to "internal".
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrAlreadyInitialized):
		return "already_initialized"
	case errors.Is(err, ErrNotInitialized):
		return "not_initialized"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrInvalidAddress):
		return "invalid_address"
	case errors.Is(err, ErrNotEligible):
		return "not_eligible"
	case errors.Is(err, ErrInvalidProposal):
		return "invalid_proposal"
	case errors.Is(err, ErrProposalNotFound):
		return "proposal_not_found"
	case errors.Is(err, ErrProposalAlreadyExists):
		return "proposal_already_exists"
	case errors.Is(err, ErrAlreadyVoted):
		return "already_voted"
	case errors.Is(err, ErrResultsNotYetVisible):
		return "results_not_yet_visible"
	case errors.Is(err, ErrInsufficientStake):
		return "insufficient_stake"
	case errors.Is(err, ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, ErrAmountOverflow):
		return "amount_overflow"
	case errors.Is(err, ErrVotingStillOpen):
		return "voting_still_open"
	case errors.Is(err, ErrVotingClosed):
		return "voting_closed"
	case errors.Is(err, ErrTransferFailed):
		return "transfer_failed"
	case errors.Is(err, ErrGovernanceTokenNotSet):
		return "governance_token_not_set"
	default:
		return "internal"
	}
}
