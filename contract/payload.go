package contract

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/holiman/uint256"

	"stake_gov/contract/dao"
	"stake_gov/sdk"
)

// Pipe-delimited payloads used by the wasm exports, e.g. "7|hive:alice|title|desc|0|1700000000".

var ErrInvalidPayload = errors.New("invalid payload")

// UnwrapPayload trims the raw payload and strips one layer of quotes some clients add.
func UnwrapPayload(payload *string) (string, error) {
	if payload == nil {
		return "", fmt.Errorf("%w: missing", ErrInvalidPayload)
	}
	raw := strings.TrimSpace(*payload)
	if len(raw) >= 2 {
		first := raw[0]
		last := raw[len(raw)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			if unquoted, err := strconv.Unquote(raw); err == nil {
				raw = unquoted
			} else {
				raw = strings.TrimSpace(raw[1 : len(raw)-1])
			}
		}
	}
	if raw == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidPayload)
	}
	return raw, nil
}

// splitPayload splits raw into exactly n fields.
func splitPayload(raw string, n int) ([]string, error) {
	parts := strings.Split(raw, "|")
	if len(parts) != n {
		return nil, fmt.Errorf("%w: want %d fields, got %d", ErrInvalidPayload, n, len(parts))
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts, nil
}

func parseUint32Field(val string, field string) (uint32, error) {
	n, err := strconv.ParseUint(val, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s %q", ErrInvalidPayload, field, val)
	}
	return uint32(n), nil
}

func parseUint64Field(val string, field string) (uint64, error) {
	n, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s %q", ErrInvalidPayload, field, val)
	}
	return n, nil
}

func parseBoolField(val string) (bool, error) {
	switch strings.ToLower(val) {
	case "1", "true", "yes", "y":
		return true, nil
	case "0", "false", "no", "n":
		return false, nil
	}
	return false, fmt.Errorf("%w: invalid choice %q", ErrInvalidPayload, val)
}

func parseAddressField(val string, field string) (sdk.Address, error) {
	addr := sdk.Address(val)
	if !addr.IsValid() {
		return "", fmt.Errorf("%w: invalid %s %q", ErrInvalidPayload, field, val)
	}
	return addr, nil
}

// DecodeAddressPayload reads a single address, e.g. "hive:alice".
func DecodeAddressPayload(payload *string) (sdk.Address, error) {
	raw, err := UnwrapPayload(payload)
	if err != nil {
		return "", err
	}
	return parseAddressField(raw, "address")
}

// DecodeProposalIDPayload reads a single proposal id.
func DecodeProposalIDPayload(payload *string) (uint32, error) {
	raw, err := UnwrapPayload(payload)
	if err != nil {
		return 0, err
	}
	return parseUint32Field(raw, "proposal id")
}

// DecodeAddressProposalPayload reads "address|proposalID".
func DecodeAddressProposalPayload(payload *string) (sdk.Address, uint32, error) {
	raw, err := UnwrapPayload(payload)
	if err != nil {
		return "", 0, err
	}
	parts, err := splitPayload(raw, 2)
	if err != nil {
		return "", 0, err
	}
	addr, err := parseAddressField(parts[0], "address")
	if err != nil {
		return "", 0, err
	}
	id, err := parseUint32Field(parts[1], "proposal id")
	if err != nil {
		return "", 0, err
	}
	return addr, id, nil
}

// DecodeVoteWeightPayload reads "stakerWeight|holderWeight".
func DecodeVoteWeightPayload(payload *string) (dao.VotesWeight, error) {
	raw, err := UnwrapPayload(payload)
	if err != nil {
		return dao.VotesWeight{}, err
	}
	parts, err := splitPayload(raw, 2)
	if err != nil {
		return dao.VotesWeight{}, err
	}
	staker, err := parseUint32Field(parts[0], "staker weight")
	if err != nil {
		return dao.VotesWeight{}, err
	}
	holder, err := parseUint32Field(parts[1], "holder weight")
	if err != nil {
		return dao.VotesWeight{}, err
	}
	return dao.VotesWeight{StakerWeight: staker, HolderWeight: holder}, nil
}

// DecodeQuorumPayload reads "minTotalVotes|percentYes".
func DecodeQuorumPayload(payload *string) (dao.QuorumRequirements, error) {
	raw, err := UnwrapPayload(payload)
	if err != nil {
		return dao.QuorumRequirements{}, err
	}
	parts, err := splitPayload(raw, 2)
	if err != nil {
		return dao.QuorumRequirements{}, err
	}
	minVotes, err := parseUint64Field(parts[0], "min total votes")
	if err != nil {
		return dao.QuorumRequirements{}, err
	}
	pct, err := parseUint64Field(parts[1], "percent yes")
	if err != nil {
		return dao.QuorumRequirements{}, err
	}
	return dao.QuorumRequirements{MinTotalVotes: minVotes, PercentYes: pct}, nil
}

// DecodeCreateProposalPayload reads "id|creator|title|description|voteStartAt|voteEndAt".
// The description may be empty.
func DecodeCreateProposalPayload(payload *string) (CreateProposalArgs, error) {
	raw, err := UnwrapPayload(payload)
	if err != nil {
		return CreateProposalArgs{}, err
	}
	parts, err := splitPayload(raw, 6)
	if err != nil {
		return CreateProposalArgs{}, err
	}
	args := CreateProposalArgs{Title: parts[2], Description: parts[3]}
	if args.ID, err = parseUint32Field(parts[0], "proposal id"); err != nil {
		return CreateProposalArgs{}, err
	}
	if args.Creator, err = parseAddressField(parts[1], "creator"); err != nil {
		return CreateProposalArgs{}, err
	}
	if args.VoteStartAt, err = parseUint64Field(parts[4], "vote start"); err != nil {
		return CreateProposalArgs{}, err
	}
	if args.VoteEndAt, err = parseUint64Field(parts[5], "vote end"); err != nil {
		return CreateProposalArgs{}, err
	}
	return args, nil
}

// DecodeCastVotePayload reads "voter|yes|proposalID".
func DecodeCastVotePayload(payload *string) (CastVoteArgs, error) {
	raw, err := UnwrapPayload(payload)
	if err != nil {
		return CastVoteArgs{}, err
	}
	parts, err := splitPayload(raw, 3)
	if err != nil {
		return CastVoteArgs{}, err
	}
	var args CastVoteArgs
	if args.Voter, err = parseAddressField(parts[0], "voter"); err != nil {
		return CastVoteArgs{}, err
	}
	if args.Yes, err = parseBoolField(parts[1]); err != nil {
		return CastVoteArgs{}, err
	}
	if args.ProposalID, err = parseUint32Field(parts[2], "proposal id"); err != nil {
		return CastVoteArgs{}, err
	}
	return args, nil
}

// DecodeStakePayload reads "staker|amount" with a decimal amount.
func DecodeStakePayload(payload *string) (sdk.Address, *uint256.Int, error) {
	raw, err := UnwrapPayload(payload)
	if err != nil {
		return "", nil, err
	}
	parts, err := splitPayload(raw, 2)
	if err != nil {
		return "", nil, err
	}
	staker, err := parseAddressField(parts[0], "staker")
	if err != nil {
		return "", nil, err
	}
	amount, err := dao.ParseAmount(parts[1])
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return staker, amount, nil
}
