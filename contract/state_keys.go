package contract

import "stake_gov/sdk"

// packU32LEInline writes a uint32 into dst in little-endian order so our keys stay compact.
func packU32LEInline(x uint32, dst []byte) {
	dst[0] = byte(x)
	dst[1] = byte(x >> 8)
	dst[2] = byte(x >> 16)
	dst[3] = byte(x >> 24)
}

// packU32LE appends the encoded number to dst and returns the new slice.
func packU32LE(x uint32, dst []byte) []byte {
	return append(dst,
		byte(x),
		byte(x>>8),
		byte(x>>16),
		byte(x>>24),
	)
}

func adminKey() []byte           { return []byte{kAdmin} }
func governanceTokenKey() []byte { return []byte{kGovernanceToken} }
func quorumKey() []byte          { return []byte{kQuorum} }
func voteTokenWeightKey() []byte { return []byte{kVoteTokenWeight} }
func totalStakedKey() []byte     { return []byte{kTotalStaked} }

// proposalKey encodes id under the 0x10 prefix keeping proposal records contiguous.
func proposalKey(id uint32) []byte {
	var buf [5]byte
	buf[0] = kProposal
	packU32LEInline(id, buf[1:])
	return buf[:]
}

// proposalVotesKey sits next to the proposal under 0x11.
func proposalVotesKey(id uint32) []byte {
	var buf [5]byte
	buf[0] = kProposalVotes
	packU32LEInline(id, buf[1:])
	return buf[:]
}

// hasVotedKey mixes proposal id plus voter bytes to avoid nested maps in host storage.
func hasVotedKey(voter sdk.Address, id uint32) []byte {
	addr := voter.String()
	buf := make([]byte, 0, 1+4+len(addr))
	buf = append(buf, kHasVoted)
	buf = packU32LE(id, buf)
	buf = append(buf, addr...)
	return buf
}

// stakedAmountKey is prefix plus raw address bytes.
func stakedAmountKey(staker sdk.Address) []byte {
	addr := staker.String()
	buf := make([]byte, 0, 1+len(addr))
	buf = append(buf, kStakedAmount)
	buf = append(buf, addr...)
	return buf
}
