package dao

import (
	"testing"

	"github.com/CosmWasm/tinyjson"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProposalCodec(t *testing.T) {
	p := &Proposal{
		ID:          7,
		Creator:     "hive:alice",
		Title:       "raise quorum",
		Description: "bump min votes to 10",
		VoteStartAt: 1000,
		VoteEndAt:   2000,
	}
	got, err := DecodeProposal(EncodeProposal(p))
	require.NoError(t, err)
	assert.Equal(t, p, got)

	_, err = DecodeProposal(EncodeProposal(p)[:10])
	assert.Error(t, err)
	_, err = DecodeProposal(append(EncodeProposal(p), 0x00))
	assert.Error(t, err)
}

func TestAmountEncodingIsSixteenBytesBigEndian(t *testing.T) {
	enc := EncodeAmount(uint256.NewInt(0x0102))
	require.Len(t, enc, AmountSize)
	assert.Equal(t, byte(0x01), enc[14])
	assert.Equal(t, byte(0x02), enc[15])

	got, err := DecodeAmount(EncodeAmount(MaxAmount))
	require.NoError(t, err)
	assert.True(t, got.Eq(MaxAmount))

	// top bit set means the value would be negative as an i128
	over := make([]byte, AmountSize)
	over[0] = 0x80
	_, err = DecodeAmount(over)
	assert.Error(t, err)
}

func TestParseAmount(t *testing.T) {
	v, err := ParseAmount("1500")
	require.NoError(t, err)
	assert.Equal(t, uint64(1500), v.Uint64())

	v, err = ParseAmount("170141183460469231731687303715884105727")
	require.NoError(t, err)
	assert.True(t, v.Eq(MaxAmount))

	for _, bad := range []string{"", "-1", "+1", "0x10", "1.5", "abc", "170141183460469231731687303715884105728"} {
		_, err := ParseAmount(bad)
		assert.Error(t, err, bad)
	}
}

func TestSingletonCodecs(t *testing.T) {
	w, err := DecodeVotesWeight(EncodeVotesWeight(VotesWeight{StakerWeight: 3, HolderWeight: 9}))
	require.NoError(t, err)
	assert.Equal(t, VotesWeight{StakerWeight: 3, HolderWeight: 9}, w)

	q, err := DecodeQuorumRequirements(EncodeQuorumRequirements(QuorumRequirements{MinTotalVotes: 2, PercentYes: 1}))
	require.NoError(t, err)
	assert.Equal(t, QuorumRequirements{MinTotalVotes: 2, PercentYes: 1}, q)

	v, err := DecodeVotes(EncodeVotes(Votes{YesVotes: 1, TotalVotes: 4}))
	require.NoError(t, err)
	assert.Equal(t, Votes{YesVotes: 1, TotalVotes: 4}, v)

	b, err := DecodeBool(EncodeBool(true))
	require.NoError(t, err)
	assert.True(t, b)
	_, err = DecodeBool([]byte{2})
	assert.Error(t, err)

	a, err := DecodeAddress(EncodeAddress("hive:admin"))
	require.NoError(t, err)
	assert.Equal(t, "hive:admin", a.String())

	as, err := DecodeAsset(EncodeAsset("gov"))
	require.NoError(t, err)
	assert.Equal(t, "gov", as.String())
}

func TestProposalJSON(t *testing.T) {
	p := Proposal{ID: 1, Creator: "hive:alice", Title: "t", Description: "d", VoteStartAt: 5, VoteEndAt: 9}
	raw, err := tinyjson.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"creator":"hive:alice","title":"t","description":"d","vote_start_at":5,"vote_end_at":9}`, string(raw))

	var back Proposal
	require.NoError(t, tinyjson.Unmarshal([]byte(`{"id":1,"creator":"hive:alice","title":"t","description":"d","vote_start_at":5,"vote_end_at":9,"extra":[1,2]}`), &back))
	assert.Equal(t, p, back)
}

func TestConfigJSON(t *testing.T) {
	raw, err := tinyjson.Marshal(GovernanceConfig{
		Admin:   "hive:admin",
		Token:   "gov",
		Weights: VotesWeight{StakerWeight: 100},
		Quorum:  QuorumRequirements{MinTotalVotes: 2, PercentYes: 1},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"admin":"hive:admin","token":"gov","weights":{"staker_weight":100,"holder_weight":0},"quorum":{"min_total_votes":2,"percent_yes":1}}`, string(raw))
}
