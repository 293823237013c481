//go:build wasm

// Command contract builds the governance contract as a wasm module. Every export
// takes a pipe-delimited payload and aborts the call on error.
package main

import (
	"github.com/CosmWasm/tinyjson"

	"stake_gov/contract"
	"stake_gov/sdk"
	"stake_gov/token"
)

// main is left empty on purpose
func main() {

}

// load builds the contract for the current call. State lives in the host, so nothing
// is kept between calls.
func load() (*contract.Contract, sdk.Env) {
	env := sdk.GetEnv()
	gov, err := contract.New(
		contract.NewHostStore(),
		token.NewHiveGateway(env.ContractId),
		contract.WithAddress(env.ContractId),
		contract.WithProposalCacheSize(0),
		contract.WithEventSink(sdk.Log),
	)
	check(err)
	return gov, env
}

func check(err error) {
	if err != nil {
		sdk.Abort(contract.ErrorCode(err) + ": " + err.Error())
	}
}

func strptr(s string) *string {
	return &s
}

func ok() *string {
	return strptr("ok")
}

//go:wasmexport initialize
func Initialize(payload *string) *string {
	admin, err := contract.DecodeAddressPayload(payload)
	check(err)
	gov, env := load()
	check(gov.Initialize(env, admin))
	return ok()
}

//go:wasmexport get_admin
func GetAdmin(_ *string) *string {
	gov, _ := load()
	admin, err := gov.GetAdmin()
	check(err)
	return strptr(admin.String())
}

//go:wasmexport set_governance_token
func SetGovernanceToken(payload *string) *string {
	raw, err := contract.UnwrapPayload(payload)
	check(err)
	gov, env := load()
	check(gov.SetGovernanceToken(env, sdk.Asset(raw)))
	return ok()
}

//go:wasmexport get_governance_token
func GetGovernanceToken(_ *string) *string {
	gov, _ := load()
	asset, err := gov.GetGovernanceToken()
	check(err)
	return strptr(asset.String())
}

//go:wasmexport set_token_vote_weight
func SetTokenVoteWeight(payload *string) *string {
	w, err := contract.DecodeVoteWeightPayload(payload)
	check(err)
	gov, env := load()
	check(gov.SetTokenVoteWeight(env, w.StakerWeight, w.HolderWeight))
	return ok()
}

//go:wasmexport get_token_vote_weight
func GetTokenVoteWeight(_ *string) *string {
	gov, _ := load()
	w, err := gov.GetTokenVoteWeight()
	check(err)
	return marshal(w)
}

//go:wasmexport set_quorum_requirements
func SetQuorumRequirements(payload *string) *string {
	q, err := contract.DecodeQuorumPayload(payload)
	check(err)
	gov, env := load()
	check(gov.SetQuorumRequirements(env, q.MinTotalVotes, q.PercentYes))
	return ok()
}

//go:wasmexport get_quorum_requirements
func GetQuorumRequirements(_ *string) *string {
	gov, _ := load()
	q, err := gov.GetQuorumRequirements()
	check(err)
	return marshal(q)
}

//go:wasmexport get_config
func GetConfig(_ *string) *string {
	gov, _ := load()
	cfg, err := gov.GetConfig()
	check(err)
	return marshal(cfg)
}

//go:wasmexport create_proposal
func CreateProposal(payload *string) *string {
	args, err := contract.DecodeCreateProposalPayload(payload)
	check(err)
	gov, env := load()
	check(gov.CreateProposal(env, args))
	return strptr(contract.UInt64ToString(uint64(args.ID)))
}

//go:wasmexport get_proposal
func GetProposal(payload *string) *string {
	id, err := contract.DecodeProposalIDPayload(payload)
	check(err)
	gov, _ := load()
	p, err := gov.GetProposal(id)
	check(err)
	return marshal(p)
}

//go:wasmexport cast_vote
func CastVote(payload *string) *string {
	args, err := contract.DecodeCastVotePayload(payload)
	check(err)
	gov, env := load()
	check(gov.CastVote(env, args.Voter, args.Yes, args.ProposalID))
	return ok()
}

//go:wasmexport get_proposal_votes
func GetProposalVotes(payload *string) *string {
	requester, id, err := contract.DecodeAddressProposalPayload(payload)
	check(err)
	gov, env := load()
	votes, err := gov.GetProposalVotes(env, requester, id)
	check(err)
	return marshal(votes)
}

//go:wasmexport get_user_can_vote
func GetUserCanVote(payload *string) *string {
	voter, err := contract.DecodeAddressPayload(payload)
	check(err)
	gov, _ := load()
	can, err := gov.GetUserCanVote(voter)
	check(err)
	return strptr(contract.BoolToString(can))
}

//go:wasmexport get_user_has_voted
func GetUserHasVoted(payload *string) *string {
	voter, id, err := contract.DecodeAddressProposalPayload(payload)
	check(err)
	gov, _ := load()
	voted, err := gov.GetUserHasVoted(voter, id)
	check(err)
	return strptr(contract.BoolToString(voted))
}

//go:wasmexport get_is_proposal_passed
func GetIsProposalPassed(payload *string) *string {
	id, err := contract.DecodeProposalIDPayload(payload)
	check(err)
	gov, env := load()
	passed, err := gov.GetIsProposalPassed(env, id)
	check(err)
	return strptr(contract.BoolToString(passed))
}

//go:wasmexport stake
func Stake(payload *string) *string {
	staker, amount, err := contract.DecodeStakePayload(payload)
	check(err)
	gov, env := load()
	check(gov.Stake(env, staker, amount))
	return ok()
}

//go:wasmexport unstake
func Unstake(payload *string) *string {
	staker, amount, err := contract.DecodeStakePayload(payload)
	check(err)
	gov, env := load()
	check(gov.Unstake(env, staker, amount))
	return ok()
}

//go:wasmexport get_user_stake
func GetUserStake(payload *string) *string {
	staker, err := contract.DecodeAddressPayload(payload)
	check(err)
	gov, _ := load()
	amount, err := gov.GetUserStake(staker)
	check(err)
	return strptr(amount.Dec())
}

//go:wasmexport get_total_staked
func GetTotalStaked(_ *string) *string {
	gov, _ := load()
	total, err := gov.GetTotalStaked()
	check(err)
	return strptr(total.Dec())
}

func marshal(v tinyjson.Marshaler) *string {
	data, err := tinyjson.Marshal(v)
	check(err)
	return strptr(string(data))
}
