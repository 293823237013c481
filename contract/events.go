package contract

import (
	"strconv"

	"github.com/holiman/uint256"

	"stake_gov/contract/dao"
	"stake_gov/sdk"
)

// emitInitializedEvent marks the one-time admin assignment.
func (ctx *opContext) emitInitializedEvent(admin sdk.Address) {
	ctx.emit("in|by:%s", admin)
}

// emitGovernanceTokenEvent logs which asset stakes are held in from now on.
func (ctx *opContext) emitGovernanceTokenEvent(token sdk.Asset) {
	ctx.emit("gt|as:%s", token)
}

func (ctx *opContext) emitVoteWeightEvent(w dao.VotesWeight) {
	ctx.emit("vw|sw:%d|hw:%d", w.StakerWeight, w.HolderWeight)
}

func (ctx *opContext) emitQuorumEvent(q dao.QuorumRequirements) {
	ctx.emit("qr|min:%d|py:%d", q.MinTotalVotes, q.PercentYes)
}

// emitProposalCreatedEvent keeps observers updated with a short pc line for every new idea.
func (ctx *opContext) emitProposalCreatedEvent(p *dao.Proposal) {
	ctx.emit("pc|id:%d|by:%s|end:%d", p.ID, p.Creator, p.VoteEndAt)
}

// emitVoteCastEvent carries the choice so tallies can be replayed from logs only.
func (ctx *opContext) emitVoteCastEvent(id uint32, voter sdk.Address, yes bool) {
	ctx.emit("v|id:%d|by:%s|y:%s", id, voter, strconv.FormatBool(yes))
}

func (ctx *opContext) emitStakedEvent(staker sdk.Address, amount *uint256.Int, token sdk.Asset) {
	ctx.emit("sk|by:%s|am:%s|as:%s", staker, amount.Dec(), token)
}

func (ctx *opContext) emitUnstakedEvent(staker sdk.Address, amount *uint256.Int, token sdk.Asset) {
	ctx.emit("us|to:%s|am:%s|as:%s", staker, amount.Dec(), token)
}
