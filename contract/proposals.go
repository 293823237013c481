package contract

import (
	"fmt"

	"stake_gov/contract/dao"
	"stake_gov/sdk"
)

// validateProposal checks the creation rules against the ledger time now.
func validateProposal(args CreateProposalArgs, now uint64) error {
	switch {
	case args.ID == 0:
		return fmt.Errorf("%w: id must be positive", ErrInvalidProposal)
	case args.Title == "":
		return fmt.Errorf("%w: title is empty", ErrInvalidProposal)
	case args.VoteEndAt <= now:
		return fmt.Errorf("%w: vote end %d is not after ledger time %d", ErrInvalidProposal, args.VoteEndAt, now)
	case args.VoteEndAt < args.VoteStartAt:
		return fmt.Errorf("%w: vote end %d before vote start %d", ErrInvalidProposal, args.VoteEndAt, args.VoteStartAt)
	}
	return nil
}

// CreateProposal stores a new proposal. The creator must be eligible to vote and must
// have authorized the call. An existing proposal with the same id is overwritten
// unless the contract was built WithUniqueProposalIDs.
func (c *Contract) CreateProposal(env sdk.Env, args CreateProposalArgs) error {
	return c.update(env, "create_proposal", func(ctx *opContext) error {
		eligible, err := ctx.canVote(args.Creator)
		if err != nil {
			return err
		}
		if !eligible {
			return fmt.Errorf("%w: %s cannot create proposals", ErrNotEligible, args.Creator)
		}
		if err := ctx.requireAuth(args.Creator); err != nil {
			return err
		}
		if err := validateProposal(args, ctx.now); err != nil {
			return err
		}
		if c.uniqueProposalIDs {
			existing, err := ctx.loadProposal(args.ID)
			if err != nil {
				return err
			}
			if existing != nil {
				return fmt.Errorf("%w: %d", ErrProposalAlreadyExists, args.ID)
			}
		}
		p := &dao.Proposal{
			ID:          args.ID,
			Creator:     args.Creator,
			Title:       args.Title,
			Description: args.Description,
			VoteStartAt: args.VoteStartAt,
			VoteEndAt:   args.VoteEndAt,
		}
		if err := ctx.storeProposal(p); err != nil {
			return err
		}
		ctx.emitProposalCreatedEvent(p)
		ctx.onCommit = append(ctx.onCommit, c.metrics.proposals.Inc)
		return nil
	})
}

// GetProposal returns the stored proposal or ErrProposalNotFound.
func (c *Contract) GetProposal(id uint32) (*dao.Proposal, error) {
	return query(c, sdk.Env{}, "get_proposal", func(ctx *opContext) (*dao.Proposal, error) {
		return ctx.requireProposal(id)
	})
}

func (ctx *opContext) requireProposal(id uint32) (*dao.Proposal, error) {
	p, err := ctx.loadProposal(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: %d", ErrProposalNotFound, id)
	}
	return p, nil
}

// votingOpen holds while the ledger time has not passed the proposal's end.
func votingOpen(p *dao.Proposal, now uint64) bool {
	return now <= p.VoteEndAt
}
