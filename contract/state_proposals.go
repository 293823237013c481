package contract

import (
	"fmt"

	"stake_gov/contract/dao"
)

// loadProposal returns nil when the id is unknown. Cache hits still extend the record,
// and are only trusted while the stored record exists.
func (ctx *opContext) loadProposal(id uint32) (*dao.Proposal, error) {
	key := proposalKey(id)
	if p, ok := ctx.c.proposals.get(id); ok {
		ttl, err := ctx.txn.TTL(key)
		if err != nil {
			return nil, fmt.Errorf("ttl key %x: %w", key, err)
		}
		if ttl != 0 {
			ctx.onCommit = append(ctx.onCommit, ctx.c.metrics.proposalCacheHit.Inc)
			if err := ctx.extend(key); err != nil {
				return nil, err
			}
			return p, nil
		}
	}
	raw, err := ctx.get(key)
	if err != nil || raw == nil {
		return nil, err
	}
	p, err := dao.DecodeProposal(raw)
	if err != nil {
		return nil, fmt.Errorf("decode proposal %d: %w", id, err)
	}
	ctx.proposals = append(ctx.proposals, p)
	return p.Clone(), nil
}

func (ctx *opContext) storeProposal(p *dao.Proposal) error {
	if err := ctx.set(proposalKey(p.ID), dao.EncodeProposal(p)); err != nil {
		return err
	}
	ctx.proposals = append(ctx.proposals, p.Clone())
	return nil
}
