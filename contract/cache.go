package contract

import (
	lru "github.com/hashicorp/golang-lru"

	"stake_gov/contract/dao"
)

// proposalCache keeps decoded proposals around between calls. Proposals are immutable
// apart from id overwrites, which go through add.
type proposalCache struct {
	lru *lru.Cache
}

func newProposalCache(size int) (*proposalCache, error) {
	if size <= 0 {
		return &proposalCache{}, nil
	}
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &proposalCache{lru: c}, nil
}

func (c *proposalCache) get(id uint32) (*dao.Proposal, bool) {
	if c.lru == nil {
		return nil, false
	}
	v, ok := c.lru.Get(id)
	if !ok {
		return nil, false
	}
	return v.(*dao.Proposal).Clone(), true
}

func (c *proposalCache) add(p *dao.Proposal) {
	if c.lru == nil || p == nil {
		return
	}
	c.lru.Add(p.ID, p.Clone())
}

func (c *proposalCache) purge() {
	if c.lru != nil {
		c.lru.Purge()
	}
}

func (c *proposalCache) len() int {
	if c.lru == nil {
		return 0
	}
	return c.lru.Len()
}
