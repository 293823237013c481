package contract

import (
	"bytes"
	"fmt"

	"stake_gov/contract/dao"
	"stake_gov/sdk"
)

// opContext is scoped to one contract call. The env (and with it the ledger time) is
// captured once when the call starts; config reads are memoized for the rest of it.
type opContext struct {
	c   *Contract
	env sdk.Env
	now uint64
	txn Txn

	admin   *sdk.Address
	token   *sdk.Asset
	weights *dao.VotesWeight
	quorum  *dao.QuorumRequirements

	events     []string
	onCommit   []func()
	proposals  []*dao.Proposal
	extensions int
}

func (c *Contract) newOpContext(env sdk.Env, txn Txn) *opContext {
	return &opContext{c: c, env: env, now: env.Timestamp, txn: txn}
}

// commit runs once the store accepted the transaction.
func (ctx *opContext) commit() {
	for _, p := range ctx.proposals {
		ctx.c.proposals.add(p)
	}
	for _, fn := range ctx.onCommit {
		fn()
	}
	if ctx.extensions > 0 {
		ctx.c.metrics.ttlExtensions.Add(float64(ctx.extensions))
	}
	for _, line := range ctx.events {
		ctx.c.eventSink(line)
	}
}

// self is the account holding staked tokens.
func (ctx *opContext) self() sdk.Address {
	if ctx.env.ContractId != "" {
		return ctx.env.ContractId
	}
	return ctx.c.address
}

// requireAuth fails unless addr authorized the current call.
func (ctx *opContext) requireAuth(addr sdk.Address) error {
	if !ctx.env.Authorized(addr) {
		return fmt.Errorf("%w: %s did not authorize the call", ErrUnauthorized, addr)
	}
	return nil
}

// get reads key and extends its lifetime when present.
func (ctx *opContext) get(key []byte) ([]byte, error) {
	val, err := ctx.txn.Get(key)
	if err != nil {
		return nil, fmt.Errorf("read key %x: %w", key, err)
	}
	if val == nil {
		return nil, nil
	}
	if err := ctx.extend(key); err != nil {
		return nil, err
	}
	return val, nil
}

// set writes key and extends its lifetime.
func (ctx *opContext) set(key, value []byte) error {
	if err := ctx.txn.Set(key, value); err != nil {
		return fmt.Errorf("write key %x: %w", key, err)
	}
	return ctx.extend(key)
}

// setIfChanged avoids unnecessary writes; the lifetime is still extended.
func (ctx *opContext) setIfChanged(key, value []byte) error {
	existing, err := ctx.txn.Get(key)
	if err != nil {
		return fmt.Errorf("read key %x: %w", key, err)
	}
	if existing != nil && bytes.Equal(existing, value) {
		return ctx.extend(key)
	}
	return ctx.set(key, value)
}

func (ctx *opContext) extend(key []byte) error {
	extended, err := ctx.txn.ExtendTTL(key, ctx.c.ledgers(LifetimeThreshold), ctx.c.ledgers(BumpAmount))
	if err != nil {
		return fmt.Errorf("extend key %x: %w", key, err)
	}
	if extended {
		ctx.extensions++
	}
	return nil
}

// emit queues an event line; it is only published if the call commits.
func (ctx *opContext) emit(format string, args ...any) {
	ctx.events = append(ctx.events, fmt.Sprintf(format, args...))
}
