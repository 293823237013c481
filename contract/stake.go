package contract

import (
	"fmt"

	"github.com/holiman/uint256"

	"stake_gov/contract/dao"
	"stake_gov/sdk"
)

// validateAmount rejects zero and values outside the signed 128-bit range.
func validateAmount(amount *uint256.Int) error {
	if amount == nil || amount.IsZero() {
		return ErrInvalidAmount
	}
	if !dao.AmountInRange(amount) {
		return ErrAmountOverflow
	}
	return nil
}

// addAmount sums within the signed 128-bit range.
func addAmount(a, b *uint256.Int) (*uint256.Int, error) {
	sum, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow || !dao.AmountInRange(sum) {
		return nil, ErrAmountOverflow
	}
	return sum, nil
}

// transfer wraps gateway failures so callers see ErrTransferFailed.
func (ctx *opContext) transfer(token sdk.Asset, from, to sdk.Address, amount *uint256.Int) error {
	if err := ctx.c.gateway.Transfer(ctx.txn, token, from, to, amount.Clone()); err != nil {
		return fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}
	return nil
}

// Stake moves amount from staker into the contract and credits it. The transfer runs
// inside the call's transaction, so a failure anywhere leaves balances and stakes as
// they were.
func (c *Contract) Stake(env sdk.Env, staker sdk.Address, amount *uint256.Int) error {
	return c.update(env, "stake", func(ctx *opContext) error {
		if err := ctx.requireAuth(staker); err != nil {
			return err
		}
		if err := validateAmount(amount); err != nil {
			return err
		}
		token, err := ctx.requireGovernanceToken()
		if err != nil {
			return err
		}
		current, err := ctx.loadStake(staker)
		if err != nil {
			return err
		}
		total, err := ctx.loadTotalStaked()
		if err != nil {
			return err
		}
		newStake, err := addAmount(current, amount)
		if err != nil {
			return err
		}
		newTotal, err := addAmount(total, amount)
		if err != nil {
			return err
		}
		if err := ctx.transfer(token, staker, ctx.self(), amount); err != nil {
			return err
		}
		if err := ctx.storeStake(staker, newStake); err != nil {
			return err
		}
		if err := ctx.storeTotalStaked(newTotal); err != nil {
			return err
		}
		ctx.emitStakedEvent(staker, amount, token)
		ctx.onCommit = append(ctx.onCommit, func() { c.metrics.setTotalStaked(newTotal) })
		return nil
	})
}

// Unstake pays amount back to staker. Asking for more than the current stake fails
// with ErrInsufficientStake; unstaking everything leaves a zero record.
func (c *Contract) Unstake(env sdk.Env, staker sdk.Address, amount *uint256.Int) error {
	return c.update(env, "unstake", func(ctx *opContext) error {
		if err := ctx.requireAuth(staker); err != nil {
			return err
		}
		if err := validateAmount(amount); err != nil {
			return err
		}
		current, err := ctx.loadStake(staker)
		if err != nil {
			return err
		}
		if amount.Gt(current) {
			return fmt.Errorf("%w: staked %s, requested %s", ErrInsufficientStake, current.Dec(), amount.Dec())
		}
		total, err := ctx.loadTotalStaked()
		if err != nil {
			return err
		}
		newTotal, underflow := new(uint256.Int).SubOverflow(total, amount)
		if underflow {
			return fmt.Errorf("total staked %s below stake of %s", total.Dec(), staker)
		}
		token, err := ctx.requireGovernanceToken()
		if err != nil {
			return err
		}
		if err := ctx.transfer(token, ctx.self(), staker, amount); err != nil {
			return err
		}
		if err := ctx.storeTotalStaked(newTotal); err != nil {
			return err
		}
		if err := ctx.storeStake(staker, new(uint256.Int).Sub(current, amount)); err != nil {
			return err
		}
		ctx.emitUnstakedEvent(staker, amount, token)
		ctx.onCommit = append(ctx.onCommit, func() { c.metrics.setTotalStaked(newTotal) })
		return nil
	})
}

// GetUserStake returns zero for principals that never staked.
func (c *Contract) GetUserStake(staker sdk.Address) (*uint256.Int, error) {
	return query(c, sdk.Env{}, "get_user_stake", func(ctx *opContext) (*uint256.Int, error) {
		return ctx.loadStake(staker)
	})
}

func (c *Contract) GetTotalStaked() (*uint256.Int, error) {
	return query(c, sdk.Env{}, "get_total_staked", func(ctx *opContext) (*uint256.Int, error) {
		return ctx.loadTotalStaked()
	})
}
