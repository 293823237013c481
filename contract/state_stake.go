package contract

import (
	"fmt"

	"github.com/holiman/uint256"

	"stake_gov/contract/dao"
	"stake_gov/sdk"
)

// loadStake returns zero for principals that never staked.
func (ctx *opContext) loadStake(staker sdk.Address) (*uint256.Int, error) {
	return ctx.loadAmount(stakedAmountKey(staker), "stake")
}

func (ctx *opContext) storeStake(staker sdk.Address, amount *uint256.Int) error {
	return ctx.set(stakedAmountKey(staker), dao.EncodeAmount(amount))
}

func (ctx *opContext) loadTotalStaked() (*uint256.Int, error) {
	return ctx.loadAmount(totalStakedKey(), "total staked")
}

func (ctx *opContext) storeTotalStaked(amount *uint256.Int) error {
	return ctx.set(totalStakedKey(), dao.EncodeAmount(amount))
}

func (ctx *opContext) loadAmount(key []byte, what string) (*uint256.Int, error) {
	raw, err := ctx.get(key)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return dao.ZeroAmount(), nil
	}
	v, err := dao.DecodeAmount(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", what, err)
	}
	return v, nil
}
