package token

import (
	"errors"
	"fmt"
	"math"

	"github.com/holiman/uint256"

	"stake_gov/contract"
	"stake_gov/sdk"
)

var ErrUnsupportedTransfer = errors.New("unsupported transfer")

// HiveGateway maps governance token movements onto the host's hive draw/transfer
// calls. Only native assets can move, and only between the caller and the contract.
type HiveGateway struct {
	Self sdk.Address
}

func NewHiveGateway(self sdk.Address) *HiveGateway {
	return &HiveGateway{Self: self}
}

var _ contract.TokenGateway = (*HiveGateway)(nil)

// Transfer ignores txn: host draws and transfers apply at once and the host reverts
// them when the contract call aborts.
func (g *HiveGateway) Transfer(_ contract.Txn, asset sdk.Asset, from, to sdk.Address, amount *uint256.Int) error {
	if !asset.IsNative() {
		return fmt.Errorf("%w: %s is not a native asset", ErrUnsupportedTransfer, asset)
	}
	if amount == nil || amount.IsZero() {
		return ErrInvalidAmount
	}
	if !amount.IsUint64() || amount.Uint64() > math.MaxInt64 {
		return fmt.Errorf("%w: %s does not fit the host amount", ErrInvalidAmount, amount.Dec())
	}
	amt := int64(amount.Uint64())
	switch {
	case to == g.Self:
		// draw only ever pulls from the transaction sender
		if sender := sdk.GetEnv().Sender.Address; from != sender {
			return fmt.Errorf("%w: can only draw from the sender %s, not %s", ErrUnsupportedTransfer, sender, from)
		}
		sdk.HiveDraw(amt, asset)
	case from == g.Self:
		sdk.HiveTransfer(to, amt, asset)
	default:
		return fmt.Errorf("%w: %s -> %s does not involve the contract", ErrUnsupportedTransfer, from, to)
	}
	return nil
}
