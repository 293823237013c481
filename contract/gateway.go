package contract

import (
	"github.com/holiman/uint256"

	"stake_gov/sdk"
)

// TokenGateway moves governance tokens. Transfer must be all-or-nothing: a non-nil
// error means no balance changed. Gateways keeping balances in the contract store
// write them through txn so they commit or roll back with the call; gateways backed
// by the chain host move funds right away and rely on the host reverting an aborted
// transaction.
type TokenGateway interface {
	Transfer(txn Txn, token sdk.Asset, from, to sdk.Address, amount *uint256.Int) error
}
