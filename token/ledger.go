package token

import (
	"errors"
	"fmt"
	"math"

	"github.com/holiman/uint256"

	"stake_gov/contract"
	"stake_gov/contract/dao"
	"stake_gov/sdk"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidAsset        = errors.New("invalid asset")
	ErrBalanceOverflow     = errors.New("balance overflow")
)

// Ledger key prefixes, above the range used by the governance records.
const (
	// kBalance holds one amount per asset and address.
	kBalance byte = 0x40
	// kGenesis marks that the genesis balances were credited.
	kGenesis byte = 0x41
)

// Balance is one genesis allocation.
type Balance struct {
	Asset   sdk.Asset
	Address sdk.Address
	Amount  *uint256.Int
}

// Ledger is a multi-asset balance book kept in the contract store next to the
// governance records. Transfers run inside the caller's transaction, so they commit
// or roll back together with the stake they pay for.
type Ledger struct {
	store contract.Store
}

var _ contract.TokenGateway = (*Ledger)(nil)

func NewLedger(store contract.Store) *Ledger {
	return &Ledger{store: store}
}

// balanceKey is prefix, asset length, asset and address bytes.
func balanceKey(asset sdk.Asset, addr sdk.Address) ([]byte, error) {
	if asset == "" || len(asset) > math.MaxUint8 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAsset, asset)
	}
	buf := make([]byte, 0, 2+len(asset)+len(addr))
	buf = append(buf, kBalance, byte(len(asset)))
	buf = append(buf, asset...)
	buf = append(buf, addr...)
	return buf, nil
}

func loadBalance(txn contract.Txn, key []byte) (*uint256.Int, error) {
	raw, err := txn.Get(key)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return new(uint256.Int), nil
	}
	return dao.DecodeAmount(raw)
}

// credit adds amount to addr, capped at the largest storable amount.
func credit(txn contract.Txn, asset sdk.Asset, addr sdk.Address, amount *uint256.Int) error {
	key, err := balanceKey(asset, addr)
	if err != nil {
		return err
	}
	bal, err := loadBalance(txn, key)
	if err != nil {
		return err
	}
	next, overflow := new(uint256.Int).AddOverflow(bal, amount)
	if overflow || !dao.AmountInRange(next) {
		return fmt.Errorf("%w: %s %s", ErrBalanceOverflow, addr, asset)
	}
	return txn.Set(key, dao.EncodeAmount(next))
}

// Balance returns the balance of addr in asset, zero when unknown.
func (l *Ledger) Balance(asset sdk.Asset, addr sdk.Address) (*uint256.Int, error) {
	var out *uint256.Int
	err := l.store.Update(func(txn contract.Txn) error {
		key, err := balanceKey(asset, addr)
		if err != nil {
			return err
		}
		out, err = loadBalance(txn, key)
		return err
	})
	return out, err
}

// Credit adds amount to addr out of thin air.
func (l *Ledger) Credit(asset sdk.Asset, addr sdk.Address, amount *uint256.Int) error {
	if amount == nil {
		return ErrInvalidAmount
	}
	return l.store.Update(func(txn contract.Txn) error {
		return credit(txn, asset, addr, amount)
	})
}

// Genesis credits balances the first time it runs against a store and reports
// whether it did. Later calls leave the book alone.
func (l *Ledger) Genesis(balances []Balance) (bool, error) {
	applied := false
	err := l.store.Update(func(txn contract.Txn) error {
		marker, err := txn.Get([]byte{kGenesis})
		if err != nil || marker != nil {
			return err
		}
		for _, b := range balances {
			if b.Amount == nil {
				return fmt.Errorf("%w: genesis balance of %s", ErrInvalidAmount, b.Address)
			}
			if err := credit(txn, b.Asset, b.Address, b.Amount); err != nil {
				return fmt.Errorf("genesis balance of %s: %w", b.Address, err)
			}
		}
		applied = true
		return txn.Set([]byte{kGenesis}, []byte{1})
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

// Transfer moves amount from one address to another inside txn. Nothing changes on error.
func (l *Ledger) Transfer(txn contract.Txn, asset sdk.Asset, from, to sdk.Address, amount *uint256.Int) error {
	if amount == nil || amount.IsZero() {
		return ErrInvalidAmount
	}
	fromKey, err := balanceKey(asset, from)
	if err != nil {
		return err
	}
	fromBalance, err := loadBalance(txn, fromKey)
	if err != nil {
		return err
	}
	if fromBalance.Lt(amount) {
		return fmt.Errorf("%w: %s holds %s %s", ErrInsufficientBalance, from, fromBalance.Dec(), asset)
	}
	if from == to {
		return nil
	}
	toKey, err := balanceKey(asset, to)
	if err != nil {
		return err
	}
	toBalance, err := loadBalance(txn, toKey)
	if err != nil {
		return err
	}
	next, overflow := new(uint256.Int).AddOverflow(toBalance, amount)
	if overflow || !dao.AmountInRange(next) {
		return fmt.Errorf("%w: %s %s", ErrBalanceOverflow, to, asset)
	}
	// both writes land in txn, so a failed second write rolls back the first
	if err := txn.Set(fromKey, dao.EncodeAmount(new(uint256.Int).Sub(fromBalance, amount))); err != nil {
		return err
	}
	return txn.Set(toKey, dao.EncodeAmount(next))
}
