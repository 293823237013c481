package dao

import (
	"errors"
	"strings"

	"github.com/holiman/uint256"
)

// AmountSize is the width of an encoded amount, the i128 layout of the ledger.
const AmountSize = 16

// MaxAmount is the largest representable stake: 2^127 - 1.
var MaxAmount = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 127), uint256.NewInt(1))

var (
	errAmountFormat = errors.New("amount must be a non-negative decimal integer")
	errAmountRange  = errors.New("amount exceeds 2^127-1")
)

// ZeroAmount returns a fresh zero value.
func ZeroAmount() *uint256.Int { return new(uint256.Int) }

// AmountInRange reports whether v fits the signed 128-bit range.
func AmountInRange(v *uint256.Int) bool {
	return v != nil && v.Cmp(MaxAmount) <= 0
}

// ParseAmount reads a decimal amount such as "1500". Signs, hex and blanks are rejected.
func ParseAmount(s string) (*uint256.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" || s[0] == '+' || s[0] == '-' {
		return nil, errAmountFormat
	}
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, errAmountFormat
	}
	if !AmountInRange(v) {
		return nil, errAmountRange
	}
	return v, nil
}

// EncodeAmount writes v as 16 big-endian bytes.
func EncodeAmount(v *uint256.Int) []byte {
	w := newWriter()
	w.writeAmount(v)
	return w.bytes()
}

// DecodeAmount is the inverse of EncodeAmount.
func DecodeAmount(data []byte) (*uint256.Int, error) {
	r := newReader(data)
	v, err := r.readAmount()
	if err != nil {
		return nil, err
	}
	return v, r.done()
}
