package sdk

import "strings"

// Asset names a fungible token, either a native ticker or a contract issued token id.
type Asset string

const (
	AssetHive       Asset = "hive"
	AssetHiveCons   Asset = "hive_consensus"
	AssetHbd        Asset = "hbd"
	AssetHbdSavings Asset = "hbd_savings"
)

// String returns the raw ticker string for logging or host calls.
func (a Asset) String() string {
	return string(a)
}

// IsNative reports whether the asset is moved by the hive host functions.
func (a Asset) IsNative() bool {
	switch a {
	case AssetHive, AssetHiveCons, AssetHbd, AssetHbdSavings:
		return true
	}
	return false
}

// IsValid rejects empty tickers and tickers that would break pipe-delimited encodings.
func (a Asset) IsValid() bool {
	s := a.String()
	return strings.TrimSpace(s) == s && s != "" && !strings.ContainsRune(s, '|')
}
