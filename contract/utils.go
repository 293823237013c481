package contract

import "strconv"

// UInt64ToString turns a number back into decimal text for wasm return values.
func UInt64ToString(val uint64) string {
	return strconv.FormatUint(val, 10)
}

// BoolToString renders booleans the way the wasm exports return them.
func BoolToString(v bool) string {
	return strconv.FormatBool(v)
}
