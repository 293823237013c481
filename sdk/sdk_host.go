//go:build !wasm

package sdk

import (
	"fmt"
	"log/slog"
	"sync"
)

// In-process stand-ins for the wasm host functions. They let the host-bound store and
// gateway run in native builds and tests.

// HostTransfer records one hive draw or transfer issued through the in-process host.
type HostTransfer struct {
	From   Address
	To     Address
	Amount int64
	Asset  Asset
}

var host = struct {
	mu        sync.Mutex
	state     map[string]string
	env       Env
	logs      []string
	transfers []HostTransfer
}{state: map[string]string{}}

// ResetHost clears state, logs and transfers and installs env as the current call snapshot.
func ResetHost(env Env) {
	host.mu.Lock()
	defer host.mu.Unlock()
	host.state = map[string]string{}
	host.env = env
	host.logs = nil
	host.transfers = nil
}

// SetHostEnv swaps the env snapshot returned by GetEnv.
func SetHostEnv(env Env) {
	host.mu.Lock()
	defer host.mu.Unlock()
	host.env = env
}

// HostLogs returns every line passed to Log since the last reset.
func HostLogs() []string {
	host.mu.Lock()
	defer host.mu.Unlock()
	return append([]string(nil), host.logs...)
}

// HostTransfers returns the draws and transfers issued since the last reset.
func HostTransfers() []HostTransfer {
	host.mu.Lock()
	defer host.mu.Unlock()
	return append([]HostTransfer(nil), host.transfers...)
}

func Log(s string) {
	host.mu.Lock()
	host.logs = append(host.logs, s)
	host.mu.Unlock()
	slog.Debug("sdk log", "msg", s)
}

func Abort(msg string) {
	panic(msg)
}

func StateSetObject(key string, value string) {
	host.mu.Lock()
	defer host.mu.Unlock()
	host.state[key] = value
}

func StateGetObject(key string) *string {
	host.mu.Lock()
	defer host.mu.Unlock()
	val, ok := host.state[key]
	if !ok {
		return nil
	}
	return &val
}

func StateDeleteObject(key string) {
	host.mu.Lock()
	defer host.mu.Unlock()
	delete(host.state, key)
}

func GetEnv() Env {
	host.mu.Lock()
	defer host.mu.Unlock()
	return host.env
}

func HiveDraw(amount int64, asset Asset) {
	if amount <= 0 {
		Abort(fmt.Sprintf("invalid draw amount %d", amount))
	}
	host.mu.Lock()
	defer host.mu.Unlock()
	host.transfers = append(host.transfers, HostTransfer{
		From:   host.env.Sender.Address,
		To:     host.env.ContractId,
		Amount: amount,
		Asset:  asset,
	})
}

func HiveTransfer(to Address, amount int64, asset Asset) {
	if amount <= 0 {
		Abort(fmt.Sprintf("invalid transfer amount %d", amount))
	}
	host.mu.Lock()
	defer host.mu.Unlock()
	host.transfers = append(host.transfers, HostTransfer{
		From:   host.env.ContractId,
		To:     to,
		Amount: amount,
		Asset:  asset,
	})
}
