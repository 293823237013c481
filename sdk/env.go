package sdk

import (
	"strconv"
	"time"

	"github.com/CosmWasm/tinyjson"
	"github.com/CosmWasm/tinyjson/jlexer"
)

// Sender describes who signed the current call. RequiredAuths holds the principals
// whose active authority was verified by the host before the contract runs.
type Sender struct {
	Address              Address
	RequiredAuths        []Address
	RequiredPostingAuths []Address
}

// Env is the per-call snapshot handed to the contract by its host.
type Env struct {
	ContractId Address
	TxId       string
	// Timestamp is the ledger time in unix seconds.
	Timestamp uint64
	Sender    Sender
}

// Authorized reports whether addr authorized the current call.
func (e Env) Authorized(addr Address) bool {
	if addr == "" {
		return false
	}
	for _, a := range e.Sender.RequiredAuths {
		if a == addr {
			return true
		}
	}
	return false
}

// ParseEnv decodes the env blob the wasm host hands out via system.get_env.
func ParseEnv(raw []byte) (Env, error) {
	var env Env
	if err := tinyjson.Unmarshal(raw, (*envJSON)(&env)); err != nil {
		return Env{}, err
	}
	return env, nil
}

type envJSON Env

// UnmarshalTinyJSON reads the dotted host keys and skips everything it does not need.
func (e *envJSON) UnmarshalTinyJSON(in *jlexer.Lexer) {
	isTopLevel := in.IsStart()
	if in.IsNull() {
		if isTopLevel {
			in.Consumed()
		}
		in.Skip()
		return
	}
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()
		if in.IsNull() {
			in.Skip()
			in.WantComma()
			continue
		}
		switch key {
		case "contract.id":
			e.ContractId = Address(in.String())
		case "tx.id":
			e.TxId = in.String()
		case "block.timestamp":
			raw := in.String()
			ts, ok := ParseTimestamp(raw)
			if !ok {
				in.AddError(&jlexer.LexerError{Reason: "invalid block.timestamp", Data: raw})
			}
			e.Timestamp = ts
		case "msg.sender":
			e.Sender.Address = Address(in.String())
		case "msg.required_auths":
			e.Sender.RequiredAuths = readAddressList(in)
		case "msg.required_posting_auths":
			e.Sender.RequiredPostingAuths = readAddressList(in)
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
	if isTopLevel {
		in.Consumed()
	}
}

func readAddressList(in *jlexer.Lexer) []Address {
	out := make([]Address, 0)
	in.Delim('[')
	for !in.IsDelim(']') {
		out = append(out, Address(in.String()))
		in.WantComma()
	}
	in.Delim(']')
	return out
}

// ParseTimestamp accepts unix seconds or iso-ish strings since the env flips formats sometimes.
func ParseTimestamp(val string) (uint64, bool) {
	if v, err := strconv.ParseUint(val, 10, 64); err == nil {
		return v, true
	}
	if t, err := time.Parse(time.RFC3339, val); err == nil && t.Unix() >= 0 {
		return uint64(t.Unix()), true
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", val, time.UTC); err == nil && t.Unix() >= 0 {
		return uint64(t.Unix()), true
	}
	return 0, false
}
