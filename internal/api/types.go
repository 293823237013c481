package api

import (
	"github.com/CosmWasm/tinyjson/jlexer"
	"github.com/CosmWasm/tinyjson/jwriter"
	"github.com/holiman/uint256"

	"stake_gov/contract/dao"
)

type errorResponse struct {
	Code    string
	Message string
}

func (e errorResponse) MarshalTinyJSON(w *jwriter.Writer) {
	w.RawString(`{"code":`)
	w.String(e.Code)
	w.RawString(`,"error":`)
	w.String(e.Message)
	w.RawByte('}')
}

// stringField is a one-key object such as {"admin":"hive:tibfox"}.
type stringField struct {
	Key   string
	Value string
}

func (f stringField) MarshalTinyJSON(w *jwriter.Writer) {
	w.RawByte('{')
	w.String(f.Key)
	w.RawByte(':')
	w.String(f.Value)
	w.RawByte('}')
}

type boolField struct {
	Key   string
	Value bool
}

func (f boolField) MarshalTinyJSON(w *jwriter.Writer) {
	w.RawByte('{')
	w.String(f.Key)
	w.RawByte(':')
	w.Bool(f.Value)
	w.RawByte('}')
}

// amountField renders amounts as decimal strings; they do not fit a JSON number.
type amountField struct {
	Key   string
	Value *uint256.Int
}

func (f amountField) MarshalTinyJSON(w *jwriter.Writer) {
	w.RawByte('{')
	w.String(f.Key)
	w.RawByte(':')
	w.String(f.Value.Dec())
	w.RawByte('}')
}

type statusResponse struct{}

func (statusResponse) MarshalTinyJSON(w *jwriter.Writer) {
	w.RawString(`{"status":"ok"}`)
}

type initializeRequest struct {
	Admin string
}

func (r *initializeRequest) UnmarshalTinyJSON(in *jlexer.Lexer) {
	dao.ReadObject(in, func(key string) {
		switch key {
		case "admin":
			r.Admin = in.String()
		default:
			in.SkipRecursive()
		}
	})
}

type tokenRequest struct {
	Token string
}

func (r *tokenRequest) UnmarshalTinyJSON(in *jlexer.Lexer) {
	dao.ReadObject(in, func(key string) {
		switch key {
		case "token":
			r.Token = in.String()
		default:
			in.SkipRecursive()
		}
	})
}

type voteRequest struct {
	Voter string
	Yes   bool
}

func (r *voteRequest) UnmarshalTinyJSON(in *jlexer.Lexer) {
	dao.ReadObject(in, func(key string) {
		switch key {
		case "voter":
			r.Voter = in.String()
		case "yes":
			r.Yes = in.Bool()
		default:
			in.SkipRecursive()
		}
	})
}

type amountRequest struct {
	Amount string
}

func (r *amountRequest) UnmarshalTinyJSON(in *jlexer.Lexer) {
	dao.ReadObject(in, func(key string) {
		switch key {
		case "amount":
			r.Amount = in.String()
		default:
			in.SkipRecursive()
		}
	})
}
