package dao

import (
	"github.com/CosmWasm/tinyjson/jlexer"
	"github.com/CosmWasm/tinyjson/jwriter"

	"stake_gov/sdk"
)

// JSON forms of the records, written by hand against tinyjson so they also build
// under tinygo without reflection.

func (p Proposal) MarshalTinyJSON(w *jwriter.Writer) {
	w.RawString(`{"id":`)
	w.Uint32(p.ID)
	w.RawString(`,"creator":`)
	w.String(p.Creator.String())
	w.RawString(`,"title":`)
	w.String(p.Title)
	w.RawString(`,"description":`)
	w.String(p.Description)
	w.RawString(`,"vote_start_at":`)
	w.Uint64(p.VoteStartAt)
	w.RawString(`,"vote_end_at":`)
	w.Uint64(p.VoteEndAt)
	w.RawByte('}')
}

func (p *Proposal) UnmarshalTinyJSON(in *jlexer.Lexer) {
	readObject(in, func(key string) {
		switch key {
		case "id":
			p.ID = in.Uint32()
		case "creator":
			p.Creator = sdk.Address(in.String())
		case "title":
			p.Title = in.String()
		case "description":
			p.Description = in.String()
		case "vote_start_at":
			p.VoteStartAt = in.Uint64()
		case "vote_end_at":
			p.VoteEndAt = in.Uint64()
		default:
			in.SkipRecursive()
		}
	})
}

func (v Votes) MarshalTinyJSON(w *jwriter.Writer) {
	w.RawString(`{"yes_votes":`)
	w.Uint64(v.YesVotes)
	w.RawString(`,"total_votes":`)
	w.Uint64(v.TotalVotes)
	w.RawByte('}')
}

func (v *Votes) UnmarshalTinyJSON(in *jlexer.Lexer) {
	readObject(in, func(key string) {
		switch key {
		case "yes_votes":
			v.YesVotes = in.Uint64()
		case "total_votes":
			v.TotalVotes = in.Uint64()
		default:
			in.SkipRecursive()
		}
	})
}

func (v VotesWeight) MarshalTinyJSON(w *jwriter.Writer) {
	w.RawString(`{"staker_weight":`)
	w.Uint32(v.StakerWeight)
	w.RawString(`,"holder_weight":`)
	w.Uint32(v.HolderWeight)
	w.RawByte('}')
}

func (v *VotesWeight) UnmarshalTinyJSON(in *jlexer.Lexer) {
	readObject(in, func(key string) {
		switch key {
		case "staker_weight":
			v.StakerWeight = in.Uint32()
		case "holder_weight":
			v.HolderWeight = in.Uint32()
		default:
			in.SkipRecursive()
		}
	})
}

func (q QuorumRequirements) MarshalTinyJSON(w *jwriter.Writer) {
	w.RawString(`{"min_total_votes":`)
	w.Uint64(q.MinTotalVotes)
	w.RawString(`,"percent_yes":`)
	w.Uint64(q.PercentYes)
	w.RawByte('}')
}

func (q *QuorumRequirements) UnmarshalTinyJSON(in *jlexer.Lexer) {
	readObject(in, func(key string) {
		switch key {
		case "min_total_votes":
			q.MinTotalVotes = in.Uint64()
		case "percent_yes":
			q.PercentYes = in.Uint64()
		default:
			in.SkipRecursive()
		}
	})
}

func (c GovernanceConfig) MarshalTinyJSON(w *jwriter.Writer) {
	w.RawString(`{"admin":`)
	w.String(c.Admin.String())
	w.RawString(`,"token":`)
	w.String(c.Token.String())
	w.RawString(`,"weights":`)
	c.Weights.MarshalTinyJSON(w)
	w.RawString(`,"quorum":`)
	c.Quorum.MarshalTinyJSON(w)
	w.RawByte('}')
}

// readObject walks a JSON object and hands every non-null field to fn, which must
// consume the value.
func readObject(in *jlexer.Lexer, fn func(key string)) {
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
		fn(key)
		in.WantComma()
	}
	in.Delim('}')
	if isTopLevel {
		in.Consumed()
	}
}

// ReadObject exposes the object walker to the transport DTOs.
func ReadObject(in *jlexer.Lexer, fn func(key string)) {
	readObject(in, fn)
}
