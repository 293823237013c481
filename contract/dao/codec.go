package dao

import (
	"bytes"
	"encoding/binary"
	"errors"

	"github.com/holiman/uint256"

	"stake_gov/sdk"
)

type binWriter struct {
	buf bytes.Buffer
}

func newWriter() *binWriter { return &binWriter{} }

func (w *binWriter) bytes() []byte { return w.buf.Bytes() }

func (w *binWriter) writeBool(v bool) {
	if v {
		w.buf.WriteByte(1)
	} else {
		w.buf.WriteByte(0)
	}
}

func (w *binWriter) writeUint32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

func (w *binWriter) writeUint64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

func (w *binWriter) writeVarUint(v uint64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	w.buf.Write(tmp[:n])
}

// writeAmount keeps the low 16 bytes; callers make sure the value is in range.
func (w *binWriter) writeAmount(v *uint256.Int) {
	if v == nil {
		v = ZeroAmount()
	}
	b := v.Bytes32()
	w.buf.Write(b[32-AmountSize:])
}

func (w *binWriter) writeString(s string) {
	w.writeVarUint(uint64(len(s)))
	w.buf.WriteString(s)
}

func (w *binWriter) writeAddress(a sdk.Address) {
	w.writeString(a.String())
}

type binReader struct {
	data []byte
	pos  int
}

func newReader(data []byte) *binReader {
	return &binReader{data: data}
}

var errEOF = errors.New("unexpected EOF")

func (r *binReader) readByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, errEOF
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

func (r *binReader) readBool() (bool, error) {
	b, err := r.readByte()
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, errors.New("invalid bool")
}

func (r *binReader) readUint32() (uint32, error) {
	if r.pos+4 > len(r.data) {
		return 0, errEOF
	}
	val := binary.BigEndian.Uint32(r.data[r.pos : r.pos+4])
	r.pos += 4
	return val, nil
}

func (r *binReader) readUint64() (uint64, error) {
	if r.pos+8 > len(r.data) {
		return 0, errEOF
	}
	val := binary.BigEndian.Uint64(r.data[r.pos : r.pos+8])
	r.pos += 8
	return val, nil
}

func (r *binReader) readVarUint() (uint64, error) {
	val, n := binary.Uvarint(r.data[r.pos:])
	if n <= 0 {
		return 0, errors.New("invalid varuint")
	}
	r.pos += n
	return val, nil
}

func (r *binReader) readAmount() (*uint256.Int, error) {
	if r.pos+AmountSize > len(r.data) {
		return nil, errEOF
	}
	v := new(uint256.Int).SetBytes16(r.data[r.pos : r.pos+AmountSize])
	r.pos += AmountSize
	if !AmountInRange(v) {
		return nil, errAmountRange
	}
	return v, nil
}

func (r *binReader) readString() (string, error) {
	l, err := r.readVarUint()
	if err != nil {
		return "", err
	}
	if l > uint64(len(r.data)-r.pos) {
		return "", errEOF
	}
	s := string(r.data[r.pos : r.pos+int(l)])
	r.pos += int(l)
	return s, nil
}

func (r *binReader) readAddress() (sdk.Address, error) {
	s, err := r.readString()
	return sdk.Address(s), err
}

// done fails when bytes are left over, which means the record was written by something else.
func (r *binReader) done() error {
	if r.pos != len(r.data) {
		return errors.New("trailing bytes")
	}
	return nil
}

// EncodeProposal serializes a proposal.
func EncodeProposal(p *Proposal) []byte {
	w := newWriter()
	w.writeUint32(p.ID)
	w.writeAddress(p.Creator)
	w.writeString(p.Title)
	w.writeString(p.Description)
	w.writeUint64(p.VoteStartAt)
	w.writeUint64(p.VoteEndAt)
	return w.bytes()
}

// DecodeProposal is the inverse of EncodeProposal.
func DecodeProposal(data []byte) (*Proposal, error) {
	r := newReader(data)
	var (
		p   Proposal
		err error
	)
	if p.ID, err = r.readUint32(); err != nil {
		return nil, err
	}
	if p.Creator, err = r.readAddress(); err != nil {
		return nil, err
	}
	if p.Title, err = r.readString(); err != nil {
		return nil, err
	}
	if p.Description, err = r.readString(); err != nil {
		return nil, err
	}
	if p.VoteStartAt, err = r.readUint64(); err != nil {
		return nil, err
	}
	if p.VoteEndAt, err = r.readUint64(); err != nil {
		return nil, err
	}
	return &p, r.done()
}

func EncodeVotes(v Votes) []byte {
	w := newWriter()
	w.writeUint64(v.YesVotes)
	w.writeUint64(v.TotalVotes)
	return w.bytes()
}

func DecodeVotes(data []byte) (Votes, error) {
	r := newReader(data)
	var (
		v   Votes
		err error
	)
	if v.YesVotes, err = r.readUint64(); err != nil {
		return Votes{}, err
	}
	if v.TotalVotes, err = r.readUint64(); err != nil {
		return Votes{}, err
	}
	return v, r.done()
}

func EncodeVotesWeight(v VotesWeight) []byte {
	w := newWriter()
	w.writeUint32(v.StakerWeight)
	w.writeUint32(v.HolderWeight)
	return w.bytes()
}

func DecodeVotesWeight(data []byte) (VotesWeight, error) {
	r := newReader(data)
	var (
		v   VotesWeight
		err error
	)
	if v.StakerWeight, err = r.readUint32(); err != nil {
		return VotesWeight{}, err
	}
	if v.HolderWeight, err = r.readUint32(); err != nil {
		return VotesWeight{}, err
	}
	return v, r.done()
}

func EncodeQuorumRequirements(q QuorumRequirements) []byte {
	w := newWriter()
	w.writeUint64(q.MinTotalVotes)
	w.writeUint64(q.PercentYes)
	return w.bytes()
}

func DecodeQuorumRequirements(data []byte) (QuorumRequirements, error) {
	r := newReader(data)
	var (
		q   QuorumRequirements
		err error
	)
	if q.MinTotalVotes, err = r.readUint64(); err != nil {
		return QuorumRequirements{}, err
	}
	if q.PercentYes, err = r.readUint64(); err != nil {
		return QuorumRequirements{}, err
	}
	return q, r.done()
}

// EncodeBool is used for the write-once has-voted flags.
func EncodeBool(v bool) []byte {
	w := newWriter()
	w.writeBool(v)
	return w.bytes()
}

func DecodeBool(data []byte) (bool, error) {
	r := newReader(data)
	v, err := r.readBool()
	if err != nil {
		return false, err
	}
	return v, r.done()
}

// EncodeAddress and EncodeAsset store the admin and governance token singletons.
func EncodeAddress(a sdk.Address) []byte {
	w := newWriter()
	w.writeAddress(a)
	return w.bytes()
}

func DecodeAddress(data []byte) (sdk.Address, error) {
	r := newReader(data)
	a, err := r.readAddress()
	if err != nil {
		return "", err
	}
	return a, r.done()
}

func EncodeAsset(a sdk.Asset) []byte {
	w := newWriter()
	w.writeString(a.String())
	return w.bytes()
}

func DecodeAsset(data []byte) (sdk.Asset, error) {
	r := newReader(data)
	s, err := r.readString()
	if err != nil {
		return "", err
	}
	return sdk.Asset(s), r.done()
}
