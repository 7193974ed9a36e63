package types

import (
	"errors"
	"fmt"

	"github.com/stellar/go/xdr"

	"github.com/daccred/txbuild.attest.so/fault"
)

// MaxMemoTextLength is the byte limit of a text memo.
const MaxMemoTextLength = 28

type MemoType int

const (
	MemoNone MemoType = iota
	MemoText
	MemoID
	MemoHash
	MemoReturn
)

var memoTypeNames = map[MemoType]string{
	MemoNone:   "none",
	MemoText:   "text",
	MemoID:     "id",
	MemoHash:   "hash",
	MemoReturn: "return",
}

func (t MemoType) String() string { return memoTypeNames[t] }

// Memo is the optional note attached to a transaction. The zero value is
// MemoNone.
type Memo struct {
	kind MemoType
	text string
	id   uint64
	hash [32]byte
}

func NoMemo() Memo { return Memo{} }

// TextMemo fails when text is longer than MaxMemoTextLength bytes.
func TextMemo(text string) (Memo, error) {
	if len(text) > MaxMemoTextLength {
		return Memo{}, fault.Convert("memo", text, fmt.Errorf("text longer than %d bytes", MaxMemoTextLength))
	}
	return Memo{kind: MemoText, text: text}, nil
}

func IDMemo(id uint64) Memo             { return Memo{kind: MemoID, id: id} }
func HashMemo(hash [32]byte) Memo       { return Memo{kind: MemoHash, hash: hash} }
func ReturnHashMemo(hash [32]byte) Memo { return Memo{kind: MemoReturn, hash: hash} }

func (m Memo) Type() MemoType { return m.kind }
func (m Memo) Text() string   { return m.text }
func (m Memo) ID() uint64     { return m.id }
func (m Memo) Hash() [32]byte { return m.hash }

// Value renders the memo content for display.
func (m Memo) Value() string {
	switch m.kind {
	case MemoText:
		return m.text
	case MemoID:
		return fmt.Sprintf("%d", m.id)
	case MemoHash, MemoReturn:
		return fmt.Sprintf("%x", m.hash)
	}
	return ""
}

// ToXDR returns the wire memo.
func (m Memo) ToXDR() xdr.Memo {
	switch m.kind {
	case MemoText:
		text := m.text
		return xdr.Memo{Type: xdr.MemoTypeMemoText, Text: &text}
	case MemoID:
		id := xdr.Uint64(m.id)
		return xdr.Memo{Type: xdr.MemoTypeMemoId, Id: &id}
	case MemoHash:
		hash := xdr.Hash(m.hash)
		return xdr.Memo{Type: xdr.MemoTypeMemoHash, Hash: &hash}
	case MemoReturn:
		hash := xdr.Hash(m.hash)
		return xdr.Memo{Type: xdr.MemoTypeMemoReturn, RetHash: &hash}
	}
	return xdr.Memo{Type: xdr.MemoTypeMemoNone}
}

// MemoFromXDR converts a wire memo.
func MemoFromXDR(x xdr.Memo) (Memo, error) {
	switch x.Type {
	case xdr.MemoTypeMemoNone:
		return NoMemo(), nil
	case xdr.MemoTypeMemoText:
		if x.Text != nil {
			return Memo{kind: MemoText, text: *x.Text}, nil
		}
	case xdr.MemoTypeMemoId:
		if x.Id != nil {
			return IDMemo(uint64(*x.Id)), nil
		}
	case xdr.MemoTypeMemoHash:
		if x.Hash != nil {
			return HashMemo(*x.Hash), nil
		}
	case xdr.MemoTypeMemoReturn:
		if x.RetHash != nil {
			return ReturnHashMemo(*x.RetHash), nil
		}
	default:
		return Memo{}, fault.Codec("decode memo", fmt.Errorf("unknown memo type %d", x.Type))
	}
	return Memo{}, fault.Codec("decode memo", errors.New("missing memo arm"))
}

// TimeBounds limits the ledger close times at which a transaction is valid.
// Times are unix seconds; a MaxTime of 0 means no upper bound.
type TimeBounds struct {
	MinTime uint64
	MaxTime uint64
}

// Validate checks that the bounds are ordered.
func (tb TimeBounds) Validate() error {
	if tb.MaxTime != 0 && tb.MaxTime < tb.MinTime {
		return fault.Assembly("time bounds", "max time is before min time")
	}
	return nil
}

// ToXDR returns the wire time bounds.
func (tb TimeBounds) ToXDR() xdr.TimeBounds {
	return xdr.TimeBounds{MinTime: xdr.TimePoint(tb.MinTime), MaxTime: xdr.TimePoint(tb.MaxTime)}
}
