// Package transaction assembles operations into transactions, computes the
// payload signatures are made over and wraps signed transactions into
// envelopes that travel as XDR or base64 text.
package transaction

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/stellar/go/xdr"

	"github.com/daccred/txbuild.attest.so/fault"
	"github.com/daccred/txbuild.attest.so/operations"
	"github.com/daccred/txbuild.attest.so/types"
)

// Transaction is a finalized, immutable list of operations with the
// account, sequence number and fee that pay for them.
type Transaction struct {
	source     types.Account
	sequence   int64
	fee        uint32
	memo       types.Memo
	timeBounds *types.TimeBounds
	operations []operations.Operation
}

func (tx *Transaction) SourceAccount() types.Account { return tx.source }
func (tx *Transaction) Sequence() int64              { return tx.sequence }
func (tx *Transaction) Fee() uint32                  { return tx.fee }
func (tx *Transaction) Memo() types.Memo             { return tx.memo }

func (tx *Transaction) TimeBounds() (types.TimeBounds, bool) {
	if tx.timeBounds == nil {
		return types.TimeBounds{}, false
	}
	return *tx.timeBounds, true
}

// Operations returns the operations in application order.
func (tx *Transaction) Operations() []operations.Operation {
	return append([]operations.Operation(nil), tx.operations...)
}

// ToXDR returns the wire transaction.
func (tx *Transaction) ToXDR() (xdr.Transaction, error) {
	source, err := tx.source.ToXDR()
	if err != nil {
		return xdr.Transaction{}, fault.Codec("encode transaction source", err)
	}
	ops := make([]xdr.Operation, 0, len(tx.operations))
	for _, op := range tx.operations {
		x, err := operations.ToXDR(op)
		if err != nil {
			return xdr.Transaction{}, err
		}
		ops = append(ops, x)
	}
	cond := xdr.Preconditions{Type: xdr.PreconditionTypePrecondNone}
	if tx.timeBounds != nil {
		tb := tx.timeBounds.ToXDR()
		cond = xdr.Preconditions{Type: xdr.PreconditionTypePrecondTime, TimeBounds: &tb}
	}
	return xdr.Transaction{
		SourceAccount: source,
		Fee:           xdr.Uint32(tx.fee),
		SeqNum:        xdr.SequenceNumber(tx.sequence),
		Cond:          cond,
		Memo:          tx.memo.ToXDR(),
		Operations:    ops,
		Ext:           xdr.TransactionExt{V: 0},
	}, nil
}

// FromXDR converts a wire transaction. Preconditions other than time bounds
// and transaction extensions are not supported.
func FromXDR(x xdr.Transaction) (*Transaction, error) {
	source, err := types.AccountFromXDR(x.SourceAccount)
	if err != nil {
		return nil, err
	}
	memo, err := types.MemoFromXDR(x.Memo)
	if err != nil {
		return nil, err
	}
	if x.Ext.V != 0 {
		return nil, fault.Codec("decode transaction", fmt.Errorf("unsupported transaction extension v%d", x.Ext.V))
	}

	tx := &Transaction{
		source:   source,
		sequence: int64(x.SeqNum),
		fee:      uint32(x.Fee),
		memo:     memo,
	}
	switch x.Cond.Type {
	case xdr.PreconditionTypePrecondNone:
	case xdr.PreconditionTypePrecondTime:
		if x.Cond.TimeBounds == nil {
			return nil, fault.Codec("decode transaction", errors.New("missing time bounds arm"))
		}
		tx.timeBounds = &types.TimeBounds{
			MinTime: uint64(x.Cond.TimeBounds.MinTime),
			MaxTime: uint64(x.Cond.TimeBounds.MaxTime),
		}
	default:
		return nil, fault.Codec("decode transaction", fmt.Errorf("unsupported precondition type %d", x.Cond.Type))
	}

	tx.operations = make([]operations.Operation, 0, len(x.Operations))
	for i, xop := range x.Operations {
		op, err := operations.FromXDR(xop)
		if err != nil {
			return nil, fmt.Errorf("operation %d: %w", i, err)
		}
		tx.operations = append(tx.operations, op)
	}
	return tx, nil
}

// MarshalBinary returns the XDR bytes of the transaction.
func (tx *Transaction) MarshalBinary() ([]byte, error) {
	x, err := tx.ToXDR()
	if err != nil {
		return nil, err
	}
	raw, err := x.MarshalBinary()
	if err != nil {
		return nil, fault.Codec("encode transaction", err)
	}
	return raw, nil
}

// SignaturePayload returns the bytes whose hash is signed: the network id,
// the envelope type tag and the XDR transaction. The output only depends on
// the transaction and the network.
func (tx *Transaction) SignaturePayload(n Network) ([]byte, error) {
	x, err := tx.ToXDR()
	if err != nil {
		return nil, err
	}
	payload := xdr.TransactionSignaturePayload{
		NetworkId: xdr.Hash(n.ID()),
		TaggedTransaction: xdr.TransactionSignaturePayloadTaggedTransaction{
			Type: xdr.EnvelopeTypeEnvelopeTypeTx,
			Tx:   &x,
		},
	}
	raw, err := payload.MarshalBinary()
	if err != nil {
		return nil, fault.Codec("encode signature payload", err)
	}
	return raw, nil
}

// Hash is the sha256 of the signature payload. It is both what signers sign
// and the transaction id on the network.
func (tx *Transaction) Hash(n Network) ([32]byte, error) {
	payload, err := tx.SignaturePayload(n)
	if err != nil {
		return [32]byte{}, err
	}
	return sha256.Sum256(payload), nil
}

// HashHex is Hash hex encoded.
func (tx *Transaction) HashHex(n Network) (string, error) {
	hash, err := tx.Hash(n)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(hash[:]), nil
}

// ToEnvelope wraps the transaction in an envelope without signatures.
func (tx *Transaction) ToEnvelope() *Envelope {
	return &Envelope{tx: tx}
}
