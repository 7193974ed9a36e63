package transaction

import (
	"math"

	"github.com/daccred/txbuild.attest.so/fault"
	"github.com/daccred/txbuild.attest.so/operations"
	"github.com/daccred/txbuild.attest.so/types"
)

// MinBaseFee is the smallest per-operation fee the network accepts, in
// stroops.
const MinBaseFee uint32 = 100

// Builder accumulates operations and metadata until IntoTransaction. Like
// the operation builders every setter returns an updated copy.
type Builder struct {
	source     *types.Account
	sequence   *int64
	baseFee    *uint32
	fee        *uint32
	memo       types.Memo
	timeBounds *types.TimeBounds
	operations []operations.Operation
}

func NewBuilder() Builder { return Builder{} }

func (b Builder) WithSourceAccount(account types.Account) Builder {
	b.source = &account
	return b
}

// WithSequence sets the sequence number the transaction consumes, that is
// the account's current sequence plus one.
func (b Builder) WithSequence(sequence int64) Builder {
	b.sequence = &sequence
	return b
}

// WithBaseFee sets the per-operation fee.
func (b Builder) WithBaseFee(fee uint32) Builder {
	b.baseFee = &fee
	return b
}

// WithFee sets the total fee, overriding the base fee computation.
func (b Builder) WithFee(fee uint32) Builder {
	b.fee = &fee
	return b
}

func (b Builder) WithMemo(memo types.Memo) Builder {
	b.memo = memo
	return b
}

func (b Builder) WithTimeBounds(tb types.TimeBounds) Builder {
	b.timeBounds = &tb
	return b
}

// AddOperation appends op. Order is kept: operations apply in sequence.
func (b Builder) AddOperation(op operations.Operation) Builder {
	ops := make([]operations.Operation, len(b.operations), len(b.operations)+1)
	copy(ops, b.operations)
	b.operations = append(ops, op)
	return b
}

// IntoTransaction finalizes the builder.
func (b Builder) IntoTransaction() (*Transaction, error) {
	if b.source == nil || b.source.IsZero() {
		return nil, fault.Assembly("source_account", "is required")
	}
	if b.sequence == nil {
		return nil, fault.Assembly("sequence", "is required")
	}
	if *b.sequence < 0 {
		return nil, fault.Assembly("sequence", "must not be negative")
	}
	if len(b.operations) == 0 {
		return nil, fault.Assembly("operations", "must not be empty")
	}
	for _, op := range b.operations {
		if op == nil {
			return nil, fault.Assembly("operations", "must not contain nil")
		}
	}
	if b.timeBounds != nil {
		if err := b.timeBounds.Validate(); err != nil {
			return nil, err
		}
	}

	var fee uint32
	switch {
	case b.fee != nil:
		fee = *b.fee
	case b.baseFee != nil:
		total := uint64(*b.baseFee) * uint64(len(b.operations))
		if total > math.MaxUint32 {
			return nil, fault.Assembly("fee", "overflows uint32")
		}
		fee = uint32(total)
	default:
		return nil, fault.Assembly("fee", "is required")
	}

	tx := &Transaction{
		source:     *b.source,
		sequence:   *b.sequence,
		fee:        fee,
		memo:       b.memo,
		operations: append([]operations.Operation(nil), b.operations...),
	}
	if b.timeBounds != nil {
		tb := *b.timeBounds
		tx.timeBounds = &tb
	}
	return tx, nil
}
