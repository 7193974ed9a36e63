package operations

import (
	"github.com/stellar/go/xdr"

	"github.com/daccred/txbuild.attest.so/fault"
	"github.com/daccred/txbuild.attest.so/types"
)

const bumpSequenceName = "bump_sequence"

// BumpSequence raises the source account's sequence number to BumpTo.
type BumpSequence struct {
	source
	bumpTo int64
}

func (op *BumpSequence) Type() xdr.OperationType { return xdr.OperationTypeBumpSequence }
func (op *BumpSequence) BumpTo() int64           { return op.bumpTo }

func (op *BumpSequence) body() (xdr.OperationBody, error) {
	return xdr.NewOperationBody(xdr.OperationTypeBumpSequence, xdr.BumpSequenceOp{
		BumpTo: xdr.SequenceNumber(op.bumpTo),
	})
}

func bumpSequenceFromXDR(src source, body xdr.OperationBody) (Operation, error) {
	x, ok := body.GetBumpSequenceOp()
	if !ok {
		return nil, missingArm(bumpSequenceName)
	}
	return &BumpSequence{source: src, bumpTo: int64(x.BumpTo)}, nil
}

type BumpSequenceBuilder struct {
	source *types.Account
	bumpTo *int64
}

func NewBumpSequence() BumpSequenceBuilder { return BumpSequenceBuilder{} }

// WithSourceAccount sets the operation source. The zero Account clears it.
func (b BumpSequenceBuilder) WithSourceAccount(account types.Account) BumpSequenceBuilder {
	b.source = sourceOverride(account)
	return b
}

func (b BumpSequenceBuilder) WithBumpTo(sequence int64) BumpSequenceBuilder {
	b.bumpTo = &sequence
	return b
}

func (b BumpSequenceBuilder) Build() (Operation, error) {
	if b.bumpTo == nil {
		return nil, fault.Missing(bumpSequenceName, "bump_to")
	}
	if *b.bumpTo < 0 {
		return nil, fault.Invalid(bumpSequenceName, "bump_to", "must not be negative")
	}
	return &BumpSequence{source: source{account: b.source}, bumpTo: *b.bumpTo}, nil
}
