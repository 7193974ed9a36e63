package operations

import (
	"github.com/stellar/go/xdr"

	"github.com/daccred/txbuild.attest.so/fault"
	"github.com/daccred/txbuild.attest.so/types"
)

const accountMergeName = "account_merge"

// AccountMerge moves the source account's lumens to destination and removes
// the source account.
type AccountMerge struct {
	source
	destination types.Account
}

func (op *AccountMerge) Type() xdr.OperationType    { return xdr.OperationTypeAccountMerge }
func (op *AccountMerge) Destination() types.Account { return op.destination }

func (op *AccountMerge) body() (xdr.OperationBody, error) {
	destination, err := op.destination.ToXDR()
	if err != nil {
		return xdr.OperationBody{}, err
	}
	return xdr.NewOperationBody(xdr.OperationTypeAccountMerge, destination)
}

func accountMergeFromXDR(src source, body xdr.OperationBody) (Operation, error) {
	x, ok := body.GetDestination()
	if !ok {
		return nil, missingArm(accountMergeName)
	}
	destination, err := types.AccountFromXDR(x)
	if err != nil {
		return nil, err
	}
	return &AccountMerge{source: src, destination: destination}, nil
}

type AccountMergeBuilder struct {
	source      *types.Account
	destination *types.Account
}

func NewAccountMerge() AccountMergeBuilder { return AccountMergeBuilder{} }

// WithSourceAccount sets the operation source. The zero Account clears it.
func (b AccountMergeBuilder) WithSourceAccount(account types.Account) AccountMergeBuilder {
	b.source = sourceOverride(account)
	return b
}

func (b AccountMergeBuilder) WithDestination(account types.Account) AccountMergeBuilder {
	b.destination = &account
	return b
}

func (b AccountMergeBuilder) Build() (Operation, error) {
	if b.destination == nil || b.destination.IsZero() {
		return nil, fault.Missing(accountMergeName, "destination")
	}
	return &AccountMerge{source: source{account: b.source}, destination: *b.destination}, nil
}
