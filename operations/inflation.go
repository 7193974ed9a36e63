package operations

import (
	"github.com/stellar/go/xdr"

	"github.com/daccred/txbuild.attest.so/types"
)

// Inflation asks the network to run the inflation round. It has no payload.
type Inflation struct {
	source
}

func (op *Inflation) Type() xdr.OperationType { return xdr.OperationTypeInflation }

func (op *Inflation) body() (xdr.OperationBody, error) {
	return xdr.NewOperationBody(xdr.OperationTypeInflation, nil)
}

type InflationBuilder struct {
	source *types.Account
}

func NewInflation() InflationBuilder { return InflationBuilder{} }

// WithSourceAccount sets the operation source. The zero Account clears it.
func (b InflationBuilder) WithSourceAccount(account types.Account) InflationBuilder {
	b.source = sourceOverride(account)
	return b
}

// Build never fails.
func (b InflationBuilder) Build() (Operation, error) {
	return &Inflation{source: source{account: b.source}}, nil
}
