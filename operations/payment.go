package operations

import (
	"github.com/stellar/go/xdr"

	"github.com/daccred/txbuild.attest.so/fault"
	"github.com/daccred/txbuild.attest.so/types"
)

const paymentName = "payment"

// Payment sends an amount of an asset to a destination account.
type Payment struct {
	source
	destination types.Account
	asset       types.Asset
	amount      types.Stroops
}

func (op *Payment) Type() xdr.OperationType    { return xdr.OperationTypePayment }
func (op *Payment) Destination() types.Account { return op.destination }
func (op *Payment) Asset() types.Asset         { return op.asset }
func (op *Payment) Amount() types.Stroops      { return op.amount }

func (op *Payment) body() (xdr.OperationBody, error) {
	destination, err := op.destination.ToXDR()
	if err != nil {
		return xdr.OperationBody{}, err
	}
	asset, err := op.asset.ToXDR()
	if err != nil {
		return xdr.OperationBody{}, err
	}
	return xdr.NewOperationBody(xdr.OperationTypePayment, xdr.PaymentOp{
		Destination: destination,
		Asset:       asset,
		Amount:      op.amount.ToXDR(),
	})
}

func paymentFromXDR(src source, body xdr.OperationBody) (Operation, error) {
	x, ok := body.GetPaymentOp()
	if !ok {
		return nil, missingArm(paymentName)
	}
	destination, err := types.AccountFromXDR(x.Destination)
	if err != nil {
		return nil, err
	}
	asset, err := types.AssetFromXDR(x.Asset)
	if err != nil {
		return nil, err
	}
	return &Payment{
		source:      src,
		destination: destination,
		asset:       asset,
		amount:      types.Stroops(x.Amount),
	}, nil
}

type PaymentBuilder struct {
	source      *types.Account
	destination *types.Account
	asset       *types.Asset
	amount      *types.Stroops
	amountErr   error
}

func NewPayment() PaymentBuilder { return PaymentBuilder{} }

// WithSourceAccount sets the operation source. The zero Account clears it.
func (b PaymentBuilder) WithSourceAccount(account types.Account) PaymentBuilder {
	b.source = sourceOverride(account)
	return b
}

func (b PaymentBuilder) WithDestination(account types.Account) PaymentBuilder {
	b.destination = &account
	return b
}

func (b PaymentBuilder) WithAsset(asset types.Asset) PaymentBuilder {
	b.asset = &asset
	return b
}

func (b PaymentBuilder) WithAmount(amount types.Stroops) PaymentBuilder {
	b.amount, b.amountErr = &amount, nil
	return b
}

func (b PaymentBuilder) WithAmountString(v string) PaymentBuilder {
	amount, err := types.ParseStroops(v)
	if err != nil {
		b.amount, b.amountErr = nil, err
		return b
	}
	return b.WithAmount(amount)
}

func (b PaymentBuilder) Build() (Operation, error) {
	if b.amountErr != nil {
		return nil, b.amountErr
	}
	if b.destination == nil || b.destination.IsZero() {
		return nil, fault.Missing(paymentName, "destination")
	}
	if b.asset == nil {
		return nil, fault.Missing(paymentName, "asset")
	}
	if b.amount == nil {
		return nil, fault.Missing(paymentName, "amount")
	}
	if *b.amount <= 0 {
		return nil, fault.Invalid(paymentName, "amount", "must be positive")
	}
	return &Payment{
		source:      source{account: b.source},
		destination: *b.destination,
		asset:       *b.asset,
		amount:      *b.amount,
	}, nil
}
