package operations

import (
	"github.com/stellar/go/xdr"

	"github.com/daccred/txbuild.attest.so/fault"
	"github.com/daccred/txbuild.attest.so/types"
)

const createAccountName = "create_account"

// CreateAccount funds a new account with a starting balance in lumens.
type CreateAccount struct {
	source
	destination     types.Account
	startingBalance types.Stroops
}

func (op *CreateAccount) Type() xdr.OperationType        { return xdr.OperationTypeCreateAccount }
func (op *CreateAccount) Destination() types.Account     { return op.destination }
func (op *CreateAccount) StartingBalance() types.Stroops { return op.startingBalance }

func (op *CreateAccount) body() (xdr.OperationBody, error) {
	destination, err := op.destination.AccountID()
	if err != nil {
		return xdr.OperationBody{}, err
	}
	return xdr.NewOperationBody(xdr.OperationTypeCreateAccount, xdr.CreateAccountOp{
		Destination:     destination,
		StartingBalance: op.startingBalance.ToXDR(),
	})
}

func createAccountFromXDR(src source, body xdr.OperationBody) (Operation, error) {
	x, ok := body.GetCreateAccountOp()
	if !ok {
		return nil, missingArm(createAccountName)
	}
	destination, err := types.AccountFromAccountID(x.Destination)
	if err != nil {
		return nil, err
	}
	return &CreateAccount{
		source:          src,
		destination:     destination,
		startingBalance: types.Stroops(x.StartingBalance),
	}, nil
}

type CreateAccountBuilder struct {
	source          *types.Account
	destination     *types.Account
	startingBalance *types.Stroops
	balanceErr      error
}

func NewCreateAccount() CreateAccountBuilder { return CreateAccountBuilder{} }

// WithSourceAccount sets the operation source. The zero Account clears it.
func (b CreateAccountBuilder) WithSourceAccount(account types.Account) CreateAccountBuilder {
	b.source = sourceOverride(account)
	return b
}

func (b CreateAccountBuilder) WithDestination(account types.Account) CreateAccountBuilder {
	b.destination = &account
	return b
}

func (b CreateAccountBuilder) WithStartingBalance(balance types.Stroops) CreateAccountBuilder {
	b.startingBalance, b.balanceErr = &balance, nil
	return b
}

func (b CreateAccountBuilder) WithStartingBalanceAmount(v string) CreateAccountBuilder {
	balance, err := types.ParseStroops(v)
	if err != nil {
		b.startingBalance, b.balanceErr = nil, err
		return b
	}
	return b.WithStartingBalance(balance)
}

func (b CreateAccountBuilder) Build() (Operation, error) {
	if b.balanceErr != nil {
		return nil, b.balanceErr
	}
	if b.destination == nil || b.destination.IsZero() {
		return nil, fault.Missing(createAccountName, "destination")
	}
	if b.destination.IsMuxed() {
		return nil, fault.Invalid(createAccountName, "destination", "must not be a muxed account")
	}
	if b.startingBalance == nil {
		return nil, fault.Missing(createAccountName, "starting_balance")
	}
	if *b.startingBalance < 0 {
		return nil, fault.Invalid(createAccountName, "starting_balance", "must not be negative")
	}
	return &CreateAccount{
		source:          source{account: b.source},
		destination:     *b.destination,
		startingBalance: *b.startingBalance,
	}, nil
}
