// Package operations models the instructions a transaction is made of.
//
// Operation is a closed union: every kind lives in this package and is
// produced by its builder, which is the only place field constraints are
// checked. ToXDR and FromXDR map an Operation to and from the wire form.
// FromXDR trusts the wire data and does not re-run builder validation.
package operations

import (
	"fmt"

	"github.com/stellar/go/xdr"

	"github.com/daccred/txbuild.attest.so/fault"
	"github.com/daccred/txbuild.attest.so/types"
)

// Operation is implemented by ChangeTrust, Inflation, CreateAccount, Payment,
// AccountMerge, ManageData and BumpSequence.
type Operation interface {
	// SourceAccount returns the account this operation runs as when it
	// differs from the transaction source.
	SourceAccount() (types.Account, bool)
	Type() xdr.OperationType
	body() (xdr.OperationBody, error)
}

// Builder is satisfied by every operation builder.
type Builder interface {
	Build() (Operation, error)
}

var names = map[xdr.OperationType]string{
	xdr.OperationTypeCreateAccount: "create_account",
	xdr.OperationTypePayment:       "payment",
	xdr.OperationTypeChangeTrust:   "change_trust",
	xdr.OperationTypeAccountMerge:  "account_merge",
	xdr.OperationTypeInflation:     "inflation",
	xdr.OperationTypeManageData:    "manage_data",
	xdr.OperationTypeBumpSequence:  "bump_sequence",
}

// Name returns the snake case name of an operation type.
func Name(t xdr.OperationType) string {
	if name, ok := names[t]; ok {
		return name
	}
	return t.String()
}

// source is embedded by every operation.
type source struct {
	account *types.Account
}

func (s source) SourceAccount() (types.Account, bool) {
	if s.account == nil {
		return types.Account{}, false
	}
	return *s.account, true
}

// sourceOverride returns nil for the zero Account so that passing it to
// WithSourceAccount clears the override.
func sourceOverride(a types.Account) *types.Account {
	if a.IsZero() {
		return nil
	}
	return &a
}

// ToXDR converts op to its wire form.
func ToXDR(op Operation) (xdr.Operation, error) {
	body, err := op.body()
	if err != nil {
		return xdr.Operation{}, fault.Codec("encode "+Name(op.Type()), err)
	}
	result := xdr.Operation{Body: body}
	if account, ok := op.SourceAccount(); ok {
		muxed, err := account.ToXDR()
		if err != nil {
			return xdr.Operation{}, fault.Codec("encode source account", err)
		}
		result.SourceAccount = &muxed
	}
	return result, nil
}

// FromXDR converts a wire operation. Operation types outside the supported
// set are reported as codec errors.
func FromXDR(x xdr.Operation) (Operation, error) {
	var src source
	if x.SourceAccount != nil {
		account, err := types.AccountFromXDR(*x.SourceAccount)
		if err != nil {
			return nil, err
		}
		src.account = &account
	}

	switch x.Body.Type {
	case xdr.OperationTypeChangeTrust:
		return changeTrustFromXDR(src, x.Body)
	case xdr.OperationTypeInflation:
		return &Inflation{source: src}, nil
	case xdr.OperationTypeCreateAccount:
		return createAccountFromXDR(src, x.Body)
	case xdr.OperationTypePayment:
		return paymentFromXDR(src, x.Body)
	case xdr.OperationTypeAccountMerge:
		return accountMergeFromXDR(src, x.Body)
	case xdr.OperationTypeManageData:
		return manageDataFromXDR(src, x.Body)
	case xdr.OperationTypeBumpSequence:
		return bumpSequenceFromXDR(src, x.Body)
	default:
		return nil, fault.Codec("decode operation", fmt.Errorf("unsupported operation type %s", x.Body.Type))
	}
}

// Encode returns the XDR bytes of op.
func Encode(op Operation) ([]byte, error) {
	x, err := ToXDR(op)
	if err != nil {
		return nil, err
	}
	raw, err := x.MarshalBinary()
	if err != nil {
		return nil, fault.Codec("encode operation", err)
	}
	return raw, nil
}

// Decode parses XDR bytes produced by Encode.
func Decode(raw []byte) (Operation, error) {
	var x xdr.Operation
	if err := xdr.SafeUnmarshal(raw, &x); err != nil {
		return nil, fault.Codec("decode operation", err)
	}
	return FromXDR(x)
}

func missingArm(variant string) error {
	return fault.Codec("decode "+variant, fmt.Errorf("operation body has no %s arm", variant))
}
