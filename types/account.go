// Package types contains the immutable value types the operation and
// transaction packages are built from: amounts, assets, accounts, memos and
// time bounds. Each type validates on construction and knows its own XDR
// form.
package types

import (
	"errors"

	"github.com/stellar/go/strkey"
	"github.com/stellar/go/xdr"

	"github.com/daccred/txbuild.attest.so/fault"
)

var (
	errOutOfRange = errors.New("value out of range")
	errMuxed      = errors.New("muxed address not allowed here")
)

// Account is a strkey encoded account address. Both plain (G...) and muxed
// (M...) addresses are accepted.
type Account struct {
	address string
}

// ParseAccount validates address and returns it as an Account.
func ParseAccount(address string) (Account, error) {
	muxed, err := xdr.AddressToMuxedAccount(address)
	if err != nil {
		return Account{}, fault.Convert("account", address, err)
	}
	canonical, err := muxed.GetAddress()
	if err != nil {
		return Account{}, fault.Convert("account", address, err)
	}
	return Account{address: canonical}, nil
}

// MustParseAccount is ParseAccount that panics on error.
func MustParseAccount(address string) Account {
	a, err := ParseAccount(address)
	if err != nil {
		panic(err)
	}
	return a
}

// AccountFromXDR converts a wire muxed account.
func AccountFromXDR(m xdr.MuxedAccount) (Account, error) {
	address, err := m.GetAddress()
	if err != nil {
		return Account{}, fault.Codec("decode account", err)
	}
	return Account{address: address}, nil
}

// AccountFromAccountID converts a wire account id (always a G address).
func AccountFromAccountID(id xdr.AccountId) (Account, error) {
	address, err := id.GetAddress()
	if err != nil {
		return Account{}, fault.Codec("decode account id", err)
	}
	return Account{address: address}, nil
}

func (a Account) Address() string { return a.address }
func (a Account) String() string  { return a.address }

// IsZero reports whether the account was never set.
func (a Account) IsZero() bool { return a.address == "" }

// IsMuxed reports whether the address carries a multiplexing id.
func (a Account) IsMuxed() bool {
	return !a.IsZero() && !strkey.IsValidEd25519PublicKey(a.address)
}

// ToXDR returns the wire muxed account.
func (a Account) ToXDR() (xdr.MuxedAccount, error) {
	return xdr.AddressToMuxedAccount(a.address)
}

// AccountID returns the wire account id. Muxed addresses are rejected since
// fields typed AccountID cannot carry the multiplexing id.
func (a Account) AccountID() (xdr.AccountId, error) {
	if a.IsMuxed() {
		return xdr.AccountId{}, fault.Convert("account", a.address, errMuxed)
	}
	return xdr.AddressToAccountId(a.address)
}
