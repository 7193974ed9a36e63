package types

import (
	"errors"
	"strings"

	"github.com/stellar/go/xdr"

	"github.com/daccred/txbuild.attest.so/fault"
)

var errAssetCode = errors.New("asset code must be 1 to 12 alphanumeric characters")

// Asset is either the native asset or a credit asset identified by code and
// issuer.
type Asset struct {
	code   string
	issuer Account
}

// NativeAsset returns the network's native asset.
func NativeAsset() Asset { return Asset{} }

// NewCreditAsset validates code and issuer. Codes of up to 4 characters are
// encoded as alphanum4, longer ones as alphanum12.
func NewCreditAsset(code string, issuer Account) (Asset, error) {
	if !validAssetCode(code) {
		return Asset{}, fault.Convert("asset code", code, errAssetCode)
	}
	if issuer.IsZero() {
		return Asset{}, fault.Convert("asset issuer", "", errors.New("issuer is required"))
	}
	if issuer.IsMuxed() {
		return Asset{}, fault.Convert("asset issuer", issuer.Address(), errMuxed)
	}
	return Asset{code: code, issuer: issuer}, nil
}

// MustCreditAsset is NewCreditAsset that panics on error.
func MustCreditAsset(code string, issuer Account) Asset {
	a, err := NewCreditAsset(code, issuer)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Asset) IsNative() bool  { return a.code == "" }
func (a Asset) Code() string    { return a.code }
func (a Asset) Issuer() Account { return a.issuer }

func (a Asset) String() string {
	if a.IsNative() {
		return "native"
	}
	return a.code + ":" + a.issuer.Address()
}

// ToXDR returns the wire asset.
func (a Asset) ToXDR() (xdr.Asset, error) {
	if a.IsNative() {
		return xdr.Asset{Type: xdr.AssetTypeAssetTypeNative}, nil
	}
	issuer, err := a.issuer.AccountID()
	if err != nil {
		return xdr.Asset{}, err
	}
	if len(a.code) <= 4 {
		var code xdr.AssetCode4
		copy(code[:], a.code)
		return xdr.Asset{
			Type:      xdr.AssetTypeAssetTypeCreditAlphanum4,
			AlphaNum4: &xdr.AlphaNum4{AssetCode: code, Issuer: issuer},
		}, nil
	}
	var code xdr.AssetCode12
	copy(code[:], a.code)
	return xdr.Asset{
		Type:       xdr.AssetTypeAssetTypeCreditAlphanum12,
		AlphaNum12: &xdr.AlphaNum12{AssetCode: code, Issuer: issuer},
	}, nil
}

// ToChangeTrustXDR returns the asset in the form used by trust line changes.
func (a Asset) ToChangeTrustXDR() (xdr.ChangeTrustAsset, error) {
	x, err := a.ToXDR()
	if err != nil {
		return xdr.ChangeTrustAsset{}, err
	}
	return xdr.ChangeTrustAsset{
		Type:       x.Type,
		AlphaNum4:  x.AlphaNum4,
		AlphaNum12: x.AlphaNum12,
	}, nil
}

// AssetFromXDR converts a wire asset.
func AssetFromXDR(x xdr.Asset) (Asset, error) {
	switch x.Type {
	case xdr.AssetTypeAssetTypeNative:
		return NativeAsset(), nil
	case xdr.AssetTypeAssetTypeCreditAlphanum4:
		if x.AlphaNum4 == nil {
			return Asset{}, fault.Codec("decode asset", errors.New("missing alphanum4 arm"))
		}
		return creditFromXDR(x.AlphaNum4.AssetCode[:], x.AlphaNum4.Issuer)
	case xdr.AssetTypeAssetTypeCreditAlphanum12:
		if x.AlphaNum12 == nil {
			return Asset{}, fault.Codec("decode asset", errors.New("missing alphanum12 arm"))
		}
		return creditFromXDR(x.AlphaNum12.AssetCode[:], x.AlphaNum12.Issuer)
	default:
		return Asset{}, fault.Codec("decode asset", errors.New("unsupported asset type "+x.Type.String()))
	}
}

// AssetFromChangeTrustXDR converts a trust line asset. Liquidity pool shares
// have no Asset representation and are reported as codec errors.
func AssetFromChangeTrustXDR(x xdr.ChangeTrustAsset) (Asset, error) {
	if x.Type == xdr.AssetTypeAssetTypePoolShare {
		return Asset{}, fault.Codec("decode change trust asset", errors.New("liquidity pool assets are not supported"))
	}
	return AssetFromXDR(xdr.Asset{Type: x.Type, AlphaNum4: x.AlphaNum4, AlphaNum12: x.AlphaNum12})
}

func creditFromXDR(code []byte, issuer xdr.AccountId) (Asset, error) {
	account, err := AccountFromAccountID(issuer)
	if err != nil {
		return Asset{}, err
	}
	return Asset{code: strings.TrimRight(string(code), "\x00"), issuer: account}, nil
}

func validAssetCode(code string) bool {
	if len(code) == 0 || len(code) > 12 {
		return false
	}
	for _, c := range code {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}
