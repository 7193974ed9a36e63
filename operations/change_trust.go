package operations

import (
	"github.com/stellar/go/xdr"

	"github.com/daccred/txbuild.attest.so/fault"
	"github.com/daccred/txbuild.attest.so/types"
)

const changeTrustName = "change_trust"

// ChangeTrust creates, updates or removes a trust line. An absent limit
// means the maximum trust limit and is sent as 0 on the wire.
type ChangeTrust struct {
	source
	asset types.Asset
	limit *types.Stroops
}

func (op *ChangeTrust) Type() xdr.OperationType { return xdr.OperationTypeChangeTrust }
func (op *ChangeTrust) Asset() types.Asset      { return op.asset }

// Limit returns the explicit limit, if one was set.
func (op *ChangeTrust) Limit() (types.Stroops, bool) {
	if op.limit == nil {
		return 0, false
	}
	return *op.limit, true
}

// EffectiveLimit is the limit the network applies. A limit of 0 means the
// same as no limit.
func (op *ChangeTrust) EffectiveLimit() types.Stroops {
	if op.limit == nil || *op.limit == 0 {
		return types.MaxStroops
	}
	return *op.limit
}

func (op *ChangeTrust) body() (xdr.OperationBody, error) {
	line, err := op.asset.ToChangeTrustXDR()
	if err != nil {
		return xdr.OperationBody{}, err
	}
	limit := xdr.Int64(0)
	if op.limit != nil {
		limit = op.limit.ToXDR()
	}
	return xdr.NewOperationBody(xdr.OperationTypeChangeTrust, xdr.ChangeTrustOp{Line: line, Limit: limit})
}

func changeTrustFromXDR(src source, body xdr.OperationBody) (Operation, error) {
	x, ok := body.GetChangeTrustOp()
	if !ok {
		return nil, missingArm(changeTrustName)
	}
	asset, err := types.AssetFromChangeTrustXDR(x.Line)
	if err != nil {
		return nil, err
	}
	op := &ChangeTrust{source: src, asset: asset}
	// 0 is the absence sentinel. The value is not range checked since the
	// network already accepted it.
	if x.Limit != 0 {
		limit := types.Stroops(x.Limit)
		op.limit = &limit
	}
	return op, nil
}

// ChangeTrustBuilder accumulates the fields of a ChangeTrust. Every setter
// returns an updated copy.
type ChangeTrustBuilder struct {
	source   *types.Account
	asset    *types.Asset
	limit    *types.Stroops
	limitErr error
}

func NewChangeTrust() ChangeTrustBuilder { return ChangeTrustBuilder{} }

// WithSourceAccount sets the operation source. The zero Account clears it.
func (b ChangeTrustBuilder) WithSourceAccount(account types.Account) ChangeTrustBuilder {
	b.source = sourceOverride(account)
	return b
}

func (b ChangeTrustBuilder) WithAsset(asset types.Asset) ChangeTrustBuilder {
	b.asset = &asset
	return b
}

// WithLimit sets an explicit limit. A limit of 0 is accepted and encodes
// exactly like no limit.
func (b ChangeTrustBuilder) WithLimit(limit types.Stroops) ChangeTrustBuilder {
	b.limit, b.limitErr = &limit, nil
	return b
}

// WithLimitAmount sets the limit from a decimal amount such as "1000.5".
// A value that cannot be converted makes Build fail.
func (b ChangeTrustBuilder) WithLimitAmount(v string) ChangeTrustBuilder {
	limit, err := types.ParseStroops(v)
	if err != nil {
		b.limit, b.limitErr = nil, err
		return b
	}
	return b.WithLimit(limit)
}

// WithoutLimit removes any limit set before, meaning the maximum.
func (b ChangeTrustBuilder) WithoutLimit() ChangeTrustBuilder {
	b.limit, b.limitErr = nil, nil
	return b
}

func (b ChangeTrustBuilder) Build() (Operation, error) {
	if b.limitErr != nil {
		return nil, b.limitErr
	}
	if b.asset == nil {
		return nil, fault.Missing(changeTrustName, "asset")
	}
	if b.asset.IsNative() {
		return nil, fault.Invalid(changeTrustName, "asset", "must not be the native asset")
	}
	op := &ChangeTrust{source: source{account: b.source}, asset: *b.asset}
	if b.limit != nil {
		if *b.limit < 0 {
			return nil, fault.Invalid(changeTrustName, "limit", "must not be negative")
		}
		limit := *b.limit
		op.limit = &limit
	}
	return op, nil
}
