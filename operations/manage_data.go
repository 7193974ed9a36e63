package operations

import (
	"github.com/stellar/go/xdr"

	"github.com/daccred/txbuild.attest.so/fault"
	"github.com/daccred/txbuild.attest.so/types"
)

const (
	manageDataName = "manage_data"

	// MaxDataLength bounds both the entry name and its value.
	MaxDataLength = 64
)

// ManageData sets, updates or deletes a named data entry on the source
// account. An absent value deletes the entry.
type ManageData struct {
	source
	name  string
	value []byte
	set   bool
}

func (op *ManageData) Type() xdr.OperationType { return xdr.OperationTypeManageData }
func (op *ManageData) Name() string            { return op.name }

// Value returns a copy of the value, or false when the entry is deleted.
func (op *ManageData) Value() ([]byte, bool) {
	if !op.set {
		return nil, false
	}
	return append([]byte{}, op.value...), true
}

func (op *ManageData) body() (xdr.OperationBody, error) {
	x := xdr.ManageDataOp{DataName: xdr.String64(op.name)}
	if op.set {
		value := xdr.DataValue(append([]byte{}, op.value...))
		x.DataValue = &value
	}
	return xdr.NewOperationBody(xdr.OperationTypeManageData, x)
}

func manageDataFromXDR(src source, body xdr.OperationBody) (Operation, error) {
	x, ok := body.GetManageDataOp()
	if !ok {
		return nil, missingArm(manageDataName)
	}
	op := &ManageData{source: src, name: string(x.DataName)}
	if x.DataValue != nil {
		op.value, op.set = append([]byte{}, *x.DataValue...), true
	}
	return op, nil
}

type ManageDataBuilder struct {
	source *types.Account
	name   *string
	value  []byte
	set    bool
}

func NewManageData() ManageDataBuilder { return ManageDataBuilder{} }

// WithSourceAccount sets the operation source. The zero Account clears it.
func (b ManageDataBuilder) WithSourceAccount(account types.Account) ManageDataBuilder {
	b.source = sourceOverride(account)
	return b
}

func (b ManageDataBuilder) WithName(name string) ManageDataBuilder {
	b.name = &name
	return b
}

func (b ManageDataBuilder) WithValue(value []byte) ManageDataBuilder {
	b.value, b.set = append([]byte{}, value...), true
	return b
}

// WithoutValue turns the operation into a delete.
func (b ManageDataBuilder) WithoutValue() ManageDataBuilder {
	b.value, b.set = nil, false
	return b
}

func (b ManageDataBuilder) Build() (Operation, error) {
	if b.name == nil || *b.name == "" {
		return nil, fault.Missing(manageDataName, "name")
	}
	if len(*b.name) > MaxDataLength {
		return nil, fault.Invalid(manageDataName, "name", "must be at most 64 bytes")
	}
	if len(b.value) > MaxDataLength {
		return nil, fault.Invalid(manageDataName, "value", "must be at most 64 bytes")
	}
	op := &ManageData{source: source{account: b.source}, name: *b.name}
	if b.set {
		op.value, op.set = append([]byte{}, b.value...), true
	}
	return op, nil
}
