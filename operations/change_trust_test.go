package operations

import (
	"testing"

	"github.com/stellar/go/xdr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daccred/txbuild.attest.so/fault"
	"github.com/daccred/txbuild.attest.so/types"
)

const (
	address0 = "GDQNY3PBOJOKYZSRMK2S7LHHGWZIUISD4QORETLMXEWXBI7KFZZMKTL3"
	address1 = "GAS4V4O2B7DW5T7IQRPEEVCRXMDZESKISR7DVIGKZQYYV3OSQ5SH5LVP"
	address2 = "GB7BDSZU2Y27LYNLALKKALB52WS2IZWYBDGY6EQBLEED3TJOCVMZRH7H"
	muxed0   = "MDQNY3PBOJOKYZSRMK2S7LHHGWZIUISD4QORETLMXEWXBI7KFZZMKAAAAAAAAAAE2J43I"
)

func fooBar() types.Asset {
	return types.MustCreditAsset("FOOBAR", types.MustParseAccount(address1))
}

func TestChangeTrustBuilder(t *testing.T) {
	tests := []struct {
		name       string
		builder    ChangeTrustBuilder
		wantField  string
		conversion bool
		limit      *types.Stroops
	}{
		{
			name:    "No limit",
			builder: NewChangeTrust().WithAsset(fooBar()),
		},
		{
			name:    "Zero limit",
			builder: NewChangeTrust().WithAsset(fooBar()).WithLimit(0),
			limit:   &[]types.Stroops{0}[0],
		},
		{
			name:    "Maximum limit",
			builder: NewChangeTrust().WithAsset(fooBar()).WithLimit(types.MaxStroops),
			limit:   &[]types.Stroops{types.MaxStroops}[0],
		},
		{
			name:    "Decimal limit",
			builder: NewChangeTrust().WithAsset(fooBar()).WithLimitAmount("100.5"),
			limit:   &[]types.Stroops{1005000000}[0],
		},
		{
			name:    "Limit removed again",
			builder: NewChangeTrust().WithAsset(fooBar()).WithLimit(10).WithoutLimit(),
		},
		{
			name:      "Missing asset",
			builder:   NewChangeTrust().WithLimit(10),
			wantField: "asset",
		},
		{
			name:      "Native asset",
			builder:   NewChangeTrust().WithAsset(types.NativeAsset()),
			wantField: "asset",
		},
		{
			name:      "Negative limit",
			builder:   NewChangeTrust().WithAsset(fooBar()).WithLimit(-1),
			wantField: "limit",
		},
		{
			name:       "Unparsable limit",
			builder:    NewChangeTrust().WithAsset(fooBar()).WithLimitAmount("lots"),
			conversion: true,
		},
		{
			name:    "Bad limit replaced by a good one",
			builder: NewChangeTrust().WithAsset(fooBar()).WithLimitAmount("lots").WithLimit(7),
			limit:   &[]types.Stroops{7}[0],
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, err := tt.builder.Build()
			if tt.conversion {
				assert.Nil(t, op)
				assert.True(t, fault.IsConversion(err))
				return
			}
			if tt.wantField != "" {
				assert.Nil(t, op)
				var ve *fault.ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Equal(t, "change_trust", ve.Variant)
				assert.Equal(t, tt.wantField, ve.Field)
				return
			}
			require.NoError(t, err)
			ct, ok := op.(*ChangeTrust)
			require.True(t, ok)
			assert.Equal(t, fooBar(), ct.Asset())
			limit, present := ct.Limit()
			if tt.limit == nil {
				assert.False(t, present)
				assert.Equal(t, types.MaxStroops, ct.EffectiveLimit())
			} else {
				assert.True(t, present)
				assert.Equal(t, *tt.limit, limit)
			}
		})
	}
}

func TestChangeTrustLimitMonotonicity(t *testing.T) {
	for _, n := range []int64{-9223372036854775808, -100, -1, 0, 1, 100, 9223372036854775807} {
		_, err := NewChangeTrust().WithAsset(fooBar()).WithLimit(types.Stroops(n)).Build()
		if n >= 0 {
			assert.NoError(t, err, n)
		} else {
			assert.True(t, fault.IsValidation(err), n)
		}
	}
}

func TestChangeTrustSentinel(t *testing.T) {
	none, err := NewChangeTrust().WithAsset(fooBar()).Build()
	require.NoError(t, err)
	zero, err := NewChangeTrust().WithAsset(fooBar()).WithLimit(0).Build()
	require.NoError(t, err)
	assert.Equal(t, types.MaxStroops, zero.(*ChangeTrust).EffectiveLimit())

	for _, op := range []Operation{none, zero} {
		x, err := ToXDR(op)
		require.NoError(t, err)
		assert.Equal(t, xdr.Int64(0), x.Body.MustChangeTrustOp().Limit)

		back, err := FromXDR(x)
		require.NoError(t, err)
		_, present := back.(*ChangeTrust).Limit()
		assert.False(t, present)
	}

	// Both encode to identical bytes.
	a, err := Encode(none)
	require.NoError(t, err)
	b, err := Encode(zero)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestChangeTrustFromXDRDoesNotValidate(t *testing.T) {
	line, err := fooBar().ToChangeTrustXDR()
	require.NoError(t, err)
	body, err := xdr.NewOperationBody(xdr.OperationTypeChangeTrust, xdr.ChangeTrustOp{Line: line, Limit: -5})
	require.NoError(t, err)

	op, err := FromXDR(xdr.Operation{Body: body})
	require.NoError(t, err)
	limit, present := op.(*ChangeTrust).Limit()
	assert.True(t, present)
	assert.Equal(t, types.Stroops(-5), limit)
}

func TestChangeTrustSourceAccount(t *testing.T) {
	override := types.MustParseAccount(address2)
	op, err := NewChangeTrust().
		WithSourceAccount(types.MustParseAccount(address0)).
		WithSourceAccount(override).
		WithAsset(fooBar()).
		Build()
	require.NoError(t, err)

	source, ok := op.SourceAccount()
	require.True(t, ok)
	assert.Equal(t, override, source)

	x, err := ToXDR(op)
	require.NoError(t, err)
	require.NotNil(t, x.SourceAccount)
	assert.Equal(t, address2, x.SourceAccount.Address())

	cleared, err := NewChangeTrust().WithSourceAccount(override).WithSourceAccount(types.Account{}).WithAsset(fooBar()).Build()
	require.NoError(t, err)
	_, ok = cleared.SourceAccount()
	assert.False(t, ok)
}

func TestChangeTrustBuilderIsAValue(t *testing.T) {
	base := NewChangeTrust().WithAsset(fooBar())
	limited := base.WithLimit(10)

	op, err := base.Build()
	require.NoError(t, err)
	_, present := op.(*ChangeTrust).Limit()
	assert.False(t, present, "setting a limit on a copy must not touch the original")

	op, err = limited.Build()
	require.NoError(t, err)
	limit, _ := op.(*ChangeTrust).Limit()
	assert.Equal(t, types.Stroops(10), limit)
}
