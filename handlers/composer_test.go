package handlers

import (
	"testing"

	"github.com/stellar/go/keypair"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daccred/txbuild.attest.so/fault"
	"github.com/daccred/txbuild.attest.so/models"
	"github.com/daccred/txbuild.attest.so/operations"
	"github.com/daccred/txbuild.attest.so/types"
)

func strPtr(s string) *string { return &s }
func intPtr(n int64) *int64   { return &n }

func fooBarRequest() *models.AssetRequest {
	return &models.AssetRequest{Code: "FOOBAR", Issuer: address1}
}

func TestComposeChangeTrust(t *testing.T) {
	recorder := newTestRecorder(t, &Config{})

	tests := []struct {
		name    string
		limit   *string
		limited bool
		want    types.Stroops
	}{
		{name: "No limit", limit: nil, limited: false, want: types.MaxStroops},
		{name: "Explicit limit", limit: strPtr("1000"), limited: true, want: 10000000000},
		{name: "Zero limit is no limit", limit: strPtr("0"), limited: true, want: types.MaxStroops},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := recorder.Compose(models.ComposeRequest{
				SourceAccount: address0,
				Sequence:      3556091187167235,
				Operations: []models.OperationRequest{
					{Type: "change_trust", Asset: fooBarRequest(), Limit: tt.limit},
				},
			})
			require.NoError(t, err)

			tx := env.Transaction()
			assert.Equal(t, uint32(100), tx.Fee())
			require.Len(t, tx.Operations(), 1)
			ct, ok := tx.Operations()[0].(*operations.ChangeTrust)
			require.True(t, ok)
			_, limited := ct.Limit()
			assert.Equal(t, tt.limited, limited)
			assert.Equal(t, tt.want, ct.EffectiveLimit())
			assert.Empty(t, env.Signatures())
		})
	}
}

func TestComposeMatchesFixtureTransaction(t *testing.T) {
	recorder := newTestRecorder(t, &Config{})

	env, err := recorder.Compose(models.ComposeRequest{
		SourceAccount: address0,
		Sequence:      3556091187167235,
		Operations:    []models.OperationRequest{{Type: "change_trust", Asset: fooBarRequest()}},
	})
	require.NoError(t, err)

	composed, err := recorder.Describe(env)
	require.NoError(t, err)
	decoded, err := recorder.Decode(changeTrustEnvelope)
	require.NoError(t, err)
	assert.Equal(t, decoded.Hash, composed.Hash)
}

func TestComposeAllOperations(t *testing.T) {
	recorder := newTestRecorder(t, &Config{BaseFee: 200})

	memo := &models.MemoRequest{Type: "id", Value: "99"}
	env, err := recorder.Compose(models.ComposeRequest{
		SourceAccount: address0,
		Sequence:      10,
		Memo:          memo,
		TimeBounds:    &models.TimeBoundsRequest{MinTime: 1, MaxTime: 2},
		Operations: []models.OperationRequest{
			{Type: "create_account", Destination: address2, StartingBalance: "10"},
			{Type: "payment", Destination: address2, Asset: &models.AssetRequest{}, Amount: "1.5"},
			{Type: "change_trust", SourceAccount: address2, Asset: fooBarRequest()},
			{Type: "manage_data", Name: "config", Value: strPtr("aGVsbG8=")},
			{Type: "bump_sequence", BumpTo: intPtr(50)},
			{Type: "inflation", SourceAccount: address1},
			{Type: "account_merge", Destination: address1},
		},
	})
	require.NoError(t, err)

	tx := env.Transaction()
	assert.Equal(t, uint32(1400), tx.Fee())
	assert.Equal(t, uint64(99), tx.Memo().ID())

	described, err := recorder.Describe(env)
	require.NoError(t, err)
	kinds := make([]string, 0, len(described.Operations))
	for _, op := range described.Operations {
		kinds = append(kinds, op.Type)
	}
	assert.Equal(t, []string{
		"create_account", "payment", "change_trust", "manage_data",
		"bump_sequence", "inflation", "account_merge",
	}, kinds)
	assert.Equal(t, address2, described.Operations[2].SourceAccount)
	assert.JSONEq(t, `{"name":"config","value":"aGVsbG8="}`, string(described.Operations[3].Details))
	assert.JSONEq(t, `{"destination":"`+address2+`","asset":"native","amount":"1.5000000"}`, string(described.Operations[1].Details))
	assert.Equal(t, "id", described.MemoType)
	assert.Equal(t, "99", described.MemoValue)
	assert.Equal(t, uint64(2), described.MaxTime)
}

func TestComposeSigning(t *testing.T) {
	t.Run("Signs with configured seed", func(t *testing.T) {
		seed := testSeed(t)
		recorder := newTestRecorder(t, &Config{SigningSeed: seed})
		kp := keypair.MustParseFull(seed)

		env, err := recorder.Compose(models.ComposeRequest{
			SourceAccount: kp.Address(),
			Sequence:      1,
			Operations:    []models.OperationRequest{{Type: "inflation"}},
			Sign:          true,
		})
		require.NoError(t, err)
		require.Len(t, env.Signatures(), 1)
		assert.NoError(t, env.Verify(kp.Address(), recorder.Network()))
	})

	t.Run("Refuses to sign without seed", func(t *testing.T) {
		recorder := newTestRecorder(t, &Config{})
		_, err := recorder.Compose(models.ComposeRequest{
			SourceAccount: address0,
			Sequence:      1,
			Operations:    []models.OperationRequest{{Type: "inflation"}},
			Sign:          true,
		})
		assert.ErrorIs(t, err, ErrNoSigner)
	})
}

func TestComposeErrors(t *testing.T) {
	recorder := newTestRecorder(t, &Config{})

	tests := []struct {
		name    string
		request models.ComposeRequest
		check   func(error) bool
	}{
		{
			name:    "Bad source account",
			request: models.ComposeRequest{SourceAccount: "GABC", Operations: []models.OperationRequest{{Type: "inflation"}}},
			check:   fault.IsConversion,
		},
		{
			name:    "No operations",
			request: models.ComposeRequest{SourceAccount: address0, Sequence: 1},
			check:   fault.IsAssembly,
		},
		{
			name:    "Unknown operation",
			request: models.ComposeRequest{SourceAccount: address0, Sequence: 1, Operations: []models.OperationRequest{{Type: "clawback"}}},
			check:   fault.IsValidation,
		},
		{
			name:    "Change trust without asset",
			request: models.ComposeRequest{SourceAccount: address0, Sequence: 1, Operations: []models.OperationRequest{{Type: "change_trust"}}},
			check:   fault.IsValidation,
		},
		{
			name:    "Change trust with native asset",
			request: models.ComposeRequest{SourceAccount: address0, Sequence: 1, Operations: []models.OperationRequest{{Type: "change_trust", Asset: &models.AssetRequest{}}}},
			check:   fault.IsValidation,
		},
		{
			name:    "Unparseable limit",
			request: models.ComposeRequest{SourceAccount: address0, Sequence: 1, Operations: []models.OperationRequest{{Type: "change_trust", Asset: fooBarRequest(), Limit: strPtr("lots")}}},
			check:   fault.IsConversion,
		},
		{
			name:    "Bad data value",
			request: models.ComposeRequest{SourceAccount: address0, Sequence: 1, Operations: []models.OperationRequest{{Type: "manage_data", Name: "k", Value: strPtr("%%%")}}},
			check:   fault.IsConversion,
		},
		{
			name:    "Bad memo type",
			request: models.ComposeRequest{SourceAccount: address0, Sequence: 1, Memo: &models.MemoRequest{Type: "emoji"}, Operations: []models.OperationRequest{{Type: "inflation"}}},
			check:   fault.IsValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := recorder.Compose(tt.request)
			assert.Nil(t, env)
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error class: %v", err)
			assert.True(t, fault.IsCaller(err))
		})
	}
}

func TestBuildMemo(t *testing.T) {
	hash := "0102030405060708091011121314151617181920212223242526272829303132"

	tests := []struct {
		name     string
		request  models.MemoRequest
		wantType types.MemoType
		wantErr  bool
	}{
		{name: "Empty", request: models.MemoRequest{}, wantType: types.MemoNone},
		{name: "Text", request: models.MemoRequest{Type: "text", Value: "hi"}, wantType: types.MemoText},
		{name: "Text too long", request: models.MemoRequest{Type: "text", Value: "this text is longer than twenty eight bytes"}, wantErr: true},
		{name: "ID", request: models.MemoRequest{Type: "id", Value: "18446744073709551615"}, wantType: types.MemoID},
		{name: "ID with trailing garbage", request: models.MemoRequest{Type: "id", Value: "12abc"}, wantErr: true},
		{name: "Hash", request: models.MemoRequest{Type: "hash", Value: hash}, wantType: types.MemoHash},
		{name: "Return", request: models.MemoRequest{Type: "return", Value: hash}, wantType: types.MemoReturn},
		{name: "Short hash", request: models.MemoRequest{Type: "hash", Value: "0102"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			memo, err := buildMemo(tt.request)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, memo.Type())
		})
	}
}
