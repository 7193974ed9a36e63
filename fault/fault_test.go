package fault

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClasses(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		validation bool
		conversion bool
		codec      bool
		assembly   bool
	}{
		{
			name:       "Missing field",
			err:        Missing("change_trust", "asset"),
			validation: true,
		},
		{
			name:       "Invalid field",
			err:        Invalid("change_trust", "limit", "must not be negative"),
			validation: true,
		},
		{
			name:       "Conversion",
			err:        Convert("limit", "abc", errors.New("bad number")),
			conversion: true,
		},
		{
			name:  "Codec",
			err:   Codec("decode envelope", errors.New("unexpected EOF")),
			codec: true,
		},
		{
			name:     "Assembly",
			err:      Assembly("operations", "must not be empty"),
			assembly: true,
		},
		{
			name:       "Wrapped validation",
			err:        fmt.Errorf("failed to build: %w", Missing("payment", "amount")),
			validation: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.validation, IsValidation(tt.err))
			assert.Equal(t, tt.conversion, IsConversion(tt.err))
			assert.Equal(t, tt.codec, IsCodec(tt.err))
			assert.Equal(t, tt.assembly, IsAssembly(tt.err))
			assert.Equal(t, !tt.codec, IsCaller(tt.err))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "invalid change_trust operation: asset is required",
		Missing("change_trust", "asset").Error())
	assert.Equal(t, "cannot assemble transaction: sequence is required",
		Assembly("sequence", "is required").Error())

	cause := errors.New("unexpected EOF")
	err := Codec("decode envelope", cause)
	assert.Equal(t, "xdr decode envelope: unexpected EOF", err.Error())
	assert.ErrorIs(t, err, cause)

	var ve *ValidationError
	assert.True(t, errors.As(Invalid("payment", "amount", "must be positive"), &ve))
	assert.Equal(t, "payment", ve.Variant)
	assert.Equal(t, "amount", ve.Field)
}
