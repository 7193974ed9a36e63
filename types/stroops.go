package types

import (
	"math"
	"strconv"

	"github.com/stellar/go/amount"
	"github.com/stellar/go/xdr"

	"github.com/daccred/txbuild.attest.so/fault"
)

// Stroops is an amount expressed in the smallest unit of the network,
// 1 lumen (or 1 unit of any asset) being 10^7 stroops.
type Stroops int64

// MaxStroops is the largest representable amount. A trust line limit of
// MaxStroops is what the network uses when no limit is given.
const MaxStroops = Stroops(math.MaxInt64)

// ParseStroops converts a decimal amount such as "12.5" into stroops.
func ParseStroops(v string) (Stroops, error) {
	n, err := amount.Parse(v)
	if err != nil {
		return 0, fault.Convert("amount", v, err)
	}
	return Stroops(n), nil
}

// StroopsFromUint64 converts an unsigned count of stroops, failing when it
// does not fit the signed 64-bit wire type.
func StroopsFromUint64(v uint64) (Stroops, error) {
	if v > math.MaxInt64 {
		return 0, fault.Convert("amount", strconv.FormatUint(v, 10), errOutOfRange)
	}
	return Stroops(v), nil
}

func (s Stroops) String() string { return amount.StringFromInt64(int64(s)) }

// ToXDR returns the wire representation.
func (s Stroops) ToXDR() xdr.Int64 { return xdr.Int64(s) }
