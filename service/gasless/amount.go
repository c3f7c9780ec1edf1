package gasless

import (
	"github.com/shopspring/decimal"
)

// maxDecimals bounds the smallest-unit exponent so every representable amount
// fits in the u64 the on-chain programs expect.
const maxDecimals = 18

// toBaseUnits converts a whole-asset amount to the integer smallest-unit
// value, truncating toward zero. Fractional base units are discarded, not
// rounded. The shift is done in fixed-point decimal arithmetic; multiplying
// through float64 loses integer precision above 2^53 and can be off by one
// base unit for amounts with many significant digits.
func toBaseUnits(amount decimal.Decimal, decimals uint8) (uint64, error) {
	units := amount.Shift(int32(decimals)).BigInt()

	if units.Sign() <= 0 {
		return 0, validationErrorf("amount %s is below one base unit at %d decimals", amount, decimals)
	}
	if !units.IsUint64() {
		return 0, validationErrorf("amount %s exceeds the maximum transferable value at %d decimals", amount, decimals)
	}

	return units.Uint64(), nil
}
