package fee

import (
	"github.com/holiman/uint256"

	"github.com/klingon-exchange/rollupcore/pkg/helpers"
)

// saturatingMul multiplies a and b, clamping to uint256's maximum value on
// overflow. A u128-range fee times a u64 cycles limit comfortably fits in
// 256 bits for any value seen in practice; the clamp exists so the
// comparison below stays a total order even in the abstract case where it
// wouldn't.
func saturatingMul(a, b *uint256.Int) *uint256.Int {
	product, overflow := new(uint256.Int).MulOverflow(a, b)
	if overflow {
		return new(uint256.Int).SetAllOne()
	}
	return product
}

// Less reports whether a has strictly lower mempool priority than b: in
// max-heap terms, b should be popped before a. The comparison is a strict
// weak ordering over four levels, each breaking ties in the level above:
//
//  1. fee rate (a.Fee/a.CyclesLimit vs b.Fee/b.CyclesLimit, compared via
//     cross-multiplication to stay integer-only) — higher wins;
//  2. insertion order — lower Order wins (FIFO among equal rates);
//  3. cycles limit — lower wins (smaller jobs preferred at equal rate/age);
//  4. nonce, then raw serialized bytes — lower wins, guaranteeing totality.
func Less(a, b FeeEntry) bool {
	aRate := saturatingMul(a.Fee, new(uint256.Int).SetUint64(b.CyclesLimit))
	bRate := saturatingMul(b.Fee, new(uint256.Int).SetUint64(a.CyclesLimit))
	if cmp := aRate.Cmp(bRate); cmp != 0 {
		return cmp < 0
	}

	if a.Order != b.Order {
		return a.Order > b.Order
	}

	if a.CyclesLimit != b.CyclesLimit {
		return a.CyclesLimit > b.CyclesLimit
	}

	if a.Item.Nonce != b.Item.Nonce {
		return a.Item.Nonce > b.Item.Nonce
	}

	return helpers.CompareBytes(a.Item.Raw, b.Item.Raw) > 0
}

// HigherFeeRate reports whether a's fee rate (Fee/CyclesLimit) is strictly
// greater than b's, compared via cross-multiplication to stay integer-only.
// This is the sole criterion for replace-by-fee: unlike Less/More, it never
// looks at Order, since a just-arrived candidate has not been assigned one
// yet at the point this decision is made.
func HigherFeeRate(a, b FeeEntry) bool {
	aRate := saturatingMul(a.Fee, new(uint256.Int).SetUint64(b.CyclesLimit))
	bRate := saturatingMul(b.Fee, new(uint256.Int).SetUint64(a.CyclesLimit))
	return aRate.Cmp(bRate) > 0
}

// Compare returns -1, 0, or 1 as a's priority is less than, equal to, or
// greater than b's, using the same total order as Less.
func Compare(a, b FeeEntry) int {
	switch {
	case Less(a, b):
		return -1
	case Less(b, a):
		return 1
	default:
		return 0
	}
}

// More reports whether a should be preferred over b when popping from the
// mempool (a is "more attractive to mine").
func More(a, b FeeEntry) bool {
	return Less(b, a)
}
