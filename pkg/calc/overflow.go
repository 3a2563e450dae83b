package calc

import "math"

// mulOverflows reports whether a * b falls outside the range of int.
// Mixed-sign operands are reduced to the non-negative case by flipping the
// negative operand, so the function recurses at most once.
func mulOverflows(a, b int) bool {
	switch {
	case a >= 0 && b >= 0:
		return a != 0 && math.MaxInt/a < b
	case a < 0 && b < 0:
		// Covers (MinInt, -1) and (-1, MinInt): MaxInt/MinInt == 0 > -1.
		return math.MaxInt/a > b
	}
	// MinInt has no positive counterpart.
	if a == math.MinInt {
		return b > 1
	}
	if b == math.MinInt {
		return a > 1
	}
	if a < 0 {
		return mulOverflows(-a, b)
	}
	return mulOverflows(a, -b)
}

// divOverflows reports whether a / b falls outside the range of int.
// The caller rejects b == 0 separately.
func divOverflows(a, b int) bool {
	return a == math.MinInt && b == -1
}

// addOverflows reports whether a + b falls outside the range of int.
func addOverflows(a, b int) bool {
	if b > 0 && a > math.MaxInt-b {
		return true
	}
	if b < 0 && a < math.MinInt-b {
		return true
	}
	return false
}

// subOverflows reports whether a - b falls outside the range of int.
func subOverflows(a, b int) bool {
	if b < 0 && a > math.MaxInt+b {
		return true
	}
	if b > 0 && a < math.MinInt+b {
		return true
	}
	return false
}
