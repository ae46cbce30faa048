package bignum

import (
	"errors"
	"fmt"
)

// ErrInvalidRoot indicates a zeroth root or an even root of a negative value.
var ErrInvalidRoot = errors.New("invalid root")

// RootRem returns the integer n-th root of x truncated toward zero, and the
// remainder x - root^n. The remainder has the sign of x.
func (x BigInt) RootRem(n uint64) (root, rem BigInt, err error) {
	switch {
	case n == 0:
		return BigInt{}, BigInt{}, fmt.Errorf("root of degree 0: %w", ErrInvalidRoot)
	case x.Sign() < 0 && n%2 == 0:
		return BigInt{}, BigInt{}, fmt.Errorf("even root of negative %s: %w", x, ErrInvalidRoot)
	}
	mag := x.Magnitude()
	r := uintRoot(mag, n)
	left, _ := UintSub(mag, uintPow(r, n))
	return newInt(x.neg, r), newInt(x.neg, left), nil
}

// Root replaces x with its integer n-th root (truncated toward zero) and
// returns the remainder old(x) - root^n. On error x is left unchanged.
func (x *BigInt) Root(n uint64) (BigInt, error) {
	root, rem, err := x.RootRem(n)
	if err != nil {
		return BigInt{}, err
	}
	*x = root
	return rem, nil
}

// uintRoot returns floor(u^(1/n)) for n >= 1, fixing one bit at a time from
// the top.
func uintRoot(u BigUint, n uint64) BigUint {
	if u.IsZero() || n == 1 {
		return u.Clone()
	}
	bl := uint64(u.BitLen()) //nolint:gosec // G115: bit lengths are non-negative.
	// root < 2^ceil(bl/n)
	top := (bl + n - 1) / n
	var r BigUint
	for i := top; i > 0; i-- {
		candidate := UintAdd(r, UintShl(UintFromUint32(1), uint(i-1)))
		if cmpPow(candidate, n, u) <= 0 {
			r = candidate
		}
	}
	return r
}
