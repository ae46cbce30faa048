package bignum

import (
	"fmt"

	"fortio.org/safecast"
)

// BigInt is an arbitrary-precision signed integer.
//
// The zero value is the integer 0 and is ready to use. Values are immutable:
// every operation returns a new BigInt with its own storage. The only in-place
// mutators are Set and Root, which need exclusive access to the receiver.
type BigInt struct {
	neg bool
	// Base-2^32 little-endian magnitude, trimmed. Canonical zero is
	// neg=false and nil limbs.
	limbs []uint32
}

// Zero returns a zero BigInt.
func Zero() BigInt { return BigInt{} }

// One returns the BigInt 1.
func One() BigInt { return BigInt{limbs: []uint32{1}} }

// FromInt64 creates a BigInt from an int64. The full int64 range is supported.
func FromInt64(v int64) BigInt {
	if v == 0 {
		return BigInt{}
	}
	if v > 0 {
		return BigInt{limbs: UintFromUint64(uint64(v)).limbs}
	}
	// -(v+1) cannot overflow, even for math.MinInt64.
	u := uint64(-(v + 1)) //nolint:gosec // G115: -(v+1) is non-negative and fits in uint64 here.
	u++
	return BigInt{neg: true, limbs: UintFromUint64(u).limbs}
}

// FromUint64 creates a BigInt from a uint64.
func FromUint64(v uint64) BigInt {
	return BigInt{limbs: UintFromUint64(v).limbs}
}

// FromUint creates a non-negative BigInt with the given magnitude.
func FromUint(u BigUint) BigInt {
	return BigInt{limbs: cloneLimbs(u.limbs)}
}

func newInt(neg bool, mag BigUint) BigInt {
	limbs := trimLimbs(mag.limbs)
	if len(limbs) == 0 {
		return BigInt{}
	}
	return BigInt{neg: neg, limbs: limbs}
}

// Clone returns an independent deep copy of x.
func (x BigInt) Clone() BigInt {
	return newInt(x.neg, BigUint{limbs: cloneLimbs(x.limbs)})
}

// Set assigns a deep copy of y to x and returns x.
func (x *BigInt) Set(y BigInt) *BigInt {
	*x = y.Clone()
	return x
}

// Sign returns -1, 0 or 1.
func (x BigInt) Sign() int {
	switch {
	case len(trimLimbs(x.limbs)) == 0:
		return 0
	case x.neg:
		return -1
	default:
		return 1
	}
}

// IsZero reports whether the integer is zero.
func (x BigInt) IsZero() bool {
	return len(trimLimbs(x.limbs)) == 0
}

// IsEven reports whether the integer is even. Zero is even.
func (x BigInt) IsEven() bool {
	return !x.Magnitude().IsOdd()
}

// BitLen returns the bit length of |x|.
func (x BigInt) BitLen() int {
	return bitLenLimbs(x.limbs)
}

// Magnitude returns |x| as a BigUint.
func (x BigInt) Magnitude() BigUint {
	return BigUint{limbs: cloneLimbs(x.limbs)}
}

// Abs returns |x|.
func (x BigInt) Abs() BigInt {
	return FromUint(x.Magnitude())
}

// Neg returns -x.
func (x BigInt) Neg() BigInt {
	return newInt(!x.neg, x.Magnitude())
}

// Cmp compares x and y and returns -1, 0 or 1.
func (x BigInt) Cmp(y BigInt) int {
	xa := trimLimbs(x.limbs)
	ya := trimLimbs(y.limbs)
	switch {
	case len(xa) == 0 && len(ya) == 0:
		return 0
	case x.Sign() != y.Sign():
		if x.Sign() < y.Sign() {
			return -1
		}
		return 1
	default:
		cmp := cmpLimbs(xa, ya)
		if x.neg {
			return -cmp
		}
		return cmp
	}
}

// Equals reports whether x and y hold the same value.
func (x BigInt) Equals(y BigInt) bool {
	return x.Cmp(y) == 0
}

// Int64 converts x to int64 if it fits.
func (x BigInt) Int64() (int64, bool) {
	mag, ok := BigUint{limbs: trimLimbs(x.limbs)}.Uint64()
	if !ok {
		return 0, false
	}
	const maxInt64 = uint64(1<<63 - 1)
	if !x.neg {
		if mag > maxInt64 {
			return 0, false
		}
		return int64(mag), true
	}
	// Negative: allow magnitude up to 2^63.
	switch {
	case mag > maxInt64+1:
		return 0, false
	case mag == maxInt64+1:
		return -1 << 63, true
	default:
		return -int64(mag), true //nolint:gosec // G115: mag <= maxInt64 here.
	}
}

// Uint64 converts x to uint64 if it is non-negative and fits.
func (x BigInt) Uint64() (uint64, bool) {
	if x.Sign() < 0 {
		return 0, false
	}
	return BigUint{limbs: trimLimbs(x.limbs)}.Uint64()
}

// Add returns x + y.
func (x BigInt) Add(y BigInt) BigInt {
	xa := BigUint{limbs: trimLimbs(x.limbs)}
	ya := BigUint{limbs: trimLimbs(y.limbs)}

	if x.neg == y.neg {
		return newInt(x.neg, UintAdd(xa, ya))
	}

	switch UintCmp(xa, ya) {
	case 0:
		return BigInt{}
	case 1:
		diff, _ := UintSub(xa, ya)
		return newInt(x.neg, diff)
	default:
		diff, _ := UintSub(ya, xa)
		return newInt(y.neg, diff)
	}
}

// Sub returns x - y.
func (x BigInt) Sub(y BigInt) BigInt {
	return x.Add(y.Neg())
}

// Inc returns x + k.
func (x BigInt) Inc(k uint64) BigInt {
	return x.Add(FromUint64(k))
}

// Dec returns x - k.
func (x BigInt) Dec(k uint64) BigInt {
	return x.Sub(FromUint64(k))
}

// Mul returns x * y.
func (x BigInt) Mul(y BigInt) BigInt {
	prod := UintMul(BigUint{limbs: x.limbs}, BigUint{limbs: y.limbs})
	return newInt(x.neg != y.neg, prod)
}

// MulInt returns x * i.
func (x BigInt) MulInt(i int64) BigInt {
	return x.Mul(FromInt64(i))
}

// DivMod returns the floored quotient and the remainder of x / y:
// q = floor(x / y) and r = x - q*y, so r has the sign of y (or is zero).
func (x BigInt) DivMod(y BigInt) (q, r BigInt, err error) {
	ya := BigUint{limbs: trimLimbs(y.limbs)}
	if ya.IsZero() {
		return BigInt{}, BigInt{}, ErrDivByZero
	}
	qMag, rMag, err := UintDivMod(BigUint{limbs: x.limbs}, ya)
	if err != nil {
		return BigInt{}, BigInt{}, err
	}
	q = newInt(x.neg != y.neg, qMag)
	r = newInt(x.neg, rMag)
	if !r.IsZero() && r.neg != y.neg {
		q = q.Dec(1)
		r = r.Add(y)
	}
	return q, r, nil
}

// Div returns floor(x / y).
func (x BigInt) Div(y BigInt) (BigInt, error) {
	q, _, err := x.DivMod(y)
	return q, err
}

// Mod returns x mod y with the sign convention of y: the result lies in
// [0, y) for positive y and in (y, 0] for negative y.
func (x BigInt) Mod(y BigInt) (BigInt, error) {
	_, r, err := x.DivMod(y)
	return r, err
}

// Pow returns x^e. 0^0 is 1. Results that would need more than MaxLimbs limbs
// fail with ErrMaxLimbs.
func (x BigInt) Pow(e uint64) (BigInt, error) {
	if e == 0 {
		return One(), nil
	}
	mag := BigUint{limbs: trimLimbs(x.limbs)}
	if bl := mag.BitLen(); bl > 1 {
		// |x|^e has at least (bl-1)*e+1 bits.
		perStep, err := safecast.Conv[uint64](bl - 1)
		if err != nil {
			return BigInt{}, err
		}
		if e > uint64(MaxLimbs*32)/perStep {
			return BigInt{}, fmt.Errorf("pow with exponent %d: %w", e, ErrMaxLimbs)
		}
	}
	return newInt(x.neg && e&1 == 1, uintPow(mag, e)), nil
}

// GCD returns the non-negative greatest common divisor of a and b.
func GCD(a, b BigInt) BigInt {
	return FromUint(UintGCD(BigUint{limbs: a.limbs}, BigUint{limbs: b.limbs}))
}

// Coprime reports whether gcd(x, i) == 1.
func (x BigInt) Coprime(i int64) bool {
	return GCD(x, FromInt64(i)).Magnitude().IsOne()
}
