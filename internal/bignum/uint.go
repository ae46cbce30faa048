package bignum

import (
	"errors"
	"math/bits"
)

// MaxLimbs bounds the size of results whose growth is driven by a caller supplied
// native exponent (Pow). Ordinary arithmetic is not limited.
const MaxLimbs = 1_000_000

var (
	// ErrMaxLimbs indicates the numeric size limit was exceeded.
	ErrMaxLimbs = errors.New("numeric size limit exceeded")
	// ErrDivByZero indicates an attempt to divide by zero.
	ErrDivByZero = errors.New("division by zero")
	// ErrUnderflow indicates an unsigned subtraction with a larger subtrahend.
	ErrUnderflow = errors.New("unsigned underflow")
)

// BigUint is an unsigned magnitude.
//
// Limbs are base-2^32 little-endian (limbs[0] is least significant) and always
// trimmed, so canonical zero is a nil slice. A BigUint never shares its limbs
// with a value handed out by another operation.
type BigUint struct {
	limbs []uint32
}

// UintZero returns a zero BigUint.
func UintZero() BigUint { return BigUint{} }

// UintFromUint64 creates a BigUint from a uint64.
func UintFromUint64(v uint64) BigUint {
	//nolint:gosec // G115: splitting into limbs truncates on purpose.
	return BigUint{limbs: trimLimbs([]uint32{uint32(v), uint32(v >> 32)})}
}

// UintFromUint32 creates a BigUint from a uint32.
func UintFromUint32(v uint32) BigUint {
	return BigUint{limbs: trimLimbs([]uint32{v})}
}

func (u BigUint) IsZero() bool { return trimLimbs(u.limbs) == nil }

func (u BigUint) IsOdd() bool { return len(u.limbs) > 0 && u.limbs[0]&1 == 1 }

func (u BigUint) IsOne() bool {
	l := trimLimbs(u.limbs)
	return len(l) == 1 && l[0] == 1
}

func (u BigUint) BitLen() int { return bitLenLimbs(u.limbs) }

// Bit returns bit i, counting from the least significant.
func (u BigUint) Bit(i int) uint {
	if i < 0 || i/32 >= len(u.limbs) {
		return 0
	}
	return uint(u.limbs[i/32]>>uint(i%32)) & 1 //nolint:gosec // G115: i%32 is in [0, 31].
}

// TrailingZeros counts the zero bits below the lowest set bit; zero has none.
func (u BigUint) TrailingZeros() int {
	for i, l := range trimLimbs(u.limbs) {
		if l != 0 {
			return i*32 + bits.TrailingZeros32(l)
		}
	}
	return 0
}

func (u BigUint) Cmp(v BigUint) int { return cmpLimbs(u.limbs, v.limbs) }

// UintCmp compares two BigUint values and returns -1, 0, or 1.
func UintCmp(a, b BigUint) int { return cmpLimbs(a.limbs, b.limbs) }

// Uint64 returns u and true when it fits in 64 bits.
func (u BigUint) Uint64() (uint64, bool) {
	l := trimLimbs(u.limbs)
	if len(l) > 2 {
		return 0, false
	}
	var v uint64
	for i := len(l) - 1; i >= 0; i-- {
		v = v<<32 | uint64(l[i])
	}
	return v, true
}

func (u BigUint) Clone() BigUint { return BigUint{limbs: cloneLimbs(u.limbs)} }

// UintAdd returns a + b.
func UintAdd(a, b BigUint) BigUint {
	x, y := trimLimbs(a.limbs), trimLimbs(b.limbs)
	if len(x) < len(y) {
		x, y = y, x
	}
	if x == nil {
		return BigUint{}
	}
	z := make([]uint32, len(x)+1)
	z[len(x)] = addVV(z[:len(x)], x, y)
	return BigUint{limbs: trimLimbs(z)}
}

// UintAddSmall returns u + v.
func UintAddSmall(u BigUint, v uint32) BigUint {
	return UintAdd(u, UintFromUint32(v))
}

// UintSub returns a - b. It fails with ErrUnderflow when b > a.
func UintSub(a, b BigUint) (BigUint, error) {
	x, y := trimLimbs(a.limbs), trimLimbs(b.limbs)
	if cmpLimbs(x, y) < 0 {
		return BigUint{}, ErrUnderflow
	}
	z := make([]uint32, len(x))
	subVV(z, x, y)
	return BigUint{limbs: trimLimbs(z)}, nil
}

// UintMul returns a * b using schoolbook multiplication.
func UintMul(a, b BigUint) BigUint {
	x, y := trimLimbs(a.limbs), trimLimbs(b.limbs)
	if x == nil || y == nil {
		return BigUint{}
	}
	z := make([]uint32, len(x)+len(y))
	for i, yi := range y {
		if yi != 0 {
			z[i+len(x)] = addMulVVW(z[i:i+len(x)], x, yi)
		}
	}
	return BigUint{limbs: trimLimbs(z)}
}

// UintMulSmall returns u * m.
func UintMulSmall(u BigUint, m uint32) BigUint {
	x := trimLimbs(u.limbs)
	if x == nil || m == 0 {
		return BigUint{}
	}
	z := make([]uint32, len(x)+1)
	z[len(x)] = mulAddVWW(z[:len(x)], x, m, 0)
	return BigUint{limbs: trimLimbs(z)}
}

// UintDivModSmall returns u / d and u mod d.
func UintDivModSmall(u BigUint, d uint32) (q BigUint, r uint32, err error) {
	if d == 0 {
		return BigUint{}, 0, ErrDivByZero
	}
	x := trimLimbs(u.limbs)
	z := make([]uint32, len(x))
	r = divWVW(z, x, d)
	return BigUint{limbs: trimLimbs(z)}, r, nil
}

// UintDivMod returns a / b and a mod b.
func UintDivMod(a, b BigUint) (q, r BigUint, err error) {
	x, y := trimLimbs(a.limbs), trimLimbs(b.limbs)
	switch {
	case y == nil:
		return BigUint{}, BigUint{}, ErrDivByZero
	case cmpLimbs(x, y) < 0:
		return BigUint{}, BigUint{limbs: cloneLimbs(x)}, nil
	case len(y) == 1:
		qs, rs, _ := UintDivModSmall(BigUint{limbs: x}, y[0])
		return qs, UintFromUint32(rs), nil
	}
	ql, rl := divKnuth(x, y)
	return BigUint{limbs: ql}, BigUint{limbs: rl}, nil
}

// UintShl returns u << n.
func UintShl(u BigUint, n uint) BigUint {
	x := trimLimbs(u.limbs)
	if x == nil {
		return BigUint{}
	}
	words := int(n / 32) //nolint:gosec // G115: shift counts are bounded by memory.
	z := make([]uint32, words+len(x)+1)
	z[words+len(x)] = shlVU(z[words:words+len(x)], x, n%32)
	return BigUint{limbs: trimLimbs(z)}
}

// UintShr returns u >> n.
func UintShr(u BigUint, n uint) BigUint {
	x := trimLimbs(u.limbs)
	if n/32 >= uint(len(x)) {
		return BigUint{}
	}
	x = x[n/32:]
	z := make([]uint32, len(x))
	shrVU(z, x, n%32)
	return BigUint{limbs: trimLimbs(z)}
}

// UintGCD returns gcd(a, b) using the binary algorithm. gcd(0, 0) is 0.
func UintGCD(a, b BigUint) BigUint {
	if a.IsZero() {
		return b.Clone()
	}
	if b.IsZero() {
		return a.Clone()
	}
	za, zb := a.TrailingZeros(), b.TrailingZeros()
	x := UintShr(a, uint(za)) //nolint:gosec // G115: trailing zero counts are non-negative.
	y := UintShr(b, uint(zb)) //nolint:gosec // G115: trailing zero counts are non-negative.
	for {
		// x and y are both odd here.
		switch x.Cmp(y) {
		case 0:
			return UintShl(x, uint(min(za, zb))) //nolint:gosec // G115: non-negative.
		case 1:
			x, y = y, x
		}
		d, _ := UintSub(y, x)
		y = UintShr(d, uint(d.TrailingZeros())) //nolint:gosec // G115: trailing zero counts are non-negative.
	}
}

// uintPow computes base^e by square-and-multiply.
func uintPow(base BigUint, e uint64) BigUint {
	acc := UintFromUint32(1)
	for ; e > 0; e >>= 1 {
		if e&1 == 1 {
			acc = UintMul(acc, base)
		}
		if e > 1 {
			base = UintMul(base, base)
		}
	}
	return acc
}

// cmpPow compares base^e with limit without materialising powers much larger
// than limit. base must be non-zero.
func cmpPow(base BigUint, e uint64, limit BigUint) int {
	limitBits := limit.BitLen()
	acc := UintFromUint32(1)
	for i := bits.Len64(e) - 1; i >= 0; i-- {
		acc = UintMul(acc, acc)
		if e>>uint(i)&1 == 1 { //nolint:gosec // G115: i is in [0, 63].
			acc = UintMul(acc, base)
		}
		// Powers of a non-zero base never shrink.
		if acc.BitLen() > limitBits {
			return 1
		}
	}
	return acc.Cmp(limit)
}
