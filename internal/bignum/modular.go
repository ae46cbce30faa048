package bignum

import (
	"errors"
	"fmt"

	"github.com/cronokirby/saferith"
)

var (
	// ErrInvalidModulus indicates a modulus outside the domain of an operation.
	ErrInvalidModulus = errors.New("invalid modulus")
	// ErrNotInvertible indicates that no modular inverse exists.
	ErrNotInvertible = errors.New("value is not invertible modulo m")
)

// modulus caches the representations of a positive modulus needed by the
// modular operations. Odd moduli (every RSA modulus and prime) go through
// saferith's constant-time Montgomery arithmetic; even moduli use the limb core.
type modulus struct {
	m  BigUint
	sm *saferith.Modulus // nil for even moduli
}

func checkModulus(m BigInt) error {
	switch m.Sign() {
	case 0:
		return ErrDivByZero
	case -1:
		return fmt.Errorf("%w: %s is negative", ErrInvalidModulus, m)
	}
	return nil
}

func newModulus(m BigUint) *modulus {
	md := &modulus{m: m}
	if m.IsOdd() {
		md.sm = saferith.ModulusFromBytes(m.Bytes())
	}
	return md
}

func (md *modulus) isOne() bool { return md.m.IsOne() }

// reduce maps x into [0, m).
func (md *modulus) reduce(x BigInt) BigUint {
	_, r, _ := UintDivMod(BigUint{limbs: x.limbs}, md.m)
	if x.neg && !r.IsZero() {
		r, _ = UintSub(md.m, r)
	}
	return r
}

// mul returns a*b mod m for reduced a and b.
func (md *modulus) mul(a, b BigUint) BigUint {
	if a.IsZero() || b.IsZero() || md.isOne() {
		return BigUint{}
	}
	if md.sm == nil {
		_, r, _ := UintDivMod(UintMul(a, b), md.m)
		return r
	}
	z := new(saferith.Nat).ModMul(natFromUint(a), natFromUint(b), md.sm)
	return uintFromNat(z)
}

// exp returns b^e mod m for reduced b.
func (md *modulus) exp(b, e BigUint) BigUint {
	switch {
	case md.isOne():
		return BigUint{}
	case e.IsZero():
		return UintFromUint32(1)
	case b.IsZero():
		return BigUint{}
	}
	if md.sm != nil {
		z := new(saferith.Nat).Exp(natFromUint(b), natFromUint(e), md.sm)
		return uintFromNat(z)
	}
	// Even moduli: left-to-right square-and-multiply over the limb core.
	result := UintFromUint32(1)
	for i := e.BitLen() - 1; i >= 0; i-- {
		result = md.mul(result, result)
		if e.Bit(i) == 1 {
			result = md.mul(result, b)
		}
	}
	return result
}

// inverse returns a^-1 mod m for a reduced a, or ErrNotInvertible.
func (md *modulus) inverse(a BigUint) (BigUint, error) {
	if md.isOne() {
		return BigUint{}, nil
	}
	if !UintGCD(a, md.m).IsOne() {
		return BigUint{}, ErrNotInvertible
	}
	if md.sm != nil {
		z := new(saferith.Nat).ModInverse(natFromUint(a), md.sm)
		return uintFromNat(z), nil
	}
	return md.inverseEuclid(a), nil
}

// inverseEuclid runs the extended Euclidean algorithm. a must be a unit mod m.
func (md *modulus) inverseEuclid(a BigUint) BigUint {
	oldR, r := FromUint(a), FromUint(md.m)
	oldS, s := One(), Zero()
	for !r.IsZero() {
		q, rem, _ := oldR.DivMod(r)
		oldR, r = r, rem
		oldS, s = s, oldS.Sub(q.Mul(s))
	}
	return md.reduce(oldS)
}

// MulMod returns (x * y) mod m for m > 0. The result lies in [0, m).
func (x BigInt) MulMod(y, m BigInt) (BigInt, error) {
	if err := checkModulus(m); err != nil {
		return BigInt{}, fmt.Errorf("mulmod: %w", err)
	}
	md := newModulus(m.Magnitude())
	return FromUint(md.mul(md.reduce(x), md.reduce(y))), nil
}

// PowMod returns x^e mod m for m > 0. The result lies in [0, m). A negative
// exponent raises the inverse of x, and fails with ErrNotInvertible if x has
// no inverse modulo m.
func (x BigInt) PowMod(e, m BigInt) (BigInt, error) {
	if err := checkModulus(m); err != nil {
		return BigInt{}, fmt.Errorf("powmod: %w", err)
	}
	md := newModulus(m.Magnitude())
	base := md.reduce(x)
	if e.Sign() < 0 {
		inv, err := md.inverse(base)
		if err != nil {
			return BigInt{}, fmt.Errorf("powmod with negative exponent: %w", err)
		}
		base = inv
	}
	return FromUint(md.exp(base, e.Magnitude())), nil
}

// InvMod returns the y in [0, m) with x*y mod m == 1. It fails with
// ErrNotInvertible when gcd(x, m) != 1. For m == 1 the result is 0.
func (x BigInt) InvMod(m BigInt) (BigInt, error) {
	if err := checkModulus(m); err != nil {
		return BigInt{}, fmt.Errorf("invmod: %w", err)
	}
	md := newModulus(m.Magnitude())
	inv, err := md.inverse(md.reduce(x))
	if err != nil {
		return BigInt{}, fmt.Errorf("invmod of %s modulo %s: %w", x, m, err)
	}
	return FromUint(inv), nil
}

func natFromUint(u BigUint) *saferith.Nat {
	return new(saferith.Nat).SetBytes(u.Bytes())
}

func uintFromNat(n *saferith.Nat) BigUint {
	return UintFromBytes(n.Bytes())
}
