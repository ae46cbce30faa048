// Package testkit holds invariant checks shared by the bignum tests and the
// fuzz harnesses. Each check returns the first violated law as an error.
package testkit

import (
	"bytes"
	"fmt"
	"math/bits"

	"rsanum/internal/bignum"
)

// CheckArithmetic verifies laws that hold for any a and b:
// 1) (a + b) - b == a and a + b == b + a
// 2) a * b == b * a and (a * b) / b == a for b != 0
// 3) a == q*b + r with r zero or carrying the sign of b, |r| < |b|
// 4) gcd(a, b) is non-negative and divides both operands
func CheckArithmetic(a, b bignum.BigInt) error {
	sum := a.Add(b)
	if !sum.Sub(b).Equals(a) {
		return fmt.Errorf("(%s + %s) - %s = %s", a, b, b, sum.Sub(b))
	}
	if !sum.Equals(b.Add(a)) {
		return fmt.Errorf("%s + %s is not commutative", a, b)
	}
	prod := a.Mul(b)
	if !prod.Equals(b.Mul(a)) {
		return fmt.Errorf("%s * %s is not commutative", a, b)
	}

	g := bignum.GCD(a, b)
	if g.Sign() < 0 {
		return fmt.Errorf("gcd(%s, %s) = %s is negative", a, b, g)
	}

	if b.IsZero() {
		if _, _, err := a.DivMod(b); err == nil {
			return fmt.Errorf("%s / 0 did not fail", a)
		}
		return nil
	}

	if back, err := prod.Div(b); err != nil || !back.Equals(a) {
		return fmt.Errorf("(%s * %s) / %s = %s, %v", a, b, b, back, err)
	}
	q, r, err := a.DivMod(b)
	if err != nil {
		return fmt.Errorf("%s divmod %s: %w", a, b, err)
	}
	if !q.Mul(b).Add(r).Equals(a) {
		return fmt.Errorf("%s != %s * %s + %s", a, q, b, r)
	}
	if !r.IsZero() && r.Sign() != b.Sign() {
		return fmt.Errorf("%s mod %s = %s has the wrong sign", a, b, r)
	}
	if r.Abs().Cmp(b.Abs()) >= 0 {
		return fmt.Errorf("|%s mod %s| = %s is not below |%s|", a, b, r, b)
	}

	if !g.IsZero() {
		for _, x := range []bignum.BigInt{a, b} {
			if _, rem, _ := x.DivMod(g); !rem.IsZero() {
				return fmt.Errorf("gcd %s does not divide %s", g, x)
			}
		}
	}
	return nil
}

// CheckModular verifies the modular operations against the plain ones for a
// positive modulus m:
// 1) MulMod(a, b, m) == (a * b) mod m, inside [0, m)
// 2) PowMod(a, e, m) == a^e mod m for the small exponent e
// 3) a successful InvMod yields a*inv == 1 (mod m)
func CheckModular(a, b, m bignum.BigInt, e uint64) error {
	if m.Sign() <= 0 {
		return fmt.Errorf("modulus %s is not positive", m)
	}
	got, err := a.MulMod(b, m)
	if err != nil {
		return fmt.Errorf("mulmod: %w", err)
	}
	want, _ := a.Mul(b).Mod(m)
	if !got.Equals(want) {
		return fmt.Errorf("mulmod(%s, %s, %s) = %s, want %s", a, b, m, got, want)
	}
	if got.Sign() < 0 || got.Cmp(m) >= 0 {
		return fmt.Errorf("mulmod result %s outside [0, %s)", got, m)
	}

	pow, err := a.PowMod(bignum.FromUint64(e), m)
	if err != nil {
		return fmt.Errorf("powmod: %w", err)
	}
	acc, _ := bignum.One().Mod(m)
	for range e {
		acc, _ = acc.MulMod(a, m)
	}
	if !pow.Equals(acc) {
		return fmt.Errorf("powmod(%s, %d, %s) = %s, want %s", a, e, m, pow, acc)
	}

	inv, err := a.InvMod(m)
	if err != nil {
		return nil
	}
	one, _ := a.MulMod(inv, m)
	wantOne, _ := bignum.One().Mod(m)
	if !one.Equals(wantOne) {
		return fmt.Errorf("%s * invmod(%s, %s) = %s mod m", a, a, m, one)
	}
	return nil
}

// CheckEncoding verifies that every encoding of x is canonical and decodes
// back to x (magnitude-only forms back to |x|).
func CheckEncoding(x bignum.BigInt) error {
	mag := x.Bytes()
	if len(mag) > 0 && mag[0] == 0 {
		return fmt.Errorf("bytes of %s have a leading zero", x)
	}
	if x.IsZero() != (len(mag) == 0) {
		return fmt.Errorf("bytes of %s: %x", x, mag)
	}
	if n := len(mag); n > 0 && n*8-bits.LeadingZeros8(mag[0]) != x.BitLen() {
		return fmt.Errorf("bit length %d disagrees with bytes %x", x.BitLen(), mag)
	}
	if !bignum.FromBytes(mag).Equals(x.Abs()) {
		return fmt.Errorf("bytes of %s do not round trip", x)
	}
	if !bignum.FromBytes(append([]byte{0, 0}, mag...)).Equals(x.Abs()) {
		return fmt.Errorf("leading zeros change the value of %x", mag)
	}

	bin, err := x.MarshalBinary()
	if err != nil {
		return err
	}
	var back bignum.BigInt
	if err := back.UnmarshalBinary(bin); err != nil || !back.Equals(x) {
		return fmt.Errorf("binary round trip of %s: %s, %v", x, back, err)
	}

	der, err := x.MarshalASN1()
	if err != nil {
		return err
	}
	if back, err = bignum.ParseASN1(der); err != nil || !back.Equals(x.Abs()) {
		return fmt.Errorf("asn1 round trip of %s: %s, %v", x, back, err)
	}

	for _, text := range []string{x.Text(10), mustText(x)} {
		if back, err = bignum.ParseInt(text); err != nil || !back.Equals(x) {
			return fmt.Errorf("text round trip of %q: %s, %v", text, back, err)
		}
	}
	if back, err = bignum.ParseHex(x.String()); err != nil || !back.Equals(x) {
		return fmt.Errorf("hex round trip of %q: %s, %v", x.String(), back, err)
	}

	if x.IsZero() {
		return nil
	}
	padded, err := x.FillBytes(make([]byte, len(mag)+3))
	if err != nil || !bytes.Equal(padded[3:], mag) {
		return fmt.Errorf("fill bytes of %s: %x, %v", x, padded, err)
	}
	return nil
}

func mustText(x bignum.BigInt) string {
	b, _ := x.MarshalText()
	return string(b)
}
