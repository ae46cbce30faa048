package bignum

import (
	"crypto/rand"
	"fmt"
)

// trialDivisionLimit bounds the small primes used before Miller-Rabin.
const trialDivisionLimit = 1024

var smallPrimes = sieve(trialDivisionLimit)

func sieve(limit int) []uint32 {
	composite := make([]bool, limit)
	var primes []uint32
	for i := 2; i < limit; i++ {
		if composite[i] {
			continue
		}
		primes = append(primes, uint32(i)) //nolint:gosec // G115: i < limit.
		for j := i * i; j < limit; j += i {
			composite[j] = true
		}
	}
	return primes
}

// IsPrime runs DefaultPrimeRounds rounds of Miller-Rabin after trial division
// by small primes. A true result is probabilistic: the chance that a composite
// passes is below 4^-45. Negative numbers, 0 and 1 are not prime.
func (x BigInt) IsPrime() bool {
	return x.ProbablyPrime(DefaultPrimeRounds)
}

// ProbablyPrime is IsPrime with a caller chosen number of Miller-Rabin rounds.
// Witnesses are drawn from crypto/rand.
func (x BigInt) ProbablyPrime(rounds int) bool {
	if x.Sign() <= 0 {
		return false
	}
	n := x.Magnitude()
	if v, ok := n.Uint64(); ok && v < 2 {
		return false
	}
	for _, p := range smallPrimes {
		q, r, _ := UintDivModSmall(n, p)
		if r == 0 {
			return n.Cmp(UintFromUint32(p)) == 0
		}
		// n has no factor below p and n < p*p, so n is prime.
		if q.Cmp(UintFromUint32(p)) < 0 {
			return true
		}
	}
	return millerRabin(n, max(rounds, 1))
}

// millerRabin tests an odd n > trialDivisionLimit^2.
func millerRabin(n BigUint, rounds int) bool {
	md := newModulus(n)
	nm1, _ := UintSub(n, UintFromUint32(1))
	s := nm1.TrailingZeros()
	d := UintShr(nm1, uint(s)) //nolint:gosec // G115: trailing zero counts are non-negative.
	// Witnesses come from [2, n-2].
	span, _ := UintSub(n, UintFromUint32(3))
	buf := make([]byte, (n.BitLen()+7)/8+8)

nextWitness:
	for range rounds {
		if _, err := rand.Read(buf); err != nil {
			// crypto/rand does not fail on supported platforms.
			panic(fmt.Sprintf("bignum: reading witness: %v", err))
		}
		_, a, _ := UintDivMod(UintFromBytes(buf), span)
		a = UintAddSmall(a, 2)

		y := md.exp(a, d)
		if y.IsOne() || y.Cmp(nm1) == 0 {
			continue
		}
		for range s - 1 {
			y = md.mul(y, y)
			if y.Cmp(nm1) == 0 {
				continue nextWitness
			}
			if y.IsOne() {
				return false
			}
		}
		return false
	}
	return true
}

// Jacobi returns the Jacobi symbol (x/y), one of -1, 0 or 1. y must be odd and
// positive; otherwise ErrInvalidModulus is returned.
func Jacobi(x, y BigInt) (int, error) {
	if y.Sign() <= 0 || y.IsEven() {
		return 0, fmt.Errorf("jacobi: %w: %s is not an odd positive integer", ErrInvalidModulus, y)
	}
	n := y.Magnitude()
	md := newModulus(n)
	a := md.reduce(x)
	t := 1
	for !a.IsZero() {
		tz := a.TrailingZeros()
		a = UintShr(a, uint(tz)) //nolint:gosec // G115: trailing zero counts are non-negative.
		if r := n.limbs[0] & 7; tz%2 == 1 && (r == 3 || r == 5) {
			t = -t
		}
		a, n = n, a
		if a.limbs[0]&3 == 3 && n.limbs[0]&3 == 3 {
			t = -t
		}
		_, a, _ = UintDivMod(a, n)
	}
	if n.IsOne() {
		return t, nil
	}
	return 0, nil
}

// Legendre returns the Legendre symbol (x/p). p must be an odd prime, which is
// checked with IsPrime; any other p yields ErrInvalidModulus.
func Legendre(x, p BigInt) (int, error) {
	if p.Sign() <= 0 || p.IsEven() || !p.IsPrime() {
		return 0, fmt.Errorf("legendre: %w: %s is not an odd prime", ErrInvalidModulus, p)
	}
	return Jacobi(x, p)
}
