package bignum

import (
	"math"
	"math/bits"
)

// Limb vector kernels. Vectors are little-endian base 2^32 and the caller
// sizes every destination.

// addVV sets z = x + y and returns the carry. len(x) >= len(y).
func addVV(z, x, y []uint32) (c uint32) {
	for i, xi := range x {
		var yi uint32
		if i < len(y) {
			yi = y[i]
		}
		z[i], c = bits.Add32(xi, yi, c)
	}
	return c
}

// subVV sets z = x - y and returns the borrow. len(x) >= len(y).
func subVV(z, x, y []uint32) (b uint32) {
	for i, xi := range x {
		var yi uint32
		if i < len(y) {
			yi = y[i]
		}
		z[i], b = bits.Sub32(xi, yi, b)
	}
	return b
}

// mulAddVWW sets z = x*y + r and returns the high limb.
func mulAddVWW(z, x []uint32, y, r uint32) uint32 {
	c := r
	for i, xi := range x {
		hi, lo := bits.Mul32(xi, y)
		var cc uint32
		z[i], cc = bits.Add32(lo, c, 0)
		c = hi + cc
	}
	return c
}

// addMulVVW adds x*y into z[:len(x)] and returns the carry out.
func addMulVVW(z, x []uint32, y uint32) uint32 {
	var c uint32
	for i, xi := range x {
		hi, lo := bits.Mul32(xi, y)
		var c1, c2 uint32
		lo, c1 = bits.Add32(lo, z[i], 0)
		z[i], c2 = bits.Add32(lo, c, 0)
		c = hi + c1 + c2
	}
	return c
}

// divWVW sets z = x / y and returns x mod y.
func divWVW(z, x []uint32, y uint32) (r uint32) {
	for i := len(x) - 1; i >= 0; i-- {
		z[i], r = bits.Div32(r, x[i], y)
	}
	return r
}

// shlVU sets z = x << s for s < 32 and returns the bits shifted out.
func shlVU(z, x []uint32, s uint) (c uint32) {
	if s == 0 {
		copy(z, x)
		return 0
	}
	for i, xi := range x {
		z[i] = xi<<s | c
		c = xi >> (32 - s)
	}
	return c
}

// shrVU sets z = x >> s for s < 32 and returns the bits shifted out, left
// aligned.
func shrVU(z, x []uint32, s uint) (c uint32) {
	if s == 0 {
		copy(z, x)
		return 0
	}
	for i := len(x) - 1; i >= 0; i-- {
		xi := x[i]
		z[i] = xi>>s | c
		c = xi << (32 - s)
	}
	return c
}

// divKnuth divides u by v (len(v) >= 2, u >= v) with Knuth's algorithm D.
// Results are trimmed.
func divKnuth(u, v []uint32) (q, r []uint32) {
	n := len(v)
	m := len(u) - n

	// Normalise so the divisor's top bit is set; quotient digit estimates are
	// then off by at most two.
	s := uint(bits.LeadingZeros32(v[n-1])) //nolint:gosec // G115: LeadingZeros32 is in [0, 31].
	vn := make([]uint32, n)
	shlVU(vn, v, s)
	un := make([]uint32, len(u)+1)
	un[len(u)] = shlVU(un[:len(u)], u, s)

	q = make([]uint32, m+1)
	prod := make([]uint32, n+1)
	vTop, vNext := uint64(vn[n-1]), uint64(vn[n-2])
	for j := m; j >= 0; j-- {
		num := uint64(un[j+n])<<32 | uint64(un[j+n-1])
		qhat, rhat := num/vTop, num%vTop
		for qhat > math.MaxUint32 || qhat*vNext > rhat<<32|uint64(un[j+n-2]) {
			qhat--
			rhat += vTop
			if rhat > math.MaxUint32 {
				break
			}
		}

		window := un[j : j+n+1]
		prod[n] = mulAddVWW(prod[:n], vn, uint32(qhat), 0) //nolint:gosec // G115: qhat < 2^32 after the estimate loop.
		if subVV(window, window, prod) != 0 {
			qhat--
			window[n] += addVV(window[:n], window[:n], vn)
		}
		q[j] = uint32(qhat) //nolint:gosec // G115: qhat < 2^32 after the estimate loop.
	}

	shrVU(un[:n], un[:n], s)
	return trimLimbs(q), trimLimbs(un[:n])
}

func trimLimbs(limbs []uint32) []uint32 {
	n := len(limbs)
	for n > 0 && limbs[n-1] == 0 {
		n--
	}
	if n == 0 {
		return nil
	}
	return limbs[:n]
}

func cloneLimbs(limbs []uint32) []uint32 {
	limbs = trimLimbs(limbs)
	if limbs == nil {
		return nil
	}
	return append([]uint32(nil), limbs...)
}

func bitLenLimbs(limbs []uint32) int {
	limbs = trimLimbs(limbs)
	if limbs == nil {
		return 0
	}
	top := len(limbs) - 1
	return top*32 + bits.Len32(limbs[top])
}

func cmpLimbs(a, b []uint32) int {
	a, b = trimLimbs(a), trimLimbs(b)
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	for i := len(a) - 1; i >= 0; i-- {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}
