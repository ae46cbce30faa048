package bignum

import (
	"strconv"
	"strings"
)

// decChunk is the largest power of ten below 2^32.
const (
	decChunk       = 1_000_000_000
	decChunkDigits = 9
)

// FormatUint renders u in decimal.
func FormatUint(u BigUint) string {
	x := cloneLimbs(u.limbs)
	if x == nil {
		return "0"
	}
	// Peel off nine decimal digits per pass, least significant chunk first.
	var chunks []uint32
	for len(x) > 0 {
		chunks = append(chunks, divWVW(x, x, decChunk))
		x = trimLimbs(x)
	}
	buf := strconv.AppendUint(nil, uint64(chunks[len(chunks)-1]), 10)
	for i := len(chunks) - 2; i >= 0; i-- {
		digits := strconv.FormatUint(uint64(chunks[i]), 10)
		buf = append(buf, strings.Repeat("0", decChunkDigits-len(digits))...)
		buf = append(buf, digits...)
	}
	return string(buf)
}

// FormatUintHex renders u in lowercase hexadecimal without padding.
func FormatUintHex(u BigUint) string {
	x := trimLimbs(u.limbs)
	if x == nil {
		return "0"
	}
	buf := strconv.AppendUint(make([]byte, 0, len(x)*8), uint64(x[len(x)-1]), 16)
	for i := len(x) - 2; i >= 0; i-- {
		digits := strconv.FormatUint(uint64(x[i]), 16)
		buf = append(buf, strings.Repeat("0", 8-len(digits))...)
		buf = append(buf, digits...)
	}
	return string(buf)
}

// String renders x in lowercase hexadecimal, with a leading '-' for negative
// values and no zero padding.
func (x BigInt) String() string { return x.Text(16) }

// Text renders x in base 10 or 16. Other bases fall back to 16.
func (x BigInt) Text(base int) string {
	mag := BigUint{limbs: x.limbs}
	s := FormatUintHex(mag)
	if base == 10 {
		s = FormatUint(mag)
	}
	if x.Sign() < 0 {
		s = "-" + s
	}
	return s
}

// String renders u in lowercase hexadecimal.
func (u BigUint) String() string { return FormatUintHex(u) }
