package bignum

import (
	"errors"
	"fmt"
)

// ErrBufferTooSmall indicates a destination buffer cannot hold the value.
var ErrBufferTooSmall = errors.New("buffer too small")

// UintFromBytes interprets buf as a big-endian magnitude. Leading zero bytes
// are accepted; an empty buffer is zero.
func UintFromBytes(buf []byte) BigUint {
	out := make([]uint32, (len(buf)+3)/4)
	for i := range buf {
		// i counts from the least significant byte.
		b := buf[len(buf)-1-i]
		out[i/4] |= uint32(b) << (8 * (i % 4))
	}
	return BigUint{limbs: trimLimbs(out)}
}

// Bytes returns the canonical big-endian encoding: no leading zero bytes, and
// an empty slice for zero.
func (u BigUint) Bytes() []byte {
	n := (u.BitLen() + 7) / 8
	out := make([]byte, n)
	u.fill(out)
	return out
}

// fill writes u right-aligned into buf, which must be large enough.
func (u BigUint) fill(buf []byte) {
	limbs := trimLimbs(u.limbs)
	for i := range buf {
		w := i / 4
		var b byte
		if w < len(limbs) {
			b = byte(limbs[w] >> (8 * (i % 4)))
		}
		buf[len(buf)-1-i] = b
	}
}

// FromBytes interprets buf as a big-endian unsigned magnitude.
func FromBytes(buf []byte) BigInt {
	return BigInt{limbs: UintFromBytes(buf).limbs}
}

// Bytes returns the canonical big-endian unsigned encoding of |x|. Zero
// encodes as an empty slice, and FromBytes(x.Bytes()) equals |x|.
func (x BigInt) Bytes() []byte {
	return BigUint{limbs: x.limbs}.Bytes()
}

// FillBytes writes |x| into buf left-padded with zeros and returns buf. It
// fails if |x| does not fit.
func (x BigInt) FillBytes(buf []byte) ([]byte, error) {
	mag := BigUint{limbs: x.limbs}
	if need := (mag.BitLen() + 7) / 8; need > len(buf) {
		return nil, fmt.Errorf("value needs %d bytes, buffer has %d: %w", need, len(buf), ErrBufferTooSmall)
	}
	mag.fill(buf)
	return buf, nil
}
