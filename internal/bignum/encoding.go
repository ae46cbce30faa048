package bignum

import (
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

// ErrMalformed indicates an encoded value that cannot be decoded.
var ErrMalformed = errors.New("malformed encoding")

// asn1ContainerTag is the constructed BIT STRING that wraps the OCTET STRING
// holding the canonical bytes.
var asn1ContainerTag = cbasn1.BIT_STRING.Constructed()

const (
	signNonNegative byte = 0
	signNegative    byte = 1
)

// MarshalASN1 wraps the canonical bytes of |x| as an OCTET STRING inside a
// constructed BIT STRING container.
func (x BigInt) MarshalASN1() ([]byte, error) {
	b := cryptobyte.NewBuilder(nil)
	b.AddASN1(asn1ContainerTag, func(child *cryptobyte.Builder) {
		child.AddASN1OctetString(x.Bytes())
	})
	return b.Bytes()
}

// ParseASN1 decodes the container produced by MarshalASN1. Trailing data or a
// wrong container shape fails with ErrMalformed.
func ParseASN1(der []byte) (BigInt, error) {
	input := cryptobyte.String(der)
	var container cryptobyte.String
	var mag []byte
	if !input.ReadASN1(&container, asn1ContainerTag) ||
		!container.ReadASN1Bytes(&mag, cbasn1.OCTET_STRING) ||
		!container.Empty() || !input.Empty() {
		return BigInt{}, fmt.Errorf("asn1 bigint: %w", ErrMalformed)
	}
	return FromBytes(mag), nil
}

// MarshalBinary encodes x as a sign byte (0 for non-negative, 1 for negative)
// followed by the canonical magnitude bytes.
func (x BigInt) MarshalBinary() ([]byte, error) {
	mag := x.Bytes()
	out := make([]byte, 1+len(mag))
	if x.Sign() < 0 {
		out[0] = signNegative
	}
	copy(out[1:], mag)
	return out, nil
}

// UnmarshalBinary decodes the MarshalBinary form. Negative zero is rejected.
func (x *BigInt) UnmarshalBinary(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("binary bigint: empty input: %w", ErrMalformed)
	}
	v := FromBytes(data[1:])
	switch data[0] {
	case signNonNegative:
	case signNegative:
		if v.IsZero() {
			return fmt.Errorf("binary bigint: negative zero: %w", ErrMalformed)
		}
		v = v.Neg()
	default:
		return fmt.Errorf("binary bigint: sign byte %#x: %w", data[0], ErrMalformed)
	}
	*x = v
	return nil
}

// MarshalText renders x as "0x"-prefixed hexadecimal.
func (x BigInt) MarshalText() ([]byte, error) {
	if x.Sign() < 0 {
		return []byte("-0x" + x.Abs().String()), nil
	}
	return []byte("0x" + x.String()), nil
}

// UnmarshalText accepts anything ParseInt does.
func (x *BigInt) UnmarshalText(text []byte) error {
	v, err := ParseInt(string(text))
	if err != nil {
		return err
	}
	*x = v
	return nil
}

// EncodeMsgpack implements msgpack.CustomEncoder using the binary form.
func (x BigInt) EncodeMsgpack(enc *msgpack.Encoder) error {
	data, err := x.MarshalBinary()
	if err != nil {
		return err
	}
	return enc.EncodeBytes(data)
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (x *BigInt) DecodeMsgpack(dec *msgpack.Decoder) error {
	data, err := dec.DecodeBytes()
	if err != nil {
		return err
	}
	return x.UnmarshalBinary(data)
}
