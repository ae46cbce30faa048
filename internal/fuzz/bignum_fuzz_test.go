package fuzztests

import (
	"math/big"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"rsanum/internal/bignum"
	"rsanum/internal/testkit"
)

// maxOperandBytes keeps quadratic operations fast under fuzzing.
const maxOperandBytes = 256

func clampOperand(b []byte) []byte {
	if len(b) > maxOperandBytes {
		return b[:maxOperandBytes]
	}
	return b
}

func signed(mag []byte, neg bool) bignum.BigInt {
	v := bignum.FromBytes(clampOperand(mag))
	if neg {
		return v.Neg()
	}
	return v
}

func FuzzParseInt(f *testing.F) {
	addTextSeeds(f)
	f.Fuzz(func(t *testing.T, s string) {
		if len(s) > maxSeedBytes {
			s = s[:maxSeedBytes]
		}
		v, err := bignum.ParseInt(s)
		if err != nil {
			return
		}
		if err := testkit.CheckEncoding(v); err != nil {
			t.Fatalf("ParseInt(%q): %v", s, err)
		}
		// decimal input must agree with math/big
		clean := strings.ReplaceAll(strings.TrimSpace(s), "_", "")
		if want, ok := new(big.Int).SetString(clean, 10); ok && want.String() != v.Text(10) {
			t.Fatalf("ParseInt(%q) = %s, math/big says %s", s, v.Text(10), want)
		}
	})
}

func FuzzArithmetic(f *testing.F) {
	for _, a := range edgeMagnitudes {
		for _, b := range edgeMagnitudes {
			f.Add(a, false, b, true)
		}
	}
	f.Fuzz(func(t *testing.T, a []byte, negA bool, b []byte, negB bool) {
		x, y := signed(a, negA), signed(b, negB)
		if err := testkit.CheckArithmetic(x, y); err != nil {
			t.Fatal(err)
		}
	})
}

func FuzzModular(f *testing.F) {
	f.Add([]byte{7}, []byte{3}, []byte{11}, uint8(13))
	f.Add([]byte{0xff, 0xff}, []byte{0x01, 0x00, 0x01}, []byte{0x10, 0x00}, uint8(5))
	f.Fuzz(func(t *testing.T, a, b, m []byte, e uint8) {
		mod := bignum.FromBytes(clampOperand(m))
		if mod.IsZero() {
			return
		}
		err := testkit.CheckModular(signed(a, false), signed(b, true), mod, uint64(e%32))
		if err != nil {
			t.Fatal(err)
		}
	})
}

func FuzzDecodeBinary(f *testing.F) {
	for _, m := range edgeMagnitudes {
		f.Add(append([]byte{0}, m...))
		f.Add(append([]byte{1}, m...))
	}
	addByteSeeds(f)
	f.Fuzz(func(t *testing.T, data []byte) {
		var v bignum.BigInt
		if err := v.UnmarshalBinary(data); err != nil {
			return
		}
		if err := testkit.CheckEncoding(v); err != nil {
			t.Fatal(err)
		}
		again, err := v.MarshalBinary()
		if err != nil {
			t.Fatal(err)
		}
		// decoding tolerates leading zeros, encoding never emits them
		if !bignum.FromBytes(again[1:]).Equals(bignum.FromBytes(data[1:])) || again[0] != data[0] {
			t.Fatalf("binary %x re-encoded as %x", data, again)
		}
	})
}

func FuzzParseASN1(f *testing.F) {
	for _, m := range edgeMagnitudes {
		der, err := bignum.FromBytes(m).MarshalASN1()
		if err == nil {
			f.Add(der)
		}
	}
	addByteSeeds(f)
	f.Fuzz(func(t *testing.T, der []byte) {
		v, err := bignum.ParseASN1(clampSeed(der))
		if err != nil {
			return
		}
		if v.Sign() < 0 {
			t.Fatalf("ParseASN1(%x) is negative", der)
		}
		again, err := v.MarshalASN1()
		if err != nil {
			t.Fatal(err)
		}
		if back, err := bignum.ParseASN1(again); err != nil || !back.Equals(v) {
			t.Fatalf("asn1 %x re-encoded as %x: %v", der, again, err)
		}
	})
}

func FuzzDecodeMsgpack(f *testing.F) {
	for _, m := range edgeMagnitudes {
		data, err := msgpack.Marshal(bignum.FromBytes(m).Neg())
		if err == nil {
			f.Add(data)
		}
	}
	f.Fuzz(func(t *testing.T, data []byte) {
		var v bignum.BigInt
		if err := msgpack.Unmarshal(clampSeed(data), &v); err != nil {
			return
		}
		again, err := msgpack.Marshal(v)
		if err != nil {
			t.Fatal(err)
		}
		var back bignum.BigInt
		if err := msgpack.Unmarshal(again, &back); err != nil || !back.Equals(v) {
			t.Fatalf("msgpack %x re-encoded as %x: %v", data, again, err)
		}
	})
}
