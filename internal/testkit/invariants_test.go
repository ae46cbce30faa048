package testkit

import (
	"testing"

	"rsanum/internal/bignum"
)

func TestChecksHoldOnEdgeValues(t *testing.T) {
	values := []string{
		"0", "1", "-1", "2", "-7", "255", "256",
		"0xffffffff", "0x100000000", "-0x100000000",
		"0xffffffffffffffffffffffffffffffff",
		"-340282366920938463463374607431768211457",
	}
	nums := make([]bignum.BigInt, len(values))
	for i, s := range values {
		v, err := bignum.ParseInt(s)
		if err != nil {
			t.Fatalf("parse %q: %v", s, err)
		}
		nums[i] = v
	}
	for _, a := range nums {
		if err := CheckEncoding(a); err != nil {
			t.Errorf("encoding: %v", err)
		}
		for _, b := range nums {
			if err := CheckArithmetic(a, b); err != nil {
				t.Errorf("arithmetic: %v", err)
			}
			for _, m := range nums {
				if m.Sign() <= 0 {
					continue
				}
				if err := CheckModular(a, b, m, 5); err != nil {
					t.Errorf("modular: %v", err)
				}
			}
		}
	}
}

func TestCheckModularRejectsBadModulus(t *testing.T) {
	if err := CheckModular(bignum.One(), bignum.One(), bignum.Zero(), 1); err == nil {
		t.Fatal("zero modulus must be reported")
	}
}
