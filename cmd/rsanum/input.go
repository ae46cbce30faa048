package main

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"rsanum/internal/bignum"
)

// normalizeArg folds compatibility characters (fullwidth digits, ligatures)
// so pasted numbers parse the same as typed ones.
func normalizeArg(s string) string {
	s = norm.NFKC.String(s)
	// U+2212 MINUS SIGN survives NFKC
	s = strings.ReplaceAll(s, "−", "-")
	return strings.TrimSpace(s)
}

func parseNumber(name, s string) (bignum.BigInt, error) {
	v, err := bignum.ParseInt(normalizeArg(s))
	if err != nil {
		return bignum.BigInt{}, fmt.Errorf("%s: %w", name, err)
	}
	return v, nil
}

func parseNumbers(names []string, args []string) ([]bignum.BigInt, error) {
	out := make([]bignum.BigInt, len(args))
	for i, a := range args {
		v, err := parseNumber(names[i], a)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// smallArg converts a parsed operand to uint64 for exponents and root
// degrees.
func smallArg(name string, v bignum.BigInt) (uint64, error) {
	u, ok := v.Uint64()
	if !ok {
		return 0, fmt.Errorf("%s: %s does not fit in 64 unsigned bits", name, v.Text(10))
	}
	return u, nil
}
