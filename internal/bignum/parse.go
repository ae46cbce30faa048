package bignum

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrParse indicates malformed numeric text.
var ErrParse = errors.New("invalid numeric format")

// notDigit is larger than every supported base.
const notDigit = 0xff

// ParseInt parses a signed integer. Decimal is the default; 0x, 0b and 0o
// prefixes select hexadecimal, binary and octal. Underscores are ignored.
func ParseInt(s string) (BigInt, error) {
	neg, body := splitSign(strings.TrimSpace(s))
	mag, err := ParseUint(body)
	if err != nil {
		return BigInt{}, err
	}
	return newInt(neg, mag), nil
}

// ParseUint parses an unsigned integer with the same rules as ParseInt, minus
// the sign.
func ParseUint(s string) (BigUint, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "_", "")
	base := uint32(10)
	if len(s) >= 2 && s[0] == '0' {
		switch s[1] | 0x20 {
		case 'x':
			base, s = 16, s[2:]
		case 'b':
			base, s = 2, s[2:]
		case 'o':
			base, s = 8, s[2:]
		}
	}
	return parseDigits(s, base)
}

// ParseHex parses unprefixed hexadecimal as produced by BigInt.String.
func ParseHex(s string) (BigInt, error) {
	neg, body := splitSign(strings.TrimSpace(s))
	mag, err := parseDigits(body, 16)
	if err != nil {
		return BigInt{}, err
	}
	return newInt(neg, mag), nil
}

func splitSign(s string) (neg bool, rest string) {
	if rest, ok := strings.CutPrefix(s, "-"); ok {
		return true, rest
	}
	return false, strings.TrimPrefix(s, "+")
}

// parseDigits folds as many digits as fit into a uint32 before each
// multiply-add on the accumulator.
func parseDigits(s string, base uint32) (BigUint, error) {
	if s == "" {
		return BigUint{}, ErrParse
	}
	var acc BigUint
	word, scale := uint32(0), uint32(1)
	for i := range len(s) {
		d := digitOf(s[i])
		if d >= base {
			return BigUint{}, fmt.Errorf("%w: %q", ErrParse, s)
		}
		if scale > math.MaxUint32/base {
			acc = UintAddSmall(UintMulSmall(acc, scale), word)
			word, scale = 0, 1
		}
		word = word*base + d
		scale *= base
	}
	return UintAddSmall(UintMulSmall(acc, scale), word), nil
}

func digitOf(ch byte) uint32 {
	switch {
	case '0' <= ch && ch <= '9':
		return uint32(ch - '0')
	case 'a' <= ch|0x20 && ch|0x20 <= 'f':
		return uint32(ch|0x20-'a') + 10
	}
	return notDigit
}
