package bignum

import (
	"errors"
	"fmt"
	"io"
)

// DefaultPrimeRounds is the Miller-Rabin round count used by IsPrime and by
// prime searches that do not configure their own.
const DefaultPrimeRounds = 45

var (
	// ErrInvalidBits indicates a non-positive bit length request.
	ErrInvalidBits = errors.New("bit length must be positive")
	// ErrSearchExhausted indicates a bounded prime search ran out of attempts.
	ErrSearchExhausted = errors.New("prime search exhausted its attempts")
)

// Random returns a value of exactly bits bits drawn byte by byte from rng.
//
// When bits is not a multiple of 8 the first byte drawn becomes the most
// significant byte: its bit (bits%8 - 1) is forced on and everything above it
// masked off. Otherwise the first of the whole bytes gets its high bit forced.
// Remaining bytes are used as drawn, most significant first.
func Random(rng io.ByteReader, bits int) (BigInt, error) {
	if bits <= 0 {
		return BigInt{}, fmt.Errorf("random(%d): %w", bits, ErrInvalidBits)
	}
	byteLen := bits / 8
	rem := bits % 8

	buf := make([]byte, 0, byteLen+1)
	if rem != 0 {
		b, err := rng.ReadByte()
		if err != nil {
			return BigInt{}, fmt.Errorf("random: reading source: %w", err)
		}
		mask := byte(1<<rem) - 1
		b |= 1 << (rem - 1)
		b &= mask
		buf = append(buf, b)
	}
	for i := range byteLen {
		b, err := rng.ReadByte()
		if err != nil {
			return BigInt{}, fmt.Errorf("random: reading source: %w", err)
		}
		if i == 0 && rem == 0 {
			b |= 1 << 7
		}
		buf = append(buf, b)
	}
	return FromBytes(buf), nil
}

// PrimeSearch configures a reject-and-resample prime search.
type PrimeSearch struct {
	// MaxAttempts bounds the number of candidates; 0 means unbounded. An
	// unbounded search over a defective source never returns.
	MaxAttempts int
	// Rounds is the Miller-Rabin round count; 0 means DefaultPrimeRounds.
	Rounds int
	// Observe, when set, is called before each candidate with its 1-based
	// attempt number. A non-nil error stops the search and is returned.
	Observe func(attempt int) error
}

// Find draws Random(rng, bits) candidates until one passes the primality test.
// It returns the prime and the number of candidates drawn.
func (s PrimeSearch) Find(rng io.ByteReader, bits int) (BigInt, int, error) {
	if bits <= 0 {
		return BigInt{}, 0, fmt.Errorf("prime(%d): %w", bits, ErrInvalidBits)
	}
	rounds := s.Rounds
	if rounds <= 0 {
		rounds = DefaultPrimeRounds
	}
	for attempt := 1; s.MaxAttempts <= 0 || attempt <= s.MaxAttempts; attempt++ {
		if s.Observe != nil {
			if err := s.Observe(attempt); err != nil {
				return BigInt{}, attempt - 1, err
			}
		}
		candidate, err := Random(rng, bits)
		if err != nil {
			return BigInt{}, attempt, err
		}
		if candidate.ProbablyPrime(rounds) {
			return candidate, attempt, nil
		}
	}
	return BigInt{}, s.MaxAttempts, fmt.Errorf("%d-bit prime after %d attempts: %w", bits, s.MaxAttempts, ErrSearchExhausted)
}

// RandomPrime returns the first Random(rng, bits) candidate that passes
// IsPrime. The search is unbounded; use PrimeSearch to bound it.
func RandomPrime(rng io.ByteReader, bits int) (BigInt, error) {
	p, _, err := PrimeSearch{}.Find(rng, bits)
	return p, err
}
