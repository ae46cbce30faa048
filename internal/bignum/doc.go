// Package bignum is the arbitrary-precision integer engine behind RSA-family
// schemes: construction, comparison, modular arithmetic, primality testing,
// randomized generation and canonical byte serialization.
//
// # Values
//
// BigInt is a sign and a base-2^32 limb magnitude. Operations are pure and
// return fresh values; only Set and Root write to their receiver. There is no
// internal locking, so a BigInt shared between goroutines must not be passed
// to Set or Root concurrently with any other use.
//
// # Errors
//
// Undefined arithmetic is reported, never approximated:
//
//   - ErrDivByZero: zero divisor or modulus
//   - ErrInvalidModulus: negative modulus for MulMod/PowMod/InvMod, even or
//     non-positive Jacobi modulus, non-prime Legendre modulus
//   - ErrNotInvertible: InvMod (or PowMod with a negative exponent) when
//     gcd(x, m) != 1
//   - ErrInvalidRoot: zeroth root, even root of a negative value
//   - ErrMalformed: structured decoders given a bad container
//
// # Randomness
//
// Random and RandomPrime read single bytes from a caller supplied
// io.ByteReader. RandomPrime does not bound its search; a source that never
// yields a prime (for example one stuck at a constant byte) makes it spin
// forever. PrimeSearch exposes MaxAttempts and an Observe hook for callers that
// need a bound.
//
// # Encodings
//
// Bytes/FromBytes is the canonical big-endian unsigned form; zero is the empty
// slice. MarshalBinary adds a sign byte, MarshalASN1 wraps the canonical bytes
// in a BIT STRING container, and the msgpack hooks carry the binary form.
package bignum
