// Package fuzztests houses Go fuzz harnesses for the bignum engine: text
// parsing, the binary, ASN.1 and msgpack decoders, and the arithmetic laws
// checked by internal/testkit. The goal is to catch panics, non-canonical
// results and allocation blowups on arbitrary input.
package fuzztests
