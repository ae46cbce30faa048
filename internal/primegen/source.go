package primegen

import (
	"bufio"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	mrand "math/rand/v2"

	"fortio.org/safecast"
)

// SourceFactory returns the random byte source for one job. Sources are not
// shared between jobs.
type SourceFactory func(job int) (io.ByteReader, error)

// CryptoSource returns a buffered reader over crypto/rand.
func CryptoSource() io.ByteReader {
	return bufio.NewReader(rand.Reader)
}

// Crypto is the SourceFactory used when a Request leaves Source unset.
func Crypto(int) (io.ByteReader, error) {
	return CryptoSource(), nil
}

// SeededSource returns a deterministic ChaCha8 stream keyed by seed and job.
// Runs with the same seed reproduce the same candidates; it is meant for
// tests and benchmarks, never for key material.
func SeededSource(seed, job uint64) io.ByteReader {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[0:8], seed)
	binary.LittleEndian.PutUint64(key[8:16], job)
	copy(key[16:], "rsanum-seeded")
	return bufio.NewReader(mrand.NewChaCha8(key))
}

// Seeded returns a SourceFactory of SeededSource streams.
func Seeded(seed uint64) SourceFactory {
	return func(job int) (io.ByteReader, error) {
		j, err := safecast.Conv[uint64](job)
		if err != nil {
			return nil, fmt.Errorf("seeded source for job %d: %w", job, err)
		}
		return SeededSource(seed, j), nil
	}
}
