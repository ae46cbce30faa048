package fuzztests

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

const maxSeedBytes = 4 << 10

// edgeMagnitudes sit on limb and byte boundaries.
var edgeMagnitudes = [][]byte{
	{},
	{0x01},
	{0xff},
	{0x01, 0x00},
	{0xff, 0xff, 0xff, 0xff},
	{0x01, 0x00, 0x00, 0x00, 0x00},
	{0x80, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
	bytes.Repeat([]byte{0xff}, 16),
	append([]byte{0x01}, make([]byte, 16)...),
}

var textSeeds = []string{
	"0", "-0", "+1", "-1", "0x0", "0xFF", "-0xdead_beef", "0b1011", "0o777",
	"18446744073709551616", "-340282366920938463463374607431768211457",
	"", "-", "0x", "1_000_000", "12a", " 42 ",
}

func addTextSeeds(f *testing.F) {
	for _, s := range textSeeds {
		f.Add(s)
	}
	addTestdataSeeds(f, "*.txt", func(b []byte) { f.Add(string(b)) })
}

func addByteSeeds(f *testing.F) {
	for _, m := range edgeMagnitudes {
		f.Add(m)
	}
	addTestdataSeeds(f, "*.bin", func(b []byte) { f.Add(b) })
}

// addTestdataSeeds adds files under testdata/ that match pattern, if any.
func addTestdataSeeds(f *testing.F, pattern string, add func([]byte)) {
	paths, err := filepath.Glob(filepath.Join("testdata", pattern))
	if err != nil {
		return
	}
	for _, path := range paths {
		// #nosec G304 -- path comes from a testdata glob
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		add(clampSeed(data))
	}
}

func clampSeed(b []byte) []byte {
	if len(b) > maxSeedBytes {
		return b[:maxSeedBytes]
	}
	return b
}
