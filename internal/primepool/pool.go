package primepool

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"rsanum/internal/bignum"
)

// Current schema version - increment when the shelf format changes.
const schemaVersion uint16 = 1

const shelfExt = ".mp"

// ErrBitLength indicates a value whose bit length does not match its shelf.
var ErrBitLength = errors.New("prime has the wrong bit length")

// Pool keeps precomputed primes on disk, one msgpack file per bit length.
// Thread-safe for concurrent access within one process.
type Pool struct {
	mu  sync.RWMutex
	dir string
}

// shelf is the on-disk payload for one bit length.
type shelf struct {
	Schema  uint16          `msgpack:"schema"`
	Bits    int             `msgpack:"bits"`
	Primes  []bignum.BigInt `msgpack:"primes"`
	Updated int64           `msgpack:"updated"`
}

// Stat summarizes one shelf.
type Stat struct {
	Bits  int
	Count int
}

// Open returns a pool rooted at dir, creating it if needed.
func Open(dir string) (*Pool, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("pool %s: %w", dir, err)
	}
	return &Pool{dir: dir}, nil
}

// OpenDefault opens the pool at the standard cache location for app.
func OpenDefault(app string) (*Pool, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return Open(filepath.Join(base, app))
}

// Dir returns the pool's root directory.
func (p *Pool) Dir() string {
	if p == nil {
		return ""
	}
	return p.dir
}

func (p *Pool) pathFor(bits int) string {
	return filepath.Join(p.dir, "primes", strconv.Itoa(bits)+shelfExt)
}

// Put appends primes to the shelf for bits. Every value must be positive and
// exactly bits long; nothing is written otherwise.
func (p *Pool) Put(bits int, primes ...bignum.BigInt) error {
	if p == nil {
		return nil
	}
	if bits <= 0 {
		return fmt.Errorf("pool put: %w", bignum.ErrInvalidBits)
	}
	for _, v := range primes {
		if v.Sign() <= 0 || v.BitLen() != bits {
			return fmt.Errorf("pool put %s into %d-bit shelf: %w", v, bits, ErrBitLength)
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	s, err := p.load(bits)
	if err != nil {
		return err
	}
	s.Primes = append(s.Primes, primes...)
	return p.store(s)
}

// Take removes and returns up to n primes of the given bit length, oldest
// first. It returns fewer than n when the shelf runs short.
func (p *Pool) Take(bits, n int) ([]bignum.BigInt, error) {
	if p == nil || n <= 0 {
		return nil, nil
	}
	if bits <= 0 {
		return nil, fmt.Errorf("pool take: %w", bignum.ErrInvalidBits)
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	s, err := p.load(bits)
	if err != nil {
		return nil, err
	}
	n = min(n, len(s.Primes))
	if n == 0 {
		return nil, nil
	}
	out := slices.Clone(s.Primes[:n])
	s.Primes = s.Primes[n:]
	if err := p.store(s); err != nil {
		return nil, err
	}
	return out, nil
}

// Len reports how many primes of the given bit length are stored.
func (p *Pool) Len(bits int) (int, error) {
	if p == nil {
		return 0, nil
	}
	p.mu.RLock()
	defer p.mu.RUnlock()

	s, err := p.load(bits)
	if err != nil {
		return 0, err
	}
	return len(s.Primes), nil
}

// List returns a Stat for every non-empty shelf, ordered by bit length.
func (p *Pool) List() ([]Stat, error) {
	if p == nil {
		return nil, nil
	}
	p.mu.RLock()
	defer p.mu.RUnlock()

	entries, err := os.ReadDir(filepath.Join(p.dir, "primes"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var stats []Stat
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), shelfExt)
		if !ok || e.IsDir() {
			continue
		}
		bits, err := strconv.Atoi(name)
		if err != nil || bits <= 0 {
			continue
		}
		s, err := p.load(bits)
		if err != nil {
			return nil, err
		}
		if len(s.Primes) > 0 {
			stats = append(stats, Stat{Bits: bits, Count: len(s.Primes)})
		}
	}
	slices.SortFunc(stats, func(a, b Stat) int { return a.Bits - b.Bits })
	return stats, nil
}

// DropAll removes every shelf.
func (p *Pool) DropAll() error {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	// move aside, then delete
	old := p.dir + ".old-" + time.Now().Format("20060102150405.000000")
	if err := os.Rename(p.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(p.dir, 0o755)
}

// load reads a shelf; a missing file or a stale schema yields an empty shelf.
func (p *Pool) load(bits int) (*shelf, error) {
	empty := &shelf{Schema: schemaVersion, Bits: bits}
	path := p.pathFor(bits)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return empty, nil
		}
		return nil, err
	}
	defer f.Close()

	var s shelf
	if err := msgpack.NewDecoder(f).Decode(&s); err != nil {
		return nil, fmt.Errorf("pool %s: %w", path, err)
	}
	if s.Schema != schemaVersion || s.Bits != bits {
		return empty, nil
	}
	return &s, nil
}

// store writes a shelf through a temp file and an atomic rename.
func (p *Pool) store(s *shelf) (err error) {
	path := p.pathFor(s.Bits)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	s.Updated = time.Now().Unix()
	if err = msgpack.NewEncoder(f).Encode(s); err != nil {
		return fmt.Errorf("pool %s: %w", path, err)
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}
