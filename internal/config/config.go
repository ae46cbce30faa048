package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"rsanum/internal/bignum"
	"rsanum/internal/trace"
)

// FileName is the configuration file looked up by Find.
const FileName = "rsanum.toml"

// Config is the decoded rsanum.toml. Fields absent from the file keep the
// values of Default.
type Config struct {
	Path   string       `toml:"-"`
	Prime  PrimeConfig  `toml:"prime"`
	Output OutputConfig `toml:"output"`
	Pool   PoolConfig   `toml:"pool"`
	Trace  TraceConfig  `toml:"trace"`

	meta toml.MetaData
}

// PrimeConfig holds defaults for prime generation.
type PrimeConfig struct {
	Bits        int           `toml:"bits"`
	Count       int           `toml:"count"`
	Jobs        int           `toml:"jobs"`
	MaxAttempts int           `toml:"max_attempts"`
	Rounds      int           `toml:"rounds"`
	Exponent    bignum.BigInt `toml:"exponent"`
}

// OutputConfig controls how numbers are printed.
type OutputConfig struct {
	Format string `toml:"format"`
}

// PoolConfig controls the on-disk prime pool.
type PoolConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// TraceConfig mirrors the --trace flags.
type TraceConfig struct {
	Level  string `toml:"level"`
	Output string `toml:"output"`
	Mode   string `toml:"mode"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Prime: PrimeConfig{
			Bits:   1024,
			Count:  1,
			Rounds: bignum.DefaultPrimeRounds,
		},
		Output: OutputConfig{Format: "hex"},
		Trace: TraceConfig{
			Level:  "off",
			Output: "-",
			Mode:   "stream",
		},
	}
}

// IsSet reports whether the file explicitly set the key, e.g.
// IsSet("prime", "bits").
func (c Config) IsSet(key ...string) bool {
	return c.meta.IsDefined(key...)
}

// Find walks up from startDir looking for FileName.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// Discover finds and loads the configuration starting at startDir. Without a
// file it returns Default and false.
func Discover(startDir string) (Config, bool, error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return Default(), false, err
	}
	cfg, err := Load(path)
	if err != nil {
		return Config{}, true, err
	}
	return cfg, true, nil
}

// Load decodes path over Default and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path
	cfg.meta = meta
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	p := c.Prime
	if c.IsSet("prime", "bits") && p.Bits <= 0 {
		return fmt.Errorf("[prime].bits must be positive, got %d", p.Bits)
	}
	for _, f := range []struct {
		key string
		v   int
	}{
		{"count", p.Count},
		{"jobs", p.Jobs},
		{"max_attempts", p.MaxAttempts},
		{"rounds", p.Rounds},
	} {
		if f.v < 0 {
			return fmt.Errorf("[prime].%s must not be negative, got %d", f.key, f.v)
		}
	}
	if c.IsSet("prime", "exponent") && (p.Exponent.Cmp(bignum.One()) <= 0 || p.Exponent.IsEven()) {
		return fmt.Errorf("[prime].exponent must be an odd integer greater than 1, got %s", p.Exponent.Text(10))
	}
	switch c.Output.Format {
	case "hex", "dec":
	default:
		return fmt.Errorf("[output].format must be hex or dec, got %q", c.Output.Format)
	}
	if _, err := trace.ParseLevel(c.Trace.Level); err != nil {
		return fmt.Errorf("[trace].level: %w", err)
	}
	if _, err := trace.ParseMode(c.Trace.Mode); err != nil {
		return fmt.Errorf("[trace].mode: %w", err)
	}
	return nil
}
