package main

import (
	"path/filepath"
	"strings"
	"testing"

	"rsanum/internal/bignum"
)

func parseLines(t *testing.T, out string) []bignum.BigInt {
	t.Helper()
	var vs []bignum.BigInt
	for _, line := range lines(out) {
		v, err := bignum.ParseInt(line)
		if err != nil {
			t.Fatalf("parse %q: %v", line, err)
		}
		vs = append(vs, v)
	}
	return vs
}

func TestPrimeCommand(t *testing.T) {
	out, errOut, code := runCLI(t, "", "prime", "--bits=40", "--count=3", "--jobs=2", "--seed=7", "--ui=off")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	primes := parseLines(t, out)
	if len(primes) != 3 {
		t.Fatalf("got %d primes, want 3", len(primes))
	}
	for _, p := range primes {
		if p.BitLen() != 40 || !p.IsPrime() {
			t.Errorf("%s is not a 40-bit prime", p)
		}
	}
	if !strings.Contains(errOut, "3 primes") {
		t.Errorf("summary missing: %q", errOut)
	}

	again, _, _ := runCLI(t, "", "prime", "--bits=40", "--count=3", "--jobs=2", "--seed=7", "--ui=off")
	if again != out {
		t.Errorf("seeded runs differ:\n%s\n%s", out, again)
	}
}

func TestPrimeUsesConfig(t *testing.T) {
	cfg := "[prime]\nbits = 24\ncount = 2\nexponent = \"3\"\n[output]\nformat = \"dec\"\n"
	out, errOut, code := runCLI(t, cfg, "--quiet", "prime", "--seed=11", "--ui=off")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if errOut != "" {
		t.Errorf("--quiet still wrote %q", errOut)
	}
	primes := parseLines(t, out)
	if len(primes) != 2 {
		t.Fatalf("got %d primes, want 2", len(primes))
	}
	three := bignum.FromInt64(3)
	for _, p := range primes {
		if p.BitLen() != 24 {
			t.Errorf("%s has %d bits", p.Text(10), p.BitLen())
		}
		if !bignum.GCD(p.Dec(1), three).Equals(bignum.One()) {
			t.Errorf("%s - 1 shares a factor with 3", p.Text(10))
		}
	}
}

func TestPrimeRejectsBadInput(t *testing.T) {
	cases := []struct {
		args []string
		want string
	}{
		{[]string{"prime", "--bits=0", "--ui=off"}, "bit length must be positive"},
		{[]string{"prime", "--bits=32", "--exponent=4", "--ui=off"}, "public exponent"},
		{[]string{"prime", "--bits=32", "--count=-1", "--ui=off"}, "must not be negative"},
		{[]string{"prime", "--bits=32", "--ui=maybe"}, "--ui"},
	}
	for _, tc := range cases {
		_, errOut, code := runCLI(t, "", tc.args...)
		if code != 1 || !strings.Contains(errOut, tc.want) {
			t.Errorf("%v: exit %d, stderr %q, want %q", tc.args, code, errOut, tc.want)
		}
	}
}

func TestPoolLifecycle(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "pool")
	poolDir := "--pool-dir=" + dir

	out, errOut, code := runCLI(t, "", "pool", "list", poolDir)
	if code != 0 || out != "" || !strings.Contains(errOut, "is empty") {
		t.Fatalf("empty list: exit %d, out %q, stderr %q", code, out, errOut)
	}

	out, errOut, code = runCLI(t, "", "pool", "fill", poolDir, "--bits=20", "--count=3", "--seed=1")
	if code != 0 {
		t.Fatalf("fill: exit %d: %s", code, errOut)
	}
	if out != "" || !strings.Contains(errOut, "stored 3 20-bit primes (3 available)") {
		t.Errorf("fill: stdout %q, stderr %q", out, errOut)
	}

	out, _, _ = runCLI(t, "", "pool", "list", poolDir)
	got := lines(out)
	if len(got) != 2 || got[0] != "bits  primes" || got[1] != "20    3" {
		t.Errorf("list output %q", got)
	}

	out, errOut, code = runCLI(t, "", "prime", "--pool", poolDir, "--bits=20", "--count=2", "--ui=off")
	if code != 0 {
		t.Fatalf("prime --pool: exit %d: %s", code, errOut)
	}
	if n := len(parseLines(t, out)); n != 2 {
		t.Errorf("got %d primes, want 2", n)
	}
	if !strings.Contains(errOut, "2 from pool") {
		t.Errorf("summary %q", errOut)
	}

	out, _, _ = runCLI(t, "", "pool", "list", poolDir)
	if got := lines(out); len(got) != 2 || got[1] != "20    1" {
		t.Errorf("list after take %q", got)
	}

	out, errOut, code = runCLI(t, "", "pool", "drop", poolDir)
	if code != 0 {
		t.Fatalf("drop: exit %d: %s", code, errOut)
	}
	if out != "" || !strings.Contains(errOut, "dropped") {
		t.Errorf("drop: stdout %q, stderr %q", out, errOut)
	}
	out, errOut, _ = runCLI(t, "", "pool", "list", poolDir)
	if out != "" || !strings.Contains(errOut, "is empty") {
		t.Errorf("list after drop: stdout %q, stderr %q", out, errOut)
	}
}

func TestPoolFromConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cfgpool")
	cfg := "[pool]\nenabled = true\ndir = \"" + filepath.ToSlash(dir) + "\"\n"
	if _, errOut, code := runCLI(t, cfg, "pool", "fill", "--bits=18", "--count=1", "--seed=2"); code != 0 {
		t.Fatalf("fill: exit %d: %s", code, errOut)
	}
	_, errOut, code := runCLI(t, cfg, "prime", "--bits=18", "--ui=off")
	if code != 0 {
		t.Fatalf("prime: exit %d: %s", code, errOut)
	}
	if !strings.Contains(errOut, "1 from pool") {
		t.Errorf("config pool not used: %q", errOut)
	}
	_, errOut, _ = runCLI(t, cfg, "prime", "--pool=false", "--bits=18", "--seed=3", "--ui=off")
	if !strings.Contains(errOut, "0 from pool") {
		t.Errorf("--pool=false must override config: %q", errOut)
	}
}

func TestRandomCommand(t *testing.T) {
	out, errOut, code := runCLI(t, "", "random", "--bits=64", "--seed=5")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	v := parseLines(t, out)
	if len(v) != 1 || v[0].Sign() < 0 || v[0].BitLen() != 64 {
		t.Fatalf("unexpected value %q", out)
	}
	again, _, _ := runCLI(t, "", "random", "--bits=64", "--seed=5")
	if again != out {
		t.Errorf("seeded random differs: %q vs %q", out, again)
	}
	if _, _, code := runCLI(t, "", "random", "--bits=128"); code != 0 {
		t.Errorf("crypto source: exit %d", code)
	}
	if _, errOut, code := runCLI(t, "", "random", "--bits=-1"); code != 1 || !strings.Contains(errOut, "bit length") {
		t.Errorf("negative bits: exit %d, stderr %q", code, errOut)
	}
}
