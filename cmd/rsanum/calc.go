package main

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"rsanum/internal/bignum"
)

// calcOp is one `rsanum calc` operation over parsed operands.
type calcOp struct {
	operands []string
	help     string
	run      func(v []bignum.BigInt) ([]calcResult, error)
}

// calcResult is a named output; plain results are printed as integers
// without base formatting (cmp).
type calcResult struct {
	name  string
	value bignum.BigInt
	plain bool
}

func single(v bignum.BigInt, err error) ([]calcResult, error) {
	if err != nil {
		return nil, err
	}
	return []calcResult{{name: "result", value: v}}, nil
}

var calcOps = map[string]calcOp{
	"add": {[]string{"a", "b"}, "a + b", func(v []bignum.BigInt) ([]calcResult, error) {
		return single(v[0].Add(v[1]), nil)
	}},
	"sub": {[]string{"a", "b"}, "a - b", func(v []bignum.BigInt) ([]calcResult, error) {
		return single(v[0].Sub(v[1]), nil)
	}},
	"mul": {[]string{"a", "b"}, "a * b", func(v []bignum.BigInt) ([]calcResult, error) {
		return single(v[0].Mul(v[1]), nil)
	}},
	"div": {[]string{"a", "b"}, "floor(a / b) and the remainder", func(v []bignum.BigInt) ([]calcResult, error) {
		q, r, err := v[0].DivMod(v[1])
		if err != nil {
			return nil, err
		}
		return []calcResult{{name: "quotient", value: q}, {name: "remainder", value: r}}, nil
	}},
	"mod": {[]string{"a", "b"}, "a mod b, sign of b", func(v []bignum.BigInt) ([]calcResult, error) {
		return single(v[0].Mod(v[1]))
	}},
	"mulmod": {[]string{"a", "b", "m"}, "a * b mod m", func(v []bignum.BigInt) ([]calcResult, error) {
		return single(v[0].MulMod(v[1], v[2]))
	}},
	"pow": {[]string{"a", "e"}, "a ^ e", func(v []bignum.BigInt) ([]calcResult, error) {
		e, err := smallArg("e", v[1])
		if err != nil {
			return nil, err
		}
		return single(v[0].Pow(e))
	}},
	"powmod": {[]string{"a", "e", "m"}, "a ^ e mod m", func(v []bignum.BigInt) ([]calcResult, error) {
		return single(v[0].PowMod(v[1], v[2]))
	}},
	"invmod": {[]string{"a", "m"}, "a ^ -1 mod m", func(v []bignum.BigInt) ([]calcResult, error) {
		return single(v[0].InvMod(v[1]))
	}},
	"root": {[]string{"a", "n"}, "integer n-th root and the remainder", func(v []bignum.BigInt) ([]calcResult, error) {
		n, err := smallArg("n", v[1])
		if err != nil {
			return nil, err
		}
		root, rem, err := v[0].RootRem(n)
		if err != nil {
			return nil, err
		}
		return []calcResult{{name: "root", value: root}, {name: "remainder", value: rem}}, nil
	}},
	"gcd": {[]string{"a", "b"}, "greatest common divisor", func(v []bignum.BigInt) ([]calcResult, error) {
		return single(bignum.GCD(v[0], v[1]), nil)
	}},
	"cmp": {[]string{"a", "b"}, "-1, 0 or 1", func(v []bignum.BigInt) ([]calcResult, error) {
		return []calcResult{{name: "result", value: bignum.FromInt64(int64(v[0].Cmp(v[1]))), plain: true}}, nil
	}},
}

func calcUsage() string {
	names := make([]string, 0, len(calcOps))
	for name := range calcOps {
		names = append(names, name)
	}
	slices.Sort(names)
	var sb strings.Builder
	sb.WriteString("Operations:\n")
	for _, name := range names {
		op := calcOps[name]
		fmt.Fprintf(&sb, "  %-7s %-10s %s\n", name, strings.Join(op.operands, " "), op.help)
	}
	return sb.String()
}

func newCalcCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "calc <op> <operand>...",
		Short: "Evaluate one arithmetic operation",
		Long: "Evaluate one arithmetic operation. Operands are decimal or 0x/0b/0o prefixed;\n" +
			"put -- before the operation when an operand is negative.\n\n" +
			calcUsage(),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sessionOf(cmd)
			name := strings.ToLower(args[0])
			op, ok := calcOps[name]
			if !ok {
				return fmt.Errorf("unknown operation %q (see rsanum calc --help)", args[0])
			}
			if len(args)-1 != len(op.operands) {
				return fmt.Errorf("%s takes %d operands (%s), got %d",
					name, len(op.operands), strings.Join(op.operands, " "), len(args)-1)
			}

			var operands []bignum.BigInt
			if err := s.step("parse", func() (err error) {
				operands, err = parseNumbers(op.operands, args[1:])
				return err
			}); err != nil {
				return err
			}

			var results []calcResult
			if err := s.step(name, func() (err error) {
				results, err = op.run(operands)
				return err
			}); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}

			fields := make([]field, len(results))
			for i, r := range results {
				text := formatNumber(r.value, s.base)
				if r.plain {
					n, _ := r.value.Int64()
					text = strconv.FormatInt(n, 10)
				}
				fields[i] = field{name: r.name, value: text}
			}
			printFields(cmd.OutOrStdout(), fields)
			return nil
		},
	}
}
