package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"rsanum/internal/bignum"
	"rsanum/internal/primegen"
)

func newRandomCmd() *cobra.Command {
	var (
		bits int
		seed uint64
	)
	cmd := &cobra.Command{
		Use:   "random",
		Short: "Draw a random integer of exactly --bits bits (top bit set)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sessionOf(cmd)
			if !cmd.Flags().Changed("bits") {
				bits = s.cfg.Prime.Bits
			}
			src := sourceFor(cmd, seed)

			var v bignum.BigInt
			if err := s.step("random", func() (err error) {
				v, err = bignum.Random(src, bits)
				return err
			}); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatNumber(v, s.base))
			return nil
		},
	}
	cmd.Flags().IntVar(&bits, "bits", 0, "exact bit length of the result (default from config)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "deterministic seed (testing only, never for keys)")
	return cmd
}

// sourceFor returns crypto/rand unless --seed was given.
func sourceFor(cmd *cobra.Command, seed uint64) io.ByteReader {
	if cmd.Flags().Changed("seed") {
		return primegen.SeededSource(seed, 0)
	}
	return primegen.CryptoSource()
}
