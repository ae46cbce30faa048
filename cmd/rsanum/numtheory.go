package main

import (
	"cmp"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"rsanum/internal/bignum"
)

func newJacobiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "jacobi <x> <y>",
		Short: "Jacobi symbol (x/y) for odd positive y",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSymbol(cmd, args, []string{"x", "y"}, bignum.Jacobi)
		},
	}
}

func newLegendreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "legendre <x> <p>",
		Short: "Legendre symbol (x/p) for an odd prime p",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSymbol(cmd, args, []string{"x", "p"}, bignum.Legendre)
		},
	}
}

func runSymbol(cmd *cobra.Command, args, names []string, symbol func(x, y bignum.BigInt) (int, error)) error {
	s := sessionOf(cmd)
	v, err := parseNumbers(names, args)
	if err != nil {
		return err
	}
	var r int
	if err := s.step(cmd.Name(), func() (err error) {
		r, err = symbol(v[0], v[1])
		return err
	}); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), strconv.Itoa(r))
	return nil
}

func newIsPrimeCmd() *cobra.Command {
	var rounds int
	cmd := &cobra.Command{
		Use:   "isprime <x>",
		Short: "Probabilistic primality test (Miller-Rabin)",
		Long: "Tests x with trial division and Miller-Rabin. A composite passes with probability\n" +
			"at most 4^-rounds. Prints true or false; --quiet switches to the exit status.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sessionOf(cmd)
			x, err := parseNumber("x", args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("rounds") {
				rounds = cmp.Or(s.cfg.Prime.Rounds, bignum.DefaultPrimeRounds)
			}
			if rounds <= 0 {
				return fmt.Errorf("--rounds must be positive, got %d", rounds)
			}

			var prime bool
			_ = s.step("isprime", func() error {
				prime = x.ProbablyPrime(rounds)
				return nil
			})
			if s.quiet {
				if !prime {
					return &exitError{code: 1}
				}
				return nil
			}
			if prime {
				okColor.Fprintln(cmd.OutOrStdout(), "true")
			} else {
				warnColor.Fprintln(cmd.OutOrStdout(), "false")
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&rounds, "rounds", bignum.DefaultPrimeRounds, "Miller-Rabin rounds")
	return cmd
}
