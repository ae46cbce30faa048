package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"rsanum/internal/primegen"
)

func newPoolCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "pool",
		Short: "Manage the on-disk pool of precomputed primes",
	}
	cmd.PersistentFlags().StringVar(&dir, "pool-dir", "", "prime pool directory (default from config or the user cache)")

	list := &cobra.Command{
		Use:   "list",
		Short: "Show stored primes per bit length",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sessionOf(cmd)
			pool, err := openPool(dir, s)
			if err != nil {
				return err
			}
			stats, err := pool.List()
			if err != nil {
				return err
			}
			if len(stats) == 0 {
				s.note(cmd.ErrOrStderr(), "pool %s is empty", pool.Dir())
				return nil
			}
			fields := make([]field, 0, len(stats)+1)
			fields = append(fields, field{name: "bits", value: "primes"})
			for _, st := range stats {
				fields = append(fields, field{name: strconv.Itoa(st.Bits), value: strconv.Itoa(st.Count)})
			}
			printFields(cmd.OutOrStdout(), fields)
			return nil
		},
	}

	var f primeFlags
	fill := &cobra.Command{
		Use:   "fill",
		Short: "Generate primes and store them in the pool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sessionOf(cmd)
			req, err := f.request(cmd, s)
			if err != nil {
				return err
			}
			pool, err := openPool(dir, s)
			if err != nil {
				return err
			}
			var res *primegen.Result
			if err := s.step("generate", func() (err error) {
				res, err = primegen.Generate(cmd.Context(), req)
				return err
			}); err != nil {
				return err
			}
			if err := s.step("store", func() error {
				return pool.Put(req.Bits, res.Primes...)
			}); err != nil {
				return err
			}
			n, err := pool.Len(req.Bits)
			if err != nil {
				return err
			}
			s.note(cmd.ErrOrStderr(), "stored %d %d-bit primes (%d available) in %s",
				len(res.Primes), req.Bits, n, pool.Dir())
			return nil
		},
	}
	f.register(fill)

	drop := &cobra.Command{
		Use:   "drop",
		Short: "Remove every stored prime",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sessionOf(cmd)
			pool, err := openPool(dir, s)
			if err != nil {
				return err
			}
			if err := pool.DropAll(); err != nil {
				return fmt.Errorf("drop pool %s: %w", pool.Dir(), err)
			}
			s.note(cmd.ErrOrStderr(), "dropped %s", pool.Dir())
			return nil
		},
	}

	cmd.AddCommand(list, fill, drop)
	return cmd
}
