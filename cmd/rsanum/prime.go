package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rsanum/internal/bignum"
	"rsanum/internal/primegen"
	"rsanum/internal/primepool"
)

type primeFlags struct {
	bits        int
	count       int
	jobs        int
	maxAttempts int
	rounds      int
	exponent    string
	seed        uint64
	pool        bool
	poolDir     string
	ui          string
}

func (f *primeFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.IntVar(&f.bits, "bits", 0, "prime size in bits (default from config)")
	fs.IntVar(&f.count, "count", 1, "number of primes")
	fs.IntVar(&f.jobs, "jobs", 0, "concurrent searches (0 = GOMAXPROCS)")
	fs.IntVar(&f.maxAttempts, "max-attempts", 0, "candidates per prime before giving up (0 = unbounded)")
	fs.IntVar(&f.rounds, "rounds", bignum.DefaultPrimeRounds, "Miller-Rabin rounds")
	fs.StringVar(&f.exponent, "exponent", "", "only accept p with gcd(p-1, e) = 1, e.g. 65537")
	fs.Uint64Var(&f.seed, "seed", 0, "deterministic seed (testing only, never for keys)")
}

// request merges flags over the config: a flag wins only when given.
func (f *primeFlags) request(cmd *cobra.Command, s *session) (primegen.Request, error) {
	fs := cmd.Flags()
	pc := s.cfg.Prime
	req := primegen.Request{
		Bits:        pick(fs.Changed("bits"), f.bits, pc.Bits),
		Count:       pick(fs.Changed("count"), f.count, pc.Count),
		Jobs:        pick(fs.Changed("jobs"), f.jobs, pc.Jobs),
		MaxAttempts: pick(fs.Changed("max-attempts"), f.maxAttempts, pc.MaxAttempts),
		Rounds:      pick(fs.Changed("rounds"), f.rounds, pc.Rounds),
		Exponent:    pc.Exponent,
	}
	if req.Count < 0 || req.Jobs < 0 || req.MaxAttempts < 0 || req.Rounds < 0 {
		return req, fmt.Errorf("--count, --jobs, --max-attempts and --rounds must not be negative")
	}
	if fs.Changed("exponent") {
		e, err := parseNumber("exponent", f.exponent)
		if err != nil {
			return req, err
		}
		req.Exponent = e
	}
	if fs.Changed("seed") {
		req.Source = primegen.Seeded(f.seed)
	}
	return req, nil
}

func pick[T any](changed bool, flag, cfg T) T {
	if changed {
		return flag
	}
	return cfg
}

// openPool opens the directory from --pool-dir, [pool].dir or the user cache.
func openPool(dir string, s *session) (*primepool.Pool, error) {
	if dir == "" {
		dir = s.cfg.Pool.Dir
	}
	if dir == "" {
		return primepool.OpenDefault("rsanum")
	}
	return primepool.Open(dir)
}

func newPrimeCmd() *cobra.Command {
	var f primeFlags
	cmd := &cobra.Command{
		Use:   "prime",
		Short: "Generate random primes of an exact bit length",
		Long: "Generate random primes of an exact bit length. Each prime is searched by its own\n" +
			"job with its own random stream; --pool takes precomputed primes first.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sessionOf(cmd)
			req, err := f.request(cmd, s)
			if err != nil {
				return err
			}
			if pick(cmd.Flags().Changed("pool"), f.pool, s.cfg.Pool.Enabled) {
				if req.Pool, err = openPool(f.poolDir, s); err != nil {
					return err
				}
			}
			mode, err := readUIMode(f.ui)
			if err != nil {
				return err
			}

			var res *primegen.Result
			err = s.step("prime", func() (err error) {
				if shouldUseTUI(mode, s.quiet) {
					title := fmt.Sprintf("%d-bit primes", req.Bits)
					res, err = runPrimeWithUI(cmd.Context(), cmd.OutOrStdout(), title, req)
					return err
				}
				res, err = primegen.Generate(cmd.Context(), req)
				return err
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, p := range res.Primes {
				fmt.Fprintln(out, formatNumber(p, s.base))
			}
			s.note(cmd.ErrOrStderr(), "%d primes, %d candidates, %d from pool",
				len(res.Primes), res.TotalAttempts(), res.Pooled)
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&f.pool, "pool", false, "take primes from the on-disk pool first")
	cmd.Flags().StringVar(&f.poolDir, "pool-dir", "", "prime pool directory (default from config or the user cache)")
	cmd.Flags().StringVar(&f.ui, "ui", "auto", "progress view (auto|on|off)")
	return cmd
}
