package primegen

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"rsanum/internal/bignum"
	"rsanum/internal/primepool"
	"rsanum/internal/trace"
)

// ErrInvalidExponent indicates a public exponent filter that no odd prime can
// satisfy.
var ErrInvalidExponent = errors.New("public exponent must be odd and greater than 1")

// progressEvery is how many attempts pass between StatusWorking updates.
const progressEvery = 16

// Request describes a batch of independent prime searches.
type Request struct {
	Bits  int
	Count int // primes wanted; <= 0 means 1
	Jobs  int // concurrent searches; <= 0 means GOMAXPROCS

	// MaxAttempts bounds the candidates drawn per prime; 0 is unbounded.
	MaxAttempts int
	// Rounds is the Miller-Rabin round count; 0 means bignum.DefaultPrimeRounds.
	Rounds int

	// Exponent, when non-zero, restricts results to primes p with
	// gcd(p-1, Exponent) = 1, so that Exponent is a usable RSA public exponent.
	Exponent bignum.BigInt

	Source   SourceFactory   // nil means Crypto
	Progress ProgressSink    // optional
	Pool     *primepool.Pool // optional; drained before any search starts
}

// Result holds the primes of a batch in slot order.
type Result struct {
	Primes   []bignum.BigInt
	Attempts []int // candidates drawn per slot; 0 for pooled primes
	Pooled   int   // how many slots the pool filled
}

// TotalAttempts sums Attempts.
func (r *Result) TotalAttempts() int {
	total := 0
	for _, a := range r.Attempts {
		total += a
	}
	return total
}

func (r Request) normalized() (Request, error) {
	if r.Bits <= 0 {
		return r, fmt.Errorf("primegen: %w", bignum.ErrInvalidBits)
	}
	if r.Count <= 0 {
		r.Count = 1
	}
	if r.Jobs <= 0 {
		r.Jobs = runtime.GOMAXPROCS(0)
	}
	if r.Rounds <= 0 {
		r.Rounds = bignum.DefaultPrimeRounds
	}
	if r.Source == nil {
		r.Source = Crypto
	}
	if !r.Exponent.IsZero() && (r.Exponent.Sign() < 0 || r.Exponent.IsEven() || r.Exponent.Equals(bignum.One())) {
		return r, fmt.Errorf("primegen: exponent %s: %w", r.Exponent, ErrInvalidExponent)
	}
	return r, nil
}

// accepts applies the exponent filter.
func (r Request) accepts(p bignum.BigInt) bool {
	if r.Exponent.IsZero() {
		return true
	}
	return bignum.GCD(p.Dec(1), r.Exponent).Magnitude().IsOne()
}

func (r Request) emit(evt Event) {
	if r.Progress != nil {
		evt.Bits = r.Bits
		r.Progress.OnEvent(evt)
	}
}

// Generate fills req.Count slots with primes of exactly req.Bits bits. Pooled
// primes are used first; the remaining slots are searched concurrently, at
// most req.Jobs at a time. The first failing job cancels the others.
func Generate(ctx context.Context, req Request) (*Result, error) {
	req, err := req.normalized()
	if err != nil {
		return nil, err
	}

	tr := trace.FromContext(ctx)
	span := trace.Begin(tr, trace.ScopeCommand, "primegen", trace.ParentFrom(ctx)).
		WithExtra("bits", strconv.Itoa(req.Bits)).
		WithExtra("count", strconv.Itoa(req.Count)).
		WithExtra("jobs", strconv.Itoa(req.Jobs))

	res := &Result{
		Primes:   make([]bignum.BigInt, req.Count),
		Attempts: make([]int, req.Count),
	}

	slot, err := req.fillFromPool(res)
	if err != nil {
		trace.Fail(tr, trace.ScopeCommand, "primegen", err, span.ID())
		span.End("pool error")
		return nil, err
	}
	res.Pooled = slot

	for job := slot; job < req.Count; job++ {
		req.emit(Event{Job: job, Status: StatusQueued})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(req.Jobs, max(req.Count-slot, 1)))
	for job := slot; job < req.Count; job++ {
		g.Go(func() error {
			p, attempts, err := req.runJob(gctx, job, span.ID())
			res.Attempts[job] = attempts
			if err != nil {
				return err
			}
			res.Primes[job] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if rerr := req.restore(res); rerr != nil {
			err = errors.Join(err, rerr)
		}
		trace.Fail(tr, trace.ScopeCommand, "primegen", err, span.ID())
		span.End("failed")
		return nil, err
	}

	span.WithExtra("attempts", strconv.Itoa(res.TotalAttempts())).
		WithExtra("pooled", strconv.Itoa(res.Pooled)).
		End("")
	return res, nil
}

// fillFromPool takes up to Count primes from the pool into the leading slots
// and returns the next free slot. Primes rejected by the exponent filter go
// back to the pool.
func (r Request) fillFromPool(res *Result) (int, error) {
	if r.Pool == nil {
		return 0, nil
	}
	taken, err := r.Pool.Take(r.Bits, r.Count)
	if err != nil {
		return 0, err
	}
	slot := 0
	var rejected []bignum.BigInt
	for _, p := range taken {
		if !r.accepts(p) {
			rejected = append(rejected, p)
			continue
		}
		res.Primes[slot] = p
		r.emit(Event{Job: slot, Status: StatusDone, Pooled: true, Prime: p})
		slot++
	}
	if len(rejected) > 0 {
		if err := r.Pool.Put(r.Bits, rejected...); err != nil {
			return 0, err
		}
	}
	return slot, nil
}

// restore returns the primes of a failed batch to the pool: those taken from
// it and those found by jobs that finished before the failure.
func (r Request) restore(res *Result) error {
	if r.Pool == nil {
		return nil
	}
	var found []bignum.BigInt
	for _, p := range res.Primes {
		if !p.IsZero() {
			found = append(found, p)
		}
	}
	if len(found) == 0 {
		return nil
	}
	if err := r.Pool.Put(r.Bits, found...); err != nil {
		return fmt.Errorf("primegen: returning %d primes to the pool: %w", len(found), err)
	}
	return nil
}

// runJob searches for one prime that passes the exponent filter.
func (r Request) runJob(ctx context.Context, job int, parent uint64) (bignum.BigInt, int, error) {
	tr := trace.FromContext(ctx)
	span := trace.Begin(tr, trace.ScopeJob, "job:"+strconv.Itoa(job), parent)
	started := time.Now()

	fail := func(attempts int, err error) (bignum.BigInt, int, error) {
		status := StatusError
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			status = StatusCanceled
		}
		trace.Fail(tr, trace.ScopeJob, "job:"+strconv.Itoa(job), err, span.ID())
		span.WithExtra("attempts", strconv.Itoa(attempts)).End(string(status))
		r.emit(Event{Job: job, Status: status, Attempts: attempts, Err: err, Elapsed: time.Since(started)})
		return bignum.BigInt{}, attempts, err
	}

	src, err := r.Source(job)
	if err != nil {
		return fail(0, err)
	}
	r.emit(Event{Job: job, Status: StatusWorking})

	total := 0
	search := bignum.PrimeSearch{
		Rounds: r.Rounds,
		Observe: func(attempt int) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			n := total + attempt
			if tr.Level() >= trace.LevelDebug {
				trace.Point(tr, trace.ScopeAttempt, "candidate", "#"+strconv.Itoa(n), span.ID())
			}
			if n%progressEvery == 0 {
				r.emit(Event{Job: job, Status: StatusWorking, Attempts: n, Elapsed: time.Since(started)})
			}
			return nil
		},
	}
	for {
		if r.MaxAttempts > 0 {
			search.MaxAttempts = r.MaxAttempts - total
			if search.MaxAttempts <= 0 {
				return fail(total, fmt.Errorf("job %d: %d-bit prime after %d attempts: %w",
					job, r.Bits, total, bignum.ErrSearchExhausted))
			}
		}
		p, n, err := search.Find(src, r.Bits)
		total += n
		if err != nil {
			return fail(total, fmt.Errorf("job %d: %w", job, err))
		}
		if r.accepts(p) {
			span.WithExtra("attempts", strconv.Itoa(total)).End("")
			r.emit(Event{Job: job, Status: StatusDone, Attempts: total, Prime: p, Elapsed: time.Since(started)})
			return p, total, nil
		}
	}
}
