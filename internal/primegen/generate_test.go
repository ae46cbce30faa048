package primegen

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rsanum/internal/bignum"
	"rsanum/internal/primepool"
	"rsanum/internal/trace"
)

// zeroSource never yields a prime: every candidate is a power of two.
type zeroSource struct{}

func (zeroSource) ReadByte() (byte, error) { return 0, nil }

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) OnEvent(evt Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
}

func (r *recorder) byStatus(s Status) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, e := range r.events {
		if e.Status == s {
			out = append(out, e)
		}
	}
	return out
}

func TestGenerateSeeded(t *testing.T) {
	rec := &recorder{}
	res, err := Generate(context.Background(), Request{
		Bits:     64,
		Count:    4,
		Jobs:     2,
		Rounds:   20,
		Source:   Seeded(7),
		Progress: rec,
	})
	require.NoError(t, err)
	require.Len(t, res.Primes, 4)
	for i, p := range res.Primes {
		assert.Equal(t, 64, p.BitLen(), "slot %d", i)
		assert.True(t, p.IsPrime(), "slot %d", i)
		assert.GreaterOrEqual(t, res.Attempts[i], 1)
	}
	assert.Zero(t, res.Pooled)
	assert.Equal(t, res.Attempts[0]+res.Attempts[1]+res.Attempts[2]+res.Attempts[3], res.TotalAttempts())

	assert.Len(t, rec.byStatus(StatusQueued), 4)
	done := rec.byStatus(StatusDone)
	require.Len(t, done, 4)
	for _, e := range done {
		assert.Equal(t, 64, e.Bits)
		assert.True(t, e.Prime.Equals(res.Primes[e.Job]))
		assert.Equal(t, res.Attempts[e.Job], e.Attempts)
	}
}

func TestGenerateReproducible(t *testing.T) {
	req := Request{Bits: 48, Count: 3, Jobs: 3, Source: Seeded(42)}
	a, err := Generate(context.Background(), req)
	require.NoError(t, err)
	b, err := Generate(context.Background(), req)
	require.NoError(t, err)
	for i := range a.Primes {
		assert.True(t, a.Primes[i].Equals(b.Primes[i]), "slot %d", i)
	}
	assert.False(t, a.Primes[0].Equals(a.Primes[1]), "jobs must draw from distinct streams")
}

func TestGenerateExponentFilter(t *testing.T) {
	e := bignum.FromInt64(3)
	res, err := Generate(context.Background(), Request{
		Bits: 16, Count: 12, Jobs: 4, Exponent: e, Source: Seeded(1),
	})
	require.NoError(t, err)
	for _, p := range res.Primes {
		assert.True(t, bignum.GCD(p.Dec(1), e).Equals(bignum.One()), "gcd(%s-1, 3) != 1", p.Text(10))
	}
}

func TestGenerateRejectsRequest(t *testing.T) {
	_, err := Generate(context.Background(), Request{Bits: 0})
	assert.ErrorIs(t, err, bignum.ErrInvalidBits)

	for _, e := range []int64{4, 1, -3} {
		_, err = Generate(context.Background(), Request{Bits: 32, Exponent: bignum.FromInt64(e)})
		assert.ErrorIs(t, err, ErrInvalidExponent, "e=%d", e)
	}
}

func TestGenerateExhausted(t *testing.T) {
	rec := &recorder{}
	res, err := Generate(context.Background(), Request{
		Bits:        32,
		Count:       2,
		Jobs:        2,
		MaxAttempts: 10,
		Source:      func(int) (io.ByteReader, error) { return zeroSource{}, nil },
		Progress:    rec,
	})
	require.ErrorIs(t, err, bignum.ErrSearchExhausted)
	assert.Nil(t, res)
	assert.NotEmpty(t, rec.byStatus(StatusError))
}

func TestGenerateSourceError(t *testing.T) {
	boom := errors.New("no entropy")
	_, err := Generate(context.Background(), Request{
		Bits:   32,
		Source: func(int) (io.ByteReader, error) { return nil, boom },
	})
	assert.ErrorIs(t, err, boom)
}

func TestGenerateCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec := &recorder{}
	_, err := Generate(ctx, Request{
		Bits:     32,
		Count:    3,
		Source:   func(int) (io.ByteReader, error) { return zeroSource{}, nil },
		Progress: rec,
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.NotEmpty(t, rec.byStatus(StatusCanceled))
}

func TestGenerateUsesPool(t *testing.T) {
	pool, err := primepool.Open(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, pool.Put(17, bignum.FromInt64(65537), bignum.FromInt64(65543)))

	res, err := Generate(context.Background(), Request{
		Bits: 17, Count: 3, Source: Seeded(9), Pool: pool,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Pooled)
	assert.True(t, res.Primes[0].Equals(bignum.FromInt64(65537)))
	assert.True(t, res.Primes[1].Equals(bignum.FromInt64(65543)))
	assert.Zero(t, res.Attempts[0])
	assert.Equal(t, 17, res.Primes[2].BitLen())
	assert.True(t, res.Primes[2].IsPrime())

	n, err := pool.Len(17)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestGeneratePoolKeepsRejected(t *testing.T) {
	pool, err := primepool.Open(t.TempDir())
	require.NoError(t, err)
	// 65539 - 1 is divisible by 3.
	require.NoError(t, pool.Put(17, bignum.FromInt64(65539), bignum.FromInt64(65537)))

	res, err := Generate(context.Background(), Request{
		Bits: 17, Count: 2, Exponent: bignum.FromInt64(3), Pool: pool, Source: Seeded(5),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Pooled)
	assert.True(t, res.Primes[0].Equals(bignum.FromInt64(65537)))
	assert.Equal(t, 17, res.Primes[1].BitLen())

	left, err := pool.Take(17, 5)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.True(t, left[0].Equals(bignum.FromInt64(65539)))
}

func TestGenerateFailureRestoresPool(t *testing.T) {
	pool, err := primepool.Open(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, pool.Put(17, bignum.FromInt64(65537), bignum.FromInt64(65543)))

	res, err := Generate(context.Background(), Request{
		Bits:        17,
		Count:       3,
		MaxAttempts: 5,
		Pool:        pool,
		Source:      func(int) (io.ByteReader, error) { return zeroSource{}, nil },
	})
	require.ErrorIs(t, err, bignum.ErrSearchExhausted)
	assert.Nil(t, res)

	back, err := pool.Take(17, 5)
	require.NoError(t, err)
	require.Len(t, back, 2)
	assert.True(t, back[0].Equals(bignum.FromInt64(65537)))
	assert.True(t, back[1].Equals(bignum.FromInt64(65543)))
}

func TestGenerateCanceledRestoresPool(t *testing.T) {
	pool, err := primepool.Open(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, pool.Put(17, bignum.FromInt64(65537)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Generate(ctx, Request{
		Bits:   17,
		Count:  2,
		Pool:   pool,
		Source: func(int) (io.ByteReader, error) { return zeroSource{}, nil },
	})
	require.ErrorIs(t, err, context.Canceled)

	n, err := pool.Len(17)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestGenerateTraces(t *testing.T) {
	ring := trace.NewRingTracer(256, trace.LevelJob)
	ctx := trace.WithTracer(context.Background(), ring)
	_, err := Generate(ctx, Request{Bits: 32, Count: 2, Jobs: 1, Source: Seeded(3)})
	require.NoError(t, err)

	names := map[string]int{}
	for _, ev := range ring.Snapshot() {
		names[ev.Name+"/"+ev.Kind.String()]++
		assert.NotEqual(t, trace.ScopeAttempt, ev.Scope, "attempts are debug-only")
	}
	assert.Equal(t, 1, names["primegen/begin"])
	assert.Equal(t, 1, names["primegen/end"])
	assert.Equal(t, 1, names["job:0/end"])
	assert.Equal(t, 1, names["job:1/end"])
}

func TestSeededSourceDistinctJobs(t *testing.T) {
	a := SeededSource(1, 0)
	b := SeededSource(1, 1)
	c := SeededSource(1, 0)
	same, diff := 0, 0
	for range 32 {
		x, _ := a.ReadByte()
		y, _ := b.ReadByte()
		z, _ := c.ReadByte()
		if x == z {
			same++
		}
		if x != y {
			diff++
		}
	}
	assert.Equal(t, 32, same)
	assert.Positive(t, diff)

	_, err := Seeded(1)(-1)
	assert.Error(t, err)
}

func TestChannelSink(t *testing.T) {
	ch := make(chan Event, 1)
	ChannelSink{Ch: ch}.OnEvent(Event{Job: 3, Status: StatusDone})
	got := <-ch
	assert.Equal(t, 3, got.Job)
	ChannelSink{}.OnEvent(Event{})
}
