package bignum

import (
	"math/big"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootRemTable(t *testing.T) {
	tests := []struct {
		x         int64
		n         uint64
		root, rem int64
	}{
		{0, 2, 0, 0},
		{1, 2, 1, 0},
		{15, 2, 3, 6},
		{16, 2, 4, 0},
		{17, 2, 4, 1},
		{27, 3, 3, 0},
		{30, 3, 3, 3},
		{-27, 3, -3, 0},
		{-30, 3, -3, -3},
		{-1, 5, -1, 0},
		{1 << 40, 4, 1 << 10, 0},
		{123456789, 1, 123456789, 0},
		{7, 100, 1, 6},
	}
	for _, tt := range tests {
		root, rem, err := FromInt64(tt.x).RootRem(tt.n)
		require.NoError(t, err)
		assert.Equal(t, tt.root, mustInt64(t, root), "root(%d, %d)", tt.x, tt.n)
		assert.Equal(t, tt.rem, mustInt64(t, rem), "rem(%d, %d)", tt.x, tt.n)
	}
}

func mustInt64(t *testing.T, x BigInt) int64 {
	t.Helper()
	v, ok := x.Int64()
	require.True(t, ok, "%s does not fit in int64", x)
	return v
}

func TestRootRemErrors(t *testing.T) {
	_, _, err := FromInt64(8).RootRem(0)
	assert.ErrorIs(t, err, ErrInvalidRoot)
	_, _, err = FromInt64(-16).RootRem(2)
	assert.ErrorIs(t, err, ErrInvalidRoot)
}

func TestSqrtAgainstMathBig(t *testing.T) {
	r := rand.New(rand.NewPCG(21, 22))
	for range 200 {
		x := randInt(r, 48).Abs()
		root, rem, err := x.RootRem(2)
		require.NoError(t, err)
		want := new(big.Int).Sqrt(toBig(x))
		assert.Equal(t, want.String(), toBig(root).String())
		assert.True(t, root.Mul(root).Add(rem).Equals(x))
	}
}

func TestRootIdentity(t *testing.T) {
	r := rand.New(rand.NewPCG(23, 24))
	for range 100 {
		x := randInt(r, 40)
		n := uint64(r.IntN(7)*2 + 1)
		root, rem, err := x.RootRem(n)
		require.NoError(t, err)
		p, err := root.Pow(n)
		require.NoError(t, err)
		assert.True(t, p.Add(rem).Equals(x), "root^n + rem != x")
		// |root+1|^n exceeds |x|.
		next, err := root.Abs().Inc(1).Pow(n)
		require.NoError(t, err)
		assert.Positive(t, next.Cmp(x.Abs()))
	}
}

func TestRootInPlace(t *testing.T) {
	x := FromInt64(1000)
	rem, err := x.Root(3)
	require.NoError(t, err)
	assert.Equal(t, "10", x.Text(10))
	assert.True(t, rem.IsZero())

	x = FromInt64(99)
	rem, err = x.Root(2)
	require.NoError(t, err)
	assert.Equal(t, "9", x.Text(10))
	assert.Equal(t, "18", rem.Text(10))

	x = FromInt64(-4)
	_, err = x.Root(2)
	assert.ErrorIs(t, err, ErrInvalidRoot)
	assert.Equal(t, "-4", x.Text(10), "receiver must be unchanged on error")
}
