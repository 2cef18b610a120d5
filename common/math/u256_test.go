package math

import (
	"github.com/stretchr/testify/require"
	"math/big"
	"testing"
)

func TestSafeAdd(t *testing.T) {
	r, err := SafeAdd(big.NewInt(2), big.NewInt(3))
	require.NoError(t, err)
	require.Equal(t, int64(5), r.Int64())

	r, err = SafeAdd(MaxU256, big.NewInt(0))
	require.NoError(t, err)
	require.Equal(t, 0, r.Cmp(MaxU256))

	_, err = SafeAdd(MaxU256, big.NewInt(1))
	require.Equal(t, ErrOverflow, err)

	r, err = SafeAdd(nil, big.NewInt(7))
	require.NoError(t, err)
	require.Equal(t, int64(7), r.Int64())
}

func TestSafeSub(t *testing.T) {
	r, err := SafeSub(big.NewInt(5), big.NewInt(3))
	require.NoError(t, err)
	require.Equal(t, int64(2), r.Int64())

	_, err = SafeSub(big.NewInt(3), big.NewInt(5))
	require.Equal(t, ErrUnderflow, err)
}

func TestSafeMul(t *testing.T) {
	r, err := SafeMul(big.NewInt(100), big.NewInt(5))
	require.NoError(t, err)
	require.Equal(t, int64(500), r.Int64())

	half := new(big.Int).Lsh(big.NewInt(1), 128)
	_, err = SafeMul(half, half)
	require.Equal(t, ErrOverflow, err)

	_, err = SafeMul(big.NewInt(-1), big.NewInt(1))
	require.Equal(t, ErrNegative, err)

	tooWide := new(big.Int).Add(MaxU256, big.NewInt(1))
	_, err = SafeMul(tooWide, big.NewInt(1))
	require.Equal(t, ErrOverflow, err)
	require.False(t, FitsU256(tooWide))
	require.True(t, FitsU256(MaxU256))
}
