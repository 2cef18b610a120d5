package math

import (
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"math/big"
	"testing"
)

func TestToInt(t *testing.T) {
	v := decimal.NewFromBigInt(big.NewInt(77777000000000000), -14)
	s := "777"
	require.Equal(t, s, ToInt(&v).String())

	v = decimal.NewFromBigInt(big.NewInt(100), -10)
	s = "0"
	require.Equal(t, s, ToInt(&v).String())

	v = decimal.NewFromBigInt(big.NewInt(123), 3)
	s = "123000"
	require.Equal(t, s, ToInt(&v).String())
}

func TestCoinsToBase(t *testing.T) {
	require.Equal(t, "10000000000000000000", CoinsToBase(decimal.New(10, 0)).String())
	require.Equal(t, "1500000000000000000", CoinsToBase(decimal.New(15, -1)).String())
	require.Equal(t, "0", CoinsToBase(decimal.Decimal{}).String())

	require.True(t, decimal.New(25, -1).Equal(BaseToCoins(big.NewInt(2500000000000000000))))
	require.True(t, decimal.Zero.Equal(BaseToCoins(nil)))
}
