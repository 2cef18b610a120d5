package math

import (
	"github.com/idena-network/indance-go/common"
	"github.com/shopspring/decimal"
	"math/big"
)

func abs(n int64) int64 {
	y := n >> 63
	return (n ^ y) - y
}

// ToInt truncates value towards zero.
func ToInt(value *decimal.Decimal) *big.Int {

	m := value.Coefficient()
	exp := value.Exponent()

	if exp == 0 {
		return m
	}

	coef := big.NewInt(1)

	for i := int64(0); i < abs(int64(exp)); i++ {
		coef.Mul(coef, big.NewInt(10))
	}

	if exp < 0 {
		m.Quo(m, coef)
	} else {
		m.Mul(m, coef)
	}
	return m
}

// CoinsToBase converts a coin amount into base units, dropping precision below one base unit.
func CoinsToBase(amount decimal.Decimal) *big.Int {
	if amount == (decimal.Decimal{}) {
		return new(big.Int)
	}
	result := amount.Mul(decimal.NewFromBigInt(common.CoinBase, 0))
	return ToInt(&result)
}

func BaseToCoins(amount *big.Int) decimal.Decimal {
	if amount == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(amount, 0).Div(decimal.NewFromBigInt(common.CoinBase, 0))
}
