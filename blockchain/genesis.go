package blockchain

import (
	"github.com/idena-network/indance-go/blockchain/types"
	"github.com/idena-network/indance-go/common"
	"github.com/idena-network/indance-go/common/math"
	"github.com/idena-network/indance-go/config"
	"github.com/idena-network/indance-go/vm/embedded"
	"github.com/shopspring/decimal"
	"math/big"
)

func coinsToBase(amount decimal.Decimal) *big.Int {
	return math.CoinsToBase(amount)
}

// contractDeployArgs encodes the game config the way the contract expects it:
// token mode, floor price, starter bonus and a (rate, price) pair per tier.
func contractDeployArgs(cfg *config.GameConfig) [][]byte {
	mode := embedded.MintToken
	if cfg.TokenMode == config.TreasuryTokenMode {
		mode = embedded.TreasuryToken
	}
	args := [][]byte{
		{mode},
		coinsToBase(cfg.FloorPrice).Bytes(),
		coinsToBase(cfg.StarterBonus).Bytes(),
	}
	for _, tier := range cfg.Tiers {
		price := tier.Price
		args = append(args, coinsToBase(tier.Rate).Bytes(), math.ToInt(&price).Bytes())
	}
	return args
}

func deployContractTx(contractAddr common.Address, cfg *config.GameConfig) *types.Transaction {
	to := contractAddr
	return &types.Transaction{
		Type:     types.DeployContract,
		To:       &to,
		CodeHash: embedded.InDanceContract,
		Args:     contractDeployArgs(cfg),
	}
}
