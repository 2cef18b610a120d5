package config

import (
	"github.com/hashicorp/go-multierror"
	"github.com/idena-network/indance-go/common/math"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type TokenMode string

const (
	// MintTokenMode mints rewards and burns purchase prices on the native ledger.
	MintTokenMode TokenMode = "mint"
	// TreasuryTokenMode pays rewards out of the contract balance and collects prices into it.
	TreasuryTokenMode TokenMode = "treasury"
)

// MaxTiers bounds the tier table so a tier index always fits into one byte.
const MaxTiers = 255

type GameConfig struct {
	TokenMode TokenMode
	// FloorPrice is charged in coins for every floor after the first one.
	FloorPrice decimal.Decimal
	// StarterBonus is minted in coins with the first, free floor.
	StarterBonus decimal.Decimal
	// Tiers are indexed from 1: Tiers[0] describes the level 1 dancer.
	Tiers []*TierConfig
}

type TierConfig struct {
	// Rate is the reward per second, in coins, contributed by one dancer of the tier.
	Rate decimal.Decimal
	// Price is a whole number of coins.
	Price decimal.Decimal
}

func GetDefaultGameConfig() *GameConfig {
	return &GameConfig{
		TokenMode:    DefaultTokenMode,
		FloorPrice:   decimal.New(50, 0),
		StarterBonus: decimal.New(20, 0),
		Tiers: []*TierConfig{
			{Rate: decimal.New(1, -3), Price: decimal.New(10, 0)},
			{Rate: decimal.New(25, -4), Price: decimal.New(20, 0)},
			{Rate: decimal.New(6, -3), Price: decimal.New(40, 0)},
			{Rate: decimal.New(15, -3), Price: decimal.New(80, 0)},
			{Rate: decimal.New(4, -2), Price: decimal.New(160, 0)},
		},
	}
}

// Validate reports every problem of the game config at once.
func (c *GameConfig) Validate() error {
	var result *multierror.Error
	switch c.TokenMode {
	case MintTokenMode, TreasuryTokenMode:
	default:
		result = multierror.Append(result, errors.Errorf("unknown token mode %q", c.TokenMode))
	}
	if !c.FloorPrice.IsPositive() {
		result = multierror.Append(result, errors.New("floor price must be positive"))
	}
	if c.StarterBonus.IsNegative() {
		result = multierror.Append(result, errors.New("starter bonus must be non-negative"))
	}
	if len(c.Tiers) == 0 {
		result = multierror.Append(result, errors.New("tier table is empty"))
	}
	if len(c.Tiers) > MaxTiers {
		result = multierror.Append(result, errors.Errorf("tier table exceeds %d entries", MaxTiers))
	}
	for i, tier := range c.Tiers {
		if tier == nil {
			result = multierror.Append(result, errors.Errorf("tier %d is not defined", i+1))
			continue
		}
		if !tier.Rate.IsPositive() {
			result = multierror.Append(result, errors.Errorf("tier %d: rate must be positive", i+1))
		} else if math.CoinsToBase(tier.Rate).Sign() == 0 {
			result = multierror.Append(result, errors.Errorf("tier %d: rate %v is below one base unit per second", i+1, tier.Rate))
		}
		if !tier.Price.IsPositive() || !tier.Price.Equal(tier.Price.Truncate(0)) {
			result = multierror.Append(result, errors.Errorf("tier %d: price must be a positive whole number of coins", i+1))
		}
	}
	return result.ErrorOrNil()
}
