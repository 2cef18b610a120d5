package embedded

import (
	"github.com/idena-network/indance-go/common/math"
	"github.com/idena-network/indance-go/stats/collector"
	"github.com/idena-network/indance-go/vm/env"
	"github.com/idena-network/indance-go/vm/helpers"
	"github.com/pkg/errors"
	"math/big"
)

const (
	MaxTiers = 255

	tokenModeKey    = "tokenMode"
	floorPriceKey   = "floorPrice"
	starterBonusKey = "starterBonus"
	tierCountKey    = "tierCount"
	tierRatePrefix  = "tr"
	tierPricePrefix = "tp"
)

// InDance is the dance floor progression and accrual ledger.
//
// Deploy args: token mode, floor price (base units), starter bonus (base units), followed by
// a (rate, price) pair per tier. Rates are base units per second, prices are whole coins.
type InDance struct {
	*BaseContract
	token Token
}

func NewInDance(ctx env.CallContext, e env.Env, statsCollector collector.StatsCollector) *InDance {
	d := &InDance{
		BaseContract: &BaseContract{
			ctx:            ctx,
			env:            e,
			statsCollector: statsCollector,
		},
	}
	d.token = newToken(d.GetByte(tokenModeKey), ctx, e)
	return d
}

func (d *InDance) Deploy(args ...[]byte) error {
	mode, err := helpers.ExtractByte(0, args...)
	if err != nil {
		return errors.Wrap(ErrInvalidConfig, "token mode")
	}
	if mode != MintToken && mode != TreasuryToken {
		return errors.Wrapf(ErrInvalidConfig, "unknown token mode %d", mode)
	}
	floorPrice, err := helpers.ExtractBigInt(1, args...)
	if err != nil {
		return errors.Wrap(ErrInvalidConfig, "floor price")
	}
	starterBonus, err := helpers.ExtractBigInt(2, args...)
	if err != nil {
		return errors.Wrap(ErrInvalidConfig, "starter bonus")
	}
	if !math.FitsU256(floorPrice) || !math.FitsU256(starterBonus) {
		return ErrOverflow
	}
	tierArgs := args[3:]
	if len(tierArgs) == 0 || len(tierArgs)%2 != 0 || len(tierArgs)/2 > MaxTiers {
		return errors.Wrapf(ErrInvalidConfig, "tier table must have 1..%d (rate, price) pairs", MaxTiers)
	}

	var tiers []*Tier
	for i := 0; i < len(tierArgs); i += 2 {
		rate, _ := helpers.ExtractBigInt(i, tierArgs...)
		price, _ := helpers.ExtractBigInt(i+1, tierArgs...)
		if rate.Sign() == 0 || price.Sign() == 0 {
			return errors.Wrapf(ErrInvalidConfig, "tier %d must have positive rate and price", i/2+1)
		}
		if !math.FitsU256(rate) || !math.FitsU256(price) {
			return ErrOverflow
		}
		tiers = append(tiers, &Tier{Rate: rate, Price: price})
	}

	d.SetByte(tokenModeKey, mode)
	d.SetBigInt(floorPriceKey, floorPrice)
	d.SetBigInt(starterBonusKey, starterBonus)
	d.SetByte(tierCountKey, byte(len(tiers)))
	for i, t := range tiers {
		d.SetBigInt(tierKey(tierRatePrefix, byte(i+1)), t.Rate)
		d.SetBigInt(tierKey(tierPricePrefix, byte(i+1)), t.Price)
	}
	d.token = newToken(mode, d.ctx, d.env)
	d.BaseContract.Deploy(InDanceContract)
	return nil
}

func (d *InDance) Call(method string, args ...[]byte) ([]byte, error) {
	switch method {
	case "claim":
		return d.claim(args...)
	case "buyFloor":
		return d.buyFloor(args...)
	case "buyDancer":
		return d.buyDancer(args...)
	default:
		return nil, ErrUnknownMethod
	}
}

func (d *InDance) Read(method string, args ...[]byte) ([]byte, error) {
	switch method {
	case "getDanceFloor":
		return d.getDanceFloor(args...)
	case "getClaimable":
		return d.getClaimable(args...)
	case "getAccount":
		return d.getAccount(args...)
	case "getTiers":
		return TiersToBytes(d.tiers()), nil
	case "getParams":
		return (&GameParams{
			TokenMode:    d.GetByte(tokenModeKey),
			FloorPrice:   d.floorPrice(),
			StarterBonus: d.starterBonus(),
		}).ToBytes(), nil
	default:
		return nil, ErrUnknownMethod
	}
}

func (d *InDance) getDanceFloor(args ...[]byte) ([]byte, error) {
	addr, err := helpers.ExtractAddr(0, args...)
	if err != nil {
		return nil, err
	}
	index, err := helpers.ExtractUInt32(1, args...)
	if err != nil {
		return nil, err
	}
	floor, err := newAccountLedger(addr, d.env, d.ctx).Floor(index)
	if err != nil {
		return nil, err
	}
	return floor.ToBytes(), nil
}

// getClaimable never fails on accrual errors, it reports zero instead.
func (d *InDance) getClaimable(args ...[]byte) ([]byte, error) {
	addr, err := helpers.ExtractAddr(0, args...)
	if err != nil {
		return nil, err
	}
	amount, _, err := d.peekClaimable(newAccountLedger(addr, d.env, d.ctx))
	if err != nil {
		return nil, nil
	}
	return amount.Bytes(), nil
}

func (d *InDance) getAccount(args ...[]byte) ([]byte, error) {
	addr, err := helpers.ExtractAddr(0, args...)
	if err != nil {
		return nil, err
	}
	acc := newAccountLedger(addr, d.env, d.ctx)
	if !acc.Exists() {
		return nil, ErrNotFound
	}
	return acc.State().ToBytes(), nil
}

func tierKey(prefix string, tier byte) string {
	return prefix + string([]byte{tier})
}

func (d *InDance) floorPrice() *big.Int {
	if v := d.GetBigInt(floorPriceKey); v != nil {
		return v
	}
	return new(big.Int)
}

func (d *InDance) starterBonus() *big.Int {
	if v := d.GetBigInt(starterBonusKey); v != nil {
		return v
	}
	return new(big.Int)
}

func (d *InDance) tier(index byte) (*Tier, error) {
	if index == 0 || index > d.GetByte(tierCountKey) {
		return nil, ErrInvalidTier
	}
	return &Tier{
		Rate:  d.GetBigInt(tierKey(tierRatePrefix, index)),
		Price: d.GetBigInt(tierKey(tierPricePrefix, index)),
	}, nil
}

func (d *InDance) tiers() []*Tier {
	count := d.GetByte(tierCountKey)
	tiers := make([]*Tier, 0, count)
	for i := byte(1); i <= count && i != 0; i++ {
		t, _ := d.tier(i)
		tiers = append(tiers, t)
	}
	return tiers
}
