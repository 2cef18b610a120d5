package embedded

import (
	"github.com/idena-network/indance-go/common"
	"github.com/idena-network/indance-go/common/math"
	"github.com/idena-network/indance-go/stats/collector"
	"github.com/idena-network/indance-go/vm/helpers"
	"math/big"
)

// firstEmptySlot scans the floor left to right and returns DancersPerFloor if it is full.
func firstEmptySlot(acc *accountLedger, floor uint32) int {
	for i := 0; i < DancersPerFloor; i++ {
		if acc.Dancer(floor, i).Level == 0 {
			return i
		}
	}
	return DancersPerFloor
}

func (d *InDance) buyFloor(args ...[]byte) ([]byte, error) {
	sender := d.ctx.Sender()
	acc := newAccountLedger(sender, d.env, d.ctx)
	count := acc.FloorCount()
	if count == ^uint32(0) {
		return nil, ErrOverflow
	}

	price := new(big.Int)
	if count == 0 {
		bonus := d.starterBonus()
		if bonus.Sign() > 0 {
			if err := d.token.Mint(sender, bonus); err != nil {
				return nil, err
			}
			collector.AddStarterBonus(d.statsCollector, sender, bonus)
		}
	} else {
		if firstEmptySlot(acc, count-1) != DancersPerFloor {
			return nil, ErrFloorNotFull
		}
		price = d.floorPrice()
		if err := d.token.Burn(sender, price); err != nil {
			return nil, err
		}
	}

	acc.SetFloorCount(count + 1)
	collector.AddFloorPurchase(d.statsCollector, sender, count, price)
	return nil, nil
}

func (d *InDance) buyDancer(args ...[]byte) ([]byte, error) {
	tierIndex, err := helpers.ExtractByte(0, args...)
	if err != nil {
		return nil, err
	}
	tier, err := d.tier(tierIndex)
	if err != nil {
		return nil, err
	}

	sender := d.ctx.Sender()
	acc := newAccountLedger(sender, d.env, d.ctx)
	count := acc.FloorCount()
	if count == 0 {
		return nil, ErrNoFloor
	}
	floor := count - 1
	slot := firstEmptySlot(acc, floor)
	if slot == DancersPerFloor {
		return nil, ErrFloorFull
	}

	price, err := math.SafeMul(tier.Price, common.CoinBase)
	if err != nil {
		return nil, ErrOverflow
	}
	baseRate, err := math.SafeAdd(acc.BaseRate(floor), tier.Rate)
	if err != nil {
		return nil, ErrOverflow
	}
	accrualRate, err := math.SafeAdd(acc.AccrualRate(), tier.Rate)
	if err != nil {
		return nil, ErrOverflow
	}

	if _, err := d.realize(sender, acc); err != nil {
		return nil, err
	}
	now, err := d.Now()
	if err != nil {
		return nil, err
	}
	acc.SetLastClaimedAt(now)

	if err := d.token.Burn(sender, price); err != nil {
		return nil, err
	}

	acc.SetDancer(floor, slot, Dancer{Level: tierIndex, Params: now})
	acc.SetBaseRate(floor, baseRate)
	acc.SetAccrualRate(accrualRate)
	collector.AddDancerPurchase(d.statsCollector, sender, tierIndex, price, tier.Rate)
	return nil, nil
}
