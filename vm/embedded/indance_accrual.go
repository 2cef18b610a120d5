package embedded

import (
	"github.com/idena-network/indance-go/common"
	"github.com/idena-network/indance-go/common/math"
	"github.com/idena-network/indance-go/stats/collector"
	"math/big"
)

// peekClaimable computes the reward accrued since the last realization without touching state.
func (d *InDance) peekClaimable(acc *accountLedger) (amount *big.Int, now uint64, err error) {
	now, err = d.Now()
	if err != nil {
		return nil, 0, err
	}
	last := acc.LastClaimedAt()
	if last == 0 {
		return new(big.Int), now, nil
	}
	if now < last {
		return nil, 0, ErrInvalidTimestamp
	}
	amount, err = math.SafeMul(new(big.Int).SetUint64(now-last), acc.AccrualRate())
	if err != nil {
		return nil, 0, ErrOverflow
	}
	return amount, now, nil
}

// realize mints the pending reward of addr. The claim clock moves to now unless it has never started.
func (d *InDance) realize(addr common.Address, acc *accountLedger) (*big.Int, error) {
	amount, now, err := d.peekClaimable(acc)
	if err != nil {
		return nil, err
	}
	if acc.LastClaimedAt() == 0 {
		return amount, nil
	}
	acc.SetLastClaimedAt(now)
	if amount.Sign() > 0 {
		if err := d.token.Mint(addr, amount); err != nil {
			return nil, err
		}
		collector.AddClaim(d.statsCollector, addr, amount)
	}
	return amount, nil
}

func (d *InDance) claim(args ...[]byte) ([]byte, error) {
	sender := d.ctx.Sender()
	acc := newAccountLedger(sender, d.env, d.ctx)
	amount, err := d.realize(sender, acc)
	if err != nil {
		return nil, err
	}
	if amount.Sign() == 0 {
		return nil, ErrNothingToClaim
	}
	return amount.Bytes(), nil
}
