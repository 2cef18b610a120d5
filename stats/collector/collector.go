package collector

import (
	"github.com/idena-network/indance-go/common"
	"math/big"
)

// StatsCollector observes contract events. Events of a call are only final after CompleteCollecting,
// DiscardCollecting drops them.
type StatsCollector interface {
	EnableCollecting()
	CompleteCollecting()
	DiscardCollecting()

	AddFloorPurchase(addr common.Address, floorIndex uint32, price *big.Int)
	AddDancerPurchase(addr common.Address, tier byte, price *big.Int, rate *big.Int)
	AddClaim(addr common.Address, amount *big.Int)
	AddStarterBonus(addr common.Address, amount *big.Int)
}

type collectorStub struct {
}

func NewStatsCollector() StatsCollector {
	return &collectorStub{}
}

func (c *collectorStub) EnableCollecting() {
	// do nothing
}

func (c *collectorStub) CompleteCollecting() {
	// do nothing
}

func (c *collectorStub) DiscardCollecting() {
	// do nothing
}

func (c *collectorStub) AddFloorPurchase(addr common.Address, floorIndex uint32, price *big.Int) {
	// do nothing
}

func AddFloorPurchase(c StatsCollector, addr common.Address, floorIndex uint32, price *big.Int) {
	if c == nil {
		return
	}
	c.AddFloorPurchase(addr, floorIndex, price)
}

func (c *collectorStub) AddDancerPurchase(addr common.Address, tier byte, price *big.Int, rate *big.Int) {
	// do nothing
}

func AddDancerPurchase(c StatsCollector, addr common.Address, tier byte, price *big.Int, rate *big.Int) {
	if c == nil {
		return
	}
	c.AddDancerPurchase(addr, tier, price, rate)
}

func (c *collectorStub) AddClaim(addr common.Address, amount *big.Int) {
	// do nothing
}

func AddClaim(c StatsCollector, addr common.Address, amount *big.Int) {
	if c == nil {
		return
	}
	c.AddClaim(addr, amount)
}

func (c *collectorStub) AddStarterBonus(addr common.Address, amount *big.Int) {
	// do nothing
}

func AddStarterBonus(c StatsCollector, addr common.Address, amount *big.Int) {
	if c == nil {
		return
	}
	c.AddStarterBonus(addr, amount)
}

func EnableCollecting(c StatsCollector) {
	if c == nil {
		return
	}
	c.EnableCollecting()
}

func CompleteCollecting(c StatsCollector) {
	if c == nil {
		return
	}
	c.CompleteCollecting()
}

func DiscardCollecting(c StatsCollector) {
	if c == nil {
		return
	}
	c.DiscardCollecting()
}
