package collector

import (
	"fmt"
	"github.com/idena-network/indance-go/common"
	"github.com/idena-network/indance-go/common/math"
	"github.com/rcrowley/go-metrics"
	"math/big"
	"sync"
)

const (
	metricsPrefix = "indance/"

	// coins players paid for floors and dancers, burnt or moved into the treasury depending on the token mode
	spentMetric = "spent"
	// coins paid out to players as starter bonuses and claims, minted or sent from the treasury
	paidMetric = "paid"
)

type event func(r metrics.Registry)

// MetricsCollector buffers the events of the running call and publishes them to a go-metrics registry
// when the call completes.
type MetricsCollector struct {
	registry   metrics.Registry
	pending    []event
	collecting bool
	mutex      sync.Mutex
}

func NewMetricsCollector(registry metrics.Registry) *MetricsCollector {
	if registry == nil {
		registry = metrics.NewRegistry()
	}
	return &MetricsCollector{registry: registry}
}

func (m *MetricsCollector) Registry() metrics.Registry {
	return m.registry
}

func (m *MetricsCollector) EnableCollecting() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.collecting = true
	m.pending = nil
}

func (m *MetricsCollector) CompleteCollecting() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	for _, e := range m.pending {
		e(m.registry)
	}
	m.pending = nil
	m.collecting = false
}

func (m *MetricsCollector) DiscardCollecting() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.pending = nil
	m.collecting = false
}

func (m *MetricsCollector) add(e event) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if !m.collecting {
		return
	}
	m.pending = append(m.pending, e)
}

func addCoins(r metrics.Registry, name string, amount *big.Int) {
	coins, _ := math.BaseToCoins(amount).Float64()
	g := metrics.GetOrRegisterGaugeFloat64(metricsPrefix+name, r)
	g.Update(g.Value() + coins)
}

func (m *MetricsCollector) AddFloorPurchase(addr common.Address, floorIndex uint32, price *big.Int) {
	m.add(func(r metrics.Registry) {
		metrics.GetOrRegisterCounter(metricsPrefix+"floors", r).Inc(1)
		addCoins(r, spentMetric, price)
	})
}

func (m *MetricsCollector) AddDancerPurchase(addr common.Address, tier byte, price *big.Int, rate *big.Int) {
	m.add(func(r metrics.Registry) {
		metrics.GetOrRegisterCounter(metricsPrefix+"dancers", r).Inc(1)
		metrics.GetOrRegisterCounter(fmt.Sprintf("%sdancers/tier%d", metricsPrefix, tier), r).Inc(1)
		addCoins(r, spentMetric, price)
	})
}

func (m *MetricsCollector) AddClaim(addr common.Address, amount *big.Int) {
	m.add(func(r metrics.Registry) {
		metrics.GetOrRegisterMeter(metricsPrefix+"claims", r).Mark(1)
		addCoins(r, paidMetric, amount)
	})
}

func (m *MetricsCollector) AddStarterBonus(addr common.Address, amount *big.Int) {
	m.add(func(r metrics.Registry) {
		metrics.GetOrRegisterCounter(metricsPrefix+"bonuses", r).Inc(1)
		addCoins(r, paidMetric, amount)
	})
}
