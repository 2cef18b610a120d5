package collector

import (
	"github.com/idena-network/indance-go/common"
	"github.com/rcrowley/go-metrics"
	"github.com/stretchr/testify/require"
	"math/big"
	"testing"
)

func coins(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), common.CoinBase)
}

func TestMetricsCollector_Complete(t *testing.T) {
	require := require.New(t)
	r := metrics.NewRegistry()
	c := NewMetricsCollector(r)
	addr := common.Address{0x1}

	EnableCollecting(c)
	AddStarterBonus(c, addr, coins(20))
	AddFloorPurchase(c, addr, 0, common.Big0)
	AddDancerPurchase(c, addr, 2, coins(5), big.NewInt(1))
	require.Nil(r.Get(metricsPrefix + "floors"))
	CompleteCollecting(c)

	require.Equal(int64(1), r.Get(metricsPrefix+"floors").(metrics.Counter).Count())
	require.Equal(int64(1), r.Get(metricsPrefix+"dancers/tier2").(metrics.Counter).Count())
	require.Equal(int64(1), r.Get(metricsPrefix+"bonuses").(metrics.Counter).Count())
	require.Equal(20.0, r.Get(metricsPrefix+paidMetric).(metrics.GaugeFloat64).Value())
	require.Equal(5.0, r.Get(metricsPrefix+spentMetric).(metrics.GaugeFloat64).Value())
}

func TestMetricsCollector_Discard(t *testing.T) {
	require := require.New(t)
	c := NewMetricsCollector(nil)

	c.EnableCollecting()
	c.AddClaim(common.Address{0x1}, coins(1))
	c.DiscardCollecting()
	require.Nil(c.Registry().Get(metricsPrefix + "claims"))

	// not collecting
	c.AddClaim(common.Address{0x1}, coins(1))
	c.CompleteCollecting()
	require.Nil(c.Registry().Get(metricsPrefix + "claims"))

	c.EnableCollecting()
	c.AddClaim(common.Address{0x1}, coins(3))
	c.CompleteCollecting()
	require.Equal(int64(1), c.Registry().Get(metricsPrefix+"claims").(metrics.Meter).Count())
	require.Equal(3.0, c.Registry().Get(metricsPrefix+paidMetric).(metrics.GaugeFloat64).Value())
}

func TestNilCollector(t *testing.T) {
	require.NotPanics(t, func() {
		EnableCollecting(nil)
		AddClaim(nil, common.Address{}, big.NewInt(1))
		CompleteCollecting(nil)
		DiscardCollecting(nil)
	})
}
