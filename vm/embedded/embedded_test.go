package embedded

import (
	"github.com/idena-network/indance-go/blockchain/types"
	"github.com/idena-network/indance-go/common"
	"github.com/idena-network/indance-go/core/state"
	"github.com/idena-network/indance-go/stats/collector"
	"github.com/idena-network/indance-go/vm/env"
	"github.com/stretchr/testify/require"
	dbm "github.com/tendermint/tm-db"
	"math/big"
	"testing"
)

var testContractAddr = common.Address{0xd, 0xce}

func coins(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), common.CoinBase)
}

type testTier struct {
	rate  *big.Int
	price *big.Int
}

func defaultTiers() []testTier {
	return []testTier{
		{big.NewInt(5), big.NewInt(10)},
		{big.NewInt(7), big.NewInt(20)},
		{big.NewInt(11), big.NewInt(40)},
	}
}

func deployArgs(mode TokenMode, floorPrice, starterBonus *big.Int, tiers []testTier) [][]byte {
	args := [][]byte{{mode}, floorPrice.Bytes(), starterBonus.Bytes()}
	for _, t := range tiers {
		args = append(args, t.rate.Bytes(), t.price.Bytes())
	}
	return args
}

type contractTester struct {
	t      *testing.T
	state  *state.StateDB
	header *types.Header
	env    *env.EnvImp
}

func createContractTester(t *testing.T) *contractTester {
	stateDb, err := state.NewLazy(dbm.NewMemDB())
	require.NoError(t, err)
	header := &types.Header{Height: 1, Time: 1000}
	return &contractTester{
		t:      t,
		state:  stateDb,
		header: header,
		env:    env.NewEnvImp(stateDb, header),
	}
}

func createDeployedTester(t *testing.T, mode TokenMode) *contractTester {
	c := createContractTester(t)
	require.NoError(t, c.deploy(deployArgs(mode, coins(50), coins(20), defaultTiers())...))
	return c
}

func (c *contractTester) deploy(args ...[]byte) error {
	tx := &types.Transaction{Type: types.DeployContract, CodeHash: InDanceContract, Args: args}
	ctx := env.NewDeployContextImpl(tx, testContractAddr)
	err := NewInDance(ctx, c.env, nil).Deploy(args...)
	c.finish(err)
	return err
}

func (c *contractTester) call(sender common.Address, method string, args ...[]byte) ([]byte, error) {
	to := testContractAddr
	tx := &types.Transaction{Type: types.CallContract, From: sender, To: &to, Method: method, Args: args}
	out, err := NewInDance(env.NewCallContextImpl(tx), c.env, nil).Call(method, args...)
	c.finish(err)
	return out, err
}

func (c *contractTester) finish(err error) {
	if err != nil {
		c.env.Reset()
		return
	}
	c.env.Commit()
}

func (c *contractTester) read(method string, args ...[]byte) ([]byte, error) {
	ctx := &env.ReadContextImpl{Contract: testContractAddr}
	return NewInDance(ctx, c.env, nil).Read(method, args...)
}

func (c *contractTester) setTime(ts int64) {
	c.header.Time = ts
}

func (c *contractTester) buyFloor(sender common.Address) error {
	_, err := c.call(sender, "buyFloor")
	return err
}

func (c *contractTester) buyDancer(sender common.Address, tier byte) error {
	_, err := c.call(sender, "buyDancer", []byte{tier})
	return err
}

func (c *contractTester) floor(addr common.Address, index uint32) *DanceFloor {
	data, err := c.read("getDanceFloor", addr.Bytes(), common.ToBytes(index))
	require.NoError(c.t, err)
	floor := new(DanceFloor)
	require.NoError(c.t, floor.FromBytes(data))
	return floor
}

func (c *contractTester) account(addr common.Address) *AccountState {
	data, err := c.read("getAccount", addr.Bytes())
	require.NoError(c.t, err)
	acc := new(AccountState)
	require.NoError(c.t, acc.FromBytes(data))
	return acc
}

func (c *contractTester) claimable(addr common.Address) *big.Int {
	data, err := c.read("getClaimable", addr.Bytes())
	require.NoError(c.t, err)
	return new(big.Int).SetBytes(data)
}

func (c *contractTester) balance(addr common.Address) *big.Int {
	return c.state.GetBalance(addr)
}

// recordingCollector keeps every event passed to it.
type recordingCollector struct {
	collector.StatsCollector
	claims []*big.Int
	floors []uint32
	tiers  []byte
}

func (r *recordingCollector) AddClaim(addr common.Address, amount *big.Int) {
	r.claims = append(r.claims, amount)
}

func (r *recordingCollector) AddFloorPurchase(addr common.Address, floorIndex uint32, price *big.Int) {
	r.floors = append(r.floors, floorIndex)
}

func (r *recordingCollector) AddDancerPurchase(addr common.Address, tier byte, price *big.Int, rate *big.Int) {
	r.tiers = append(r.tiers, tier)
}

func (r *recordingCollector) AddStarterBonus(addr common.Address, amount *big.Int) {
}
