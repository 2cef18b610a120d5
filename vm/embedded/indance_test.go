package embedded

import (
	"github.com/idena-network/indance-go/blockchain/types"
	"github.com/idena-network/indance-go/common"
	"github.com/idena-network/indance-go/common/math"
	"github.com/idena-network/indance-go/vm/env"
	"github.com/stretchr/testify/require"
	"math/big"
	"testing"
)

var (
	alice = common.Address{0x1}
	bob   = common.Address{0x2}
)

func TestInDance_Deploy(t *testing.T) {
	require := require.New(t)

	invalid := [][][]byte{
		nil,
		deployArgs(2, coins(50), coins(20), defaultTiers()),
		deployArgs(MintToken, coins(50), coins(20), nil),
		append(deployArgs(MintToken, coins(50), coins(20), defaultTiers()), []byte{0x1}),
		deployArgs(MintToken, coins(50), coins(20), []testTier{{big.NewInt(0), big.NewInt(1)}}),
		deployArgs(MintToken, coins(50), coins(20), []testTier{{big.NewInt(1), big.NewInt(0)}}),
	}
	for _, args := range invalid {
		c := createContractTester(t)
		require.Error(c.deploy(args...))
		require.Nil(c.state.GetCodeHash(testContractAddr))
	}

	tooWide := new(big.Int).Add(math.MaxU256, big.NewInt(1))
	c := createContractTester(t)
	require.Equal(ErrOverflow, c.deploy(deployArgs(MintToken, tooWide, coins(20), defaultTiers())...))

	c = createDeployedTester(t, MintToken)
	require.Equal(InDanceContract, *c.state.GetCodeHash(testContractAddr))

	data, err := c.read("getTiers")
	require.NoError(err)
	tiers, err := TiersFromBytes(data)
	require.NoError(err)
	require.Len(tiers, 3)
	for i, tier := range defaultTiers() {
		require.Equal(0, tier.rate.Cmp(tiers[i].Rate))
		require.Equal(0, tier.price.Cmp(tiers[i].Price))
	}

	data, err = c.read("getParams")
	require.NoError(err)
	params := new(GameParams)
	require.NoError(params.FromBytes(data))
	require.Equal(MintToken, params.TokenMode)
	require.Equal(coins(50), params.FloorPrice)
	require.Equal(coins(20), params.StarterBonus)

	_, err = c.read("unknown")
	require.Equal(ErrUnknownMethod, err)
	_, err = c.call(alice, "unknown")
	require.Equal(ErrUnknownMethod, err)
}

func TestInDance_FirstFloorIsFree(t *testing.T) {
	require := require.New(t)
	c := createDeployedTester(t, MintToken)

	_, err := c.read("getAccount", alice.Bytes())
	require.Equal(ErrNotFound, err)
	_, err = c.read("getDanceFloor", alice.Bytes(), common.ToBytes(uint32(0)))
	require.Equal(ErrNotFound, err)

	require.NoError(c.buyFloor(alice))

	acc := c.account(alice)
	require.Equal(uint32(1), acc.FloorCount)
	require.Equal(uint64(0), acc.LastClaimedAt)
	require.Equal(0, acc.AccrualRate.Sign())
	require.Equal(coins(20), c.balance(alice))
	require.Equal(coins(20), c.state.MintedCoins())
	require.Equal(0, c.state.BurntCoins().Sign())

	floor := c.floor(alice, 0)
	require.Equal(0, floor.FilledSlots())
	require.Equal(0, floor.BaseRate.Sign())

	_, err = c.read("getDanceFloor", alice.Bytes(), common.ToBytes(uint32(1)))
	require.Equal(ErrNotFound, err)
}

func TestInDance_BuyDancerWithoutFloor(t *testing.T) {
	c := createDeployedTester(t, MintToken)
	c.state.SetBalance(alice, coins(100))

	require.Equal(t, ErrNoFloor, c.buyDancer(alice, 1))
	require.Equal(t, coins(100), c.balance(alice))
}

func TestInDance_InvalidTier(t *testing.T) {
	require := require.New(t)
	c := createDeployedTester(t, MintToken)
	require.NoError(c.buyFloor(alice))
	require.NoError(c.buyDancer(alice, 1))
	balance := c.balance(alice)

	require.Equal(ErrInvalidTier, c.buyDancer(alice, 0))
	require.Equal(ErrInvalidTier, c.buyDancer(alice, 4))
	_, err := c.call(alice, "buyDancer")
	require.Error(err)

	require.Equal(balance, c.balance(alice))
	floor := c.floor(alice, 0)
	require.Equal(1, floor.FilledSlots())
	require.Equal(big.NewInt(5), c.account(alice).AccrualRate)
}

func TestInDance_FillFloor(t *testing.T) {
	require := require.New(t)
	c := createDeployedTester(t, MintToken)
	c.state.SetBalance(alice, coins(1000))
	require.NoError(c.buyFloor(alice))

	expectedRate := new(big.Int)
	purchases := []byte{1, 2, 3, 1, 1, 2, 3, 3, 1}
	for i, tier := range purchases {
		c.setTime(int64(1000 + i))
		require.NoError(c.buyDancer(alice, tier))
		expectedRate.Add(expectedRate, defaultTiers()[tier-1].rate)

		acc := c.account(alice)
		require.Equal(0, expectedRate.Cmp(acc.AccrualRate))
		require.Equal(uint64(1000+i), acc.LastClaimedAt)

		floor := c.floor(alice, 0)
		require.Equal(i+1, floor.FilledSlots())
		require.Equal(0, expectedRate.Cmp(floor.BaseRate))
		for k := i + 1; k < DancersPerFloor; k++ {
			require.Equal(Dancer{}, floor.Dancers[k])
		}
		require.Equal(Dancer{Level: tier, Params: uint64(1000 + i)}, floor.Dancers[i])
	}

	c.setTime(2000)
	balance := new(big.Int).Set(c.balance(alice))
	acc := c.account(alice)

	require.Equal(ErrFloorFull, c.buyDancer(alice, 1))

	require.Equal(balance, c.balance(alice))
	require.Equal(acc, c.account(alice))
	require.True(c.floor(alice, 0).IsFull())
	_, err := c.read("getDanceFloor", alice.Bytes(), common.ToBytes(uint32(1)))
	require.Equal(ErrNotFound, err)
}

func TestInDance_BuyFloorRequiresFullFloor(t *testing.T) {
	require := require.New(t)
	c := createDeployedTester(t, MintToken)
	c.state.SetBalance(alice, coins(1000))
	require.NoError(c.buyFloor(alice))
	require.NoError(c.buyDancer(alice, 1))
	balance := new(big.Int).Set(c.balance(alice))

	require.Equal(ErrFloorNotFull, c.buyFloor(alice))
	require.Equal(uint32(1), c.account(alice).FloorCount)
	require.Equal(balance, c.balance(alice))
}

func TestInDance_SecondFloor(t *testing.T) {
	require := require.New(t)
	c := createDeployedTester(t, MintToken)
	c.state.SetBalance(alice, coins(200))
	require.NoError(c.buyFloor(alice))
	for i := 0; i < DancersPerFloor; i++ {
		require.NoError(c.buyDancer(alice, 1))
	}
	// no time elapsed, nothing was realized
	require.Equal(coins(130), c.balance(alice))
	burnt := new(big.Int).Set(c.state.BurntCoins())

	require.NoError(c.buyFloor(alice))

	require.Equal(uint32(2), c.account(alice).FloorCount)
	require.Equal(0, c.floor(alice, 1).FilledSlots())
	require.True(c.floor(alice, 0).IsFull())
	require.Equal(coins(80), c.balance(alice))
	require.Equal(new(big.Int).Add(burnt, coins(50)), c.state.BurntCoins())

	// the next dancer goes to the new floor
	require.NoError(c.buyDancer(alice, 2))
	require.Equal(1, c.floor(alice, 1).FilledSlots())
	require.Equal(big.NewInt(7), c.floor(alice, 1).BaseRate)
	require.Equal(big.NewInt(45+7), c.account(alice).AccrualRate)
}

func TestInDance_BuyFloorInsufficientFunds(t *testing.T) {
	require := require.New(t)
	c := createDeployedTester(t, MintToken)
	c.state.SetBalance(alice, coins(70))
	require.NoError(c.buyFloor(alice))
	for i := 0; i < DancersPerFloor; i++ {
		require.NoError(c.buyDancer(alice, 1))
	}
	require.Equal(0, c.balance(alice).Sign())

	require.Equal(ErrInsufficientFunds, c.buyFloor(alice))
	require.Equal(uint32(1), c.account(alice).FloorCount)
	require.Equal(ErrFloorFull, c.buyDancer(alice, 1))
}

func TestInDance_BuyDancerInsufficientFunds(t *testing.T) {
	require := require.New(t)
	c := createDeployedTester(t, MintToken)
	require.NoError(c.buyFloor(alice))
	require.NoError(c.buyDancer(alice, 1))

	c.setTime(1010)
	require.Equal(ErrInsufficientFunds, c.buyDancer(alice, 3))

	acc := c.account(alice)
	require.Equal(uint64(1000), acc.LastClaimedAt)
	require.Equal(big.NewInt(5), acc.AccrualRate)
	require.Equal(1, c.floor(alice, 0).FilledSlots())
	require.Equal(coins(10), c.balance(alice))
	require.Equal(big.NewInt(50), c.claimable(alice))
}

func TestInDance_Claim(t *testing.T) {
	require := require.New(t)
	c := createDeployedTester(t, MintToken)
	require.NoError(c.buyFloor(alice))

	_, err := c.call(alice, "claim")
	require.Equal(ErrNothingToClaim, err)

	require.NoError(c.buyDancer(alice, 1))
	require.Equal(0, c.claimable(alice).Sign())
	balance := new(big.Int).Set(c.balance(alice))

	c.setTime(1100)
	require.Equal(big.NewInt(500), c.claimable(alice))

	out, err := c.call(alice, "claim")
	require.NoError(err)
	require.Equal(big.NewInt(500), new(big.Int).SetBytes(out))
	require.Equal(uint64(1100), c.account(alice).LastClaimedAt)
	require.Equal(new(big.Int).Add(balance, big.NewInt(500)), c.balance(alice))
	require.Equal(0, c.claimable(alice).Sign())

	_, err = c.call(alice, "claim")
	require.Equal(ErrNothingToClaim, err)
	require.Equal(uint64(1100), c.account(alice).LastClaimedAt)
}

func TestInDance_ClaimUnknownAccount(t *testing.T) {
	c := createDeployedTester(t, MintToken)
	_, err := c.call(bob, "claim")
	require.Equal(t, ErrNothingToClaim, err)
	require.Equal(t, 0, c.claimable(bob).Sign())
}

func TestInDance_RateChangeIsNotRetroactive(t *testing.T) {
	require := require.New(t)
	c := createDeployedTester(t, MintToken)
	c.state.SetBalance(alice, coins(100))
	require.NoError(c.buyFloor(alice))
	require.NoError(c.buyDancer(alice, 1))
	balance := new(big.Int).Set(c.balance(alice))

	c.setTime(1010)
	require.NoError(c.buyDancer(alice, 2))
	// 10 seconds at rate 5 were realized before the rate changed
	require.Equal(new(big.Int).Sub(new(big.Int).Add(balance, big.NewInt(50)), coins(20)), c.balance(alice))
	require.Equal(uint64(1010), c.account(alice).LastClaimedAt)

	c.setTime(1020)
	require.Equal(big.NewInt(120), c.claimable(alice))
}

func TestInDance_InvalidTimestamp(t *testing.T) {
	require := require.New(t)
	c := createDeployedTester(t, MintToken)
	require.NoError(c.buyFloor(alice))
	require.NoError(c.buyDancer(alice, 1))

	c.setTime(999)
	_, err := c.call(alice, "claim")
	require.Equal(ErrInvalidTimestamp, err)
	require.Equal(0, c.claimable(alice).Sign())

	c.setTime(-1)
	_, err = c.call(alice, "claim")
	require.Equal(ErrInvalidTimestamp, err)
}

func TestInDance_Overflow(t *testing.T) {
	require := require.New(t)

	c := createContractTester(t)
	huge := new(big.Int).Lsh(big.NewInt(1), 250)
	require.NoError(c.deploy(deployArgs(MintToken, coins(50), coins(20), []testTier{
		{big.NewInt(1), huge},
		{math.MaxU256, big.NewInt(1)},
	})...))
	c.state.SetBalance(alice, coins(100))
	require.NoError(c.buyFloor(alice))

	require.Equal(ErrOverflow, c.buyDancer(alice, 1))
	require.Equal(0, c.floor(alice, 0).FilledSlots())

	require.NoError(c.buyDancer(alice, 2))
	require.Equal(ErrOverflow, c.buyDancer(alice, 2))
	require.Equal(1, c.floor(alice, 0).FilledSlots())
	require.Equal(math.MaxU256, c.account(alice).AccrualRate)

	c.setTime(1002)
	_, err := c.call(alice, "claim")
	require.Equal(ErrOverflow, err)
	require.Equal(uint64(1000), c.account(alice).LastClaimedAt)
}

func TestInDance_AccountsAreIndependent(t *testing.T) {
	require := require.New(t)
	c := createDeployedTester(t, MintToken)
	require.NoError(c.buyFloor(alice))
	require.NoError(c.buyDancer(alice, 1))

	require.Equal(ErrNoFloor, c.buyDancer(bob, 1))
	require.NoError(c.buyFloor(bob))
	require.NoError(c.buyDancer(bob, 2))

	require.Equal(big.NewInt(5), c.account(alice).AccrualRate)
	require.Equal(big.NewInt(7), c.account(bob).AccrualRate)
	require.Equal(Dancer{Level: 1, Params: 1000}, c.floor(alice, 0).Dancers[0])
	require.Equal(Dancer{Level: 2, Params: 1000}, c.floor(bob, 0).Dancers[0])
}

func TestInDance_TreasuryToken(t *testing.T) {
	require := require.New(t)
	c := createDeployedTester(t, TreasuryToken)

	require.Equal(ErrInsufficientFunds, c.buyFloor(alice))
	_, err := c.read("getAccount", alice.Bytes())
	require.Equal(ErrNotFound, err)

	c.state.SetBalance(testContractAddr, coins(100))
	require.NoError(c.buyFloor(alice))
	require.Equal(coins(20), c.balance(alice))
	require.Equal(coins(80), c.balance(testContractAddr))

	require.NoError(c.buyDancer(alice, 1))
	require.Equal(coins(10), c.balance(alice))
	require.Equal(coins(90), c.balance(testContractAddr))

	c.setTime(1100)
	out, err := c.call(alice, "claim")
	require.NoError(err)
	require.Equal(big.NewInt(500), new(big.Int).SetBytes(out))
	require.Equal(new(big.Int).Add(coins(10), big.NewInt(500)), c.balance(alice))

	require.Equal(0, c.state.MintedCoins().Sign())
	require.Equal(0, c.state.BurntCoins().Sign())
}

func TestInDance_TreasuryCannotPullFromOthers(t *testing.T) {
	c := createDeployedTester(t, TreasuryToken)
	c.state.SetBalance(alice, coins(100))

	to := testContractAddr
	ctx := env.NewCallContextImpl(&types.Transaction{From: bob, To: &to})
	token := newToken(TreasuryToken, ctx, c.env)
	require.Equal(t, env.ErrNotAuthorized, token.Burn(alice, coins(1)))
	require.Equal(t, coins(100), token.BalanceOf(alice))
}

func TestInDance_StatsCollector(t *testing.T) {
	require := require.New(t)
	c := createDeployedTester(t, MintToken)
	recorder := &recordingCollector{}

	call := func(sender common.Address, method string, args ...[]byte) error {
		to := testContractAddr
		tx := &types.Transaction{Type: types.CallContract, From: sender, To: &to, Method: method, Args: args}
		_, err := NewInDance(env.NewCallContextImpl(tx), c.env, recorder).Call(method, args...)
		c.finish(err)
		return err
	}

	require.NoError(call(alice, "buyFloor"))
	require.NoError(call(alice, "buyDancer", []byte{1}))
	c.setTime(1004)
	require.NoError(call(alice, "claim"))

	require.Equal([]uint32{0}, recorder.floors)
	require.Equal([]byte{1}, recorder.tiers)
	require.Equal([]*big.Int{big.NewInt(20)}, recorder.claims)
}
