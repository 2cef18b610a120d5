package embedded

import (
	"encoding/binary"
	"github.com/idena-network/indance-go/common"
	"github.com/idena-network/indance-go/vm/env"
	"github.com/idena-network/indance-go/vm/helpers"
	"github.com/pkg/errors"
	"math/big"
)

const (
	DancersPerFloor = 9

	wordSize         = 32
	dancerSize       = 1 + 8
	danceFloorSize   = DancersPerFloor*dancerSize + wordSize
	accountStateSize = 4 + 8 + wordSize
	tierSize         = 2 * wordSize
)

var (
	accountPrefix = []byte("a")

	floorCountKey    = []byte("fc")
	lastClaimedAtKey = []byte("lc")
	accrualRateKey   = []byte("ar")

	floorPrefix  = byte('f')
	baseRateKey  = byte('r')
	dancerPrefix = byte('d')
	levelKey     = byte('l')
	paramsKey    = byte('p')
)

type Dancer struct {
	// Level is the dancer tier, 0 for an empty slot.
	Level  byte
	Params uint64
}

type DanceFloor struct {
	Dancers  [DancersPerFloor]Dancer
	BaseRate *big.Int
}

// FilledSlots is the length of the filled prefix of the floor.
func (f *DanceFloor) FilledSlots() int {
	for i, d := range f.Dancers {
		if d.Level == 0 {
			return i
		}
	}
	return DancersPerFloor
}

func (f *DanceFloor) IsFull() bool {
	return f.FilledSlots() == DancersPerFloor
}

func (f *DanceFloor) ToBytes() []byte {
	data := make([]byte, danceFloorSize)
	for i, d := range f.Dancers {
		data[i*dancerSize] = d.Level
		binary.BigEndian.PutUint64(data[i*dancerSize+1:], d.Params)
	}
	putWord(data[DancersPerFloor*dancerSize:], f.BaseRate)
	return data
}

func (f *DanceFloor) FromBytes(data []byte) error {
	if len(data) != danceFloorSize {
		return errors.Errorf("invalid dance floor size %d", len(data))
	}
	for i := range f.Dancers {
		f.Dancers[i].Level = data[i*dancerSize]
		f.Dancers[i].Params = binary.BigEndian.Uint64(data[i*dancerSize+1:])
	}
	f.BaseRate = new(big.Int).SetBytes(data[DancersPerFloor*dancerSize:])
	return nil
}

type AccountState struct {
	FloorCount uint32
	// LastClaimedAt is 0 until the account starts accruing.
	LastClaimedAt uint64
	AccrualRate   *big.Int
}

func (a *AccountState) ToBytes() []byte {
	data := make([]byte, accountStateSize)
	binary.BigEndian.PutUint32(data[0:4], a.FloorCount)
	binary.BigEndian.PutUint64(data[4:12], a.LastClaimedAt)
	putWord(data[12:], a.AccrualRate)
	return data
}

func (a *AccountState) FromBytes(data []byte) error {
	if len(data) != accountStateSize {
		return errors.Errorf("invalid account state size %d", len(data))
	}
	a.FloorCount = binary.BigEndian.Uint32(data[0:4])
	a.LastClaimedAt = binary.BigEndian.Uint64(data[4:12])
	a.AccrualRate = new(big.Int).SetBytes(data[12:])
	return nil
}

type Tier struct {
	// Rate is the accrual contribution in base units per second.
	Rate *big.Int
	// Price is the purchase price in whole coins.
	Price *big.Int
}

func TiersToBytes(tiers []*Tier) []byte {
	data := make([]byte, len(tiers)*tierSize)
	for i, t := range tiers {
		putWord(data[i*tierSize:], t.Rate)
		putWord(data[i*tierSize+wordSize:], t.Price)
	}
	return data
}

func TiersFromBytes(data []byte) ([]*Tier, error) {
	if len(data)%tierSize != 0 {
		return nil, errors.Errorf("invalid tier table size %d", len(data))
	}
	var tiers []*Tier
	for i := 0; i < len(data); i += tierSize {
		tiers = append(tiers, &Tier{
			Rate:  new(big.Int).SetBytes(data[i : i+wordSize]),
			Price: new(big.Int).SetBytes(data[i+wordSize : i+tierSize]),
		})
	}
	return tiers, nil
}

func putWord(dst []byte, value *big.Int) {
	if value == nil {
		return
	}
	value.FillBytes(dst[:wordSize])
}

// accountLedger is the storage of one account's progression state.
type accountLedger struct {
	m *env.Map
}

func newAccountLedger(addr common.Address, e env.Env, ctx env.CallContext) *accountLedger {
	prefix := append(append([]byte{}, accountPrefix...), addr.Bytes()...)
	return &accountLedger{m: env.NewMap(prefix, e, ctx)}
}

func floorKey(index uint32, field ...byte) []byte {
	key := make([]byte, 5, 5+len(field))
	key[0] = floorPrefix
	binary.BigEndian.PutUint32(key[1:], index)
	return append(key, field...)
}

func (l *accountLedger) Exists() bool {
	return l.m.Get(floorCountKey) != nil
}

func (l *accountLedger) FloorCount() uint32 {
	ret, _ := helpers.ExtractUInt32(0, l.m.Get(floorCountKey))
	return ret
}

func (l *accountLedger) SetFloorCount(count uint32) {
	l.m.Set(floorCountKey, common.ToBytes(count))
}

func (l *accountLedger) LastClaimedAt() uint64 {
	ret, _ := helpers.ExtractUInt64(0, l.m.Get(lastClaimedAtKey))
	return ret
}

func (l *accountLedger) SetLastClaimedAt(timestamp uint64) {
	l.m.Set(lastClaimedAtKey, common.ToBytes(timestamp))
}

func (l *accountLedger) AccrualRate() *big.Int {
	return new(big.Int).SetBytes(l.m.Get(accrualRateKey))
}

func (l *accountLedger) SetAccrualRate(rate *big.Int) {
	l.m.Set(accrualRateKey, rate.Bytes())
}

func (l *accountLedger) State() *AccountState {
	return &AccountState{
		FloorCount:    l.FloorCount(),
		LastClaimedAt: l.LastClaimedAt(),
		AccrualRate:   l.AccrualRate(),
	}
}

func (l *accountLedger) Dancer(floor uint32, slot int) Dancer {
	level := l.m.Get(floorKey(floor, dancerPrefix, byte(slot), levelKey))
	if len(level) == 0 {
		return Dancer{}
	}
	params, _ := helpers.ExtractUInt64(0, l.m.Get(floorKey(floor, dancerPrefix, byte(slot), paramsKey)))
	return Dancer{Level: level[0], Params: params}
}

func (l *accountLedger) SetDancer(floor uint32, slot int, dancer Dancer) {
	l.m.Set(floorKey(floor, dancerPrefix, byte(slot), levelKey), []byte{dancer.Level})
	l.m.Set(floorKey(floor, dancerPrefix, byte(slot), paramsKey), common.ToBytes(dancer.Params))
}

func (l *accountLedger) BaseRate(floor uint32) *big.Int {
	return new(big.Int).SetBytes(l.m.Get(floorKey(floor, baseRateKey)))
}

func (l *accountLedger) SetBaseRate(floor uint32, rate *big.Int) {
	l.m.Set(floorKey(floor, baseRateKey), rate.Bytes())
}

// Floor returns the floor at index or ErrNotFound if the account does not own it.
func (l *accountLedger) Floor(index uint32) (*DanceFloor, error) {
	if !l.Exists() || index >= l.FloorCount() {
		return nil, ErrNotFound
	}
	floor := &DanceFloor{BaseRate: l.BaseRate(index)}
	for i := range floor.Dancers {
		d := l.Dancer(index, i)
		if d.Level == 0 {
			break
		}
		floor.Dancers[i] = d
	}
	return floor, nil
}

type GameParams struct {
	TokenMode    TokenMode
	FloorPrice   *big.Int
	StarterBonus *big.Int
}

func (p *GameParams) ToBytes() []byte {
	data := make([]byte, 1+2*wordSize)
	data[0] = p.TokenMode
	putWord(data[1:], p.FloorPrice)
	putWord(data[1+wordSize:], p.StarterBonus)
	return data
}

func (p *GameParams) FromBytes(data []byte) error {
	if len(data) != 1+2*wordSize {
		return errors.Errorf("invalid game params size %d", len(data))
	}
	p.TokenMode = data[0]
	p.FloorPrice = new(big.Int).SetBytes(data[1 : 1+wordSize])
	p.StarterBonus = new(big.Int).SetBytes(data[1+wordSize:])
	return nil
}
