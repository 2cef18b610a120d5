package state

import (
	"encoding/binary"
	"github.com/idena-network/indance-go/common"
	dbm "github.com/tendermint/tm-db"
)

var (
	//global db keys
	currentStateDbPrefixKey = []byte{0x1}

	//state prefixes
	stateDbPrefixBytes = []byte{0x1}

	//state db prefixes and keys
	addressPrefix       = []byte{0x1}
	globalKey           = []byte{0x3}
	contractStorePrefix = []byte{0x5}
)

var StateDbKeys = &stateDbKeys{}

type stateDbKeys struct {
}

func (s *stateDbKeys) LoadDbPrefix(db dbm.DB) ([]byte, error) {
	p, err := db.Get(currentStateDbPrefixKey)
	if err != nil {
		return nil, err
	}
	if p == nil {
		p = s.BuildDbPrefix(0)
		b := db.NewBatch()
		defer b.Close()
		s.SaveDbPrefix(b, p)
		if err := b.WriteSync(); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (s *stateDbKeys) SaveDbPrefix(b dbm.Batch, prefix []byte) {
	b.Set(currentStateDbPrefixKey, prefix)
}

func (s *stateDbKeys) BuildDbPrefix(height uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, height)

	return append(append([]byte{}, stateDbPrefixBytes...), b...)
}

func (s *stateDbKeys) AddressKey(addr common.Address) []byte {
	return append(append([]byte{}, addressPrefix...), addr[:]...)
}

func (s *stateDbKeys) GlobalKey() []byte {
	return globalKey
}

func (s *stateDbKeys) ContractStoreKey(address common.Address, key []byte) []byte {
	return append(append(append([]byte{}, contractStorePrefix...), address[:]...), key...)
}
