package state

import (
	"bytes"
	"github.com/deckarep/golang-set"
	"github.com/idena-network/indance-go/common"
	"github.com/idena-network/indance-go/log"
	"github.com/pkg/errors"
	dbm "github.com/tendermint/tm-db"
	"math/big"
	"sort"
	"sync"
)

type contractStoreValue struct {
	value   []byte
	removed bool
}

// StateDB is the versioned ledger state: account balances, deployed contracts,
// supply counters and the contract key/value store. Changes stay in memory
// until Commit saves them as the next tree version.
type StateDB struct {
	db   dbm.DB
	tree Tree

	// live objects, modified while a block is being applied
	stateAccounts      map[common.Address]*Account
	stateAccountsDirty mapset.Set

	contractStoreCache map[string]*contractStoreValue

	stateGlobal      *Global
	stateGlobalDirty bool

	log  log.Logger
	lock sync.Mutex
}

func NewLazy(db dbm.DB) (*StateDB, error) {
	prefix, err := StateDbKeys.LoadDbPrefix(db)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load db prefix")
	}
	pdb := dbm.NewPrefixDB(db, prefix)
	tree, err := NewMutableTree(pdb)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open state tree")
	}
	return &StateDB{
		db:                 pdb,
		tree:               tree,
		stateAccounts:      make(map[common.Address]*Account),
		stateAccountsDirty: mapset.NewSet(),
		contractStoreCache: make(map[string]*contractStoreValue),
		log:                log.New("component", "state"),
	}, nil
}

// Load opens the latest saved version.
func (s *StateDB) Load() (int64, error) {
	s.Clear()
	return s.tree.Load()
}

// LoadVersion opens a specific saved version, discarding uncommitted changes.
func (s *StateDB) LoadVersion(height uint64) error {
	s.Clear()
	_, err := s.tree.LoadVersion(int64(height))
	return err
}

func (s *StateDB) Clear() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.stateAccounts = make(map[common.Address]*Account)
	s.stateAccountsDirty = mapset.NewSet()
	s.contractStoreCache = make(map[string]*contractStoreValue)
	s.stateGlobal = nil
	s.stateGlobalDirty = false
}

func (s *StateDB) Version() int64 {
	return s.tree.Version()
}

// Root is the hash of the last committed version.
func (s *StateDB) Root() common.Hash {
	return s.tree.Hash()
}

func (s *StateDB) getAccount(addr common.Address) *Account {
	s.lock.Lock()
	defer s.lock.Unlock()
	// Prefer 'live' objects.
	if obj := s.stateAccounts[addr]; obj != nil {
		return obj
	}
	_, enc := s.tree.Get(StateDbKeys.AddressKey(addr))
	if len(enc) == 0 {
		return nil
	}
	data := new(Account)
	if err := data.FromBytes(enc); err != nil {
		s.log.Error("Failed to decode state account object", "addr", addr, "err", err)
		return nil
	}
	s.stateAccounts[addr] = data
	return data
}

func (s *StateDB) getOrNewAccount(addr common.Address) *Account {
	if acc := s.getAccount(addr); acc != nil {
		return acc
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	acc := &Account{Balance: new(big.Int)}
	s.stateAccounts[addr] = acc
	return acc
}

func (s *StateDB) markDirty(addr common.Address) {
	s.stateAccountsDirty.Add(addr)
}

// GetBalance returns the balance of addr or 0 if the account is unknown.
func (s *StateDB) GetBalance(addr common.Address) *big.Int {
	if acc := s.getAccount(addr); acc != nil && acc.Balance != nil {
		return acc.Balance
	}
	return common.Big0
}

func (s *StateDB) SetBalance(addr common.Address, amount *big.Int) {
	acc := s.getOrNewAccount(addr)
	acc.Balance = new(big.Int).Set(amount)
	s.markDirty(addr)
}

func (s *StateDB) AddBalance(addr common.Address, amount *big.Int) {
	if amount.Sign() == 0 {
		return
	}
	s.SetBalance(addr, new(big.Int).Add(s.GetBalance(addr), amount))
}

func (s *StateDB) DeployContract(addr common.Address, codeHash common.Hash) {
	acc := s.getOrNewAccount(addr)
	acc.Contract = &ContractData{CodeHash: codeHash}
	s.markDirty(addr)
}

func (s *StateDB) GetCodeHash(addr common.Address) *common.Hash {
	if acc := s.getAccount(addr); acc != nil && acc.Contract != nil {
		hash := acc.Contract.CodeHash
		return &hash
	}
	return nil
}

func (s *StateDB) getGlobal() *Global {
	if s.stateGlobal != nil {
		return s.stateGlobal
	}
	global := &Global{MintedCoins: new(big.Int), BurntCoins: new(big.Int)}
	if _, enc := s.tree.Get(StateDbKeys.GlobalKey()); len(enc) > 0 {
		if err := global.FromBytes(enc); err != nil {
			s.log.Error("Failed to decode global state object", "err", err)
		}
	}
	s.stateGlobal = global
	return global
}

func (s *StateDB) MintedCoins() *big.Int {
	return s.getGlobal().MintedCoins
}

func (s *StateDB) BurntCoins() *big.Int {
	return s.getGlobal().BurntCoins
}

func (s *StateDB) AddMintedCoins(amount *big.Int) {
	g := s.getGlobal()
	g.MintedCoins = new(big.Int).Add(g.MintedCoins, amount)
	s.stateGlobalDirty = true
}

func (s *StateDB) AddBurntCoins(amount *big.Int) {
	g := s.getGlobal()
	g.BurntCoins = new(big.Int).Add(g.BurntCoins, amount)
	s.stateGlobalDirty = true
}

func (s *StateDB) SetContractValue(addr common.Address, key []byte, value []byte) {
	s.contractStoreCache[string(StateDbKeys.ContractStoreKey(addr, key))] = &contractStoreValue{
		value:   value,
		removed: false,
	}
}

func (s *StateDB) GetContractValue(addr common.Address, key []byte) []byte {

	storeKey := StateDbKeys.ContractStoreKey(addr, key)

	if v, ok := s.contractStoreCache[string(storeKey)]; ok {
		if v.removed {
			return nil
		}
		return v.value
	}
	_, value := s.tree.Get(storeKey)
	return value
}

func (s *StateDB) RemoveContractValue(addr common.Address, key []byte) {
	s.contractStoreCache[string(StateDbKeys.ContractStoreKey(addr, key))] = &contractStoreValue{
		value:   nil,
		removed: true,
	}
}

// IterateAccounts walks all committed accounts in address order.
func (s *StateDB) IterateAccounts(f func(addr common.Address, account *Account) (stopped bool)) {
	start := StateDbKeys.AddressKey(common.MinAddr)
	end := append(StateDbKeys.AddressKey(common.MaxAddr), 0x0)
	s.tree.GetImmutable().IterateRange(start, end, true, func(key []byte, value []byte) bool {
		var addr common.Address
		addr.SetBytes(key[len(addressPrefix):])
		account := new(Account)
		if err := account.FromBytes(value); err != nil {
			s.log.Error("Failed to decode state account object", "addr", addr, "err", err)
			return false
		}
		return f(addr, account)
	})
}

// Precommit writes live objects into the working tree.
func (s *StateDB) Precommit() {
	s.lock.Lock()
	defer s.lock.Unlock()

	for _, addr := range getOrderedObjectsKeys(s.stateAccountsDirty) {
		s.tree.Set(StateDbKeys.AddressKey(addr), s.stateAccounts[addr].ToBytes())
	}
	s.stateAccountsDirty.Clear()

	var keys []string
	for k := range s.contractStoreCache {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := s.contractStoreCache[k]
		if v.removed {
			s.tree.Remove([]byte(k))
		} else {
			s.tree.Set([]byte(k), v.value)
		}
	}
	s.contractStoreCache = make(map[string]*contractStoreValue)

	if s.stateGlobalDirty {
		s.tree.Set(StateDbKeys.GlobalKey(), s.stateGlobal.ToBytes())
		s.stateGlobalDirty = false
	}
}

// Commit saves all pending changes as the next version.
func (s *StateDB) Commit() (root common.Hash, version int64, err error) {
	s.Precommit()
	hash, version, err := s.tree.SaveVersion()
	s.Clear()
	if err != nil {
		return common.Hash{}, 0, errors.Wrap(err, "failed to save state version")
	}
	return toHash(hash), version, nil
}

// Reset drops every change made since the last commit.
func (s *StateDB) Reset() {
	s.Clear()
	s.tree.Rollback()
}

func getOrderedObjectsKeys(objects mapset.Set) []common.Address {
	keys := make([]common.Address, 0, objects.Cardinality())
	for _, k := range objects.ToSlice() {
		keys = append(keys, k.(common.Address))
	}

	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i].Bytes(), keys[j].Bytes()) == 1
	})

	return keys
}
