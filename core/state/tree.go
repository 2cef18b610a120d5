package state

import (
	"github.com/idena-network/indance-go/common"
	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tm-db"
	"sync"
)

type Tree interface {
	Get(key []byte) (index int64, value []byte)
	Set(key, value []byte) bool
	Remove(key []byte) ([]byte, bool)
	LoadVersion(targetVersion int64) (int64, error)
	Load() (int64, error)
	SaveVersion() ([]byte, int64, error)
	GetImmutable() *ImmutableTree
	Version() int64
	Hash() common.Hash
	WorkingHash() common.Hash
	Rollback()
}

func NewMutableTree(db dbm.DB) (*MutableTree, error) {
	tree, err := iavl.NewMutableTree(db, 1024)
	if err != nil {
		return nil, err
	}
	return &MutableTree{tree: tree}, nil
}

type MutableTree struct {
	tree *iavl.MutableTree

	lock sync.RWMutex
}

func toHash(hash []byte) common.Hash {
	var result common.Hash
	copy(result[:], hash)
	return result
}

func (t *MutableTree) Hash() common.Hash {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return toHash(t.tree.Hash())
}

func (t *MutableTree) WorkingHash() common.Hash {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return toHash(t.tree.WorkingHash())
}

func (t *MutableTree) Version() int64 {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.tree.Version()
}

func (t *MutableTree) Load() (int64, error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.tree.Load()
}

func (t *MutableTree) GetImmutable() *ImmutableTree {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return &ImmutableTree{
		tree: t.tree.ImmutableTree,
	}
}

func (t *MutableTree) Get(key []byte) (index int64, value []byte) {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.tree.Get(key)
}

func (t *MutableTree) Set(key, value []byte) bool {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.tree.Set(key, value)
}

func (t *MutableTree) Remove(key []byte) ([]byte, bool) {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.tree.Remove(key)
}

func (t *MutableTree) LoadVersion(targetVersion int64) (int64, error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.tree.LoadVersion(targetVersion)
}

func (t *MutableTree) SaveVersion() ([]byte, int64, error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.tree.SaveVersion()
}

// Rollback drops every change made since the last saved version.
func (t *MutableTree) Rollback() {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.tree.Rollback()
}

// ImmutableTree is a read-only view of the last saved version.
type ImmutableTree struct {
	tree *iavl.ImmutableTree
}

func (t *ImmutableTree) Hash() common.Hash {
	return toHash(t.tree.Hash())
}

func (t *ImmutableTree) Version() int64 {
	return t.tree.Version()
}

func (t *ImmutableTree) Get(key []byte) (index int64, value []byte) {
	return t.tree.Get(key)
}

// IterateRange makes a callback for all nodes with key between start and end non-inclusive.
// If either are nil, then it is open on that side (nil, nil is the same as Iterate)
func (t *ImmutableTree) IterateRange(start, end []byte, ascending bool, fn func(key []byte, value []byte) bool) (stopped bool) {
	return t.tree.IterateRange(start, end, ascending, fn)
}
