package blockchain

import (
	"github.com/idena-network/indance-go/blockchain/types"
	"github.com/idena-network/indance-go/common"
	"github.com/idena-network/indance-go/config"
	"github.com/idena-network/indance-go/core/state"
	"github.com/idena-network/indance-go/database"
	"github.com/idena-network/indance-go/log"
	"github.com/idena-network/indance-go/stats/collector"
	"github.com/idena-network/indance-go/vm"
	"github.com/pkg/errors"
	dbm "github.com/tendermint/tm-db"
	"math/big"
	"sync"
	"time"
)

var (
	GenesisIsNotFound = errors.New("genesis block is not found")
	ChainNotReady     = errors.New("chain is not initialized")
)

// Blockchain applies transactions one at a time, each in its own block.
type Blockchain struct {
	repo           *database.Repo
	Head           *types.Header
	config         *config.Config
	state          *state.StateDB
	statsCollector collector.StatsCollector
	clock          func() time.Time
	log            log.Logger
	lock           sync.Mutex
}

func NewBlockchain(config *config.Config, db dbm.DB, stateDb *state.StateDB, statsCollector collector.StatsCollector) *Blockchain {
	return &Blockchain{
		repo:           database.NewRepo(db),
		config:         config,
		state:          stateDb,
		statsCollector: statsCollector,
		clock:          time.Now,
		log:            log.New("component", "chain"),
	}
}

// SetClock replaces the wall clock used to stamp new blocks.
func (chain *Blockchain) SetClock(clock func() time.Time) {
	chain.lock.Lock()
	defer chain.lock.Unlock()
	chain.clock = clock
}

func (chain *Blockchain) GetHead() *types.Header {
	chain.lock.Lock()
	defer chain.lock.Unlock()
	return chain.Head
}

func (chain *Blockchain) ContractAddress() common.Address {
	return chain.config.Genesis.ContractAddress
}

func (chain *Blockchain) InitializeChain() error {
	chain.lock.Lock()
	defer chain.lock.Unlock()

	head := chain.repo.ReadHead()
	if head != nil {
		if chain.repo.ReadBlockHeader(1) == nil {
			return GenesisIsNotFound
		}
		if err := chain.state.LoadVersion(head.Height); err != nil {
			return errors.Wrapf(err, "failed to load state at height %d", head.Height)
		}
		if chain.state.Root() != head.Root {
			return errors.Errorf("state root mismatch at height %d", head.Height)
		}
		chain.Head = head
	} else {
		genesis, err := chain.generateGenesis()
		if err != nil {
			return err
		}
		chain.Head = genesis
	}
	chain.log.Info("Chain initialized", "height", chain.Head.Height, "root", chain.Head.Root.Hex())
	chain.log.Info("Contract address", "addr", chain.ContractAddress().Hex())
	return nil
}

func (chain *Blockchain) generateGenesis() (*types.Header, error) {
	genesisConf := chain.config.Genesis
	for addr, amount := range genesisConf.Alloc {
		chain.state.SetBalance(addr, coinsToBase(amount))
	}
	if treasury := coinsToBase(genesisConf.Treasury); treasury.Sign() > 0 {
		chain.state.AddBalance(genesisConf.ContractAddress, treasury)
	}

	header := chain.nextHeader(nil)
	receipt := vm.NewVmImpl(chain.state, header, nil).Run(deployContractTx(genesisConf.ContractAddress, chain.config.Game))
	if !receipt.Success {
		chain.state.Reset()
		return nil, errors.Wrap(receipt.Error, "failed to deploy contract")
	}
	if err := chain.commit(header); err != nil {
		return nil, err
	}
	return header, nil
}

// nextHeader never moves the block time backwards, contracts rely on a monotonic clock.
func (chain *Blockchain) nextHeader(prev *types.Header) *types.Header {
	now := chain.clock().Unix()
	header := &types.Header{Height: 1, Time: now}
	if prev != nil {
		header.Height = prev.Height + 1
		if header.Time < prev.Time {
			header.Time = prev.Time
		}
	}
	return header
}

func (chain *Blockchain) commit(header *types.Header) error {
	root, version, err := chain.state.Commit()
	if err != nil {
		return err
	}
	if uint64(version) != header.Height {
		return errors.Errorf("state version %d does not match block height %d", version, header.Height)
	}
	header.Root = root
	return chain.repo.WriteHead(header)
}

// ApplyTx runs tx in a new block and persists the block whether the call succeeded or not.
func (chain *Blockchain) ApplyTx(tx *types.Transaction) (*types.TxReceipt, error) {
	chain.lock.Lock()
	defer chain.lock.Unlock()
	if chain.Head == nil {
		return nil, ChainNotReady
	}

	header := chain.nextHeader(chain.Head)
	receipt := vm.NewVmImpl(chain.state, header, chain.statsCollector).Run(tx)
	if err := chain.commit(header); err != nil {
		chain.state.Reset()
		return nil, errors.Wrap(err, "failed to commit block")
	}
	chain.Head = header
	if receipt.Success {
		chain.log.Debug("Tx applied", "height", header.Height, "from", tx.From.Hex(), "method", tx.Method)
	} else {
		chain.log.Debug("Tx failed", "height", header.Height, "from", tx.From.Hex(), "method", tx.Method, "err", receipt.Error)
	}
	return receipt, nil
}

// ReadContract runs a read-only method of the game contract against the head state.
// The contract observes the time the next block would carry, so accruals keep moving on an idle chain.
func (chain *Blockchain) ReadContract(method string, args ...[]byte) ([]byte, error) {
	chain.lock.Lock()
	defer chain.lock.Unlock()
	if chain.Head == nil {
		return nil, ChainNotReady
	}
	header := &types.Header{
		Height: chain.Head.Height,
		Time:   chain.nextHeader(chain.Head).Time,
		Root:   chain.Head.Root,
	}
	return vm.NewVmImpl(chain.state, header, nil).Read(chain.ContractAddress(), method, args...)
}

// Now is the time the next block would carry.
func (chain *Blockchain) Now() int64 {
	chain.lock.Lock()
	defer chain.lock.Unlock()
	return chain.nextHeader(chain.Head).Time
}

func (chain *Blockchain) Balance(addr common.Address) *big.Int {
	chain.lock.Lock()
	defer chain.lock.Unlock()
	return new(big.Int).Set(chain.state.GetBalance(addr))
}

func (chain *Blockchain) Supply() (minted *big.Int, burnt *big.Int) {
	chain.lock.Lock()
	defer chain.lock.Unlock()
	return new(big.Int).Set(chain.state.MintedCoins()), new(big.Int).Set(chain.state.BurntCoins())
}
