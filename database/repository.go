package database

import (
	"encoding/binary"
	"github.com/idena-network/indance-go/blockchain/types"
	"github.com/idena-network/indance-go/log"
	"github.com/pkg/errors"
	dbm "github.com/tendermint/tm-db"
)

type Repo struct {
	db dbm.DB
}

func NewRepo(db dbm.DB) *Repo {
	return &Repo{
		db: db,
	}
}

// encodeBlockNumber encodes a block number as big endian uint64
func encodeBlockNumber(number uint64) []byte {
	enc := make([]byte, 8)
	binary.BigEndian.PutUint64(enc, number)
	return enc
}

// headerKey = headerPrefix + num
func headerKey(height uint64) []byte {
	return append(append([]byte{}, headerPrefix...), encodeBlockNumber(height)...)
}

func (r *Repo) readHeader(key []byte) *types.Header {
	data, err := r.db.Get(key)
	if err != nil {
		log.Error("Failed to read block header", "err", err)
		return nil
	}
	if data == nil {
		return nil
	}
	header := new(types.Header)
	if err := header.FromBytes(data); err != nil {
		log.Error("Invalid block header", "err", err)
		return nil
	}
	return header
}

func (r *Repo) ReadHead() *types.Header {
	return r.readHeader(headBlockKey)
}

func (r *Repo) ReadBlockHeader(height uint64) *types.Header {
	return r.readHeader(headerKey(height))
}

// WriteHead stores header both by height and as the chain head in one batch.
func (r *Repo) WriteHead(header *types.Header) error {
	data := header.ToBytes()
	batch := r.db.NewBatch()
	defer batch.Close()
	batch.Set(headerKey(header.Height), data)
	batch.Set(headBlockKey, data)
	return errors.Wrap(batch.WriteSync(), "failed to write head")
}
