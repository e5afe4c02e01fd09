// Package database maintains the append-only chain of blocks and the
// pluggable storage used to persist them.
package database

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gridwatt/energychain/foundation/energychain/genesis"
)

// ErrChainInvalid is returned from ValidateChain when history fails its
// integrity walk. This is fatal to the process's view of history; there is
// no automatic recovery because blocks are immutable once appended.
var ErrChainInvalid = errors.New("chain validation failed")

// ErrBlockNotFound is returned when a block lookup misses.
var ErrBlockNotFound = errors.New("block not found")

// =============================================================================

// Serializer interface represents the behavior required to be implemented
// by any package providing support for storing and reading the chain.
type Serializer interface {
	Write(blockData BlockData) error
	GetBlock(num uint64) (BlockData, error)
	ForEach() Iterator
	Close() error
	Reset() error
}

// Iterator interface represents the behavior required to be implemented by
// any package providing support to iterate over the blocks.
type Iterator interface {
	Next() (BlockData, error)
	Done() bool
}

// =============================================================================

// Database manages the in-memory view of the chain and writes every
// appended block through the configured serializer.
type Database struct {
	mu sync.RWMutex

	genesis    genesis.Genesis
	blocks     []BlockData
	serializer Serializer
}

// New constructs the chain database. An empty store gets a genesis block
// derived from the genesis document; otherwise all stored blocks are read
// back and link-checked on the way in.
func New(gen genesis.Genesis, serializer Serializer, evHandler func(v string, args ...any)) (*Database, error) {
	db := Database{
		genesis:    gen,
		serializer: serializer,
	}

	iter := db.serializer.ForEach()
	for blockData, err := iter.Next(); !iter.Done(); blockData, err = iter.Next() {
		if err != nil {
			return nil, err
		}

		// The stored hash must match what the stored fields hash to, for
		// the genesis entry as much as any other block.
		if hash := ToBlock(blockData).Hash(); hash != blockData.Hash {
			return nil, fmt.Errorf("stored block %d hash %s does not match computed %s", blockData.Header.Number, blockData.Hash, hash)
		}

		if blockData.Header.Number > 0 {
			prev := ToBlock(db.blocks[len(db.blocks)-1])
			if err := ToBlock(blockData).ValidateBlock(prev, evHandler); err != nil {
				return nil, err
			}
		}

		db.blocks = append(db.blocks, blockData)
	}

	// A fresh store starts the chain with the genesis block.
	if len(db.blocks) == 0 {
		genesisBlock := Block{
			Header: BlockHeader{
				Number:        0,
				TimeStamp:     uint64(gen.Date.UTC().Unix()),
				PrevBlockHash: zeroHash,
				Difficulty:    uint(gen.Difficulty),
			},
		}

		blockData := NewBlockData(genesisBlock)
		if err := db.serializer.Write(blockData); err != nil {
			return nil, err
		}
		db.blocks = append(db.blocks, blockData)

		evHandler("database: New: created genesis block: hash[%s]", blockData.Hash)
	}

	return &db, nil
}

// Close closes the underlying block store.
func (db *Database) Close() {
	db.serializer.Close()
}

// =============================================================================

// Append validates the block against the current tip, persists it, and
// makes it the new latest block.
func (db *Database) Append(block Block) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	latest := ToBlock(db.blocks[len(db.blocks)-1])
	if err := block.ValidateBlock(latest, func(v string, args ...any) {}); err != nil {
		return err
	}

	blockData := NewBlockData(block)
	if err := db.serializer.Write(blockData); err != nil {
		return err
	}
	db.blocks = append(db.blocks, blockData)

	return nil
}

// LatestBlock returns the current tip of the chain.
func (db *Database) LatestBlock() Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return ToBlock(db.blocks[len(db.blocks)-1])
}

// Height returns the number of the latest block.
func (db *Database) Height() uint64 {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.blocks[len(db.blocks)-1].Header.Number
}

// BlockByNumber returns the stored block with the specified number.
func (db *Database) BlockByNumber(num uint64) (BlockData, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if num >= uint64(len(db.blocks)) {
		return BlockData{}, ErrBlockNotFound
	}

	return db.blocks[num], nil
}

// Blocks returns a copy of the full chain from genesis.
func (db *Database) Blocks() []BlockData {
	db.mu.RLock()
	defer db.mu.RUnlock()

	blocks := make([]BlockData, len(db.blocks))
	copy(blocks, db.blocks)

	return blocks
}

// =============================================================================

// ValidateChain walks the chain from genesis, recomputing every block's
// hash from its stored fields and checking every previous-hash link. The
// first mismatch fails the walk.
func (db *Database) ValidateChain() error {
	db.mu.RLock()
	defer db.mu.RUnlock()

	// The genesis block carries no link or difficulty obligations, but its
	// stored hash must still match its stored fields.
	genesis := db.blocks[0]
	if hash := ToBlock(genesis).Hash(); hash != genesis.Hash {
		return fmt.Errorf("%w: genesis stored hash %s does not match computed %s", ErrChainInvalid, genesis.Hash, hash)
	}

	for i := 1; i < len(db.blocks); i++ {
		current := db.blocks[i]
		previous := db.blocks[i-1]

		if hash := ToBlock(current).Hash(); hash != current.Hash {
			return fmt.Errorf("%w: block %d stored hash %s does not match computed %s", ErrChainInvalid, current.Header.Number, current.Hash, hash)
		}

		if !isHashSolved(current.Header.Difficulty, current.Hash) {
			return fmt.Errorf("%w: block %d hash %s does not satisfy difficulty %d", ErrChainInvalid, current.Header.Number, current.Hash, current.Header.Difficulty)
		}

		if current.Header.PrevBlockHash != previous.Hash {
			return fmt.Errorf("%w: block %d previous hash %s does not match block %d hash %s", ErrChainInvalid, current.Header.Number, current.Header.PrevBlockHash, previous.Header.Number, previous.Hash)
		}
	}

	return nil
}
