// Package leveldb implements the ability to read and write blocks to a
// LevelDB key/value store.
package leveldb

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/gridwatt/energychain/foundation/energychain/database"
)

// Key layout inside the store.
const (
	blockKeyPrefix = "block_" // Blocks keyed by number.
	heightKey      = "height" // Latest block number.
)

// LevelDB represents the serialization implementation for reading and
// storing blocks in a LevelDB database. This implements the
// database.Serializer interface.
type LevelDB struct {
	db *leveldb.DB
}

// New opens the LevelDB database at the specified path.
func New(dbPath string) (*LevelDB, error) {
	options := opt.Options{
		BlockCacheCapacity: 8 * 1024 * 1024,
		WriteBuffer:        4 * 1024 * 1024,
	}

	db, err := leveldb.OpenFile(dbPath, &options)
	if err != nil {
		return nil, fmt.Errorf("open block database: %w", err)
	}

	return &LevelDB{db: db}, nil
}

// Close closes the database connection.
func (l *LevelDB) Close() error {
	return l.db.Close()
}

// Write takes the specified block and stores it under its number,
// advancing the recorded height in the same batch.
func (l *LevelDB) Write(blockData database.BlockData) error {
	data, err := json.Marshal(blockData)
	if err != nil {
		return fmt.Errorf("marshal block: %w", err)
	}

	batch := new(leveldb.Batch)
	batch.Put([]byte(blockKey(blockData.Header.Number)), data)
	batch.Put([]byte(heightKey), []byte(fmt.Sprintf("%d", blockData.Header.Number)))

	if err := l.db.Write(batch, nil); err != nil {
		return fmt.Errorf("write block %d: %w", blockData.Header.Number, err)
	}

	return nil
}

// GetBlock locates and returns the contents of the specified block
// by number.
func (l *LevelDB) GetBlock(num uint64) (database.BlockData, error) {
	data, err := l.db.Get([]byte(blockKey(num)), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return database.BlockData{}, fmt.Errorf("block %d does not exist", num)
		}
		return database.BlockData{}, fmt.Errorf("read block %d: %w", num, err)
	}

	var blockData database.BlockData
	if err := json.Unmarshal(data, &blockData); err != nil {
		return database.BlockData{}, fmt.Errorf("unmarshal block %d: %w", num, err)
	}

	return blockData, nil
}

// ForEach returns an iterator to walk through all the blocks starting
// with genesis.
func (l *LevelDB) ForEach() database.Iterator {
	return &levelDBIterator{store: l}
}

// Reset drops every stored block.
func (l *LevelDB) Reset() error {
	iter := l.db.NewIterator(nil, nil)
	defer iter.Release()

	batch := new(leveldb.Batch)
	for iter.Next() {
		batch.Delete(iter.Key())
	}

	if err := iter.Error(); err != nil {
		return err
	}

	return l.db.Write(batch, nil)
}

// blockKey forms the storage key for the specified block number.
func blockKey(num uint64) string {
	return fmt.Sprintf("%s%d", blockKeyPrefix, num)
}

// =============================================================================

// levelDBIterator represents the iteration implementation for walking
// through and reading blocks in the store. This implements the
// database.Iterator interface.
type levelDBIterator struct {
	store   *LevelDB
	current uint64
	eoc     bool
}

// Next retrieves the next block from the store.
func (li *levelDBIterator) Next() (database.BlockData, error) {
	if li.eoc {
		return database.BlockData{}, errors.New("end of chain")
	}

	blockData, err := li.store.GetBlock(li.current)
	if err != nil {
		li.eoc = true
	}

	li.current++

	return blockData, err
}

// Done returns the end of chain value.
func (li *levelDBIterator) Done() bool {
	return li.eoc
}
