// Package mempool maintains the pool of transactions waiting to be mined
// into a block.
package mempool

import (
	"sort"
	"sync"

	"github.com/gridwatt/energychain/foundation/energychain/database"
)

// Mempool represents a cache of transactions keyed by transaction id.
type Mempool struct {
	mu   sync.RWMutex
	pool map[string]database.Tx
}

// New constructs a new mempool.
func New() *Mempool {
	return &Mempool{
		pool: make(map[string]database.Tx),
	}
}

// Count returns the current number of transactions in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Upsert adds or replaces a transaction in the mempool.
func (mp *Mempool) Upsert(tx database.Tx) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool[tx.ID] = tx

	return len(mp.pool)
}

// Delete removes a transaction from the mempool.
func (mp *Mempool) Delete(tx database.Tx) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	delete(mp.pool, tx.ID)
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = make(map[string]database.Tx)
}

// PickBest returns a point-in-time snapshot of the pool in arrival order:
// oldest timestamp first, ties broken by id so the order is deterministic.
func (mp *Mempool) PickBest() []database.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	txs := make([]database.Tx, 0, len(mp.pool))
	for _, tx := range mp.pool {
		txs = append(txs, tx)
	}

	sort.Slice(txs, func(i, j int) bool {
		if txs[i].TimeStamp != txs[j].TimeStamp {
			return txs[i].TimeStamp < txs[j].TimeStamp
		}
		return txs[i].ID < txs[j].ID
	})

	return txs
}
