package state

import (
	"context"
	"errors"

	"github.com/gridwatt/energychain/foundation/energychain/database"
	"github.com/gridwatt/energychain/foundation/energychain/token"
)

// ErrNoTransactions is returned when a block is requested to be mined
// with no pending transactions.
var ErrNoTransactions = errors.New("no transactions in mempool")

// MineNewBlock attempts to create a new block with a proper hash. The proof
// of work search runs outside the state lock so market activity continues
// while the node mines; the lock is only taken to commit the solved block.
func (s *State) MineNewBlock(ctx context.Context) (database.Block, error) {
	if s.mempool.Count() == 0 {
		return database.Block{}, ErrNoTransactions
	}

	trans := s.mempool.PickBest()
	trans = append(trans, database.NewRewardTx(s.beneficiaryID, s.genesis.MiningReward))

	difficulty := uint(s.genesis.Difficulty)

	// Attempt to create a new block by solving the POW puzzle. This can
	// be cancelled.
	block, err := database.POW(ctx, s.beneficiaryID, difficulty, s.db.LatestBlock(), trans, s.evHandler)
	if err != nil {
		return database.Block{}, err
	}

	// Just check one more time we were not cancelled.
	if ctx.Err() != nil {
		return database.Block{}, ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate the block against the current tip and write it through to
	// storage.
	if err := s.db.Append(block); err != nil {
		return database.Block{}, err
	}

	// Remove the mined transactions from the pool. Transactions that
	// arrived while the puzzle was being solved stay pending.
	for _, tx := range block.Trans {
		s.mempool.Delete(tx)
	}

	// Pay the beneficiary. The reward is new GRID supply.
	if err := s.ledger.Mint(token.Grid, s.beneficiaryID, s.genesis.MiningReward); err != nil {
		return database.Block{}, err
	}

	s.evHandler("state: mine block: number[%d] hash[%s] trans[%d]", block.Header.Number, block.Hash(), len(block.Trans))

	return block, nil
}

// ValidateChain walks the full chain from genesis verifying every block's
// hash, difficulty, and link to its parent.
func (s *State) ValidateChain() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.ValidateChain()
}
