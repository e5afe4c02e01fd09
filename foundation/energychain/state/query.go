package state

import (
	"github.com/gridwatt/energychain/foundation/energychain/account"
	"github.com/gridwatt/energychain/foundation/energychain/database"
	"github.com/gridwatt/energychain/foundation/energychain/market"
	"github.com/gridwatt/energychain/foundation/energychain/token"
)

// Balance returns the liquid balance of the specified token for an account.
func (s *State) Balance(kind token.Kind, id account.ID) uint64 {
	return s.ledger.Balance(kind, id)
}

// Balances returns the full balance map for the specified token.
func (s *State) Balances(kind token.Kind) map[account.ID]uint64 {
	return s.ledger.CopyBalances(kind)
}

// TotalSupply returns the minted supply of the specified token.
func (s *State) TotalSupply(kind token.Kind) uint64 {
	return s.ledger.TotalSupply(kind)
}

// TokenInfo returns the metadata for the specified token.
func (s *State) TokenInfo(kind token.Kind) (token.Info, bool) {
	return s.ledger.TokenInfo(kind)
}

// StakeInfo returns the staking position for an account.
func (s *State) StakeInfo(id account.ID) (token.Stake, bool) {
	return s.ledger.StakeInfo(id)
}

// PendingRewards returns the rewards the account could claim right now.
func (s *State) PendingRewards(id account.ID) uint64 {
	return s.ledger.CalculateRewards(id)
}

// TotalStaked returns the GRID locked across all staking positions.
func (s *State) TotalStaked() uint64 {
	return s.ledger.TotalStaked()
}

// Proposal returns the governance proposal with the specified id.
func (s *State) Proposal(proposalID uint64) (token.Proposal, bool) {
	return s.ledger.Proposal(proposalID)
}

// Proposals returns all governance proposals ordered by id.
func (s *State) Proposals() []token.Proposal {
	return s.ledger.Proposals()
}

// =============================================================================

// Prosumer returns the registered prosumer for the address.
func (s *State) Prosumer(address account.ID) (market.Prosumer, bool) {
	return s.market.Prosumer(address)
}

// SellableEnergy returns the energy the prosumer can still offer for sale.
func (s *State) SellableEnergy(address account.ID) (uint64, error) {
	return s.market.SellableEnergy(address)
}

// Order returns the order with the specified id.
func (s *State) Order(orderID string) (market.Order, bool) {
	return s.market.Order(orderID)
}

// OrderBook returns the active buy and sell books in priority order.
func (s *State) OrderBook() ([]market.Order, []market.Order) {
	return s.market.OrderBook()
}

// Trades returns all executed trades in execution order.
func (s *State) Trades() []market.Trade {
	return s.market.Trades()
}

// MarketPrice returns the last executed trade price.
func (s *State) MarketPrice() uint64 {
	return s.market.MarketPrice()
}

// MarketStatistics returns the current market projection.
func (s *State) MarketStatistics() market.Statistics {
	return s.market.Statistics()
}

// =============================================================================

// Mempool returns a copy of the pending transactions in mining priority.
func (s *State) Mempool() []database.Tx {
	return s.mempool.PickBest()
}

// MempoolLength returns the current number of pending transactions.
func (s *State) MempoolLength() int {
	return s.mempool.Count()
}

// LatestBlock returns a copy of the current tip of the chain.
func (s *State) LatestBlock() database.Block {
	return s.db.LatestBlock()
}

// ChainHeight returns the number of blocks in the chain.
func (s *State) ChainHeight() uint64 {
	return s.db.Height()
}

// BlockByNumber returns the stored block with the specified number.
func (s *State) BlockByNumber(num uint64) (database.BlockData, error) {
	return s.db.BlockByNumber(num)
}

// Blocks returns the full chain from genesis to tip.
func (s *State) Blocks() []database.BlockData {
	return s.db.Blocks()
}
