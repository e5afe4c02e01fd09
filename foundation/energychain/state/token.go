package state

import (
	"time"

	"github.com/gridwatt/energychain/foundation/energychain/account"
	"github.com/gridwatt/energychain/foundation/energychain/database"
	"github.com/gridwatt/energychain/foundation/energychain/token"
)

// Transfer moves tokens between two accounts and records the movement as a
// pending transaction for the next block.
func (s *State) Transfer(kind token.Kind, from, to account.ID, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ledger.Transfer(kind, from, to, amount); err != nil {
		return err
	}

	s.mempool.Upsert(database.NewTransferTx(kind, from, to, amount))
	if s.Worker != nil {
		s.Worker.SignalStartMining()
	}

	s.evHandler("state: transfer: token[%s] from[%s] to[%s] amount[%d]", kind, from, to, amount)

	return nil
}

// Mint creates new supply for the account. Exposed for the genesis
// authority; ordinary supply growth happens through mining rewards.
func (s *State) Mint(kind token.Kind, to account.ID, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ledger.Mint(kind, to, amount); err != nil {
		return err
	}

	s.evHandler("state: mint: token[%s] to[%s] amount[%d]", kind, to, amount)

	return nil
}

// UpdateTokenPrice sets the reference price for a token.
func (s *State) UpdateTokenPrice(kind token.Kind, newPrice uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ledger.UpdatePrice(kind, newPrice)
}

// =============================================================================

// Stake locks GRID tokens for the account, banking any rewards accrued on
// the existing position first.
func (s *State) Stake(id account.ID, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ledger.Stake(id, amount); err != nil {
		return err
	}

	s.mempool.Upsert(database.NewStakeTx(id, amount))
	if s.Worker != nil {
		s.Worker.SignalStartMining()
	}

	s.evHandler("state: stake: account[%s] amount[%d]", id, amount)

	return nil
}

// Unstake releases part or all of the account's staked GRID.
func (s *State) Unstake(id account.ID, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ledger.Unstake(id, amount); err != nil {
		return err
	}

	s.mempool.Upsert(database.NewUnstakeTx(id, amount))
	if s.Worker != nil {
		s.Worker.SignalStartMining()
	}

	s.evHandler("state: unstake: account[%s] amount[%d]", id, amount)

	return nil
}

// ClaimRewards mints the account's accrued staking rewards into its liquid
// GRID balance and returns the amount claimed.
func (s *State) ClaimRewards(id account.ID) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	claimed, err := s.ledger.ClaimRewards(id)
	if err != nil {
		return 0, err
	}

	s.evHandler("state: claim rewards: account[%s] amount[%d]", id, claimed)

	return claimed, nil
}

// =============================================================================

// CreateProposal opens a new governance proposal and returns its id.
func (s *State) CreateProposal(proposer account.ID, title, description string, votingPeriod time.Duration) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	proposalID, err := s.ledger.CreateProposal(proposer, title, description, votingPeriod)
	if err != nil {
		return 0, err
	}

	s.evHandler("state: create proposal: id[%d] proposer[%s] title[%s]", proposalID, proposer, title)

	return proposalID, nil
}

// CastVote records a stake-weighted vote on an active proposal.
func (s *State) CastVote(proposalID uint64, voter account.ID, support bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ledger.CastVote(proposalID, voter, support); err != nil {
		return err
	}

	vote, _ := s.ledger.VoteFor(proposalID, voter)
	s.mempool.Upsert(database.NewVoteTx(voter, proposalID, support, vote.Power))
	if s.Worker != nil {
		s.Worker.SignalStartMining()
	}

	s.evHandler("state: cast vote: proposal[%d] voter[%s] support[%t] power[%d]", proposalID, voter, support, vote.Power)

	return nil
}

// FinalizeProposal tallies a proposal whose voting window has closed.
func (s *State) FinalizeProposal(proposalID uint64) (token.ProposalStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	status, err := s.ledger.FinalizeProposal(proposalID)
	if err != nil {
		return status, err
	}

	s.evHandler("state: finalize proposal: id[%d] status[%s]", proposalID, status)

	return status, nil
}
