package token

import (
	"sort"
	"time"

	"github.com/gridwatt/energychain/foundation/energychain/account"
)

// ProposalStatus represents the lifecycle state of a governance proposal.
// Passed and Rejected are terminal.
type ProposalStatus uint8

const (
	StatusActive ProposalStatus = iota
	StatusPassed
	StatusRejected
)

// String implements the fmt.Stringer interface.
func (ps ProposalStatus) String() string {
	switch ps {
	case StatusActive:
		return "Active"
	case StatusPassed:
		return "Passed"
	case StatusRejected:
		return "Rejected"
	}
	return "Unknown"
}

// MarshalText implements the encoding.TextMarshaler interface.
func (ps ProposalStatus) MarshalText() ([]byte, error) {
	return []byte(ps.String()), nil
}

// Proposal represents a governance proposal with its token-weighted tallies.
type Proposal struct {
	ID           uint64         `json:"id"`
	Proposer     account.ID     `json:"proposer"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	VotingStart  time.Time      `json:"voting_start"`
	VotingEnd    time.Time      `json:"voting_end"`
	VotesFor     uint64         `json:"votes_for"`
	VotesAgainst uint64         `json:"votes_against"`
	Status       ProposalStatus `json:"status"`
}

// Vote represents one account's vote on one proposal.
type Vote struct {
	Voter      account.ID `json:"voter"`
	ProposalID uint64     `json:"proposal_id"`
	Support    bool       `json:"support"`
	Power      uint64     `json:"power"`
}

// =============================================================================

// CreateProposal opens a new proposal for voting. The proposer must hold at
// least the configured minimum liquid GRID balance. A non-positive voting
// period falls back to the configured default.
func (l *Ledger) CreateProposal(proposer account.ID, title string, description string, votingPeriod time.Duration) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.balances[Grid][proposer] < l.cfg.MinProposalBalance {
		return 0, ErrInsufficientBalance
	}

	if votingPeriod <= 0 {
		votingPeriod = l.cfg.VotingPeriod
	}

	now := l.now()
	proposalID := l.nextProposalID

	l.proposals[proposalID] = Proposal{
		ID:          proposalID,
		Proposer:    proposer,
		Title:       title,
		Description: description,
		VotingStart: now,
		VotingEnd:   now.Add(votingPeriod),
		Status:      StatusActive,
	}
	l.nextProposalID++

	return proposalID, nil
}

// CastVote records a vote weighted by the voter's staked GRID at call time.
// An account votes at most once per proposal and never on its own proposal.
func (l *Ledger) CastVote(proposalID uint64, voter account.ID, support bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	proposal, exists := l.proposals[proposalID]
	if !exists {
		return ErrProposalNotFound
	}

	if proposal.Status != StatusActive {
		return ErrProposalNotActive
	}

	if l.now().After(proposal.VotingEnd) {
		return ErrVotingPeriodEnded
	}

	if _, voted := l.votes[voteKey{proposalID, voter}]; voted {
		return ErrAlreadyVoted
	}

	if proposal.Proposer == voter {
		return ErrCannotVoteOnOwnProposal
	}

	power := l.stakes[voter].Amount
	if power == 0 {
		return ErrNotStaking
	}

	l.votes[voteKey{proposalID, voter}] = Vote{
		Voter:      voter,
		ProposalID: proposalID,
		Support:    support,
		Power:      power,
	}

	if support {
		proposal.VotesFor += power
	} else {
		proposal.VotesAgainst += power
	}
	l.proposals[proposalID] = proposal

	return nil
}

// FinalizeProposal closes a proposal whose voting window has ended, marking
// it Passed when the for-tally strictly exceeds the against-tally. A second
// call on the same proposal fails since the status is no longer Active.
func (l *Ledger) FinalizeProposal(proposalID uint64) (ProposalStatus, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	proposal, exists := l.proposals[proposalID]
	if !exists {
		return 0, ErrProposalNotFound
	}

	if proposal.Status != StatusActive {
		return 0, ErrProposalNotActive
	}

	if !l.now().After(proposal.VotingEnd) {
		return 0, ErrVotingStillOpen
	}

	if proposal.VotesFor > proposal.VotesAgainst {
		proposal.Status = StatusPassed
	} else {
		proposal.Status = StatusRejected
	}
	l.proposals[proposalID] = proposal

	return proposal.Status, nil
}

// =============================================================================

// Proposal returns the proposal with the specified id.
func (l *Ledger) Proposal(proposalID uint64) (Proposal, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	proposal, exists := l.proposals[proposalID]
	return proposal, exists
}

// Proposals returns all proposals known to the ledger, ordered by id.
func (l *Ledger) Proposals() []Proposal {
	l.mu.RLock()
	defer l.mu.RUnlock()

	proposals := make([]Proposal, 0, len(l.proposals))
	for _, proposal := range l.proposals {
		proposals = append(proposals, proposal)
	}

	sort.Slice(proposals, func(i, j int) bool { return proposals[i].ID < proposals[j].ID })

	return proposals
}

// VoteFor returns the vote the account cast on the proposal, if any.
func (l *Ledger) VoteFor(proposalID uint64, voter account.ID) (Vote, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	vote, exists := l.votes[voteKey{proposalID, voter}]
	return vote, exists
}
