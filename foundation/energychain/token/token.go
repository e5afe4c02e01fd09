// Package token implements the dual-token ledger: the GRID governance token
// and the WATT settlement token, plus staking and governance voting. Every
// mutating operation validates all preconditions before touching state so a
// failed call leaves the ledger unchanged.
package token

import (
	"sync"
	"time"

	"github.com/gridwatt/energychain/foundation/energychain/account"
)

// Kind identifies one of the two tokens managed by the ledger.
type Kind uint8

const (
	// Grid is the utility/governance token. It can be staked and carries
	// voting weight.
	Grid Kind = iota

	// Watt is the settlement stablecoin, pegged 1:1 to the reference
	// currency. Trades settle in WATT.
	Watt
)

// String implements the fmt.Stringer interface.
func (k Kind) String() string {
	switch k {
	case Grid:
		return "GRID"
	case Watt:
		return "WATT"
	}
	return "UNKNOWN"
}

// MarshalText implements the encoding.TextMarshaler interface.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (k *Kind) UnmarshalText(data []byte) error {
	switch string(data) {
	case "GRID":
		*k = Grid
	case "WATT":
		*k = Watt
	default:
		return ErrTokenNotFound
	}
	return nil
}

// =============================================================================

// Config represents the ledger parameters that come from the genesis file.
type Config struct {
	MinStakeAmount     uint64        `json:"min_stake_amount"`     // Minimum GRID units per stake call.
	StakingRewardRate  uint64        `json:"staking_reward_rate"`  // Annual reward rate in basis points.
	VotingPeriod       time.Duration `json:"voting_period"`        // Default voting window for proposals.
	MinProposalBalance uint64        `json:"min_proposal_balance"` // Liquid GRID required to create a proposal.
}

// Info represents the supply and reference-price record kept per token.
type Info struct {
	Kind        Kind   `json:"kind"`
	TotalSupply uint64 `json:"total_supply"` // Cumulative minted minus burned.
	Price       uint64 `json:"price"`        // Reference price in basis points, 10000 = 1 unit of the reference currency.
	Active      bool   `json:"active"`
}

// Stake represents the staked position held by one account. The staked
// amount is disjoint from the liquid balance.
type Stake struct {
	Amount         uint64    `json:"amount"`
	Start          time.Time `json:"start"`
	LastRewardTime time.Time `json:"last_reward_time"`
	Unclaimed      uint64    `json:"unclaimed"`
}

// =============================================================================

// voteKey uniquely identifies a vote so an account can vote once per proposal.
type voteKey struct {
	proposalID uint64
	voter      account.ID
}

// Ledger manages the address-keyed balance tables for both tokens along
// with the staking and governance state machines.
type Ledger struct {
	mu sync.RWMutex

	cfg       Config
	balances  map[Kind]map[account.ID]uint64
	info      map[Kind]Info
	stakes    map[account.ID]Stake
	proposals map[uint64]Proposal
	votes     map[voteKey]Vote

	totalStaked    uint64
	nextProposalID uint64

	now func() time.Time
}

// New constructs a ledger with both tokens registered and empty balance
// tables. The clock is injectable so tests can control reward accrual and
// voting windows; a nil clock means wall time.
func New(cfg Config, clock func() time.Time) *Ledger {
	if clock == nil {
		clock = time.Now
	}

	l := Ledger{
		cfg: cfg,
		balances: map[Kind]map[account.ID]uint64{
			Grid: make(map[account.ID]uint64),
			Watt: make(map[account.ID]uint64),
		},
		info: map[Kind]Info{
			Grid: {Kind: Grid, Price: 10_000, Active: true},
			Watt: {Kind: Watt, Price: 10_000, Active: true},
		},
		stakes:         make(map[account.ID]Stake),
		proposals:      make(map[uint64]Proposal),
		votes:          make(map[voteKey]Vote),
		nextProposalID: 1,
		now:            clock,
	}

	return &l
}

// Config returns the ledger configuration.
func (l *Ledger) Config() Config {
	return l.cfg
}

// =============================================================================

// Mint credits new tokens to the account and grows the recorded supply.
func (l *Ledger) Mint(kind Kind, to account.ID, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	info, exists := l.info[kind]
	if !exists {
		return ErrTokenNotFound
	}

	l.balances[kind][to] += amount
	info.TotalSupply += amount
	l.info[kind] = info

	return nil
}

// Burn destroys tokens held in the account's liquid balance and shrinks the
// recorded supply.
func (l *Ledger) Burn(kind Kind, from account.ID, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	info, exists := l.info[kind]
	if !exists {
		return ErrTokenNotFound
	}

	if l.balances[kind][from] < amount {
		return ErrInsufficientBalance
	}

	l.balances[kind][from] -= amount
	info.TotalSupply -= amount
	l.info[kind] = info

	return nil
}

// Transfer moves tokens between two liquid balances as one atomic
// debit/credit. A debit that would go negative fails without mutating state.
func (l *Ledger) Transfer(kind Kind, from, to account.ID, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.info[kind]; !exists {
		return ErrTokenNotFound
	}

	if l.balances[kind][from] < amount {
		return ErrInsufficientBalance
	}

	l.balances[kind][from] -= amount
	l.balances[kind][to] += amount

	return nil
}

// UpdatePrice records a new reference price for stability reporting. The
// price is not enforced against trade pricing.
func (l *Ledger) UpdatePrice(kind Kind, newPrice uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	info, exists := l.info[kind]
	if !exists {
		return ErrTokenNotFound
	}

	info.Price = newPrice
	l.info[kind] = info

	return nil
}

// =============================================================================

// Balance returns the liquid balance held by the account for the token.
func (l *Ledger) Balance(kind Kind, id account.ID) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.balances[kind][id]
}

// TotalSupply returns the cumulative minted minus burned amount for the token.
func (l *Ledger) TotalSupply(kind Kind) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.info[kind].TotalSupply
}

// TokenInfo returns the supply and price record for the token.
func (l *Ledger) TokenInfo(kind Kind) (Info, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	info, exists := l.info[kind]
	return info, exists
}

// CopyBalances makes a copy of the current balance table for the token.
func (l *Ledger) CopyBalances(kind Kind) map[account.ID]uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	balances := make(map[account.ID]uint64, len(l.balances[kind]))
	for id, balance := range l.balances[kind] {
		balances[id] = balance
	}

	return balances
}
