// Package state is the core API for the energy trading ledger. It wires
// the token ledger, the market engine, and the chain database into one
// pipeline and is the single serialization point for every mutating
// operation: place order, match, settle, queue, mine.
package state

import (
	"sync"

	"github.com/gridwatt/energychain/foundation/energychain/account"
	"github.com/gridwatt/energychain/foundation/energychain/database"
	"github.com/gridwatt/energychain/foundation/energychain/genesis"
	"github.com/gridwatt/energychain/foundation/energychain/market"
	"github.com/gridwatt/energychain/foundation/energychain/mempool"
	"github.com/gridwatt/energychain/foundation/energychain/token"
)

// EventHandler defines a function that is called when events occur in the
// processing of orders, settlements, and blocks.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by
// any package providing support for mining.
type Worker interface {
	Shutdown()
	SignalStartMining()
	SignalCancelMining()
}

// =============================================================================

// Config represents the configuration required to start the node.
type Config struct {
	BeneficiaryID account.ID
	Genesis       genesis.Genesis
	Storage       database.Serializer
	EvHandler     EventHandler
}

// State manages the energy trading ledger.
type State struct {
	mu sync.Mutex

	beneficiaryID account.ID
	genesis       genesis.Genesis
	evHandler     EventHandler

	ledger  *token.Ledger
	market  *market.Market
	db      *database.Database
	mempool *mempool.Mempool

	Worker Worker
}

// New constructs the state from the genesis document, minting the founding
// balances into a fresh ledger and opening the chain database.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	ledger := token.New(cfg.Genesis.Token, nil)

	// The founding balances count as minted supply so conservation holds
	// from the first block.
	for addr, balance := range cfg.Genesis.GridBalances {
		accountID, err := account.ToID(addr)
		if err != nil {
			return nil, err
		}
		if err := ledger.Mint(token.Grid, accountID, balance); err != nil {
			return nil, err
		}
	}
	for addr, balance := range cfg.Genesis.WattBalances {
		accountID, err := account.ToID(addr)
		if err != nil {
			return nil, err
		}
		if err := ledger.Mint(token.Watt, accountID, balance); err != nil {
			return nil, err
		}
	}

	db, err := database.New(cfg.Genesis, cfg.Storage, ev)
	if err != nil {
		return nil, err
	}

	s := State{
		beneficiaryID: cfg.BeneficiaryID,
		genesis:       cfg.Genesis,
		evHandler:     ev,
		ledger:        ledger,
		market:        market.New(cfg.Genesis.Market, ledger, nil),
		db:            db,
		mempool:       mempool.New(),
	}

	return &s, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	// Make sure the database gets closed.
	defer s.db.Close()

	// Stop all blockchain writing activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}

// =============================================================================

// Genesis returns a copy of the genesis information.
func (s *State) Genesis() genesis.Genesis {
	return s.genesis
}

// BeneficiaryID returns the account receiving mining rewards.
func (s *State) BeneficiaryID() account.ID {
	return s.beneficiaryID
}
