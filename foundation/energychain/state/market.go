package state

import (
	"github.com/gridwatt/energychain/foundation/energychain/account"
	"github.com/gridwatt/energychain/foundation/energychain/database"
	"github.com/gridwatt/energychain/foundation/energychain/market"
)

// RegisterProsumer adds a new participant to the market registry.
func (s *State) RegisterProsumer(address account.ID, name string, pt market.ProsumerType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.market.RegisterProsumer(address, name, pt); err != nil {
		return err
	}

	s.evHandler("state: register prosumer: address[%s] name[%s] type[%s]", address, name, pt)

	return nil
}

// RecordGeneration records metered energy production for a prosumer.
func (s *State) RecordGeneration(address account.ID, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.market.RecordGeneration(address, amount)
}

// RecordConsumption records metered energy consumption for a prosumer.
func (s *State) RecordConsumption(address account.ID, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.market.RecordConsumption(address, amount)
}

// =============================================================================

// PlaceOrder books a new order and runs the matching loop. Every trade the
// placement settles is recorded as a pair of transactions in the mempool
// and the mining worker is signaled to capture them in a block.
func (s *State) PlaceOrder(trader account.ID, side market.Side, amount uint64, price uint64) (string, []market.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orderID, trades, err := s.market.PlaceOrder(trader, side, amount, price)
	if err != nil {
		return "", nil, err
	}

	s.evHandler("state: place order: id[%s] trader[%s] side[%s] amount[%d] price[%d] trades[%d]",
		orderID, trader, side, amount, price, len(trades))

	for _, trade := range trades {
		s.mempool.Upsert(database.NewEnergyTradeTx(trade.Buyer, trade.Seller, trade.EnergyAmount, trade.Price, trade.BaseCost))

		if trade.GridFee > 0 {
			sink := s.market.Config().FeeAccount
			if s.market.Config().BurnGridFees {
				sink = ""
			}
			s.mempool.Upsert(database.NewGridFeeTx(trade.Buyer, sink, trade.GridFee))
		}
	}

	if len(trades) > 0 && s.Worker != nil {
		s.Worker.SignalStartMining()
	}

	return orderID, trades, nil
}

// CancelOrder removes the trader's active order, releasing any remaining
// escrow or energy reservation.
func (s *State) CancelOrder(trader account.ID, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.market.CancelOrder(trader, orderID); err != nil {
		return err
	}

	s.evHandler("state: cancel order: id[%s] trader[%s]", orderID, trader)

	return nil
}

// OpenMarket allows new order placement.
func (s *State) OpenMarket() {
	s.market.OpenMarket()
	s.evHandler("state: market opened")
}

// CloseMarket rejects new order placement until the market reopens.
func (s *State) CloseMarket() {
	s.market.CloseMarket()
	s.evHandler("state: market closed")
}
