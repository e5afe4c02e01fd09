package market

import (
	"github.com/google/uuid"
	"github.com/gridwatt/energychain/foundation/energychain/token"
	"github.com/gridwatt/energychain/foundation/energychain/units"
)

// insertOrder places the order id into its book under price-time priority:
// the buy book ranks highest price first, the sell book lowest price first,
// ties broken by earliest creation time.
func (m *Market) insertOrder(order Order) {
	book := &m.sellBook
	better := func(a, b Order) bool {
		return a.Price < b.Price || (a.Price == b.Price && a.CreatedAt.Before(b.CreatedAt))
	}

	if order.Side == Buy {
		book = &m.buyBook
		better = func(a, b Order) bool {
			return a.Price > b.Price || (a.Price == b.Price && a.CreatedAt.Before(b.CreatedAt))
		}
	}

	position := len(*book)
	for i, id := range *book {
		if better(order, m.orders[id]) {
			position = i
			break
		}
	}

	*book = append(*book, "")
	copy((*book)[position+1:], (*book)[position:])
	(*book)[position] = order.ID
}

// removeFromBook drops the order id from its book.
func (m *Market) removeFromBook(order Order) {
	book := &m.sellBook
	if order.Side == Buy {
		book = &m.buyBook
	}

	for i, id := range *book {
		if id == order.ID {
			*book = append((*book)[:i], (*book)[i+1:]...)
			return
		}
	}
}

// bestOrder returns the top active order of a book, lazily expiring stale
// orders on the way. Expired orders are deactivated and their escrow or
// reservation released, never swept proactively.
func (m *Market) bestOrder(book []string) (Order, bool) {
	for _, id := range book {
		order := m.orders[id]
		if !order.Active {
			continue
		}

		if m.cfg.OrderExpiry > 0 && m.now().Sub(order.CreatedAt) > m.cfg.OrderExpiry {
			m.releaseOrder(order)
			continue
		}

		return order, true
	}

	return Order{}, false
}

// releaseOrder deactivates the order, removes it from its book, and returns
// the unspent escrow (buy) or remaining energy reservation (sell) to the
// trader.
func (m *Market) releaseOrder(order Order) {
	order.Active = false
	m.orders[order.ID] = order
	m.removeFromBook(order)

	switch order.Side {
	case Buy:
		if remaining := m.escrow[order.ID]; remaining > 0 {
			// The escrow account always holds at least what this market
			// reserved, so the release transfer cannot fail.
			m.ledger.Transfer(token.Watt, m.cfg.EscrowAccount, order.Trader, remaining)
		}
		delete(m.escrow, order.ID)

	case Sell:
		m.reserved[order.Trader] -= order.Remaining()
	}
}

// matchOrders runs the continuous double auction until no cross remains.
// The execution price is the resting order's price: the incoming order
// takes at the price already published in the book. Each match settles
// immediately through the token ledger and emits one Trade.
func (m *Market) matchOrders(incomingID string) []Trade {
	var trades []Trade

	for {
		buy, haveBuy := m.bestOrder(m.buyBook)
		sell, haveSell := m.bestOrder(m.sellBook)
		if !haveBuy || !haveSell || buy.Price < sell.Price {
			break
		}

		price := sell.Price
		if sell.ID == incomingID {
			price = buy.Price
		}

		matched := min(buy.Remaining(), sell.Remaining())
		base := units.BaseCost(matched, price)
		fee := units.FeeOn(base, m.cfg.GridFeeRate)

		// Pay the seller from the buyer's escrow, then route the fee to
		// the sink account or burn it per configuration.
		m.ledger.Transfer(token.Watt, m.cfg.EscrowAccount, sell.Trader, base)
		if fee > 0 {
			if m.cfg.BurnGridFees {
				m.ledger.Burn(token.Watt, m.cfg.EscrowAccount, fee)
			} else {
				m.ledger.Transfer(token.Watt, m.cfg.EscrowAccount, m.cfg.FeeAccount, fee)
			}
		}
		m.escrow[buy.ID] -= base + fee

		trade := Trade{
			ID:           uuid.New().String(),
			Buyer:        buy.Trader,
			Seller:       sell.Trader,
			EnergyAmount: matched,
			Price:        price,
			BaseCost:     base,
			GridFee:      fee,
			TotalCost:    base + fee,
			CreatedAt:    m.now(),
			BuyOrderID:   buy.ID,
			SellOrderID:  sell.ID,
		}
		trades = append(trades, trade)
		m.trades = append(m.trades, trade)

		m.lastTradePrice = price
		m.totalEnergyTraded += matched
		m.totalVolume += base
		m.totalGridFees += fee

		// Move the delivered energy between the two meters.
		buyer := m.prosumers[buy.Trader]
		buyer.EnergyBought += matched
		m.prosumers[buy.Trader] = buyer

		seller := m.prosumers[sell.Trader]
		seller.EnergySold += matched
		m.prosumers[sell.Trader] = seller
		m.reserved[sell.Trader] -= matched

		buy.Filled += matched
		m.orders[buy.ID] = buy
		if buy.Filled == buy.EnergyAmount {
			m.releaseOrder(buy)
		}

		sell.Filled += matched
		m.orders[sell.ID] = sell
		if sell.Filled == sell.EnergyAmount {
			sell.Active = false
			m.orders[sell.ID] = sell
			m.removeFromBook(sell)
		}
	}

	return trades
}
