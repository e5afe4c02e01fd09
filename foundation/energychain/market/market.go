// Package market implements the prosumer registry, the buy/sell order
// books, and the continuous double auction that settles energy trades
// against the token ledger. The ledger handle is injected so the market
// never owns token state; it only instructs transfers between the trader
// accounts, the escrow account, and the grid-fee sink.
package market

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gridwatt/energychain/foundation/energychain/account"
	"github.com/gridwatt/energychain/foundation/energychain/token"
	"github.com/gridwatt/energychain/foundation/energychain/units"
)

// Config represents the market parameters that come from the genesis file.
type Config struct {
	GridFeeRate   uint64        `json:"grid_fee_rate"`  // Basis points charged on each trade's base cost.
	MinOrderSize  uint64        `json:"min_order_size"` // Centi-kWh.
	MaxOrderSize  uint64        `json:"max_order_size"` // Centi-kWh.
	MinPrice      uint64        `json:"min_price"`      // 1/10000 WATT per kWh.
	MaxPrice      uint64        `json:"max_price"`      // 1/10000 WATT per kWh.
	OrderExpiry   time.Duration `json:"order_expiry"`   // Zero disables expiry.
	MarketOpen    bool          `json:"market_open"`
	DefaultPrice  uint64        `json:"default_price"` // Market price reported before the first trade.
	BurnGridFees  bool          `json:"burn_grid_fees"`
	FeeAccount    account.ID    `json:"fee_account"`
	EscrowAccount account.ID    `json:"escrow_account"`
}

// Market manages prosumers, order books, and trade execution.
type Market struct {
	mu sync.RWMutex

	cfg    Config
	ledger *token.Ledger

	prosumers map[account.ID]Prosumer
	orders    map[string]Order
	buyBook   []string // Order ids, highest price first, ties by earliest creation.
	sellBook  []string // Order ids, lowest price first, ties by earliest creation.

	escrow   map[string]uint64     // Remaining escrowed WATT per buy order.
	reserved map[account.ID]uint64 // Energy reserved by active sell orders per prosumer.

	trades         []Trade
	lastTradePrice uint64

	totalEnergyTraded uint64
	totalVolume       uint64
	totalGridFees     uint64

	open bool
	now  func() time.Time
}

// New constructs a market bound to the specified token ledger. The clock is
// injectable so tests can control order expiry; a nil clock means wall time.
func New(cfg Config, ledger *token.Ledger, clock func() time.Time) *Market {
	if clock == nil {
		clock = time.Now
	}

	m := Market{
		cfg:       cfg,
		ledger:    ledger,
		prosumers: make(map[account.ID]Prosumer),
		orders:    make(map[string]Order),
		escrow:    make(map[string]uint64),
		reserved:  make(map[account.ID]uint64),
		open:      cfg.MarketOpen,
		now:       clock,
	}

	return &m
}

// Config returns the market configuration.
func (m *Market) Config() Config {
	return m.cfg
}

// =============================================================================

// RegisterProsumer adds a new prosumer to the registry.
func (m *Market) RegisterProsumer(address account.ID, name string, pt ProsumerType) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.prosumers[address]; exists {
		return ErrProsumerAlreadyRegistered
	}

	m.prosumers[address] = Prosumer{
		Address:      address,
		Name:         name,
		Type:         pt,
		Active:       true,
		RegisteredAt: m.now(),
	}

	return nil
}

// RecordGeneration increments the prosumer's cumulative generation counter.
func (m *Market) RecordGeneration(address account.ID, amount uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	prosumer, exists := m.prosumers[address]
	if !exists || !prosumer.Active {
		return ErrProsumerNotFound
	}

	prosumer.EnergyGenerated += amount
	m.prosumers[address] = prosumer

	return nil
}

// RecordConsumption increments the prosumer's cumulative consumption counter.
func (m *Market) RecordConsumption(address account.ID, amount uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	prosumer, exists := m.prosumers[address]
	if !exists || !prosumer.Active {
		return ErrProsumerNotFound
	}

	prosumer.EnergyConsumed += amount
	m.prosumers[address] = prosumer

	return nil
}

// =============================================================================

// PlaceOrder validates and books a new order, reserving energy for sells
// and escrowing WATT for buys, then runs the matching loop. It returns the
// new order's id along with any trades the placement produced.
func (m *Market) PlaceOrder(trader account.ID, side Side, amount uint64, price uint64) (string, []Trade, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.open {
		return "", nil, ErrMarketClosed
	}

	prosumer, exists := m.prosumers[trader]
	if !exists || !prosumer.Active {
		return "", nil, ErrProsumerNotFound
	}

	if amount < m.cfg.MinOrderSize || amount > m.cfg.MaxOrderSize {
		return "", nil, ErrInvalidEnergyAmount
	}

	if price < m.cfg.MinPrice || price > m.cfg.MaxPrice {
		return "", nil, ErrInvalidPrice
	}

	if m.wouldSelfTrade(trader, side, amount, price) {
		return "", nil, ErrSelfTrading
	}

	order := Order{
		ID:           uuid.New().String(),
		Trader:       trader,
		Side:         side,
		EnergyAmount: amount,
		Price:        price,
		Active:       true,
		CreatedAt:    m.now(),
	}

	switch side {
	case Sell:
		if amount > m.sellableEnergy(prosumer) {
			return "", nil, ErrInsufficientEnergyAvailable
		}
		m.reserved[trader] += amount

	case Buy:
		// Reserve the worst-case spend up front: full amount at the limit
		// price plus the grid fee on that base.
		maxBase := units.BaseCost(amount, price)
		reserve := maxBase + units.FeeOn(maxBase, m.cfg.GridFeeRate)

		if err := m.ledger.Transfer(token.Watt, trader, m.cfg.EscrowAccount, reserve); err != nil {
			return "", nil, ErrInsufficientWattBalance
		}
		m.escrow[order.ID] = reserve
	}

	m.orders[order.ID] = order
	m.insertOrder(order)

	trades := m.matchOrders(order.ID)

	return order.ID, trades, nil
}

// CancelOrder deactivates an active order owned by the trader, releasing
// any remaining escrow or energy reservation.
func (m *Market) CancelOrder(trader account.ID, orderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, exists := m.orders[orderID]
	if !exists {
		return ErrOrderNotFound
	}

	if order.Trader != trader {
		return ErrUnauthorized
	}

	if !order.Active {
		return ErrOrderNotActive
	}

	m.releaseOrder(order)

	return nil
}

// =============================================================================

// sellableEnergy returns the energy the prosumer can still back a sell
// order with: positive net metered energy plus energy bought on the market,
// minus energy already sold or reserved by resting sell orders.
func (m *Market) sellableEnergy(p Prosumer) uint64 {
	available := p.NetEnergy()
	if available < 0 {
		available = 0
	}

	available += int64(p.EnergyBought)
	available -= int64(p.EnergySold)
	available -= int64(m.reserved[p.Address])

	if available < 0 {
		return 0
	}

	return uint64(available)
}

// wouldSelfTrade reports whether matching the new order would actually pair
// the trader with one of their own resting orders. Crossing an own order is
// fine when better-priority third-party depth fills the incoming order
// before its own order would be reached; the walk mirrors the matching loop.
func (m *Market) wouldSelfTrade(trader account.ID, side Side, amount uint64, price uint64) bool {
	book := m.sellBook
	if side == Sell {
		book = m.buyBook
	}

	remaining := amount
	for _, id := range book {
		resting := m.orders[id]
		if !resting.Active {
			continue
		}
		if m.cfg.OrderExpiry > 0 && m.now().Sub(resting.CreatedAt) > m.cfg.OrderExpiry {
			continue
		}

		// The books are priority ordered, so the first order that does not
		// cross ends the walk.
		if side == Buy && resting.Price > price {
			break
		}
		if side == Sell && resting.Price < price {
			break
		}

		if resting.Trader == trader {
			return true
		}

		if resting.Remaining() >= remaining {
			return false
		}
		remaining -= resting.Remaining()
	}

	return false
}

// =============================================================================

// Prosumer returns the prosumer registered under the address.
func (m *Market) Prosumer(address account.ID) (Prosumer, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	prosumer, exists := m.prosumers[address]
	return prosumer, exists
}

// SellableEnergy returns the unreserved energy the prosumer can sell.
func (m *Market) SellableEnergy(address account.ID) (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	prosumer, exists := m.prosumers[address]
	if !exists {
		return 0, ErrProsumerNotFound
	}

	return m.sellableEnergy(prosumer), nil
}

// Order returns the order with the specified id.
func (m *Market) Order(orderID string) (Order, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	order, exists := m.orders[orderID]
	return order, exists
}

// OrderBook returns the active buy and sell orders in book priority.
func (m *Market) OrderBook() ([]Order, []Order) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	buys := make([]Order, 0, len(m.buyBook))
	for _, id := range m.buyBook {
		if order := m.orders[id]; order.Active {
			buys = append(buys, order)
		}
	}

	sells := make([]Order, 0, len(m.sellBook))
	for _, id := range m.sellBook {
		if order := m.orders[id]; order.Active {
			sells = append(sells, order)
		}
	}

	return buys, sells
}

// Trades returns all executed trades in execution order.
func (m *Market) Trades() []Trade {
	m.mu.RLock()
	defer m.mu.RUnlock()

	trades := make([]Trade, len(m.trades))
	copy(trades, m.trades)

	return trades
}

// MarketPrice returns the last executed trade price, or the configured
// default if no trade has occurred yet.
func (m *Market) MarketPrice() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.lastTradePrice == 0 {
		return m.cfg.DefaultPrice
	}

	return m.lastTradePrice
}

// Statistics returns the current market projection.
func (m *Market) Statistics() Statistics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var buys, sells int
	for _, id := range m.buyBook {
		if m.orders[id].Active {
			buys++
		}
	}
	for _, id := range m.sellBook {
		if m.orders[id].Active {
			sells++
		}
	}

	price := m.lastTradePrice
	if price == 0 {
		price = m.cfg.DefaultPrice
	}

	return Statistics{
		ActiveOrders:      buys + sells,
		BuyOrders:         buys,
		SellOrders:        sells,
		Trades:            len(m.trades),
		TotalEnergyTraded: m.totalEnergyTraded,
		TotalVolume:       m.totalVolume,
		TotalGridFees:     m.totalGridFees,
		MarketPrice:       price,
		LastUpdated:       m.now(),
	}
}

// TotalGridFees returns the cumulative fees collected on settled trades.
func (m *Market) TotalGridFees() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.totalGridFees
}

// OpenMarket allows new order placement.
func (m *Market) OpenMarket() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.open = true
}

// CloseMarket rejects all new order placement until the market reopens.
func (m *Market) CloseMarket() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.open = false
}
