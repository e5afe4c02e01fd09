package market

import (
	"fmt"
	"time"

	"github.com/gridwatt/energychain/foundation/energychain/account"
)

// Side identifies whether an order buys or sells energy.
type Side uint8

const (
	Buy Side = iota
	Sell
)

// String implements the fmt.Stringer interface.
func (s Side) String() string {
	if s == Buy {
		return "Buy"
	}
	return "Sell"
}

// MarshalText implements the encoding.TextMarshaler interface.
func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (s *Side) UnmarshalText(data []byte) error {
	switch string(data) {
	case "Buy":
		*s = Buy
	case "Sell":
		*s = Sell
	default:
		return fmt.Errorf("unknown order side %q", data)
	}
	return nil
}

// =============================================================================

// ProsumerType categorizes a prosumer by the scale of its installation.
type ProsumerType uint8

const (
	Residential ProsumerType = iota
	Commercial
	Industrial
	Consumer
)

// String implements the fmt.Stringer interface.
func (pt ProsumerType) String() string {
	switch pt {
	case Residential:
		return "Residential"
	case Commercial:
		return "Commercial"
	case Industrial:
		return "Industrial"
	case Consumer:
		return "Consumer"
	}
	return "Unknown"
}

// MarshalText implements the encoding.TextMarshaler interface.
func (pt ProsumerType) MarshalText() ([]byte, error) {
	return []byte(pt.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (pt *ProsumerType) UnmarshalText(data []byte) error {
	switch string(data) {
	case "Residential":
		*pt = Residential
	case "Commercial":
		*pt = Commercial
	case "Industrial":
		*pt = Industrial
	case "Consumer":
		*pt = Consumer
	default:
		return fmt.Errorf("unknown prosumer type %q", data)
	}
	return nil
}

// =============================================================================

// Prosumer represents an account that can generate, consume, and trade
// energy. Energy counters are cumulative centi-kWh and never decrease.
type Prosumer struct {
	Address         account.ID   `json:"address"`
	Name            string       `json:"name"`
	Type            ProsumerType `json:"type"`
	EnergyGenerated uint64       `json:"energy_generated"`
	EnergyConsumed  uint64       `json:"energy_consumed"`
	EnergySold      uint64       `json:"energy_sold"`
	EnergyBought    uint64       `json:"energy_bought"`
	Active          bool         `json:"active"`
	RegisteredAt    time.Time    `json:"registered_at"`
}

// NetEnergy returns generated minus consumed, which may be negative.
func (p Prosumer) NetEnergy() int64 {
	return int64(p.EnergyGenerated) - int64(p.EnergyConsumed)
}

// Order represents a resting or partially filled order. Energy amounts are
// centi-kWh, prices are 1/10000 WATT per kWh.
type Order struct {
	ID           string     `json:"id"`
	Trader       account.ID `json:"trader"`
	Side         Side       `json:"side"`
	EnergyAmount uint64     `json:"energy_amount"`
	Price        uint64     `json:"price"`
	Filled       uint64     `json:"filled"`
	Active       bool       `json:"active"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Remaining returns the unfilled part of the order.
func (o Order) Remaining() uint64 {
	return o.EnergyAmount - o.Filled
}

// Trade represents one settled match between a buy and a sell order.
type Trade struct {
	ID           string     `json:"id"`
	Buyer        account.ID `json:"buyer"`
	Seller       account.ID `json:"seller"`
	EnergyAmount uint64     `json:"energy_amount"`
	Price        uint64     `json:"price"`
	BaseCost     uint64     `json:"base_cost"`
	GridFee      uint64     `json:"grid_fee"`
	TotalCost    uint64     `json:"total_cost"`
	CreatedAt    time.Time  `json:"created_at"`
	BuyOrderID   string     `json:"buy_order_id"`
	SellOrderID  string     `json:"sell_order_id"`
}

// Statistics represents the market projection exposed to the API layer.
type Statistics struct {
	ActiveOrders      int       `json:"active_orders"`
	BuyOrders         int       `json:"buy_orders"`
	SellOrders        int       `json:"sell_orders"`
	Trades            int       `json:"trades"`
	TotalEnergyTraded uint64    `json:"total_energy_traded"`
	TotalVolume       uint64    `json:"total_volume"`
	TotalGridFees     uint64    `json:"total_grid_fees"`
	MarketPrice       uint64    `json:"market_price"`
	LastUpdated       time.Time `json:"last_updated"`
}
