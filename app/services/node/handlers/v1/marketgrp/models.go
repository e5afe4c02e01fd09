package marketgrp

import (
	"github.com/gridwatt/energychain/foundation/energychain/market"
	"github.com/gridwatt/energychain/foundation/energychain/units"
)

type registerProsumer struct {
	Account string `json:"account" validate:"required"`
	Name    string `json:"name" validate:"required"`
	Type    string `json:"type" validate:"required,oneof=Residential Commercial Industrial Consumer"`
}

type meterReading struct {
	Account string  `json:"account" validate:"required"`
	KWH     float64 `json:"kwh" validate:"required,gt=0"`
}

type placeOrder struct {
	Account string  `json:"account" validate:"required"`
	Side    string  `json:"side" validate:"required,oneof=Buy Sell"`
	KWH     float64 `json:"kwh" validate:"required,gt=0"`
	Price   float64 `json:"price" validate:"required,gt=0"`
}

// =============================================================================

type prosumer struct {
	Address         string  `json:"address"`
	Name            string  `json:"name"`
	Type            string  `json:"type"`
	EnergyGenerated float64 `json:"energy_generated"`
	EnergyConsumed  float64 `json:"energy_consumed"`
	EnergySold      float64 `json:"energy_sold"`
	EnergyBought    float64 `json:"energy_bought"`
	SellableEnergy  float64 `json:"sellable_energy"`
	Active          bool    `json:"active"`
}

func toProsumer(p market.Prosumer, sellable uint64) prosumer {
	return prosumer{
		Address:         string(p.Address),
		Name:            p.Name,
		Type:            p.Type.String(),
		EnergyGenerated: units.CentiToKWh(p.EnergyGenerated),
		EnergyConsumed:  units.CentiToKWh(p.EnergyConsumed),
		EnergySold:      units.CentiToKWh(p.EnergySold),
		EnergyBought:    units.CentiToKWh(p.EnergyBought),
		SellableEnergy:  units.CentiToKWh(sellable),
		Active:          p.Active,
	}
}

type order struct {
	ID        string  `json:"id"`
	Trader    string  `json:"trader"`
	Side      string  `json:"side"`
	KWH       float64 `json:"kwh"`
	Price     float64 `json:"price"`
	Filled    float64 `json:"filled"`
	Remaining float64 `json:"remaining"`
}

func toOrder(o market.Order) order {
	return order{
		ID:        o.ID,
		Trader:    string(o.Trader),
		Side:      o.Side.String(),
		KWH:       units.CentiToKWh(o.EnergyAmount),
		Price:     units.UnitsToPrice(o.Price),
		Filled:    units.CentiToKWh(o.Filled),
		Remaining: units.CentiToKWh(o.Remaining()),
	}
}

type trade struct {
	ID        string  `json:"id"`
	Buyer     string  `json:"buyer"`
	Seller    string  `json:"seller"`
	KWH       float64 `json:"kwh"`
	Price     float64 `json:"price"`
	BaseCost  float64 `json:"base_cost"`
	GridFee   float64 `json:"grid_fee"`
	TotalCost float64 `json:"total_cost"`
}

func toTrade(t market.Trade) trade {
	return trade{
		ID:        t.ID,
		Buyer:     string(t.Buyer),
		Seller:    string(t.Seller),
		KWH:       units.CentiToKWh(t.EnergyAmount),
		Price:     units.UnitsToPrice(t.Price),
		BaseCost:  units.UnitsToTokens(t.BaseCost),
		GridFee:   units.UnitsToTokens(t.GridFee),
		TotalCost: units.UnitsToTokens(t.TotalCost),
	}
}

type orderBook struct {
	Buys  []order `json:"buys"`
	Sells []order `json:"sells"`
}

type statistics struct {
	ActiveOrders      int     `json:"active_orders"`
	BuyOrders         int     `json:"buy_orders"`
	SellOrders        int     `json:"sell_orders"`
	Trades            int     `json:"trades"`
	TotalEnergyTraded float64 `json:"total_energy_traded"`
	TotalVolume       float64 `json:"total_volume"`
	TotalGridFees     float64 `json:"total_grid_fees"`
	MarketPrice       float64 `json:"market_price"`
}
