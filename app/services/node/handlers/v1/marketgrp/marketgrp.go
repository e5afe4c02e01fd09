// Package marketgrp maintains the group of handlers for the energy market.
package marketgrp

import (
	"context"
	"errors"
	"net/http"

	"github.com/gridwatt/energychain/business/web/errs"
	"github.com/gridwatt/energychain/foundation/energychain/account"
	"github.com/gridwatt/energychain/foundation/energychain/market"
	"github.com/gridwatt/energychain/foundation/energychain/state"
	"github.com/gridwatt/energychain/foundation/energychain/units"
	"github.com/gridwatt/energychain/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of market endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
}

// Register adds a new prosumer to the market registry.
func (h Handlers) Register(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req registerProsumer
	if err := web.Decode(r, &req); err != nil {
		return err
	}

	accountID, err := account.ToID(req.Account)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	var pt market.ProsumerType
	if err := pt.UnmarshalText([]byte(req.Type)); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := h.State.RegisterProsumer(accountID, req.Name, pt); err != nil {
		return toTrustedError(err)
	}

	resp := struct {
		Status  string `json:"status"`
		Account string `json:"account"`
	}{
		Status:  "prosumer registered",
		Account: string(accountID),
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// Generation records metered energy production for a prosumer.
func (h Handlers) Generation(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return h.meter(ctx, w, r, h.State.RecordGeneration)
}

// Consumption records metered energy consumption for a prosumer.
func (h Handlers) Consumption(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return h.meter(ctx, w, r, h.State.RecordConsumption)
}

func (h Handlers) meter(ctx context.Context, w http.ResponseWriter, r *http.Request, record func(account.ID, uint64) error) error {
	var req meterReading
	if err := web.Decode(r, &req); err != nil {
		return err
	}

	accountID, err := account.ToID(req.Account)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := record(accountID, units.KWhToCenti(req.KWH)); err != nil {
		return toTrustedError(err)
	}

	resp := struct {
		Status string  `json:"status"`
		KWH    float64 `json:"kwh"`
	}{
		Status: "reading recorded",
		KWH:    req.KWH,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Prosumer returns the registered prosumer and its sellable energy.
func (h Handlers) Prosumer(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	accountID, err := account.ToID(web.Param(r, "account"))
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	p, exists := h.State.Prosumer(accountID)
	if !exists {
		return errs.NewTrusted(market.ErrProsumerNotFound, http.StatusNotFound)
	}

	sellable, err := h.State.SellableEnergy(accountID)
	if err != nil {
		return toTrustedError(err)
	}

	return web.Respond(ctx, w, toProsumer(p, sellable), http.StatusOK)
}

// =============================================================================

// PlaceOrder books a new buy or sell order and returns any trades the
// placement produced.
func (h Handlers) PlaceOrder(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var req placeOrder
	if err := web.Decode(r, &req); err != nil {
		return err
	}

	accountID, err := account.ToID(req.Account)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	var side market.Side
	if err := side.UnmarshalText([]byte(req.Side)); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	h.Log.Infow("place order", "traceid", v.TraceID, "account", accountID, "side", req.Side, "kwh", req.KWH, "price", req.Price)

	orderID, trades, err := h.State.PlaceOrder(accountID, side, units.KWhToCenti(req.KWH), units.PriceToUnits(req.Price))
	if err != nil {
		return toTrustedError(err)
	}

	executed := make([]trade, len(trades))
	for i, t := range trades {
		executed[i] = toTrade(t)
	}

	resp := struct {
		OrderID string  `json:"order_id"`
		Trades  []trade `json:"trades"`
	}{
		OrderID: orderID,
		Trades:  executed,
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// CancelOrder removes the trader's active order.
func (h Handlers) CancelOrder(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	accountID, err := account.ToID(web.Param(r, "account"))
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	orderID := web.Param(r, "id")

	if err := h.State.CancelOrder(accountID, orderID); err != nil {
		return toTrustedError(err)
	}

	resp := struct {
		Status  string `json:"status"`
		OrderID string `json:"order_id"`
	}{
		Status:  "order cancelled",
		OrderID: orderID,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// OrderBook returns the active buy and sell books in priority order.
func (h Handlers) OrderBook(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	buys, sells := h.State.OrderBook()

	book := orderBook{
		Buys:  make([]order, len(buys)),
		Sells: make([]order, len(sells)),
	}
	for i, o := range buys {
		book.Buys[i] = toOrder(o)
	}
	for i, o := range sells {
		book.Sells[i] = toOrder(o)
	}

	return web.Respond(ctx, w, book, http.StatusOK)
}

// Trades returns all executed trades in execution order.
func (h Handlers) Trades(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	executed := h.State.Trades()

	trades := make([]trade, len(executed))
	for i, t := range executed {
		trades[i] = toTrade(t)
	}

	return web.Respond(ctx, w, trades, http.StatusOK)
}

// Price returns the current market price per kWh.
func (h Handlers) Price(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := struct {
		Price float64 `json:"price"`
	}{
		Price: units.UnitsToPrice(h.State.MarketPrice()),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Statistics returns the current market projection.
func (h Handlers) Statistics(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	stats := h.State.MarketStatistics()

	resp := statistics{
		ActiveOrders:      stats.ActiveOrders,
		BuyOrders:         stats.BuyOrders,
		SellOrders:        stats.SellOrders,
		Trades:            stats.Trades,
		TotalEnergyTraded: units.CentiToKWh(stats.TotalEnergyTraded),
		TotalVolume:       units.UnitsToTokens(stats.TotalVolume),
		TotalGridFees:     units.UnitsToTokens(stats.TotalGridFees),
		MarketPrice:       units.UnitsToPrice(stats.MarketPrice),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Open allows new order placement.
func (h Handlers) Open(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	h.State.OpenMarket()

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "market open",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Close rejects new order placement until the market reopens. Resting
// orders stay on the books.
func (h Handlers) Close(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	h.State.CloseMarket()

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "market closed",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// =============================================================================

// toTrustedError maps the market's sentinel errors to client-facing status
// codes. Anything unexpected stays untrusted and surfaces as a 500.
func toTrustedError(err error) error {
	switch {
	case errors.Is(err, market.ErrProsumerNotFound), errors.Is(err, market.ErrOrderNotFound):
		return errs.NewTrusted(err, http.StatusNotFound)
	case errors.Is(err, market.ErrProsumerAlreadyRegistered):
		return errs.NewTrusted(err, http.StatusConflict)
	case errors.Is(err, market.ErrUnauthorized):
		return errs.NewTrusted(err, http.StatusForbidden)
	case errors.Is(err, market.ErrOrderNotActive),
		errors.Is(err, market.ErrInvalidEnergyAmount),
		errors.Is(err, market.ErrInvalidPrice),
		errors.Is(err, market.ErrInsufficientWattBalance),
		errors.Is(err, market.ErrInsufficientEnergyAvailable),
		errors.Is(err, market.ErrSelfTrading),
		errors.Is(err, market.ErrMarketClosed):
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	return err
}
