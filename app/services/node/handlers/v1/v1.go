// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/gridwatt/energychain/app/services/node/handlers/v1/chaingrp"
	"github.com/gridwatt/energychain/app/services/node/handlers/v1/marketgrp"
	"github.com/gridwatt/energychain/app/services/node/handlers/v1/tokengrp"
	"github.com/gridwatt/energychain/foundation/energychain/state"
	"github.com/gridwatt/energychain/foundation/events"
	"github.com/gridwatt/energychain/foundation/web"
	"go.uber.org/zap"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log   *zap.SugaredLogger
	State *state.State
	Evts  *events.Events
}

// PublicRoutes binds all the version 1 public routes.
func PublicRoutes(app *web.App, cfg Config) {
	mkt := marketgrp.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
	}

	app.Handle(http.MethodPost, version, "/prosumers", mkt.Register)
	app.Handle(http.MethodGet, version, "/prosumers/:account", mkt.Prosumer)
	app.Handle(http.MethodPost, version, "/prosumers/generation", mkt.Generation)
	app.Handle(http.MethodPost, version, "/prosumers/consumption", mkt.Consumption)
	app.Handle(http.MethodPost, version, "/orders", mkt.PlaceOrder)
	app.Handle(http.MethodDelete, version, "/orders/:account/:id", mkt.CancelOrder)
	app.Handle(http.MethodGet, version, "/orders/book", mkt.OrderBook)
	app.Handle(http.MethodGet, version, "/market/trades", mkt.Trades)
	app.Handle(http.MethodGet, version, "/market/price", mkt.Price)
	app.Handle(http.MethodGet, version, "/market/stats", mkt.Statistics)
	app.Handle(http.MethodPost, version, "/market/open", mkt.Open)
	app.Handle(http.MethodPost, version, "/market/close", mkt.Close)

	tkn := tokengrp.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
	}

	app.Handle(http.MethodGet, version, "/balances/list", tkn.Balances)
	app.Handle(http.MethodGet, version, "/balances/list/:account", tkn.Balances)
	app.Handle(http.MethodPost, version, "/tx/transfer", tkn.Transfer)
	app.Handle(http.MethodPost, version, "/tx/mint", tkn.Mint)
	app.Handle(http.MethodPost, version, "/tokens/price", tkn.UpdatePrice)
	app.Handle(http.MethodGet, version, "/tokens/list", tkn.Tokens)
	app.Handle(http.MethodPost, version, "/stake", tkn.Stake)
	app.Handle(http.MethodPost, version, "/unstake", tkn.Unstake)
	app.Handle(http.MethodGet, version, "/stake/:account", tkn.StakeInfo)
	app.Handle(http.MethodPost, version, "/rewards/claim", tkn.ClaimRewards)
	app.Handle(http.MethodPost, version, "/proposals", tkn.CreateProposal)
	app.Handle(http.MethodGet, version, "/proposals/list", tkn.Proposals)
	app.Handle(http.MethodGet, version, "/proposals/list/:id", tkn.Proposals)
	app.Handle(http.MethodPost, version, "/proposals/vote", tkn.CastVote)
	app.Handle(http.MethodPost, version, "/proposals/finalize/:id", tkn.FinalizeProposal)

	chn := chaingrp.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		WS:    websocket.Upgrader{},
		Evts:  cfg.Evts,
	}

	app.Handle(http.MethodGet, version, "/events", chn.Events)
	app.Handle(http.MethodGet, version, "/genesis/list", chn.Genesis)
	app.Handle(http.MethodGet, version, "/blocks/list", chn.Blocks)
	app.Handle(http.MethodGet, version, "/blocks/list/:number", chn.Blocks)
	app.Handle(http.MethodGet, version, "/tx/uncommitted/list", chn.Mempool)
	app.Handle(http.MethodGet, version, "/chain/validate", chn.Validate)
	app.Handle(http.MethodGet, version, "/mining/signal", chn.SignalMining)
}
