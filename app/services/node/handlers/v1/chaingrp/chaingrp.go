// Package chaingrp maintains the group of handlers for chain access.
package chaingrp

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/gridwatt/energychain/business/web/errs"
	"github.com/gridwatt/energychain/foundation/energychain/database"
	"github.com/gridwatt/energychain/foundation/energychain/state"
	"github.com/gridwatt/energychain/foundation/events"
	"github.com/gridwatt/energychain/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of chain endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.Genesis()
	return web.Respond(ctx, w, gen, http.StatusOK)
}

// Mempool returns the set of uncommitted transactions.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	pool := h.State.Mempool()

	trans := make([]tx, len(pool))
	for i, t := range pool {
		trans[i] = toTx(t)
	}

	return web.Respond(ctx, w, trans, http.StatusOK)
}

// Blocks returns the full chain, or the single block in the route.
func (h Handlers) Blocks(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if num := web.Param(r, "number"); num != "" {
		number, err := strconv.ParseUint(num, 10, 64)
		if err != nil {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}

		blockData, err := h.State.BlockByNumber(number)
		if err != nil {
			if errors.Is(err, database.ErrBlockNotFound) {
				return errs.NewTrusted(err, http.StatusNotFound)
			}
			return err
		}

		return web.Respond(ctx, w, toBlock(blockData), http.StatusOK)
	}

	chain := h.State.Blocks()

	blocks := make([]block, len(chain))
	for i, bd := range chain {
		blocks[i] = toBlock(bd)
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// Validate walks the full chain and reports whether every block checks out.
func (h Handlers) Validate(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := struct {
		Valid  bool   `json:"valid"`
		Height uint64 `json:"height"`
		Error  string `json:"error,omitempty"`
	}{
		Valid:  true,
		Height: h.State.ChainHeight(),
	}

	if err := h.State.ValidateChain(); err != nil {
		resp.Valid = false
		resp.Error = err.Error()
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// SignalMining signals the start of a mining operation to capture the
// pending transactions into a block.
func (h Handlers) SignalMining(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	h.State.Worker.SignalStartMining()

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "mining signalled",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}
