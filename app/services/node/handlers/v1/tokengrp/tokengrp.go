// Package tokengrp maintains the group of handlers for token, staking, and
// governance access.
package tokengrp

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gridwatt/energychain/business/web/errs"
	"github.com/gridwatt/energychain/foundation/energychain/account"
	"github.com/gridwatt/energychain/foundation/energychain/state"
	"github.com/gridwatt/energychain/foundation/energychain/token"
	"github.com/gridwatt/energychain/foundation/energychain/units"
	"github.com/gridwatt/energychain/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of token endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
}

// Transfer moves tokens between two accounts.
func (h Handlers) Transfer(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var req transfer
	if err := web.Decode(r, &req); err != nil {
		return err
	}

	var kind token.Kind
	if err := kind.UnmarshalText([]byte(req.Token)); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	from, err := account.ToID(req.From)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}
	to, err := account.ToID(req.To)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	h.Log.Infow("transfer", "traceid", v.TraceID, "token", req.Token, "from", from, "to", to, "amount", req.Amount)

	if err := h.State.Transfer(kind, from, to, units.TokensToUnits(req.Amount)); err != nil {
		return toTrustedError(err)
	}

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "transfer complete",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Mint creates new token supply for an account.
func (h Handlers) Mint(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var req mint
	if err := web.Decode(r, &req); err != nil {
		return err
	}

	var kind token.Kind
	if err := kind.UnmarshalText([]byte(req.Token)); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	accountID, err := account.ToID(req.Account)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	h.Log.Infow("mint", "traceid", v.TraceID, "token", req.Token, "account", accountID, "amount", req.Amount)

	if err := h.State.Mint(kind, accountID, units.TokensToUnits(req.Amount)); err != nil {
		return toTrustedError(err)
	}

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "mint complete",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// UpdatePrice sets the reference price for a token.
func (h Handlers) UpdatePrice(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req updatePrice
	if err := web.Decode(r, &req); err != nil {
		return err
	}

	var kind token.Kind
	if err := kind.UnmarshalText([]byte(req.Token)); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := h.State.UpdateTokenPrice(kind, units.PriceToUnits(req.Price)); err != nil {
		return toTrustedError(err)
	}

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "price updated",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Balances returns the GRID and WATT balances for all accounts or for the
// single account in the route.
func (h Handlers) Balances(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	acct := web.Param(r, "account")

	gridBalances := h.State.Balances(token.Grid)
	wattBalances := h.State.Balances(token.Watt)

	ids := make(map[account.ID]bool)
	for id := range gridBalances {
		ids[id] = true
	}
	for id := range wattBalances {
		ids[id] = true
	}

	all := make([]balance, 0, len(ids))
	for id := range ids {
		if acct != "" && acct != string(id) {
			continue
		}
		all = append(all, balance{
			Account: string(id),
			Grid:    units.UnitsToTokens(gridBalances[id]),
			Watt:    units.UnitsToTokens(wattBalances[id]),
		})
	}

	sort.Slice(all, func(i, j int) bool { return all[i].Account < all[j].Account })

	resp := balances{
		LatestBlock: h.State.LatestBlock().Hash(),
		Uncommitted: h.State.MempoolLength(),
		Balances:    all,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Tokens returns the supply and reference-price record for both tokens.
func (h Handlers) Tokens(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	infos := make([]tokenInfo, 0, 2)

	for _, kind := range []token.Kind{token.Grid, token.Watt} {
		info, exists := h.State.TokenInfo(kind)
		if !exists {
			continue
		}

		ti := tokenInfo{
			Token:       kind.String(),
			TotalSupply: units.UnitsToTokens(info.TotalSupply),
			Price:       units.UnitsToTokens(info.Price),
			Active:      info.Active,
		}
		if kind == token.Grid {
			ti.TotalStaked = units.UnitsToTokens(h.State.TotalStaked())
		}

		infos = append(infos, ti)
	}

	return web.Respond(ctx, w, infos, http.StatusOK)
}

// =============================================================================

// Stake locks GRID tokens for the account.
func (h Handlers) Stake(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return h.stake(ctx, w, r, h.State.Stake, "stake complete")
}

// Unstake releases part or all of the account's staked GRID.
func (h Handlers) Unstake(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return h.stake(ctx, w, r, h.State.Unstake, "unstake complete")
}

func (h Handlers) stake(ctx context.Context, w http.ResponseWriter, r *http.Request, op func(account.ID, uint64) error, status string) error {
	var req stakeRequest
	if err := web.Decode(r, &req); err != nil {
		return err
	}

	accountID, err := account.ToID(req.Account)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := op(accountID, units.TokensToUnits(req.Amount)); err != nil {
		return toTrustedError(err)
	}

	resp := struct {
		Status string `json:"status"`
	}{
		Status: status,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// ClaimRewards mints the account's accrued staking rewards.
func (h Handlers) ClaimRewards(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req claimRequest
	if err := web.Decode(r, &req); err != nil {
		return err
	}

	accountID, err := account.ToID(req.Account)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	claimed, err := h.State.ClaimRewards(accountID)
	if err != nil {
		return toTrustedError(err)
	}

	resp := struct {
		Status  string  `json:"status"`
		Claimed float64 `json:"claimed"`
	}{
		Status:  "rewards claimed",
		Claimed: units.UnitsToTokens(claimed),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// StakeInfo returns the staking position for the account in the route.
func (h Handlers) StakeInfo(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	accountID, err := account.ToID(web.Param(r, "account"))
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	resp := stakeInfo{
		Account:        string(accountID),
		PendingRewards: units.UnitsToTokens(h.State.PendingRewards(accountID)),
	}

	if stk, exists := h.State.StakeInfo(accountID); exists {
		resp.Staked = units.UnitsToTokens(stk.Amount)
		resp.StakedSince = stk.Start.Format(time.RFC3339)
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// =============================================================================

// CreateProposal opens a new governance proposal.
func (h Handlers) CreateProposal(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req createProposal
	if err := web.Decode(r, &req); err != nil {
		return err
	}

	proposer, err := account.ToID(req.Proposer)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	proposalID, err := h.State.CreateProposal(proposer, req.Title, req.Description, time.Duration(req.VotingSeconds)*time.Second)
	if err != nil {
		return toTrustedError(err)
	}

	resp := struct {
		Status     string `json:"status"`
		ProposalID uint64 `json:"proposal_id"`
	}{
		Status:     "proposal created",
		ProposalID: proposalID,
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// CastVote records a stake-weighted vote on an active proposal.
func (h Handlers) CastVote(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req castVote
	if err := web.Decode(r, &req); err != nil {
		return err
	}

	voter, err := account.ToID(req.Voter)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := h.State.CastVote(req.ProposalID, voter, *req.Support); err != nil {
		return toTrustedError(err)
	}

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "vote recorded",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// FinalizeProposal tallies a proposal whose voting window has closed.
func (h Handlers) FinalizeProposal(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	proposalID, err := strconv.ParseUint(web.Param(r, "id"), 10, 64)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	status, err := h.State.FinalizeProposal(proposalID)
	if err != nil {
		return toTrustedError(err)
	}

	resp := struct {
		Status string `json:"status"`
	}{
		Status: status.String(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Proposals returns all governance proposals, or the single proposal in the
// route.
func (h Handlers) Proposals(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if id := web.Param(r, "id"); id != "" {
		proposalID, err := strconv.ParseUint(id, 10, 64)
		if err != nil {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}

		p, exists := h.State.Proposal(proposalID)
		if !exists {
			return errs.NewTrusted(token.ErrProposalNotFound, http.StatusNotFound)
		}

		return web.Respond(ctx, w, toProposal(p), http.StatusOK)
	}

	all := h.State.Proposals()
	proposals := make([]proposal, len(all))
	for i, p := range all {
		proposals[i] = toProposal(p)
	}

	return web.Respond(ctx, w, proposals, http.StatusOK)
}

// =============================================================================

// toTrustedError maps the ledger's sentinel errors to client-facing status
// codes. Anything unexpected stays untrusted and surfaces as a 500.
func toTrustedError(err error) error {
	switch {
	case errors.Is(err, token.ErrTokenNotFound), errors.Is(err, token.ErrProposalNotFound):
		return errs.NewTrusted(err, http.StatusNotFound)
	case errors.Is(err, token.ErrInsufficientBalance),
		errors.Is(err, token.ErrMinimumStakeNotMet),
		errors.Is(err, token.ErrNotStaking),
		errors.Is(err, token.ErrNoRewardsToClaim),
		errors.Is(err, token.ErrProposalNotActive),
		errors.Is(err, token.ErrAlreadyVoted),
		errors.Is(err, token.ErrCannotVoteOnOwnProposal),
		errors.Is(err, token.ErrVotingPeriodEnded),
		errors.Is(err, token.ErrVotingStillOpen):
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	return err
}
