package tokengrp

import (
	"time"

	"github.com/gridwatt/energychain/foundation/energychain/token"
	"github.com/gridwatt/energychain/foundation/energychain/units"
)

type transfer struct {
	Token  string  `json:"token" validate:"required,oneof=GRID WATT"`
	From   string  `json:"from" validate:"required"`
	To     string  `json:"to" validate:"required"`
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

type mint struct {
	Token   string  `json:"token" validate:"required,oneof=GRID WATT"`
	Account string  `json:"account" validate:"required"`
	Amount  float64 `json:"amount" validate:"required,gt=0"`
}

type updatePrice struct {
	Token string  `json:"token" validate:"required,oneof=GRID WATT"`
	Price float64 `json:"price" validate:"required,gt=0"`
}

type stakeRequest struct {
	Account string  `json:"account" validate:"required"`
	Amount  float64 `json:"amount" validate:"required,gt=0"`
}

type claimRequest struct {
	Account string `json:"account" validate:"required"`
}

type createProposal struct {
	Proposer      string `json:"proposer" validate:"required"`
	Title         string `json:"title" validate:"required"`
	Description   string `json:"description"`
	VotingSeconds int64  `json:"voting_seconds" validate:"gte=0"`
}

type castVote struct {
	ProposalID uint64 `json:"proposal_id" validate:"required"`
	Voter      string `json:"voter" validate:"required"`
	Support    *bool  `json:"support" validate:"required"`
}

// =============================================================================

type balance struct {
	Account string  `json:"account"`
	Grid    float64 `json:"grid"`
	Watt    float64 `json:"watt"`
}

type balances struct {
	LatestBlock string    `json:"latest_block"`
	Uncommitted int       `json:"uncommitted"`
	Balances    []balance `json:"balances"`
}

type tokenInfo struct {
	Token       string  `json:"token"`
	TotalSupply float64 `json:"total_supply"`
	Price       float64 `json:"price"`
	Active      bool    `json:"active"`
	TotalStaked float64 `json:"total_staked,omitempty"`
}

type stakeInfo struct {
	Account        string  `json:"account"`
	Staked         float64 `json:"staked"`
	PendingRewards float64 `json:"pending_rewards"`
	StakedSince    string  `json:"staked_since,omitempty"`
}

type proposal struct {
	ID           uint64    `json:"id"`
	Proposer     string    `json:"proposer"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	VotingStart  time.Time `json:"voting_start"`
	VotingEnd    time.Time `json:"voting_end"`
	VotesFor     float64   `json:"votes_for"`
	VotesAgainst float64   `json:"votes_against"`
	Status       string    `json:"status"`
}

func toProposal(p token.Proposal) proposal {
	return proposal{
		ID:           p.ID,
		Proposer:     string(p.Proposer),
		Title:        p.Title,
		Description:  p.Description,
		VotingStart:  p.VotingStart,
		VotingEnd:    p.VotingEnd,
		VotesFor:     units.UnitsToTokens(p.VotesFor),
		VotesAgainst: units.UnitsToTokens(p.VotesAgainst),
		Status:       p.Status.String(),
	}
}
