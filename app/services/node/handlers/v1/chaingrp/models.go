package chaingrp

import (
	"github.com/gridwatt/energychain/foundation/energychain/database"
)

type tx struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	From       string `json:"from,omitempty"`
	To         string `json:"to,omitempty"`
	Token      string `json:"token,omitempty"`
	Amount     uint64 `json:"amount,omitempty"`
	Energy     uint64 `json:"energy,omitempty"`
	Price      uint64 `json:"price,omitempty"`
	ProposalID uint64 `json:"proposal_id,omitempty"`
	Support    bool   `json:"support,omitempty"`
	TimeStamp  uint64 `json:"timestamp"`
}

func toTx(t database.Tx) tx {
	return tx{
		ID:         t.ID,
		Type:       t.Type.String(),
		From:       string(t.From),
		To:         string(t.To),
		Token:      t.Token.String(),
		Amount:     t.Amount,
		Energy:     t.Energy,
		Price:      t.Price,
		ProposalID: t.ProposalID,
		Support:    t.Support,
		TimeStamp:  t.TimeStamp,
	}
}

type block struct {
	Hash          string `json:"hash"`
	PrevBlockHash string `json:"prev_block_hash"`
	Number        uint64 `json:"number"`
	TimeStamp     uint64 `json:"timestamp"`
	Nonce         uint64 `json:"nonce"`
	Difficulty    uint   `json:"difficulty"`
	Beneficiary   string `json:"beneficiary"`
	Transactions  []tx   `json:"transactions"`
}

func toBlock(bd database.BlockData) block {
	trans := make([]tx, len(bd.Trans))
	for i, t := range bd.Trans {
		trans[i] = toTx(t)
	}

	return block{
		Hash:          bd.Hash,
		PrevBlockHash: bd.Header.PrevBlockHash,
		Number:        bd.Header.Number,
		TimeStamp:     bd.Header.TimeStamp,
		Nonce:         bd.Header.Nonce,
		Difficulty:    bd.Header.Difficulty,
		Beneficiary:   string(bd.Header.BeneficiaryID),
		Transactions:  trans,
	}
}
