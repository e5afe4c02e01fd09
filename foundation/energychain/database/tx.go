package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gridwatt/energychain/foundation/energychain/account"
	"github.com/gridwatt/energychain/foundation/energychain/token"
)

// TxType identifies what a recorded transaction settled. The set is closed;
// every consumer switches exhaustively over it.
type TxType uint8

const (
	TxEnergyTrade TxType = iota
	TxGridFee
	TxStake
	TxUnstake
	TxGovernanceVote
	TxTransfer
	TxMiningReward
)

// String implements the fmt.Stringer interface.
func (tt TxType) String() string {
	switch tt {
	case TxEnergyTrade:
		return "EnergyTrade"
	case TxGridFee:
		return "GridFee"
	case TxStake:
		return "Stake"
	case TxUnstake:
		return "Unstake"
	case TxGovernanceVote:
		return "GovernanceVote"
	case TxTransfer:
		return "Transfer"
	case TxMiningReward:
		return "MiningReward"
	}
	return "Unknown"
}

// MarshalText implements the encoding.TextMarshaler interface.
func (tt TxType) MarshalText() ([]byte, error) {
	return []byte(tt.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (tt *TxType) UnmarshalText(data []byte) error {
	switch string(data) {
	case "EnergyTrade":
		*tt = TxEnergyTrade
	case "GridFee":
		*tt = TxGridFee
	case "Stake":
		*tt = TxStake
	case "Unstake":
		*tt = TxUnstake
	case "GovernanceVote":
		*tt = TxGovernanceVote
	case "Transfer":
		*tt = TxTransfer
	case "MiningReward":
		*tt = TxMiningReward
	default:
		return fmt.Errorf("unknown transaction type %q", data)
	}
	return nil
}

// =============================================================================

// Tx is a transaction record as persisted inside a block. One struct covers
// every member of the closed type set; each carries enough fields to be
// independently replayed for audit.
type Tx struct {
	ID         string     `json:"id"`
	Type       TxType     `json:"type"`
	From       account.ID `json:"from"`
	To         account.ID `json:"to"`
	Token      token.Kind `json:"token"`
	Amount     uint64     `json:"amount"`      // Token units moved, staked, or burned.
	Energy     uint64     `json:"energy"`      // Centi-kWh delivered, for energy trades.
	Price      uint64     `json:"price"`       // Execution price, for energy trades.
	ProposalID uint64     `json:"proposal_id"` // Governance votes only.
	Support    bool       `json:"support"`     // Governance votes only.
	TimeStamp  uint64     `json:"timestamp"`
}

// newTx constructs the fields shared by every transaction kind.
func newTx(tt TxType, from, to account.ID) Tx {
	return Tx{
		ID:        uuid.New().String(),
		Type:      tt,
		From:      from,
		To:        to,
		TimeStamp: uint64(time.Now().UTC().Unix()),
	}
}

// NewEnergyTradeTx constructs the settlement record for one matched trade.
func NewEnergyTradeTx(buyer, seller account.ID, energy, price, baseCost uint64) Tx {
	tx := newTx(TxEnergyTrade, buyer, seller)
	tx.Token = token.Watt
	tx.Amount = baseCost
	tx.Energy = energy
	tx.Price = price
	return tx
}

// NewGridFeeTx constructs the record of a grid fee collected on a trade.
func NewGridFeeTx(from, sink account.ID, amount uint64) Tx {
	tx := newTx(TxGridFee, from, sink)
	tx.Token = token.Watt
	tx.Amount = amount
	return tx
}

// NewStakeTx constructs the record of GRID moved into stake.
func NewStakeTx(who account.ID, amount uint64) Tx {
	tx := newTx(TxStake, who, who)
	tx.Token = token.Grid
	tx.Amount = amount
	return tx
}

// NewUnstakeTx constructs the record of GRID moved out of stake.
func NewUnstakeTx(who account.ID, amount uint64) Tx {
	tx := newTx(TxUnstake, who, who)
	tx.Token = token.Grid
	tx.Amount = amount
	return tx
}

// NewVoteTx constructs the record of a governance vote.
func NewVoteTx(voter account.ID, proposalID uint64, support bool, power uint64) Tx {
	tx := newTx(TxGovernanceVote, voter, voter)
	tx.Token = token.Grid
	tx.Amount = power
	tx.ProposalID = proposalID
	tx.Support = support
	return tx
}

// NewTransferTx constructs the record of a plain token transfer.
func NewTransferTx(kind token.Kind, from, to account.ID, amount uint64) Tx {
	tx := newTx(TxTransfer, from, to)
	tx.Token = kind
	tx.Amount = amount
	return tx
}

// NewRewardTx constructs the mining reward record for a block beneficiary.
func NewRewardTx(beneficiary account.ID, amount uint64) Tx {
	tx := newTx(TxMiningReward, beneficiary, beneficiary)
	tx.Token = token.Grid
	tx.Amount = amount
	return tx
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s:%s", tx.Type, tx.ID)
}
