// Package genesis maintains access to the genesis file: the chain
// parameters, the ledger and market configuration, and the founding
// GRID/WATT balances.
package genesis

import (
	"encoding/json"
	"os"
	"time"

	"github.com/gridwatt/energychain/foundation/energychain/market"
	"github.com/gridwatt/energychain/foundation/energychain/token"
)

// Genesis represents the genesis file.
type Genesis struct {
	Date         time.Time         `json:"date"`
	ChainID      uint16            `json:"chain_id"`      // Unique id for this running instance.
	Difficulty   uint16            `json:"difficulty"`    // Leading zero hex characters required of a block hash.
	MiningReward uint64            `json:"mining_reward"` // GRID units minted to the beneficiary per block.
	GridBalances map[string]uint64 `json:"grid_balances"` // Founding GRID balances.
	WattBalances map[string]uint64 `json:"watt_balances"` // Founding WATT balances.
	Token        token.Config      `json:"token"`
	Market       market.Config     `json:"market"`
}

// Load opens and consumes the genesis file.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	var genesis Genesis
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}
