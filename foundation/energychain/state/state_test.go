package state_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gridwatt/energychain/foundation/energychain/account"
	"github.com/gridwatt/energychain/foundation/energychain/genesis"
	"github.com/gridwatt/energychain/foundation/energychain/market"
	"github.com/gridwatt/energychain/foundation/energychain/state"
	"github.com/gridwatt/energychain/foundation/energychain/storage/memory"
	"github.com/gridwatt/energychain/foundation/energychain/token"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

const (
	alice = "0xF01813E4B85e178A83e29B8E7bF26BD830a25f32"
	bob   = "0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4"
	miner = account.ID("0xFef311483Cc040e1A89fb9bb286f8f21902f4417")

	feeAct = account.ID("0x0000000000000000000000000000000000000Fee")
	escAct = account.ID("0x00000000000000000000000000000000000E5c60")
)

func testGenesis() genesis.Genesis {
	return genesis.Genesis{
		Date:         time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		ChainID:      1,
		Difficulty:   1,
		MiningReward: 7_000_000,
		GridBalances: map[string]uint64{alice: 10_000_000},
		WattBalances: map[string]uint64{bob: 1_000_000},
		Token: token.Config{
			MinStakeAmount:     10_000,
			StakingRewardRate:  800,
			VotingPeriod:       7 * 24 * time.Hour,
			MinProposalBalance: 100_000,
		},
		Market: market.Config{
			GridFeeRate:   500,
			MinOrderSize:  100,
			MaxOrderSize:  100_000,
			MinPrice:      100,
			MaxPrice:      100_000,
			MarketOpen:    true,
			DefaultPrice:  1_500,
			FeeAccount:    feeAct,
			EscrowAccount: escAct,
		},
	}
}

func newState(t *testing.T) *state.State {
	t.Helper()

	storage, err := memory.New()
	if err != nil {
		t.Fatalf("opening memory storage: %v", err)
	}

	s, err := state.New(state.Config{
		BeneficiaryID: miner,
		Genesis:       testGenesis(),
		Storage:       storage,
	})
	if err != nil {
		t.Fatalf("constructing state: %v", err)
	}

	return s
}

// =============================================================================

func Test_TradeToBlock(t *testing.T) {
	t.Log("Given the need to take a trade from order placement to a mined block.")
	{
		t.Logf("\tTest 0:\tWhen matching a buy against a resting sell.")
		{
			s := newState(t)

			if _, err := s.MineNewBlock(context.Background()); !errors.Is(err, state.ErrNoTransactions) {
				t.Errorf("\t%s\tTest 0:\tShould refuse to mine an empty mempool: %v.", failed, err)
			} else {
				t.Logf("\t%s\tTest 0:\tShould refuse to mine an empty mempool.", success)
			}

			if err := s.RegisterProsumer(account.ID(alice), "alice", market.Residential); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to register the seller: %v", failed, err)
			}
			if err := s.RegisterProsumer(account.ID(bob), "bob", market.Consumer); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to register the buyer: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to register both prosumers.", success)

			if err := s.RecordGeneration(account.ID(alice), 5_000); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to record generation: %v", failed, err)
			}

			if _, _, err := s.PlaceOrder(account.ID(alice), market.Sell, 2_000, 1_500); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to place the sell order: %v", failed, err)
			}

			_, trades, err := s.PlaceOrder(account.ID(bob), market.Buy, 1_500, 2_000)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to place the buy order: %v", failed, err)
			}
			if len(trades) != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould settle exactly one trade: got %d.", failed, len(trades))
			}
			t.Logf("\t%s\tTest 0:\tShould settle exactly one trade.", success)

			// The trade queues a settlement record and a fee record.
			if s.MempoolLength() != 2 {
				t.Errorf("\t%s\tTest 0:\tShould queue 2 transactions: got %d.", failed, s.MempoolLength())
			} else {
				t.Logf("\t%s\tTest 0:\tShould queue 2 transactions.", success)
			}

			if balance := s.Balance(token.Watt, account.ID(alice)); balance != 22_500 {
				t.Errorf("\t%s\tTest 0:\tShould pay the seller 22500 units: got %d.", failed, balance)
			} else {
				t.Logf("\t%s\tTest 0:\tShould pay the seller 22500 units.", success)
			}
			if balance := s.Balance(token.Watt, account.ID(bob)); balance != 1_000_000-23_625 {
				t.Errorf("\t%s\tTest 0:\tShould charge the buyer 23625 units: got %d.", failed, balance)
			} else {
				t.Logf("\t%s\tTest 0:\tShould charge the buyer 23625 units.", success)
			}
		}

		t.Logf("\tTest 1:\tWhen mining the queued transactions into a block.")
		{
			s := newState(t)

			if err := s.RegisterProsumer(account.ID(alice), "alice", market.Residential); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to register the seller: %v", failed, err)
			}
			if err := s.RegisterProsumer(account.ID(bob), "bob", market.Consumer); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to register the buyer: %v", failed, err)
			}
			if err := s.RecordGeneration(account.ID(alice), 5_000); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to record generation: %v", failed, err)
			}
			if _, _, err := s.PlaceOrder(account.ID(alice), market.Sell, 2_000, 1_500); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to place the sell order: %v", failed, err)
			}
			if _, _, err := s.PlaceOrder(account.ID(bob), market.Buy, 1_500, 2_000); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to place the buy order: %v", failed, err)
			}

			if err := s.Transfer(token.Grid, account.ID(alice), account.ID(bob), 50_000); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to transfer GRID: %v", failed, err)
			}
			if err := s.Stake(account.ID(alice), 1_000_000); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to stake GRID: %v", failed, err)
			}

			pending := s.MempoolLength()
			if pending != 4 {
				t.Fatalf("\t%s\tTest 1:\tShould have 4 queued transactions: got %d.", failed, pending)
			}

			block, err := s.MineNewBlock(context.Background())
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to mine the block: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould be able to mine the block.", success)

			// Queued transactions plus the mining reward.
			if len(block.Trans) != pending+1 {
				t.Errorf("\t%s\tTest 1:\tShould capture %d transactions: got %d.", failed, pending+1, len(block.Trans))
			} else {
				t.Logf("\t%s\tTest 1:\tShould capture %d transactions.", success, pending+1)
			}

			if s.MempoolLength() != 0 {
				t.Errorf("\t%s\tTest 1:\tShould drain the mempool: got %d.", failed, s.MempoolLength())
			} else {
				t.Logf("\t%s\tTest 1:\tShould drain the mempool.", success)
			}

			if s.ChainHeight() != 1 {
				t.Errorf("\t%s\tTest 1:\tShould report a chain height of 1: got %d.", failed, s.ChainHeight())
			} else {
				t.Logf("\t%s\tTest 1:\tShould report a chain height of 1.", success)
			}

			if balance := s.Balance(token.Grid, miner); balance != 7_000_000 {
				t.Errorf("\t%s\tTest 1:\tShould pay the mining reward: got %d.", failed, balance)
			} else {
				t.Logf("\t%s\tTest 1:\tShould pay the mining reward.", success)
			}

			if err := s.ValidateChain(); err != nil {
				t.Errorf("\t%s\tTest 1:\tShould validate the mined chain: %v.", failed, err)
			} else {
				t.Logf("\t%s\tTest 1:\tShould validate the mined chain.", success)
			}

			blockData, err := s.BlockByNumber(1)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to read the block back: %v", failed, err)
			}
			if blockData.Header.BeneficiaryID != miner {
				t.Errorf("\t%s\tTest 1:\tShould record the beneficiary on the block.", failed)
			} else {
				t.Logf("\t%s\tTest 1:\tShould record the beneficiary on the block.", success)
			}
		}
	}
}

func Test_GenesisState(t *testing.T) {
	t.Log("Given the need to boot a node from a genesis document.")
	{
		t.Logf("\tTest 0:\tWhen constructing state from genesis.")
		{
			s := newState(t)

			if balance := s.Balance(token.Grid, account.ID(alice)); balance != 10_000_000 {
				t.Errorf("\t%s\tTest 0:\tShould mint the founding GRID balance: got %d.", failed, balance)
			} else {
				t.Logf("\t%s\tTest 0:\tShould mint the founding GRID balance.", success)
			}

			if balance := s.Balance(token.Watt, account.ID(bob)); balance != 1_000_000 {
				t.Errorf("\t%s\tTest 0:\tShould mint the founding WATT balance: got %d.", failed, balance)
			} else {
				t.Logf("\t%s\tTest 0:\tShould mint the founding WATT balance.", success)
			}

			if supply := s.TotalSupply(token.Grid); supply != 10_000_000 {
				t.Errorf("\t%s\tTest 0:\tShould count founding balances as supply: got %d.", failed, supply)
			} else {
				t.Logf("\t%s\tTest 0:\tShould count founding balances as supply.", success)
			}

			if s.ChainHeight() != 0 {
				t.Errorf("\t%s\tTest 0:\tShould start at the genesis block: got %d.", failed, s.ChainHeight())
			} else {
				t.Logf("\t%s\tTest 0:\tShould start at the genesis block.", success)
			}

			if s.BeneficiaryID() != miner {
				t.Errorf("\t%s\tTest 0:\tShould carry the configured beneficiary.", failed)
			} else {
				t.Logf("\t%s\tTest 0:\tShould carry the configured beneficiary.", success)
			}
		}
	}
}
