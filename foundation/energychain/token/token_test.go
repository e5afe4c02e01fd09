package token_test

import (
	"errors"
	"testing"
	"time"

	"github.com/gridwatt/energychain/foundation/energychain/account"
	"github.com/gridwatt/energychain/foundation/energychain/token"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

const (
	alice = account.ID("0xF01813E4B85e178A83e29B8E7bF26BD830a25f32")
	bob   = account.ID("0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4")
	carol = account.ID("0xbEE6ACE826eC2DE1B38a1F7D5aB1c20Fabcd0a26")
)

func testConfig() token.Config {
	return token.Config{
		MinStakeAmount:     1_000,
		StakingRewardRate:  800,
		VotingPeriod:       7 * 24 * time.Hour,
		MinProposalBalance: 10_000,
	}
}

// testClock returns a clock the test can advance by mutating the pointer.
func testClock() (func() time.Time, *time.Time) {
	now := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time { return now }, &now
}

// =============================================================================

func Test_Transfers(t *testing.T) {
	t.Log("Given the need to move tokens between accounts.")
	{
		t.Logf("\tTest 0:\tWhen transferring WATT between two funded accounts.")
		{
			ledger := token.New(testConfig(), nil)

			if err := ledger.Mint(token.Watt, alice, 100_000); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to mint: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to mint.", success)

			if err := ledger.Transfer(token.Watt, alice, bob, 40_000); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to transfer: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to transfer.", success)

			if got := ledger.Balance(token.Watt, alice); got != 60_000 {
				t.Errorf("\t%s\tTest 0:\tShould have sender balance 60000, got %d", failed, got)
			} else {
				t.Logf("\t%s\tTest 0:\tShould have sender balance 60000.", success)
			}

			if got := ledger.Balance(token.Watt, bob); got != 40_000 {
				t.Errorf("\t%s\tTest 0:\tShould have receiver balance 40000, got %d", failed, got)
			} else {
				t.Logf("\t%s\tTest 0:\tShould have receiver balance 40000.", success)
			}

			if got := ledger.TotalSupply(token.Watt); got != 100_000 {
				t.Errorf("\t%s\tTest 0:\tShould have supply unchanged at 100000, got %d", failed, got)
			} else {
				t.Logf("\t%s\tTest 0:\tShould have supply unchanged at 100000.", success)
			}
		}

		t.Logf("\tTest 1:\tWhen transferring more than the sender holds.")
		{
			ledger := token.New(testConfig(), nil)

			if err := ledger.Mint(token.Watt, alice, 100); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to mint: %v", failed, err)
			}

			err := ledger.Transfer(token.Watt, alice, bob, 101)
			if !errors.Is(err, token.ErrInsufficientBalance) {
				t.Fatalf("\t%s\tTest 1:\tShould get ErrInsufficientBalance, got %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould get ErrInsufficientBalance.", success)

			if got := ledger.Balance(token.Watt, alice); got != 100 {
				t.Errorf("\t%s\tTest 1:\tShould leave balances untouched, got %d", failed, got)
			} else {
				t.Logf("\t%s\tTest 1:\tShould leave balances untouched.", success)
			}
		}
	}
}

func Test_MintBurn(t *testing.T) {
	t.Log("Given the need to track supply across mint and burn.")
	{
		t.Logf("\tTest 0:\tWhen minting then burning GRID.")
		{
			ledger := token.New(testConfig(), nil)

			if err := ledger.Mint(token.Grid, alice, 50_000); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to mint: %v", failed, err)
			}

			if err := ledger.Burn(token.Grid, alice, 20_000); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to burn: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to burn.", success)

			if got := ledger.TotalSupply(token.Grid); got != 30_000 {
				t.Errorf("\t%s\tTest 0:\tShould report supply 30000, got %d", failed, got)
			} else {
				t.Logf("\t%s\tTest 0:\tShould report supply 30000.", success)
			}

			if err := ledger.Burn(token.Grid, alice, 30_001); !errors.Is(err, token.ErrInsufficientBalance) {
				t.Errorf("\t%s\tTest 0:\tShould refuse burning more than held, got %v", failed, err)
			} else {
				t.Logf("\t%s\tTest 0:\tShould refuse burning more than held.", success)
			}
		}
	}
}

// =============================================================================

func Test_Staking(t *testing.T) {
	t.Log("Given the need to lock and release staked GRID.")
	{
		t.Logf("\tTest 0:\tWhen staking below the configured minimum.")
		{
			ledger := token.New(testConfig(), nil)
			ledger.Mint(token.Grid, alice, 100_000)

			if err := ledger.Stake(alice, 999); !errors.Is(err, token.ErrMinimumStakeNotMet) {
				t.Fatalf("\t%s\tTest 0:\tShould get ErrMinimumStakeNotMet, got %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould get ErrMinimumStakeNotMet.", success)
		}

		t.Logf("\tTest 1:\tWhen staking and unstaking a funded account.")
		{
			ledger := token.New(testConfig(), nil)
			ledger.Mint(token.Grid, alice, 100_000)

			if err := ledger.Stake(alice, 60_000); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to stake: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould be able to stake.", success)

			if got := ledger.Balance(token.Grid, alice); got != 40_000 {
				t.Errorf("\t%s\tTest 1:\tShould have liquid balance 40000, got %d", failed, got)
			} else {
				t.Logf("\t%s\tTest 1:\tShould have liquid balance 40000.", success)
			}

			if got := ledger.StakedBalance(alice); got != 60_000 {
				t.Errorf("\t%s\tTest 1:\tShould have staked balance 60000, got %d", failed, got)
			} else {
				t.Logf("\t%s\tTest 1:\tShould have staked balance 60000.", success)
			}

			if err := ledger.Unstake(alice, 60_001); !errors.Is(err, token.ErrNotStaking) {
				t.Errorf("\t%s\tTest 1:\tShould refuse unstaking more than staked, got %v", failed, err)
			} else {
				t.Logf("\t%s\tTest 1:\tShould refuse unstaking more than staked.", success)
			}

			if err := ledger.Unstake(alice, 60_000); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to unstake in full: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould be able to unstake in full.", success)

			if got := ledger.Balance(token.Grid, alice); got != 100_000 {
				t.Errorf("\t%s\tTest 1:\tShould have liquid balance restored, got %d", failed, got)
			} else {
				t.Logf("\t%s\tTest 1:\tShould have liquid balance restored.", success)
			}

			if got := ledger.TotalStaked(); got != 0 {
				t.Errorf("\t%s\tTest 1:\tShould have nothing staked, got %d", failed, got)
			} else {
				t.Logf("\t%s\tTest 1:\tShould have nothing staked.", success)
			}
		}

		t.Logf("\tTest 2:\tWhen unstaking with no staking record.")
		{
			ledger := token.New(testConfig(), nil)

			if err := ledger.Unstake(bob, 1); !errors.Is(err, token.ErrNotStaking) {
				t.Fatalf("\t%s\tTest 2:\tShould get ErrNotStaking, got %v", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould get ErrNotStaking.", success)
		}
	}
}

func Test_Rewards(t *testing.T) {
	t.Log("Given the need to accrue staking rewards over time.")
	{
		t.Logf("\tTest 0:\tWhen a stake sits for half a year at 8%% annual.")
		{
			clock, now := testClock()
			ledger := token.New(testConfig(), clock)
			ledger.Mint(token.Grid, alice, 1_000_000)

			if err := ledger.Stake(alice, 1_000_000); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to stake: %v", failed, err)
			}

			// Annual reward at 800bp on 1,000,000 is 80,000. Half a year
			// accrues half of that.
			*now = now.Add(365 * 24 * time.Hour / 2)

			if got := ledger.CalculateRewards(alice); got != 40_000 {
				t.Fatalf("\t%s\tTest 0:\tShould accrue 40000, got %d", failed, got)
			}
			t.Logf("\t%s\tTest 0:\tShould accrue 40000.", success)

			claimed, err := ledger.ClaimRewards(alice)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to claim: %v", failed, err)
			}
			if claimed != 40_000 {
				t.Fatalf("\t%s\tTest 0:\tShould claim 40000, got %d", failed, claimed)
			}
			t.Logf("\t%s\tTest 0:\tShould claim 40000.", success)

			if got := ledger.Balance(token.Grid, alice); got != 40_000 {
				t.Errorf("\t%s\tTest 0:\tShould credit the claim to the liquid balance, got %d", failed, got)
			} else {
				t.Logf("\t%s\tTest 0:\tShould credit the claim to the liquid balance.", success)
			}

			if got := ledger.TotalSupply(token.Grid); got != 1_040_000 {
				t.Errorf("\t%s\tTest 0:\tShould grow the supply by the claim, got %d", failed, got)
			} else {
				t.Logf("\t%s\tTest 0:\tShould grow the supply by the claim.", success)
			}

			if _, err := ledger.ClaimRewards(alice); !errors.Is(err, token.ErrNoRewardsToClaim) {
				t.Errorf("\t%s\tTest 0:\tShould refuse a second immediate claim, got %v", failed, err)
			} else {
				t.Logf("\t%s\tTest 0:\tShould refuse a second immediate claim.", success)
			}
		}

		t.Logf("\tTest 1:\tWhen growing a position mid-accrual.")
		{
			clock, now := testClock()
			ledger := token.New(testConfig(), clock)
			ledger.Mint(token.Grid, alice, 2_000_000)

			ledger.Stake(alice, 1_000_000)
			*now = now.Add(365 * 24 * time.Hour / 2)

			// The second stake banks the 40,000 accrued so far. Another half
			// year on the doubled position accrues 80,000 more.
			if err := ledger.Stake(alice, 1_000_000); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to grow the stake: %v", failed, err)
			}
			*now = now.Add(365 * 24 * time.Hour / 2)

			if got := ledger.CalculateRewards(alice); got != 120_000 {
				t.Fatalf("\t%s\tTest 1:\tShould accrue 120000 total, got %d", failed, got)
			}
			t.Logf("\t%s\tTest 1:\tShould accrue 120000 total.", success)
		}
	}
}

// =============================================================================

func Test_Governance(t *testing.T) {
	t.Log("Given the need to run proposals through their voting lifecycle.")
	{
		t.Logf("\tTest 0:\tWhen the proposer is below the minimum balance.")
		{
			ledger := token.New(testConfig(), nil)
			ledger.Mint(token.Grid, alice, 9_999)

			if _, err := ledger.CreateProposal(alice, "more solar", "", 0); !errors.Is(err, token.ErrInsufficientBalance) {
				t.Fatalf("\t%s\tTest 0:\tShould get ErrInsufficientBalance, got %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould get ErrInsufficientBalance.", success)

			if got := len(ledger.Proposals()); got != 0 {
				t.Errorf("\t%s\tTest 0:\tShould create no proposal, got %d", failed, got)
			} else {
				t.Logf("\t%s\tTest 0:\tShould create no proposal.", success)
			}
		}

		t.Logf("\tTest 1:\tWhen running a full vote to a passing finalization.")
		{
			clock, now := testClock()
			ledger := token.New(testConfig(), clock)
			ledger.Mint(token.Grid, alice, 100_000)
			ledger.Mint(token.Grid, bob, 100_000)
			ledger.Mint(token.Grid, carol, 100_000)
			ledger.Stake(bob, 50_000)
			ledger.Stake(carol, 20_000)

			proposalID, err := ledger.CreateProposal(alice, "lower the grid fee", "cut the fee to 3%", 0)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to create a proposal: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould be able to create a proposal.", success)

			if err := ledger.CastVote(proposalID, alice, true); !errors.Is(err, token.ErrCannotVoteOnOwnProposal) {
				t.Errorf("\t%s\tTest 1:\tShould refuse the proposer's own vote, got %v", failed, err)
			} else {
				t.Logf("\t%s\tTest 1:\tShould refuse the proposer's own vote.", success)
			}

			if err := ledger.CastVote(proposalID, bob, true); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould accept a staked voter: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould accept a staked voter.", success)

			if err := ledger.CastVote(proposalID, bob, false); !errors.Is(err, token.ErrAlreadyVoted) {
				t.Errorf("\t%s\tTest 1:\tShould refuse a second vote, got %v", failed, err)
			} else {
				t.Logf("\t%s\tTest 1:\tShould refuse a second vote.", success)
			}

			proposal, _ := ledger.Proposal(proposalID)
			if proposal.VotesFor != 50_000 || proposal.VotesAgainst != 0 {
				t.Errorf("\t%s\tTest 1:\tShould leave tallies unchanged by the rejected vote: for[%d] against[%d]", failed, proposal.VotesFor, proposal.VotesAgainst)
			} else {
				t.Logf("\t%s\tTest 1:\tShould leave tallies unchanged by the rejected vote.", success)
			}

			if err := ledger.CastVote(proposalID, carol, false); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould accept the against vote: %v", failed, err)
			}

			if _, err := ledger.FinalizeProposal(proposalID); !errors.Is(err, token.ErrVotingStillOpen) {
				t.Errorf("\t%s\tTest 1:\tShould refuse finalizing an open window, got %v", failed, err)
			} else {
				t.Logf("\t%s\tTest 1:\tShould refuse finalizing an open window.", success)
			}

			*now = now.Add(8 * 24 * time.Hour)

			status, err := ledger.FinalizeProposal(proposalID)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to finalize: %v", failed, err)
			}
			if status != token.StatusPassed {
				t.Fatalf("\t%s\tTest 1:\tShould pass with 50000 for vs 20000 against, got %s", failed, status)
			}
			t.Logf("\t%s\tTest 1:\tShould pass with 50000 for vs 20000 against.", success)

			if _, err := ledger.FinalizeProposal(proposalID); !errors.Is(err, token.ErrProposalNotActive) {
				t.Errorf("\t%s\tTest 1:\tShould refuse finalizing twice, got %v", failed, err)
			} else {
				t.Logf("\t%s\tTest 1:\tShould refuse finalizing twice.", success)
			}
		}

		t.Logf("\tTest 2:\tWhen voting outside the window or without stake.")
		{
			clock, now := testClock()
			ledger := token.New(testConfig(), clock)
			ledger.Mint(token.Grid, alice, 100_000)
			ledger.Mint(token.Grid, bob, 100_000)
			ledger.Stake(bob, 50_000)

			proposalID, _ := ledger.CreateProposal(alice, "raise max order size", "", 0)

			if err := ledger.CastVote(proposalID, carol, true); !errors.Is(err, token.ErrNotStaking) {
				t.Errorf("\t%s\tTest 2:\tShould refuse an unstaked voter, got %v", failed, err)
			} else {
				t.Logf("\t%s\tTest 2:\tShould refuse an unstaked voter.", success)
			}

			*now = now.Add(8 * 24 * time.Hour)

			if err := ledger.CastVote(proposalID, bob, true); !errors.Is(err, token.ErrVotingPeriodEnded) {
				t.Errorf("\t%s\tTest 2:\tShould refuse a vote after the window, got %v", failed, err)
			} else {
				t.Logf("\t%s\tTest 2:\tShould refuse a vote after the window.", success)
			}

			if err := ledger.CastVote(99, bob, true); !errors.Is(err, token.ErrProposalNotFound) {
				t.Errorf("\t%s\tTest 2:\tShould refuse a vote on an unknown proposal, got %v", failed, err)
			} else {
				t.Logf("\t%s\tTest 2:\tShould refuse a vote on an unknown proposal.", success)
			}
		}
	}
}
