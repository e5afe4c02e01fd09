package token

import "github.com/gridwatt/energychain/foundation/energychain/account"

// secondsPerYear is the year length used for linear reward accrual.
const secondsPerYear = 365 * 24 * 60 * 60

// Stake moves GRID from the account's liquid balance into its staked pool.
func (l *Ledger) Stake(id account.ID, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if amount < l.cfg.MinStakeAmount {
		return ErrMinimumStakeNotMet
	}

	if l.balances[Grid][id] < amount {
		return ErrInsufficientBalance
	}

	l.balances[Grid][id] -= amount

	stake, exists := l.stakes[id]
	if !exists {
		now := l.now()
		stake = Stake{Start: now, LastRewardTime: now}
	} else {
		// Bank the accrual on the current position before growing it so
		// the new amount doesn't earn for time it wasn't staked.
		stake.Unclaimed = l.accruedRewards(stake)
		stake.LastRewardTime = l.now()
	}
	stake.Amount += amount
	l.stakes[id] = stake

	l.totalStaked += amount

	return nil
}

// Unstake moves GRID from the account's staked pool back into its liquid
// balance. Unstaking more than is staked fails.
func (l *Ledger) Unstake(id account.ID, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	stake, exists := l.stakes[id]
	if !exists || stake.Amount < amount {
		return ErrNotStaking
	}

	stake.Unclaimed = l.accruedRewards(stake)
	stake.LastRewardTime = l.now()
	stake.Amount -= amount

	if stake.Amount == 0 && stake.Unclaimed == 0 {
		delete(l.stakes, id)
	} else {
		l.stakes[id] = stake
	}

	l.balances[Grid][id] += amount
	l.totalStaked -= amount

	return nil
}

// CalculateRewards returns the reward the account could claim right now.
// The accrual is linear: staked amount times the annual rate for the time
// elapsed since the last claim. The ledger is not mutated.
func (l *Ledger) CalculateRewards(id account.ID) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	stake, exists := l.stakes[id]
	if !exists {
		return 0
	}

	return l.accruedRewards(stake)
}

// ClaimRewards mints the accrued reward into the account's liquid GRID
// balance and resets the accrual clock.
func (l *Ledger) ClaimRewards(id account.ID) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	stake, exists := l.stakes[id]
	if !exists {
		return 0, ErrNoRewardsToClaim
	}

	reward := l.accruedRewards(stake)
	if reward == 0 {
		return 0, ErrNoRewardsToClaim
	}

	stake.Unclaimed = 0
	stake.LastRewardTime = l.now()
	l.stakes[id] = stake

	l.balances[Grid][id] += reward

	info := l.info[Grid]
	info.TotalSupply += reward
	l.info[Grid] = info

	return reward, nil
}

// StakeInfo returns the staked position held by the account.
func (l *Ledger) StakeInfo(id account.ID) (Stake, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	stake, exists := l.stakes[id]
	return stake, exists
}

// StakedBalance returns the amount the account currently has staked.
func (l *Ledger) StakedBalance(id account.ID) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.stakes[id].Amount
}

// TotalStaked returns the sum of all staked GRID.
func (l *Ledger) TotalStaked() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.totalStaked
}

// accruedRewards computes the banked plus newly accrued reward for a stake.
// The annual amount is taken first so the elapsed multiplication can't
// overflow for any realistic stake.
func (l *Ledger) accruedRewards(stake Stake) uint64 {
	elapsed := l.now().Sub(stake.LastRewardTime)
	if elapsed <= 0 {
		return stake.Unclaimed
	}

	annual := stake.Amount * l.cfg.StakingRewardRate / 10_000
	reward := annual * uint64(elapsed.Seconds()) / secondsPerYear

	return reward + stake.Unclaimed
}
