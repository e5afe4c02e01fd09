package token

import "errors"

// Set of errors returned by ledger operations. Callers recover from these
// locally; a failed call never leaves partial mutation behind.
var (
	ErrInsufficientBalance     = errors.New("insufficient balance")
	ErrTokenNotFound           = errors.New("token not found")
	ErrMinimumStakeNotMet      = errors.New("minimum stake amount not met")
	ErrNotStaking              = errors.New("not staking")
	ErrNoRewardsToClaim        = errors.New("no rewards to claim")
	ErrProposalNotFound        = errors.New("proposal not found")
	ErrProposalNotActive       = errors.New("proposal not active")
	ErrAlreadyVoted            = errors.New("already voted")
	ErrCannotVoteOnOwnProposal = errors.New("cannot vote on own proposal")
	ErrVotingPeriodEnded       = errors.New("voting period ended")
	ErrVotingStillOpen         = errors.New("voting period still open")
)
