package market

import "errors"

// Set of errors returned by market operations. All are recovered locally by
// the caller; a failed call never leaves partial mutation behind.
var (
	ErrProsumerAlreadyRegistered   = errors.New("prosumer already registered")
	ErrProsumerNotFound            = errors.New("prosumer not found")
	ErrOrderNotFound               = errors.New("order not found")
	ErrOrderNotActive              = errors.New("order not active")
	ErrInvalidEnergyAmount         = errors.New("invalid energy amount")
	ErrInvalidPrice                = errors.New("invalid price")
	ErrInsufficientWattBalance     = errors.New("insufficient WATT balance")
	ErrInsufficientEnergyAvailable = errors.New("insufficient energy available")
	ErrSelfTrading                 = errors.New("cannot trade with yourself")
	ErrUnauthorized                = errors.New("unauthorized operation")
	ErrMarketClosed                = errors.New("market is closed")
)
