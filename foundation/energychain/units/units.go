// Package units owns the unit conventions shared with the API surface.
// Energy moves across the wire as float kWh and is held internally as
// integer centi-kWh. Prices move as float WATT per kWh and are held as
// integer 1/10000 WATT. Token balances are held in 1/10000 token units
// so trade arithmetic stays exact.
package units

import "math"

// EnergyScale is the number of centi-kWh per kWh.
const EnergyScale = 100

// PriceScale is the number of internal price units per WATT.
const PriceScale = 10_000

// TokenScale is the number of internal balance units per whole token.
const TokenScale = 10_000

// KWhToCenti converts a kWh amount to integer centi-kWh.
func KWhToCenti(kwh float64) uint64 {
	return uint64(math.Round(kwh * EnergyScale))
}

// CentiToKWh converts integer centi-kWh back to kWh.
func CentiToKWh(centi uint64) float64 {
	return float64(centi) / EnergyScale
}

// PriceToUnits converts a WATT-per-kWh price to integer 1/10000 WATT units.
func PriceToUnits(price float64) uint64 {
	return uint64(math.Round(price * PriceScale))
}

// UnitsToPrice converts integer price units back to WATT per kWh.
func UnitsToPrice(units uint64) float64 {
	return float64(units) / PriceScale
}

// TokensToUnits converts a whole-token amount to integer balance units.
func TokensToUnits(tokens float64) uint64 {
	return uint64(math.Round(tokens * TokenScale))
}

// UnitsToTokens converts integer balance units back to whole tokens.
func UnitsToTokens(units uint64) float64 {
	return float64(units) / TokenScale
}

// BaseCost computes the cost in balance units of an energy amount in
// centi-kWh at a price in 1/10000 WATT per kWh. The two scales cancel so
// the result is exact for any representable pair.
func BaseCost(energy uint64, price uint64) uint64 {
	return energy * price / EnergyScale
}

// FeeOn applies a basis-points rate to a balance amount.
func FeeOn(amount uint64, rateBasisPoints uint64) uint64 {
	return amount * rateBasisPoints / 10_000
}
