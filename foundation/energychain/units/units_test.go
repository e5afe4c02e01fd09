package units_test

import (
	"testing"

	"github.com/gridwatt/energychain/foundation/energychain/units"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func Test_Conversions(t *testing.T) {
	t.Log("Given the need to move quantities between wire and internal units.")
	{
		t.Logf("\tTest 0:\tWhen converting energy amounts.")
		{
			if got := units.KWhToCenti(15.00); got != 1_500 {
				t.Errorf("\t%s\tTest 0:\tShould convert 15.00 kWh to 1500 centi: got %d.", failed, got)
			} else {
				t.Logf("\t%s\tTest 0:\tShould convert 15.00 kWh to 1500 centi.", success)
			}

			if got := units.KWhToCenti(0.005); got != 1 {
				t.Errorf("\t%s\tTest 0:\tShould round half a centi up: got %d.", failed, got)
			} else {
				t.Logf("\t%s\tTest 0:\tShould round half a centi up.", success)
			}

			if got := units.CentiToKWh(1_500); got != 15.00 {
				t.Errorf("\t%s\tTest 0:\tShould convert 1500 centi back to 15.00 kWh: got %v.", failed, got)
			} else {
				t.Logf("\t%s\tTest 0:\tShould convert 1500 centi back to 15.00 kWh.", success)
			}
		}

		t.Logf("\tTest 1:\tWhen converting prices and token amounts.")
		{
			if got := units.PriceToUnits(0.15); got != 1_500 {
				t.Errorf("\t%s\tTest 1:\tShould convert a 0.15 price to 1500 units: got %d.", failed, got)
			} else {
				t.Logf("\t%s\tTest 1:\tShould convert a 0.15 price to 1500 units.", success)
			}

			if got := units.UnitsToPrice(1_500); got != 0.15 {
				t.Errorf("\t%s\tTest 1:\tShould convert 1500 units back to 0.15: got %v.", failed, got)
			} else {
				t.Logf("\t%s\tTest 1:\tShould convert 1500 units back to 0.15.", success)
			}

			if got := units.TokensToUnits(100.1234); got != 1_001_234 {
				t.Errorf("\t%s\tTest 1:\tShould convert whole tokens to balance units: got %d.", failed, got)
			} else {
				t.Logf("\t%s\tTest 1:\tShould convert whole tokens to balance units.", success)
			}

			if got := units.UnitsToTokens(1_001_234); got != 100.1234 {
				t.Errorf("\t%s\tTest 1:\tShould convert balance units back to whole tokens: got %v.", failed, got)
			} else {
				t.Logf("\t%s\tTest 1:\tShould convert balance units back to whole tokens.", success)
			}
		}

		t.Logf("\tTest 2:\tWhen computing trade costs.")
		{
			// 15.00 kWh at 0.15 WATT per kWh costs 2.25 WATT.
			base := units.BaseCost(1_500, 1_500)
			if base != 22_500 {
				t.Errorf("\t%s\tTest 2:\tShould compute a base cost of 22500 units: got %d.", failed, base)
			} else {
				t.Logf("\t%s\tTest 2:\tShould compute a base cost of 22500 units.", success)
			}

			// A 5% fee in basis points.
			if fee := units.FeeOn(base, 500); fee != 1_125 {
				t.Errorf("\t%s\tTest 2:\tShould compute a 5%% fee of 1125 units: got %d.", failed, fee)
			} else {
				t.Logf("\t%s\tTest 2:\tShould compute a 5%% fee of 1125 units.", success)
			}

			if fee := units.FeeOn(0, 500); fee != 0 {
				t.Errorf("\t%s\tTest 2:\tShould charge no fee on a zero base: got %d.", failed, fee)
			} else {
				t.Logf("\t%s\tTest 2:\tShould charge no fee on a zero base.", success)
			}
		}
	}
}
