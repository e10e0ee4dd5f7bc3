package sim

import "github.com/rustyeddy/optrader/market"

// EntryFill returns the buyer's slippage-adjusted fill. Slippage always
// worsens the fill: calls fill above the quote, puts below.
func EntryFill(typ market.OptionType, price, slippagePct float64) float64 {
	if typ == market.Call {
		return price * (1 + slippagePct)
	}
	return price * (1 - slippagePct)
}

// ExitFill returns the seller's slippage-adjusted fill, symmetric to
// EntryFill: calls sell below the quote, puts above.
func ExitFill(typ market.OptionType, price, slippagePct float64) float64 {
	if typ == market.Call {
		return price * (1 - slippagePct)
	}
	return price * (1 + slippagePct)
}

// ContractsFor is the largest whole contract count a dollar budget buys at
// the quoted premium (100 shares per contract), before commissions.
func ContractsFor(budget, price float64) int {
	if price <= 0 {
		return 0
	}
	return int(budget / (price * 100))
}
