package matching

import "loanmatch/pkg/contracts/domain"

// Profitability is the year-on-year net asset movement.
func Profitability(netAssets, prevYearNetAssets float64) float64 {
	return netAssets - prevYearNetAssets
}

// ClassifyTier assigns the loan tier for a company's financials. The
// Tier 1 check runs first and short-circuits: a long-trading, highly
// profitable company never falls through to the Tier 2 test. Both
// profit comparisons are strict.
func (p Params) ClassifyTier(netAssets, prevYearNetAssets float64, tradingYears int) domain.Tier {
	profit := Profitability(netAssets, prevYearNetAssets)
	switch {
	case tradingYears >= p.Tier1MinTradingYears && profit > p.Tier1MinProfit:
		return domain.Tier1
	case tradingYears >= p.Tier2MinTradingYears && profit > p.Tier2MinProfit:
		return domain.Tier2
	default:
		return domain.Tier3
	}
}
