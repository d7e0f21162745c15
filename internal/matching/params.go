package matching

// Params holds the tunable constants of the matching engine. The values
// mirror the thresholds the business has been quoting to date; they are
// injected from configuration rather than re-derived.
type Params struct {
	// Tier classification thresholds.
	Tier1MinTradingYears int
	Tier1MinProfit       float64
	Tier2MinTradingYears int
	Tier2MinProfit       float64

	// Rate estimation tolerance windows and bounds.
	AmountWindowLow  float64 // multiplier on the requested amount
	AmountWindowHigh float64
	TermWindow       int     // months either side of the requested term
	MaxRate          float64 // percentage points, plausibility ceiling
	DefaultRate      float64 // percentage points, used when no comparables

	// Result truncation for both ranking policies.
	TopN int
}

// DefaultParams returns the production thresholds.
func DefaultParams() Params {
	return Params{
		Tier1MinTradingYears: 3,
		Tier1MinProfit:       50000,
		Tier2MinTradingYears: 2,
		Tier2MinProfit:       30000,
		AmountWindowLow:      0.5,
		AmountWindowHigh:     1.5,
		TermWindow:           6,
		MaxRate:              24,
		DefaultRate:          15,
		TopN:                 3,
	}
}
