package matching

import (
	"math"

	"loanmatch/pkg/contracts/domain"
)

// EstimateRate derives a representative interest rate for the requested
// amount and term from comparable historical offers. This is a
// comparable-sales heuristic, not a model fit:
//
//  1. keep offers within the amount window and ±TermWindow of the term,
//  2. convert each rate to a fraction and discard anything outside
//     (0, MaxRate/100] as an implausible or failed parse,
//  3. average what survives, or fall back to DefaultRate,
//  4. clamp to MaxRate.
//
// Offers whose term is the N/A sentinel carry a parsed term of 0 and
// only match very short requested terms.
func (p Params) EstimateRate(offers []domain.LoanOffer, loanAmount float64, term int) float64 {
	amountMin := loanAmount * p.AmountWindowLow
	amountMax := loanAmount * p.AmountWindowHigh
	termMin := term - p.TermWindow
	termMax := term + p.TermWindow

	var sum float64
	var count int
	for _, offer := range offers {
		if offer.LoanAmount < amountMin || offer.LoanAmount > amountMax {
			continue
		}
		if offer.Term < termMin || offer.Term > termMax {
			continue
		}
		fraction := offer.InterestRate / 100
		if fraction <= 0 || fraction > p.MaxRate/100 {
			continue
		}
		sum += fraction
		count++
	}

	rate := p.DefaultRate
	if count > 0 {
		rate = sum / float64(count) * 100
	}
	return math.Min(rate, p.MaxRate)
}

// MonthlyRepayment applies the flat fallback formula used when a
// repayment figure is absent from the source data: amount × (1 + rate)
// divided over the term. The rate is applied exactly as supplied and
// this is deliberately not an amortization schedule. Result is rounded
// to two decimal places.
func MonthlyRepayment(loanAmount, interestRate float64, term int) float64 {
	if term <= 0 {
		return 0
	}
	return math.Round(loanAmount*(1+interestRate)/float64(term)*100) / 100
}
