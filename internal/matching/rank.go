package matching

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"loanmatch/pkg/contracts/domain"
)

var leadingNumber = regexp.MustCompile(`^-?\d+(\.\d+)?`)

// parseLeadingNumber reads the numeric prefix of a raw descriptor such
// as "12%" or "9.5% fixed". No prefix means 0, keeping sorts total.
func parseLeadingNumber(text string) float64 {
	m := leadingNumber.FindString(strings.TrimSpace(text))
	if m == "" {
		return 0
	}
	n, _ := strconv.ParseFloat(m, 64)
	return n
}

// PrioritizeOffers orders loan offers by monthly repayment ascending,
// breaking ties by longer term then larger amount, and truncates to
// TopN. The caller's slice is left untouched; sorting is stable so
// offers equal on all three keys keep their source order.
func (p Params) PrioritizeOffers(offers []domain.LoanOffer) []domain.LoanOffer {
	ranked := make([]domain.LoanOffer, len(offers))
	copy(ranked, offers)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.MonthlyRepayment != b.MonthlyRepayment {
			return a.MonthlyRepayment < b.MonthlyRepayment
		}
		if a.Term != b.Term {
			return a.Term > b.Term
		}
		return a.LoanAmount > b.LoanAmount
	})

	return truncate(ranked, p.TopN)
}

// RankLenders orders criteria-sheet lenders by published rate
// ascending, then widest range, then longest term, truncated to TopN.
// Raw descriptors that fail to parse rank as 0, including open-ended
// upper bounds: an unbounded range carries no weight in the tie-break.
func (p Params) RankLenders(criteria []domain.LenderCriterion) []domain.LenderMatch {
	ranked := make([]domain.LenderCriterion, len(criteria))
	copy(ranked, criteria)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if ra, rb := rateKey(a), rateKey(b); ra != rb {
			return ra < rb
		}
		if ma, mb := maxLoanKey(a), maxLoanKey(b); ma != mb {
			return ma > mb
		}
		return a.TermYears > b.TermYears
	})

	ranked = truncate(ranked, p.TopN)
	matches := make([]domain.LenderMatch, len(ranked))
	for i, c := range ranked {
		matches[i] = domain.LenderMatch{
			Name:            c.Name,
			LoanAmountRange: c.RangeText,
			InterestRate:    c.RateText,
			Term:            c.TermText,
		}
	}
	return matches
}

func rateKey(c domain.LenderCriterion) float64 {
	return parseLeadingNumber(c.RateText)
}

func maxLoanKey(c domain.LenderCriterion) float64 {
	if math.IsInf(c.MaxLoan, 1) {
		return 0
	}
	return c.MaxLoan
}

func truncate[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
