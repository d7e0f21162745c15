package matching

import "loanmatch/pkg/contracts/domain"

// EligibleLenders filters criteria-sheet lenders against a company's
// assets, trading history and requested amount. Both range bounds are
// inclusive; an open-ended range admits any amount above the minimum.
// An empty result is a valid outcome, not an error.
func EligibleLenders(criteria []domain.LenderCriterion, netAssets float64, tradingYears int, loanAmount float64) []domain.LenderMatch {
	matches := make([]domain.LenderMatch, 0, len(criteria))
	for _, c := range criteria {
		if netAssets < c.MinAssets {
			continue
		}
		if tradingYears < c.MinYears {
			continue
		}
		if loanAmount < c.MinLoan || loanAmount > c.MaxLoan {
			continue
		}
		matches = append(matches, domain.LenderMatch{
			Name:            c.Name,
			LoanAmountRange: c.RangeText,
			InterestRate:    c.RateText,
			Term:            c.TermText,
		})
	}
	return matches
}

// MatchDirectoryLenders returns the lenders recorded for a single
// company whose thresholds the profile meets. Here the trading-time
// predicate is a ceiling: the lender's recorded trading time is the
// maximum risk horizon it accepts, so the company must have traded at
// least that long.
func MatchDirectoryLenders(company domain.DirectoryCompany, profile domain.CompanyProfile) []domain.DirectoryLender {
	eligible := make([]domain.DirectoryLender, 0, len(company.Lenders))
	for _, l := range company.Lenders {
		if l.NetAssets >= profile.NetAssets &&
			l.PrevYearNetAssets >= profile.PrevYearNetAssets &&
			l.TradingTime <= profile.TradingTime &&
			l.LoanAmount >= profile.LoanAmount {
			eligible = append(eligible, l)
		}
	}
	return eligible
}

// RecommendDirectoryLenders scans every company's directory entries for
// lenders meeting the given floors. Unlike MatchDirectoryLenders the
// trading-time predicate is a floor here: the caller's term acts as a
// minimum track record. The two directions encode different business
// rules and must not be unified.
func RecommendDirectoryLenders(companies []domain.DirectoryCompany, netAssets, loanAmount float64, term int) []domain.RecommendedLender {
	var recommended []domain.RecommendedLender
	for _, company := range companies {
		for _, l := range company.Lenders {
			if l.NetAssets >= netAssets &&
				l.LoanAmount >= loanAmount &&
				l.TradingTime >= term {
				recommended = append(recommended, domain.RecommendedLender{
					CompanyName:     company.CompanyName,
					DirectoryLender: l,
				})
			}
		}
	}
	return recommended
}

// FilterByAmountAndTerm keeps criteria-sheet lenders whose published
// range covers the requested amount and whose term ceiling covers the
// requested term.
func FilterByAmountAndTerm(criteria []domain.LenderCriterion, loanAmount float64, term int) []domain.LenderCriterion {
	kept := make([]domain.LenderCriterion, 0, len(criteria))
	for _, c := range criteria {
		if loanAmount >= c.MinLoan && loanAmount <= c.MaxLoan && term <= c.TermYears {
			kept = append(kept, c)
		}
	}
	return kept
}
