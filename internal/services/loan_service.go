// Package services wires the loaders and the matching engine into the
// operations the HTTP layer exposes.
package services

import (
	"context"
	"log/slog"

	"loanmatch/internal/dataprocessing"
	"loanmatch/internal/matching"
	"loanmatch/pkg/contracts/domain"
)

// LoanService implements the loan matching and pricing operations.
// It is stateless: every call re-reads the underlying sources and
// recomputes from scratch.
type LoanService struct {
	loader    *dataprocessing.Loader
	directory LenderDirectory
	params    matching.Params
	logger    *slog.Logger
}

// NewLoanService creates a loan service.
func NewLoanService(loader *dataprocessing.Loader, directory LenderDirectory, params matching.Params, logger *slog.Logger) *LoanService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoanService{
		loader:    loader,
		directory: directory,
		params:    params,
		logger:    logger.With(slog.String("component", "loan_service")),
	}
}

// ProcessLoans returns every normalized historical offer.
func (s *LoanService) ProcessLoans(ctx context.Context) ([]domain.LoanOffer, error) {
	offers := s.loader.Offers()
	if len(offers) == 0 {
		return nil, ErrNoLoanData
	}
	return offers, nil
}

// PrioritizeLoans returns the top offers by the repayment-first
// comparator.
func (s *LoanService) PrioritizeLoans(ctx context.Context) ([]domain.LoanOffer, error) {
	offers := s.loader.Offers()
	if len(offers) == 0 {
		return nil, ErrNoLoanData
	}
	return s.params.PrioritizeOffers(offers), nil
}

// MatchLenders returns the directory lenders recorded for the profile's
// company whose thresholds the profile meets. An empty result is valid:
// the company exists but currently qualifies for nothing.
func (s *LoanService) MatchLenders(ctx context.Context, profile domain.CompanyProfile) ([]domain.DirectoryLender, error) {
	company, err := s.directory.Company(profile.CompanyName)
	if err != nil {
		return nil, err
	}
	return matching.MatchDirectoryLenders(company, profile), nil
}

// ClassifyTier computes the loan tier for the given financials.
func (s *LoanService) ClassifyTier(ctx context.Context, netAssets, prevYearNetAssets float64, tradingTime int) domain.Tier {
	return s.params.ClassifyTier(netAssets, prevYearNetAssets, tradingTime)
}

// OptimizeRate estimates the market interest rate for the requested
// amount and term from comparable historical offers.
func (s *LoanService) OptimizeRate(ctx context.Context, loanAmount float64, term int) float64 {
	offers := s.loader.Offers()
	rate := s.params.EstimateRate(offers, loanAmount, term)
	s.logger.DebugContext(ctx, "estimated rate",
		slog.Float64("loan_amount", loanAmount),
		slog.Int("term", term),
		slog.Int("comparables", len(offers)),
		slog.Float64("rate", rate))
	return rate
}

// RecommendLenders scans all companies' directory entries for lenders
// meeting the given floors.
func (s *LoanService) RecommendLenders(ctx context.Context, netAssets, loanAmount float64, term int) ([]domain.RecommendedLender, error) {
	companies, err := s.directory.Companies()
	if err != nil {
		return nil, err
	}
	recommended := matching.RecommendDirectoryLenders(companies, netAssets, loanAmount, term)
	if len(recommended) == 0 {
		return nil, ErrNoMatchingLenders
	}
	return recommended, nil
}

// EligibleLenders filters the criteria sheet against a company's
// financials. Degrades to empty when the sheet is unavailable.
func (s *LoanService) EligibleLenders(ctx context.Context, netAssets float64, tradingTime int, loanAmount float64) []domain.LenderMatch {
	criteria := s.loader.LenderCriteria()
	return matching.EligibleLenders(criteria, netAssets, tradingTime, loanAmount)
}

// RankLenders returns the top criteria-sheet lenders covering the
// requested amount and term, best published rate first.
func (s *LoanService) RankLenders(ctx context.Context, loanAmount float64, term int) []domain.LenderMatch {
	criteria := s.loader.LenderCriteria()
	eligible := matching.FilterByAmountAndTerm(criteria, loanAmount, term)
	return s.params.RankLenders(eligible)
}

// Profitability is the year-on-year net asset movement.
func (s *LoanService) Profitability(netAssets, prevYearNetAssets float64) float64 {
	return matching.Profitability(netAssets, prevYearNetAssets)
}

// MonthlyRepayment applies the flat repayment formula.
func (s *LoanService) MonthlyRepayment(loanAmount, interestRate float64, term int) float64 {
	return matching.MonthlyRepayment(loanAmount, interestRate, term)
}
