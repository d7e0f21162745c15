package http

import (
	"context"

	"loanmatch/pkg/contracts/domain"
)

// LoanServiceInterface defines the operations the loan handler depends
// on. Kept as an interface so tests can substitute a mock.
type LoanServiceInterface interface {
	ProcessLoans(ctx context.Context) ([]domain.LoanOffer, error)
	PrioritizeLoans(ctx context.Context) ([]domain.LoanOffer, error)
	MatchLenders(ctx context.Context, profile domain.CompanyProfile) ([]domain.DirectoryLender, error)
	ClassifyTier(ctx context.Context, netAssets, prevYearNetAssets float64, tradingTime int) domain.Tier
	OptimizeRate(ctx context.Context, loanAmount float64, term int) float64
	RecommendLenders(ctx context.Context, netAssets, loanAmount float64, term int) ([]domain.RecommendedLender, error)
	EligibleLenders(ctx context.Context, netAssets float64, tradingTime int, loanAmount float64) []domain.LenderMatch
	RankLenders(ctx context.Context, loanAmount float64, term int) []domain.LenderMatch
	Profitability(netAssets, prevYearNetAssets float64) float64
	MonthlyRepayment(loanAmount, interestRate float64, term int) float64
}
