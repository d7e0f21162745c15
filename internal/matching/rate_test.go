package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"loanmatch/pkg/contracts/domain"
)

func offer(amount, rate float64, term int) domain.LoanOffer {
	return domain.LoanOffer{LoanAmount: amount, InterestRate: rate, Term: term}
}

func TestEstimateRate(t *testing.T) {
	p := DefaultParams()

	tests := []struct {
		name       string
		offers     []domain.LoanOffer
		loanAmount float64
		term       int
		expected   float64
	}{
		{
			name: "mean_of_comparables",
			offers: []domain.LoanOffer{
				offer(10000, 10, 12),
				offer(12000, 14, 14),
				offer(9000, 12, 10),
			},
			loanAmount: 10000,
			term:       12,
			expected:   12,
		},
		{
			name: "amount_window_excludes_outliers",
			offers: []domain.LoanOffer{
				offer(10000, 10, 12),
				offer(4000, 20, 12),  // below 50% of requested
				offer(16000, 20, 12), // above 150% of requested
			},
			loanAmount: 10000,
			term:       12,
			expected:   10,
		},
		{
			name: "term_window_excludes_distant_terms",
			offers: []domain.LoanOffer{
				offer(10000, 10, 12),
				offer(10000, 20, 24),
			},
			loanAmount: 10000,
			term:       12,
			expected:   10,
		},
		{
			name: "implausible_rates_discarded",
			offers: []domain.LoanOffer{
				offer(10000, 10, 12),
				offer(10000, 0, 12),  // non-positive parse
				offer(10000, 90, 12), // above plausibility ceiling
			},
			loanAmount: 10000,
			term:       12,
			expected:   10,
		},
		{
			name:       "no_comparables_falls_back_to_default",
			offers:     nil,
			loanAmount: 25000,
			term:       36,
			expected:   15,
		},
		{
			name: "result_clamped_to_ceiling",
			offers: []domain.LoanOffer{
				offer(10000, 24, 12),
				offer(10000, 24, 12),
			},
			loanAmount: 10000,
			term:       12,
			expected:   24,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.EstimateRate(tt.offers, tt.loanAmount, tt.term)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestEstimateRateNeverExceedsCeiling(t *testing.T) {
	p := DefaultParams()
	offers := []domain.LoanOffer{offer(10000, 23.9, 12), offer(10000, 24, 12)}
	assert.LessOrEqual(t, p.EstimateRate(offers, 10000, 12), p.MaxRate)
	assert.LessOrEqual(t, p.EstimateRate(nil, 1, 1), p.MaxRate)
}

func TestMonthlyRepayment(t *testing.T) {
	tests := []struct {
		name         string
		loanAmount   float64
		interestRate float64
		term         int
		expected     float64
	}{
		{name: "flat_formula", loanAmount: 10000, interestRate: 0.1, term: 12, expected: 916.67},
		{name: "zero_rate", loanAmount: 12000, interestRate: 0, term: 12, expected: 1000},
		{name: "zero_term_guard", loanAmount: 10000, interestRate: 0.1, term: 0, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MonthlyRepayment(tt.loanAmount, tt.interestRate, tt.term))
		})
	}
}
