package dataprocessing

import (
	"log/slog"
	"strconv"
	"strings"

	"loanmatch/internal/matching"
	"loanmatch/internal/normalize"
	"loanmatch/pkg/contracts/domain"
)

// Sheet names in the source workbook. The trailing space in column
// headers is real; lookup is whitespace-insensitive so it never matters.
const (
	SheetRecentOffers   = "Recent Offers"
	SheetLenderCriteria = "Lender Criteria"
)

// Lender Criteria is transposed: lender names run across the header row
// and each threshold lives at a fixed row index below it.
const (
	criteriaRowMinAssets = 1
	criteriaRowLoanRange = 2
	criteriaRowTerm      = 3
	criteriaRowRate      = 4
	criteriaRowMinYears  = 6
)

// Loader maps raw workbook rows into canonical records. Bulk loads
// never fail the caller: a missing or malformed sheet is logged and
// degrades to an empty collection, leaving the not-found decision to
// the service layer.
type Loader struct {
	source SheetSource
	logger *slog.Logger
}

// NewLoader creates a loader over the given sheet source.
func NewLoader(source SheetSource, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		source: source,
		logger: logger.With(slog.String("component", "loader")),
	}
}

// Offers loads and normalizes every historical offer row.
func (l *Loader) Offers() []domain.LoanOffer {
	rows, err := l.source.Rows(SheetRecentOffers)
	if err != nil {
		l.logger.Error("failed to load recent offers",
			slog.String("sheet", SheetRecentOffers),
			slog.String("error", err.Error()))
		return nil
	}
	if len(rows) < 2 {
		l.logger.Warn("recent offers sheet has no data rows",
			slog.Int("rows", len(rows)))
		return nil
	}

	columns := mapColumns(rows[0])
	offers := make([]domain.LoanOffer, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isEmptyRow(row) {
			continue
		}
		offers = append(offers, l.mapOffer(row, columns))
	}

	l.logger.Debug("loaded offers", slog.Int("count", len(offers)))
	return offers
}

func (l *Loader) mapOffer(row []string, columns map[string]int) domain.LoanOffer {
	cell := func(key string) string {
		idx, ok := columns[key]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	offer := domain.LoanOffer{
		CompanyName:      cell("company name"),
		Lender:           cell("lenders"),
		LoanAmount:       normalize.LoanAmount(cell("loan amount")),
		InterestRate:     normalize.CleanNumber(cell("interest rate")),
		Term:             normalize.TermYears(cell("term")),
		MonthlyRepayment: normalize.CleanNumber(cell("monthly repayment")),
	}

	if offer.CompanyName == "" {
		offer.CompanyName = "Unknown"
	}
	if offer.Lender == "" {
		offer.Lender = "Not Specified"
	}
	if offer.Term > 0 {
		offer.TermLabel = strconv.Itoa(offer.Term)
	} else {
		offer.TermLabel = domain.TermNA
	}
	if offer.MonthlyRepayment == 0 && offer.LoanAmount > 0 && offer.Term > 0 {
		offer.MonthlyRepayment = matching.MonthlyRepayment(offer.LoanAmount, offer.InterestRate, offer.Term)
	}
	return offer
}

// LenderCriteria loads the transposed criteria sheet, one criterion per
// lender column.
func (l *Loader) LenderCriteria() []domain.LenderCriterion {
	rows, err := l.source.Rows(SheetLenderCriteria)
	if err != nil {
		l.logger.Error("failed to load lender criteria",
			slog.String("sheet", SheetLenderCriteria),
			slog.String("error", err.Error()))
		return nil
	}
	if len(rows) <= criteriaRowMinYears {
		l.logger.Warn("lender criteria sheet is missing threshold rows",
			slog.Int("rows", len(rows)))
		return nil
	}

	header := rows[0]
	if len(header) < 2 {
		l.logger.Warn("lender criteria sheet has no lender columns")
		return nil
	}

	criteria := make([]domain.LenderCriterion, 0, len(header)-1)
	for col := 1; col < len(header); col++ {
		name := strings.TrimSpace(header[col])
		if name == "" {
			name = "Unknown Lender"
		}

		rangeText := cellAt(rows, criteriaRowLoanRange, col)
		if rangeText == "" {
			rangeText = "N/A"
		}
		minLoan, maxLoan := normalize.LoanRange(rangeText)

		termText := cellAt(rows, criteriaRowTerm, col)
		if termText == "" {
			termText = "N/A"
		}
		rateText := cellAt(rows, criteriaRowRate, col)
		if rateText == "" {
			rateText = "N/A"
		}

		criteria = append(criteria, domain.LenderCriterion{
			Name:      name,
			MinAssets: normalize.CleanNumber(cellAt(rows, criteriaRowMinAssets, col)),
			RangeText: rangeText,
			MinLoan:   minLoan,
			MaxLoan:   maxLoan,
			TermText:  termText,
			TermYears: normalize.TermYears(termText),
			RateText:  rateText,
			MinYears:  normalize.TermYears(cellAt(rows, criteriaRowMinYears, col)),
		})
	}

	l.logger.Debug("loaded lender criteria", slog.Int("count", len(criteria)))
	return criteria
}

// mapColumns builds a case- and whitespace-insensitive header index so
// variants like "Loan Amount " and "Loan amount" resolve to the same
// column.
func mapColumns(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, exists := columns[key]; !exists {
			columns[key] = i
		}
	}
	return columns
}

func cellAt(rows [][]string, row, col int) string {
	if row >= len(rows) || col >= len(rows[row]) {
		return ""
	}
	return strings.TrimSpace(rows[row][col])
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
