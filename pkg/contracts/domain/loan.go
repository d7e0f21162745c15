package domain

import "math"

// LoanOffer is a normalized historical loan offer built from a
// "Recent Offers" row. Offers are value objects: constructed fresh on
// every query and never mutated afterwards.
type LoanOffer struct {
	CompanyName      string  `json:"companyName"`
	Lender           string  `json:"lender"`
	LoanAmount       float64 `json:"loanAmount"`
	InterestRate     float64 `json:"interestRate"`
	Term             int     `json:"-"`
	TermLabel        string  `json:"term"`
	MonthlyRepayment float64 `json:"monthlyRepayment"`
}

// TermNA is the sentinel carried for offers whose term column was absent.
const TermNA = "N/A"

// LenderCriterion is a normalized column of the "Lender Criteria" sheet.
// RateText and TermText keep the raw descriptors because they are not
// always numeric; MinLoan/MaxLoan come from the parsed amount range.
type LenderCriterion struct {
	Name      string  `json:"name"`
	MinAssets float64 `json:"minAssets"`
	RangeText string  `json:"loanAmountRange"`
	MinLoan   float64 `json:"-"`
	MaxLoan   float64 `json:"-"`
	TermText  string  `json:"term"`
	TermYears int     `json:"-"`
	RateText  string  `json:"interestRate"`
	MinYears  int     `json:"-"`
}

// Unbounded marks an open-ended upper loan bound.
var Unbounded = math.Inf(1)

// CompanyProfile carries the financials a client submits for matching.
// Request-scoped; never persisted.
type CompanyProfile struct {
	CompanyName       string  `json:"companyName" validate:"required"`
	NetAssets         float64 `json:"netAssets" validate:"min=0"`
	PrevYearNetAssets float64 `json:"prevYearNetAssets" validate:"min=0"`
	TradingTime       int     `json:"tradingTime" validate:"min=0"`
	LoanAmount        float64 `json:"loanAmount" validate:"min=0"`
}

// Tier is the discrete risk classification assigned to a company.
type Tier string

const (
	Tier1 Tier = "Tier 1"
	Tier2 Tier = "Tier 2"
	Tier3 Tier = "Tier 3"
)

// DirectoryLender is one lender entry of the per-company lender
// directory file. Thresholds are compared against a CompanyProfile,
// not normalized from the workbook.
type DirectoryLender struct {
	Lender            string  `json:"lender"`
	NetAssets         float64 `json:"netAssets"`
	PrevYearNetAssets float64 `json:"prevYearNetAssets"`
	TradingTime       int     `json:"tradingTime"`
	LoanAmount        float64 `json:"loanAmount"`
	InterestRate      float64 `json:"interestRate"`
	MonthlyRepayment  float64 `json:"monthlyRepayment"`
}

// DirectoryCompany groups the directory lenders recorded for one company.
type DirectoryCompany struct {
	CompanyName string            `json:"companyName"`
	Lenders     []DirectoryLender `json:"lenders"`
}

// RecommendedLender is a directory lender annotated with the company it
// was recorded under, returned by the cross-company recommendation path.
type RecommendedLender struct {
	CompanyName string `json:"companyName"`
	DirectoryLender
}

// LenderMatch is the shape returned by the criteria-sheet matching
// operations: the lender plus its raw published terms.
type LenderMatch struct {
	Name            string `json:"name"`
	LoanAmountRange string `json:"loanAmountRange"`
	InterestRate    string `json:"interestRate"`
	Term            string `json:"term"`
}
