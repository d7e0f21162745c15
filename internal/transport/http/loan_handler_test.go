package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apierrors "loanmatch/internal/errors"
	"loanmatch/internal/services"
	"loanmatch/pkg/contracts/domain"
)

type mockLoanService struct {
	mock.Mock
}

func (m *mockLoanService) ProcessLoans(ctx context.Context) ([]domain.LoanOffer, error) {
	args := m.Called(ctx)
	if offers := args.Get(0); offers != nil {
		return offers.([]domain.LoanOffer), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockLoanService) PrioritizeLoans(ctx context.Context) ([]domain.LoanOffer, error) {
	args := m.Called(ctx)
	if offers := args.Get(0); offers != nil {
		return offers.([]domain.LoanOffer), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockLoanService) MatchLenders(ctx context.Context, profile domain.CompanyProfile) ([]domain.DirectoryLender, error) {
	args := m.Called(ctx, profile)
	if lenders := args.Get(0); lenders != nil {
		return lenders.([]domain.DirectoryLender), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockLoanService) ClassifyTier(ctx context.Context, netAssets, prevYearNetAssets float64, tradingTime int) domain.Tier {
	args := m.Called(ctx, netAssets, prevYearNetAssets, tradingTime)
	return args.Get(0).(domain.Tier)
}

func (m *mockLoanService) OptimizeRate(ctx context.Context, loanAmount float64, term int) float64 {
	args := m.Called(ctx, loanAmount, term)
	return args.Get(0).(float64)
}

func (m *mockLoanService) RecommendLenders(ctx context.Context, netAssets, loanAmount float64, term int) ([]domain.RecommendedLender, error) {
	args := m.Called(ctx, netAssets, loanAmount, term)
	if lenders := args.Get(0); lenders != nil {
		return lenders.([]domain.RecommendedLender), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockLoanService) EligibleLenders(ctx context.Context, netAssets float64, tradingTime int, loanAmount float64) []domain.LenderMatch {
	args := m.Called(ctx, netAssets, tradingTime, loanAmount)
	if matches := args.Get(0); matches != nil {
		return matches.([]domain.LenderMatch)
	}
	return nil
}

func (m *mockLoanService) RankLenders(ctx context.Context, loanAmount float64, term int) []domain.LenderMatch {
	args := m.Called(ctx, loanAmount, term)
	if matches := args.Get(0); matches != nil {
		return matches.([]domain.LenderMatch)
	}
	return nil
}

func (m *mockLoanService) Profitability(netAssets, prevYearNetAssets float64) float64 {
	args := m.Called(netAssets, prevYearNetAssets)
	return args.Get(0).(float64)
}

func (m *mockLoanService) MonthlyRepayment(loanAmount, interestRate float64, term int) float64 {
	args := m.Called(loanAmount, interestRate, term)
	return args.Get(0).(float64)
}

func newTestHandler(svc *mockLoanService) *LoanHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewLoanHandler(svc, logger, apierrors.NewErrorHandler(logger))
}

func doJSON(t *testing.T, handler *LoanHandler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)
	return rec
}

func TestProcessLoansReturnsOffers(t *testing.T) {
	svc := new(mockLoanService)
	svc.On("ProcessLoans", mock.Anything).Return([]domain.LoanOffer{
		{CompanyName: "Widget Co", Lender: "Acme", LoanAmount: 10000, InterestRate: 12, TermLabel: "12", MonthlyRepayment: 933.33},
	}, nil)

	rec := doJSON(t, newTestHandler(svc), http.MethodGet, "/process-loans", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var offers []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &offers))
	require.Len(t, offers, 1)
	assert.Equal(t, "Widget Co", offers[0]["companyName"])
	assert.Equal(t, "12", offers[0]["term"])
}

func TestProcessLoansEmptyIs404(t *testing.T) {
	svc := new(mockLoanService)
	svc.On("ProcessLoans", mock.Anything).Return(nil, services.ErrNoLoanData)

	rec := doJSON(t, newTestHandler(svc), http.MethodGet, "/process-loans", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "/errors/not-found")
}

func TestMatchLenders(t *testing.T) {
	svc := new(mockLoanService)
	svc.On("MatchLenders", mock.Anything, mock.MatchedBy(func(p domain.CompanyProfile) bool {
		return p.CompanyName == "Widget Co" && p.LoanAmount == 40000
	})).Return([]domain.DirectoryLender{{Lender: "Fast Finance"}}, nil)

	body := `{"companyName":"Widget Co","netAssets":70000,"prevYearNetAssets":50000,"tradingTime":3,"loanAmount":40000}`
	rec := doJSON(t, newTestHandler(svc), http.MethodPost, "/match-lenders", body)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp MatchLendersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Widget Co", resp.CompanyName)
	require.Len(t, resp.EligibleLenders, 1)
	assert.Equal(t, "Fast Finance", resp.EligibleLenders[0].Lender)
}

func TestMatchLendersMissingCompanyNameIs400(t *testing.T) {
	svc := new(mockLoanService)

	rec := doJSON(t, newTestHandler(svc), http.MethodPost, "/match-lenders",
		`{"netAssets":70000,"prevYearNetAssets":50000,"tradingTime":3,"loanAmount":40000}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "/errors/validation")
	svc.AssertNotCalled(t, "MatchLenders")
}

func TestMatchLendersUnknownCompanyIs404(t *testing.T) {
	svc := new(mockLoanService)
	svc.On("MatchLenders", mock.Anything, mock.Anything).Return(nil, services.ErrCompanyNotFound)

	body := `{"companyName":"Nobody Plc","netAssets":1,"prevYearNetAssets":1,"tradingTime":1,"loanAmount":1}`
	rec := doJSON(t, newTestHandler(svc), http.MethodPost, "/match-lenders", body)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "COMPANY_NOT_FOUND")
}

func TestMatchLendersEmptyResultIsValid(t *testing.T) {
	svc := new(mockLoanService)
	svc.On("MatchLenders", mock.Anything, mock.Anything).Return([]domain.DirectoryLender{}, nil)

	body := `{"companyName":"Widget Co","netAssets":1,"prevYearNetAssets":1,"tradingTime":1,"loanAmount":1}`
	rec := doJSON(t, newTestHandler(svc), http.MethodPost, "/match-lenders", body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"eligibleLenders":[]`)
}

func TestClassifyTier(t *testing.T) {
	svc := new(mockLoanService)
	svc.On("ClassifyTier", mock.Anything, 100000.0, 40000.0, 4).Return(domain.Tier1)

	body := `{"netAssets":100000,"prevYearNetAssets":40000,"tradingTime":4}`
	rec := doJSON(t, newTestHandler(svc), http.MethodPost, "/classify-tier", body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"tier":"Tier 1"}`, rec.Body.String())
}

func TestClassifyTierZeroFinancialsIs400(t *testing.T) {
	svc := new(mockLoanService)

	rec := doJSON(t, newTestHandler(svc), http.MethodPost, "/classify-tier",
		`{"netAssets":0,"prevYearNetAssets":40000,"tradingTime":4}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "ClassifyTier")
}

func TestOptimizeRate(t *testing.T) {
	svc := new(mockLoanService)
	svc.On("OptimizeRate", mock.Anything, 10000.0, 12).Return(11.5)

	rec := doJSON(t, newTestHandler(svc), http.MethodPost, "/optimize-rate",
		`{"loanAmount":10000,"term":12}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"optimalInterestRate":11.5}`, rec.Body.String())
}

func TestOptimizeRateRejectsMalformedJSON(t *testing.T) {
	svc := new(mockLoanService)

	rec := doJSON(t, newTestHandler(svc), http.MethodPost, "/optimize-rate", `{"loanAmount":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "/errors/validation")
}

func TestRecommendLenders(t *testing.T) {
	svc := new(mockLoanService)
	svc.On("RecommendLenders", mock.Anything, 50000.0, 30000.0, 5).Return([]domain.RecommendedLender{
		{CompanyName: "Widget Co", DirectoryLender: domain.DirectoryLender{Lender: "Slow Finance", InterestRate: 7.5}},
	}, nil)

	rec := doJSON(t, newTestHandler(svc), http.MethodPost, "/recommend-lenders",
		`{"netAssets":50000,"loanAmount":30000,"term":5}`)

	require.Equal(t, http.StatusOK, rec.Code)
	// The embedded lender fields flatten next to companyName.
	assert.Contains(t, rec.Body.String(), `"companyName":"Widget Co"`)
	assert.Contains(t, rec.Body.String(), `"lender":"Slow Finance"`)
}

func TestRecommendLendersNoneIs404(t *testing.T) {
	svc := new(mockLoanService)
	svc.On("RecommendLenders", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, services.ErrNoMatchingLenders)

	rec := doJSON(t, newTestHandler(svc), http.MethodPost, "/recommend-lenders",
		`{"netAssets":50000,"loanAmount":30000,"term":5}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NO_MATCHING_LENDERS")
}

func TestRecommendLendersDirectoryFailureIs500(t *testing.T) {
	svc := new(mockLoanService)
	svc.On("RecommendLenders", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, services.ErrDirectoryUnavailable)

	rec := doJSON(t, newTestHandler(svc), http.MethodPost, "/recommend-lenders",
		`{"netAssets":50000,"loanAmount":30000,"term":5}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "DATA_SOURCE_ERROR")
}

func TestCalculateProfitability(t *testing.T) {
	svc := new(mockLoanService)
	svc.On("Profitability", 100000.0, 40000.0).Return(60000.0)

	rec := doJSON(t, newTestHandler(svc), http.MethodPost, "/calculate-profitability",
		`{"netAssets":100000,"prevYearNetAssets":40000}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"profitability":60000}`, rec.Body.String())
}

func TestCalculateMonthlyRepayment(t *testing.T) {
	svc := new(mockLoanService)
	svc.On("MonthlyRepayment", 10000.0, 0.1, 12).Return(916.67)

	rec := doJSON(t, newTestHandler(svc), http.MethodPost, "/calculate-monthly-repayment",
		`{"loanAmount":10000,"interestRate":0.1,"term":12}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp MonthlyRepaymentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 916.67, resp.MonthlyRepayment)
	assert.Equal(t, 12, resp.Term)
}

func TestCalculateMonthlyRepaymentRejectsZeroTerm(t *testing.T) {
	svc := new(mockLoanService)

	rec := doJSON(t, newTestHandler(svc), http.MethodPost, "/calculate-monthly-repayment",
		`{"loanAmount":10000,"interestRate":0.1,"term":0}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "MonthlyRepayment")
}

func TestEligibleLenders(t *testing.T) {
	svc := new(mockLoanService)
	svc.On("EligibleLenders", mock.Anything, 60000.0, 3, 20000.0).Return([]domain.LenderMatch{
		{Name: "Acme Capital", LoanAmountRange: "10000-100000", InterestRate: "8%", Term: "5 years"},
	})

	rec := doJSON(t, newTestHandler(svc), http.MethodPost, "/eligible-lenders",
		`{"netAssets":60000,"tradingTime":3,"loanAmount":20000}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Acme Capital"`)
}

func TestEligibleLendersEmptyIsOK(t *testing.T) {
	svc := new(mockLoanService)
	svc.On("EligibleLenders", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.LenderMatch{})

	rec := doJSON(t, newTestHandler(svc), http.MethodPost, "/eligible-lenders",
		`{"netAssets":60000,"tradingTime":3,"loanAmount":20000}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"eligibleLenders":[]`)
}

func TestRankLenders(t *testing.T) {
	svc := new(mockLoanService)
	svc.On("RankLenders", mock.Anything, 60000.0, 4).Return([]domain.LenderMatch{
		{Name: "Acme Capital"},
		{Name: "BigBank"},
	})

	rec := doJSON(t, newTestHandler(svc), http.MethodPost, "/rank-lenders",
		`{"loanAmount":60000,"term":4}`)

	require.Equal(t, http.StatusOK, rec.Code)
	first := strings.Index(rec.Body.String(), "Acme Capital")
	second := strings.Index(rec.Body.String(), "BigBank")
	require.GreaterOrEqual(t, first, 0)
	assert.Less(t, first, second)
}
