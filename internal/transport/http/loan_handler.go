// Package http contains the chi HTTP handlers for the loan matching API.
package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "loanmatch/internal/errors"
	"loanmatch/internal/services"
	"loanmatch/pkg/contracts/domain"
)

// LoanHandler handles loan matching and pricing HTTP requests with
// RFC 7807 error responses.
type LoanHandler struct {
	service      LoanServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validate     *validator.Validate
}

// NewLoanHandler creates a new loan handler.
func NewLoanHandler(service LoanServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *LoanHandler {
	return &LoanHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "loan_handler")),
		errorHandler: errorHandler,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Routes returns the loan routes mounted under /api/loans.
func (h *LoanHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/process-loans", h.ProcessLoans)
	r.Get("/prioritize-loans", h.PrioritizeLoans)

	r.Post("/match-lenders", h.MatchLenders)
	r.Post("/classify-tier", h.ClassifyTier)
	r.Post("/optimize-rate", h.OptimizeRate)
	r.Post("/recommend-lenders", h.RecommendLenders)
	r.Post("/calculate-profitability", h.CalculateProfitability)
	r.Post("/calculate-monthly-repayment", h.CalculateMonthlyRepayment)
	r.Post("/eligible-lenders", h.EligibleLenders)
	r.Post("/rank-lenders", h.RankLenders)

	return r
}

// decode unmarshals and validates a JSON request body. Decode failures
// and validation failures both surface as 400s.
func (h *LoanHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := render.DecodeJSON(r.Body, v); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return false
	}
	if err := h.validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]apierrors.ValidationError, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, apierrors.ValidationError{
					Field:   fe.Field(),
					Message: "failed on the '" + fe.Tag() + "' rule",
				})
			}
			h.errorHandler.HandleError(w, r, apierrors.NewValidationErrors(fields))
		} else {
			h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		}
		return false
	}
	return true
}

// handleServiceError maps service sentinels onto the API taxonomy.
func (h *LoanHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrNoLoanData):
		h.errorHandler.HandleError(w, r, apierrors.ErrNoLoanData)
	case errors.Is(err, services.ErrCompanyNotFound):
		h.errorHandler.HandleError(w, r, apierrors.ErrCompanyNotFound)
	case errors.Is(err, services.ErrNoMatchingLenders):
		h.errorHandler.HandleError(w, r, apierrors.New(
			http.StatusNotFound,
			"NO_MATCHING_LENDERS",
			"No lenders match the given criteria",
		))
	case errors.Is(err, services.ErrDirectoryUnavailable):
		h.errorHandler.HandleError(w, r, apierrors.ErrDataSource)
	default:
		h.errorHandler.HandleError(w, r, err)
	}
}

// ProcessLoans handles GET /api/loans/process-loans.
func (h *LoanHandler) ProcessLoans(w http.ResponseWriter, r *http.Request) {
	offers, err := h.service.ProcessLoans(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.logger.InfoContext(r.Context(), "processed loan offers", slog.Int("count", len(offers)))
	render.JSON(w, r, offers)
}

// PrioritizeLoans handles GET /api/loans/prioritize-loans.
func (h *LoanHandler) PrioritizeLoans(w http.ResponseWriter, r *http.Request) {
	offers, err := h.service.PrioritizeLoans(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, offers)
}

// MatchLendersResponse echoes the company alongside the lenders that
// accepted its profile.
type MatchLendersResponse struct {
	CompanyName     string                   `json:"companyName"`
	EligibleLenders []domain.DirectoryLender `json:"eligibleLenders"`
}

// MatchLenders handles POST /api/loans/match-lenders.
func (h *LoanHandler) MatchLenders(w http.ResponseWriter, r *http.Request) {
	var profile domain.CompanyProfile
	if !h.decode(w, r, &profile) {
		return
	}

	lenders, err := h.service.MatchLenders(r.Context(), profile)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.logger.InfoContext(r.Context(), "matched lenders",
		slog.String("company", profile.CompanyName),
		slog.Int("eligible", len(lenders)))

	if lenders == nil {
		lenders = []domain.DirectoryLender{}
	}
	render.JSON(w, r, MatchLendersResponse{CompanyName: profile.CompanyName, EligibleLenders: lenders})
}

// ClassifyTierRequest carries the financials for tier classification.
// Zero values are rejected: a company with no assets or no trading
// history has nothing to classify.
type ClassifyTierRequest struct {
	NetAssets         float64 `json:"netAssets" validate:"required"`
	PrevYearNetAssets float64 `json:"prevYearNetAssets" validate:"required"`
	TradingTime       int     `json:"tradingTime" validate:"required"`
}

// ClassifyTier handles POST /api/loans/classify-tier.
func (h *LoanHandler) ClassifyTier(w http.ResponseWriter, r *http.Request) {
	var req ClassifyTierRequest
	if !h.decode(w, r, &req) {
		return
	}

	tier := h.service.ClassifyTier(r.Context(), req.NetAssets, req.PrevYearNetAssets, req.TradingTime)
	render.JSON(w, r, map[string]domain.Tier{"tier": tier})
}

// OptimizeRateRequest carries the requested loan shape for pricing.
type OptimizeRateRequest struct {
	LoanAmount float64 `json:"loanAmount" validate:"required,gt=0"`
	Term       int     `json:"term" validate:"required,gt=0"`
}

// OptimizeRate handles POST /api/loans/optimize-rate.
func (h *LoanHandler) OptimizeRate(w http.ResponseWriter, r *http.Request) {
	var req OptimizeRateRequest
	if !h.decode(w, r, &req) {
		return
	}

	rate := h.service.OptimizeRate(r.Context(), req.LoanAmount, req.Term)
	render.JSON(w, r, map[string]float64{"optimalInterestRate": rate})
}

// RecommendLendersRequest carries the floors a lender must clear.
type RecommendLendersRequest struct {
	NetAssets  float64 `json:"netAssets" validate:"min=0"`
	LoanAmount float64 `json:"loanAmount" validate:"min=0"`
	Term       int     `json:"term" validate:"min=0"`
}

// RecommendLenders handles POST /api/loans/recommend-lenders.
func (h *LoanHandler) RecommendLenders(w http.ResponseWriter, r *http.Request) {
	var req RecommendLendersRequest
	if !h.decode(w, r, &req) {
		return
	}

	recommended, err := h.service.RecommendLenders(r.Context(), req.NetAssets, req.LoanAmount, req.Term)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string][]domain.RecommendedLender{"recommendedLenders": recommended})
}

// ProfitabilityRequest carries two years of net assets.
type ProfitabilityRequest struct {
	NetAssets         float64 `json:"netAssets" validate:"required"`
	PrevYearNetAssets float64 `json:"prevYearNetAssets" validate:"required"`
}

// CalculateProfitability handles POST /api/loans/calculate-profitability.
func (h *LoanHandler) CalculateProfitability(w http.ResponseWriter, r *http.Request) {
	var req ProfitabilityRequest
	if !h.decode(w, r, &req) {
		return
	}

	profitability := h.service.Profitability(req.NetAssets, req.PrevYearNetAssets)
	render.JSON(w, r, map[string]float64{"profitability": profitability})
}

// MonthlyRepaymentRequest carries the flat-rate repayment inputs. The
// interest rate is a fraction, e.g. 0.1 for 10%.
type MonthlyRepaymentRequest struct {
	LoanAmount   float64 `json:"loanAmount" validate:"required,gt=0"`
	InterestRate float64 `json:"interestRate" validate:"required"`
	Term         int     `json:"term" validate:"required,gt=0"`
}

// MonthlyRepaymentResponse echoes the inputs with the computed figure.
type MonthlyRepaymentResponse struct {
	LoanAmount       float64 `json:"loanAmount"`
	InterestRate     float64 `json:"interestRate"`
	Term             int     `json:"term"`
	MonthlyRepayment float64 `json:"monthlyRepayment"`
}

// CalculateMonthlyRepayment handles POST /api/loans/calculate-monthly-repayment.
func (h *LoanHandler) CalculateMonthlyRepayment(w http.ResponseWriter, r *http.Request) {
	var req MonthlyRepaymentRequest
	if !h.decode(w, r, &req) {
		return
	}

	repayment := h.service.MonthlyRepayment(req.LoanAmount, req.InterestRate, req.Term)
	render.JSON(w, r, MonthlyRepaymentResponse{
		LoanAmount:       req.LoanAmount,
		InterestRate:     req.InterestRate,
		Term:             req.Term,
		MonthlyRepayment: repayment,
	})
}

// EligibleLendersRequest carries the financials checked against the
// criteria sheet.
type EligibleLendersRequest struct {
	NetAssets   float64 `json:"netAssets" validate:"min=0"`
	TradingTime int     `json:"tradingTime" validate:"min=0"`
	LoanAmount  float64 `json:"loanAmount" validate:"required,gt=0"`
}

// EligibleLenders handles POST /api/loans/eligible-lenders.
func (h *LoanHandler) EligibleLenders(w http.ResponseWriter, r *http.Request) {
	var req EligibleLendersRequest
	if !h.decode(w, r, &req) {
		return
	}

	matches := h.service.EligibleLenders(r.Context(), req.NetAssets, req.TradingTime, req.LoanAmount)
	if matches == nil {
		matches = []domain.LenderMatch{}
	}
	render.JSON(w, r, map[string][]domain.LenderMatch{"eligibleLenders": matches})
}

// RankLendersRequest carries the requested loan shape for ranking.
type RankLendersRequest struct {
	LoanAmount float64 `json:"loanAmount" validate:"required,gt=0"`
	Term       int     `json:"term" validate:"required,gt=0"`
}

// RankLenders handles POST /api/loans/rank-lenders.
func (h *LoanHandler) RankLenders(w http.ResponseWriter, r *http.Request) {
	var req RankLendersRequest
	if !h.decode(w, r, &req) {
		return
	}

	ranked := h.service.RankLenders(r.Context(), req.LoanAmount, req.Term)
	if ranked == nil {
		ranked = []domain.LenderMatch{}
	}
	render.JSON(w, r, map[string][]domain.LenderMatch{"rankedLenders": ranked})
}
