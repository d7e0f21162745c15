package services

import "errors"

// Service errors. Handlers map these onto the API error taxonomy.
var (
	// No historical offers could be loaded or none exist.
	ErrNoLoanData = errors.New("no loan data found")

	// The requested company has no entry in the lender directory.
	ErrCompanyNotFound = errors.New("company not found")

	// Well-formed query, but no lender met the thresholds.
	ErrNoMatchingLenders = errors.New("no lenders match the given criteria")

	// The lender directory file is unreadable; there is no fallback.
	ErrDirectoryUnavailable = errors.New("lender directory unavailable")
)
