package services

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"loanmatch/pkg/contracts/domain"
)

// LenderDirectory reads the per-company lender directory file. Like the
// workbook it is re-read on every call so operator edits show up on the
// next request.
type LenderDirectory struct {
	Path string
}

// Companies returns every directory entry in file order.
func (d LenderDirectory) Companies() ([]domain.DirectoryCompany, error) {
	data, err := os.ReadFile(d.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}

	var companies []domain.DirectoryCompany
	if err := json.Unmarshal(data, &companies); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}
	return companies, nil
}

// Company looks up a single company by exact, case-insensitive name.
func (d LenderDirectory) Company(name string) (domain.DirectoryCompany, error) {
	companies, err := d.Companies()
	if err != nil {
		return domain.DirectoryCompany{}, err
	}

	for _, company := range companies {
		if strings.EqualFold(company.CompanyName, name) {
			return company, nil
		}
	}
	return domain.DirectoryCompany{}, ErrCompanyNotFound
}
