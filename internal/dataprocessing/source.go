package dataprocessing

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// SheetSource loads a named sheet from the external tabular source as
// ordered rows of cells. Injecting it keeps the loader testable and
// leaves room for a read-through cache without touching callers.
type SheetSource interface {
	Rows(sheet string) ([][]string, error)
}

// ExcelSource reads sheets from an Excel workbook on disk. The file is
// opened on every call: the workbook is the operator-maintained source
// of truth and edits must be visible on the next request.
type ExcelSource struct {
	Path string
}

// Rows implements SheetSource.
func (s ExcelSource) Rows(sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", s.Path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return rows, nil
}
