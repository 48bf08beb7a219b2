package workbook

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ErrSheetNotExist is re-exported from excelize. A SheetError for a missing
// worksheet wraps a value of this type.
type ErrSheetNotExist = excelize.ErrSheetNotExist

// SheetError reports a failure reading a workbook or one of its worksheets.
// Sheet is empty when the workbook itself could not be opened.
type SheetError struct {
	File  string
	Sheet string
	Err   error
}

func (e *SheetError) Error() string {
	if e.Sheet == "" {
		return fmt.Sprintf("workbook %q: %v", e.File, e.Err)
	}
	return fmt.Sprintf("workbook %q, worksheet %q: %v", e.File, e.Sheet, e.Err)
}

func (e *SheetError) Unwrap() error {
	return e.Err
}
