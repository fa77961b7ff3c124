package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

func parseXLSX(file string) (Table, error) {
	f, err := excelize.OpenFile(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	defer f.Close()

	worksheets := f.GetSheetList()
	if len(worksheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no worksheets", ErrParse)
	}

	rows, err := f.GetRows(worksheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	return Table(rows), nil
}
