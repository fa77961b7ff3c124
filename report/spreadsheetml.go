package report

import (
	"encoding/xml"
	"fmt"
	"os"
)

// NetSuite 'Excel' exports are Microsoft Office XML Spreadsheet 2003 documents
// (the OfficeXML=T export), not OOXML archives.

type xmlWorkbook struct {
	XMLName    xml.Name       `xml:"Workbook"`
	Worksheets []xmlWorksheet `xml:"Worksheet"`
}

type xmlWorksheet struct {
	Name  string   `xml:"urn:schemas-microsoft-com:office:spreadsheet Name,attr"`
	Table xmlTable `xml:"Table"`
}

type xmlTable struct {
	Rows []xmlRow `xml:"Row"`
}

type xmlRow struct {
	Cells []xmlCell `xml:"Cell"`
}

type xmlCell struct {
	Index int    `xml:"urn:schemas-microsoft-com:office:spreadsheet Index,attr"`
	Data  string `xml:"Data"`
}

func parseSpreadsheetML(file string) (Table, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}

	defer f.Close()

	workbook := xmlWorkbook{}
	if err := xml.NewDecoder(f).Decode(&workbook); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	if len(workbook.Worksheets) == 0 {
		return nil, fmt.Errorf("%w: no worksheets in XML spreadsheet", ErrParse)
	}

	worksheet := workbook.Worksheets[0]
	table := Table{}

	for _, r := range worksheet.Table.Rows {
		row := []string{}

		// ... an ss:Index attribute skips the empty cells before the indexed cell
		for _, cell := range r.Cells {
			if cell.Index > 0 {
				for len(row) < cell.Index-1 {
					row = append(row, "")
				}
			}

			row = append(row, cell.Data)
		}

		table = append(table, row)
	}

	return table, nil
}
