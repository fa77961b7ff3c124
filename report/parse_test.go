package report

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"
)

var expected = Table{
	{"Item", "Quantity", "Location"},
	{"WIDGET-001", "120", "Gate"},
	{"WIDGET-002", "7", "Tower"},
}

func TestParseCSV(t *testing.T) {
	file := filepath.Join(t.TempDir(), "report.csv")
	content := "Item,Quantity,Location\nWIDGET-001,120,Gate\nWIDGET-002,7,Tower\n"

	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		t.Fatalf("Unexpected error creating CSV file (%v)", err)
	}

	table, err := Parse(file)
	if err != nil {
		t.Fatalf("Unexpected error parsing CSV file (%v)", err)
	}

	if !reflect.DeepEqual(table, expected) {
		t.Errorf("Incorrect table\n   expected: %v\n   got:      %v", expected, table)
	}
}

func TestParseXLSX(t *testing.T) {
	file := filepath.Join(t.TempDir(), "report.xlsx")

	f := excelize.NewFile()
	defer f.Close()

	rows := [][]any{
		{"Item", "Quantity", "Location"},
		{"WIDGET-001", "120", "Gate"},
		{"WIDGET-002", "7", "Tower"},
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("Unexpected error building XLSX file (%v)", err)
		}
	}

	if err := f.SaveAs(file); err != nil {
		t.Fatalf("Unexpected error saving XLSX file (%v)", err)
	}

	table, err := Parse(file)
	if err != nil {
		t.Fatalf("Unexpected error parsing XLSX file (%v)", err)
	}

	if !reflect.DeepEqual(table, expected) {
		t.Errorf("Incorrect table\n   expected: %v\n   got:      %v", expected, table)
	}
}

func TestParseSpreadsheetML(t *testing.T) {
	// NetSuite serves XML spreadsheets with an '.xls' extension
	file := filepath.Join(t.TempDir(), "report.xls")
	content := `<?xml version="1.0"?>
<Workbook xmlns="urn:schemas-microsoft-com:office:spreadsheet"
          xmlns:ss="urn:schemas-microsoft-com:office:spreadsheet">
  <Worksheet ss:Name="Results">
    <Table>
      <Row>
        <Cell><Data ss:Type="String">Item</Data></Cell>
        <Cell><Data ss:Type="String">Quantity</Data></Cell>
        <Cell><Data ss:Type="String">Location</Data></Cell>
      </Row>
      <Row>
        <Cell><Data ss:Type="String">WIDGET-001</Data></Cell>
        <Cell><Data ss:Type="Number">120</Data></Cell>
        <Cell><Data ss:Type="String">Gate</Data></Cell>
      </Row>
      <Row>
        <Cell><Data ss:Type="String">WIDGET-002</Data></Cell>
        <Cell><Data ss:Type="Number">7</Data></Cell>
        <Cell><Data ss:Type="String">Tower</Data></Cell>
      </Row>
    </Table>
  </Worksheet>
</Workbook>`

	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		t.Fatalf("Unexpected error creating XML spreadsheet file (%v)", err)
	}

	table, err := Parse(file)
	if err != nil {
		t.Fatalf("Unexpected error parsing XML spreadsheet file (%v)", err)
	}

	if !reflect.DeepEqual(table, expected) {
		t.Errorf("Incorrect table\n   expected: %v\n   got:      %v", expected, table)
	}
}

func TestParseSpreadsheetMLWithIndexedCells(t *testing.T) {
	file := filepath.Join(t.TempDir(), "report.xls")
	content := `<?xml version="1.0"?>
<Workbook xmlns="urn:schemas-microsoft-com:office:spreadsheet"
          xmlns:ss="urn:schemas-microsoft-com:office:spreadsheet">
  <Worksheet ss:Name="Results">
    <Table>
      <Row>
        <Cell><Data ss:Type="String">Item</Data></Cell>
        <Cell ss:Index="4"><Data ss:Type="String">Location</Data></Cell>
      </Row>
    </Table>
  </Worksheet>
</Workbook>`

	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		t.Fatalf("Unexpected error creating XML spreadsheet file (%v)", err)
	}

	table, err := Parse(file)
	if err != nil {
		t.Fatalf("Unexpected error parsing XML spreadsheet file (%v)", err)
	}

	indexed := Table{
		{"Item", "", "", "Location"},
	}

	if !reflect.DeepEqual(table, indexed) {
		t.Errorf("Incorrect table\n   expected: %v\n   got:      %v", indexed, table)
	}
}

func TestParseWithUnsupportedExtension(t *testing.T) {
	file := filepath.Join(t.TempDir(), "report.pdf")

	if err := os.WriteFile(file, []byte("%PDF-1.7 whatever"), 0644); err != nil {
		t.Fatalf("Unexpected error creating file (%v)", err)
	}

	if _, err := Parse(file); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected 'unsupported report format' error, got %v", err)
	}
}

func TestParseWithLegacyBinaryXLS(t *testing.T) {
	file := filepath.Join(t.TempDir(), "report.xls")
	content := append([]byte{0xd0, 0xcf, 0x11, 0xe0, 0xa1, 0xb1, 0x1a, 0xe1}, make([]byte, 512)...)

	if err := os.WriteFile(file, content, 0644); err != nil {
		t.Fatalf("Unexpected error creating file (%v)", err)
	}

	if _, err := Parse(file); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected 'unsupported report format' error, got %v", err)
	}
}

func TestParseWithMalformedXML(t *testing.T) {
	file := filepath.Join(t.TempDir(), "report.xls")

	if err := os.WriteFile(file, []byte(`<?xml version="1.0"?><Workbook>`), 0644); err != nil {
		t.Fatalf("Unexpected error creating file (%v)", err)
	}

	if _, err := Parse(file); !errors.Is(err, ErrParse) {
		t.Errorf("Expected 'invalid report file' error, got %v", err)
	}
}

func TestTableValues(t *testing.T) {
	table := Table{
		{"Item", "Quantity"},
		{"WIDGET-001"},
	}

	values := table.Values()

	if len(values) != 2 || len(values[0]) != 2 || len(values[1]) != 1 {
		t.Fatalf("Incorrect values shape: %v", values)
	}

	if values[0][0] != "Item" || values[1][0] != "WIDGET-001" {
		t.Errorf("Incorrect values: %v", values)
	}

	if table.Columns() != 2 || table.Rows() != 2 {
		t.Errorf("Incorrect dimensions - rows:%v columns:%v", table.Rows(), table.Columns())
	}
}
