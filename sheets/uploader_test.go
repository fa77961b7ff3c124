package sheets

import (
	"testing"

	"google.golang.org/api/sheets/v4"
)

func TestFindSheet(t *testing.T) {
	spreadsheet := sheets.Spreadsheet{
		Sheets: []*sheets.Sheet{
			{Properties: &sheets.SheetProperties{Title: "Items"}},
			{Properties: &sheets.SheetProperties{Title: "BOM Revisions"}},
		},
	}

	tests := []struct {
		worksheet string
		expected  string
	}{
		{"Items", "Items"},
		{"items", "Items"},
		{" BOM  Revisions ", "BOM Revisions"},
		{"", "Items"},
	}

	for _, test := range tests {
		sheet := findSheet(&spreadsheet, test.worksheet)
		if sheet == nil || sheet.Properties.Title != test.expected {
			t.Errorf("findSheet(%q) - expected:%v, got:%+v", test.worksheet, test.expected, sheet)
		}
	}

	if sheet := findSheet(&spreadsheet, "Missing"); sheet != nil {
		t.Errorf("findSheet('Missing') - expected:nil, got:%+v", sheet)
	}
}

func TestBatches(t *testing.T) {
	values := make([][]any, 12345)
	for i := range values {
		values[i] = []any{i}
	}

	data := batches("Items", values)

	if len(data) != 3 {
		t.Fatalf("Incorrect batch count - expected:%v, got:%v", 3, len(data))
	}

	expected := []struct {
		area string
		rows int
	}{
		{"Items!A1", 5000},
		{"Items!A5001", 5000},
		{"Items!A10001", 2345},
	}

	for i, e := range expected {
		if data[i].Range != e.area {
			t.Errorf("Incorrect batch %v range - expected:%v, got:%v", i, e.area, data[i].Range)
		}

		if len(data[i].Values) != e.rows {
			t.Errorf("Incorrect batch %v rows - expected:%v, got:%v", i, e.rows, len(data[i].Values))
		}
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		worksheet string
		expected  string
	}{
		{"Items", "Items"},
		{"BOM Revisions", "'BOM Revisions'"},
		{"It's", "'It''s'"},
	}

	for _, test := range tests {
		if quoted := quote(test.worksheet); quoted != test.expected {
			t.Errorf("quote(%q) - expected:%v, got:%v", test.worksheet, test.expected, quoted)
		}
	}
}
