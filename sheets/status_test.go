package sheets

import (
	"testing"
)

func TestSplitCellRef(t *testing.T) {
	tests := []struct {
		cell      string
		worksheet string
		name      string
		address   string
	}{
		{"A1", "Items", "Items", "A1"},
		{"Z1", "Items", "Items", "Z1"},
		{"AA10", "Items", "Items", "AA10"},
		{"Index!D5", "Items", "Index", "D5"},
		{"'Sync Status'!B2", "Items", "Sync Status", "B2"},
	}

	for _, test := range tests {
		name, address, err := SplitCellRef(test.cell, test.worksheet)
		if err != nil {
			t.Errorf("Unexpected error splitting '%v' (%v)", test.cell, err)
			continue
		}

		if name != test.name || address != test.address {
			t.Errorf("Incorrect split for '%v' - expected:%v!%v, got:%v!%v", test.cell, test.name, test.address, name, address)
		}
	}
}

func TestStatusRange(t *testing.T) {
	tests := []struct {
		cell      string
		worksheet string
		expected  string
	}{
		{"A1", "Items", "Items!A1"},
		{"A1", "Sync Status", "'Sync Status'!A1"},
		{"Index!D5", "Items", "Index!D5"},
		{"A1", "", "A1"},
		{"B2", "", "B2"},
	}

	for _, test := range tests {
		area, err := statusRange(test.cell, test.worksheet)
		if err != nil {
			t.Errorf("Unexpected error resolving '%v' (%v)", test.cell, err)
			continue
		}

		if area != test.expected {
			t.Errorf("Incorrect range for '%v'/'%v' - expected:%v, got:%v", test.cell, test.worksheet, test.expected, area)
		}
	}
}

func TestSplitCellRefWithInvalidAddress(t *testing.T) {
	for _, cell := range []string{"", "1A", "A0", "Index!", "A1:B2"} {
		if _, _, err := SplitCellRef(cell, "Items"); err == nil {
			t.Errorf("Expected error splitting invalid cell reference '%v'", cell)
		}
	}
}
