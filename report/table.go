package report

// Table is the parsed report content - an ordered list of rows, each an ordered
// list of cell values. Rows are not required to have the same number of cells.
type Table [][]string

// Rows returns the number of rows in the table.
func (t Table) Rows() int {
	return len(t)
}

// Columns returns the width of the widest row in the table.
func (t Table) Columns() int {
	columns := 0
	for _, row := range t {
		if len(row) > columns {
			columns = len(row)
		}
	}

	return columns
}

// Values converts the table to the [][]any representation expected by the
// Google Sheets values API.
func (t Table) Values() [][]any {
	values := make([][]any, len(t))
	for i, row := range t {
		values[i] = make([]any, len(row))
		for j, cell := range row {
			values[i][j] = cell
		}
	}

	return values
}
