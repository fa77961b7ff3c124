package sheets

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/sheets/v4"

	"github.com/erpsync/netsuite-app-sheets/report"
)

// batchRows bounds the number of rows per value range in a batch update, to stay
// under the Google Sheets API request size limits for large reports.
const batchRows = 5000

// Upload replaces the content of the named worksheet with the table. The
// worksheet is created when absent and createMissing is set, otherwise a missing
// worksheet is an ErrNotFound.
func (c *Client) Upload(ctx context.Context, spreadsheetID, worksheet string, table report.Table, createMissing bool) error {
	spreadsheet, err := c.sheets.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return apiError(err)
	}

	sheet := findSheet(spreadsheet, worksheet)

	if sheet == nil && worksheet == "" {
		return fmt.Errorf("%w: spreadsheet %s has no worksheets", ErrNotFound, spreadsheetID)
	}

	name := worksheet
	if sheet != nil {
		name = sheet.Properties.Title
	}

	if sheet == nil {
		if !createMissing {
			return fmt.Errorf("%w: no worksheet '%s' in spreadsheet %s", ErrNotFound, worksheet, spreadsheetID)
		}

		if err := c.addSheet(ctx, spreadsheetID, worksheet, table); err != nil {
			return err
		}

		c.logger.Info("created worksheet", zap.String("worksheet", worksheet))
	}

	// ... clear existing data
	clear := sheets.BatchClearValuesRequest{
		Ranges: []string{quote(name)},
	}

	if _, err := c.sheets.Spreadsheets.Values.BatchClear(spreadsheetID, &clear).Context(ctx).Do(); err != nil {
		return apiError(err)
	}

	// ... upload in bounded batches
	rq := sheets.BatchUpdateValuesRequest{
		ValueInputOption: "USER_ENTERED",
		Data:             batches(name, table.Values()),
	}

	if _, err := c.sheets.Spreadsheets.Values.BatchUpdate(spreadsheetID, &rq).Context(ctx).Do(); err != nil {
		return apiError(err)
	}

	c.logger.Info("uploaded report",
		zap.String("spreadsheet", spreadsheetID),
		zap.String("worksheet", name),
		zap.Int("rows", table.Rows()))

	return nil
}

func (c *Client) addSheet(ctx context.Context, spreadsheetID, worksheet string, table report.Table) error {
	rows := int64(table.Rows() + 1)
	columns := int64(table.Columns())
	if columns < 1 {
		columns = 1
	}

	rq := sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{
						Title: worksheet,
						GridProperties: &sheets.GridProperties{
							RowCount:    rows,
							ColumnCount: columns,
						},
					},
				},
			},
		},
	}

	if _, err := c.sheets.Spreadsheets.BatchUpdate(spreadsheetID, &rq).Context(ctx).Do(); err != nil {
		return apiError(err)
	}

	return nil
}

// findSheet locates a worksheet by title, ignoring case and whitespace. An empty
// title matches the first worksheet.
func findSheet(spreadsheet *sheets.Spreadsheet, worksheet string) *sheets.Sheet {
	if strings.TrimSpace(worksheet) == "" {
		if len(spreadsheet.Sheets) > 0 {
			return spreadsheet.Sheets[0]
		}

		return nil
	}

	for _, sheet := range spreadsheet.Sheets {
		if normalise(sheet.Properties.Title) == normalise(worksheet) {
			return sheet
		}
	}

	return nil
}

// batches splits the values into value ranges of at most batchRows rows, each
// anchored at the A column of the row it continues from.
func batches(worksheet string, values [][]any) []*sheets.ValueRange {
	data := []*sheets.ValueRange{}

	for offset := 0; offset < len(values); offset += batchRows {
		end := offset + batchRows
		if end > len(values) {
			end = len(values)
		}

		data = append(data, &sheets.ValueRange{
			Range:  fmt.Sprintf("%v!A%v", quote(worksheet), offset+1),
			Values: values[offset:end],
		})
	}

	return data
}

// quote quotes a worksheet name for use in an A1 range.
func quote(worksheet string) string {
	if strings.ContainsAny(worksheet, " !'") {
		return fmt.Sprintf("'%v'", strings.ReplaceAll(worksheet, "'", "''"))
	}

	return worksheet
}

func normalise(v string) string {
	return strings.ToLower(strings.ReplaceAll(v, " ", ""))
}
