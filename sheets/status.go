package sheets

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/sheets/v4"
)

var cellRefExpr = regexp.MustCompile(`^[A-Za-z]{1,3}[1-9][0-9]*$`)

// WriteStatus writes a timestamped sync marker into the status cell. The cell
// reference is either a bare address ("A1", "Z1") resolved against the report
// worksheet, or a qualified reference ("Index!D5") naming another worksheet.
func (c *Client) WriteStatus(ctx context.Context, spreadsheetID, worksheet, cell, marker string) error {
	area, err := statusRange(cell, worksheet)
	if err != nil {
		return err
	}
	status := fmt.Sprintf("%s (%s)", marker, time.Now().Format("2006-01-02 15:04:05"))

	rq := sheets.ValueRange{
		Range: area,
		Values: [][]any{
			{status},
		},
	}

	if _, err := c.sheets.Spreadsheets.Values.Update(spreadsheetID, area, &rq).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do(); err != nil {
		return apiError(err)
	}

	c.logger.Debug("updated sync status", zap.String("cell", area), zap.String("status", status))

	return nil
}

// statusRange resolves a status cell reference to an A1 range. An empty
// worksheet name resolves to an unqualified range, which the Sheets API
// applies to the first worksheet - matching Upload's handling of reports
// without a configured worksheet.
func statusRange(cell, worksheet string) (string, error) {
	name, address, err := SplitCellRef(cell, worksheet)
	if err != nil {
		return "", err
	}

	if name == "" {
		return address, nil
	}

	return fmt.Sprintf("%v!%v", quote(name), address), nil
}

// SplitCellRef splits a status cell reference into a worksheet name and a cell
// address, defaulting the worksheet for unqualified references.
func SplitCellRef(cell, worksheet string) (string, string, error) {
	name := worksheet
	address := strings.TrimSpace(cell)

	if before, after, found := strings.Cut(address, "!"); found {
		name = strings.Trim(before, "'")
		address = after
	}

	if !cellRefExpr.MatchString(address) {
		return "", "", fmt.Errorf("invalid status cell reference '%s' - expected something like 'A1' or 'Index!D5'", cell)
	}

	return name, address, nil
}
