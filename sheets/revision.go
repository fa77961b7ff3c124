package sheets

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/drive/v3"
)

// Revision identifies the latest Drive revision of a spreadsheet.
type Revision struct {
	ID       string
	Modified time.Time
}

// Revision returns the latest Drive revision for a spreadsheet, for the
// post-sync audit log line.
func (c *Client) Revision(ctx context.Context, spreadsheetID string) (*Revision, error) {
	page := ""
	latest := Revision{}

	for {
		call := drive.NewRevisionsService(c.drive).List(spreadsheetID).Fields("revisions(id,modifiedTime)", "nextPageToken")
		if page != "" {
			call.PageToken(page)
		}

		revisions, err := call.Context(ctx).Do()
		if err != nil {
			return nil, apiError(err)
		}

		for _, revision := range revisions.Revisions {
			modified, err := time.Parse(time.RFC3339, revision.ModifiedTime)
			if err != nil {
				return nil, err
			}

			if latest.Modified.Before(modified) {
				latest.ID = revision.Id
				latest.Modified = modified
			}
		}

		if page = revisions.NextPageToken; page == "" {
			break
		}
	}

	if latest.Modified.IsZero() {
		return nil, fmt.Errorf("unable to identify latest revision for spreadsheet %s", spreadsheetID)
	}

	return &latest, nil
}
