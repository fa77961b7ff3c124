package sheets

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// ErrAuth indicates the Google service account credentials were rejected or malformed.
var ErrAuth = errors.New("google sheets authentication failed")

// ErrNotFound indicates the spreadsheet or worksheet does not exist (and cannot be created).
var ErrNotFound = errors.New("spreadsheet or worksheet not found")

// ErrUpload indicates a Google Sheets API failure (quota, network, etc).
var ErrUpload = errors.New("google sheets upload failed")

// Client wraps an authenticated Google Sheets (and Drive, for revision lookups)
// API session for a service account.
type Client struct {
	sheets *sheets.Service
	drive  *drive.Service
	logger *zap.Logger
}

// NewClient authenticates the service account credentials payload and returns a
// client scoped for spreadsheet writes and revision metadata reads.
func NewClient(ctx context.Context, credentials []byte, logger *zap.Logger) (*Client, error) {
	jwt, err := google.JWTConfigFromJSON(credentials, sheets.SpreadsheetsScope, drive.DriveMetadataReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuth, err)
	}

	httpClient := jwt.Client(ctx)

	service, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create Google Sheets client (%v)", err)
	}

	gdrive, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create Google Drive client (%v)", err)
	}

	return &Client{
		sheets: service,
		drive:  gdrive,
		logger: logger,
	}, nil
}

// apiError maps a Google API error to the upload error taxonomy.
func apiError(err error) error {
	var gerr *googleapi.Error

	if errors.As(err, &gerr) {
		switch gerr.Code {
		case 401, 403:
			return fmt.Errorf("%w: %v", ErrAuth, err)
		case 404:
			return fmt.Errorf("%w: %v", ErrNotFound, err)
		}
	}

	return fmt.Errorf("%w: %v", ErrUpload, err)
}
