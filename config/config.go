package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// ErrInvalidConfig is the base error for missing or malformed configuration.
var ErrInvalidConfig = errors.New("invalid configuration")

// DefaultStatusCell is the sync status cell used when neither the report definition
// nor the SYNC_STATUS_CELL environment variable specifies one.
const DefaultStatusCell = "A1"

// DefaultConfigFile is the default reports configuration file.
const DefaultConfigFile = "reports_config.json"

// Credentials is the set of secrets for the NetSuite login and the Google Sheets API,
// loaded once per run from the environment.
type Credentials struct {
	Email                 string
	Password              string
	AccountID             string
	BaseURL               string
	SecurityAnswers       []string
	GoogleCredentialsJSON string
	GoogleCredentialsPath string
	SlackWebhookURL       string
}

// GoogleCredentials returns the service account credentials payload, reading the
// credentials file when the payload was not supplied inline.
func (c Credentials) GoogleCredentials() ([]byte, error) {
	if strings.TrimSpace(c.GoogleCredentialsJSON) != "" {
		return []byte(c.GoogleCredentialsJSON), nil
	}

	if strings.TrimSpace(c.GoogleCredentialsPath) != "" {
		b, err := os.ReadFile(c.GoogleCredentialsPath)
		if err != nil {
			return nil, fmt.Errorf("%w: unable to read Google credentials file (%v)", ErrInvalidConfig, err)
		}
		return b, nil
	}

	return nil, fmt.Errorf("%w: missing Google credentials (set GOOGLE_CREDENTIALS_JSON or GOOGLE_CREDENTIALS_PATH)", ErrInvalidConfig)
}

// ReportDefinition maps a NetSuite report/saved search URL to a Google Sheets worksheet.
type ReportDefinition struct {
	Name            string `json:"name"`
	NetSuiteURL     string `json:"netsuite_url"`
	SpreadsheetID   string `json:"spreadsheet_id"`
	WorksheetName   string `json:"worksheet_name"`
	Enabled         bool   `json:"enabled"`
	SyncStatusCell  string `json:"sync_status_cell"`
	CreateWorksheet bool   `json:"create_worksheet"`
}

// UnmarshalJSON defaults 'enabled' and 'create_worksheet' to true for report
// definitions that omit them.
func (r *ReportDefinition) UnmarshalJSON(bytes []byte) error {
	type alias ReportDefinition

	definition := alias{
		Enabled:         true,
		CreateWorksheet: true,
	}

	if err := json.Unmarshal(bytes, &definition); err != nil {
		return err
	}

	*r = ReportDefinition(definition)

	return nil
}

type reportsFile struct {
	Reports []ReportDefinition `json:"reports"`
}

// Config is the effective configuration for a run - credentials plus the report
// definitions, immutable once loaded.
type Config struct {
	Credentials Credentials
	Reports     []ReportDefinition
	StatusCell  string
}

// Enabled returns the report definitions that are enabled for execution.
func (c *Config) Enabled() []ReportDefinition {
	enabled := []ReportDefinition{}
	for _, r := range c.Reports {
		if r.Enabled {
			enabled = append(enabled, r)
		}
	}

	return enabled
}

// StatusCellFor resolves the effective sync status cell for a report, with the
// precedence: report definition > SYNC_STATUS_CELL environment > "A1".
func (c *Config) StatusCellFor(r ReportDefinition) string {
	if cell := strings.TrimSpace(r.SyncStatusCell); cell != "" {
		return cell
	}

	return c.StatusCell
}

// Load reads the environment (after a best effort .env load) and the optional
// reports configuration file. It fails before any browser or network activity
// when a required setting is missing or the reports file is malformed.
func Load(file string) (*Config, error) {
	godotenv.Load()

	credentials, err := credentialsFromEnv()
	if err != nil {
		return nil, err
	}

	config := Config{
		Credentials: credentials,
		StatusCell:  DefaultStatusCell,
	}

	if cell := strings.TrimSpace(os.Getenv("SYNC_STATUS_CELL")); cell != "" {
		config.StatusCell = cell
	}

	if file == "" {
		file = DefaultConfigFile
	}

	reports, err := reportsFromFile(file)
	if err != nil {
		return nil, err
	}

	if len(reports) == 0 {
		reports = reportsFromEnv()
	}

	if len(reports) == 0 {
		return nil, fmt.Errorf("%w: no reports configured (add reports to %s or set NETSUITE_REPORT_URL and GOOGLE_SPREADSHEET_ID)", ErrInvalidConfig, file)
	}

	config.Reports = reports

	return &config, nil
}

// LoadCredentials reads only the credentials from the environment (after a best
// effort .env load), for commands that do not use the report definitions.
func LoadCredentials() (Credentials, error) {
	godotenv.Load()

	return credentialsFromEnv()
}

// LoadGoogleCredentials resolves just the Google service account credentials
// payload, for upload-only invocations that never touch NetSuite.
func LoadGoogleCredentials() ([]byte, error) {
	godotenv.Load()

	credentials := Credentials{
		GoogleCredentialsJSON: os.Getenv("GOOGLE_CREDENTIALS_JSON"),
		GoogleCredentialsPath: os.Getenv("GOOGLE_CREDENTIALS_PATH"),
	}

	return credentials.GoogleCredentials()
}

// LoadReports reads the report definitions from the configuration file, falling
// back to the legacy single report environment variables.
func LoadReports(file string) ([]ReportDefinition, error) {
	if file == "" {
		file = DefaultConfigFile
	}

	reports, err := reportsFromFile(file)
	if err != nil {
		return nil, err
	}

	if len(reports) == 0 {
		reports = reportsFromEnv()
	}

	return reports, nil
}

func credentialsFromEnv() (Credentials, error) {
	credentials := Credentials{
		GoogleCredentialsJSON: os.Getenv("GOOGLE_CREDENTIALS_JSON"),
		GoogleCredentialsPath: os.Getenv("GOOGLE_CREDENTIALS_PATH"),
		SlackWebhookURL:       os.Getenv("SLACK_WEBHOOK_URL"),
	}

	for _, v := range []struct {
		key   string
		value *string
	}{
		{"NETSUITE_EMAIL", &credentials.Email},
		{"NETSUITE_PASSWORD", &credentials.Password},
		{"NETSUITE_ACCOUNT_ID", &credentials.AccountID},
	} {
		if *v.value = strings.TrimSpace(os.Getenv(v.key)); *v.value == "" {
			return credentials, fmt.Errorf("%w: missing environment variable %s", ErrInvalidConfig, v.key)
		}
	}

	if credentials.GoogleCredentialsJSON == "" && credentials.GoogleCredentialsPath == "" {
		return credentials, fmt.Errorf("%w: missing Google credentials (set GOOGLE_CREDENTIALS_JSON or GOOGLE_CREDENTIALS_PATH)", ErrInvalidConfig)
	}

	credentials.BaseURL = strings.TrimSpace(os.Getenv("NETSUITE_BASE_URL"))
	if credentials.BaseURL == "" {
		credentials.BaseURL = fmt.Sprintf("https://%s.app.netsuite.com", credentials.AccountID)
	}

	answers := os.Getenv("NETSUITE_SECURITY_ANSWERS")
	if answers == "" {
		answers = os.Getenv("NETSUITE_SECURITY_ANSWER")
	}

	for _, answer := range strings.Split(answers, ",") {
		if answer = strings.TrimSpace(answer); answer != "" {
			credentials.SecurityAnswers = append(credentials.SecurityAnswers, answer)
		}
	}

	return credentials, nil
}

func reportsFromFile(file string) ([]ReportDefinition, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: unable to read %s (%v)", ErrInvalidConfig, file, err)
	}

	reports := reportsFile{}
	if err := json.Unmarshal(bytes, &reports); err != nil {
		return nil, fmt.Errorf("%w: malformed %s (%v)", ErrInvalidConfig, file, err)
	}

	for i, r := range reports.Reports {
		if strings.TrimSpace(r.Name) == "" || strings.TrimSpace(r.NetSuiteURL) == "" || strings.TrimSpace(r.SpreadsheetID) == "" {
			return nil, fmt.Errorf("%w: report %v of %s is missing a name, netsuite_url or spreadsheet_id", ErrInvalidConfig, i+1, file)
		}
	}

	return reports.Reports, nil
}

// reportsFromEnv loads a single report from the environment (legacy single report mode).
func reportsFromEnv() []ReportDefinition {
	url := strings.TrimSpace(os.Getenv("NETSUITE_REPORT_URL"))
	spreadsheet := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))

	if url == "" || spreadsheet == "" {
		return nil
	}

	return []ReportDefinition{
		{
			Name:            "default",
			NetSuiteURL:     url,
			SpreadsheetID:   spreadsheet,
			WorksheetName:   strings.TrimSpace(os.Getenv("GOOGLE_WORKSHEET_NAME")),
			Enabled:         true,
			CreateWorksheet: true,
		},
	}
}
