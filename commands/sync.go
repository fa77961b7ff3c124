package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/erpsync/netsuite-app-sheets/config"
	"github.com/erpsync/netsuite-app-sheets/netsuite"
	"github.com/erpsync/netsuite-app-sheets/notify"
	"github.com/erpsync/netsuite-app-sheets/report"
	"github.com/erpsync/netsuite-app-sheets/sheets"
)

var SyncCmd = Sync{
	headless:  true,
	downloads: "",
}

// Sync is the default command: it downloads every enabled report from NetSuite
// and uploads it to its Google Sheets worksheet, marking the sync status cell.
type Sync struct {
	headless  bool
	downloads string
}

const (
	statusInProgress = "sync in progress"
	statusCompleted  = "sync completed"
	statusFailed     = "sync failed"
)

type state string

const (
	statePending     state = "pending"
	stateDownloading state = "downloading"
	stateParsing     state = "parsing"
	stateUploading   state = "uploading"
	stateDone        state = "done"
	stateFailed      state = "failed"
)

type result struct {
	report      string
	spreadsheet string
	state       state
	file        string
	err         error
}

// downloader is the browser automation boundary - the underlying engine is
// swappable (and fakeable in tests).
type downloader interface {
	Export(ctx context.Context, url string) (string, error)
}

type uploader interface {
	Upload(ctx context.Context, spreadsheetID, worksheet string, table report.Table, createMissing bool) error
	WriteStatus(ctx context.Context, spreadsheetID, worksheet, cell, marker string) error
}

func (cmd *Sync) Name() string {
	return "sync"
}

func (cmd *Sync) Description() string {
	return "Downloads the configured NetSuite reports and uploads them to their Google Sheets worksheets"
}

func (cmd *Sync) Usage() string {
	return "[--headless=false] [--downloads <dir>]"
}

func (cmd *Sync) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] [--config <file>] sync [options]\n", APP)
	fmt.Println()
	fmt.Println("  Downloads every enabled report from NetSuite and uploads it to its Google Sheets worksheet,")
	fmt.Println("  writing a timestamped sync marker into the configured status cell")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Printf(`    %s --config reports_config.json sync`, APP)
	fmt.Println()
	fmt.Printf(`    %s sync --headless=false --downloads /tmp/netsuite`, APP)
	fmt.Println()
}

func (cmd *Sync) FlagSet() *flag.FlagSet {
	flagset := flag.NewFlagSet("sync", flag.ExitOnError)

	flagset.BoolVar(&cmd.headless, "headless", cmd.headless, "Runs the browser headless. Defaults to true")
	flagset.StringVar(&cmd.downloads, "downloads", cmd.downloads, "Directory for downloaded report files. Defaults to a temporary directory")

	return flagset
}

func (cmd *Sync) Execute(args ...any) error {
	options := args[0].(*Options)
	logger := options.Logger

	started := time.Now()
	ctx := context.Background()

	cfg, err := config.Load(options.Config)
	if err != nil {
		return err
	}

	credentials, err := cfg.Credentials.GoogleCredentials()
	if err != nil {
		return err
	}

	client, err := sheets.NewClient(ctx, credentials, logger)
	if err != nil {
		return err
	}

	notifier := notify.NewNotifier(cfg.Credentials.SlackWebhookURL, logger)

	reports := cfg.Enabled()
	logger.Info("starting sync", zap.Int("reports", len(reports)))

	exporter := netsuite.NewExporter(cfg.Credentials, cmd.downloads, cmd.headless, logger)

	if err := exporter.Start(ctx); err != nil {
		notifier.Failure(ctx, nil, err.Error(), time.Since(started))
		return err
	}

	defer exporter.Close()

	if cmd.downloads == "" {
		defer os.RemoveAll(exporter.DownloadDir())
	}

	if err := exporter.Login(ctx); err != nil {
		notifier.Failure(ctx, nil, err.Error(), time.Since(started))
		return err
	}

	results := processReports(ctx, cfg, exporter, client, report.Parse, logger)

	// ... summary
	succeeded := 0
	failed := []string{}

	for _, r := range results {
		if r.state == stateDone {
			succeeded++
			logger.Info("report synced", zap.String("report", r.report))

			if revision, err := client.Revision(ctx, r.spreadsheet); err == nil {
				logger.Debug("spreadsheet revision",
					zap.String("report", r.report),
					zap.String("revision", revision.ID),
					zap.Time("modified", revision.Modified))
			}
		} else {
			failed = append(failed, r.report)
			logger.Error("report sync failed",
				zap.String("report", r.report),
				zap.String("state", string(r.state)),
				zap.Error(r.err))
		}
	}

	logger.Info("sync complete",
		zap.Int("succeeded", succeeded),
		zap.Int("failed", len(failed)),
		zap.Duration("took", time.Since(started)))

	if len(failed) > 0 {
		if err := notifier.Failure(ctx, failed, "", time.Since(started)); err != nil {
			logger.Warn("unable to send Slack notification", zap.Error(err))
		}

		return fmt.Errorf("%v of %v reports failed", len(failed), len(results))
	}

	if err := notifier.Success(ctx, succeeded, len(results), time.Since(started)); err != nil {
		logger.Warn("unable to send Slack notification", zap.Error(err))
	}

	return nil
}

// processReports runs the download/parse/upload pipeline for each enabled
// report in turn. A report's failure is captured in its result and does not
// abort the remaining reports.
func processReports(ctx context.Context, cfg *config.Config, exporter downloader, client uploader, parse func(string) (report.Table, error), logger *zap.Logger) []result {
	results := []result{}

	for _, r := range cfg.Enabled() {
		log := logger.With(zap.String("report", r.Name))
		cell := cfg.StatusCellFor(r)

		outcome := result{
			report:      r.Name,
			spreadsheet: r.SpreadsheetID,
			state:       statePending,
		}

		fail := func(err error) {
			outcome.state = stateFailed
			outcome.err = err
			log.Error("sync failed", zap.Error(err))

			if outcome.file != "" {
				os.Remove(outcome.file)
			}

			if err := client.WriteStatus(ctx, r.SpreadsheetID, r.WorksheetName, cell, statusFailed); err != nil {
				log.Warn("unable to update sync status", zap.Error(err))
			}
		}

		if err := client.WriteStatus(ctx, r.SpreadsheetID, r.WorksheetName, cell, statusInProgress); err != nil {
			log.Warn("unable to update sync status", zap.Error(err))
		}

		outcome.state = stateDownloading
		file, err := exporter.Export(ctx, r.NetSuiteURL)
		if err != nil {
			fail(err)
			results = append(results, outcome)
			continue
		}

		outcome.file = file

		outcome.state = stateParsing
		table, err := parse(file)
		if err != nil {
			fail(err)
			results = append(results, outcome)
			continue
		}

		outcome.state = stateUploading
		if err := client.Upload(ctx, r.SpreadsheetID, r.WorksheetName, table, r.CreateWorksheet); err != nil {
			fail(err)
			results = append(results, outcome)
			continue
		}

		if err := client.WriteStatus(ctx, r.SpreadsheetID, r.WorksheetName, cell, statusCompleted); err != nil {
			log.Warn("unable to update sync status", zap.Error(err))
		}

		os.Remove(file)

		outcome.state = stateDone
		results = append(results, outcome)
	}

	return results
}
