package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/erpsync/netsuite-app-sheets/config"
	"github.com/erpsync/netsuite-app-sheets/netsuite"
)

var DownloadCmd = Download{
	url:      "",
	file:     time.Now().Format("report 2006-01-02T150405.xls"),
	headless: true,
}

// Download fetches a single NetSuite report or saved search to a local file,
// without touching Google Sheets.
type Download struct {
	url      string
	file     string
	headless bool
}

func (cmd *Download) Name() string {
	return "download"
}

func (cmd *Download) Description() string {
	return "Downloads a NetSuite report or saved search to a local file"
}

func (cmd *Download) Usage() string {
	return "--url <url> [--file <file>]"
}

func (cmd *Download) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] download --url <url> [--file <file>]\n", APP)
	fmt.Println()
	fmt.Println("  Logs in to NetSuite and downloads the report at the URL to a local file, without")
	fmt.Println("  uploading it anywhere")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Printf(`    %s download --url "https://1234567.app.netsuite.com/app/reporting/reportrunner.nl?cr=123" --file inventory.xls`, APP)
	fmt.Println()
}

func (cmd *Download) FlagSet() *flag.FlagSet {
	flagset := flag.NewFlagSet("download", flag.ExitOnError)

	flagset.StringVar(&cmd.url, "url", cmd.url, "NetSuite report or saved search URL")
	flagset.StringVar(&cmd.file, "file", cmd.file, "File for the downloaded report. Defaults to a timestamped file in the current directory")
	flagset.BoolVar(&cmd.headless, "headless", cmd.headless, "Runs the browser headless. Defaults to true")

	return flagset
}

func (cmd *Download) Execute(args ...any) error {
	options := args[0].(*Options)
	logger := options.Logger

	if cmd.url == "" {
		return fmt.Errorf("missing report URL")
	}

	credentials, err := config.LoadCredentials()
	if err != nil {
		return err
	}

	ctx := context.Background()
	exporter := netsuite.NewExporter(credentials, "", cmd.headless, logger)

	if err := exporter.Start(ctx); err != nil {
		return err
	}

	defer exporter.Close()
	defer os.RemoveAll(exporter.DownloadDir())

	if err := exporter.Login(ctx); err != nil {
		return err
	}

	file, err := exporter.Export(ctx, cmd.url)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(cmd.file); dir != "." {
		if err := os.MkdirAll(dir, 0770); err != nil {
			return err
		}
	}

	if err := os.Rename(file, cmd.file); err != nil {
		return err
	}

	logger.Info("report downloaded", zap.String("file", cmd.file))

	return nil
}
