package commands

import (
	"context"
	"flag"
	"fmt"

	"go.uber.org/zap"

	"github.com/erpsync/netsuite-app-sheets/config"
	"github.com/erpsync/netsuite-app-sheets/report"
	"github.com/erpsync/netsuite-app-sheets/sheets"
)

var UploadCmd = Upload{
	file:        "",
	spreadsheet: "",
	worksheet:   "",
	statusCell:  config.DefaultStatusCell,
	create:      true,
}

// Upload pushes a previously downloaded report file to a Google Sheets worksheet.
type Upload struct {
	file        string
	spreadsheet string
	worksheet   string
	statusCell  string
	create      bool
}

func (cmd *Upload) Name() string {
	return "upload"
}

func (cmd *Upload) Description() string {
	return "Uploads a report file to a Google Sheets worksheet"
}

func (cmd *Upload) Usage() string {
	return "--file <file> --spreadsheet <ID> [--worksheet <name>]"
}

func (cmd *Upload) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] upload --file <file> --spreadsheet <ID> [--worksheet <name>] [options]\n", APP)
	fmt.Println()
	fmt.Println("  Parses a downloaded report file (CSV, XLSX or SpreadsheetML) and replaces the")
	fmt.Println("  contents of the worksheet with it, marking the sync status cell on completion")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Printf(`    %s upload --file inventory.xls --spreadsheet "1BX9fgcU0qNR8RbGjJb5mqt3" --worksheet "Inventory"`, APP)
	fmt.Println()
}

func (cmd *Upload) FlagSet() *flag.FlagSet {
	flagset := flag.NewFlagSet("upload", flag.ExitOnError)

	flagset.StringVar(&cmd.file, "file", cmd.file, "Report file to upload")
	flagset.StringVar(&cmd.spreadsheet, "spreadsheet", cmd.spreadsheet, "Google Sheets spreadsheet ID")
	flagset.StringVar(&cmd.worksheet, "worksheet", cmd.worksheet, "Worksheet name. Defaults to the first worksheet")
	flagset.StringVar(&cmd.statusCell, "status-cell", cmd.statusCell, "Sync status cell. Defaults to A1")
	flagset.BoolVar(&cmd.create, "create", cmd.create, "Creates the worksheet if it does not exist. Defaults to true")

	return flagset
}

func (cmd *Upload) Execute(args ...any) error {
	options := args[0].(*Options)
	logger := options.Logger

	if cmd.file == "" {
		return fmt.Errorf("missing report file")
	}

	if cmd.spreadsheet == "" {
		return fmt.Errorf("missing spreadsheet ID")
	}

	credentials, err := config.LoadGoogleCredentials()
	if err != nil {
		return err
	}

	table, err := report.Parse(cmd.file)
	if err != nil {
		return err
	}

	ctx := context.Background()

	client, err := sheets.NewClient(ctx, credentials, logger)
	if err != nil {
		return err
	}

	if err := client.Upload(ctx, cmd.spreadsheet, cmd.worksheet, table, cmd.create); err != nil {
		return err
	}

	if err := client.WriteStatus(ctx, cmd.spreadsheet, cmd.worksheet, cmd.statusCell, statusCompleted); err != nil {
		logger.Warn("unable to update sync status", zap.Error(err))
	}

	logger.Info("report uploaded",
		zap.String("file", cmd.file),
		zap.String("spreadsheet", cmd.spreadsheet),
		zap.Int("rows", table.Rows()))

	return nil
}
