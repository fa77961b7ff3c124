package commands

import (
	"flag"
	"fmt"

	"github.com/erpsync/netsuite-app-sheets/config"
)

var ReportsCmd = Reports{}

// Reports lists the configured report definitions.
type Reports struct {
}

func (cmd *Reports) Name() string {
	return "reports"
}

func (cmd *Reports) Description() string {
	return "Lists the configured report definitions"
}

func (cmd *Reports) Usage() string {
	return ""
}

func (cmd *Reports) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--config <file>] reports\n", APP)
	fmt.Println()
	fmt.Println("  Lists the report definitions from the reports configuration file, with")
	fmt.Println("  disabled reports marked")
	fmt.Println()
}

func (cmd *Reports) FlagSet() *flag.FlagSet {
	return flag.NewFlagSet("reports", flag.ExitOnError)
}

func (cmd *Reports) Execute(args ...any) error {
	options := args[0].(*Options)

	reports, err := config.LoadReports(options.Config)
	if err != nil {
		return err
	}

	if len(reports) == 0 {
		fmt.Println()
		fmt.Println("  (no reports configured)")
		fmt.Println()

		return nil
	}

	fmt.Println()
	for _, r := range reports {
		mark := "✓"
		if !r.Enabled {
			mark = "✗"
		}

		worksheet := r.WorksheetName
		if worksheet == "" {
			worksheet = "(first worksheet)"
		}

		fmt.Printf("  %s %-24s %s :: %s\n", mark, r.Name, r.SpreadsheetID, worksheet)
	}
	fmt.Println()

	return nil
}
