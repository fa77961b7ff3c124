package commands

import (
	"flag"
	"fmt"

	"go.uber.org/zap"
)

const APP = "netsuite-app-sheets"
const VERSION = "v0.1.0"

// Options are the global command line options shared by all commands.
type Options struct {
	Config string
	Debug  bool
	Logger *zap.Logger
}

// Command is the interface implemented by the CLI subcommands.
type Command interface {
	Name() string
	Description() string
	Usage() string
	Help()
	FlagSet() *flag.FlagSet
	Execute(args ...any) error
}

// Parse resolves the command line to a command, parsing the command's own flags.
// A command line without a command resolves to defaultCmd.
func Parse(cli []Command, defaultCmd Command, args []string) (Command, error) {
	if len(args) == 0 {
		return defaultCmd, nil
	}

	if args[0] == "help" {
		if len(args) > 1 {
			for _, c := range cli {
				if c.Name() == args[1] {
					c.Help()
					return nil, nil
				}
			}
		}

		usage(cli)
		return nil, nil
	}

	for _, c := range cli {
		if c.Name() == args[0] {
			flagset := c.FlagSet()
			if err := flagset.Parse(args[1:]); err != nil {
				return nil, err
			}

			return c, nil
		}
	}

	return nil, fmt.Errorf("invalid command '%s'", args[0])
}

func usage(cli []Command) {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] [--config <file>] <command> [options]\n", APP)
	fmt.Println()
	fmt.Println("  Commands:")

	for _, c := range cli {
		fmt.Printf("    %-13s %s\n", c.Name(), c.Description())
	}

	fmt.Println()
	fmt.Printf("  Use '%s help <command>' for command specific information\n", APP)
	fmt.Println()
}

func helpOptions(flagset *flag.FlagSet) {
	fmt.Println("  Options:")
	flagset.VisitAll(func(f *flag.Flag) {
		fmt.Printf("    --%-13s %s\n", f.Name, f.Usage)
	})
}
