package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/erpsync/netsuite-app-sheets/commands"
	"github.com/erpsync/netsuite-app-sheets/config"
)

var cli = []commands.Command{
	&commands.SyncCmd,
	&commands.DownloadCmd,
	&commands.UploadCmd,
	&commands.ReportsCmd,
	&commands.VersionCmd,
}

var options = commands.Options{
	Config: config.DefaultConfigFile,
	Debug:  false,
}

func main() {
	flag.StringVar(&options.Config, "config", options.Config, "reports configuration file")
	flag.BoolVar(&options.Debug, "debug", options.Debug, "enables debug logging")
	flag.Parse()

	options.Logger = newLogger(options.Debug)
	defer options.Logger.Sync()

	cmd, err := commands.Parse(cli, &commands.SyncCmd, flag.Args())
	if err != nil {
		fmt.Printf("\n   ERROR: %v\n\n", err)
		os.Exit(1)
	}

	if cmd == nil {
		return
	}

	if err := cmd.Execute(&options); err != nil {
		fmt.Printf("\n   ERROR: %v\n\n", err)
		os.Exit(1)
	}
}

func newLogger(debug bool) *zap.Logger {
	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}

	encoder := zap.NewProductionEncoderConfig()
	encoder.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoder),
		zapcore.Lock(os.Stdout),
		level)

	return zap.New(core)
}
