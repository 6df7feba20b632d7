// Package cli parses the fabrica command line into an app.Config.
package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/fabrica/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("fabrica", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
fabrica - a declarative test-object factory for Go.

Usage:
  fabrica [options] [FACTORIES_PATH]

Arguments:
  FACTORIES_PATH
    Path to a single .hcl file or a directory containing .hcl factory files.

Options:
`)
		flagSet.PrintDefaults()
	}

	factoriesFlag := flagSet.String("factories", "", "Path to the factory file or directory.")
	fFlag := flagSet.String("f", "", "Path to the factory file or directory (shorthand).")
	nameFlag := flagSet.String("name", "", "Factory to preview. Empty lists registered factories.")
	countFlag := flagSet.Int("count", 1, "Number of instances to build.")
	strategyFlag := flagSet.String("strategy", "attributes_for", "Build strategy. Options: 'attributes_for', 'build', 'create', 'stub'.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *factoriesFlag != "" {
		path = *factoriesFlag
	} else if *fFlag != "" {
		path = *fFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Factories path determined.", "path", path)

	if path == "" {
		slog.Debug("No factories path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		FactoriesPath: path,
		FactoryName:   *nameFlag,
		Count:         *countFlag,
		Strategy:      strings.ToLower(*strategyFlag),
		LogFormat:     logFormat,
		LogLevel:      logLevel,
	})

	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
