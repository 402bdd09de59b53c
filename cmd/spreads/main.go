// Command spreads is the command-line front end of the spread analyzer.
package main

import (
	"fmt"
	"os"
	"strings"

	"spread-analyzer/internal/cli"
	"spread-analyzer/internal/config"
	apperrors "spread-analyzer/internal/errors"
	"spread-analyzer/internal/logging"
)

func main() {
	configDir := configDirFromArgs(os.Args[1:])

	cfg, err := config.Load(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLoggerWithConfig(cfg.LogConfig())

	rootCmd := cli.NewRootCmd(cfg, logger)
	if err := rootCmd.Execute(); err != nil {
		var pe *apperrors.PreconditionError
		if apperrors.As(err, &pe) {
			logger.Debug().Str("op", pe.Op).Str("field", pe.Field).Msg("Precondition failed")
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode is 2 for rejected input and 1 for everything else.
func exitCode(err error) int {
	if apperrors.Is(err, apperrors.ErrPrecondition) || apperrors.Is(err, apperrors.ErrConfigInvalid) {
		return 2
	}
	return 1
}

// configDirFromArgs finds --config before cobra parses flags; the config
// decides flag defaults.
func configDirFromArgs(args []string) string {
	for i, arg := range args {
		switch {
		case arg == "--":
			return ""
		case arg == "--config" && i+1 < len(args):
			return args[i+1]
		case strings.HasPrefix(arg, "--config="):
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	return ""
}
