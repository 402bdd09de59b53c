// Package cli provides the command-line interface for the spread analyzer.
package cli

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"spread-analyzer/internal/config"
	"spread-analyzer/internal/logging"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2026-10-01"
)

// App holds the application dependencies.
type App struct {
	Config    *config.Config
	Logger    zerolog.Logger
	ConfigDir string
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	rootCmd := &cobra.Command{
		Use:   "spreads",
		Short: "Option spread analytics",
		Long: `Spreads values option contracts and enumerates multi-leg option
strategies (straddles, strangles, butterflies, condors, iron condors,
ratio spreads, christmas trees and calendar spreads) against an option
chain snapshot, reporting cost, Greeks, max profit, max loss and
breakevens over a three standard deviation price range.

Chains come from CSV files or the built-in "may" and "jul" samples.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			app.ConfigDir, _ = cmd.Flags().GetString("config")
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(logging.WithLogger(ctx, app.Logger))
			return nil
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/spread-analyzer)")
	rootCmd.PersistentFlags().Bool("json", cfg.UI.Output == "json", "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	addCoreCommands(rootCmd, app)
	rootCmd.AddCommand(newPriceCmd(app))
	rootCmd.AddCommand(newChainCmd(app))
	rootCmd.AddCommand(newGenerateCmd(app))
	rootCmd.AddCommand(newHedgeCmd(app))
	rootCmd.AddCommand(newForwardCmd(app))

	return rootCmd
}

// addCoreCommands adds core utility commands.
func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("Spread Analyzer v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and validate application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			return showConfig(output, app.Config)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			path := config.ConfigPath(app.ConfigDir)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": path})
			} else {
				output.Println(path)
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("✓ Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) error {
	output.Bold("Market")
	output.Printf("  Stock Price:     %.2f\n", cfg.Market.StockPrice)
	output.Printf("  Risk-free Rate:  %.4f\n", cfg.Market.RiskFreeRate)
	output.Printf("  Volatility:      %.2f%%\n", cfg.Market.Volatility)
	output.Printf("  Expiry (years):  %.4f near, %.4f far\n", cfg.Market.TimeToExpiration, cfg.Market.FarTimeToExpiration)
	output.Println()

	output.Bold("Chain")
	if cfg.Chain.CallsFile != "" {
		output.Printf("  Near:            %s, %s\n", cfg.Chain.CallsFile, cfg.Chain.PutsFile)
	} else {
		output.Printf("  Near:            sample %q\n", cfg.Chain.Sample)
	}
	if cfg.Chain.FarCallsFile != "" {
		output.Printf("  Far:             %s, %s\n", cfg.Chain.FarCallsFile, cfg.Chain.FarPutsFile)
	} else {
		output.Printf("  Far:             sample %q\n", cfg.Chain.FarSample)
	}
	output.Println()

	output.Bold("Analysis")
	output.Printf("  Range:           %g\n", cfg.Analysis.Range)
	output.Printf("  Inner/Outer:     %g / %g\n", cfg.Analysis.InnerRange, cfg.Analysis.OuterRange)
	output.Printf("  Sort:            %s\n", cfg.Analysis.Sort)
	output.Printf("  Top:             %d\n", cfg.Analysis.Top)
	output.Println()

	output.Bold("Logging")
	output.Printf("  Level:           %s\n", cfg.Logging.Level)
	output.Printf("  File:            %v\n", cfg.Logging.File)

	return nil
}
