/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ssargent/wpilog/pkg/config"
	"github.com/ssargent/wpilog/pkg/di"
)

var container *di.Container

// skipConfigAnnotation marks commands that run on the default configuration
// without reading the config file
const skipConfigAnnotation = "wpilog/skip-config"

// SetContainer injects the dependency container used by every command
func SetContainer(c *di.Container) {
	container = c
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "wpilog",
	Short: "Inspect WPILOG data logs",
	Long: `wpilog decodes WPILib data logs (.wpilog, optionally zstd-compressed)
and shows their header, entries, values and raw records. Parsed logs can be
kept in a local catalog for later browsing.

Examples:
  wpilog info match.wpilog
  wpilog entries match.wpilog --prefix /drive
  wpilog values match.wpilog /drive/left/speed
  wpilog catalog add logs/*.wpilog`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if container == nil {
			container = di.NewContainer()
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := container.Configure(cfg, cmd.ErrOrStderr()); err != nil {
			return fmt.Errorf("failed to configure logging: %w", err)
		}

		format, _ := cmd.Flags().GetString("output")
		if err := validateOutput(format); err != nil {
			return err
		}

		mode, _ := cmd.Flags().GetString("color")
		return setupColor(mode, cmd.OutOrStdout())
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return container.WriteMetrics()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error:"), err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration named by --config, or the default
// config file when it exists, and applies command-line overrides
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")

	cfg := config.DefaultConfig()
	switch {
	case cmd.Annotations[skipConfigAnnotation] != "":
	case configPath != "":
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	case config.ConfigExists(config.GetDefaultConfigPath()):
		loaded, err := config.LoadConfig(config.GetDefaultConfigPath())
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level, _ = cmd.Flags().GetString("log-level")
	}
	if cmd.Flags().Changed("catalog-dir") {
		cfg.Catalog.Dir, _ = cmd.Flags().GetString("catalog-dir")
	}
	if cmd.Flags().Changed("metrics-textfile") {
		cfg.Metrics.Textfile, _ = cmd.Flags().GetString("metrics-textfile")
	}
	applyDecodeFlags(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to configuration file (default: ~/.config/wpilog/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("catalog-dir", "", "Catalog directory (overrides config)")
	rootCmd.PersistentFlags().String("metrics-textfile", "", "Write Prometheus metrics to this file after the command")
	rootCmd.PersistentFlags().StringP("output", "o", "table", "Output format (table or json)")
	rootCmd.PersistentFlags().String("color", "auto", "Colorize output (auto, always, never)")
}
