package main

import (
	"fmt"
	"os"

	"github.com/artpar/modelkit/bootstrap"
	"github.com/artpar/modelkit/config"
	"github.com/artpar/modelkit/core/formatter"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile        string
	definitionsDir string
	outputFormat   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "modelkit",
	Short: "Declarative data models with coercion, defaults and validation",
	Long: `modelkit loads model definitions from YAML and checks records
against them.

Quick start:
  modelkit validate             # Check config and definitions
  modelkit types                # List model types
  modelkit check person a.yaml  # Construct, validate and print a record

Definitions are read from the directory named by definitions.dir in the
config file, MODELKIT_DEFINITIONS_DIR, or --definitions.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "modelkit.yaml", "config file path")
	rootCmd.PersistentFlags().StringVarP(&definitionsDir, "definitions", "d", "", "model definitions directory (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "output format: "+fmt.Sprint(formatter.List())+" (overrides config)")
}

// loadConfig reads the config file or environment and applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadWithFallback(cfgFile)
	if err != nil {
		return nil, err
	}
	if definitionsDir != "" {
		cfg.Definitions.Dir = definitionsDir
	}
	if outputFormat != "" {
		if _, err := formatter.Lookup(outputFormat); err != nil {
			return nil, err
		}
		cfg.Output.Format = outputFormat
	}
	return cfg, nil
}

func newApp(cmd *cobra.Command) (*bootstrap.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return bootstrap.New(bootstrap.Options{Config: cfg, LogWriter: cmd.ErrOrStderr()})
}
