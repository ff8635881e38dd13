package main

import (
	"fmt"

	"github.com/artpar/modelkit/adapters/valuegen"
	"github.com/artpar/modelkit/core/definition"
	"github.com/artpar/modelkit/core/registry"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and model definitions",
	Long: `Validate the modelkit configuration and every definition file.

Checks:
  - Config file (or MODELKIT_* environment) is valid
  - Definition files parse and declare known field kinds
  - References between models resolve without cycles
  - Every model builds into a type

Examples:
  modelkit validate
  modelkit validate --definitions ./models`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(out, "  %s Config valid\n", crossMark)
		return fmt.Errorf("config error: %w", err)
	}
	fmt.Fprintf(out, "  %s Config valid\n", checkMark)

	defs, err := definition.ParseDir(cfg.Definitions.Dir)
	if err != nil {
		fmt.Fprintf(out, "  %s Definitions parse\n", crossMark)
		return err
	}
	fmt.Fprintf(out, "  %s Definitions parse: %d file(s) in %s\n", checkMark, len(defs), cfg.Definitions.Dir)

	ordered, err := definition.Order(defs, nil)
	if err != nil {
		fmt.Fprintf(out, "  %s References resolve\n", crossMark)
		return err
	}
	fmt.Fprintf(out, "  %s References resolve\n", checkMark)

	types, err := definition.Build(registry.New(zerolog.Nop()), ordered, definition.WithFactories(valuegen.Defaults()))
	if err != nil {
		fmt.Fprintf(out, "  %s Types build\n", crossMark)
		return err
	}
	fmt.Fprintf(out, "  %s Types build: %d type(s)\n", checkMark, len(types))

	return nil
}

const (
	checkMark = "\033[32m✓\033[0m"
	crossMark = "\033[31m✗\033[0m"
)
