package main

import (
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Load definitions and rebuild types as files change",
	Long: `Load model definitions and keep rebuilding the type registry whenever
a definition file is written, created or removed. Reload results are
logged; invalid definitions keep the previous registry.

With metrics.enabled the collectors are registered with the default
Prometheus registry.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		return app.Run()
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
