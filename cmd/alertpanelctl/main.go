// Command alertpanelctl renders alert frames offline, the same way the
// alert panel API does, and exposes the tag colour and duration helpers.
//
//	alertpanelctl render -f frames.json --sort priority -o yaml
//	alertpanelctl color env:prod
//	alertpanelctl humanize 93784000
//	alertpanelctl bench -f frames.json --duration 10s --workers 8
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/platformbuilds/mirador-alert-panel/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "alertpanelctl",
		Short:        "Render and inspect alert list panel rows",
		Version:      config.ServiceVersion,
		SilenceUsage: true,
	}
	root.AddCommand(newRenderCmd(), newColorCmd(), newHumanizeCmd(), newBenchCmd())
	return root
}
