package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/blqdash/core"
	"github.com/huangsam/blqdash/internal/contract"
	"github.com/huangsam/blqdash/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// serveCmd runs the interactive dashboard.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive dashboard",
	Long: `Start the web dashboard: a year range selector, a metric checklist and a
volume toggle driving five charts.

Only the charts that depend on a changed control are recomputed. Computed
figures go through the figure cache and every computation is written to the
view log when one is configured.

Examples:
  blqdash serve
  blqdash serve --addr 0.0.0.0:8050 --views-backend sqlite`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(core.NewEngine(traffic, cacheManager))
		if !viper.GetBool("no-warm") {
			if err := srv.Warm(ctx); err != nil {
				contract.LogWarn("Cannot warm figure cache", err)
			}
		}
		if err := srv.ListenAndServe(ctx, cfg.Addr); err != nil {
			contract.LogFatal("Dashboard server failed", err)
		}
	},
}
