package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lawnchairsociety/roguestats/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "serve <infile>",
		Short: "Serve a live report that follows changes to the spawn log",
		Long: `Serves the report for infile at GET /report (json, text or yaml via
?format=) and pushes every recomputed report to WebSocket clients at /ws.
The report is recomputed whenever infile changes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg.Serve
			if address != "" {
				cfg.Address = address
			}

			eng, closeFn := a.openEngine()
			defer closeFn()

			srv, err := server.New(cfg, eng, args[0], a.weights(cmd), a.cfg.Output.TextOptions())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "Listen address (default from config)")
	cmd.Flags().IntVarP(&a.levelWeight, "level-weight", "l", 1, "Weight of level monsters (sign is ignored)")
	cmd.Flags().IntVarP(&a.wanderWeight, "wander-weight", "w", 1, "Weight of wander monsters (sign is ignored)")
	cmd.Flags().BoolVar(&a.noCache, "no-cache", false, "Neither read nor write the cache")
	return cmd
}
