package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/lawnchairsociety/roguestats/internal/history"
)

func newHistoryCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent analysis runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.cfg.History.Enabled {
				return fmt.Errorf("run history is disabled (set history.enabled in the config)")
			}

			h, err := history.Open(a.cfg.History.Config)
			if err != nil {
				return err
			}
			defer h.Close()

			runs, err := h.RecentRuns(limit)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "WHEN\tSOURCE\tLEVELS\tMONSTERS\tWEIGHTS\tCACHED\tID")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%g/%g\t%t\t%s\n",
					r.CreatedAt.Local().Format(time.DateTime), r.Source, r.Levels, r.TotalMonsters,
					r.LevelWeight, r.WanderWeight, r.CacheHit, r.ID)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to list")
	return cmd
}
