package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/lawnchairsociety/roguestats/internal/cache"
)

func newCacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the parsed spawn log cache",
	}

	openStore := func() (*cache.Store, error) {
		return cache.New(a.cfg.Cache.StoreConfig())
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List cached spawn logs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			entries, err := store.Entries()
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No cache entries in %s\n", store.Dir())
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CACHED\tSOURCE\tLEVELS\tMONSTERS\tFILE")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n",
					e.ModTime.Local().Format(time.DateTime), e.Header.Filename,
					e.Header.Levels, e.Header.TotalMonsters, e.Path)
			}
			return tw.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every cache entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			removed, err := store.Clear()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cache entries from %s\n", removed, store.Dir())
			return nil
		},
	})

	return cmd
}
