package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/lawnchairsociety/roguestats/internal/leveling"
)

func newXPLevelsCmd() *cobra.Command {
	var (
		xp        int64
		fromLevel int
	)

	cmd := &cobra.Command{
		Use:   "xplevels",
		Short: "Print the experience needed for each level",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if cmd.Flags().Changed("from-level") {
				if !cmd.Flags().Changed("xp") {
					return fmt.Errorf("--from-level requires --xp")
				}
				if fromLevel < 1 || fromLevel > leveling.MaxPlayerLevel {
					return fmt.Errorf("--from-level must be between 1 and %d", leveling.MaxPlayerLevel)
				}
			}
			if !cmd.Flags().Changed("xp") {
				return leveling.WriteTable(out)
			}

			fmt.Fprintf(out, "%d XP is level %d\n", xp, leveling.LevelForXP(xp))
			if cmd.Flags().Changed("from-level") {
				writeLevelChange(out, leveling.CheckLevel(fromLevel, xp))
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&xp, "xp", 0, "Print the level reached with this much experience")
	cmd.Flags().IntVar(&fromLevel, "from-level", 1, "With --xp, print the levels gained since this level")
	return cmd
}

func writeLevelChange(w io.Writer, info leveling.LevelUpInfo) {
	switch {
	case info.Gained() > 0:
		fmt.Fprintf(w, "gained %d levels since level %d\n", info.Gained(), info.OldLevel)
	case info.NewLevel < info.OldLevel:
		fmt.Fprintf(w, "lost %d levels since level %d\n", info.OldLevel-info.NewLevel, info.OldLevel)
	default:
		fmt.Fprintf(w, "no level change since level %d\n", info.OldLevel)
	}
	if info.NewLevel < leveling.MaxPlayerLevel {
		fmt.Fprintf(w, "level %d needs %d XP\n", info.NewLevel+1, leveling.XPForLevel(info.NewLevel+1))
	}
}
