package main

import (
	"encoding/json"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"streakBadgeAPI/internal/badge"
	"streakBadgeAPI/internal/stats"
)

func newStatsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <user>",
		Short: "Print the contribution stats of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := a.badgeService.GetSnapshot(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(snap)
			}
			return writeStatsTable(cmd.OutOrStdout(), snap)
		},
	}
	cmd.Flags().Bool("json", false, "output as JSON")
	return cmd
}

// writeStatsTable prints one row per field of the full badge layout, so the
// table and the badge never disagree on wording.
func writeStatsTable(w io.Writer, snap *stats.Snapshot) error {
	full, err := badge.LookupLayout("full")
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(full.Fields))
	for _, f := range full.Fields {
		rows = append(rows, []string{f.Label, f.Value(snap)})
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
	)
	table.Header([]string{"Metric", "Value"})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}
