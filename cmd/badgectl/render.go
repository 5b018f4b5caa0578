package main

import (
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"streakBadgeAPI/internal/badge"
)

func newRenderCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <user>",
		Short: "Render a badge as SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			for _, name := range []string{"theme", "layout", "title"} {
				if v, _ := cmd.Flags().GetString(name); v != "" {
					q.Set(name, v)
				}
			}
			if hide, _ := cmd.Flags().GetBool("hide-border"); hide {
				q.Set("hide_border", "true")
			}

			opts, err := badge.ParseOptions(q)
			if err != nil {
				return err
			}

			svg, err := a.badgeService.RenderBadge(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}

			out, _ := cmd.Flags().GetString("output")
			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(svg)
				return err
			}
			if err := os.WriteFile(out, svg, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d bytes)\n", out, len(svg))
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	cmd.Flags().String("theme", "", "color theme")
	cmd.Flags().String("layout", "", "badge layout")
	cmd.Flags().String("title", "", "custom title")
	cmd.Flags().Bool("hide-border", false, "omit the border")
	return cmd
}
