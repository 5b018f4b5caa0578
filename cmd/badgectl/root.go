package main

import (
	"net/http"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"streakBadgeAPI/internal/config"
	"streakBadgeAPI/internal/logging"
	"streakBadgeAPI/services"
)

type app struct {
	cfg          config.Config
	badgeService *services.BadgeService
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "badgectl",
		Short: "Inspect GitHub contribution streaks from the command line",
		Long: `badgectl fetches a GitHub contribution calendar with the same
configuration as the badge server and prints its stats or renders a badge.

Example usage:
  badgectl stats octocat                      # Print the stats table
  badgectl stats octocat --json               # Print the raw snapshot
  badgectl render octocat -o badge.svg        # Write a badge to a file
  badgectl render octocat --theme dark --layout full`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	root.PersistentFlags().String("env-file", ".env", "dotenv file to load before reading the environment")
	root.PersistentFlags().BoolP("verbose", "v", false, "debug logging")

	root.AddCommand(newStatsCmd(a), newRenderCmd(a))
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	envFile, _ := cmd.Flags().GetString("env-file")
	// A missing dotenv file is fine, the environment may already be set.
	_ = godotenv.Load(envFile)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level := "warn"
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = "debug"
	}
	logging.Setup(level, true)

	contributionService := services.NewContributionService(services.ContributionConfig{
		Token:     cfg.GitHubToken,
		Endpoint:  cfg.GitHubGraphQLURL,
		Timeout:   cfg.UpstreamTimeout,
		CacheTTL:  cfg.CacheTTL,
		CacheSize: cfg.CacheSize,
	}, &http.Client{})

	a.cfg = cfg
	a.badgeService = services.NewBadgeService(contributionService, cfg.Timezone)
	return nil
}
