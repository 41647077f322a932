package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2/google"

	"ghdigest/internal/archive"
	"ghdigest/internal/bigquery"
	"ghdigest/internal/config"
	"ghdigest/internal/digest"
	"ghdigest/internal/feed"
	"ghdigest/internal/platform/logger"
	"ghdigest/internal/report"
)

var (
	configPath string
	tokenFile  string
	xlsxPath   string
)

var rootCmd = &cobra.Command{
	Use:          "ghdigest",
	Short:        "Generate monthly GitHub activity digests",
	Long:         `ghdigest folds a month of a user's public GitHub events (issues, pull requests, reviews, releases) into a per-project digest on stdout.`,
	SilenceUsage: true,
}

var archiveCmd = &cobra.Command{
	Use:   "archive <month>",
	Short: "Build the digest from the GH Archive warehouse (cached per month)",
	Args:  cobra.ExactArgs(1),
	RunE:  runArchive,
}

var feedCmd = &cobra.Command{
	Use:   "feed <month> <user>",
	Short: "Build the digest by paging the live public events feed",
	Args:  cobra.ExactArgs(2),
	RunE:  runFeed,
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(archiveCmd, feedCmd)

	archiveCmd.Flags().StringVar(&configPath, "config", "config.toml", "Path to TOML config file")
	archiveCmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Also export the digest to this xlsx file")

	feedCmd.Flags().StringVar(&tokenFile, "token-file", "token", "File holding a GitHub bearer token (optional)")
	feedCmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Also export the digest to this xlsx file")
}

func runArchive(cmd *cobra.Command, args []string) error {
	month, err := parseMonth(args[0])
	if err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	owners := digest.NewOwnerSet(cfg.RepoOwners...)
	log := logger.Named("archive")

	store := archive.NewStore(".")
	events, err := store.Events(cmd.Context(), month, func(ctx context.Context) ([]string, error) {
		log.Info().Msg("requesting credentials")
		ts, err := google.DefaultTokenSource(ctx, bigquery.Scope)
		if err != nil {
			return nil, fmt.Errorf("obtain credentials: %w", err)
		}

		bar := newSpinner("Querying warehouse")
		defer finishBar(bar)

		client := bigquery.NewClient(bigquery.Options{TokenSource: ts})
		return client.MonthEvents(ctx, cfg.GCPProject, month, cfg.User)
	})
	if err != nil {
		return err
	}

	d, err := archive.Fold(events, owners)
	if err != nil {
		return err
	}

	if xlsxPath != "" {
		if err := report.NewExcelExporter(xlsxPath).Export(d, month, digest.Verbatim); err != nil {
			return err
		}
		log.Info().Str("file", xlsxPath).Msg("xlsx export written")
	}

	return digest.Render(os.Stdout, d, digest.Verbatim)
}

func runFeed(cmd *cobra.Command, args []string) error {
	month, err := parseMonth(args[0])
	if err != nil {
		return err
	}
	user := args[1]

	start, end, err := monthWindow(month)
	if err != nil {
		return err
	}

	token, err := readTokenFile(tokenFile)
	if err != nil {
		return err
	}
	log := logger.Named("feed")
	if token == "" {
		log.Warn().Msg("no token file, unauthenticated paging may stop early")
	}

	bar := newSpinner("Paging events feed")
	client := feed.NewClient(feed.Options{Token: token})
	events, err := client.CollectWindow(cmd.Context(), user, start, end)
	finishBar(bar)
	if err != nil {
		return err
	}
	log.Info().Int("events", len(events)).Str("month", month).Str("user", user).Msg("collected window")

	d, err := feed.Fold(events, digest.NewOwnerSet(digest.DefaultOwners...))
	if err != nil {
		return err
	}

	if xlsxPath != "" {
		if err := report.NewExcelExporter(xlsxPath).Export(d, month, digest.PublicURL); err != nil {
			return err
		}
		log.Info().Str("file", xlsxPath).Msg("xlsx export written")
	}

	return digest.Render(os.Stdout, d, digest.PublicURL)
}
