package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"fantasy-tiktok-engine/metrics"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Record and report post engagement metrics",
}

var recordPostFlags struct {
	record   metrics.PostRecord
	jsonBody string
}

var recordPostCmd = &cobra.Command{
	Use:   "record-post",
	Short: "Insert or update one post's metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		record := recordPostFlags.record
		if recordPostFlags.jsonBody != "" {
			if err := json.Unmarshal([]byte(recordPostFlags.jsonBody), &record); err != nil {
				return fmt.Errorf("parse --json-record: %w", err)
			}
		}
		store := metrics.NewStore(cfg.Paths.MetricsCSV)
		if err := store.Upsert(record); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "recorded post %s\n", record.PostID)
		return nil
	},
}

var dailySummaryDate string

var dailySummaryCmd = &cobra.Command{
	Use:   "daily-summary",
	Short: "Aggregate one day's posts into a summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := metrics.NewStore(cfg.Paths.MetricsCSV)
		sum, err := store.Summarize(dailySummaryDate)
		if err != nil {
			return err
		}
		out, err := json.Marshal(sum)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

var exportWeekFlags struct {
	week int
	out  string
}

var exportWeekCmd = &cobra.Command{
	Use:   "export-week",
	Short: "Export one week's posts into a standalone CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateWeek(exportWeekFlags.week); err != nil {
			return err
		}
		store := metrics.NewStore(cfg.Paths.MetricsCSV)
		if err := store.ExportWeek(exportWeekFlags.week, exportWeekFlags.out); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote manifest to %s\n", exportWeekFlags.out)
		return nil
	},
}

func init() {
	f := recordPostCmd.Flags()
	f.StringVar(&recordPostFlags.record.PostID, "post-id", "", "unique post id")
	f.StringVar(&recordPostFlags.record.Date, "date", "", "YYYY-MM-DD")
	f.StringVar(&recordPostFlags.record.Player, "player", "", "player name")
	f.StringVar(&recordPostFlags.record.Type, "type", "", "content kind")
	f.IntVar(&recordPostFlags.record.Views, "views", 0, "view count")
	f.IntVar(&recordPostFlags.record.Likes, "likes", 0, "like count")
	f.IntVar(&recordPostFlags.record.Comments, "comments", 0, "comment count")
	f.IntVar(&recordPostFlags.record.Shares, "shares", 0, "share count")
	f.Float64Var(&recordPostFlags.record.Retention3s, "retention-3s", 0, "3 second retention")
	f.Float64Var(&recordPostFlags.record.Retention10s, "retention-10s", 0, "10 second retention")
	f.Float64Var(&recordPostFlags.record.CTR, "ctr", 0, "click-through rate")
	f.IntVar(&recordPostFlags.record.EmailSignups, "email-signups", 0, "attributed signups")
	f.StringVar(&recordPostFlags.record.UTMCampaign, "utm-campaign", "", "utm campaign tag")
	f.IntVar(&recordPostFlags.record.Week, "week", 0, "NFL week")
	f.StringVar(&recordPostFlags.jsonBody, "json-record", "", "JSON payload instead of flags")

	dailySummaryCmd.Flags().StringVar(&dailySummaryDate, "date", "", "YYYY-MM-DD")
	_ = dailySummaryCmd.MarkFlagRequired("date")

	exportWeekCmd.Flags().IntVarP(&exportWeekFlags.week, "week", "w", 0, "NFL week (1-18)")
	exportWeekCmd.Flags().StringVarP(&exportWeekFlags.out, "out", "o", ".metrics/manifest_week.csv", "output CSV path")
	_ = exportWeekCmd.MarkFlagRequired("week")

	metricsCmd.AddCommand(recordPostCmd, dailySummaryCmd, exportWeekCmd)
	rootCmd.AddCommand(metricsCmd)
}
