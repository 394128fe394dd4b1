package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"fantasy-tiktok-engine/export"
)

var exportScheduleFlags struct {
	week      int
	startDate string
	timezone  string
	outdir    string
}

var exportScheduleCmd = &cobra.Command{
	Use:   "export-schedule",
	Short: "Write scheduler_manifest.csv with posting times for a week's manifest",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateWeek(exportScheduleFlags.week); err != nil {
			return err
		}
		outdir := exportScheduleFlags.outdir
		if outdir == "" {
			outdir = cfg.Paths.Output
		}
		path, err := export.GenerateSchedulerManifest(exportScheduleFlags.week, exportScheduleFlags.startDate, exportScheduleFlags.timezone, outdir)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	exportScheduleCmd.Flags().IntVarP(&exportScheduleFlags.week, "week", "w", 0, "NFL week (1-18)")
	exportScheduleCmd.Flags().StringVar(&exportScheduleFlags.startDate, "start-date", "", "first posting day (YYYY-MM-DD)")
	exportScheduleCmd.Flags().StringVar(&exportScheduleFlags.timezone, "timezone", "America/Los_Angeles", "IANA timezone for posting times")
	exportScheduleCmd.Flags().StringVarP(&exportScheduleFlags.outdir, "outdir", "o", "", "output root (default from config)")
	_ = exportScheduleCmd.MarkFlagRequired("week")
	_ = exportScheduleCmd.MarkFlagRequired("start-date")
	rootCmd.AddCommand(exportScheduleCmd)
}
