package cmd

import (
	"github.com/spf13/cobra"

	"fantasy-tiktok-engine/batch"
)

var runFlags struct {
	week     int
	kinds    []string
	doRender bool
	doUpload bool
	outdir   string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the weekly pipeline: plan, generate, approve, render, publish",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateWeek(runFlags.week); err != nil {
			return err
		}
		runner, err := batch.NewRunner(cfg, env)
		if err != nil {
			return err
		}
		return runner.RunPipeline(cmd.Context(), runFlags.week, runFlags.kinds,
			runFlags.doRender, runFlags.doUpload, runFlags.outdir)
	},
}

func init() {
	runCmd.Flags().IntVarP(&runFlags.week, "week", "w", 0, "NFL week (1-18)")
	runCmd.Flags().StringSliceVarP(&runFlags.kinds, "kinds", "k", nil, "content kinds (comma separated, default all)")
	runCmd.Flags().BoolVar(&runFlags.doRender, "render", false, "render avatar videos for approved items")
	runCmd.Flags().BoolVar(&runFlags.doUpload, "upload", false, "upload approved items as TikTok drafts")
	runCmd.Flags().StringVarP(&runFlags.outdir, "outdir", "o", "", "output root (default from config)")
	_ = runCmd.MarkFlagRequired("week")
	rootCmd.AddCommand(runCmd)
}
