package cmd

import (
	"github.com/spf13/cobra"

	"fantasy-tiktok-engine/batch"
)

var renderLocalFlags struct {
	week   int
	outdir string
}

var renderLocalCmd = &cobra.Command{
	Use:   "render-local",
	Short: "Compose local MP4s for a week's scripts with ffmpeg",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateWeek(renderLocalFlags.week); err != nil {
			return err
		}
		outdir := renderLocalFlags.outdir
		if outdir == "" {
			outdir = cfg.Paths.Output
		}
		return batch.RunLocalRender(cmd.Context(), renderLocalFlags.week, outdir)
	},
}

func init() {
	renderLocalCmd.Flags().IntVarP(&renderLocalFlags.week, "week", "w", 0, "NFL week (1-18)")
	renderLocalCmd.Flags().StringVarP(&renderLocalFlags.outdir, "outdir", "o", "", "output root (default from config)")
	_ = renderLocalCmd.MarkFlagRequired("week")
	rootCmd.AddCommand(renderLocalCmd)
}
