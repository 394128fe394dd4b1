package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"fantasy-tiktok-engine/batch"
	"fantasy-tiktok-engine/generation"
	"fantasy-tiktok-engine/types"
)

var planFlags struct {
	week  int
	kinds []string
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the deterministic content plan for a week",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateWeek(planFlags.week); err != nil {
			return err
		}
		items, err := batch.PlanWeek(cfg, planFlags.week, planFlags.kinds)
		if err != nil {
			return err
		}
		record := types.PlanRecord{
			Week:  planFlags.week,
			Kinds: generation.NormalizeKinds(planFlags.kinds),
			Items: items,
		}
		out, err := json.MarshalIndent(record, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	planCmd.Flags().IntVarP(&planFlags.week, "week", "w", 0, "NFL week (1-18)")
	planCmd.Flags().StringSliceVarP(&planFlags.kinds, "kinds", "k", nil, "content kinds (comma separated, default all)")
	_ = planCmd.MarkFlagRequired("week")
	rootCmd.AddCommand(planCmd)
}
