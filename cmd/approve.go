package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fantasy-tiktok-engine/approval"
)

var approveCmd = &cobra.Command{
	Use:   "approve",
	Short: "Manage the approval ledger",
}

var approveInitFlags struct {
	sampleJSON string
}

var approveInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the approval ledger, optionally seeded from a JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		var sample []approval.Row
		if approveInitFlags.sampleJSON != "" {
			data, err := os.ReadFile(approveInitFlags.sampleJSON)
			if err != nil {
				return err
			}
			if err := json.Unmarshal(data, &sample); err != nil {
				return fmt.Errorf("parse sample %s: %w", approveInitFlags.sampleJSON, err)
			}
		}
		ledger := approval.NewLedger(cfg.Paths.ApprovalCSV, cfg.Paths.ApprovalJSON)
		if err := ledger.Init(sample); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "initialized approval ledger")
		return nil
	},
}

var approveSetFlags struct {
	approved string
	reviewer string
	note     string
}

var approveSetCmd = &cobra.Command{
	Use:   "set <entry-id>",
	Short: "Approve or reject one entry id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if approveSetFlags.approved != "true" && approveSetFlags.approved != "false" {
			return fmt.Errorf("--approved must be true or false")
		}
		ledger := approval.NewLedger(cfg.Paths.ApprovalCSV, cfg.Paths.ApprovalJSON)
		if err := ledger.Set(args[0], approveSetFlags.approved == "true",
			approveSetFlags.reviewer, approveSetFlags.note); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "set approval %s -> %s\n", args[0], approveSetFlags.approved)
		return nil
	},
}

func init() {
	approveInitCmd.Flags().StringVar(&approveInitFlags.sampleJSON, "sample-json", "", "JSON file of rows to seed the ledger")
	approveSetCmd.Flags().StringVar(&approveSetFlags.approved, "approved", "", "true or false")
	approveSetCmd.Flags().StringVar(&approveSetFlags.reviewer, "reviewer", "cli", "reviewer name")
	approveSetCmd.Flags().StringVar(&approveSetFlags.note, "note", "", "review note")
	_ = approveSetCmd.MarkFlagRequired("approved")
	approveCmd.AddCommand(approveInitCmd, approveSetCmd)
	rootCmd.AddCommand(approveCmd)
}
