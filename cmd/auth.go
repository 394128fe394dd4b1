package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"fantasy-tiktok-engine/adapters"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "TikTok OAuth helpers",
}

var loginURLFlags struct {
	state  string
	scopes []string
}

var loginURLCmd = &cobra.Command{
	Use:   "login-url",
	Short: "Print the TikTok authorization URL",
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := adapters.BuildUpload(env)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), backend.BuildLoginURL(loginURLFlags.state, loginURLFlags.scopes))
		return nil
	},
}

var exchangeCmd = &cobra.Command{
	Use:   "exchange <code>",
	Short: "Exchange an authorization code for tokens",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := adapters.BuildUpload(env)
		if err != nil {
			return err
		}
		tokens, err := backend.ExchangeCode(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		// Tokens go to stdout only; they are never logged.
		out, err := json.MarshalIndent(tokens, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	loginURLCmd.Flags().StringVar(&loginURLFlags.state, "state", "state", "OAuth state parameter")
	loginURLCmd.Flags().StringSliceVar(&loginURLFlags.scopes, "scopes", []string{"user.info.basic", "video.upload"}, "OAuth scopes")
	authCmd.AddCommand(loginURLCmd, exchangeCmd)
	rootCmd.AddCommand(authCmd)
}
