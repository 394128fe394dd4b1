// Package cmd holds the CLI surface. Every subcommand resolves config and
// the environment snapshot through the root command's pre-run hook.
package cmd

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"fantasy-tiktok-engine/config"
)

var (
	cfgFile string
	verbose bool

	cfg *config.Config
	env config.Env
)

var rootCmd = &cobra.Command{
	Use:   "fantasy-tiktok",
	Short: "Fantasy football TikTok content pipeline",
	Long: `fantasy-tiktok plans, generates, approves, renders and publishes
short-form fantasy football content. All external backends honor DRY_RUN;
live toggles without credentials fail loudly at startup.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		env = config.LoadEnv()
		if env.DryRun {
			log.Info().Msg("DRY_RUN enabled: all backends are deterministic stubs")
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// validateWeek bounds week to the NFL regular season.
func validateWeek(week int) error {
	if week < 1 || week > 18 {
		return fmt.Errorf("week must be between 1 and 18, got %d", week)
	}
	return nil
}
